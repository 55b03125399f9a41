package data

import (
	"errors"
	"time"
)

// ErrNoRecord is returned by repositories when a lookup matches no row.
var ErrNoRecord = errors.New("no matching record found")

// ErrCategoryReferenced is returned when deleting a category still attached to posts.
var ErrCategoryReferenced = errors.New("category is referenced by posts")

// Post represents a single article in the database.
// Categories is resolved from the post_categories join and is not a column.
type Post struct {
	ID            string      `db:"id" json:"id"`
	Title         string      `db:"title" json:"title"`
	Content       string      `db:"content" json:"content"`
	CoverImageURL string      `db:"cover_image_url" json:"coverImageUrl"`
	Published     bool        `db:"published" json:"published"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`
	Categories    []*Category `db:"-" json:"categories"`
}

// CategoryIDs returns the ids of the post's resolved categories.
func (p *Post) CategoryIDs() []string {
	ids := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// Category represents a named tag applied to posts.
type Category struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// PostFilter narrows post reads. PublishedOnly hides drafts.
type PostFilter struct {
	PublishedOnly bool
}

// postCategoryRow is one resolved row of the post_categories join.
type postCategoryRow struct {
	PostID    string    `db:"post_id"`
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}
