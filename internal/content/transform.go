package content

import (
	"time"

	"go-blog-app/internal/data"
)

// CategoryRef is the denormalized category shown alongside a post.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DisplayPost is a post ready for presentation. Content is still raw HTML;
// callers sanitize it at the response boundary.
type DisplayPost struct {
	ID                 string        `json:"id"`
	Title              string        `json:"title"`
	Content            string        `json:"content"`
	CoverImageURL      string        `json:"coverImageUrl"`
	Published          bool          `json:"published"`
	CreatedAt          time.Time     `json:"createdAt"`
	ReadingTimeMinutes int           `json:"readingTimeMinutes"`
	Categories         []CategoryRef `json:"categories"`
}

// ToDisplayPost derives the reading time and resolves the categories of p.
func ToDisplayPost(p *data.Post) DisplayPost {
	categories := make([]CategoryRef, 0, len(p.Categories))
	for _, c := range p.Categories {
		categories = append(categories, CategoryRef{ID: c.ID, Name: c.Name})
	}
	return DisplayPost{
		ID:                 p.ID,
		Title:              p.Title,
		Content:            p.Content,
		CoverImageURL:      p.CoverImageURL,
		Published:          p.Published,
		CreatedAt:          p.CreatedAt,
		ReadingTimeMinutes: EstimateMinutes(p.Content),
		Categories:         categories,
	}
}

// ToDisplayPosts transforms posts preserving their order.
func ToDisplayPosts(posts []*data.Post) []DisplayPost {
	out := make([]DisplayPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, ToDisplayPost(p))
	}
	return out
}

// Sanitized returns a copy of d whose content went through Sanitize.
func (d DisplayPost) Sanitized() DisplayPost {
	d.Content = Sanitize(d.Content)
	return d
}
