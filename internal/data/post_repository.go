package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const postColumns = `p.id, p.title, p.content, p.cover_image_url, p.published, p.created_at`

// SQLPostRepository is a concrete implementation of the PostRepository interface using sqlx.
// Every read resolves the post's categories through the post_categories join.
type SQLPostRepository struct {
	db *sqlx.DB
}

// NewSQLPostRepository creates a new SQLPostRepository.
func NewSQLPostRepository(db *sqlx.DB) *SQLPostRepository {
	return &SQLPostRepository{db: db}
}

// FindPostByID retrieves a single post by its ID. With filter.PublishedOnly a
// draft is reported exactly like a missing row.
func (r *SQLPostRepository) FindPostByID(ctx context.Context, id string, filter PostFilter) (*Post, error) {
	return r.findPostByID(ctx, r.db, id, filter)
}

func (r *SQLPostRepository) findPostByID(ctx context.Context, q sqlx.QueryerContext, id string, filter PostFilter) (*Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts p WHERE p.id = ?`
	args := []interface{}{id}
	if filter.PublishedOnly {
		query += ` AND p.published = ?`
		args = append(args, true)
	}

	var post Post
	if err := sqlx.GetContext(ctx, q, &post, r.db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post with id '%s': %w", id, ErrNoRecord)
		}
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	if err := r.attachCategories(ctx, q, []*Post{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

// FindManyPosts retrieves posts matching filter, newest first.
func (r *SQLPostRepository) FindManyPosts(ctx context.Context, filter PostFilter) ([]*Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts p`
	var args []interface{}
	if filter.PublishedOnly {
		query += ` WHERE p.published = ?`
		args = append(args, true)
	}
	query += ` ORDER BY p.created_at DESC`

	posts := []*Post{}
	if err := r.db.SelectContext(ctx, &posts, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	if err := r.attachCategories(ctx, r.db, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// FindRelatedCandidates retrieves at most limit posts, other than excludeID,
// that share at least one of categoryIDs, newest first.
func (r *SQLPostRepository) FindRelatedCandidates(ctx context.Context, excludeID string, categoryIDs []string, filter PostFilter, limit int) ([]*Post, error) {
	posts := []*Post{}
	if len(categoryIDs) == 0 || limit <= 0 {
		return posts, nil
	}

	query := `SELECT ` + postColumns + ` FROM posts p
		WHERE p.id <> ?
		AND EXISTS (
			SELECT 1 FROM post_categories pc
			WHERE pc.post_id = p.id AND pc.category_id IN (?)
		)`
	args := []interface{}{excludeID, categoryIDs}
	if filter.PublishedOnly {
		query += ` AND p.published = ?`
		args = append(args, true)
	}
	query += ` ORDER BY p.created_at DESC LIMIT ?`
	args = append(args, limit)

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build related posts query: %w", err)
	}
	if err := r.db.SelectContext(ctx, &posts, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get related posts: %w", err)
	}
	if err := r.attachCategories(ctx, r.db, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost inserts a new post together with its category links.
// The post's ID and CreatedAt are assigned here when unset, and its
// Categories are populated from the stored links.
func (r *SQLPostRepository) CreatePost(ctx context.Context, post *Post, categoryIDs []string) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `INSERT INTO posts (id, title, content, cover_image_url, published, created_at)
			VALUES (:id, :title, :content, :cover_image_url, :published, :created_at)`
		if _, err := tx.NamedExecContext(ctx, query, post); err != nil {
			return fmt.Errorf("failed to execute create post query: %w", err)
		}
		if err := insertPostCategories(ctx, tx, post.ID, categoryIDs); err != nil {
			return err
		}
		return r.attachCategories(ctx, tx, []*Post{post})
	})
}

// UpdatePost replaces the mutable fields of an existing post and its category
// links wholesale. CreatedAt is never changed; post is refreshed from the store.
func (r *SQLPostRepository) UpdatePost(ctx context.Context, post *Post, categoryIDs []string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := postExists(ctx, tx, post.ID); err != nil {
			return err
		}

		query := `UPDATE posts SET title = :title, content = :content, cover_image_url = :cover_image_url, published = :published WHERE id = :id`
		if _, err := tx.NamedExecContext(ctx, query, post); err != nil {
			return fmt.Errorf("failed to update post: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM post_categories WHERE post_id = ?`), post.ID); err != nil {
			return fmt.Errorf("failed to clear post categories: %w", err)
		}
		if err := insertPostCategories(ctx, tx, post.ID, categoryIDs); err != nil {
			return err
		}

		updated, err := r.findPostByID(ctx, tx, post.ID, PostFilter{})
		if err != nil {
			return err
		}
		*post = *updated
		return nil
	})
}

// SetPublished sets the published flag of a post. Setting the current value is a no-op.
func (r *SQLPostRepository) SetPublished(ctx context.Context, id string, published bool) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := postExists(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE posts SET published = ? WHERE id = ?`), published, id); err != nil {
			return fmt.Errorf("failed to set published flag: %w", err)
		}
		return nil
	})
}

// DeletePost removes a post and its category links from the database by its ID.
func (r *SQLPostRepository) DeletePost(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM post_categories WHERE post_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete post categories: %w", err)
		}
		result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM posts WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("no post found to delete with id '%s': %w", id, ErrNoRecord)
		}
		return nil
	})
}

// attachCategories resolves the categories of every post in one query.
func (r *SQLPostRepository) attachCategories(ctx context.Context, q sqlx.QueryerContext, posts []*Post) error {
	if len(posts) == 0 {
		return nil
	}

	byID := make(map[string]*Post, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		p.Categories = []*Category{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	query, args, err := sqlx.In(`SELECT pc.post_id, c.id, c.name, c.created_at
		FROM post_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id IN (?)
		ORDER BY c.created_at DESC, c.name`, ids)
	if err != nil {
		return fmt.Errorf("failed to build post categories query: %w", err)
	}

	var rows []postCategoryRow
	if err := sqlx.SelectContext(ctx, q, &rows, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to get post categories: %w", err)
	}
	for _, row := range rows {
		if p, ok := byID[row.PostID]; ok {
			p.Categories = append(p.Categories, &Category{ID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt})
		}
	}
	return nil
}

func postExists(ctx context.Context, tx *sqlx.Tx, id string) error {
	var count int
	if err := tx.GetContext(ctx, &count, tx.Rebind(`SELECT COUNT(*) FROM posts WHERE id = ?`), id); err != nil {
		return fmt.Errorf("failed to check post existence: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("post with id '%s': %w", id, ErrNoRecord)
	}
	return nil
}

// insertPostCategories links a post to each distinct category id.
func insertPostCategories(ctx context.Context, tx *sqlx.Tx, postID string, categoryIDs []string) error {
	seen := make(map[string]struct{}, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		if _, dup := seen[categoryID]; dup {
			continue
		}
		seen[categoryID] = struct{}{}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO post_categories (post_id, category_id) VALUES (?, ?)`), postID, categoryID); err != nil {
			return fmt.Errorf("failed to link post to category %s: %w", categoryID, err)
		}
	}
	return nil
}
