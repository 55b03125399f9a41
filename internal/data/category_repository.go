package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CategoryRepository handles database operations for categories.
type CategoryRepository struct {
	DB *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// FindByName finds a category by its exact name.
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*Category, error) {
	var category Category
	err := r.DB.GetContext(ctx, &category, r.DB.Rebind("SELECT id, name, created_at FROM categories WHERE name = ?"), name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found is not an error
		}
		return nil, err
	}
	return &category, nil
}

// GetAll retrieves all categories from the database, newest first.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]*Category, error) {
	categories := []*Category{}
	err := r.DB.SelectContext(ctx, &categories, "SELECT id, name, created_at FROM categories ORDER BY created_at DESC, name")
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// FindByIDs retrieves the categories whose ids are in ids. Unknown ids are skipped.
func (r *CategoryRepository) FindByIDs(ctx context.Context, ids []string) ([]*Category, error) {
	categories := []*Category{}
	if len(ids) == 0 {
		return categories, nil
	}
	query, args, err := sqlx.In("SELECT id, name, created_at FROM categories WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	if err := r.DB.SelectContext(ctx, &categories, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}
	return categories, nil
}

// Save creates a new category and returns its ID.
func (r *CategoryRepository) Save(ctx context.Context, category *Category) (string, error) {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	_, err := r.DB.NamedExecContext(ctx, "INSERT INTO categories (id, name, created_at) VALUES (:id, :name, :created_at)", category)
	if err != nil {
		return "", err
	}
	return category.ID, nil
}

// GetByID finds a category by its ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*Category, error) {
	var category Category
	err := r.DB.GetContext(ctx, &category, r.DB.Rebind("SELECT id, name, created_at FROM categories WHERE id = ?"), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found is not an error
		}
		return nil, err
	}
	return &category, nil
}

// Delete removes a category that no post references.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		var refs int
		if err := tx.GetContext(ctx, &refs, tx.Rebind("SELECT COUNT(*) FROM post_categories WHERE category_id = ?"), id); err != nil {
			return fmt.Errorf("failed to count category references: %w", err)
		}
		if refs > 0 {
			return fmt.Errorf("category '%s' used by %d posts: %w", id, refs, ErrCategoryReferenced)
		}

		result, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM categories WHERE id = ?"), id)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("no category found to delete with id '%s': %w", id, ErrNoRecord)
		}
		return nil
	})
}
