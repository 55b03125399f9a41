package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-blog-app/internal/content"
	"go-blog-app/internal/data"

	"golang.org/x/sync/errgroup"
)

// DefaultRelatedLimit is the number of related posts shown under a post.
const DefaultRelatedLimit = 3

const (
	cacheKeyPublicPosts = "posts:public"
	cacheKeyCategories  = "categories:all"
)

// PostRepository defines the interface for database operations on posts.
type PostRepository interface {
	FindPostByID(ctx context.Context, id string, filter data.PostFilter) (*data.Post, error)
	FindManyPosts(ctx context.Context, filter data.PostFilter) ([]*data.Post, error)
	FindRelatedCandidates(ctx context.Context, excludeID string, categoryIDs []string, filter data.PostFilter, limit int) ([]*data.Post, error)
	CreatePost(ctx context.Context, post *data.Post, categoryIDs []string) error
	UpdatePost(ctx context.Context, post *data.Post, categoryIDs []string) error
	SetPublished(ctx context.Context, id string, published bool) error
	DeletePost(ctx context.Context, id string) error
}

// CategoryRepository defines the interface for database operations on categories.
type CategoryRepository interface {
	FindByName(ctx context.Context, name string) (*data.Category, error)
	GetAll(ctx context.Context) ([]*data.Category, error)
	FindByIDs(ctx context.Context, ids []string) ([]*data.Category, error)
	Save(ctx context.Context, category *data.Category) (string, error)
	GetByID(ctx context.Context, id string) (*data.Category, error)
	Delete(ctx context.Context, id string) error
}

// Cache is the key/value store used for read-mostly listings.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// PostView is a published post with its related posts.
type PostView struct {
	Post    content.DisplayPost   `json:"post"`
	Related []content.DisplayPost `json:"related"`
}

// EditView is a post as seen by an editor, with every category it may be assigned.
type EditView struct {
	Post       content.DisplayPost `json:"post"`
	Categories []*data.Category    `json:"availableCategories"`
}

// PostServicer defines the interface for interacting with posts and categories.
type PostServicer interface {
	ListPublic(ctx context.Context) ([]content.DisplayPost, error)
	ListAdmin(ctx context.Context) ([]content.DisplayPost, error)
	GetPublicByID(ctx context.Context, id string) (*data.Post, error)
	GetAdminByID(ctx context.Context, id string) (*data.Post, error)
	ViewPost(ctx context.Context, id string) (*PostView, error)
	EditView(ctx context.Context, id string) (*EditView, error)
	CreatePost(ctx context.Context, in PostInput) (content.DisplayPost, error)
	UpdatePost(ctx context.Context, id string, in PostInput) (content.DisplayPost, error)
	DeletePost(ctx context.Context, id string) error
	Publish(ctx context.Context, id string) error
	Unpublish(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]*data.Category, error)
	CreateCategory(ctx context.Context, in CategoryInput) (*data.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// PostService provides the publication and relevance logic for posts.
type PostService struct {
	posts        PostRepository
	categories   CategoryRepository
	cache        Cache
	cacheTTL     time.Duration
	relatedLimit int
}

// Option configures a PostService.
type Option func(*PostService)

// WithRelatedLimit sets how many related posts ViewPost returns.
func WithRelatedLimit(n int) Option {
	return func(s *PostService) {
		s.relatedLimit = n
	}
}

// WithCacheTTL sets how long listings stay cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *PostService) {
		s.cacheTTL = ttl
	}
}

// NewPostService creates a new PostService. cache may be nil.
func NewPostService(posts PostRepository, categories CategoryRepository, cache Cache, opts ...Option) *PostService {
	s := &PostService{
		posts:        posts,
		categories:   categories,
		cache:        cache,
		cacheTTL:     time.Minute,
		relatedLimit: DefaultRelatedLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var publicOnly = data.PostFilter{PublishedOnly: true}

// ListPublic returns published posts, newest first.
func (s *PostService) ListPublic(ctx context.Context) ([]content.DisplayPost, error) {
	var cached []content.DisplayPost
	if s.cacheGet(ctx, cacheKeyPublicPosts, &cached) {
		return cached, nil
	}

	posts, err := s.posts.FindManyPosts(ctx, publicOnly)
	if err != nil {
		return nil, storeError("list public posts", err)
	}
	out := content.ToDisplayPosts(posts)
	s.cacheSet(ctx, cacheKeyPublicPosts, out)
	return out, nil
}

// ListAdmin returns every post regardless of state, newest first.
func (s *PostService) ListAdmin(ctx context.Context) ([]content.DisplayPost, error) {
	posts, err := s.posts.FindManyPosts(ctx, data.PostFilter{})
	if err != nil {
		return nil, storeError("list posts", err)
	}
	return content.ToDisplayPosts(posts), nil
}

// GetPublicByID returns a published post. Drafts and unknown ids both yield ErrNotFound.
func (s *PostService) GetPublicByID(ctx context.Context, id string) (*data.Post, error) {
	post, err := s.posts.FindPostByID(ctx, id, publicOnly)
	if err != nil {
		return nil, lookupError("get post", err)
	}
	return post, nil
}

// GetAdminByID returns any post.
func (s *PostService) GetAdminByID(ctx context.Context, id string) (*data.Post, error) {
	post, err := s.posts.FindPostByID(ctx, id, data.PostFilter{})
	if err != nil {
		return nil, lookupError("get post", err)
	}
	return post, nil
}

// FindRelated returns at most limit published posts sharing a category with
// post, newest first. The post itself is never included.
func (s *PostService) FindRelated(ctx context.Context, post *data.Post, limit int) ([]*data.Post, error) {
	categoryIDs := post.CategoryIDs()
	if len(categoryIDs) == 0 || limit <= 0 {
		return []*data.Post{}, nil
	}

	candidates, err := s.posts.FindRelatedCandidates(ctx, post.ID, categoryIDs, publicOnly, limit)
	if err != nil {
		return nil, storeError("find related posts", err)
	}

	related := make([]*data.Post, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == post.ID || !c.Published {
			continue
		}
		related = append(related, c)
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

// ViewPost returns a published post together with its related posts.
func (s *PostService) ViewPost(ctx context.Context, id string) (*PostView, error) {
	post, err := s.GetPublicByID(ctx, id)
	if err != nil {
		return nil, err
	}
	related, err := s.FindRelated(ctx, post, s.relatedLimit)
	if err != nil {
		return nil, err
	}
	return &PostView{
		Post:    content.ToDisplayPost(post),
		Related: content.ToDisplayPosts(related),
	}, nil
}

// EditView loads a post and the category list concurrently.
func (s *PostService) EditView(ctx context.Context, id string) (*EditView, error) {
	var (
		post       *data.Post
		categories []*data.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		post, err = s.GetAdminByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.ListCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &EditView{Post: content.ToDisplayPost(post), Categories: categories}, nil
}

// CreatePost validates in and stores a new post.
func (s *PostService) CreatePost(ctx context.Context, in PostInput) (content.DisplayPost, error) {
	in, err := s.checkInput(ctx, in)
	if err != nil {
		return content.DisplayPost{}, err
	}

	post := &data.Post{
		Title:         in.Title,
		Content:       in.Content,
		CoverImageURL: in.CoverImageURL,
		Published:     in.Published,
	}
	if err := s.posts.CreatePost(ctx, post, in.CategoryIDs); err != nil {
		return content.DisplayPost{}, storeError("create post", err)
	}
	s.invalidate(ctx, cacheKeyPublicPosts)
	return content.ToDisplayPost(post), nil
}

// UpdatePost replaces every mutable field of a post, including its categories
// and published state.
func (s *PostService) UpdatePost(ctx context.Context, id string, in PostInput) (content.DisplayPost, error) {
	in, err := s.checkInput(ctx, in)
	if err != nil {
		return content.DisplayPost{}, err
	}

	post := &data.Post{
		ID:            id,
		Title:         in.Title,
		Content:       in.Content,
		CoverImageURL: in.CoverImageURL,
		Published:     in.Published,
	}
	if err := s.posts.UpdatePost(ctx, post, in.CategoryIDs); err != nil {
		return content.DisplayPost{}, lookupError("update post", err)
	}
	s.invalidate(ctx, cacheKeyPublicPosts)
	return content.ToDisplayPost(post), nil
}

// DeletePost removes a post and its category links. Unknown ids yield ErrNotFound.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if err := s.posts.DeletePost(ctx, id); err != nil {
		return lookupError("delete post", err)
	}
	s.invalidate(ctx, cacheKeyPublicPosts)
	return nil
}

// Publish makes a draft visible. Publishing a published post is a no-op.
func (s *PostService) Publish(ctx context.Context, id string) error {
	return s.setPublished(ctx, id, true)
}

// Unpublish turns a post back into a draft. Unpublishing a draft is a no-op.
func (s *PostService) Unpublish(ctx context.Context, id string) error {
	return s.setPublished(ctx, id, false)
}

func (s *PostService) setPublished(ctx context.Context, id string, published bool) error {
	if err := s.posts.SetPublished(ctx, id, published); err != nil {
		return lookupError("set published", err)
	}
	s.invalidate(ctx, cacheKeyPublicPosts)
	return nil
}

// ListCategories returns every category, newest first.
func (s *PostService) ListCategories(ctx context.Context) ([]*data.Category, error) {
	var cached []*data.Category
	if s.cacheGet(ctx, cacheKeyCategories, &cached) {
		return cached, nil
	}

	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, storeError("list categories", err)
	}
	s.cacheSet(ctx, cacheKeyCategories, categories)
	return categories, nil
}

// CreateCategory stores a new category with a unique name.
func (s *PostService) CreateCategory(ctx context.Context, in CategoryInput) (*data.Category, error) {
	in.Name = normalizeName(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	existing, err := s.categories.FindByName(ctx, in.Name)
	if err != nil {
		return nil, storeError("find category", err)
	}
	if existing != nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "name", Message: "already exists"}}}
	}

	category := &data.Category{Name: in.Name}
	if _, err := s.categories.Save(ctx, category); err != nil {
		return nil, storeError("create category", err)
	}
	s.invalidate(ctx, cacheKeyCategories)
	return category, nil
}

// DeleteCategory removes a category no post references.
func (s *PostService) DeleteCategory(ctx context.Context, id string) error {
	existing, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return storeError("get category", err)
	}
	if existing == nil {
		return fmt.Errorf("delete category %s: %w", id, ErrNotFound)
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, data.ErrCategoryReferenced) {
			return fmt.Errorf("delete category %s: %w", id, ErrCategoryInUse)
		}
		return lookupError("delete category", err)
	}
	s.invalidate(ctx, cacheKeyCategories)
	return nil
}

// checkInput validates in and makes sure every category exists.
func (s *PostService) checkInput(ctx context.Context, in PostInput) (PostInput, error) {
	in = in.normalize()
	if err := validateStruct(in); err != nil {
		return in, err
	}

	found, err := s.categories.FindByIDs(ctx, in.CategoryIDs)
	if err != nil {
		return in, storeError("find categories", err)
	}
	if len(found) != len(in.CategoryIDs) {
		return in, &ValidationError{Fields: []FieldError{{Field: "categoryIds", Message: "contains an unknown category"}}}
	}
	return in, nil
}

// cacheGet decodes a cached value into dst. Cache failures count as misses.
func (s *PostService) cacheGet(ctx context.Context, key string, dst interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil || raw == nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (s *PostService) cacheSet(ctx context.Context, key string, v interface{}) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, key, raw, s.cacheTTL)
}

func (s *PostService) invalidate(ctx context.Context, key string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, key)
	}
}

// lookupError maps a missing record to ErrNotFound and anything else to a StoreError.
func lookupError(op string, err error) error {
	if errors.Is(err, data.ErrNoRecord) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return storeError(op, err)
}

func storeError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
