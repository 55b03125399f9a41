//go:build unit

package service

import (
	"context"
	"errors"
	"fmt"
	"go-blog-app/internal/cache"
	"go-blog-app/internal/config"
	"go-blog-app/internal/data"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

// newTestCache creates a new in-memory cache for testing.
func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.New(config.CacheConfig{FilePath: "file::memory:"})
	if err != nil {
		t.Fatalf("failed to create test cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// mockPostRepository is an in-memory implementation of the PostRepository interface.
type mockPostRepository struct {
	mu             sync.Mutex
	posts          map[string]*data.Post
	errToReturn    error
	relatedCalled  bool
	lastFilter     data.PostFilter
	lastCategories []string
	nextID         int
}

var _ PostRepository = (*mockPostRepository)(nil)

func newMockPostRepository(posts ...*data.Post) *mockPostRepository {
	m := &mockPostRepository{posts: make(map[string]*data.Post)}
	for _, p := range posts {
		m.posts[p.ID] = p
	}
	return m
}

func (m *mockPostRepository) visible(p *data.Post, filter data.PostFilter) bool {
	return !filter.PublishedOnly || p.Published
}

func (m *mockPostRepository) FindPostByID(ctx context.Context, id string, filter data.PostFilter) (*data.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = filter
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	p, ok := m.posts[id]
	if !ok || !m.visible(p, filter) {
		return nil, fmt.Errorf("post %s: %w", id, data.ErrNoRecord)
	}
	return p, nil
}

func (m *mockPostRepository) FindManyPosts(ctx context.Context, filter data.PostFilter) ([]*data.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = filter
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	var out []*data.Post
	for _, p := range m.posts {
		if m.visible(p, filter) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockPostRepository) FindRelatedCandidates(ctx context.Context, excludeID string, categoryIDs []string, filter data.PostFilter, limit int) ([]*data.Post, error) {
	m.mu.Lock()
	m.relatedCalled = true
	m.lastFilter = filter
	m.lastCategories = categoryIDs
	m.mu.Unlock()

	all, err := m.FindManyPosts(ctx, filter)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		wanted[id] = true
	}
	var out []*data.Post
	for _, p := range all {
		if p.ID == excludeID {
			continue
		}
		for _, c := range p.Categories {
			if wanted[c.ID] {
				out = append(out, p)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockPostRepository) CreatePost(ctx context.Context, post *data.Post, categoryIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errToReturn != nil {
		return m.errToReturn
	}
	m.nextID++
	post.ID = fmt.Sprintf("new-%d", m.nextID)
	post.CreatedAt = time.Now().UTC()
	post.Categories = nil
	for _, id := range categoryIDs {
		post.Categories = append(post.Categories, &data.Category{ID: id, Name: "name-" + id})
	}
	m.posts[post.ID] = post
	return nil
}

func (m *mockPostRepository) UpdatePost(ctx context.Context, post *data.Post, categoryIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errToReturn != nil {
		return m.errToReturn
	}
	existing, ok := m.posts[post.ID]
	if !ok {
		return fmt.Errorf("post %s: %w", post.ID, data.ErrNoRecord)
	}
	post.CreatedAt = existing.CreatedAt
	post.Categories = nil
	for _, id := range categoryIDs {
		post.Categories = append(post.Categories, &data.Category{ID: id, Name: "name-" + id})
	}
	m.posts[post.ID] = post
	return nil
}

func (m *mockPostRepository) SetPublished(ctx context.Context, id string, published bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errToReturn != nil {
		return m.errToReturn
	}
	p, ok := m.posts[id]
	if !ok {
		return fmt.Errorf("post %s: %w", id, data.ErrNoRecord)
	}
	p.Published = published
	return nil
}

func (m *mockPostRepository) DeletePost(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errToReturn != nil {
		return m.errToReturn
	}
	if _, ok := m.posts[id]; !ok {
		return fmt.Errorf("post %s: %w", id, data.ErrNoRecord)
	}
	delete(m.posts, id)
	return nil
}

// mockCategoryRepository is a mock implementation of the CategoryRepository interface.
type mockCategoryRepository struct {
	mu          sync.Mutex
	categories  []*data.Category
	referenced  map[string]bool
	errToReturn error
	getAllCalls int
	saveCalled  bool
	deleteCalls int
}

var _ CategoryRepository = (*mockCategoryRepository)(nil)

func (m *mockCategoryRepository) FindByName(ctx context.Context, name string) (*data.Category, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	for _, c := range m.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockCategoryRepository) GetAll(ctx context.Context) ([]*data.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getAllCalls++
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	return m.categories, nil
}

func (m *mockCategoryRepository) FindByIDs(ctx context.Context, ids []string) ([]*data.Category, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	var out []*data.Category
	for _, c := range m.categories {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (m *mockCategoryRepository) Save(ctx context.Context, category *data.Category) (string, error) {
	m.saveCalled = true
	if m.errToReturn != nil {
		return "", m.errToReturn
	}
	category.ID = fmt.Sprintf("cat-%d", len(m.categories)+1)
	category.CreatedAt = time.Now().UTC()
	m.categories = append(m.categories, category)
	return category.ID, nil
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id string) (*data.Category, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	for _, c := range m.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id string) error {
	m.deleteCalls++
	if m.errToReturn != nil {
		return m.errToReturn
	}
	if m.referenced[id] {
		return fmt.Errorf("category %s: %w", id, data.ErrCategoryReferenced)
	}
	for i, c := range m.categories {
		if c.ID == id {
			m.categories = append(m.categories[:i], m.categories[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("category %s: %w", id, data.ErrNoRecord)
}

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func post(id string, published bool, age time.Duration, categoryIDs ...string) *data.Post {
	p := &data.Post{
		ID:            id,
		Title:         "Post " + id,
		Content:       "<p>" + id + "</p>",
		CoverImageURL: "https://example.com/" + id + ".jpg",
		Published:     published,
		CreatedAt:     base.Add(-age),
	}
	for _, c := range categoryIDs {
		p.Categories = append(p.Categories, &data.Category{ID: c, Name: strings.ToUpper(c)})
	}
	return p
}

func testCategories() *mockCategoryRepository {
	return &mockCategoryRepository{
		categories: []*data.Category{
			{ID: "go", Name: "Go", CreatedAt: base},
			{ID: "db", Name: "Databases", CreatedAt: base.Add(-time.Hour)},
		},
		referenced: map[string]bool{},
	}
}

func validInput() PostInput {
	return PostInput{
		Title:         "Hello",
		Content:       "<p>hi</p>",
		CoverImageURL: "https://example.com/a.jpg",
		CategoryIDs:   []string{"go"},
	}
}

func TestPostService_FindRelated(t *testing.T) {
	ctx := context.Background()

	t.Run("shared category, published, excluding self", func(t *testing.T) {
		a := post("A", true, 4*time.Hour, "x")
		b := post("B", true, 3*time.Hour, "x")
		c := post("C", false, 2*time.Hour, "x")
		d := post("D", true, time.Hour, "y")
		repo := newMockPostRepository(a, b, c, d)
		s := NewPostService(repo, testCategories(), nil)

		related, err := s.FindRelated(ctx, a, 3)
		if err != nil {
			t.Fatalf("FindRelated failed: %v", err)
		}
		if len(related) != 1 || related[0].ID != "B" {
			t.Errorf("expected [B], got %v", ids(related))
		}
		if !repo.lastFilter.PublishedOnly {
			t.Error("expected related lookup to use a published-only filter")
		}
	})

	t.Run("truncated to limit, newest first", func(t *testing.T) {
		posts := []*data.Post{post("self", true, 10*time.Hour, "x")}
		for i := 1; i <= 5; i++ {
			posts = append(posts, post(fmt.Sprintf("r%d", i), true, time.Duration(6-i)*time.Hour, "x"))
		}
		s := NewPostService(newMockPostRepository(posts...), testCategories(), nil)

		related, err := s.FindRelated(ctx, posts[0], 3)
		if err != nil {
			t.Fatalf("FindRelated failed: %v", err)
		}
		got := strings.Join(ids(related), ",")
		if got != "r5,r4,r3" {
			t.Errorf("expected r5,r4,r3, got %s", got)
		}
	})

	t.Run("no categories skips the store", func(t *testing.T) {
		repo := newMockPostRepository(post("B", true, time.Hour, "x"))
		s := NewPostService(repo, testCategories(), nil)

		related, err := s.FindRelated(ctx, post("A", true, 0), 3)
		if err != nil {
			t.Fatalf("FindRelated failed: %v", err)
		}
		if len(related) != 0 {
			t.Errorf("expected no related posts, got %v", ids(related))
		}
		if repo.relatedCalled {
			t.Error("expected store not to be queried")
		}
	})

	t.Run("non-positive limit", func(t *testing.T) {
		repo := newMockPostRepository(post("B", true, time.Hour, "x"))
		s := NewPostService(repo, testCategories(), nil)

		related, err := s.FindRelated(ctx, post("A", true, 0, "x"), 0)
		if err != nil {
			t.Fatalf("FindRelated failed: %v", err)
		}
		if len(related) != 0 || repo.relatedCalled {
			t.Errorf("expected empty result without a store call, got %v", ids(related))
		}
	})

	t.Run("store failure", func(t *testing.T) {
		repo := newMockPostRepository()
		repo.errToReturn = errors.New("connection refused")
		s := NewPostService(repo, testCategories(), nil)

		_, err := s.FindRelated(ctx, post("A", true, 0, "x"), 3)
		var storeErr *StoreError
		if !errors.As(err, &storeErr) {
			t.Fatalf("expected StoreError, got %v", err)
		}
	})
}

func TestPostService_Guard(t *testing.T) {
	ctx := context.Background()
	draft := post("draft", false, time.Hour, "go")
	live := post("live", true, 2*time.Hour, "go")

	t.Run("public read hides drafts", func(t *testing.T) {
		s := NewPostService(newMockPostRepository(draft, live), testCategories(), nil)

		_, err := s.GetPublicByID(ctx, "draft")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for draft, got %v", err)
		}
		_, err = s.GetPublicByID(ctx, "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for unknown id, got %v", err)
		}
		p, err := s.GetPublicByID(ctx, "live")
		if err != nil || p.ID != "live" {
			t.Errorf("expected live post, got %v, %v", p, err)
		}
	})

	t.Run("admin read sees drafts", func(t *testing.T) {
		s := NewPostService(newMockPostRepository(draft, live), testCategories(), nil)

		p, err := s.GetAdminByID(ctx, "draft")
		if err != nil {
			t.Fatalf("GetAdminByID failed: %v", err)
		}
		if p.Published {
			t.Error("expected the draft to be returned unchanged")
		}
	})

	t.Run("listings", func(t *testing.T) {
		s := NewPostService(newMockPostRepository(draft, live), testCategories(), nil)

		public, err := s.ListPublic(ctx)
		if err != nil {
			t.Fatalf("ListPublic failed: %v", err)
		}
		if len(public) != 1 || public[0].ID != "live" {
			t.Errorf("expected only the live post, got %d posts", len(public))
		}

		admin, err := s.ListAdmin(ctx)
		if err != nil {
			t.Fatalf("ListAdmin failed: %v", err)
		}
		if len(admin) != 2 || admin[0].ID != "draft" {
			t.Errorf("expected both posts newest first, got %d posts", len(admin))
		}
	})

	t.Run("publish and unpublish are idempotent", func(t *testing.T) {
		p := post("p", false, time.Hour, "go")
		s := NewPostService(newMockPostRepository(p), testCategories(), nil)

		for i := 0; i < 2; i++ {
			if err := s.Publish(ctx, "p"); err != nil {
				t.Fatalf("Publish failed: %v", err)
			}
			if _, err := s.GetPublicByID(ctx, "p"); err != nil {
				t.Fatalf("expected published post to be public, got %v", err)
			}
		}
		for i := 0; i < 2; i++ {
			if err := s.Unpublish(ctx, "p"); err != nil {
				t.Fatalf("Unpublish failed: %v", err)
			}
			if _, err := s.GetPublicByID(ctx, "p"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected unpublished post to be hidden, got %v", err)
			}
		}
		if err := s.Publish(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for unknown id, got %v", err)
		}
	})

	t.Run("publish refreshes cached public listing", func(t *testing.T) {
		p := post("p", false, time.Hour, "go")
		s := NewPostService(newMockPostRepository(p), testCategories(), newTestCache(t))

		before, _ := s.ListPublic(ctx)
		if len(before) != 0 {
			t.Fatalf("expected empty public listing, got %d", len(before))
		}
		if err := s.Publish(ctx, "p"); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
		after, err := s.ListPublic(ctx)
		if err != nil {
			t.Fatalf("ListPublic failed: %v", err)
		}
		if len(after) != 1 {
			t.Errorf("expected published post in listing, got %d", len(after))
		}
	})
}

func TestPostService_ViewPost(t *testing.T) {
	ctx := context.Background()
	a := post("A", true, 3*time.Hour, "go")
	b := post("B", true, 2*time.Hour, "go")
	c := post("C", false, time.Hour, "go")
	s := NewPostService(newMockPostRepository(a, b, c), testCategories(), nil, WithRelatedLimit(3))

	view, err := s.ViewPost(ctx, "A")
	if err != nil {
		t.Fatalf("ViewPost failed: %v", err)
	}
	if view.Post.ReadingTimeMinutes != 1 {
		t.Errorf("expected 1 minute reading time, got %d", view.Post.ReadingTimeMinutes)
	}
	if len(view.Related) != 1 || view.Related[0].ID != "B" {
		t.Errorf("expected related [B], got %v", view.Related)
	}

	if _, err := s.ViewPost(ctx, "C"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for draft, got %v", err)
	}
}

func TestPostService_EditView(t *testing.T) {
	ctx := context.Background()
	cats := testCategories()
	s := NewPostService(newMockPostRepository(post("d", false, time.Hour, "go")), cats, nil)

	view, err := s.EditView(ctx, "d")
	if err != nil {
		t.Fatalf("EditView failed: %v", err)
	}
	if view.Post.ID != "d" {
		t.Errorf("expected post d, got %s", view.Post.ID)
	}
	if len(view.Categories) != 2 {
		t.Errorf("expected 2 categories, got %d", len(view.Categories))
	}

	if _, err := s.EditView(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPostService_CreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := newMockPostRepository()
		s := NewPostService(repo, testCategories(), nil)

		in := validInput()
		in.CategoryIDs = []string{"go", "go", "db"}
		got, err := s.CreatePost(ctx, in)
		if err != nil {
			t.Fatalf("CreatePost failed: %v", err)
		}
		if got.ID == "" {
			t.Error("expected an id to be assigned")
		}
		if got.Published {
			t.Error("expected new post to default to draft")
		}
		if len(got.Categories) != 2 {
			t.Errorf("expected duplicate category ids to collapse, got %d", len(got.Categories))
		}
	})

	t.Run("empty categories", func(t *testing.T) {
		repo := newMockPostRepository()
		s := NewPostService(repo, testCategories(), nil)

		in := validInput()
		in.CategoryIDs = nil
		_, err := s.CreatePost(ctx, in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if !verr.Has("categoryIds") {
			t.Errorf("expected categoryIds to be reported, got %v", verr.Fields)
		}
		if len(repo.posts) != 0 {
			t.Error("expected nothing to be stored")
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		s := NewPostService(newMockPostRepository(), testCategories(), nil)

		in := validInput()
		in.CategoryIDs = []string{"go", "nope"}
		_, err := s.CreatePost(ctx, in)
		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Has("categoryIds") {
			t.Fatalf("expected ValidationError on categoryIds, got %v", err)
		}
	})

	t.Run("field validation", func(t *testing.T) {
		s := NewPostService(newMockPostRepository(), testCategories(), nil)

		tests := []struct {
			name   string
			mutate func(*PostInput)
			field  string
		}{
			{"blank title", func(in *PostInput) { in.Title = "   " }, "title"},
			{"long title", func(in *PostInput) { in.Title = strings.Repeat("a", 101) }, "title"},
			{"blank content", func(in *PostInput) { in.Content = " \n " }, "content"},
			{"relative cover url", func(in *PostInput) { in.CoverImageURL = "/img/a.jpg" }, "coverImageUrl"},
			{"non-http cover url", func(in *PostInput) { in.CoverImageURL = "ftp://example.com/a.jpg" }, "coverImageUrl"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				in := validInput()
				tt.mutate(&in)
				_, err := s.CreatePost(ctx, in)
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if !verr.Has(tt.field) {
					t.Errorf("expected %s to be reported, got %v", tt.field, verr.Fields)
				}
			})
		}
	})

	t.Run("title of exactly 100 characters", func(t *testing.T) {
		s := NewPostService(newMockPostRepository(), testCategories(), nil)

		in := validInput()
		in.Title = strings.Repeat("é", 100)
		if _, err := s.CreatePost(ctx, in); err != nil {
			t.Errorf("expected 100 character title to be accepted, got %v", err)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		repo := newMockPostRepository()
		repo.errToReturn = errors.New("disk full")
		s := NewPostService(repo, testCategories(), nil)

		_, err := s.CreatePost(ctx, validInput())
		var storeErr *StoreError
		if !errors.As(err, &storeErr) {
			t.Fatalf("expected StoreError, got %v", err)
		}
	})
}

func TestPostService_UpdatePost(t *testing.T) {
	ctx := context.Background()
	original := post("p", false, time.Hour, "go")
	repo := newMockPostRepository(original)
	s := NewPostService(repo, testCategories(), nil)

	in := validInput()
	in.Title = "Renamed"
	in.CategoryIDs = []string{"db"}
	in.Published = true
	got, err := s.UpdatePost(ctx, "p", in)
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	if got.Title != "Renamed" || !got.Published {
		t.Errorf("expected replaced fields, got %+v", got)
	}
	if !got.CreatedAt.Equal(base.Add(-time.Hour)) {
		t.Errorf("expected createdAt to be preserved, got %v", got.CreatedAt)
	}
	if len(got.Categories) != 1 || got.Categories[0].ID != "db" {
		t.Errorf("expected categories replaced with [db], got %v", got.Categories)
	}

	if _, err := s.UpdatePost(ctx, "missing", validInput()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPostService_DeletePost(t *testing.T) {
	ctx := context.Background()
	s := NewPostService(newMockPostRepository(post("p", true, time.Hour, "go")), testCategories(), nil)

	if err := s.DeletePost(ctx, "p"); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetAdminByID(ctx, "p"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected deleted post to be gone, got %v", err)
	}
	if err := s.DeletePost(ctx, "p"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestPostService_Categories(t *testing.T) {
	ctx := context.Background()

	t.Run("list is cached until a category is created", func(t *testing.T) {
		cats := testCategories()
		s := NewPostService(newMockPostRepository(), cats, newTestCache(t))

		for i := 0; i < 2; i++ {
			got, err := s.ListCategories(ctx)
			if err != nil {
				t.Fatalf("ListCategories failed: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("expected 2 categories, got %d", len(got))
			}
		}
		if cats.getAllCalls != 1 {
			t.Errorf("expected one store call, got %d", cats.getAllCalls)
		}

		if _, err := s.CreateCategory(ctx, CategoryInput{Name: "  Web   Dev "}); err != nil {
			t.Fatalf("CreateCategory failed: %v", err)
		}
		got, _ := s.ListCategories(ctx)
		if len(got) != 3 {
			t.Errorf("expected cache to be invalidated, got %d categories", len(got))
		}
		if got[2].Name != "Web Dev" {
			t.Errorf("expected normalized name 'Web Dev', got %q", got[2].Name)
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		cats := testCategories()
		s := NewPostService(newMockPostRepository(), cats, nil)

		_, err := s.CreateCategory(ctx, CategoryInput{Name: "Go"})
		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Has("name") {
			t.Fatalf("expected ValidationError on name, got %v", err)
		}
		if cats.saveCalled {
			t.Error("expected Save not to be called")
		}
	})

	t.Run("blank name", func(t *testing.T) {
		s := NewPostService(newMockPostRepository(), testCategories(), nil)

		_, err := s.CreateCategory(ctx, CategoryInput{Name: "   "})
		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Has("name") {
			t.Fatalf("expected ValidationError on name, got %v", err)
		}
	})

	t.Run("delete referenced category", func(t *testing.T) {
		cats := testCategories()
		cats.referenced["go"] = true
		s := NewPostService(newMockPostRepository(), cats, nil)

		if err := s.DeleteCategory(ctx, "go"); !errors.Is(err, ErrCategoryInUse) {
			t.Errorf("expected ErrCategoryInUse, got %v", err)
		}
		if err := s.DeleteCategory(ctx, "db"); err != nil {
			t.Errorf("expected unreferenced category to be deleted, got %v", err)
		}
		if err := s.DeleteCategory(ctx, "db"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete unknown category skips the store delete", func(t *testing.T) {
		cats := testCategories()
		s := NewPostService(newMockPostRepository(), cats, nil)

		if err := s.DeleteCategory(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if cats.deleteCalls != 0 {
			t.Errorf("expected Delete not to be called, got %d calls", cats.deleteCalls)
		}
	})

	t.Run("delete with failing lookup", func(t *testing.T) {
		cats := testCategories()
		cats.errToReturn = errors.New("connection reset")
		s := NewPostService(newMockPostRepository(), cats, nil)

		var storeErr *StoreError
		if err := s.DeleteCategory(ctx, "go"); !errors.As(err, &storeErr) {
			t.Errorf("expected StoreError, got %v", err)
		}
	})
}

func ids(posts []*data.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}
