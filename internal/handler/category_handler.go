package handler

import (
	"net/http"

	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"

	"github.com/go-chi/chi/v5"
)

// CategoryHandler holds the dependencies for the category handlers.
type CategoryHandler struct {
	postService service.PostServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(ps service.PostServicer) *CategoryHandler {
	return &CategoryHandler{postService: ps}
}

func (h *CategoryHandler) listHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	categories, err := h.postService.ListCategories(r.Context())
	if err != nil {
		return middleware.FromServiceError(err)
	}
	middleware.WriteJSON(w, http.StatusOK, categories)
	return nil
}

func (h *CategoryHandler) createHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var in service.CategoryInput
	if appErr := decodeJSON(w, r, &in); appErr != nil {
		return appErr
	}
	category, err := h.postService.CreateCategory(r.Context(), in)
	if err != nil {
		return middleware.FromServiceError(err)
	}
	middleware.WriteJSON(w, http.StatusCreated, category)
	return nil
}

// deleteHandler removes a category. Deletion is refused with 409 while any
// post still references the category.
func (h *CategoryHandler) deleteHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.postService.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		return middleware.FromServiceError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
