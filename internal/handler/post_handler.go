package handler

import (
	"net/http"

	"go-blog-app/internal/content"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"

	"github.com/go-chi/chi/v5"
)

// PostHandler holds the dependencies for the post handlers.
type PostHandler struct {
	postService service.PostServicer
	log         logger.Logger
}

// NewPostHandler creates a new PostHandler with the given dependencies.
func NewPostHandler(ps service.PostServicer, log logger.Logger) *PostHandler {
	return &PostHandler{
		postService: ps,
		log:         log,
	}
}

// listPublicHandler returns published posts with sanitized content.
func (h *PostHandler) listPublicHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	posts, err := h.postService.ListPublic(r.Context())
	if err != nil {
		return middleware.FromServiceError(err)
	}
	middleware.WriteJSON(w, http.StatusOK, sanitizeAll(posts))
	return nil
}

// viewHandler returns a published post and its related posts.
func (h *PostHandler) viewHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	view, err := h.postService.ViewPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return middleware.FromServiceError(err)
	}
	view.Post = view.Post.Sanitized()
	view.Related = sanitizeAll(view.Related)
	middleware.WriteJSON(w, http.StatusOK, view)
	return nil
}

// listAdminHandler returns every post with raw content.
func (h *PostHandler) listAdminHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	posts, err := h.postService.ListAdmin(r.Context())
	if err != nil {
		return middleware.FromServiceError(err)
	}
	middleware.WriteJSON(w, http.StatusOK, posts)
	return nil
}

// editHandler returns a post of any state together with the assignable categories.
func (h *PostHandler) editHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	view, err := h.postService.EditView(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return middleware.FromServiceError(err)
	}
	middleware.WriteJSON(w, http.StatusOK, view)
	return nil
}

func (h *PostHandler) createHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var in service.PostInput
	if appErr := decodeJSON(w, r, &in); appErr != nil {
		return appErr
	}

	post, err := h.postService.CreatePost(r.Context(), in)
	if err != nil {
		return middleware.FromServiceError(err)
	}
	h.log.With(map[string]interface{}{
		"post_id": post.ID,
		"subject": middleware.GetUserInfo(r.Context()).Subject,
	}).Info("post created")

	w.Header().Set("Location", "/admin/posts/"+post.ID)
	middleware.WriteJSON(w, http.StatusCreated, post)
	return nil
}

// updateHandler replaces every mutable field of a post.
func (h *PostHandler) updateHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var in service.PostInput
	if appErr := decodeJSON(w, r, &in); appErr != nil {
		return appErr
	}

	post, err := h.postService.UpdatePost(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		return middleware.FromServiceError(err)
	}
	middleware.WriteJSON(w, http.StatusOK, post)
	return nil
}

func (h *PostHandler) deleteHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id := chi.URLParam(r, "id")
	if err := h.postService.DeletePost(r.Context(), id); err != nil {
		return middleware.FromServiceError(err)
	}
	h.log.With(map[string]interface{}{
		"post_id": id,
		"subject": middleware.GetUserInfo(r.Context()).Subject,
	}).Info("post deleted")
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *PostHandler) publishHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.postService.Publish(r.Context(), chi.URLParam(r, "id")); err != nil {
		return middleware.FromServiceError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *PostHandler) unpublishHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.postService.Unpublish(r.Context(), chi.URLParam(r, "id")); err != nil {
		return middleware.FromServiceError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func sanitizeAll(posts []content.DisplayPost) []content.DisplayPost {
	out := make([]content.DisplayPost, len(posts))
	for i, p := range posts {
		out[i] = p.Sanitized()
	}
	return out
}
