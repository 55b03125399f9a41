package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go-blog-app/internal/logger"
	"go-blog-app/internal/service"
)

// AppError represents a custom error type for the application.
type AppError struct {
	Error   error
	Message string
	Code    int
	Fields  []service.FieldError
}

// AppHandler is a custom handler function type that returns an AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

type errorBody struct {
	Error  string               `json:"error"`
	Fields []service.FieldError `json:"fields,omitempty"`
}

// FromServiceError maps an error returned by the service layer to an AppError.
func FromServiceError(err error) *AppError {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return &AppError{Error: err, Message: "validation failed", Code: http.StatusUnprocessableEntity, Fields: verr.Fields}
	case errors.Is(err, service.ErrNotFound):
		return &AppError{Error: err, Message: "not found", Code: http.StatusNotFound}
	case errors.Is(err, service.ErrCategoryInUse):
		return &AppError{Error: err, Message: "category is still assigned to posts", Code: http.StatusConflict}
	default:
		return &AppError{Error: err, Message: "internal server error", Code: http.StatusInternalServerError}
	}
}

// Error is a middleware that converts handler errors into JSON error responses.
func Error(log logger.Logger) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("%v", rec)
					}
					log.Error(err, "Panic recovered")
					WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
				}
			}()

			appErr := next(w, r)
			if appErr == nil {
				return
			}
			if appErr.Code >= http.StatusInternalServerError {
				log.Error(appErr.Error, appErr.Message)
			} else {
				log.Debug(fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, appErr.Error))
			}
			WriteJSON(w, appErr.Code, errorBody{Error: appErr.Message, Fields: appErr.Fields})
		})
	}
}

// WriteJSON encodes v as the response body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
