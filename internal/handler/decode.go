package handler

import (
	"encoding/json"
	"net/http"

	"go-blog-app/internal/middleware"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON object from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) *middleware.AppError {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &middleware.AppError{Error: err, Message: "malformed JSON body", Code: http.StatusBadRequest}
	}
	return nil
}
