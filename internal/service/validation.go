package service

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PostInput carries the author-supplied fields of a post.
type PostInput struct {
	Title         string   `json:"title" validate:"required,max=100"`
	Content       string   `json:"content" validate:"required"`
	CoverImageURL string   `json:"coverImageUrl" validate:"required,http_url"`
	CategoryIDs   []string `json:"categoryIds" validate:"min=1,dive,required"`
	Published     bool     `json:"published"`
}

// CategoryInput carries the fields of a new category.
type CategoryInput struct {
	Name string `json:"name" validate:"required,max=50"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// normalize trims surrounding whitespace and removes duplicate category ids.
func (in PostInput) normalize() PostInput {
	in.Title = strings.TrimSpace(in.Title)
	in.CoverImageURL = strings.TrimSpace(in.CoverImageURL)
	if strings.TrimSpace(in.Content) == "" {
		in.Content = ""
	}

	seen := make(map[string]struct{}, len(in.CategoryIDs))
	ids := make([]string, 0, len(in.CategoryIDs))
	for _, id := range in.CategoryIDs {
		id = strings.TrimSpace(id)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	in.CategoryIDs = ids
	return in
}

// validateStruct converts validator failures into a ValidationError.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		field := fe.Field()
		// Errors on slice elements ("categoryIds[0]") belong to the slice.
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
		}
		if out.Has(field) {
			continue
		}
		out.Fields = append(out.Fields, FieldError{Field: field, Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must contain at least %s item", fe.Param())
	case "http_url":
		return "must be an absolute http or https URL"
	default:
		return "is invalid"
	}
}
