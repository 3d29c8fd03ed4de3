package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// CreateCanvasRequest is the body of POST /api/canvases. Omitted fields take
// the configured defaults.
type CreateCanvasRequest struct {
	Width      int    `json:"width" validate:"omitempty,min=1,max=20000"`
	Height     int    `json:"height" validate:"omitempty,min=1,max=20000"`
	Background string `json:"background" validate:"omitempty,hexcolor"`
}

// DragRequest is the body of POST .../nodes/{nodeID}/drag: the screen point
// where the pointer went down
type DragRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

// PointerRequest is the body of POST .../pointer
type PointerRequest struct {
	Kind string  `json:"kind" validate:"required,oneof=move up cancel blur"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// decodeAndValidate reads a JSON body into dst and validates it. An empty
// body is accepted when allowEmpty is set.
func decodeAndValidate(r *http.Request, dst interface{}, allowEmpty bool) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			return fmt.Errorf("malformed JSON: %w", err)
		}
	}
	if err := validate.Struct(dst); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError formats validation errors into readable messages
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
