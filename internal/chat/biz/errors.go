package biz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lk2023060901/chat-backend/internal/chat/types"
)

// ErrInvalidRequest is matched by every *ValidationError via errors.Is.
var ErrInvalidRequest = errors.New("invalid chat request")

// Validation error types
const (
	ErrTypeJSONInvalid = "json_invalid"
	ErrTypeNotObject   = "model_attributes_type"
	ErrTypeMissing     = "missing"
	ErrTypeString      = "string_type"
	ErrTypeInt         = "int_type"
	ErrTypeFloat       = "float_type"
)

// ValidationError carries every schema violation found in a request body.
type ValidationError struct {
	Fields []types.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(f.Loc, "."), f.Msg))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidRequest.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

func (e *ValidationError) add(typ, msg string, loc ...string) {
	e.Fields = append(e.Fields, types.FieldError{
		Loc:  append([]string{"body"}, loc...),
		Msg:  msg,
		Type: typ,
	})
}
