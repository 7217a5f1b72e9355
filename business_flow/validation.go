package businessflow

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/blogkit/blogkit/app/dto"
	"github.com/go-playground/validator/v10"
)

// newValidator builds a validator whose error paths use json field names so
// clients see paths like "content.primaryButton.url".
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// collectFieldErrors converts validator output into field errors with dotted
// json paths relative to the validated struct.
func collectFieldErrors(err error, prefix string) []dto.FieldError {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []dto.FieldError{{Path: prefix, Message: err.Error()}}
	}

	out := make([]dto.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace starts with the struct type name; strip it.
		path := fe.Namespace()
		if idx := strings.Index(path, "."); idx >= 0 {
			path = path[idx+1:]
		}
		if prefix != "" {
			if path == "" {
				path = prefix
			} else {
				path = prefix + "." + path
			}
		}
		out = append(out, dto.FieldError{
			Path:    path,
			Message: messageForTag(fe),
		})
	}
	return out
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "uuid4":
		return "must be a valid UUID"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s", fe.Param())
	case "lowercase":
		return "must be lowercase"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
