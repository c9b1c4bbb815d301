package utils

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormatValidationError 格式化验证错误信息
func FormatValidationError(err error) string {
	if err == nil {
		return ""
	}

	var validationErrors validator.ValidationErrors
	if stderrors.As(err, &validationErrors) {
		messages := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			messages = append(messages, formatFieldError(e))
		}
		return strings.Join(messages, "; ")
	}

	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		return fmt.Sprintf("field '%s' should be %s", typeErr.Field, typeErr.Type.String())
	}

	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return "invalid JSON format"
	}

	return err.Error()
}

// formatFieldError 格式化单个字段的验证错误
func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required", field)
	case "max":
		return fmt.Sprintf("field '%s' must be at most %s", field, e.Param())
	case "min":
		return fmt.Sprintf("field '%s' must be at least %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", field, e.Param())
	case "url", "http_url":
		return fmt.Sprintf("field '%s' must be a valid URL", field)
	case "uuid", "uuid4":
		return fmt.Sprintf("field '%s' must be a valid id", field)
	case "unique":
		return fmt.Sprintf("field '%s' must not contain duplicates", field)
	case "gte":
		return fmt.Sprintf("field '%s' must be greater than or equal to %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("field '%s' must be less than or equal to %s", field, e.Param())
	case "bcp47_language_tag":
		return fmt.Sprintf("field '%s' must be a BCP 47 language tag", field)
	default:
		return fmt.Sprintf("field '%s' validation failed on '%s' tag", field, e.Tag())
	}
}
