package validators

import (
	"strings"

	"github.com/go-playground/validator/v10"

	dto "todo-api.com/todo-api/internal/data_models"
	apperrors "todo-api.com/todo-api/internal/errors"
)

var validate = validator.New()

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	return toValidationError(validate.Struct(r))
}

func ValidateBulkTaskRequest(r *dto.BulkTaskRequest) error {
	return toValidationError(validate.Struct(r))
}

func ValidateCleanupRequest(r *dto.CleanupRequest) error {
	return toValidationError(validate.Struct(r))
}

// toValidationError flattens validator errors into the field -> message
// map the error taxonomy carries.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Validation(map[string]string{"request": "invalid payload"})
	}

	fields := map[string]string{}
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[field] = field + " is required"
		case "oneof":
			fields[field] = field + " must be one of " + fe.Param()
		case "min":
			fields[field] = field + " must be at least " + fe.Param()
		default:
			fields[field] = field + " is invalid"
		}
	}
	return apperrors.Validation(fields)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
