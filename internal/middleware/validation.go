package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldViolation describes one failed binding rule.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RespondBindingError writes a 400 for a failed ShouldBind* call, listing
// each violated rule when the failure came from the validator.
func RespondBindingError(c *gin.Context, message string, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		violations := make([]FieldViolation, 0, len(verrs))
		for _, fe := range verrs {
			violations = append(violations, FieldViolation{Field: fe.Field(), Message: formatValidationError(fe)})
		}
		RespondBadRequest(c, message, violations)
		return
	}
	RespondBadRequest(c, message, err.Error())
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "gte":
		return e.Field() + " must be greater than or equal to " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "notblank":
		return e.Field() + " must not be blank"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
