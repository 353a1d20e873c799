package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hogwarts/internal/app/models/dto"
	"github.com/yigit/hogwarts/internal/pkg/apperrors"
	"github.com/yigit/hogwarts/internal/pkg/logger"
)

// HandleAPIError translates a service error into the HTTP response.
//
// NotFound errors are sent as plain text carrying only the message.
// Avatar processing failures are logged and answered with an empty 500.
func HandleAPIError(c *gin.Context, err error) {
	var notFound *apperrors.NotFoundError
	switch {
	case errors.As(err, &notFound):
		c.String(http.StatusNotFound, notFound.Error())
	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.String(http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrProcessingFailure):
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Avatar processing failed")
		c.Status(http.StatusInternalServerError)
	case errors.Is(err, apperrors.ErrValidationFailed):
		RespondBadRequest(c, "Validation failed", err.Error())
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		))
	}
}

// RespondBadRequest writes a 400 with the error envelope.
func RespondBadRequest(c *gin.Context, message string, details interface{}) {
	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
	if details != nil {
		detail = detail.WithDetails(details)
	}
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}
