package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/coursebay/coursebay/internal/booking/domain"
	gatewaydomain "github.com/coursebay/coursebay/internal/gateway/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	case errors.Is(err, bookingdomain.ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "authentication required",
		}
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, bookingdomain.ErrPaymentNotCompleted):
		return http.StatusBadRequest, errorPayload{
			Type:    "payment_not_completed",
			Message: "payment not completed",
		}
	case errors.Is(err, bookingdomain.ErrProviderUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "payment_provider_unavailable",
			Message: "payment provider not configured",
		}
	case errors.Is(err, gatewaydomain.ErrProvider):
		return http.StatusBadGateway, errorPayload{
			Type:    "payment_provider_error",
			Message: err.Error(),
		}
	case errors.Is(err, bookingdomain.ErrNoRedirectBase):
		return http.StatusInternalServerError, errorPayload{
			Type:    "configuration_error",
			Message: "frontend URL not determined; set FRONTEND_URL or send an Origin header",
		}
	case errors.Is(err, bookingdomain.ErrPartialFailure):
		return http.StatusInternalServerError, errorPayload{
			Type:    "partial_failure",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, bookingdomain.ErrInvalidCourse),
		errors.Is(err, bookingdomain.ErrInvalidPrice),
		errors.Is(err, bookingdomain.ErrInvalidSession):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, bookingdomain.ErrNotFound),
		errors.Is(err, gatewaydomain.ErrSessionNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
