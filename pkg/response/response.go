package response

import (
	"errors"
	"log/slog"
	"net/http"

	domainerrors "poll-service/internal/domain/errors"

	"github.com/gin-gonic/gin"
)

// Error kinds carried in the "error" field of failure responses.
const (
	KindValidation   = "validation_error"
	KindNotFound     = "not_found"
	KindState        = "state_error"
	KindAlreadyVoted = "already_voted"
	KindUnauthorized = "unauthorized"
	KindForbidden    = "forbidden"
	KindInternal     = "internal_error"
)

// ErrorBody is the JSON shape of every failure response except 429, whose
// body is fixed.
type ErrorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// Error maps a domain error onto its HTTP status and writes the response.
// Unknown errors are infrastructure faults: they are logged and reported as
// internal, never disguised as a business outcome.
func Error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorBody{Error: KindValidation, Detail: err.Error()})
	case errors.Is(err, domainerrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorBody{Error: KindNotFound, Detail: err.Error()})
	case errors.Is(err, domainerrors.ErrPollClosed):
		c.JSON(http.StatusConflict, ErrorBody{Error: KindState, Detail: err.Error()})
	case errors.Is(err, domainerrors.ErrAlreadyVoted):
		c.JSON(http.StatusConflict, ErrorBody{Error: KindAlreadyVoted, Detail: err.Error()})
	case errors.Is(err, domainerrors.ErrRateLimited):
		RateLimited(c)
	case errors.Is(err, domainerrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorBody{Error: KindUnauthorized, Detail: err.Error()})
	case errors.Is(err, domainerrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorBody{Error: KindForbidden, Detail: err.Error()})
	default:
		slog.Error("Request failed with internal fault", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorBody{Error: KindInternal, Detail: "internal server error"})
	}
}

// RateLimited writes the fixed 429 body used by every rate-limited
// operation.
func RateLimited(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
}

// Validation writes a 400 for malformed request input.
func Validation(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: KindValidation, Detail: detail})
}
