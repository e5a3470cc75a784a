package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"biolink/internal/services"

	"github.com/gin-gonic/gin"
)

// Error codes sent in the "error" field of a failed response.
const (
	CodeUnauthenticated    = "Unauthenticated"
	CodeForbidden          = "Forbidden"
	CodeNotFound           = "NotFound"
	CodeValidation         = "ValidationError"
	CodeContentPolicy      = "ContentPolicyViolation"
	CodeAlreadyReported    = "AlreadyReported"
	CodeConflict           = "Conflict"
	CodeInvalidCredentials = "InvalidCredentials"
	CodeInternal           = "InternalServerError"
)

var errorCodes = []struct {
	kind   error
	status int
	code   string
}{
	{services.ErrUnauthenticated, http.StatusUnauthorized, CodeUnauthenticated},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
	{services.ErrForbidden, http.StatusForbidden, CodeForbidden},
	{services.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{services.ErrValidation, http.StatusBadRequest, CodeValidation},
	{services.ErrContentPolicy, http.StatusUnprocessableEntity, CodeContentPolicy},
	{services.ErrAlreadyReported, http.StatusConflict, CodeAlreadyReported},
	{services.ErrConflict, http.StatusConflict, CodeConflict},
}

// Classify maps an error to its HTTP status and error code.
func Classify(err error) (int, string) {
	for _, e := range errorCodes {
		if errors.Is(err, e.kind) {
			return e.status, e.code
		}
	}
	return http.StatusInternalServerError, CodeInternal
}

// ErrorHandler renders the last error recorded on the context as JSON.
// Errors outside the service taxonomy are logged and reported without
// detail.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, code := Classify(err)
		message := services.PublicMessage(err)
		if status == http.StatusInternalServerError {
			logger.ErrorContext(c.Request.Context(), "request failed",
				"request_id", c.GetString(RequestIDKey),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			message = "Something went wrong, please try again later"
		}
		c.JSON(status, gin.H{"error": code, "message": message})
	}
}
