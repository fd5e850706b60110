package bridge

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/doeshing/phoenix-go/internal/domain"
)

// Error carries the HTTP status for a failed request.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

// NewError builds an Error from a message.
func NewError(code int, err string) error {
	return &Error{code, errors.New(err)}
}

var (
	ErrTooManyRequests = NewError(http.StatusTooManyRequests, "too many requests")
	ErrBadBody         = NewError(http.StatusBadRequest, "request body must be a JSON object")
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var e *Error
	var fe *fiber.Error
	switch {
	case errors.As(err, &e):
		return e.Code
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, domain.ErrUnknownSetting), errors.Is(err, domain.ErrInvalidSetting):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoDevice), errors.Is(err, domain.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", err, map[string]interface{}{
			"request_id": requestID(c),
			"path":       c.Path(),
		})
	}
	return c.Status(code).JSON(errorBody{
		Status:    "error",
		Message:   err.Error(),
		RequestID: requestID(c),
	})
}
