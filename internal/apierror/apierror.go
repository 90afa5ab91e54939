package apierror

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/validation"
)

// RequestIDKey is the gin context key holding the request correlation id.
const RequestIDKey = "request_id"

type Response struct {
	Error     string   `json:"error"`
	Message   string   `json:"message,omitempty"`
	Hint      string   `json:"hint,omitempty"`
	Code      string   `json:"code,omitempty"`
	Errors    []string `json:"errors,omitempty"`
	Details   any      `json:"details,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

// Error is a fully resolved error response: the body plus its HTTP status.
type Error struct {
	Status int
	Body   Response
}

func (e *Error) Error() string {
	if e.Body.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Body.Code, e.Body.Error)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Body.Error)
}

// Respond aborts the gin chain and writes the response.
func (e *Error) Respond(c *gin.Context) {
	body := e.Body
	if body.RequestID == "" {
		body.RequestID = c.GetString(RequestIDKey)
	}
	c.AbortWithStatusJSON(e.Status, body)
}

type Option func(*Response)

func WithHint(hint string) Option {
	return func(r *Response) { r.Hint = hint }
}

func WithCode(code string) Option {
	return func(r *Response) { r.Code = code }
}

func WithMessage(msg string) Option {
	return func(r *Response) { r.Message = msg }
}

func WithErrors(errs []string) Option {
	return func(r *Response) { r.Errors = errs }
}

// WithDetails attaches internal details. They are emitted only in debug mode.
func WithDetails(details any) Option {
	return func(r *Response) { r.Details = details }
}

type Builder struct {
	debug bool
}

func NewBuilder(debug bool) *Builder {
	return &Builder{debug: debug}
}

func (b *Builder) Debug() bool {
	return b.debug
}

func (b *Builder) Build(message string, status int, opts ...Option) *Error {
	body := Response{Error: message}
	for _, opt := range opts {
		opt(&body)
	}
	if !b.debug {
		body.Details = nil
	}
	return &Error{Status: status, Body: body}
}

// Validation turns a failed validation pass into a single response. The
// status is 400 when any issue is malformed and 422 otherwise; the code is
// taken from the first issue of that kind.
func (b *Builder) Validation(errs validation.Errors, hint string) *Error {
	if hint == "" {
		hint = "Please fix the following issues with your request"
	}
	opts := []Option{
		WithHint(hint),
		WithErrors(errs.Messages()),
		WithDetails(errs.Messages()),
	}
	if primary, ok := errs.Primary(); ok {
		opts = append(opts, WithCode(primary.Code))
		if len(errs) == 1 {
			opts = append(opts, WithMessage(primary.Message))
		}
	}
	return b.Build("Validation failed", errs.Status(), opts...)
}

// Internal is the generic 500. The cause is only echoed in debug mode.
func (b *Builder) Internal(message string, err error) *Error {
	var details any
	if err != nil {
		details = err.Error()
	}
	return b.Build(message, http.StatusInternalServerError,
		WithCode("INTERNAL_ERROR"),
		WithHint("Please try again later or contact support"),
		WithDetails(details),
	)
}
