package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind names a class of application error. Kinds are what callers compare on.
type Kind string

const (
	KindMissingCredentials Kind = "MissingCredentials"
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindUnauthenticated    Kind = "Unauthenticated"
	KindInvalidProduct     Kind = "InvalidProduct"
	KindNotFound           Kind = "NotFound"
	KindBrandNotFound      Kind = "BrandNotFound"
	KindQuantityTooLow     Kind = "QuantityTooLow"
	KindQuantityTooHigh    Kind = "QuantityTooHigh"
	KindInvalidQuantity    Kind = "InvalidQuantity"
	KindNoMatch            Kind = "NoMatch"
	KindInvalidInput       Kind = "InvalidInput"
	KindNotReady           Kind = "NotReady"
	KindRateLimited        Kind = "RateLimited"
	KindInternal           Kind = "Internal"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"-"`
	Kind    Kind   `json:"kind"`
	Message string `json:"error"`
	Payload any    `json:"payload,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, ErrNotFound) works regardless of message or payload.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(code int, kind Kind, message string) *Error {
	return &Error{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// WithPayload returns a copy of e carrying payload, echoed back to the caller.
func (e *Error) WithPayload(payload any) *Error {
	cp := *e
	cp.Payload = payload
	return &cp
}

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// Authentication errors
var (
	ErrMissingCredentials = New(http.StatusBadRequest, KindMissingCredentials, "email and password must not be empty")
	ErrInvalidCredentials = New(http.StatusUnauthorized, KindInvalidCredentials, "username and/or password incorrect")
	ErrUnauthenticated    = New(http.StatusUnauthorized, KindUnauthenticated, "must be logged in with a valid access token")
)

// Cart and catalog errors
var (
	ErrInvalidProduct  = New(http.StatusBadRequest, KindInvalidProduct, "product is missing required fields or has a negative price")
	ErrNotFound        = New(http.StatusNotFound, KindNotFound, "product not found in cart")
	ErrBrandNotFound   = New(http.StatusNotFound, KindBrandNotFound, "brand not found")
	ErrQuantityTooLow  = New(http.StatusBadRequest, KindQuantityTooLow, "quantity must be at least 1")
	ErrQuantityTooHigh = New(http.StatusBadRequest, KindQuantityTooHigh, "quantity must not exceed 30")
	ErrInvalidQuantity = New(http.StatusBadRequest, KindInvalidQuantity, "quantity must be an integer")
	ErrNoMatch         = New(http.StatusNotFound, KindNoMatch, "no products found")
)

// Transport errors
var (
	ErrInvalidInput = New(http.StatusBadRequest, KindInvalidInput, "invalid request body")
	ErrNotReady     = New(http.StatusServiceUnavailable, KindNotReady, "service is starting, try again shortly")
	ErrRateLimited  = New(http.StatusTooManyRequests, KindRateLimited, "rate limit exceeded, try again later")
	ErrInternal     = New(http.StatusInternalServerError, KindInternal, "internal server error")
)

// From converts any error into an *Error, defaulting to ErrInternal.
func From(err error) *Error {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal.Wrap(err)
}

// Abort renders err as the response and stops the handler chain.
func Abort(c *gin.Context, err error) {
	appErr := From(err)
	c.AbortWithStatusJSON(appErr.Code, appErr)
}

// ErrorMiddleware renders the last error pushed with c.Error.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := From(c.Errors.Last().Err)
		c.JSON(appErr.Code, appErr)
		c.Abort()
	}
}
