package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/yukikurage/task-manager-api/internal/response"
)

// Kind classifies an API failure
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindInvalidCredentials
	KindForbidden
	KindNotFound
	KindValidation
	KindPayloadTooLarge
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindUnauthenticated, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// DefaultMessage returns the message used when an error carries none.
func (k Kind) DefaultMessage() string {
	switch k {
	case KindUnauthenticated:
		return "Unauthenticated."
	case KindInvalidCredentials:
		return "Invalid login credentials"
	case KindForbidden:
		return "Forbidden."
	case KindNotFound:
		return "Resource not found."
	case KindValidation:
		return "Validation Error"
	case KindPayloadTooLarge:
		return "Payload Too Large"
	default:
		return "Server Error"
	}
}

// FieldErrors maps a request field to its validation messages
type FieldErrors map[string][]string

// Add appends a message for field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// APIError is the single error type rendered by Respond.
type APIError struct {
	Kind    Kind
	Message string
	Fields  FieldErrors
	Err     error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.message(), e.Err)
	}
	return e.message()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func (e *APIError) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.DefaultMessage()
}

// Unauthenticated is returned when no valid bearer token is presented.
func Unauthenticated() *APIError {
	return &APIError{Kind: KindUnauthenticated}
}

// InvalidCredentials is returned by login for any credential mismatch.
func InvalidCredentials() *APIError {
	return &APIError{Kind: KindInvalidCredentials}
}

func Forbidden(message string) *APIError {
	return &APIError{Kind: KindForbidden, Message: message}
}

func NotFound(message string) *APIError {
	return &APIError{Kind: KindNotFound, Message: message}
}

// Validation wraps a field error map.
func Validation(fields FieldErrors) *APIError {
	return &APIError{Kind: KindValidation, Fields: fields}
}

// ValidationField is a shortcut for a single failing field.
func ValidationField(field, message string) *APIError {
	fields := FieldErrors{}
	fields.Add(field, message)
	return Validation(fields)
}

// PayloadTooLarge is returned when a request body exceeds the size limit.
func PayloadTooLarge() *APIError {
	return &APIError{Kind: KindPayloadTooLarge}
}

// Internal wraps an unexpected error.
func Internal(err error) *APIError {
	return &APIError{Kind: KindInternal, Err: err}
}

// FromValidation converts ozzo-validation errors into a validation APIError.
// Other errors are treated as internal failures.
func FromValidation(err error) *APIError {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return Internal(err)
	}

	fields := FieldErrors{}
	for field, ferr := range verrs {
		if ferr == nil {
			continue
		}
		var nested validation.Errors
		if errors.As(ferr, &nested) {
			for key, nerr := range nested {
				fields.Add(field+"."+key, nerr.Error())
			}
			continue
		}
		fields.Add(field, ferr.Error())
	}
	return Validation(fields)
}

// Payload returns the envelope data for the error.
func (e *APIError) Payload() any {
	switch e.Kind {
	case KindValidation:
		if e.Fields == nil {
			return FieldErrors{}
		}
		return e.Fields
	case KindInternal:
		return gin.H{"exception": exceptionName(e.Err)}
	default:
		return response.Empty()
	}
}

// Respond renders err through the error envelope and aborts the chain.
// Errors that are not *APIError are reported as internal failures.
func Respond(c *gin.Context, err error) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		apiErr = Internal(err)
	}

	if apiErr.Kind == KindInternal {
		_ = c.Error(apiErr)
	}

	response.Error(c, apiErr.Payload(), apiErr.message(), apiErr.Kind.Status())
	c.Abort()
}

// exceptionName exposes only the Go type of the innermost error.
func exceptionName(err error) string {
	if err == nil {
		return "unknown"
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return fmt.Sprintf("%T", err)
		}
		err = next
	}
}
