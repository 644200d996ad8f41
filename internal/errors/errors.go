// Package errors provides the caller-visible error taxonomy used across the
// FinOpsGuard core (parser, pricing, policy, store, cache).
package errors

import "fmt"

// Type identifies the category of error. Values match the caller-visible
// error kinds a consumer of pkg/finops must be able to switch on.
type Type string

const (
	// TypeInvalidRequest indicates a missing or malformed top-level field.
	TypeInvalidRequest Type = "invalid_request"

	// TypeInvalidPayloadEncoding indicates iac_payload was not valid base64.
	TypeInvalidPayloadEncoding Type = "invalid_payload_encoding"

	// TypeParsing indicates the decoded IaC text was syntactically invalid.
	TypeParsing Type = "parse_error"

	// TypePolicyNotFound indicates a policy id did not resolve.
	TypePolicyNotFound Type = "policy_not_found"

	// TypePolicyExists indicates create_policy collided with an existing id.
	TypePolicyExists Type = "policy_exists"

	// TypePricing indicates live pricing was required, fallback was disabled,
	// and the live lookup failed.
	TypePricing Type = "pricing_unavailable"

	// TypeCancelled indicates the caller's context was cancelled or its
	// deadline elapsed before the check completed.
	TypeCancelled Type = "cancelled"

	// TypeNotFound indicates a record lookup (e.g. an analysis) found nothing.
	TypeNotFound Type = "not_found"

	// TypeInternal is anything unclassified; must be logged with context.
	TypeInternal Type = "internal_error"
)

// Error represents a domain error with context.
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type.
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error for structured logging.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error.
func New(errType Type, message string) *Error {
	return &Error{Type: errType, Message: message}
}

// Newf creates a new formatted error.
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with context.
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{Type: errType, Message: message, Cause: cause}
}

// Wrapf wraps an error with formatted context.
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsType checks if err is an *Error of the given type.
func IsType(err error, t Type) bool {
	var e *Error
	if as(err, &e) {
		return e.Type == t
	}
	return false
}

// TypeOf returns the Type of err, or TypeInternal if err is not an *Error.
func TypeOf(err error) Type {
	var e *Error
	if as(err, &e) {
		return e.Type
	}
	return TypeInternal
}

func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// InvalidRequest creates a TypeInvalidRequest error.
func InvalidRequest(message string) *Error { return New(TypeInvalidRequest, message) }

// InvalidPayloadEncoding creates a TypeInvalidPayloadEncoding error.
func InvalidPayloadEncoding(cause error) *Error {
	return Wrap(TypeInvalidPayloadEncoding, "iac_payload is not valid base64", cause)
}

// Parsing creates a parsing error naming the offending location when known.
func Parsing(message string, cause error) *Error {
	return Wrap(TypeParsing, message, cause)
}

// Pricing creates a pricing-unavailable error.
func Pricing(message string, cause error) *Error {
	return Wrap(TypePricing, message, cause)
}

// PolicyNotFound creates a TypePolicyNotFound error.
func PolicyNotFound(id string) *Error {
	return Newf(TypePolicyNotFound, "policy not found: %s", id)
}

// PolicyExists creates a TypePolicyExists error.
func PolicyExists(id string) *Error {
	return Newf(TypePolicyExists, "policy already exists: %s", id)
}

// Cancelled creates a TypeCancelled error.
func Cancelled(cause error) *Error {
	return Wrap(TypeCancelled, "check was cancelled", cause)
}

// NotFound creates a not found error.
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}

// Internal creates an internal error.
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
