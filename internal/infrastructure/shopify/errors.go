package shopify

import "fmt"

// ResponseError is one entry of a GraphQL top-level error list.
type ResponseError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// UserError is one entry of a mutation's userErrors list.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// transientServerErrors are error messages Shopify returns in an
// otherwise successful HTTP response when an upstream hop failed. They
// are treated like transport failures.
var transientServerErrors = map[string]struct{}{
	"503 Service Unavailable":             {},
	"503 Service Temporarily Unavailable": {},
	"504 Gateway Timeout":                 {},
	"502 Bad Gateway":                     {},
	"520 ":                                {},
	"530 ":                                {},
	"500 Internal Server Error":           {},
}

const entityLockedCode = "TOO_MANY_PARALLEL_REQUESTS_FOR_THIS_PRODUCT"

// ConnectionError is a transient transport or upstream server failure.
// Safe to retry with backoff.
type ConnectionError struct {
	Message string
	cause   error
}

func (e *ConnectionError) Error() string {
	msg := "shopify: connection failed"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *ConnectionError) Unwrap() error   { return e.cause }
func (e *ConnectionError) Retryable() bool { return true }

// TooManyRequestsError means the API throttled the call. Safe to retry
// with backoff.
type TooManyRequestsError struct {
	Errors []ResponseError
}

func (e *TooManyRequestsError) Error() string  { return "shopify: throttled" }
func (e *TooManyRequestsError) Retryable() bool { return true }

// EntityLockedError means another request currently mutates the same
// remote entity. Safe to retry.
type EntityLockedError struct {
	Errors []ResponseError
}

func (e *EntityLockedError) Error() string  { return "shopify: entity locked by a parallel request" }
func (e *EntityLockedError) Retryable() bool { return true }

// APIRequestError is a structural failure: bad query, bad variables,
// missing scope. Retrying cannot help.
type APIRequestError struct {
	Errors []ResponseError
}

func (e *APIRequestError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("shopify: request failed: %s", e.Errors[0].Message)
	}
	return "shopify: request failed"
}

func (e *APIRequestError) Retryable() bool { return false }

// APIUserError carries a mutation's userErrors: the input was rejected.
// Retrying cannot help.
type APIUserError struct {
	UserErrors []UserError
}

func (e *APIUserError) Error() string {
	if len(e.UserErrors) > 0 {
		return fmt.Sprintf("shopify: mutation rejected: %s", e.UserErrors[0].Message)
	}
	return "shopify: mutation rejected"
}

func (e *APIUserError) Retryable() bool { return false }

// classifyErrors translates a GraphQL error list into the local error
// taxonomy. Matching looks at the first error, like the upstream API
// documents its failure shapes.
func classifyErrors(errs []ResponseError) error {
	first := errs[0]

	if _, ok := transientServerErrors[first.Message]; ok {
		return &ConnectionError{Message: first.Message}
	}
	if first.Message == "Throttled" {
		return &TooManyRequestsError{Errors: errs}
	}
	if first.Extensions.Code == entityLockedCode {
		return &EntityLockedError{Errors: errs}
	}
	return &APIRequestError{Errors: errs}
}
