package ozon

import "errors"

var (
	// ErrMissingCredentials is returned when a client id or API key is empty.
	ErrMissingCredentials = errors.New("client id and api key are required")

	// ErrUnsupportedMethod is returned for HTTP methods other than
	// POST, GET, PUT and DELETE.
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")

	// ErrTransport wraps failures to complete the HTTP exchange.
	ErrTransport = errors.New("transport failure")

	// ErrInvalidJSON is returned when a response body is not valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON response")

	// ErrUnexpectedShape is returned when a response body is valid JSON but
	// cannot be decoded into the type the operation returns, such as an
	// array where an object is expected.
	ErrUnexpectedShape = errors.New("unexpected response shape")

	// ErrInvalidPayload is returned when a typed request body fails validation.
	// No request is sent in that case.
	ErrInvalidPayload = errors.New("invalid request payload")

	// ErrPaginationExhausted is returned when a paginated fetch stops making
	// progress or hits its page cap while the API still reports more pages.
	ErrPaginationExhausted = errors.New("pagination exhausted")

	// ErrMalformedPage is returned when a page's trailing element carries no
	// usable cursor id.
	ErrMalformedPage = errors.New("malformed page")
)
