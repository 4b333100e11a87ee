package provider

import "errors"

var (
	// ErrRequestFailed indicates the request could not be sent or read.
	ErrRequestFailed = errors.New("provider: request failed")

	// ErrBadStatus indicates a non-2xx HTTP status.
	ErrBadStatus = errors.New("provider: bad status")

	// ErrUnexpectedResponse indicates the body failed the checkStatus
	// predicate or did not decode into the expected shape.
	ErrUnexpectedResponse = errors.New("provider: unexpected response")
)
