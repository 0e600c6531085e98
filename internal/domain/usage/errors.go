package usage

import (
	"errors"
	"fmt"
)

var (
	// ErrTokenUnavailable is returned when a bearer token could not be
	// obtained. The failure has already been written to the diagnostic log.
	ErrTokenUnavailable = errors.New("bearer token unavailable")

	ErrMalformedResponse = errors.New("malformed upstream response")
)

// UpstreamStatusError reports a non-200 answer from the usage or inventory API.
type UpstreamStatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s API returned status %d", e.Service, e.StatusCode)
}

// TransportError reports a request that never produced an HTTP response.
type TransportError struct {
	Service string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s API request failed: %v", e.Service, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
