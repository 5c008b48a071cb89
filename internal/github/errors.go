package github

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork is returned when the request never produced a response.
	ErrNetwork = errors.New("network error")
	// ErrDecode is returned when a response body does not have the expected shape.
	ErrDecode = errors.New("decode error")
	// ErrInvalidToken is returned when GitHub refuses to resolve the token owner.
	ErrInvalidToken = errors.New("invalid token")
)

// StatusError is returned for any response outside the 2xx range.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response status: %s", e.Status)
}

// IsStatus reports whether err carries a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}
