// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package passwordping

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrMissingCredentials is returned by NewClient when the API key or the
	// secret is empty.
	ErrMissingCredentials = errors.New("API key and Secret must be provided")

	// ErrInvalidHost is returned by NewClient for a host it cannot turn into a
	// base URL.
	ErrInvalidHost = errors.New("passwordping: invalid API host")
)

// TransportError is returned when a call could not complete: DNS, connection
// and TLS failures, cancelled contexts, and any status other than 200 or 404.
// StatusCode is zero when no response was received.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Unexpected error calling %s API: %s", serviceName, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// newTransportError drops the *url.Error wrapper so the message is the
// transport's own diagnostic.
func newTransportError(err error) *TransportError {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		err = uerr.Err
	}
	return &TransportError{Err: err}
}

func newStatusError(code int, body string) *TransportError {
	if body == "" {
		return &TransportError{StatusCode: code, Err: fmt.Errorf("HTTP %d", code)}
	}
	return &TransportError{StatusCode: code, Err: fmt.Errorf("HTTP %d: %s", code, body)}
}
