package node

import (
	"errors"
	"fmt"
	"net/http"

	"fiatjaf.com/nostrnode"
)

var (
	ErrInvalidURL = errors.New("invalid node url")

	// ErrInvalidEnvelope means the caller handed over an envelope that doesn't
	// verify locally. Nothing is sent in that case.
	ErrInvalidEnvelope = errors.New("envelope has a bad id or signature")
)

// NodeUnreachableError is returned when the request couldn't be completed or the
// node answered with a non-2xx status. Calling again may succeed.
type NodeUnreachableError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *NodeUnreachableError) Error() string {
	if e.StatusCode != 0 {
		msg := fmt.Sprintf("node at %s answered %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
		if e.Err != nil {
			msg += ": " + e.Err.Error()
		}
		return msg
	}
	return fmt.Sprintf("node at %s is unreachable: %s", e.URL, e.Err)
}

func (e *NodeUnreachableError) Unwrap() error { return e.Err }

// Temporary reports that the operation may be retried.
func (e *NodeUnreachableError) Temporary() bool { return true }

// UntrustedResponseError is returned when a node response fails authentication.
// The response is discarded and never returned as data.
type UntrustedResponseError struct {
	URL    string
	Reason string

	// who signed the response, if it got as far as being decoded
	PubKey nostrnode.PubKey
}

func (e *UntrustedResponseError) Error() string {
	return fmt.Sprintf("response from %s can't be trusted: %s", e.URL, e.Reason)
}

// MalformedResponseError is returned when a node response is authentic but its
// content isn't what was expected.
type MalformedResponseError struct {
	URL string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %s", e.URL, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
