package wire

import (
	"errors"

	"github.com/ssargent/scryptd/pkg/codec"
	"github.com/ssargent/scryptd/pkg/dispatch"
	"github.com/ssargent/scryptd/pkg/hasher"
	"github.com/ssargent/scryptd/pkg/params"
)

// ErrInvalidEncoding is reported when a /compare hash is not valid base64
var ErrInvalidEncoding = &EncodingError{"Invalid hash encoding"}

// InternalErrorMessage is sent for errors that are not a known kind
const InternalErrorMessage = "Internal error"

// EncodingError represents a record that could not be transport-decoded
type EncodingError struct {
	Message string
}

func (e *EncodingError) Error() string {
	return e.Message
}

// kinds lists every error a service reply can carry
var kinds = []error{
	params.ErrMissingOrTooMuchData,
	params.ErrInvalidCost,
	params.ErrInvalidBlockSize,
	params.ErrInvalidParallelization,
	params.ErrInvalidSaltLen,
	params.ErrInvalidKeyLen,
	codec.ErrTruncatedRecord,
	codec.ErrLengthMismatch,
	codec.ErrUnsupportedVersion,
	hasher.ErrDerivationLengthMismatch,
	hasher.ErrDerivationFailed,
	dispatch.ErrNoWorkersAvailable,
	dispatch.ErrShutdown,
	ErrInvalidEncoding,
}

// Message returns the public message for err. Details wrapped around a
// known kind are dropped; unknown errors become InternalErrorMessage.
func Message(err error) string {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return InternalErrorMessage
}

// Error maps a public message back to its error kind. Unknown messages are
// returned as a RemoteError.
func Error(message string) error {
	for _, kind := range kinds {
		if kind.Error() == message {
			return kind
		}
	}
	return &RemoteError{Message: message}
}

// RemoteError is a service error message with no local kind
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "remote: " + e.Message
}
