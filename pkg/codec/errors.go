package codec

// Decode errors
var (
	ErrTruncatedRecord    = &CodecError{"Truncated record"}
	ErrLengthMismatch     = &CodecError{"Record length mismatch"}
	ErrUnsupportedVersion = &CodecError{"Unsupported record version"}
)

// CodecError represents a malformed or unsupported record
type CodecError struct {
	Message string
}

func (e *CodecError) Error() string {
	return e.Message
}
