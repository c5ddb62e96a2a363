package params

// Validation errors. Each is returned unwrapped so callers can compare with
// errors.Is or ==.
var (
	ErrMissingOrTooMuchData   = &ParamError{"Missing or too much data"}
	ErrInvalidCost            = &ParamError{"Invalid cost"}
	ErrInvalidBlockSize       = &ParamError{"Invalid blockSize"}
	ErrInvalidParallelization = &ParamError{"Invalid parallelization"}
	ErrInvalidSaltLen         = &ParamError{"Invalid saltLen"}
	ErrInvalidKeyLen          = &ParamError{"Invalid keyLen"}
)

// ParamError represents a rejected input or parameter
type ParamError struct {
	Message string
}

func (e *ParamError) Error() string {
	return e.Message
}
