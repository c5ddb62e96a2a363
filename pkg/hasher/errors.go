package hasher

// Derivation errors
var (
	ErrDerivationLengthMismatch = &DerivationError{"Derived key length mismatch"}
	ErrDerivationFailed         = &DerivationError{"Derivation failed"}
)

// DerivationError represents a failure of the key derivation primitive
type DerivationError struct {
	Message string
}

func (e *DerivationError) Error() string {
	return e.Message
}
