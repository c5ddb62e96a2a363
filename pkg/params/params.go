// Package params defines scrypt derivation parameters and the bounds new
// hashes must satisfy.
package params

import (
	"math/bits"
	"unicode/utf8"
)

// Bounds accepted for new hashes. They match what a V2 record can represent.
const (
	MinDataLen = 1
	MaxDataLen = 2048

	MinCost = 1 << 12
	MaxCost = 1 << 19

	MinBlockSize = 1
	MaxBlockSize = 16

	MinParallelization = 1
	MaxParallelization = 16

	MinSaltLen = 16
	MaxSaltLen = 47

	MinKeyLen = 16
	MaxKeyLen = 271
)

// ScryptParams holds the tunable inputs of one derivation.
type ScryptParams struct {
	Cost            int `json:"cost"`
	BlockSize       int `json:"blockSize"`
	Parallelization int `json:"parallelization"`
	SaltLen         int `json:"saltLen"`
	KeyLen          int `json:"keyLen"`
}

// Default returns parameters suitable for interactive logins.
func Default() ScryptParams {
	return ScryptParams{
		Cost:            16384,
		BlockSize:       8,
		Parallelization: 1,
		SaltLen:         16,
		KeyLen:          32,
	}
}

// Validate checks data and p, in that order, and returns the first failure.
func Validate(data string, p ScryptParams) error {
	if err := ValidateData(data); err != nil {
		return err
	}
	return ValidateParams(p)
}

// ValidateData checks that data holds between MinDataLen and MaxDataLen characters.
func ValidateData(data string) error {
	n := utf8.RuneCountInString(data)
	if n < MinDataLen || n > MaxDataLen {
		return ErrMissingOrTooMuchData
	}
	return nil
}

// ValidateParams checks p against the current bounds, short-circuiting on
// the first field out of range.
func ValidateParams(p ScryptParams) error {
	if p.Cost < MinCost || p.Cost > MaxCost || !IsPowerOfTwo(p.Cost) {
		return ErrInvalidCost
	}
	if p.BlockSize < MinBlockSize || p.BlockSize > MaxBlockSize {
		return ErrInvalidBlockSize
	}
	if p.Parallelization < MinParallelization || p.Parallelization > MaxParallelization {
		return ErrInvalidParallelization
	}
	if p.SaltLen < MinSaltLen || p.SaltLen > MaxSaltLen {
		return ErrInvalidSaltLen
	}
	if p.KeyLen < MinKeyLen || p.KeyLen > MaxKeyLen {
		return ErrInvalidKeyLen
	}
	return nil
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Log2 returns the base-2 logarithm of a power of two.
func Log2(n int) int {
	return bits.TrailingZeros(uint(n))
}
