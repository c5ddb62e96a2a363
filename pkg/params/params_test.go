package params

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_Boundaries(t *testing.T) {
	base := ScryptParams{Cost: 16384, BlockSize: 8, Parallelization: 1, SaltLen: 16, KeyLen: 32}

	tests := []struct {
		name    string
		modify  func(p *ScryptParams)
		wantErr error
	}{
		{"defaults", func(p *ScryptParams) {}, nil},
		{"min cost", func(p *ScryptParams) { p.Cost = 4096 }, nil},
		{"max cost", func(p *ScryptParams) { p.Cost = 524288 }, nil},
		{"cost below min", func(p *ScryptParams) { p.Cost = 4095 }, ErrInvalidCost},
		{"cost above max", func(p *ScryptParams) { p.Cost = 524289 }, ErrInvalidCost},
		{"cost not power of two", func(p *ScryptParams) { p.Cost = 5000 }, ErrInvalidCost},
		{"cost power of two below min", func(p *ScryptParams) { p.Cost = 2048 }, ErrInvalidCost},
		{"cost power of two above max", func(p *ScryptParams) { p.Cost = 1 << 20 }, ErrInvalidCost},
		{"min block size", func(p *ScryptParams) { p.BlockSize = 1 }, nil},
		{"max block size", func(p *ScryptParams) { p.BlockSize = 16 }, nil},
		{"zero block size", func(p *ScryptParams) { p.BlockSize = 0 }, ErrInvalidBlockSize},
		{"block size too large", func(p *ScryptParams) { p.BlockSize = 17 }, ErrInvalidBlockSize},
		{"min parallelization", func(p *ScryptParams) { p.Parallelization = 1 }, nil},
		{"max parallelization", func(p *ScryptParams) { p.Parallelization = 16 }, nil},
		{"zero parallelization", func(p *ScryptParams) { p.Parallelization = 0 }, ErrInvalidParallelization},
		{"parallelization too large", func(p *ScryptParams) { p.Parallelization = 17 }, ErrInvalidParallelization},
		{"min salt", func(p *ScryptParams) { p.SaltLen = 16 }, nil},
		{"max salt", func(p *ScryptParams) { p.SaltLen = 47 }, nil},
		{"salt too short", func(p *ScryptParams) { p.SaltLen = 15 }, ErrInvalidSaltLen},
		{"salt too long", func(p *ScryptParams) { p.SaltLen = 48 }, ErrInvalidSaltLen},
		{"min key", func(p *ScryptParams) { p.KeyLen = 16 }, nil},
		{"max key", func(p *ScryptParams) { p.KeyLen = 271 }, nil},
		{"key too short", func(p *ScryptParams) { p.KeyLen = 15 }, ErrInvalidKeyLen},
		{"key too long", func(p *ScryptParams) { p.KeyLen = 272 }, ErrInvalidKeyLen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.modify(&p)
			err := Validate("password", p)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_Order(t *testing.T) {
	// Every field is bad; the data check wins, then cost, then block size.
	bad := ScryptParams{Cost: 3, BlockSize: 0, Parallelization: 0, SaltLen: 0, KeyLen: 0}
	assert.ErrorIs(t, Validate("", bad), ErrMissingOrTooMuchData)
	assert.ErrorIs(t, Validate("x", bad), ErrInvalidCost)

	bad.Cost = 4096
	assert.ErrorIs(t, Validate("x", bad), ErrInvalidBlockSize)
	bad.BlockSize = 1
	assert.ErrorIs(t, Validate("x", bad), ErrInvalidParallelization)
	bad.Parallelization = 1
	assert.ErrorIs(t, Validate("x", bad), ErrInvalidSaltLen)
	bad.SaltLen = 16
	assert.ErrorIs(t, Validate("x", bad), ErrInvalidKeyLen)
}

func TestValidateData(t *testing.T) {
	assert.ErrorIs(t, ValidateData(""), ErrMissingOrTooMuchData)
	assert.NoError(t, ValidateData("a"))
	assert.NoError(t, ValidateData(strings.Repeat("a", 2048)))
	assert.ErrorIs(t, ValidateData(strings.Repeat("a", 2049)), ErrMissingOrTooMuchData)

	// Length is counted in characters, not bytes.
	assert.NoError(t, ValidateData(strings.Repeat("é", 2048)))
	assert.ErrorIs(t, ValidateData(strings.Repeat("é", 2049)), ErrMissingOrTooMuchData)
}

func TestDefault(t *testing.T) {
	assert.NoError(t, ValidateParams(Default()))
}

func TestPowerOfTwoHelpers(t *testing.T) {
	assert.True(t, IsPowerOfTwo(4096))
	assert.False(t, IsPowerOfTwo(0))
	assert.False(t, IsPowerOfTwo(-4))
	assert.False(t, IsPowerOfTwo(5000))
	assert.Equal(t, 12, Log2(4096))
	assert.Equal(t, 19, Log2(524288))
}
