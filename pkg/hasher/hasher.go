// Package hasher derives and verifies scrypt hash records.
package hasher

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/ssargent/scryptd/pkg/codec"
	"github.com/ssargent/scryptd/pkg/params"
	"golang.org/x/crypto/scrypt"
)

// KeyFunc derives a key of keyLen bytes. It has the signature of scrypt.Key.
type KeyFunc func(password, salt []byte, N, r, p, keyLen int) ([]byte, error)

// Hasher is the only component that invokes the key derivation and
// constant-time comparison primitives. It holds no mutable state and is safe
// for concurrent use.
type Hasher struct {
	codec  *codec.RecordCodec
	derive KeyFunc
	random io.Reader
}

// Option configures a Hasher
type Option func(*Hasher)

// WithKeyFunc replaces the scrypt primitive
func WithKeyFunc(fn KeyFunc) Option {
	return func(h *Hasher) {
		h.derive = fn
	}
}

// WithRandom replaces the salt source
func WithRandom(r io.Reader) Option {
	return func(h *Hasher) {
		h.random = r
	}
}

// New creates a Hasher backed by scrypt and crypto/rand
func New(opts ...Option) *Hasher {
	h := &Hasher{
		codec:  codec.NewRecordCodec(),
		derive: scrypt.Key,
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash validates p, derives a key from data with a fresh random salt and
// returns the encoded record.
func (h *Hasher) Hash(data string, p params.ScryptParams) ([]byte, error) {
	if err := params.Validate(data, p); err != nil {
		return nil, err
	}

	salt := make([]byte, p.SaltLen)
	if _, err := io.ReadFull(h.random, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := h.deriveKey([]byte(data), salt, p)
	if err != nil {
		return nil, err
	}
	if len(key) != p.KeyLen {
		return nil, fmt.Errorf("%w: got %d want %d", ErrDerivationLengthMismatch, len(key), p.KeyLen)
	}

	return h.codec.Encode(codec.NewHashRecord(p, salt, key))
}

// Compare reports whether data matches the encoded record. The record's
// parameters are used as stored, so records hashed under older bounds
// still verify.
func (h *Hasher) Compare(data string, encoded []byte) (bool, error) {
	if err := params.ValidateData(data); err != nil {
		return false, err
	}

	record, err := h.codec.Decode(encoded)
	if err != nil {
		return false, err
	}

	key, err := h.deriveKey([]byte(data), record.Salt, record.Params())
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(key, record.Key) == 1, nil
}

// NeedsRehash reports whether encoded was written in a legacy layout or
// with parameters other than p.
func (h *Hasher) NeedsRehash(encoded []byte, p params.ScryptParams) (bool, error) {
	record, err := h.codec.Decode(encoded)
	if err != nil {
		return false, err
	}
	return record.Version != codec.V2 || record.Params() != p, nil
}

// deriveKey runs the primitive and reports any failure, including a panic,
// as ErrDerivationFailed.
func (h *Hasher) deriveKey(data, salt []byte, p params.ScryptParams) (key []byte, err error) {
	// Legacy records can carry a zero block size or parallelization, which
	// scrypt does not reject cleanly.
	if p.BlockSize < 1 || p.Parallelization < 1 {
		return nil, fmt.Errorf("%w: r=%d p=%d", ErrDerivationFailed, p.BlockSize, p.Parallelization)
	}

	defer func() {
		if r := recover(); r != nil {
			key = nil
			err = fmt.Errorf("%w: %v", ErrDerivationFailed, r)
		}
	}()

	key, err = h.derive(data, salt, p.Cost, p.BlockSize, p.Parallelization, p.KeyLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDerivationFailed, err)
	}
	return key, nil
}
