package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/ssargent/scryptd/pkg/params"
)

// Version identifies the binary layout of an encoded record
type Version byte

const (
	// V1 is the legacy layout with a 6 byte header
	V1 Version = 0x01
	// V2 is the current bit-packed layout with a 4 byte header
	V2 Version = 0x02
)

// minHeaderSize is the smallest header of any known layout
const minHeaderSize = 4

// HashRecord is the decoded form of one stored hash
type HashRecord struct {
	Version         Version
	Cost            int
	BlockSize       int
	Parallelization int
	SaltLen         int
	KeyLen          int
	Salt            []byte
	Key             []byte
}

// NewHashRecord builds a current-version record from derivation inputs and output
func NewHashRecord(p params.ScryptParams, salt, key []byte) *HashRecord {
	return &HashRecord{
		Version:         V2,
		Cost:            p.Cost,
		BlockSize:       p.BlockSize,
		Parallelization: p.Parallelization,
		SaltLen:         p.SaltLen,
		KeyLen:          p.KeyLen,
		Salt:            salt,
		Key:             key,
	}
}

// Params returns the derivation parameters carried by the record
func (r *HashRecord) Params() params.ScryptParams {
	return params.ScryptParams{
		Cost:            r.Cost,
		BlockSize:       r.BlockSize,
		Parallelization: r.Parallelization,
		SaltLen:         r.SaltLen,
		KeyLen:          r.KeyLen,
	}
}

// Size returns the encoded length of the record in its own layout
func (r *HashRecord) Size() int {
	l, ok := layouts[r.Version]
	if !ok {
		return 0
	}
	return l.headerSize() + r.SaltLen + r.KeyLen
}

// layout is one binary format. Adding a version means adding one layout
// and one entry in layouts.
type layout interface {
	headerSize() int
	putHeader(buf []byte, r *HashRecord) error
	header(buf []byte) HashRecord
}

var layouts = map[Version]layout{
	V1: v1Layout{},
	V2: v2Layout{},
}

// v1Layout: [version][cost BE16][blockSize<<4|parallelization][saltLen][keyLen]
type v1Layout struct{}

func (v1Layout) headerSize() int { return 6 }

func (v1Layout) putHeader(buf []byte, r *HashRecord) error {
	switch {
	case r.Cost < 1024 || r.Cost > 65535:
		return params.ErrInvalidCost
	case r.BlockSize < 1 || r.BlockSize > 15:
		return params.ErrInvalidBlockSize
	case r.Parallelization < 1 || r.Parallelization > 15:
		return params.ErrInvalidParallelization
	case r.SaltLen < 16 || r.SaltLen > 255:
		return params.ErrInvalidSaltLen
	case r.KeyLen < 16 || r.KeyLen > 255:
		return params.ErrInvalidKeyLen
	}

	buf[0] = byte(V1)
	binary.BigEndian.PutUint16(buf[1:3], uint16(r.Cost))
	buf[3] = byte(r.BlockSize<<4 | r.Parallelization)
	buf[4] = byte(r.SaltLen)
	buf[5] = byte(r.KeyLen)
	return nil
}

func (v1Layout) header(buf []byte) HashRecord {
	return HashRecord{
		Version:         V1,
		Cost:            int(binary.BigEndian.Uint16(buf[1:3])),
		BlockSize:       int(buf[3] >> 4),
		Parallelization: int(buf[3] & 0x0F),
		SaltLen:         int(buf[4]),
		KeyLen:          int(buf[5]),
	}
}

// v2Layout: [version][blockSize-1<<4|parallelization-1][log2(cost)-12<<5|saltLen-16][keyLen-16]
type v2Layout struct{}

func (v2Layout) headerSize() int { return 4 }

func (v2Layout) putHeader(buf []byte, r *HashRecord) error {
	if err := params.ValidateParams(r.Params()); err != nil {
		return err
	}

	buf[0] = byte(V2)
	buf[1] = byte((r.BlockSize-1)<<4 | (r.Parallelization - 1))
	buf[2] = byte((params.Log2(r.Cost)-12)<<5 | (r.SaltLen - 16))
	buf[3] = byte(r.KeyLen - 16)
	return nil
}

func (v2Layout) header(buf []byte) HashRecord {
	return HashRecord{
		Version:         V2,
		Cost:            1 << (int(buf[2]>>5) + 12),
		BlockSize:       int(buf[1]>>4) + 1,
		Parallelization: int(buf[1]&0x0F) + 1,
		SaltLen:         int(buf[2]&0x1F) + 16,
		KeyLen:          int(buf[3]) + 16,
	}
}

// RecordCodec handles serialization and deserialization of hash records
type RecordCodec struct{}

// NewRecordCodec creates a new record codec instance
func NewRecordCodec() *RecordCodec {
	return &RecordCodec{}
}

// Encode serializes a record in the current (V2) layout regardless of r.Version
func (c *RecordCodec) Encode(r *HashRecord) ([]byte, error) {
	return c.encodeAs(V2, r)
}

// EncodeLegacy serializes a record in the V1 layout
func (c *RecordCodec) EncodeLegacy(r *HashRecord) ([]byte, error) {
	return c.encodeAs(V1, r)
}

func (c *RecordCodec) encodeAs(v Version, r *HashRecord) ([]byte, error) {
	if len(r.Salt) != r.SaltLen || len(r.Key) != r.KeyLen {
		return nil, fmt.Errorf("%w: salt %d/%d key %d/%d", ErrLengthMismatch,
			len(r.Salt), r.SaltLen, len(r.Key), r.KeyLen)
	}

	l := layouts[v]
	hs := l.headerSize()
	buf := make([]byte, hs+r.SaltLen+r.KeyLen)
	if err := l.putHeader(buf, r); err != nil {
		return nil, err
	}
	copy(buf[hs:], r.Salt)
	copy(buf[hs+r.SaltLen:], r.Key)

	return buf, nil
}

// Decode deserializes a record, dispatching on the leading version byte.
// Decoded parameters are not checked against current bounds so records
// written under older limits stay verifiable.
func (c *RecordCodec) Decode(data []byte) (*HashRecord, error) {
	if len(data) < minHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedRecord, len(data))
	}

	l, ok := layouts[Version(data[0])]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnsupportedVersion, data[0])
	}

	hs := l.headerSize()
	if len(data) < hs {
		return nil, fmt.Errorf("%w: %d bytes for %d byte header", ErrTruncatedRecord, len(data), hs)
	}

	r := l.header(data)
	if want := hs + r.SaltLen + r.KeyLen; len(data) != want {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(data), want)
	}

	r.Salt = append([]byte(nil), data[hs:hs+r.SaltLen]...)
	r.Key = append([]byte(nil), data[hs+r.SaltLen:]...)

	return &r, nil
}
