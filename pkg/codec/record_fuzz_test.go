//go:build fuzz
// +build fuzz

package codec

import (
	"bytes"
	"testing"

	"github.com/ssargent/scryptd/pkg/params"
)

// FuzzRecordCodec_RoundTrip tests encode/decode round-trip across the V2 parameter space
func FuzzRecordCodec_RoundTrip(f *testing.F) {
	codec := NewRecordCodec()

	// Add seed corpus
	f.Add(uint8(2), uint8(8), uint8(1), uint8(16), uint16(32), []byte("salt"))
	f.Add(uint8(0), uint8(1), uint8(1), uint8(16), uint16(16), []byte{})
	f.Add(uint8(7), uint8(16), uint8(16), uint8(47), uint16(271), []byte{0xFF})

	f.Fuzz(func(t *testing.T, costExp, blockSize, parallelization, saltLen uint8, keyLen uint16, seed []byte) {
		p := params.ScryptParams{
			Cost:            1 << (12 + int(costExp%8)),
			BlockSize:       int(blockSize%16) + 1,
			Parallelization: int(parallelization%16) + 1,
			SaltLen:         int(saltLen%32) + 16,
			KeyLen:          int(keyLen%256) + 16,
		}

		salt := make([]byte, p.SaltLen)
		key := make([]byte, p.KeyLen)
		for i := range salt {
			if len(seed) > 0 {
				salt[i] = seed[i%len(seed)]
			}
		}
		for i := range key {
			key[i] = byte(i) ^ byte(len(seed))
		}

		encoded, err := codec.Encode(NewHashRecord(p, salt, key))
		if err != nil {
			t.Fatalf("Encode failed for %+v: %v", p, err)
		}

		record, err := codec.Decode(encoded)
		if err != nil {
			t.Fatalf("Decode failed for %+v: %v", p, err)
		}

		if record.Params() != p {
			t.Errorf("Params mismatch: got %+v, want %+v", record.Params(), p)
		}
		if !bytes.Equal(record.Salt, salt) {
			t.Errorf("Salt mismatch")
		}
		if !bytes.Equal(record.Key, key) {
			t.Errorf("Key mismatch")
		}
	})
}

// FuzzRecordCodec_MalformedData tests handling of malformed input
func FuzzRecordCodec_MalformedData(f *testing.F) {
	codec := NewRecordCodec()

	// Add seed corpus of malformed data
	f.Add([]byte{})
	f.Add([]byte{0x01})
	f.Add([]byte{0x02, 0x73, 0x44})
	f.Add([]byte{0x01, 0x40, 0x00, 0x81, 0x10, 0x10})
	f.Add(make([]byte, 4))

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 100000 {
			t.Skip("Input too large for fuzz test")
		}

		// The important thing is that it doesn't panic
		record, err := codec.Decode(data)
		if err != nil {
			return
		}

		if record.Size() != len(data) {
			t.Errorf("Decoded record size %d does not match input length %d", record.Size(), len(data))
		}
	})
}
