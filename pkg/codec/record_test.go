package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ssargent/scryptd/pkg/params"
)

func testRecord(p params.ScryptParams) *HashRecord {
	salt := bytes.Repeat([]byte{0xA5}, p.SaltLen)
	key := bytes.Repeat([]byte{0x5A}, p.KeyLen)
	for i := range salt {
		salt[i] ^= byte(i)
	}
	for i := range key {
		key[i] ^= byte(i * 7)
	}
	return NewHashRecord(p, salt, key)
}

func TestRecordCodec_EncodeDecodeRoundTrip(t *testing.T) {
	codec := NewRecordCodec()

	testCases := []struct {
		name   string
		params params.ScryptParams
	}{
		{
			name:   "defaults",
			params: params.Default(),
		},
		{
			name:   "minimum values",
			params: params.ScryptParams{Cost: 4096, BlockSize: 1, Parallelization: 1, SaltLen: 16, KeyLen: 16},
		},
		{
			name:   "maximum values",
			params: params.ScryptParams{Cost: 524288, BlockSize: 16, Parallelization: 16, SaltLen: 47, KeyLen: 271},
		},
		{
			name:   "mixed values",
			params: params.ScryptParams{Cost: 65536, BlockSize: 3, Parallelization: 12, SaltLen: 31, KeyLen: 64},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			record := testRecord(tc.params)

			encoded, err := codec.Encode(record)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			if encoded[0] != byte(V2) {
				t.Errorf("Expected version byte 0x02, got 0x%02x", encoded[0])
			}
			if len(encoded) != 4+tc.params.SaltLen+tc.params.KeyLen {
				t.Errorf("Encoded length mismatch: got %d", len(encoded))
			}

			decoded, err := codec.Decode(encoded)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			assertRecordEqual(t, record, decoded)
		})
	}
}

func TestRecordCodec_LegacyRoundTrip(t *testing.T) {
	codec := NewRecordCodec()

	testCases := []struct {
		name   string
		record *HashRecord
	}{
		{
			name:   "typical",
			record: testRecord(params.ScryptParams{Cost: 16384, BlockSize: 8, Parallelization: 1, SaltLen: 16, KeyLen: 32}),
		},
		{
			name:   "minimum values",
			record: testRecord(params.ScryptParams{Cost: 1024, BlockSize: 1, Parallelization: 1, SaltLen: 16, KeyLen: 16}),
		},
		{
			name:   "maximum values",
			record: testRecord(params.ScryptParams{Cost: 65535, BlockSize: 15, Parallelization: 15, SaltLen: 255, KeyLen: 255}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.record.Version = V1

			encoded, err := codec.EncodeLegacy(tc.record)
			if err != nil {
				t.Fatalf("EncodeLegacy failed: %v", err)
			}
			if len(encoded) != tc.record.Size() {
				t.Errorf("Size mismatch: got %d, want %d", len(encoded), tc.record.Size())
			}

			decoded, err := codec.Decode(encoded)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			assertRecordEqual(t, tc.record, decoded)
		})
	}
}

func TestRecordCodec_LiteralEncoding(t *testing.T) {
	codec := NewRecordCodec()
	p := params.ScryptParams{Cost: 16384, BlockSize: 8, Parallelization: 4, SaltLen: 20, KeyLen: 32}

	encoded, err := codec.Encode(testRecord(p))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := []byte{0x02, 0x73, 0x44, 16}
	if !bytes.Equal(encoded[:4], want) {
		t.Errorf("Header mismatch: got % x, want % x", encoded[:4], want)
	}
}

func TestRecordCodec_LegacyLiteralDecoding(t *testing.T) {
	codec := NewRecordCodec()

	buf := make([]byte, 6+16+32)
	buf[0] = 0x01
	binary.BigEndian.PutUint16(buf[1:3], 16384)
	buf[3] = 8<<4 | 2
	buf[4] = 16
	buf[5] = 32

	record, err := codec.Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := params.ScryptParams{Cost: 16384, BlockSize: 8, Parallelization: 2, SaltLen: 16, KeyLen: 32}
	if record.Params() != want {
		t.Errorf("Params mismatch: got %+v, want %+v", record.Params(), want)
	}
	if record.Version != V1 {
		t.Errorf("Expected V1, got %d", record.Version)
	}
}

func TestRecordCodec_MalformedData(t *testing.T) {
	codec := NewRecordCodec()

	valid, err := codec.Encode(testRecord(params.Default()))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	testCases := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name:    "empty data",
			data:    []byte{},
			wantErr: ErrTruncatedRecord,
		},
		{
			name:    "three bytes",
			data:    []byte{0x02, 0x73, 0x44},
			wantErr: ErrTruncatedRecord,
		},
		{
			name:    "legacy header cut short",
			data:    []byte{0x01, 0x40, 0x00, 0x81, 0x10},
			wantErr: ErrTruncatedRecord,
		},
		{
			name:    "unknown version",
			data:    append([]byte{0x03}, valid[1:]...),
			wantErr: ErrUnsupportedVersion,
		},
		{
			name:    "zero version",
			data:    append([]byte{0x00}, valid[1:]...),
			wantErr: ErrUnsupportedVersion,
		},
		{
			name:    "missing key bytes",
			data:    valid[:len(valid)-1],
			wantErr: ErrLengthMismatch,
		},
		{
			name:    "trailing bytes",
			data:    append(append([]byte(nil), valid...), 0x00),
			wantErr: ErrLengthMismatch,
		},
		{
			name:    "header only",
			data:    valid[:4],
			wantErr: ErrLengthMismatch,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec.Decode(tc.data)
			if err == nil {
				t.Fatalf("Expected decode to fail for malformed data (%s)", tc.name)
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestRecordCodec_EncodeRejectsUnrepresentable(t *testing.T) {
	codec := NewRecordCodec()

	t.Run("cost outside v2 range", func(t *testing.T) {
		r := testRecord(params.Default())
		r.Cost = 1024
		if _, err := codec.Encode(r); !errors.Is(err, params.ErrInvalidCost) {
			t.Errorf("Expected ErrInvalidCost, got %v", err)
		}
	})

	t.Run("salt slice disagrees with saltLen", func(t *testing.T) {
		r := testRecord(params.Default())
		r.Salt = r.Salt[:10]
		if _, err := codec.Encode(r); !errors.Is(err, ErrLengthMismatch) {
			t.Errorf("Expected ErrLengthMismatch, got %v", err)
		}
	})

	t.Run("legacy block size too large", func(t *testing.T) {
		r := testRecord(params.ScryptParams{Cost: 16384, BlockSize: 16, Parallelization: 1, SaltLen: 16, KeyLen: 32})
		if _, err := codec.EncodeLegacy(r); !errors.Is(err, params.ErrInvalidBlockSize) {
			t.Errorf("Expected ErrInvalidBlockSize, got %v", err)
		}
	})
}

func TestRecordCodec_DecodeDoesNotAlias(t *testing.T) {
	codec := NewRecordCodec()

	encoded, err := codec.Encode(testRecord(params.Default()))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	record, err := codec.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	original := append([]byte(nil), record.Salt...)
	for i := range encoded {
		encoded[i] = 0
	}
	if !bytes.Equal(record.Salt, original) {
		t.Error("Decoded salt changed after the input buffer was modified")
	}
}

func TestHashRecord_Size(t *testing.T) {
	r := testRecord(params.Default())
	if r.Size() != 4+16+32 {
		t.Errorf("Expected size %d, got %d", 4+16+32, r.Size())
	}

	r.Version = V1
	if r.Size() != 6+16+32 {
		t.Errorf("Expected size %d, got %d", 6+16+32, r.Size())
	}

	r.Version = Version(9)
	if r.Size() != 0 {
		t.Errorf("Expected size 0 for unknown version, got %d", r.Size())
	}
}

func assertRecordEqual(t *testing.T, want, got *HashRecord) {
	t.Helper()

	if got.Version != want.Version {
		t.Errorf("Version mismatch: got %d, want %d", got.Version, want.Version)
	}
	if got.Params() != want.Params() {
		t.Errorf("Params mismatch: got %+v, want %+v", got.Params(), want.Params())
	}
	if !bytes.Equal(got.Salt, want.Salt) {
		t.Errorf("Salt mismatch: got %x, want %x", got.Salt, want.Salt)
	}
	if !bytes.Equal(got.Key, want.Key) {
		t.Errorf("Key mismatch: got %x, want %x", got.Key, want.Key)
	}
}
