package wire

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ssargent/scryptd/pkg/codec"
	"github.com/ssargent/scryptd/pkg/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeHashRequest(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		want      HashRequest
		wantShape bool
	}{
		{
			name: "valid",
			body: `{"data":"pw","cost":16384,"blockSize":8,"parallelization":1,"saltLen":16,"keyLen":32}`,
			want: HashRequest{Data: "pw", ScryptParams: params.ScryptParams{Cost: 16384, BlockSize: 8, Parallelization: 1, SaltLen: 16, KeyLen: 32}},
		},
		{
			name: "integral float",
			body: `{"data":"pw","cost":16384.0,"blockSize":8,"parallelization":1,"saltLen":16,"keyLen":32}`,
			want: HashRequest{Data: "pw", ScryptParams: params.ScryptParams{Cost: 16384, BlockSize: 8, Parallelization: 1, SaltLen: 16, KeyLen: 32}},
		},
		{
			name: "empty data is well formed",
			body: `{"data":"","cost":1,"blockSize":1,"parallelization":1,"saltLen":1,"keyLen":1}`,
			want: HashRequest{ScryptParams: params.ScryptParams{Cost: 1, BlockSize: 1, Parallelization: 1, SaltLen: 1, KeyLen: 1}},
		},
		{
			name: "extra fields ignored",
			body: `{"data":"pw","cost":4096,"blockSize":1,"parallelization":1,"saltLen":16,"keyLen":16,"x":true}`,
			want: HashRequest{Data: "pw", ScryptParams: params.ScryptParams{Cost: 4096, BlockSize: 1, Parallelization: 1, SaltLen: 16, KeyLen: 16}},
		},
		{name: "malformed json", body: `{"data":`, wantShape: true},
		{name: "not an object", body: `[1,2]`, wantShape: true},
		{name: "null", body: `null`, wantShape: true},
		{name: "trailing garbage", body: `{"data":"pw"} x`, wantShape: true},
		{name: "missing data", body: `{"cost":4096,"blockSize":1,"parallelization":1,"saltLen":16,"keyLen":16}`, wantShape: true},
		{name: "data not a string", body: `{"data":5,"cost":4096,"blockSize":1,"parallelization":1,"saltLen":16,"keyLen":16}`, wantShape: true},
		{name: "missing cost", body: `{"data":"pw","blockSize":1,"parallelization":1,"saltLen":16,"keyLen":16}`, wantShape: true},
		{name: "fractional cost", body: `{"data":"pw","cost":4096.5,"blockSize":1,"parallelization":1,"saltLen":16,"keyLen":16}`, wantShape: true},
		{name: "string cost", body: `{"data":"pw","cost":"4096","blockSize":1,"parallelization":1,"saltLen":16,"keyLen":16}`, wantShape: true},
		{name: "null key length", body: `{"data":"pw","cost":4096,"blockSize":1,"parallelization":1,"saltLen":16,"keyLen":null}`, wantShape: true},
		{name: "huge cost", body: `{"data":"pw","cost":1e300,"blockSize":1,"parallelization":1,"saltLen":16,"keyLen":16}`, wantShape: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeHashRequest(strings.NewReader(tt.body))
			if tt.wantShape {
				var shape *ShapeError
				require.ErrorAs(t, err, &shape)
				assert.NotEmpty(t, shape.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeCompareRequest(t *testing.T) {
	req, err := DecodeCompareRequest(strings.NewReader(`{"data":"pw","hash":"AgAA"}`))
	require.NoError(t, err)
	assert.Equal(t, CompareRequest{Data: "pw", Hash: "AgAA"}, req)

	for _, body := range []string{`{"data":"pw"}`, `{"data":"pw","hash":7}`, `{"hash":"AgAA"}`, `"pw"`, ``} {
		_, err := DecodeCompareRequest(strings.NewReader(body))
		var shape *ShapeError
		assert.ErrorAs(t, err, &shape, "body %q", body)
	}
}

func TestMessageAndError(t *testing.T) {
	for _, kind := range kinds {
		wrapped := fmt.Errorf("context: %w", kind)
		msg := Message(wrapped)
		assert.Equal(t, kind.Error(), msg)
		assert.Same(t, kind, Error(msg))
	}

	assert.Equal(t, "Invalid cost", Message(params.ErrInvalidCost))
	assert.Equal(t, "Truncated record", Message(fmt.Errorf("%w: 3 bytes", codec.ErrTruncatedRecord)))
	assert.Equal(t, InternalErrorMessage, Message(errors.New("scrypt internals")))

	err := Error("something new")
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "something new", remote.Message)
}
