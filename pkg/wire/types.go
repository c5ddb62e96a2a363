// Package wire defines the JSON shapes exchanged between the service and
// its clients and the mapping between error kinds and their public messages.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/ssargent/scryptd/pkg/params"
)

// HashRequest is the body of POST /hash
type HashRequest struct {
	Data string `json:"data"`
	params.ScryptParams
}

// CompareRequest is the body of POST /compare. Hash is the base64 encoded record.
type CompareRequest struct {
	Data string `json:"data"`
	Hash string `json:"hash"`
}

// Response is the body of every service reply
type Response struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ShapeError reports a request body that is not the expected JSON shape.
// The service answers it with 400.
type ShapeError struct {
	Message string
}

func (e *ShapeError) Error() string {
	return e.Message
}

func shapeErrorf(format string, args ...any) *ShapeError {
	return &ShapeError{Message: fmt.Sprintf(format, args...)}
}

// DecodeHashRequest parses and shape-checks a /hash body. Every parameter
// must be present and integral; value ranges are left to params.Validate.
func DecodeHashRequest(r io.Reader) (HashRequest, error) {
	fields, err := decodeObject(r)
	if err != nil {
		return HashRequest{}, err
	}

	var req HashRequest
	if req.Data, err = stringField(fields, "data"); err != nil {
		return HashRequest{}, err
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"cost", &req.Cost},
		{"blockSize", &req.BlockSize},
		{"parallelization", &req.Parallelization},
		{"saltLen", &req.SaltLen},
		{"keyLen", &req.KeyLen},
	}
	for _, f := range ints {
		if *f.dst, err = intField(fields, f.name); err != nil {
			return HashRequest{}, err
		}
	}

	return req, nil
}

// DecodeCompareRequest parses and shape-checks a /compare body
func DecodeCompareRequest(r io.Reader) (CompareRequest, error) {
	fields, err := decodeObject(r)
	if err != nil {
		return CompareRequest{}, err
	}

	var req CompareRequest
	if req.Data, err = stringField(fields, "data"); err != nil {
		return CompareRequest{}, err
	}
	if req.Hash, err = stringField(fields, "hash"); err != nil {
		return CompareRequest{}, err
	}
	return req, nil
}

func decodeObject(r io.Reader) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return nil, shapeErrorf("Invalid JSON body")
	}
	if fields == nil {
		return nil, shapeErrorf("Request body must be a JSON object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, shapeErrorf("Invalid JSON body")
	}
	return fields, nil
}

func stringField(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok || len(raw) == 0 || raw[0] != '"' {
		return "", shapeErrorf("Field %q must be a string", name)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", shapeErrorf("Field %q must be a string", name)
	}
	return s, nil
}

// intField accepts any JSON number with an integral value, so 16384 and
// 16384.0 are both valid.
func intField(fields map[string]json.RawMessage, name string) (int, error) {
	raw, ok := fields[name]
	if !ok {
		return 0, shapeErrorf("Field %q must be an integer", name)
	}

	raw = bytes.TrimSpace(raw)
	if n, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, shapeErrorf("Field %q is out of range", name)
		}
		return int(n), nil
	}

	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, shapeErrorf("Field %q must be an integer", name)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, shapeErrorf("Field %q is out of range", name)
	}
	return int(f), nil
}
