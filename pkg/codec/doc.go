// Package codec provides hash record serialization and deserialization for scryptd.
//
// A hash record carries everything needed to verify a password later: the
// scrypt parameters, the salt and the derived key. Records are stored by
// callers, so the format is stable and older layouts stay decodable.
//
// # Record Formats
//
// Every record starts with a version byte. Two layouts exist.
//
// V2 (current, 4 byte header):
//
//	[0x02][(blockSize-1)<<4 | (parallelization-1)][(log2(cost)-12)<<5 | (saltLen-16)][keyLen-16][Salt][Key]
//
// Cost is stored as an exponent offset, so only powers of two between 2^12
// and 2^19 are representable. Block size and parallelization are 4 bit
// offsets (1..16), saltLen is 16..47 and keyLen is 16..271.
//
// V1 (legacy, 6 byte header):
//
//	[0x01][cost BE16][blockSize<<4 | parallelization][saltLen][keyLen][Salt][Key]
//
// The total record size is header + saltLen + keyLen. Trailing or missing
// bytes are rejected.
//
// # Usage
//
//	codec := codec.NewRecordCodec()
//
//	// Encode always writes V2
//	encoded, err := codec.Encode(codec.NewHashRecord(p, salt, key))
//	if err != nil {
//	    return err
//	}
//
//	// Decode accepts V1 and V2
//	record, err := codec.Decode(encoded)
//	if err != nil {
//	    return err
//	}
//
// # Error Handling
//
// Decode returns errors wrapping ErrTruncatedRecord when the input is
// shorter than a header, ErrUnsupportedVersion for an unknown version byte
// and ErrLengthMismatch when saltLen and keyLen do not account for the
// remaining bytes exactly. Encode returns the params package's validation
// errors when a record cannot be represented in the target layout.
//
// # Thread Safety
//
// RecordCodec instances are stateless and safe for concurrent use. Decoded
// records own their salt and key slices.
package codec
