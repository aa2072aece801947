package internal

import "errors"

var (
	// ErrKeyRequired is returned when the key is empty after normalization.
	ErrKeyRequired = errors.New("key is required")
	// ErrDegenerateKey is returned when the derived matrix has no inverse mod 31.
	ErrDegenerateKey = errors.New("degenerate key: matrix is not invertible")
	// ErrDecode is the umbrella error for any malformed token stream.
	ErrDecode = errors.New("decode failed")
	// ErrVerify is returned when an encoded message does not decode back to itself.
	ErrVerify = errors.New("round-trip verification failed")
	// ErrUnknownSchedule is returned for an unrecognized key schedule name.
	ErrUnknownSchedule = errors.New("unknown key schedule")
	// ErrQRTooLarge is returned when a share text does not fit in a QR code.
	ErrQRTooLarge = errors.New("text too large for QR code")
)
