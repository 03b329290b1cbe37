package shs1

import "errors"

var (
	// ErrMalformedMessage indicates an inbound buffer of the wrong length
	// for the current step. Length is checked before any cryptographic
	// work.
	ErrMalformedMessage = errors.New("malformed handshake message")

	// ErrAuthenticationFailure indicates a cryptographic check failed:
	// network tag, AEAD tag, signature, or peer-supplied key material
	// that fails point decoding or yields a degenerate exchange. All of
	// these report identically so a remote attacker learns nothing from
	// the failure mode.
	ErrAuthenticationFailure = errors.New("handshake authentication failure")

	// ErrProtocolViolation indicates an operation was invoked out of the
	// expected order, or on an instance that already completed or failed.
	ErrProtocolViolation = errors.New("handshake operation out of order")

	// ErrInternalCrypto indicates a locally-triggered primitive failure.
	// Unreachable under correct usage; surfaced rather than swallowed.
	ErrInternalCrypto = errors.New("internal cryptographic failure")

	// ErrInvalidKey indicates construction input of the wrong size or
	// form: a mis-sized network identifier, an inconsistent identity, or
	// a server public key that is not a curve point.
	ErrInvalidKey = errors.New("invalid key material")
)
