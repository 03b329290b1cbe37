package crypto

import (
	"crypto/ed25519"
	"errors"
)

// SignatureSize is the size of an Ed25519 signature in bytes.
const SignatureSize = ed25519.SignatureSize

// Signature represents a detached Ed25519 signature.
type Signature [SignatureSize]byte

// Sign creates a detached Ed25519 signature over a message using a 64-byte
// private key in seed-plus-public layout.
func Sign(message []byte, privateKey [64]byte) (Signature, error) {
	if len(message) == 0 {
		return Signature{}, errors.New("empty message")
	}

	signatureBytes := ed25519.Sign(ed25519.PrivateKey(privateKey[:]), message)

	var signature Signature
	copy(signature[:], signatureBytes)

	return signature, nil
}

// Verify reports whether signature is a valid signature of message under
// publicKey.
func Verify(message []byte, signature Signature, publicKey [32]byte) bool {
	if len(message) == 0 {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey[:]), message, signature[:])
}
