package crypto

import (
	"errors"

	"golang.org/x/crypto/nacl/secretbox"
)

// NonceSize is the size of a secretbox nonce in bytes.
const NonceSize = 24

// Nonce is a 24-byte value used for symmetric encryption.
type Nonce [NonceSize]byte

// BoxOverhead is the number of bytes authenticated encryption adds to a
// message (the Poly1305 tag).
const BoxOverhead = secretbox.Overhead

// EncryptSymmetric encrypts a message with NaCl secretbox
// (XSalsa20-Poly1305), providing both confidentiality and integrity.
func EncryptSymmetric(message []byte, nonce Nonce, key [32]byte) ([]byte, error) {
	if len(message) == 0 {
		return nil, errors.New("empty message")
	}

	out := secretbox.Seal(nil, message, (*[NonceSize]byte)(&nonce), (*[32]byte)(&key))
	return out, nil
}

// DecryptSymmetric opens a secretbox. It fails if the ciphertext or its
// authentication tag was tampered with.
func DecryptSymmetric(ciphertext []byte, nonce Nonce, key [32]byte) ([]byte, error) {
	if len(ciphertext) < BoxOverhead {
		return nil, errors.New("ciphertext shorter than authentication tag")
	}

	out, ok := secretbox.Open(nil, ciphertext, (*[NonceSize]byte)(&nonce), (*[32]byte)(&key))
	if !ok {
		return nil, errors.New("decryption failed: message authentication failed")
	}

	return out, nil
}
