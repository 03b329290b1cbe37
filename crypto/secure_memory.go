package crypto

import (
	"crypto/subtle"
	"errors"
	"runtime"
)

// SecureWipe attempts to securely erase the contents of a byte slice
// containing sensitive data. It returns an error if the byte slice is nil.
func SecureWipe(data []byte) error {
	if data == nil {
		return errors.New("cannot wipe nil data")
	}

	// Overwrite the data with zeros. The ConstantTimeCompare call keeps
	// the compiler from eliding the overwrite as a dead store.
	zeros := make([]byte, len(data))
	subtle.ConstantTimeCompare(data, zeros)
	copy(data, zeros)

	runtime.KeepAlive(data)
	runtime.KeepAlive(zeros)

	return nil
}

// ZeroBytes erases the contents of a byte slice containing sensitive data.
// This is a convenience function that ignores the error from SecureWipe.
func ZeroBytes(data []byte) {
	_ = SecureWipe(data)
}

// WipeIdentityKeyPair securely erases the private key in an
// IdentityKeyPair. This should be called when an identity is no longer
// needed.
func WipeIdentityKeyPair(kp *IdentityKeyPair) error {
	if kp == nil {
		return errors.New("cannot wipe nil IdentityKeyPair")
	}
	return SecureWipe(kp.Private[:])
}
