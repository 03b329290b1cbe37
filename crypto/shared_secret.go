package crypto

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/curve25519"
)

// DeriveSharedSecret computes a shared secret between two parties using
// Elliptic Curve Diffie-Hellman (ECDH) on Curve25519.
//
// It fails when the exchange produces the all-zero output, which happens
// for low-order peer points; callers treat that the same as any other
// bad peer input.
func DeriveSharedSecret(peerPublicKey, privateKey [32]byte) ([32]byte, error) {
	logrus.WithFields(logrus.Fields{
		"function":        "DeriveSharedSecret",
		"peer_key_prefix": fmt.Sprintf("%x", peerPublicKey[:8]),
	}).Debug("Computing shared secret using ECDH")

	// Work on a copy so the caller's key can stay untouched while the
	// copy is wiped afterwards.
	var privateKeyCopy [32]byte
	copy(privateKeyCopy[:], privateKey[:])

	sharedSecret, err := curve25519.X25519(privateKeyCopy[:], peerPublicKey[:])
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "DeriveSharedSecret",
			"error":    err.Error(),
		}).Error("X25519 computation failed")

		ZeroBytes(privateKeyCopy[:])
		return [32]byte{}, fmt.Errorf("failed to compute shared secret: %w", err)
	}

	var result [32]byte
	copy(result[:], sharedSecret)

	ZeroBytes(privateKeyCopy[:])
	ZeroBytes(sharedSecret)

	return result, nil
}
