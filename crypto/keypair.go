package crypto

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
)

// ErrKeyConsumed indicates an ephemeral key pair was used after Consume
// wiped its private half.
var ErrKeyConsumed = errors.New("ephemeral key pair already consumed")

// IdentityKeyPair represents a persistent Ed25519 signing identity.
//
// The private key uses the 64-byte seed-plus-public layout, so the last
// 32 bytes always equal the public key. Identities are caller-owned and
// outlive individual handshakes; call WipeIdentityKeyPair when one is no
// longer needed.
type IdentityKeyPair struct {
	Public  [32]byte
	Private [64]byte
}

// GenerateIdentityKeyPair creates a new random signing identity.
func GenerateIdentityKeyPair() (*IdentityKeyPair, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate identity key pair: %w", err)
	}

	keyPair := &IdentityKeyPair{}
	copy(keyPair.Public[:], publicKey)
	copy(keyPair.Private[:], privateKey)
	ZeroBytes(privateKey)

	return keyPair, nil
}

// IdentityFromSeed derives a signing identity from a 32-byte seed.
// The same seed always yields the same identity.
func IdentityFromSeed(seed [32]byte) *IdentityKeyPair {
	privateKey := ed25519.NewKeyFromSeed(seed[:])

	keyPair := &IdentityKeyPair{}
	copy(keyPair.Private[:], privateKey)
	copy(keyPair.Public[:], privateKey[32:])
	ZeroBytes(privateKey)

	return keyPair
}

// IdentityFromPrivateKey reconstructs an identity from an existing 64-byte
// private key. It fails if the embedded public half does not match the key
// the seed derives, which catches corrupted or truncated key material.
func IdentityFromPrivateKey(privateKey [64]byte) (*IdentityKeyPair, error) {
	var seed [32]byte
	copy(seed[:], privateKey[:32])
	keyPair := IdentityFromSeed(seed)
	ZeroBytes(seed[:])

	if !bytes.Equal(keyPair.Public[:], privateKey[32:]) {
		WipeIdentityKeyPair(keyPair)
		return nil, errors.New("private key public half does not match its seed")
	}

	return keyPair, nil
}

// EphemeralKeyPair represents a single-use Curve25519 key pair.
//
// The private half is deliberately unexported: it can only take part in
// Diffie-Hellman through SharedSecret, and once Consume is called it is
// wiped and every further SharedSecret fails with ErrKeyConsumed. This
// enforces the one-handshake lifetime of ephemeral keys.
type EphemeralKeyPair struct {
	Public   [32]byte
	private  [32]byte
	consumed bool
}

// GenerateEphemeralKeyPair creates a new random Curve25519 key pair.
func GenerateEphemeralKeyPair() (*EphemeralKeyPair, error) {
	publicKey, privateKey, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral key pair: %w", err)
	}

	keyPair := &EphemeralKeyPair{
		Public:  *publicKey,
		private: *privateKey,
	}
	ZeroBytes(privateKey[:])

	logrus.WithFields(logrus.Fields{
		"function":       "GenerateEphemeralKeyPair",
		"public_preview": fmt.Sprintf("%x", keyPair.Public[:8]),
	}).Debug("Generated ephemeral key pair")

	return keyPair, nil
}

// EphemeralFromPrivateKey builds an ephemeral key pair from an existing
// private key, deriving the public half by base-point multiplication.
// Intended for reproducing published handshake vectors in tests and
// test-suite adapters; production handshakes should generate fresh keys.
func EphemeralFromPrivateKey(privateKey [32]byte) (*EphemeralKeyPair, error) {
	publicKey, err := curve25519.X25519(privateKey[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive ephemeral public key: %w", err)
	}

	keyPair := &EphemeralKeyPair{private: privateKey}
	copy(keyPair.Public[:], publicKey)

	return keyPair, nil
}

// SharedSecret computes the X25519 shared secret between this key pair's
// private half and a peer public key. It fails with ErrKeyConsumed once
// the key pair has been consumed.
func (e *EphemeralKeyPair) SharedSecret(peerPublic [32]byte) ([32]byte, error) {
	if e.consumed {
		return [32]byte{}, ErrKeyConsumed
	}
	return DeriveSharedSecret(peerPublic, e.private)
}

// Consume wipes the private half and marks the key pair as spent.
// Safe to call more than once.
func (e *EphemeralKeyPair) Consume() {
	if e.consumed {
		return
	}
	ZeroBytes(e.private[:])
	e.consumed = true
}

// Consumed reports whether Consume has been called.
func (e *EphemeralKeyPair) Consumed() bool {
	return e.consumed
}
