package shs1

import (
	"github.com/opd-ai/secrethandshake/crypto"
)

// SessionKeys is the result of a successful handshake: one key and
// starting nonce per direction, plus the peer's authenticated identity.
// The keys are suitable for secretbox-style authenticated encryption of
// the post-handshake stream.
//
// A Handshake releases its SessionKeys exactly once; the caller owns the
// value afterward and should Wipe it when the session ends.
type SessionKeys struct {
	// EncryptKey encrypts traffic sent to the peer.
	EncryptKey [32]byte

	// EncryptNonce is the starting nonce for sent traffic.
	EncryptNonce crypto.Nonce

	// DecryptKey decrypts traffic received from the peer.
	DecryptKey [32]byte

	// DecryptNonce is the starting nonce for received traffic.
	DecryptNonce crypto.Nonce

	// RemotePublic is the peer's long-term ed25519 public key, verified
	// during the handshake.
	RemotePublic [32]byte
}

// Wipe zeroes all key material held by k. The remote identity is not
// secret and is left intact.
func (k *SessionKeys) Wipe() {
	if k == nil {
		return
	}
	crypto.SecureWipe(k.EncryptKey[:])
	crypto.SecureWipe(k.EncryptNonce[:])
	crypto.SecureWipe(k.DecryptKey[:])
	crypto.SecureWipe(k.DecryptNonce[:])
}
