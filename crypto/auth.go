package crypto

import (
	"crypto/hmac"
	"crypto/sha512"
)

// AuthTagSize is the size of a network authentication tag in bytes.
const AuthTagSize = 32

// AuthTag computes a keyed authentication tag over a message:
// HMAC-SHA-512 truncated to 32 bytes, the same construction libsodium
// exposes as crypto_auth. The handshake uses it to scope hello messages
// to one network identifier.
func AuthTag(message []byte, key [32]byte) [AuthTagSize]byte {
	mac := hmac.New(sha512.New, key[:])
	mac.Write(message)
	sum := mac.Sum(nil)

	var tag [AuthTagSize]byte
	copy(tag[:], sum[:AuthTagSize])
	ZeroBytes(sum)
	return tag
}

// VerifyAuthTag reports whether tag authenticates message under key,
// in constant time.
func VerifyAuthTag(tag [AuthTagSize]byte, message []byte, key [32]byte) bool {
	expected := AuthTag(message, key)
	return hmac.Equal(tag[:], expected[:])
}
