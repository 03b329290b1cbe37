package crypto

import (
	"crypto/sha512"
	"fmt"

	"filippo.io/edwards25519"
)

// SignPublicKeyToCurve25519 maps an Ed25519 public key to the equivalent
// Curve25519 public key via the birational map between the two curves.
// It fails if the input does not decode to a curve point, which is how
// forged identity keys surface during a handshake.
func SignPublicKeyToCurve25519(publicKey [32]byte) ([32]byte, error) {
	point, err := new(edwards25519.Point).SetBytes(publicKey[:])
	if err != nil {
		return [32]byte{}, fmt.Errorf("invalid edwards point: %w", err)
	}

	var converted [32]byte
	copy(converted[:], point.BytesMontgomery())
	return converted, nil
}

// SignPrivateKeyToCurve25519 maps a 64-byte Ed25519 private key to the
// equivalent Curve25519 private scalar: the first half of the SHA-512
// digest of the seed, clamped. The conversion cannot fail.
func SignPrivateKeyToCurve25519(privateKey [64]byte) [32]byte {
	digest := sha512.Sum512(privateKey[:32])

	var converted [32]byte
	copy(converted[:], digest[:32])
	converted[0] &= 248
	converted[31] &= 127
	converted[31] |= 64

	ZeroBytes(digest[:])
	return converted
}
