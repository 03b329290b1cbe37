// Package crypto implements the cryptographic primitives for the
// secret-handshake protocol.
//
// This package provides the primitive layer the handshake core consumes:
// Ed25519 signing identities, single-use Curve25519 ephemeral key pairs,
// X25519 shared secrets, keyed network tags, NaCl secretbox authenticated
// encryption, and secure memory wiping. It uses Go's x/crypto NaCl packages
// together with the standard library's hash and signature implementations,
// so no global initialization is required before use.
//
// # Core Types
//
//   - [IdentityKeyPair]: persistent Ed25519 signing identity (32-byte public
//     key, 64-byte private key in seed-plus-public layout)
//   - [EphemeralKeyPair]: single-use Curve25519 key pair with a consume-once
//     guard on its private half
//   - [Signature]: detached 64-byte Ed25519 signature
//   - [Nonce]: 24-byte secretbox nonce
//
// # Identities and Ephemerals
//
// Identities sign; ephemerals perform Diffie-Hellman. The two meet through
// the birational conversions, which map an identity onto the Montgomery
// curve so it can take part in key agreement:
//
//	identity, _ := crypto.GenerateIdentityKeyPair()
//	curvePub, _ := crypto.SignPublicKeyToCurve25519(identity.Public)
//	curvePriv := crypto.SignPrivateKeyToCurve25519(identity.Private)
//
// An ephemeral key pair performs any number of DH exchanges and is then
// consumed, wiping its private half; further use fails with
// [ErrKeyConsumed]:
//
//	eph, _ := crypto.GenerateEphemeralKeyPair()
//	secret, _ := eph.SharedSecret(peerEphemeralPublic)
//	eph.Consume()
//
// # Secure Memory
//
// [SecureWipe] and [ZeroBytes] overwrite secret material in place. Every
// function in this package that copies secret bytes wipes its intermediate
// copies before returning.
package crypto
