// Package shs1 implements the secret-handshake (SHS1) protocol core:
// a four-message mutual-authentication and key-agreement exchange for
// peers that share a 32-byte network identifier out-of-band.
//
// Both peers hold persistent Ed25519 signing identities; the client knows
// the server's public identity in advance, while the server learns and
// authenticates the client's identity from message 3. Each side generates
// a fresh Curve25519 ephemeral key pair per attempt. A completed handshake
// yields a [SessionKeys] value - two directional symmetric keys with nonce
// seeds - for a downstream authenticated-encryption transport, plus the
// authenticated remote identity.
//
// # Message Flow
//
//	Client                                Server
//	  | -- Hello (64 B) ------------------> |
//	  | <------------------ Hello (64 B) -- |
//	  | -- Auth (112 B) ------------------> |
//	  | <----------------- Accept (80 B) -- |
//
// Hello messages carry an ephemeral public key under a keyed network tag,
// so traffic from the wrong network is rejected before any curve
// operation. The Auth and Accept messages are secretboxes keyed by
// SHA-256 digests over the accumulated Diffie-Hellman secrets; their
// contents bind both identities, both ephemerals, and the network
// identifier, giving mutual authentication and fresh directional keys.
//
// # Driving a Handshake
//
// A [Handshake] performs no I/O. Callers move wire bytes between the peer
// and the state machine:
//
//	h, err := shs1.NewClientHandshake(networkID, identity, serverPublic)
//	if err != nil {
//	    return err
//	}
//	msg, err := h.WriteMessage()        // -> send 64 bytes
//	err = h.ReadMessage(serverHello)    // <- exactly 64 bytes
//	msg, err = h.WriteMessage()         // -> send 112 bytes
//	err = h.ReadMessage(serverAccept)   // <- exactly 80 bytes
//	keys, err := h.SessionKeys()
//
// Each instance is owned by a single goroutine and a single connection;
// instances share no state, so any number may run concurrently.
//
// # Failure Discipline
//
// Every verification failure is terminal for the instance and reported
// uniformly as [ErrAuthenticationFailure]; no detail distinguishes which
// check failed, and nothing is ever sent to the peer about the cause.
// Secret material - ephemeral private keys, intermediate Diffie-Hellman
// secrets, derived box keys - is wiped on every exit path, success and
// failure alike.
package shs1
