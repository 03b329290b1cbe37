// Package secrethandshake implements the shs1 secret-handshake protocol:
// a four-message mutual authentication and key agreement for peers that
// already know each other's long-term Ed25519 public keys.
//
// A handshake is scoped to a 32-byte network identifier shared by all
// peers of one application. The client must know the server's public key
// in advance; the server learns the client's key during the handshake
// and can apply an authorization policy before acknowledging it. An
// eavesdropper learns neither identity, and a server on the wrong
// network cannot even tell a handshake was attempted. On success both
// sides hold directional session keys and starting nonces for an
// encrypted transport, plus the authenticated identity of their peer.
//
// # Basic Usage
//
// The root package drives complete handshakes over any io.ReadWriter,
// typically a net.Conn:
//
//	identity, err := crypto.GenerateIdentityKeyPair()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	conn, err := net.Dial("tcp", "server.example.com:8008")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	keys, err := secrethandshake.Client(conn, networkID, identity, serverPublic)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer keys.Wipe()
//
// The server side mirrors it, optionally gating clients on their
// authenticated public key:
//
//	keys, err := secrethandshake.ServerWithAuthorize(conn, networkID, identity,
//	    func(clientPublic [32]byte) bool {
//	        return allowed[clientPublic]
//	    })
//
// # Lower Layers
//
// The shs1 package exposes the transport-agnostic state machine for
// callers that own their I/O, and the crypto package holds the
// primitives: Ed25519 identities, single-use Curve25519 ephemerals,
// the Ed25519-to-Curve25519 conversions, network authentication tags,
// and the secretbox wrappers.
//
// # Security Notes
//
// Session keys and handshake intermediates are wiped as soon as they
// are no longer needed, on success and failure paths alike. Deadlines
// are the caller's job: set them on the net.Conn before starting a
// handshake to bound a stalling peer.
package secrethandshake
