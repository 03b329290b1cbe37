package shs1

import (
	"github.com/opd-ai/secrethandshake/crypto"
)

// Wire message sizes. Every message has exactly one valid length; anything
// else is rejected before cryptographic processing.
const (
	// NetworkIdentifierSize is the size of the shared network identifier.
	NetworkIdentifierSize = 32

	// HelloMessageSize is the size of messages 1 and 2: a network tag
	// over an ephemeral public key, followed by that key.
	HelloMessageSize = crypto.AuthTagSize + 32

	// ClientAuthMessageSize is the size of message 3: a secretbox over
	// the client's signature and long-term public key.
	ClientAuthMessageSize = authPlaintextSize + crypto.BoxOverhead

	// ServerAcceptMessageSize is the size of message 4: a secretbox over
	// the server's signature.
	ServerAcceptMessageSize = acceptPlaintextSize + crypto.BoxOverhead

	authPlaintextSize   = crypto.SignatureSize + 32
	acceptPlaintextSize = crypto.SignatureSize
)

// helloMessage is the plaintext layout of messages 1 and 2.
type helloMessage struct {
	tag       [crypto.AuthTagSize]byte
	ephemeral [32]byte
}

func parseHello(message []byte) (helloMessage, error) {
	if len(message) != HelloMessageSize {
		return helloMessage{}, ErrMalformedMessage
	}

	var m helloMessage
	copy(m.tag[:], message[:crypto.AuthTagSize])
	copy(m.ephemeral[:], message[crypto.AuthTagSize:])
	return m, nil
}

func (m helloMessage) encode() []byte {
	out := make([]byte, 0, HelloMessageSize)
	out = append(out, m.tag[:]...)
	out = append(out, m.ephemeral[:]...)
	return out
}

// authPayload is the plaintext carried inside message 3: the client's
// signature over the auth statement, then the client's long-term public
// key.
type authPayload struct {
	signature crypto.Signature
	longTerm  [32]byte
}

func parseAuthPayload(payload []byte) (authPayload, error) {
	if len(payload) != authPlaintextSize {
		return authPayload{}, ErrMalformedMessage
	}

	var p authPayload
	copy(p.signature[:], payload[:crypto.SignatureSize])
	copy(p.longTerm[:], payload[crypto.SignatureSize:])
	return p, nil
}

func (p authPayload) encode() []byte {
	out := make([]byte, 0, authPlaintextSize)
	out = append(out, p.signature[:]...)
	out = append(out, p.longTerm[:]...)
	return out
}
