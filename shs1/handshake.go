package shs1

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/secrethandshake/crypto"
)

// Role distinguishes the two sides of a handshake.
type Role uint8

const (
	// RoleClient initiates the handshake and authenticates first.
	RoleClient Role = iota

	// RoleServer responds and authenticates last, after it has seen and
	// verified the client's identity.
	RoleServer
)

// String returns a human-readable role name for logging.
func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleServer:
		return "server"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// State is the coarse, externally observable phase of a handshake.
// Complete and Failed are terminal; no operation moves an instance out
// of them.
type State uint8

const (
	// StateInit means no hello has been exchanged yet from this side's
	// point of view.
	StateInit State = iota

	// StateAwaitingPeerHello means the hello exchange is underway but
	// not finished.
	StateAwaitingPeerHello

	// StateAwaitingAuthOrAccept means both hellos are exchanged and the
	// authentication messages are in flight.
	StateAwaitingAuthOrAccept

	// StateComplete means the peer is authenticated and session keys
	// are (or were) available.
	StateComplete

	// StateFailed means the handshake was aborted; all secrets have
	// been wiped.
	StateFailed
)

// String returns a human-readable state name for logging.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateAwaitingPeerHello:
		return "awaiting-peer-hello"
	case StateAwaitingAuthOrAccept:
		return "awaiting-auth-or-accept"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// step is the fine-grained position in the fixed message sequence. The
// public State is a projection of it.
type step uint8

const (
	stepClientWriteHello step = iota
	stepClientReadHello
	stepClientWriteAuth
	stepClientReadAccept
	stepServerReadHello
	stepServerWriteHello
	stepServerReadAuth
	stepServerWriteAccept
	stepDone
	stepFailed
)

// Box nonces are all zero: every box key is derived fresh per handshake
// and encrypts exactly one message.
var zeroNonce crypto.Nonce

// Handshake is the per-connection state machine for one handshake
// attempt. It performs no I/O; callers move the messages it produces
// and consumes over whatever transport they have. An instance belongs
// to a single goroutine and must not be shared.
type Handshake struct {
	role Role
	step step

	network  [NetworkIdentifierSize]byte
	identity *crypto.IdentityKeyPair

	// identityCurve is the curve25519 form of the local signing key,
	// derived once at construction and wiped when the handshake ends.
	identityCurve [32]byte

	ephemeral *crypto.EphemeralKeyPair

	// remoteLongTerm is configured up front for clients and learned
	// from the client auth message for servers.
	remoteLongTerm      [32]byte
	remoteLongTermCurve [32]byte
	remoteEphemeral     [32]byte

	localTag  [crypto.AuthTagSize]byte
	remoteTag [crypto.AuthTagSize]byte

	schedule  keySchedule
	clientSig crypto.Signature

	keys *SessionKeys
}

// NewClientHandshake creates the initiating side of a handshake toward
// the server identified by serverPublic, generating a fresh ephemeral
// key pair. networkID scopes the handshake: peers on different network
// identifiers reject each other at the first message.
func NewClientHandshake(networkID []byte, identity *crypto.IdentityKeyPair, serverPublic []byte) (*Handshake, error) {
	ephemeral, err := crypto.GenerateEphemeralKeyPair()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral key pair: %w", err)
	}

	h, err := NewClientHandshakeWithEphemeral(networkID, identity, serverPublic, ephemeral)
	if err != nil {
		ephemeral.Consume()
		return nil, err
	}
	return h, nil
}

// NewClientHandshakeWithEphemeral is NewClientHandshake with a
// caller-supplied ephemeral key pair. Reusing an ephemeral across
// handshakes destroys the protocol's forward secrecy; this constructor
// exists for deterministic flows such as reproducing published test
// vectors.
func NewClientHandshakeWithEphemeral(networkID []byte, identity *crypto.IdentityKeyPair, serverPublic []byte, ephemeral *crypto.EphemeralKeyPair) (*Handshake, error) {
	logrus.WithFields(logrus.Fields{
		"function": "NewClientHandshakeWithEphemeral",
	}).Debug("Creating client handshake")

	h, err := newHandshake(RoleClient, networkID, identity, ephemeral)
	if err != nil {
		return nil, err
	}

	if len(serverPublic) != 32 {
		return nil, fmt.Errorf("%w: server public key must be 32 bytes, got %d", ErrInvalidKey, len(serverPublic))
	}
	copy(h.remoteLongTerm[:], serverPublic)

	remoteCurve, err := crypto.SignPublicKeyToCurve25519(h.remoteLongTerm)
	if err != nil {
		return nil, fmt.Errorf("%w: server public key is not a valid ed25519 point", ErrInvalidKey)
	}
	h.remoteLongTermCurve = remoteCurve

	h.step = stepClientWriteHello
	return h, nil
}

// NewServerHandshake creates the responding side of a handshake,
// generating a fresh ephemeral key pair. The client's identity is not
// a parameter; it is learned, already authenticated, from the client
// auth message.
func NewServerHandshake(networkID []byte, identity *crypto.IdentityKeyPair) (*Handshake, error) {
	ephemeral, err := crypto.GenerateEphemeralKeyPair()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral key pair: %w", err)
	}

	h, err := NewServerHandshakeWithEphemeral(networkID, identity, ephemeral)
	if err != nil {
		ephemeral.Consume()
		return nil, err
	}
	return h, nil
}

// NewServerHandshakeWithEphemeral is NewServerHandshake with a
// caller-supplied ephemeral key pair. See
// NewClientHandshakeWithEphemeral for the reuse caveat.
func NewServerHandshakeWithEphemeral(networkID []byte, identity *crypto.IdentityKeyPair, ephemeral *crypto.EphemeralKeyPair) (*Handshake, error) {
	logrus.WithFields(logrus.Fields{
		"function": "NewServerHandshakeWithEphemeral",
	}).Debug("Creating server handshake")

	h, err := newHandshake(RoleServer, networkID, identity, ephemeral)
	if err != nil {
		return nil, err
	}

	h.step = stepServerReadHello
	return h, nil
}

func newHandshake(role Role, networkID []byte, identity *crypto.IdentityKeyPair, ephemeral *crypto.EphemeralKeyPair) (*Handshake, error) {
	if len(networkID) != NetworkIdentifierSize {
		return nil, fmt.Errorf("%w: network identifier must be %d bytes, got %d", ErrInvalidKey, NetworkIdentifierSize, len(networkID))
	}
	if identity == nil {
		return nil, fmt.Errorf("%w: identity key pair is nil", ErrInvalidKey)
	}
	if !bytes.Equal(identity.Private[32:], identity.Public[:]) {
		return nil, fmt.Errorf("%w: identity private key does not embed its public key", ErrInvalidKey)
	}
	if ephemeral == nil {
		return nil, fmt.Errorf("%w: ephemeral key pair is nil", ErrInvalidKey)
	}
	if ephemeral.Consumed() {
		return nil, fmt.Errorf("%w: ephemeral key pair already consumed", ErrInvalidKey)
	}

	h := &Handshake{
		role:      role,
		identity:  identity,
		ephemeral: ephemeral,
	}
	copy(h.network[:], networkID)
	h.identityCurve = crypto.SignPrivateKeyToCurve25519(identity.Private)
	return h, nil
}

// Role returns which side of the handshake h drives.
func (h *Handshake) Role() Role {
	return h.role
}

// State returns the coarse phase of the handshake.
func (h *Handshake) State() State {
	switch h.step {
	case stepClientWriteHello, stepServerReadHello:
		return StateInit
	case stepClientReadHello, stepServerWriteHello:
		return StateAwaitingPeerHello
	case stepClientWriteAuth, stepClientReadAccept, stepServerReadAuth, stepServerWriteAccept:
		return StateAwaitingAuthOrAccept
	case stepDone:
		return StateComplete
	default:
		return StateFailed
	}
}

// IsComplete reports whether the handshake finished successfully.
func (h *Handshake) IsComplete() bool {
	return h.step == stepDone
}

// WriteMessage produces the next outbound message. Calling it when the
// protocol expects an inbound message is a usage error: the handshake
// is aborted and ErrProtocolViolation returned. On an already terminal
// instance it returns ErrProtocolViolation without side effects.
func (h *Handshake) WriteMessage() ([]byte, error) {
	switch h.step {
	case stepClientWriteHello:
		return h.writeHello(stepClientReadHello)
	case stepServerWriteHello:
		return h.writeHello(stepServerReadAuth)
	case stepClientWriteAuth:
		return h.writeClientAuth()
	case stepServerWriteAccept:
		return h.writeServerAccept()
	case stepDone, stepFailed:
		return nil, ErrProtocolViolation
	default:
		return nil, h.fail(ErrProtocolViolation)
	}
}

// ReadMessage consumes the next inbound message. Any failure (wrong
// length, failed authentication, out-of-order call) aborts the
// handshake; on an already terminal instance it returns
// ErrProtocolViolation without side effects.
func (h *Handshake) ReadMessage(message []byte) error {
	switch h.step {
	case stepServerReadHello:
		return h.readHello(message, stepServerWriteHello)
	case stepClientReadHello:
		return h.readHello(message, stepClientWriteAuth)
	case stepServerReadAuth:
		return h.readClientAuth(message)
	case stepClientReadAccept:
		return h.readServerAccept(message)
	case stepDone, stepFailed:
		return ErrProtocolViolation
	default:
		return h.fail(ErrProtocolViolation)
	}
}

// SessionKeys hands out the transport keys of a completed handshake.
// Ownership moves to the caller; the handshake keeps no copy. A second
// call, or a call before Complete, returns ErrProtocolViolation.
func (h *Handshake) SessionKeys() (*SessionKeys, error) {
	if h.step != stepDone || h.keys == nil {
		return nil, ErrProtocolViolation
	}
	keys := h.keys
	h.keys = nil
	return keys, nil
}

// RemotePublic returns the peer's long-term public key. For clients it
// is the key supplied at construction. For servers it becomes available
// once the client auth message has been verified, before the accept
// message is produced, which is the hook point for authorization
// policy.
func (h *Handshake) RemotePublic() ([32]byte, error) {
	if h.step == stepFailed {
		return [32]byte{}, ErrProtocolViolation
	}
	if h.role == RoleServer && h.step != stepServerWriteAccept && h.step != stepDone {
		return [32]byte{}, ErrProtocolViolation
	}
	return h.remoteLongTerm, nil
}

// Destroy abandons the handshake, wiping every secret it owns. A live
// instance becomes Failed; a completed one stays Complete but its
// unclaimed session keys, if any, are wiped and can no longer be
// retrieved. Destroy is idempotent.
func (h *Handshake) Destroy() {
	h.wipe()
	if h.step != stepDone && h.step != stepFailed {
		logrus.WithFields(logrus.Fields{
			"function": "Destroy",
			"role":     h.role.String(),
		}).Debug("Handshake destroyed")
		h.step = stepFailed
	}
}

func (h *Handshake) writeHello(next step) ([]byte, error) {
	m := helloMessage{
		tag:       crypto.AuthTag(h.ephemeral.Public[:], h.network),
		ephemeral: h.ephemeral.Public,
	}
	h.localTag = m.tag
	h.step = next

	logrus.WithFields(logrus.Fields{
		"function": "writeHello",
		"role":     h.role.String(),
	}).Debug("Hello message produced")

	return m.encode(), nil
}

func (h *Handshake) readHello(message []byte, next step) error {
	m, err := parseHello(message)
	if err != nil {
		return h.fail(err)
	}

	// The tag proves the peer knows the network identifier; wrong-network
	// traffic is dropped here, before any DH work.
	if !crypto.VerifyAuthTag(m.tag, m.ephemeral[:], h.network) {
		return h.fail(ErrAuthenticationFailure)
	}

	h.remoteEphemeral = m.ephemeral
	h.remoteTag = m.tag
	h.step = next

	logrus.WithFields(logrus.Fields{
		"function": "readHello",
		"role":     h.role.String(),
	}).Debug("Hello message verified")

	return nil
}

// writeClientAuth builds message 3. All three shared secrets are
// computed here on the client side; the ephemeral secret is consumed as
// soon as its last DH is done.
func (h *Handshake) writeClientAuth() ([]byte, error) {
	ephShared, err := h.ephemeral.SharedSecret(h.remoteEphemeral)
	if err != nil {
		return nil, h.fail(h.dhError(err))
	}
	h.schedule.setEphShared(ephShared)

	serverShared, err := h.ephemeral.SharedSecret(h.remoteLongTermCurve)
	if err != nil {
		return nil, h.fail(h.dhError(err))
	}
	h.schedule.serverShared = serverShared
	h.ephemeral.Consume()

	clientShared, err := crypto.DeriveSharedSecret(h.remoteEphemeral, h.identityCurve)
	if err != nil {
		return nil, h.fail(ErrAuthenticationFailure)
	}
	h.schedule.clientShared = clientShared

	statement := authStatement(h.network, h.remoteLongTerm, h.schedule.ephSharedHash)
	sig, err := crypto.Sign(statement, h.identity.Private)
	if err != nil {
		return nil, h.fail(ErrInternalCrypto)
	}
	h.clientSig = sig

	payload := authPayload{signature: sig, longTerm: h.identity.Public}
	plaintext := payload.encode()
	defer crypto.SecureWipe(plaintext)

	boxKey := h.schedule.authBoxKey(h.network)
	defer crypto.SecureWipe(boxKey[:])

	ciphertext, err := crypto.EncryptSymmetric(plaintext, zeroNonce, boxKey)
	if err != nil {
		return nil, h.fail(ErrInternalCrypto)
	}

	h.step = stepClientReadAccept

	logrus.WithFields(logrus.Fields{
		"function": "writeClientAuth",
	}).Debug("Client auth message produced")

	return ciphertext, nil
}

// readClientAuth consumes message 3 on the server side. The box key
// needs the first two shared secrets; the third can only be computed
// after the box opens and the signature inside proves who the client
// is.
func (h *Handshake) readClientAuth(message []byte) error {
	if len(message) != ClientAuthMessageSize {
		return h.fail(ErrMalformedMessage)
	}

	ephShared, err := h.ephemeral.SharedSecret(h.remoteEphemeral)
	if err != nil {
		return h.fail(h.dhError(err))
	}
	h.schedule.setEphShared(ephShared)

	serverShared, err := crypto.DeriveSharedSecret(h.remoteEphemeral, h.identityCurve)
	if err != nil {
		return h.fail(ErrAuthenticationFailure)
	}
	h.schedule.serverShared = serverShared

	boxKey := h.schedule.authBoxKey(h.network)
	plaintext, err := crypto.DecryptSymmetric(message, zeroNonce, boxKey)
	crypto.SecureWipe(boxKey[:])
	if err != nil {
		return h.fail(ErrAuthenticationFailure)
	}
	defer crypto.SecureWipe(plaintext)

	payload, err := parseAuthPayload(plaintext)
	if err != nil {
		return h.fail(err)
	}

	statement := authStatement(h.network, h.identity.Public, h.schedule.ephSharedHash)
	if !crypto.Verify(statement, payload.signature, payload.longTerm) {
		return h.fail(ErrAuthenticationFailure)
	}

	remoteCurve, err := crypto.SignPublicKeyToCurve25519(payload.longTerm)
	if err != nil {
		return h.fail(ErrAuthenticationFailure)
	}

	clientShared, err := h.ephemeral.SharedSecret(remoteCurve)
	if err != nil {
		return h.fail(h.dhError(err))
	}
	h.schedule.clientShared = clientShared
	h.ephemeral.Consume()

	h.remoteLongTerm = payload.longTerm
	h.remoteLongTermCurve = remoteCurve
	h.clientSig = payload.signature
	h.step = stepServerWriteAccept

	logrus.WithFields(logrus.Fields{
		"function": "readClientAuth",
	}).Debug("Client auth message verified")

	return nil
}

// writeServerAccept builds message 4 and completes the server side.
func (h *Handshake) writeServerAccept() ([]byte, error) {
	statement := acceptStatement(h.network, h.clientSig, h.remoteLongTerm, h.schedule.ephSharedHash)
	sig, err := crypto.Sign(statement, h.identity.Private)
	if err != nil {
		return nil, h.fail(ErrInternalCrypto)
	}

	boxKey := h.schedule.acceptBoxKey(h.network)
	defer crypto.SecureWipe(boxKey[:])

	ciphertext, err := crypto.EncryptSymmetric(sig[:], zeroNonce, boxKey)
	if err != nil {
		return nil, h.fail(ErrInternalCrypto)
	}

	h.finish(boxKey)
	return ciphertext, nil
}

// readServerAccept consumes message 4 and completes the client side.
func (h *Handshake) readServerAccept(message []byte) error {
	if len(message) != ServerAcceptMessageSize {
		return h.fail(ErrMalformedMessage)
	}

	boxKey := h.schedule.acceptBoxKey(h.network)
	defer crypto.SecureWipe(boxKey[:])

	plaintext, err := crypto.DecryptSymmetric(message, zeroNonce, boxKey)
	if err != nil {
		return h.fail(ErrAuthenticationFailure)
	}

	var sig crypto.Signature
	copy(sig[:], plaintext)
	crypto.SecureWipe(plaintext)

	statement := acceptStatement(h.network, h.clientSig, h.identity.Public, h.schedule.ephSharedHash)
	if !crypto.Verify(statement, sig, h.remoteLongTerm) {
		return h.fail(ErrAuthenticationFailure)
	}

	h.finish(boxKey)
	return nil
}

// finish derives the session keys and retires every intermediate
// secret. After it returns the only live key material is h.keys.
func (h *Handshake) finish(acceptKey [32]byte) {
	h.keys = deriveSessionKeys(acceptKey, h.identity.Public, h.remoteLongTerm, h.localTag, h.remoteTag)
	crypto.SecureWipe(acceptKey[:])

	h.ephemeral.Consume()
	h.schedule.wipe()
	crypto.SecureWipe(h.identityCurve[:])
	crypto.SecureWipe(h.clientSig[:])
	h.step = stepDone

	logrus.WithFields(logrus.Fields{
		"function": "finish",
		"role":     h.role.String(),
	}).Info("Handshake complete")
}

// fail is the single exit path for handshake errors: every secret the
// handshake owns is wiped, the state machine parks in Failed, and err
// is returned unchanged. The cause is logged at debug level only; no
// diagnostic reaches the peer.
func (h *Handshake) fail(err error) error {
	logrus.WithFields(logrus.Fields{
		"function": "fail",
		"role":     h.role.String(),
		"state":    h.State().String(),
		"error":    err,
	}).Debug("Handshake aborted")

	h.wipe()
	h.step = stepFailed
	return err
}

func (h *Handshake) wipe() {
	if h.ephemeral != nil {
		h.ephemeral.Consume()
	}
	h.schedule.wipe()
	crypto.SecureWipe(h.identityCurve[:])
	crypto.SecureWipe(h.clientSig[:])
	if h.keys != nil {
		h.keys.Wipe()
		h.keys = nil
	}
}

// dhError maps a failed DH step onto the public taxonomy: a consumed
// ephemeral is a local usage bug, anything else means the peer supplied
// degenerate key material.
func (h *Handshake) dhError(err error) error {
	if errors.Is(err, crypto.ErrKeyConsumed) {
		return ErrInternalCrypto
	}
	return ErrAuthenticationFailure
}
