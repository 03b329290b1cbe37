package shs1

import (
	"crypto/sha256"

	"github.com/opd-ai/secrethandshake/crypto"
)

// keySchedule accumulates the three curve25519 shared secrets as the
// handshake progresses. Box keys and signed statements are derived from
// it; wipe discards everything once the session keys exist.
type keySchedule struct {
	ephShared     [32]byte
	ephSharedHash [32]byte
	serverShared  [32]byte
	clientShared  [32]byte
}

func (s *keySchedule) setEphShared(secret [32]byte) {
	s.ephShared = secret
	s.ephSharedHash = sha256.Sum256(secret[:])
}

// authBoxKey is the symmetric key protecting message 3. Only a peer
// holding the server's long-term secret (or the client who computed
// serverShared against the server's public key) can derive it.
func (s *keySchedule) authBoxKey(network [32]byte) [32]byte {
	return hashConcat(network[:], s.ephShared[:], s.serverShared[:])
}

// acceptBoxKey is the symmetric key protecting message 4. It
// additionally mixes the secret bound to the client's long-term
// identity, so opening message 4 proves the server learned who the
// client is.
func (s *keySchedule) acceptBoxKey(network [32]byte) [32]byte {
	return hashConcat(network[:], s.ephShared[:], s.serverShared[:], s.clientShared[:])
}

func (s *keySchedule) wipe() {
	crypto.SecureWipe(s.ephShared[:])
	crypto.SecureWipe(s.ephSharedHash[:])
	crypto.SecureWipe(s.serverShared[:])
	crypto.SecureWipe(s.clientShared[:])
}

// authStatement is the byte string the client signs in message 3:
// network identifier, server long-term public key, and the hash of the
// ephemeral shared secret.
func authStatement(network, serverLongTerm, ephSharedHash [32]byte) []byte {
	out := make([]byte, 0, 96)
	out = append(out, network[:]...)
	out = append(out, serverLongTerm[:]...)
	out = append(out, ephSharedHash[:]...)
	return out
}

// acceptStatement is the byte string the server signs in message 4. It
// covers the client's own signature, binding message 4 to the exact
// message 3 that was received.
func acceptStatement(network [32]byte, clientSig crypto.Signature, clientLongTerm, ephSharedHash [32]byte) []byte {
	out := make([]byte, 0, 160)
	out = append(out, network[:]...)
	out = append(out, clientSig[:]...)
	out = append(out, clientLongTerm[:]...)
	out = append(out, ephSharedHash[:]...)
	return out
}

// deriveSessionKeys expands the accept-box key into the directional keys
// and nonces used after the handshake. The key is hashed once more, then
// bound to each long-term identity: a peer encrypts under the hash
// involving the remote identity and decrypts under the hash involving
// its own, so the two directions never share a key. Nonces are the
// leading bytes of the hello tags, remote tag for sending and local tag
// for receiving.
func deriveSessionKeys(acceptKey, localLongTerm, remoteLongTerm [32]byte, localTag, remoteTag [crypto.AuthTagSize]byte) *SessionKeys {
	double := sha256.Sum256(acceptKey[:])

	keys := &SessionKeys{
		EncryptKey:   hashConcat(double[:], remoteLongTerm[:]),
		DecryptKey:   hashConcat(double[:], localLongTerm[:]),
		RemotePublic: remoteLongTerm,
	}
	copy(keys.EncryptNonce[:], remoteTag[:crypto.NonceSize])
	copy(keys.DecryptNonce[:], localTag[:crypto.NonceSize])

	crypto.SecureWipe(double[:])
	return keys
}

func hashConcat(parts ...[]byte) [32]byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}
