package shs1

import (
	"encoding/hex"
	"testing"

	"github.com/opd-ai/secrethandshake/crypto"
)

// Published shs1 test vectors: one complete handshake with fixed
// identities and ephemerals. A conforming implementation reproduces
// every wire message and every derived session key byte for byte.
const (
	vecNetwork = "6f619f56130d357342d12054ff8c8f559d4a209a9c5a1db98d13b8ff686b7cc6"

	vecClientSeed      = "f3a806322c4ec0b7d2f1bd24b79a847773542f9720201aed40b445145f855cb0"
	vecClientPublic    = "e1a2498849775e54d066e978172ee1f5c64fb00097d046926f175e6519c01e23"
	vecClientEphSecret = "50a9379d868edb987df0aed1e16d2ebc61e0c1bbc63ae2c118ebd5d63137d568"
	vecClientEphPublic = "4f4f4deefed781c5eb29b9d02f209225ffedd0d7b65cc96a55569d2935a5b120"

	vecServerSeed      = "7662114d56743a926354c6a423dc49d5f6e0f2e6af7447da3825d442a30e4ad1"
	vecServerPublic    = "2abe719910f8bbc3a3c9bbcc56ee42973473a004f4010c4caa81420cca360146"
	vecServerEphSecret = "b0f8d2b9e24ca299ef9039ceda6102d79b05dfbd161c8955e4e95d4fd9cb3f7d"
	vecServerEphPublic = "a60c3fdaeb883d63e88ea593585d4fb117948139b318c0ae5a3e285333096152"

	vecMsg1 = "d306149bb2d11e6b01038cf2496574eaf97f83e38e42f0c30d32266007d07cb4" +
		"4f4f4deefed781c5eb29b9d02f209225ffedd0d7b65cc96a55569d2935a5b120"
	vecMsg2 = "2c8c4fe31799cacb5128723b38a73fa6c909329800ffe293162b54636bc6c6db" +
		"a60c3fdaeb883d63e88ea593585d4fb117948139b318c0ae5a3e285333096152"
	vecMsg3 = "502218c32ed3eb425b594162891a56c52004998ea01238b40cab7f262c354a40" +
		"37bc1619a11907f3c8c491f9cfd358b200ceadeabc14fbf0c7a95eb4d42096e2" +
		"8a2c8deb21985bd71f7e3030dcef61e1674fbe38e3678ec37c0a154c420bc20b" +
		"dc0fa3428ae8e40c82ac0489349f4062"
	vecMsg4 = "48725c696d30110e1996f23294463119defeff7cc2905472be94fcbd9f849dad" +
		"5c0ef7c657e88d53544fe22bc25f0e088ae960287e99cd245fcbc8cadd767e63" +
		"2fd8d1db0385f0d8a6b6b6e2d774b142"

	vecClientEncryptKey   = "a21d99967be10aadafc9a022beb39e0eb069e8ee614285c2fa94c707229dae18"
	vecClientEncryptNonce = "2c8c4fe31799cacb5128723b38a73fa6c909329800ffe293"
	vecClientDecryptKey   = "7d8899076df1ef54e4b08d173a815ae4bc5dbfe0d14393bb2dccb2114de17562"
	vecClientDecryptNonce = "d306149bb2d11e6b01038cf2496574eaf97f83e38e42f0c3"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex constant %q: %v", s, err)
	}
	return b
}

func vectorClientKeys(t *testing.T) (*crypto.IdentityKeyPair, *crypto.EphemeralKeyPair) {
	t.Helper()

	var seed [32]byte
	copy(seed[:], mustHex(t, vecClientSeed))
	identity := crypto.IdentityFromSeed(seed)
	if got := hex.EncodeToString(identity.Public[:]); got != vecClientPublic {
		t.Fatalf("client identity public key = %s, want %s", got, vecClientPublic)
	}

	var ephSecret [32]byte
	copy(ephSecret[:], mustHex(t, vecClientEphSecret))
	ephemeral, err := crypto.EphemeralFromPrivateKey(ephSecret)
	if err != nil {
		t.Fatalf("EphemeralFromPrivateKey: %v", err)
	}
	if got := hex.EncodeToString(ephemeral.Public[:]); got != vecClientEphPublic {
		t.Fatalf("client ephemeral public key = %s, want %s", got, vecClientEphPublic)
	}

	return identity, ephemeral
}

func vectorServerKeys(t *testing.T) (*crypto.IdentityKeyPair, *crypto.EphemeralKeyPair) {
	t.Helper()

	var seed [32]byte
	copy(seed[:], mustHex(t, vecServerSeed))
	identity := crypto.IdentityFromSeed(seed)
	if got := hex.EncodeToString(identity.Public[:]); got != vecServerPublic {
		t.Fatalf("server identity public key = %s, want %s", got, vecServerPublic)
	}

	var ephSecret [32]byte
	copy(ephSecret[:], mustHex(t, vecServerEphSecret))
	ephemeral, err := crypto.EphemeralFromPrivateKey(ephSecret)
	if err != nil {
		t.Fatalf("EphemeralFromPrivateKey: %v", err)
	}
	if got := hex.EncodeToString(ephemeral.Public[:]); got != vecServerEphPublic {
		t.Fatalf("server ephemeral public key = %s, want %s", got, vecServerEphPublic)
	}

	return identity, ephemeral
}

func TestClientVectors(t *testing.T) {
	identity, ephemeral := vectorClientKeys(t)

	h, err := NewClientHandshakeWithEphemeral(mustHex(t, vecNetwork), identity, mustHex(t, vecServerPublic), ephemeral)
	if err != nil {
		t.Fatalf("NewClientHandshakeWithEphemeral: %v", err)
	}

	msg1, err := h.WriteMessage()
	if err != nil {
		t.Fatalf("WriteMessage(hello): %v", err)
	}
	if got := hex.EncodeToString(msg1); got != vecMsg1 {
		t.Errorf("message 1 = %s, want %s", got, vecMsg1)
	}

	if err := h.ReadMessage(mustHex(t, vecMsg2)); err != nil {
		t.Fatalf("ReadMessage(server hello): %v", err)
	}

	msg3, err := h.WriteMessage()
	if err != nil {
		t.Fatalf("WriteMessage(client auth): %v", err)
	}
	if got := hex.EncodeToString(msg3); got != vecMsg3 {
		t.Errorf("message 3 = %s, want %s", got, vecMsg3)
	}

	if err := h.ReadMessage(mustHex(t, vecMsg4)); err != nil {
		t.Fatalf("ReadMessage(server accept): %v", err)
	}
	if !h.IsComplete() {
		t.Fatalf("handshake state = %v, want %v", h.State(), StateComplete)
	}

	keys, err := h.SessionKeys()
	if err != nil {
		t.Fatalf("SessionKeys: %v", err)
	}
	if got := hex.EncodeToString(keys.EncryptKey[:]); got != vecClientEncryptKey {
		t.Errorf("encrypt key = %s, want %s", got, vecClientEncryptKey)
	}
	if got := hex.EncodeToString(keys.EncryptNonce[:]); got != vecClientEncryptNonce {
		t.Errorf("encrypt nonce = %s, want %s", got, vecClientEncryptNonce)
	}
	if got := hex.EncodeToString(keys.DecryptKey[:]); got != vecClientDecryptKey {
		t.Errorf("decrypt key = %s, want %s", got, vecClientDecryptKey)
	}
	if got := hex.EncodeToString(keys.DecryptNonce[:]); got != vecClientDecryptNonce {
		t.Errorf("decrypt nonce = %s, want %s", got, vecClientDecryptNonce)
	}
	if got := hex.EncodeToString(keys.RemotePublic[:]); got != vecServerPublic {
		t.Errorf("remote public = %s, want %s", got, vecServerPublic)
	}
}

func TestServerVectors(t *testing.T) {
	identity, ephemeral := vectorServerKeys(t)

	h, err := NewServerHandshakeWithEphemeral(mustHex(t, vecNetwork), identity, ephemeral)
	if err != nil {
		t.Fatalf("NewServerHandshakeWithEphemeral: %v", err)
	}

	if err := h.ReadMessage(mustHex(t, vecMsg1)); err != nil {
		t.Fatalf("ReadMessage(client hello): %v", err)
	}

	msg2, err := h.WriteMessage()
	if err != nil {
		t.Fatalf("WriteMessage(hello): %v", err)
	}
	if got := hex.EncodeToString(msg2); got != vecMsg2 {
		t.Errorf("message 2 = %s, want %s", got, vecMsg2)
	}

	if err := h.ReadMessage(mustHex(t, vecMsg3)); err != nil {
		t.Fatalf("ReadMessage(client auth): %v", err)
	}

	remote, err := h.RemotePublic()
	if err != nil {
		t.Fatalf("RemotePublic after client auth: %v", err)
	}
	if got := hex.EncodeToString(remote[:]); got != vecClientPublic {
		t.Errorf("remote public = %s, want %s", got, vecClientPublic)
	}

	msg4, err := h.WriteMessage()
	if err != nil {
		t.Fatalf("WriteMessage(server accept): %v", err)
	}
	if got := hex.EncodeToString(msg4); got != vecMsg4 {
		t.Errorf("message 4 = %s, want %s", got, vecMsg4)
	}
	if !h.IsComplete() {
		t.Fatalf("handshake state = %v, want %v", h.State(), StateComplete)
	}

	// The server's directions mirror the client's: its encrypt key is the
	// client's decrypt key and vice versa.
	keys, err := h.SessionKeys()
	if err != nil {
		t.Fatalf("SessionKeys: %v", err)
	}
	if got := hex.EncodeToString(keys.EncryptKey[:]); got != vecClientDecryptKey {
		t.Errorf("encrypt key = %s, want %s", got, vecClientDecryptKey)
	}
	if got := hex.EncodeToString(keys.EncryptNonce[:]); got != vecClientDecryptNonce {
		t.Errorf("encrypt nonce = %s, want %s", got, vecClientDecryptNonce)
	}
	if got := hex.EncodeToString(keys.DecryptKey[:]); got != vecClientEncryptKey {
		t.Errorf("decrypt key = %s, want %s", got, vecClientEncryptKey)
	}
	if got := hex.EncodeToString(keys.DecryptNonce[:]); got != vecClientEncryptNonce {
		t.Errorf("decrypt nonce = %s, want %s", got, vecClientEncryptNonce)
	}
	if got := hex.EncodeToString(keys.RemotePublic[:]); got != vecClientPublic {
		t.Errorf("remote public = %s, want %s", got, vecClientPublic)
	}
}
