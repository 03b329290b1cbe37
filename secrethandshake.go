package secrethandshake

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/secrethandshake/crypto"
	"github.com/opd-ai/secrethandshake/shs1"
)

// ErrUnauthorizedClient indicates the server's authorization policy
// rejected an authenticated client. The handshake is aborted before the
// accept message, so the rejected client learns nothing beyond the
// connection dying.
var ErrUnauthorizedClient = errors.New("client identity rejected by authorization policy")

// AuthorizeFunc decides whether an authenticated client may complete a
// handshake. It runs after the client has proven its identity and
// before the server acknowledges anything.
type AuthorizeFunc func(clientPublic [32]byte) bool

// Client performs the initiating side of a handshake over rw against
// the server identified by serverPublic. On success the caller owns the
// returned session keys. Deadlines, if any, belong on rw.
func Client(rw io.ReadWriter, networkID []byte, identity *crypto.IdentityKeyPair, serverPublic []byte) (*shs1.SessionKeys, error) {
	logrus.WithFields(logrus.Fields{
		"function": "Client",
	}).Debug("Starting client handshake")

	h, err := shs1.NewClientHandshake(networkID, identity, serverPublic)
	if err != nil {
		return nil, err
	}
	return RunClient(rw, h)
}

// Server performs the responding side of a handshake over rw, accepting
// any client that authenticates on the right network. Use
// ServerWithAuthorize to restrict which client identities may connect.
func Server(rw io.ReadWriter, networkID []byte, identity *crypto.IdentityKeyPair) (*shs1.SessionKeys, error) {
	return ServerWithAuthorize(rw, networkID, identity, nil)
}

// ServerWithAuthorize is Server with an authorization policy: authorize
// is called with the client's verified public key, and a false return
// aborts the handshake with ErrUnauthorizedClient before the client is
// acknowledged. A nil authorize accepts every authenticated client.
func ServerWithAuthorize(rw io.ReadWriter, networkID []byte, identity *crypto.IdentityKeyPair, authorize AuthorizeFunc) (*shs1.SessionKeys, error) {
	logrus.WithFields(logrus.Fields{
		"function": "ServerWithAuthorize",
	}).Debug("Starting server handshake")

	h, err := shs1.NewServerHandshake(networkID, identity)
	if err != nil {
		return nil, err
	}
	return RunServer(rw, h, authorize)
}

// RunClient drives a caller-constructed client state machine over rw,
// for callers that need custom construction such as fixed ephemerals.
// The state machine is destroyed on every exit path.
func RunClient(rw io.ReadWriter, h *shs1.Handshake) (*shs1.SessionKeys, error) {
	defer h.Destroy()

	if err := writeNext(rw, h); err != nil { // client hello
		return nil, err
	}
	if err := readNext(rw, h, shs1.HelloMessageSize); err != nil { // server hello
		return nil, err
	}
	if err := writeNext(rw, h); err != nil { // client auth
		return nil, err
	}
	if err := readNext(rw, h, shs1.ServerAcceptMessageSize); err != nil { // server accept
		return nil, err
	}

	return h.SessionKeys()
}

// RunServer drives a caller-constructed server state machine over rw.
// See RunClient and ServerWithAuthorize.
func RunServer(rw io.ReadWriter, h *shs1.Handshake, authorize AuthorizeFunc) (*shs1.SessionKeys, error) {
	defer h.Destroy()

	if err := readNext(rw, h, shs1.HelloMessageSize); err != nil { // client hello
		return nil, err
	}
	if err := writeNext(rw, h); err != nil { // server hello
		return nil, err
	}
	if err := readNext(rw, h, shs1.ClientAuthMessageSize); err != nil { // client auth
		return nil, err
	}

	if authorize != nil {
		clientPublic, err := h.RemotePublic()
		if err != nil {
			return nil, err
		}
		if !authorize(clientPublic) {
			logrus.WithFields(logrus.Fields{
				"function":      "RunServer",
				"client_public": fmt.Sprintf("%x", clientPublic[:8]),
			}).Warn("Client rejected by authorization policy")
			return nil, ErrUnauthorizedClient
		}
	}

	if err := writeNext(rw, h); err != nil { // server accept
		return nil, err
	}

	return h.SessionKeys()
}

func writeNext(w io.Writer, h *shs1.Handshake) error {
	message, err := h.WriteMessage()
	if err != nil {
		return err
	}
	if _, err := w.Write(message); err != nil {
		return fmt.Errorf("failed to send handshake message: %w", err)
	}
	return nil
}

func readNext(r io.Reader, h *shs1.Handshake, size int) error {
	message := make([]byte, size)
	if _, err := io.ReadFull(r, message); err != nil {
		return fmt.Errorf("failed to receive handshake message: %w", err)
	}
	return h.ReadMessage(message)
}
