package thermolink

import (
	"errors"
	"io"
	"net"
	"testing"
)

// netConnTransport adapts a net.Conn to Transport for tests that want two
// independent Sessions talking over a real (if in-memory) connection.
type netConnTransport struct {
	conn net.Conn
}

func (t netConnTransport) Read(_ any, buf []byte, n int) bool {
	_, err := io.ReadFull(t.conn, buf[:n])
	return err == nil
}

func (t netConnTransport) Write(_ any, buf []byte, n int) bool {
	_, err := t.conn.Write(buf[:n])
	return err == nil
}

func newSessionPair(t *testing.T, opts ...Option) (client, server *Session, closeAll func()) {
	t.Helper()
	clientConn, serverConn := net.Pipe()

	client, err := New(ModeClient, "1.0", netConnTransport{clientConn}, opts...)
	if err != nil {
		t.Fatalf("client New: %v", err)
	}
	server, err = New(ModeServer, "1.0", netConnTransport{serverConn}, opts...)
	if err != nil {
		t.Fatalf("server New: %v", err)
	}
	return client, server, func() {
		clientConn.Close()
		serverConn.Close()
	}
}

func TestStartupHandshakeSymmetry(t *testing.T) {
	client, server, closeAll := newSessionPair(t)
	defer closeAll()

	errs := make(chan error, 2)
	go func() { errs <- client.Startup() }()
	go func() { errs <- server.Startup() }()

	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("Startup: %v", err)
		}
	}

	remoteVersion, ok := client.RemoteVersion()
	if !ok || remoteVersion != "1.0" {
		t.Fatalf("client remote version = %q, ok=%v", remoteVersion, ok)
	}
	remoteVersion, ok = server.RemoteVersion()
	if !ok || remoteVersion != "1.0" {
		t.Fatalf("server remote version = %q, ok=%v", remoteVersion, ok)
	}
}

func TestStartupRejectsSameModeOnBothEnds(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	a, err := New(ModeClient, "1.0", netConnTransport{clientConn})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New(ModeClient, "1.0", netConnTransport{serverConn})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	errs := make(chan error, 2)
	go func() { errs <- a.Startup() }()
	go func() { errs <- b.Startup() }()

	first := <-errs
	second := <-errs
	if first == nil || second == nil {
		t.Fatalf("expected both same-mode handshakes to fail, got %v and %v", first, second)
	}
}

func TestStartupFailOnVersionMismatch(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	client, err := New(ModeClient, "1.0", netConnTransport{clientConn}, WithFailOnVersionMismatch())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	server, err := New(ModeServer, "2.0", netConnTransport{serverConn})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	errs := make(chan error, 2)
	go func() { errs <- client.Startup() }()
	go func() { errs <- server.Startup() }()

	clientErr := <-errs
	serverErr := <-errs
	_ = serverErr

	if clientErr == nil {
		t.Fatal("expected client Startup to fail on version mismatch")
	}
}

func TestReceiveRejectsHandshakeBeforeOwnStartupCompletes(t *testing.T) {
	client, server, closeAll := newSessionPair(t)
	defer closeAll()

	// Server announces itself before the client has ever called Startup.
	// The client's Receive loop must treat this as an out-of-state
	// handshake rather than a legitimate remote-restart, since the client
	// has no completed handshake of its own yet.
	go func() { _ = server.sendStartupMessage(ModeServer, false) }()

	_, err := client.Receive()
	if err == nil {
		t.Fatal("expected Receive to reject a handshake frame before Startup completes")
	}
	var thermErr *Error
	if !errors.As(err, &thermErr) || thermErr.Code != CodeInvalidState {
		t.Fatalf("Receive error = %v, want CodeInvalidState", err)
	}
}

func TestRemoteRestartReannouncesAndAcks(t *testing.T) {
	client, server, closeAll := newSessionPair(t)
	defer closeAll()

	errs := make(chan error, 2)
	go func() { errs <- client.Startup() }()
	go func() { errs <- server.Startup() }()
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("Startup: %v", err)
		}
	}

	// Server "restarts" and re-announces itself; client's Receive loop
	// must absorb the handshake frame and ack it without surfacing it as
	// an application message.
	serverDone := make(chan error, 1)
	go func() { serverDone <- server.sendStartupMessage(ModeServer, true) }()

	recvDone := make(chan error, 1)
	go func() {
		_, err := client.Receive()
		recvDone <- err
	}()

	// The server's own receiveHandshake path would normally absorb the
	// client's ack; here we drive it directly since Receive already
	// consumed the re-announcement on the client side.
	if err := server.receiveHandshake(ModeServer); err != nil {
		t.Fatalf("server receiveHandshake for ack: %v", err)
	}
	if err := <-serverDone; err != nil {
		t.Fatalf("server sendStartupMessage: %v", err)
	}

	select {
	case err := <-recvDone:
		t.Fatalf("client.Receive returned before a real message was sent: %v", err)
	default:
	}

	if err := server.SendCurrentTemperature(19); err != nil {
		t.Fatalf("SendCurrentTemperature: %v", err)
	}
	if err := <-recvDone; err != nil {
		t.Fatalf("client.Receive: %v", err)
	}
}
