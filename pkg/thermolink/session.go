package thermolink

import (
	"fmt"
	"sync"
)

// Session is an owned handle to one end of a point-to-point link. Unlike
// the process-wide singleton the original C library kept behind a single
// set of registered callbacks, a Session carries its own state so a single
// process can host more than one link (useful in tests, where client and
// server share an address space over a net.Pipe()).
type Session struct {
	mu sync.Mutex

	transport Transport
	logger    Logger
	onConnect ConnectNotifier
	userData  any

	mode          OperatingMode
	version       string
	failOnMismatch bool

	remoteMode    OperatingMode
	remoteVersion string
	handshakeDone bool

	closed bool
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithUserData attaches an opaque value passed back to every Transport,
// Logger and ConnectNotifier callback.
func WithUserData(userData any) Option {
	return func(s *Session) { s.userData = userData }
}

// WithLogger attaches an optional diagnostic logger.
func WithLogger(l Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithConnectNotifier attaches an optional connect/reconnect callback.
func WithConnectNotifier(n ConnectNotifier) Option {
	return func(s *Session) { s.onConnect = n }
}

// WithFailOnVersionMismatch makes Startup return ErrVersionMismatch instead
// of merely logging when the peer reports a different protocol version.
func WithFailOnVersionMismatch() Option {
	return func(s *Session) { s.failOnMismatch = true }
}

// New creates a Session in the given role, bound to transport. version is
// this end's protocol version string, exchanged during Startup.
func New(mode OperatingMode, version string, transport Transport, opts ...Option) (*Session, error) {
	if mode != ModeClient && mode != ModeServer {
		return nil, newErr(CodeInvalidParameter, nil)
	}
	if transport == nil {
		return nil, newErr(CodeInvalidParameter, nil)
	}

	s := &Session{
		transport: transport,
		mode:      mode,
		version:   truncate(version, maxHandshakeVersion),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Mode reports this end's configured role.
func (s *Session) Mode() OperatingMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// RemoteVersion reports the peer's last-known protocol version, and
// whether a handshake has completed at least once.
func (s *Session) RemoteVersion() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remoteVersion, s.handshakeDone
}

// Close releases the Session. Further calls on a closed Session return
// ErrNotInitialized. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Session) checkOpen() error {
	if s.closed {
		return newErr(CodeNotInitialized, nil)
	}
	return nil
}

func (s *Session) logf(severity Severity, format string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Log(s.userData, severity, fmt.Sprintf(format, args...))
}

func (s *Session) notifyConnect(remoteMode OperatingMode, remoteVersion string) {
	if s.onConnect == nil {
		return
	}
	s.onConnect.OnConnect(s.userData, remoteMode, remoteVersion)
}
