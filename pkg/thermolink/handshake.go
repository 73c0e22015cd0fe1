package thermolink

// Startup performs the three-step handshake: send our own handshake
// message (requesting an ack), wait for the peer's handshake message, and
// ack it in turn if it asked for one. On success RemoteVersion becomes
// available and the attached ConnectNotifier, if any, fires once.
//
// If the Session was built WithFailOnVersionMismatch, a peer reporting a
// different version string fails the call with ErrVersionMismatch rather
// than just being logged.
func (s *Session) Startup() error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	if err := s.sendStartupMessage(s.mode, true); err != nil {
		return newErr(CodeStartupFailed, err)
	}
	if err := s.receiveHandshake(s.mode); err != nil {
		return newErr(CodeStartupFailed, err)
	}

	if s.remoteVersion != s.version {
		if s.failOnMismatch {
			s.logf(SeverityError, "version mismatch: local=%q remote=%q", s.version, s.remoteVersion)
			return newErr(CodeVersionMismatch, nil)
		}
		s.logf(SeverityWarning, "version mismatch: local=%q remote=%q", s.version, s.remoteVersion)
	}

	s.mu.Lock()
	s.handshakeDone = true
	remoteMode, remoteVersion := s.remoteMode, s.remoteVersion
	s.mu.Unlock()

	s.notifyConnect(remoteMode, remoteVersion)
	return nil
}

// sendStartupMessage sends our handshake frame. needsAck requests that the
// peer reply with its own handshake message; the reply to a reply never
// does (this is what stops the exchange from ping-ponging forever).
func (s *Session) sendStartupMessage(mode OperatingMode, needsAck bool) error {
	msg := Message{
		Tag: TagHandshake,
		Payload: HandshakePayload{
			Mode:     mode,
			Version:  s.version,
			NeedsAck: needsAck,
		},
	}
	if err := s.sendRaw(msg); err != nil {
		return newErr(CodeSendFailed, err)
	}
	return nil
}

// receiveHandshake waits for the peer's initial handshake frame and acks it
// if requested. Unlike Receive, it talks to receiveRaw directly: during
// startup a handshake frame is the expected reply, not an out-of-band
// restart notification.
func (s *Session) receiveHandshake(ourMode OperatingMode) error {
	expected := ourMode.complement()

	msg, err := s.receiveRaw()
	if err != nil {
		return err
	}
	hs, ok := msg.Handshake()
	if !ok {
		s.logf(SeverityError, "expected handshake message from remote end")
		return newErr(CodeUnknownMessageType, nil)
	}
	if hs.Mode != expected {
		s.logf(SeverityError, "expected %s from remote end, got %s", expected, hs.Mode)
		return newErr(CodeStartupFailed, nil)
	}

	s.mu.Lock()
	s.remoteMode = hs.Mode
	s.remoteVersion = hs.Version
	s.mu.Unlock()

	if hs.NeedsAck {
		if err := s.sendStartupMessage(ourMode, false); err != nil {
			return err
		}
	}
	return nil
}

// handleRemoteRestarted processes an out-of-band handshake frame received
// by Receive after startup already completed once: the peer process
// restarted and is re-announcing itself. We record its new version and,
// if it asked for an ack, reply and re-fire the ConnectNotifier.
func (s *Session) handleRemoteRestarted(msg Message) error {
	s.logf(SeverityInfo, "remote end has restarted")

	s.mu.Lock()
	mode := s.mode
	handshakeDone := s.handshakeDone
	s.mu.Unlock()

	if !handshakeDone {
		s.logf(SeverityError, "cannot handle remote restart - local end not started up")
		return newErr(CodeInvalidState, nil)
	}

	hs, ok := msg.Handshake()
	if !ok {
		return newErr(CodeUnknownMessageType, nil)
	}
	if hs.Mode == mode {
		s.logf(SeverityError, "remote end has restarted in unexpected mode")
		return newErr(CodeInvalidState, nil)
	}

	s.mu.Lock()
	s.remoteMode = hs.Mode
	s.remoteVersion = hs.Version
	s.mu.Unlock()

	if hs.NeedsAck {
		if err := s.sendStartupMessage(mode, false); err != nil {
			return newErr(CodeSendFailed, err)
		}
		s.notifyConnect(hs.Mode, hs.Version)
	}
	return nil
}
