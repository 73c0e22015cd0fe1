package thermolink

// receiveRaw reads and decodes exactly one frame, with no special handling
// of loopback or handshake variants. Startup and LoopbackTest use this
// directly; Receive layers the dispatch loop on top of it.
func (s *Session) receiveRaw() (Message, error) {
	if err := s.checkOpen(); err != nil {
		return Message{}, err
	}
	body, err := readFrame(s.transport, s.userData)
	if err != nil {
		s.logf(SeverityWarning, "frame read failed: %v", err)
		return Message{}, err
	}
	msg, err := Decode(body)
	if err != nil {
		s.logf(SeverityWarning, "message decode failed: %v", err)
		return Message{}, err
	}
	return msg, nil
}

// Receive blocks until one application message is available, transparently
// echoing loopback-test frames and absorbing handshake frames sent by a
// remote end that has restarted.
func (s *Session) Receive() (Message, error) {
	for {
		msg, err := s.receiveRaw()
		if err != nil {
			return Message{}, err
		}

		switch msg.Tag {
		case TagLoopbackTest:
			if err := s.sendRaw(msg); err != nil {
				return Message{}, newErr(CodeSendFailed, err)
			}
		case TagHandshake:
			if err := s.handleRemoteRestarted(msg); err != nil {
				return Message{}, err
			}
		default:
			return msg, nil
		}
	}
}

// sendRaw encodes and writes m with no framing-level special cases.
func (s *Session) sendRaw(m Message) error {
	body, err := Encode(m)
	if err != nil {
		return newErr(CodeEncodeFailed, err)
	}
	return writeFrame(s.transport, s.userData, body)
}
