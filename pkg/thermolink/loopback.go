package thermolink

// LoopbackTest sends testData as a loopback-test frame and blocks for the
// remote end to echo it back, failing if the echoed payload doesn't match.
// It is meant to be run against a peer whose Receive loop is running (the
// peer echoes loopbackTest frames transparently, never surfacing them to
// its own caller) or against a raw wire loopback (a physical short between
// a session's own TX and RX). The frame is written before the reply is
// read, on the caller's goroutine, so a short over an unbuffered pipe such
// as net.Pipe() blocks in the write.
func (s *Session) LoopbackTest(testData string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if testData == "" || len(testData) > maxLoopbackData {
		s.logf(SeverityError, "loopback test data must be non-empty and at most %d bytes", maxLoopbackData)
		return newErr(CodeInvalidParameter, nil)
	}

	out := Message{Tag: TagLoopbackTest, Payload: StringPayload(testData)}
	if err := s.sendRaw(out); err != nil {
		return newErr(CodeSendFailed, err)
	}

	reply, err := s.receiveRaw()
	if err != nil {
		return newErr(CodeReceiveFailed, err)
	}

	echoed, ok := reply.Str()
	if !ok || reply.Tag != TagLoopbackTest {
		s.logf(SeverityError, "loopback test expected a loopbackTest reply")
		return newErr(CodeUnknownMessageType, nil)
	}
	if echoed != testData {
		s.logf(SeverityError, "loopback test data mismatch: got %q want %q", echoed, testData)
		return newErr(CodeReceiveFailed, nil)
	}
	return nil
}
