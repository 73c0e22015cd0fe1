package thermolink

import (
	"errors"
	"testing"
)

func TestNewRejectsInvalidMode(t *testing.T) {
	_, err := New(ModeUninitialized, "1.0", newBufTransport())
	var e *Error
	if !errors.As(err, &e) || e.Code != CodeInvalidParameter {
		t.Fatalf("New error = %v, want CodeInvalidParameter", err)
	}
}

func TestNewRejectsNilTransport(t *testing.T) {
	_, err := New(ModeClient, "1.0", nil)
	var e *Error
	if !errors.As(err, &e) || e.Code != CodeInvalidParameter {
		t.Fatalf("New error = %v, want CodeInvalidParameter", err)
	}
}

func TestSendAfterCloseFails(t *testing.T) {
	s, err := New(ModeClient, "1.0", newBufTransport())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	err = s.SendCurrentTemperature(20)
	var e *Error
	if !errors.As(err, &e) || e.Code != CodeNotInitialized {
		t.Fatalf("SendCurrentTemperature after Close = %v, want CodeNotInitialized", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s, err := New(ModeServer, "1.0", newBufTransport())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestWithUserDataReachesTransport(t *testing.T) {
	var seen any
	transport := NewTransport(
		func(userData any, buf []byte, n int) bool {
			seen = userData
			return false
		},
		func(userData any, buf []byte, n int) bool {
			seen = userData
			return false
		},
	)

	s, err := New(ModeClient, "1.0", transport, WithUserData("marker"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = s.Startup()

	if seen != "marker" {
		t.Fatalf("userData seen by transport = %v, want %q", seen, "marker")
	}
}

func TestVersionStringIsTruncated(t *testing.T) {
	long := make([]byte, maxHandshakeVersion+10)
	for i := range long {
		long[i] = 'v'
	}
	s, err := New(ModeClient, string(long), newBufTransport())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(s.version) != maxHandshakeVersion {
		t.Fatalf("version length = %d, want %d", len(s.version), maxHandshakeVersion)
	}
}
