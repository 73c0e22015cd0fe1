package thermolink

import (
	"bytes"
	"math/rand"
	"testing"
)

// bufTransport is an in-memory Transport backed by a single buffer, enough
// to drive frame.go's exact-n Read/Write contract in tests.
type bufTransport struct {
	buf *bytes.Buffer
}

func newBufTransport() *bufTransport { return &bufTransport{buf: &bytes.Buffer{}} }

func (t *bufTransport) Read(_ any, buf []byte, n int) bool {
	got := make([]byte, n)
	if m, err := t.buf.Read(got); err != nil || m != n {
		return false
	}
	copy(buf[:n], got)
	return true
}

func (t *bufTransport) Write(_ any, buf []byte, n int) bool {
	t.buf.Write(buf[:n])
	return true
}

func TestWriteFrameThenReadFrameRoundTrip(t *testing.T) {
	tr := newBufTransport()
	body := []byte{0x01, 0x02, 0x03, 0x04}

	if err := writeFrame(tr, nil, body); err != nil {
		t.Fatalf("writeFrame: %v", err)
	}

	got, err := readFrame(tr, nil)
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Fatalf("readFrame body = %v, want %v", got, body)
	}
}

func TestReadFrameResyncsPastGarbage(t *testing.T) {
	tr := newBufTransport()
	// Stray magic bytes, but never a complete 0xCA 0xFE pair: a full false
	// header would be parsed as a frame header and its length checked.
	garbage := []byte{0x00, 0xCA, 0x01, 0xFE, 0xFF, 0xCA}
	tr.buf.Write(garbage)

	body := []byte{0xAB, 0xCD}
	if err := writeFrame(tr, nil, body); err != nil {
		t.Fatalf("writeFrame: %v", err)
	}

	got, err := readFrame(tr, nil)
	if err != nil {
		t.Fatalf("readFrame after garbage: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Fatalf("readFrame body = %v, want %v", got, body)
	}
}

func TestReadFrameRejectsBadCRC(t *testing.T) {
	tr := newBufTransport()
	if err := writeFrame(tr, nil, []byte{0x01}); err != nil {
		t.Fatalf("writeFrame: %v", err)
	}
	raw := tr.buf.Bytes()
	raw[len(raw)-3] ^= 0xFF // flip a CRC byte
	tr.buf.Reset()
	tr.buf.Write(raw)

	if _, err := readFrame(tr, nil); err == nil {
		t.Fatal("expected CRC mismatch to be rejected")
	}
}

func TestReadFrameRejectsBadFooterMagic(t *testing.T) {
	tr := newBufTransport()
	if err := writeFrame(tr, nil, []byte{0x01}); err != nil {
		t.Fatalf("writeFrame: %v", err)
	}
	raw := tr.buf.Bytes()
	raw[len(raw)-1] ^= 0xFF
	tr.buf.Reset()
	tr.buf.Write(raw)

	if _, err := readFrame(tr, nil); err == nil {
		t.Fatal("expected bad footer magic to be rejected")
	}
}

func TestReadFrameRejectsOversizedBody(t *testing.T) {
	tr := newBufTransport()
	// Craft a header claiming a body longer than maxBodyLength.
	tr.buf.Write([]byte{headerMagic0, headerMagic1, 0xFF, 0xFF})
	if _, err := readFrame(tr, nil); err == nil {
		t.Fatal("expected oversized body length to be rejected")
	}
}

func TestReadFrameSurvivesRandomNoiseBetweenValidFrames(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tr := newBufTransport()

	const frames = 200
	bodies := make([][]byte, frames)
	for i := range bodies {
		// Keep garbage bytes below the header magic's first byte so noise
		// can never accidentally contain a real 0xCA 0xFE header.
		garbage := make([]byte, rng.Intn(5))
		for j := range garbage {
			garbage[j] = byte(rng.Intn(headerMagic0))
		}
		tr.buf.Write(garbage)

		body := make([]byte, 1+rng.Intn(8))
		rng.Read(body)
		bodies[i] = body
		if err := writeFrame(tr, nil, body); err != nil {
			t.Fatalf("writeFrame[%d]: %v", i, err)
		}
	}

	for i, want := range bodies {
		got, err := readFrame(tr, nil)
		if err != nil {
			t.Fatalf("readFrame[%d]: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("readFrame[%d] = %v, want %v", i, got, want)
		}
	}
}
