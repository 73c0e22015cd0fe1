// Package capture records raw frames exchanged over a thermolink.Transport
// and replays them later, for offline diagnostics and deterministic tests.
// The capture format is CBOR; it has nothing to do with the wire framing
// thermolink itself uses, which stays fixed regardless of how a capture is
// stored.
package capture

import (
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/librescoot/thermolink/pkg/thermolink"
)

// Direction distinguishes a captured frame's origin.
type Direction uint8

const (
	DirectionRX Direction = iota
	DirectionTX
)

func (d Direction) String() string {
	if d == DirectionTX {
		return "tx"
	}
	return "rx"
}

// Record is one captured frame: the raw bytes exactly as they crossed the
// wire, plus when and which direction.
type Record struct {
	Direction Direction `cbor:"dir"`
	Data      []byte    `cbor:"data"`
	At        time.Time `cbor:"at"`
}

// Recorder wraps a thermolink.Transport, appending every byte sequence
// that passes through Read or Write to an underlying CBOR stream.
type Recorder struct {
	inner thermolink.Transport
	enc   *cbor.Encoder
	now   func() time.Time
}

// NewRecorder wraps inner, writing a CBOR record to w for every successful
// Read/Write call; failed calls are not recorded. now defaults to time.Now if nil (tests can substitute a fixed
// clock to keep captures reproducible).
func NewRecorder(inner thermolink.Transport, w io.Writer, now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{inner: inner, enc: cbor.NewEncoder(w), now: now}
}

func (r *Recorder) Read(userData any, buf []byte, n int) bool {
	ok := r.inner.Read(userData, buf, n)
	if ok {
		_ = r.enc.Encode(Record{Direction: DirectionRX, Data: append([]byte(nil), buf[:n]...), At: r.now()})
	}
	return ok
}

func (r *Recorder) Write(userData any, buf []byte, n int) bool {
	ok := r.inner.Write(userData, buf, n)
	if ok {
		_ = r.enc.Encode(Record{Direction: DirectionTX, Data: append([]byte(nil), buf[:n]...), At: r.now()})
	}
	return ok
}

var _ thermolink.Transport = (*Recorder)(nil)

// Player replays a captured RX stream as a Transport: Read returns
// successive DirectionRX records' bytes; Write is a no-op recorder of its
// own, letting replay of a capture exercise the exact same Session code
// path as the live link did.
type Player struct {
	dec     *cbor.Decoder
	pending []byte
	written []Record
	now     func() time.Time
}

// NewPlayer reads records from r on demand as Read calls need more bytes.
func NewPlayer(r io.Reader, now func() time.Time) *Player {
	if now == nil {
		now = time.Now
	}
	return &Player{dec: cbor.NewDecoder(r), now: now}
}

func (p *Player) Read(_ any, buf []byte, n int) bool {
	for len(p.pending) < n {
		var rec Record
		if err := p.dec.Decode(&rec); err != nil {
			return false
		}
		if rec.Direction != DirectionRX {
			continue
		}
		p.pending = append(p.pending, rec.Data...)
	}
	copy(buf[:n], p.pending[:n])
	p.pending = p.pending[n:]
	return true
}

func (p *Player) Write(_ any, buf []byte, n int) bool {
	p.written = append(p.written, Record{Direction: DirectionTX, Data: append([]byte(nil), buf[:n]...), At: p.now()})
	return true
}

// Written returns every frame written during replay, for assertions against
// what the session under test sent back.
func (p *Player) Written() []Record {
	return p.written
}

var _ thermolink.Transport = (*Player)(nil)

// DecodeAll reads every record from r; a convenience for tooling that wants
// to inspect a capture file directly rather than replay it.
func DecodeAll(r io.Reader) ([]Record, error) {
	dec := cbor.NewDecoder(r)
	var records []Record
	for {
		var rec Record
		err := dec.Decode(&rec)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("capture: decode record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
