// Package serialtransport implements thermolink.Transport over a physical
// UART, using go.bug.st/serial for the port itself.
package serialtransport

import (
	"fmt"
	"log"

	"go.bug.st/serial"
	"golang.org/x/sys/unix"

	"github.com/librescoot/thermolink/pkg/thermolink"
)

// Port wraps an open serial port as a thermolink.Transport. Unlike the
// byte-at-a-time USOCK state machine it replaces, framing and resync live
// entirely in the thermolink package; Port only moves bytes.
type Port struct {
	port serial.Port
	path string
}

// Open opens devicePath at baudRate (8N1, no flow control), flushing any
// stale bytes left in the kernel's tty buffers from a previous session
// before handing the port to the caller.
func Open(devicePath string, baudRate int) (*Port, error) {
	if err := flushStaleBuffer(devicePath); err != nil {
		log.Printf("serialtransport: could not flush %s before opening: %v", devicePath, err)
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(devicePath, mode)
	if err != nil {
		return nil, fmt.Errorf("serialtransport: open %s: %w", devicePath, err)
	}

	return &Port{port: port, path: devicePath}, nil
}

// flushStaleBuffer discards whatever the kernel's tty driver is still
// holding in its input/output queues from before we opened the port. The
// USOCK driver this is adapted from did this by opening and immediately
// closing the port at a throwaway baud rate; an explicit TCIOFLUSH ioctl
// on the raw fd achieves the same effect without the open/close round trip.
func flushStaleBuffer(devicePath string) error {
	fd, err := unix.Open(devicePath, unix.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return fmt.Errorf("open %s for flush: %w", devicePath, err)
	}
	defer unix.Close(fd)

	return unix.IoctlTcflush(fd, unix.TCIOFLUSH)
}

// Read implements thermolink.Reader: it blocks until exactly n bytes have
// been read into buf, or the port reports an error.
func (p *Port) Read(_ any, buf []byte, n int) bool {
	got := 0
	for got < n {
		m, err := p.port.Read(buf[got:n])
		if err != nil {
			log.Printf("serialtransport: read from %s failed: %v", p.path, err)
			return false
		}
		if m == 0 {
			// go.bug.st/serial returns (0, nil) on a read-timeout deadline;
			// treat it as a terminal condition rather than busy-looping.
			return false
		}
		got += m
	}
	return true
}

// Write implements thermolink.Writer: it blocks until exactly n bytes from
// buf have been written, or the port reports an error.
func (p *Port) Write(_ any, buf []byte, n int) bool {
	wrote := 0
	for wrote < n {
		m, err := p.port.Write(buf[wrote:n])
		if err != nil {
			log.Printf("serialtransport: write to %s failed: %v", p.path, err)
			return false
		}
		wrote += m
	}
	return true
}

// Close closes the underlying port.
func (p *Port) Close() error {
	return p.port.Close()
}

var _ thermolink.Transport = (*Port)(nil)
