// Command thermolink-loopback wires a client and a server Session together
// over an in-memory pipe, runs the handshake, injects random byte garbage
// onto the wire the way the original loopback harness did, and reports how
// many of the subsequent frames were recovered via resync.
package main

import (
	"flag"
	"io"
	"log"
	"math/rand"
	"net"

	"github.com/librescoot/thermolink/pkg/thermolink"
)

var (
	iterations = flag.Int("iterations", 1000, "number of loopback round trips to attempt")
	errorBytes = flag.Int("error-bytes", 10, "random bytes injected onto the wire before each round trip")
)

const protocolVersion = "1.0"

// pipeTransport adapts a net.Conn to thermolink.Transport's exact-n
// blocking semantics.
type pipeTransport struct {
	conn net.Conn
}

func (p pipeTransport) Read(_ any, buf []byte, n int) bool {
	_, err := io.ReadFull(p.conn, buf[:n])
	return err == nil
}

func (p pipeTransport) Write(_ any, buf []byte, n int) bool {
	_, err := p.conn.Write(buf[:n])
	return err == nil
}

func main() {
	flag.Parse()

	clientConn, serverConn := net.Pipe()

	client, err := thermolink.New(thermolink.ModeClient, protocolVersion, pipeTransport{clientConn})
	if err != nil {
		log.Fatalf("client session: %v", err)
	}
	server, err := thermolink.New(thermolink.ModeServer, protocolVersion, pipeTransport{serverConn})
	if err != nil {
		log.Fatalf("server session: %v", err)
	}

	startupErrs := make(chan error, 2)
	go func() { startupErrs <- client.Startup() }()
	go func() { startupErrs <- server.Startup() }()
	for i := 0; i < 2; i++ {
		if err := <-startupErrs; err != nil {
			log.Fatalf("handshake failed: %v", err)
		}
	}
	log.Printf("Handshake complete")

	// The server simply echoes whatever the client sends it, the same
	// role the original C test harness gave its receive loop.
	go func() {
		for {
			msg, err := server.Receive()
			if err != nil {
				return
			}
			_ = msg
		}
	}()

	successes := 0
	failures := 0
	for i := 0; i < *iterations; i++ {
		injectGarbage(clientConn, *errorBytes)
		if err := client.LoopbackTest("thermolink-loopback"); err != nil {
			failures++
			continue
		}
		successes++
	}

	log.Printf("Total attempts: %d", *iterations)
	log.Printf("Recovered: %d", successes)
	log.Printf("Failed: %d", failures)
}

// injectGarbage writes n random bytes to conn ahead of the next real frame,
// simulating line noise the resync logic must step past. It writes
// synchronously, before the caller sends its next real frame, so it never
// races the real frame's own write on the same connection.
func injectGarbage(conn net.Conn, n int) {
	if n <= 0 {
		return
	}
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	_, _ = conn.Write(buf)
}
