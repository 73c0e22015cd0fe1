// Command thermolink-client runs the client end of a thermolink link over a
// physical UART, bridging decoded messages to and from Redis.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/librescoot/thermolink/pkg/bridge"
	"github.com/librescoot/thermolink/pkg/serialtransport"
	"github.com/librescoot/thermolink/pkg/thermolink"
	"github.com/librescoot/thermolink/pkg/thermolink/stdlog"
)

const protocolVersion = "1.0"

var (
	serialDevice = flag.String("serial", "/dev/ttyUSB0", "Serial device path")
	baudRate     = flag.Int("baud", 115200, "Serial baud rate")
	redisAddr    = flag.String("redis-addr", "localhost:6379", "Redis server address")
	redisPass    = flag.String("redis-pass", "", "Redis password")
	redisDB      = flag.Int("redis-db", 0, "Redis database number")
	strictVer    = flag.Bool("strict-version", false, "fail startup on a protocol version mismatch instead of logging it")
)

func main() {
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Printf("Starting thermolink client")
	log.Printf("Serial device: %s", *serialDevice)
	log.Printf("Baud rate: %d", *baudRate)
	log.Printf("Redis address: %s", *redisAddr)

	redisClient, err := bridge.NewClient(*redisAddr, *redisPass, *redisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Printf("Connected to Redis")

	port, err := serialtransport.Open(*serialDevice, *baudRate)
	if err != nil {
		log.Fatalf("Failed to open serial port: %v", err)
	}
	defer port.Close()
	log.Printf("Serial port open")

	opts := []thermolink.Option{
		thermolink.WithLogger(stdlog.New(nil)),
		thermolink.WithConnectNotifier(thermolink.ConnectFunc(func(_ any, remoteMode thermolink.OperatingMode, remoteVersion string) {
			log.Printf("Peer connected: mode=%s version=%s", remoteMode, remoteVersion)
		})),
	}
	if *strictVer {
		opts = append(opts, thermolink.WithFailOnVersionMismatch())
	}

	session, err := thermolink.New(thermolink.ModeClient, protocolVersion, port, opts...)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	defer session.Close()

	log.Printf("Starting handshake...")
	if err := session.Startup(); err != nil {
		log.Fatalf("Handshake failed: %v", err)
	}
	log.Printf("Handshake complete")

	br := bridge.New(session, redisClient)
	stopOutbound := br.RunOutbound()
	defer stopOutbound()

	go func() {
		if err := br.RunInbound(); err != nil {
			log.Fatalf("Link closed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("Shutting down...")
}
