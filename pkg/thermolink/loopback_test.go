package thermolink

import "testing"

func TestLoopbackTestEchoedByPeerReceiveLoop(t *testing.T) {
	client, server, closeAll := newSessionPair(t)
	defer closeAll()

	errs := make(chan error, 2)
	go func() { errs <- client.Startup() }()
	go func() { errs <- server.Startup() }()
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("Startup: %v", err)
		}
	}

	go func() {
		for {
			if _, err := server.Receive(); err != nil {
				return
			}
		}
	}()

	if err := client.LoopbackTest("hello thermolink"); err != nil {
		t.Fatalf("LoopbackTest: %v", err)
	}
}

func TestLoopbackTestRejectsEmptyData(t *testing.T) {
	client, _, closeAll := newSessionPair(t)
	defer closeAll()

	if err := client.LoopbackTest(""); err == nil {
		t.Fatal("expected empty loopback data to be rejected")
	}
}

func TestLoopbackTestRejectsOversizedData(t *testing.T) {
	client, _, closeAll := newSessionPair(t)
	defer closeAll()

	oversized := make([]byte, maxLoopbackData+1)
	for i := range oversized {
		oversized[i] = 'a'
	}
	if err := client.LoopbackTest(string(oversized)); err == nil {
		t.Fatal("expected oversized loopback data to be rejected")
	}
}
