package util

import (
	"net"
	"testing"
)

func TestFindAvailablePort_SkipsBusyPort(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	busy := ln.Addr().(*net.TCPAddr).Port
	if busy >= 65535 {
		t.Skip("busy port at upper bound")
	}

	got, err := FindAvailablePort(busy, 50)
	if err != nil {
		t.Fatalf("FindAvailablePort failed: %v", err)
	}
	if got == busy {
		t.Fatalf("busy port %d returned", busy)
	}
}

func TestFindAvailablePort_NoneFree(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	busy := ln.Addr().(*net.TCPAddr).Port

	if _, err := FindAvailablePort(busy, 1); err == nil {
		t.Fatalf("expected error when the only candidate is busy")
	}
}
