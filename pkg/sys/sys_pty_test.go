//go:build linux

package sys

import (
	"os"
	"testing"

	"github.com/creack/pty"
)

// These exercise the terminal primitives against a real pseudo-terminal:
// IsATTY, TcGetAttr and TcSetAttr only do anything meaningful given an
// actual tty device, which go test's own stdio isn't guaranteed to be.

func TestIsATTYTrueForPtySlave(t *testing.T) {
	ptyMaster, ptySlave, err := pty.Open()
	if err != nil {
		t.Fatalf("could not open pty: %v", err)
	}
	defer ptyMaster.Close()
	defer ptySlave.Close()

	if !IsATTY(ptySlave) {
		t.Fatalf("a pty slave should be reported as a terminal")
	}
}

func TestIsATTYFalseForRegularFile(t *testing.T) {
	f, err := os.CreateTemp("", "sys-test-*")
	if err != nil {
		t.Fatalf("could not create temp file: %v", err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if IsATTY(f) {
		t.Fatalf("a regular file should not be reported as a terminal")
	}
}

func TestTcGetAttrTcSetAttrRoundTrip(t *testing.T) {
	ptyMaster, ptySlave, err := pty.Open()
	if err != nil {
		t.Fatalf("could not open pty: %v", err)
	}
	defer ptyMaster.Close()
	defer ptySlave.Close()

	attrs, err := TcGetAttr(int(ptySlave.Fd()))
	if err != nil {
		t.Fatalf("unexpected error reading terminal attributes: %v", err)
	}
	if err := TcSetAttr(int(ptySlave.Fd()), attrs); err != nil {
		t.Fatalf("unexpected error restoring terminal attributes: %v", err)
	}
}
