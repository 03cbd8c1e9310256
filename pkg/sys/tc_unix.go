//go:build linux

package sys

import (
	"golang.org/x/sys/unix"
)

const (
	ioctlGetTermios = unix.TCGETS
	ioctlSetTermios = unix.TCSETSW
)

// Tcsetpgrp sets the foreground process group of the terminal referenced by
// fd to pgid. Used to hand the controlling terminal to a job's process
// group and to take it back for the shell.
func Tcsetpgrp(fd int, pgid int) error {
	return unix.IoctlSetInt(fd, unix.TIOCSPGRP, pgid)
}

// Tcgetpgrp returns the foreground process group of the terminal referenced
// by fd.
func Tcgetpgrp(fd int) (int, error) {
	return unix.IoctlGetInt(fd, unix.TIOCGPGRP)
}

// Termios is the saved terminal mode set, opaque to callers beyond storing
// and restoring it.
type Termios = unix.Termios

// TcGetAttr saves the current terminal attributes.
func TcGetAttr(fd int) (*Termios, error) {
	return unix.IoctlGetTermios(fd, ioctlGetTermios)
}

// TcSetAttr restores previously saved terminal attributes, draining output
// first (TCSADRAIN semantics).
func TcSetAttr(fd int, t *Termios) error {
	return unix.IoctlSetTermios(fd, ioctlSetTermios, t)
}

// Getpgrp returns the process group of the calling process.
func Getpgrp() int {
	return unix.Getpgrp()
}
