// Package sys wraps the POSIX process-group and terminal primitives needed
// by the job/pipeline executor, presenting the same narrow API on every
// platform this module targets (unix).
package sys

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsATTY determines whether the given file is a terminal.
func IsATTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
