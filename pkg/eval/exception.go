package eval

import (
	"bytes"
	"fmt"

	"github.com/johanlieber/shell-plus-plus/pkg/diag"
)

// Exception wraps a Reason error (typically a *RuntimeError) together with
// the stack trace accumulated as the THROW stop flag propagates outward.
// It is itself an error so it can flow through ordinary Go error-handling
// as well as the evaluator's stop-flag machinery.
type Exception struct {
	Reason     error
	StackTrace *StackTrace
}

// StackTrace is a linked list of diag.Context frames, head being the
// innermost.
type StackTrace struct {
	Head *diag.Context
	Next *StackTrace
}

func (exc *Exception) Error() string {
	if exc.StackTrace != nil && exc.StackTrace.Head != nil {
		return fmt.Sprintf("%s (%s)", exc.Reason, exc.StackTrace.Head)
	}
	return exc.Reason.Error()
}

// Unwrap exposes Reason to errors.Is/errors.As.
func (exc *Exception) Unwrap() error { return exc.Reason }

// Show renders a multi-line traceback, most recent call first.
func (exc *Exception) Show(indent string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s%s\n", indent, exc.Reason)
	for st := exc.StackTrace; st != nil; st = st.Next {
		if st.Head != nil {
			fmt.Fprintf(&buf, "%s  at %s\n", indent, st.Head)
		}
	}
	return buf.String()
}

// wrapException ensures err is an *Exception, adding a traceback frame for
// the given range if it already is one. A nil error is passed through.
func wrapException(err error, ctx *diag.Context) error {
	switch e := err.(type) {
	case nil:
		return nil
	case *Exception:
		return &Exception{e.Reason, &StackTrace{Head: ctx, Next: e.StackTrace}}
	default:
		return &Exception{e, &StackTrace{Head: ctx}}
	}
}
