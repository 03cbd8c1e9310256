package eval

import (
	"os"

	"github.com/johanlieber/shell-plus-plus/pkg/ast"
	"github.com/johanlieber/shell-plus-plus/pkg/diag"
)

// StopFlag is the closed set of evaluator control signals other than
// normal continuation: a statement either falls through, or unwinds with
// one of the flags below.
type StopFlag int

const (
	GO StopFlag = iota
	BREAK
	CONTINUE
	RETURN
	THROW
	DEFER
)

// Outcome is the tagged result every statement evaluator returns; the
// block evaluator dispatches on Flag to decide whether to keep running
// statements, unwind to a loop/function boundary, or propagate an
// exception.
type Outcome struct {
	Flag  StopFlag
	Value Object // meaningful for RETURN
	Err   error  // meaningful for THROW; always an *Exception
}

var goOutcome = Outcome{Flag: GO}

func throwOutcome(err error) Outcome { return Outcome{Flag: THROW, Err: err} }

// Frame carries everything needed to evaluate a piece of code: the owning
// Interpreter (for globals/builtins/job-control context), the current
// symbol-table stack, stdio, and source position bookkeeping for error
// reporting.
type Frame struct {
	Exec  *Interpreter
	Stack *SymbolTableStack

	Stdin, Stdout, Stderr *os.File

	srcName string
	srcCode string

	traceback *StackTrace
}

// withStack returns a shallow copy of fm using a different symbol-table
// stack, used when entering a function call or nested block.
func (fm *Frame) withStack(stack *SymbolTableStack) *Frame {
	nf := *fm
	nf.Stack = stack
	return &nf
}

// withStdio returns a shallow copy of fm with stdin/stdout/stderr
// replaced, used to run a builtin command against the pipe ends a
// pipeline stage was given rather than the frame's own stdio.
func (fm *Frame) withStdio(stdin, stdout, stderr *os.File) *Frame {
	nf := *fm
	nf.Stdin, nf.Stdout, nf.Stderr = stdin, stdout, stderr
	return &nf
}

// EvalExpr evaluates a single expression node in this frame.
func (fm *Frame) EvalExpr(n ast.Node) (Object, error) {
	return evalExpr(fm, n)
}

// errorp wraps err (if non-nil) into an *Exception carrying a stack frame
// for the given range.
func (fm *Frame) errorp(r diag.Ranger, err error) error {
	if err == nil {
		return nil
	}
	ctx := diag.NewContext(fm.srcName, fm.srcCode, r)
	return wrapException(err, ctx)
}
