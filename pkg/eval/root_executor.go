package eval

import (
	"fmt"

	"github.com/johanlieber/shell-plus-plus/pkg/ast"
)

// RootExecutor drives a whole program: it behaves like a BlockExecutor but
// never lets BREAK/CONTINUE/RETURN escape past the program's top level, and
// turns an uncaught THROW into a printed traceback and a non-zero exit
// status.
type RootExecutor struct {
	interp     *Interpreter
	ExitStatus int
}

func NewRootExecutor(interp *Interpreter) *RootExecutor {
	return &RootExecutor{interp: interp}
}

// Run executes prog (normally an *ast.Block, the parsed program's root) and
// returns the uncaught exception, if any, after having already printed it
// to fm.Stderr.
func (re *RootExecutor) Run(fm *Frame, prog ast.Node) error {
	be := &BlockExecutor{interp: re.interp}
	outcome, err := be.ExecBlock(fm, prog)
	if err != nil {
		re.ExitStatus = 1
		fmt.Fprintln(fm.Stderr, err)
		return err
	}

	switch outcome.Flag {
	case THROW:
		re.ExitStatus = 1
		re.printUncaught(fm, outcome.Err)
		return outcome.Err
	default:
		// BREAK/CONTINUE/RETURN/GO all terminate the program cleanly at the
		// root: there is no enclosing loop or call to receive them.
		re.ExitStatus = 0
		return nil
	}
}

func (re *RootExecutor) printUncaught(fm *Frame, err error) {
	if exc, ok := err.(*Exception); ok {
		fmt.Fprint(fm.Stderr, exc.Show(""))
		return
	}
	fmt.Fprintln(fm.Stderr, err)
}
