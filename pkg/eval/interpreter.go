package eval

import (
	"os"

	"github.com/johanlieber/shell-plus-plus/pkg/ast"
	"github.com/johanlieber/shell-plus-plus/pkg/job"
)

// Interpreter is the top-level driver: it owns the global symbol-table
// stack, the job-control context shared by every command expression
// evaluated against it, and the registry of native modules reachable via
// `import`.
type Interpreter struct {
	Global   *SymbolTableStack
	ShellCtx *job.ShellContext
	modules  map[string]Object
}

// NewInterpreter builds an Interpreter with builtins and native modules
// registered, and a ShellContext detected from the current process's
// controlling terminal.
func NewInterpreter() *Interpreter {
	in := &Interpreter{
		Global:   NewSymbolTableStack(),
		ShellCtx: job.NewShellContext(),
		modules:  make(map[string]Object),
	}
	registerBuiltins(in.Global)
	registerNativeModules(in)
	return in
}

// SymTableStack returns the interpreter's global scope.
func (in *Interpreter) SymTableStack() *SymbolTableStack { return in.Global }

// Exec runs prog (the root of a parsed program, normally an *ast.Block)
// against the interpreter's global scope with the given stdio, returning
// the first uncaught *Exception if any statement throws past the root.
func (in *Interpreter) Exec(name, source string, prog ast.Node, stdin, stdout, stderr *os.File) error {
	fm := &Frame{
		Exec: in, Stack: in.Global,
		Stdin: stdin, Stdout: stdout, Stderr: stderr,
		srcName: name, srcCode: source,
	}
	return NewRootExecutor(in).Run(fm, prog)
}
