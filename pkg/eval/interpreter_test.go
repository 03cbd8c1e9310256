package eval

import (
	"bytes"
	"os"
	"testing"

	"github.com/johanlieber/shell-plus-plus/pkg/ast"
)

func TestNewInterpreterRegistersBuiltinsAndNativeModules(t *testing.T) {
	in := NewInterpreter()
	if _, err := in.Global.Lookup("print", false); err != nil {
		t.Fatalf("print should be registered as a builtin: %v", err)
	}
	if _, ok := in.modules["math"]; !ok {
		t.Fatalf("math should be registered as a native module")
	}
	if _, ok := in.modules["env"]; !ok {
		t.Fatalf("env should be registered as a native module")
	}
}

func TestExecNormalProgramReturnsNilWithZeroExitStatus(t *testing.T) {
	in := NewInterpreter()
	devNull, _ := os.Open(os.DevNull)
	defer devNull.Close()

	prog := &ast.Block{Stmts: []ast.Node{
		&ast.ReturnStmt{Value: &ast.Literal{LitKind: ast.LitInt, Value: int64(1)}},
	}}
	err := in.Exec("<test>", "", prog, devNull, os.Stdout, os.Stderr)
	if err != nil {
		t.Fatalf("a RETURN at the program root should terminate cleanly, got %v", err)
	}
}

func TestExecUncaughtThrowPrintsTracebackAndReturnsError(t *testing.T) {
	in := NewInterpreter()
	devNull, _ := os.Open(os.DevNull)
	defer devNull.Close()
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		t.Fatalf("could not open pipe: %v", err)
	}

	prog := &ast.Block{Stmts: []ast.Node{
		&ast.ThrowStmt{Value: &ast.Literal{LitKind: ast.LitString, Value: "boom"}},
	}}
	execErr := in.Exec("<test>", "", prog, devNull, os.Stdout, stderrW)
	stderrW.Close()

	var buf bytes.Buffer
	buf.ReadFrom(stderrR)

	if execErr == nil {
		t.Fatalf("an uncaught throw should return the exception as an error")
	}
	if _, ok := execErr.(*Exception); !ok {
		t.Fatalf("expected an *Exception, got %T", execErr)
	}
	if buf.Len() == 0 {
		t.Fatalf("an uncaught throw should print a traceback to stderr")
	}
}

func TestRootExecutorTreatsBreakAtTopLevelAsCleanExit(t *testing.T) {
	in := NewInterpreter()
	re := NewRootExecutor(in)
	devNull, _ := os.Open(os.DevNull)
	defer devNull.Close()
	fm := &Frame{Exec: in, Stack: in.Global, Stdin: devNull, Stdout: os.Stdout, Stderr: os.Stderr}

	prog := &ast.Block{Stmts: []ast.Node{&ast.BreakStmt{}}}
	if err := re.Run(fm, prog); err != nil {
		t.Fatalf("a BREAK with no enclosing loop should still terminate the program cleanly at the root, got %v", err)
	}
	if re.ExitStatus != 0 {
		t.Fatalf("ExitStatus = %d, want 0", re.ExitStatus)
	}
}
