package eval

import (
	"os"
	"testing"

	"github.com/johanlieber/shell-plus-plus/pkg/ast"
)

// cmdExprFrame builds a Frame with real stdio files (stdin from /dev/null,
// the test's own stdout/stderr), suitable for actually
// launching external processes: the job/pipeline executor talks to real
// POSIX process control, so exercising it means starting real processes,
// not mocking os/exec.
func cmdExprFrame(t *testing.T) (*Frame, *os.File, func()) {
	t.Helper()
	devNull, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatalf("could not open %s: %v", os.DevNull, err)
	}
	return &Frame{
		Exec:   NewInterpreter(),
		Stack:  NewSymbolTableStack(),
		Stdin:  devNull,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}, devNull, func() { devNull.Close() }
}

func cmdArg(s string) ast.CmdArg {
	return ast.CmdArg{Parts: []ast.Node{&ast.Literal{LitKind: ast.LitString, Value: s}}}
}

func TestRunPipelineCapturesOutput(t *testing.T) {
	fm, _, cleanup := cmdExprFrame(t)
	defer cleanup()

	cmdNode := &ast.CmdExpression{
		Args:       []ast.CmdArg{cmdArg("echo"), cmdArg("hello")},
		CaptureOut: true,
	}

	res, err := evalCmdExpression(fm, cmdNode)
	if err != nil {
		t.Fatalf("unexpected error launching echo: %v", err)
	}
	cmd, ok := res.(*CmdObject)
	if !ok {
		t.Fatalf("expected a *CmdObject, got %T", res)
	}
	if cmd.output != "hello\n" {
		t.Fatalf("captured output = %q, want %q", cmd.output, "hello\n")
	}
	if cmd.Status() != 0 {
		t.Fatalf("status = %d, want 0", cmd.Status())
	}
}

func TestRunPipelineTwoStages(t *testing.T) {
	fm, _, cleanup := cmdExprFrame(t)
	defer cleanup()

	pipe := &ast.CmdPipeSequence{
		Stages: []*ast.CmdExpression{
			{Args: []ast.CmdArg{cmdArg("echo"), cmdArg("piped")}},
			{Args: []ast.CmdArg{cmdArg("cat")}, CaptureOut: true},
		},
	}

	res, err := evalCmdPipeSequence(fm, pipe)
	if err != nil {
		t.Fatalf("unexpected error running pipeline: %v", err)
	}
	cmd := res.(*CmdObject)
	if cmd.output != "piped\n" {
		t.Fatalf("captured output = %q, want %q", cmd.output, "piped\n")
	}
}

func TestRunPipelineNonzeroExitStatus(t *testing.T) {
	fm, _, cleanup := cmdExprFrame(t)
	defer cleanup()

	cmdNode := &ast.CmdExpression{
		Args: []ast.CmdArg{cmdArg("sh"), cmdArg("-c"), cmdArg("exit 3")},
	}
	res, err := evalCmdExpression(fm, cmdNode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cmd := res.(*CmdObject)
	if cmd.Status() == 0 {
		t.Fatalf("expected a nonzero aggregate status for `exit 3`")
	}
}

func TestCmdObjectLinesSplitsCapturedOutput(t *testing.T) {
	cmd := NewCapturedCmdObject(0, "a\nb\nc\n")
	lines := cmd.Lines()
	want := []string{"a", "b", "c"}
	if len(lines) != len(want) {
		t.Fatalf("Lines() = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("Lines() = %v, want %v", lines, want)
		}
	}
}

func TestCmdObjectIterDrainsViaMaterializeIterable(t *testing.T) {
	cmd := NewCapturedCmdObject(0, "x\ny\n")
	elems, err := materializeIterable(&Frame{}, cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elems) != 2 || elems[0].(*StringObject).Value != "x" || elems[1].(*StringObject).Value != "y" {
		t.Fatalf("unexpected drained elements: %v", elems)
	}
}

func TestRunPipelineDispatchesDeclaredFunctionAsBuiltinInsteadOfExec(t *testing.T) {
	fm, _, cleanup := cmdExprFrame(t)
	defer cleanup()

	var gotArgv []string
	fn := NewNativeFunc("greet", func(_ *Frame, args []Object, _ map[string]Object) (Object, error) {
		gotArgv = make([]string, len(args))
		for i, a := range args {
			gotArgv[i] = a.(*StringObject).Value
		}
		return NewInt(7), nil
	})
	fm.Stack.Top().Insert("greet", fn, false)

	cmdNode := &ast.CmdExpression{
		Args: []ast.CmdArg{cmdArg("greet"), cmdArg("world")},
	}
	res, err := evalCmdExpression(fm, cmdNode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cmd := res.(*CmdObject)
	if cmd.Status() != 7 {
		t.Fatalf("status = %d, want 7 (the builtin's returned int)", cmd.Status())
	}
	if len(gotArgv) != 1 || gotArgv[0] != "world" {
		t.Fatalf("builtin received argv %v, want [world]", gotArgv)
	}
}

func TestRunPipelinePrefersBuiltinOverExternalCommandOfSameName(t *testing.T) {
	fm, _, cleanup := cmdExprFrame(t)
	defer cleanup()

	called := false
	fn := NewNativeFunc("echo", func(_ *Frame, args []Object, _ map[string]Object) (Object, error) {
		called = true
		return NewNull(), nil
	})
	fm.Stack.Top().Insert("echo", fn, false)

	cmdNode := &ast.CmdExpression{
		Args:       []ast.CmdArg{cmdArg("echo"), cmdArg("hello")},
		CaptureOut: true,
	}
	res, err := evalCmdExpression(fm, cmdNode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("expected the bound `echo` function to shadow the external command")
	}
	cmd := res.(*CmdObject)
	if cmd.output != "" {
		t.Fatalf("builtin echo wrote nothing to its stdout pipe, so captured output should be empty, got %q", cmd.output)
	}
}

func TestBuildArgvConcatenatesParts(t *testing.T) {
	fm, _, cleanup := cmdExprFrame(t)
	defer cleanup()

	args := []ast.CmdArg{{
		Parts: []ast.Node{
			&ast.Literal{LitKind: ast.LitString, Value: "pre-"},
			&ast.Literal{LitKind: ast.LitString, Value: "fix"},
		},
	}}
	argv, err := buildArgv(fm, args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(argv) != 1 || argv[0] != "pre-fix" {
		t.Fatalf("argv = %v, want [%q]", argv, "pre-fix")
	}
}
