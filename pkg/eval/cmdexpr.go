package eval

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/johanlieber/shell-plus-plus/pkg/ast"
	"github.com/johanlieber/shell-plus-plus/pkg/job"
)

// evalCmdExpression evaluates a single command invocation: it expands argv
// and redirections, launches one job.Process through the job package, and
// returns a CMD object.
func evalCmdExpression(fm *Frame, n *ast.CmdExpression) (Object, error) {
	return runPipeline(fm, []*ast.CmdExpression{n}, n.Background)
}

// evalCmdPipeSequence evaluates an N-stage pipeline, building one
// job.Process per stage.
func evalCmdPipeSequence(fm *Frame, n *ast.CmdPipeSequence) (Object, error) {
	return runPipeline(fm, n.Stages, n.Background)
}

func runPipeline(fm *Frame, stages []*ast.CmdExpression, background bool) (Object, error) {
	spec := &job.Spec{Stdin: fm.Stdin, Stdout: fm.Stdout, Stderr: fm.Stderr, Background: background}

	captureOut := len(stages) > 0 && stages[len(stages)-1].CaptureOut
	var pipeR, pipeW *os.File
	if captureOut {
		r, w, err := os.Pipe()
		if err != nil {
			return nil, NewRuntimeError(INVALID_COMMAND, "cannot open capture pipe: %v", err)
		}
		pipeR, pipeW = r, w
		spec.Stdout = pipeW
	}

	openedFiles := make([]*os.File, 0, len(stages))
	closeOpened := func() {
		for _, f := range openedFiles {
			f.Close()
		}
	}

	for i, stage := range stages {
		argv, err := buildArgv(fm, stage.Args)
		if err != nil {
			closeOpened()
			return nil, err
		}
		if len(argv) == 0 {
			closeOpened()
			return nil, NewRuntimeError(INVALID_COMMAND, "empty command")
		}
		p := &job.Process{Argv: argv}
		if entry, err := fm.Stack.Lookup(argv[0], false); err == nil {
			if callable, ok := entry.Object.(Callable); ok {
				p.Builtin = builtinDispatch(fm, callable)
			}
		}
		spec.Processes = append(spec.Processes, p)

		isLast := i == len(stages)-1
		for _, r := range stage.Redirs {
			f, err := openRedirect(fm, r)
			if err != nil {
				closeOpened()
				return nil, err
			}
			openedFiles = append(openedFiles, f)
			switch r.RKind {
			case ast.RedirInputFile:
				if i == 0 {
					spec.Stdin = f
				}
			case ast.RedirOutputFile, ast.RedirOutputAppend:
				if isLast {
					spec.Stdout = f
				}
			case ast.RedirErrorFile, ast.RedirErrorAppend:
				spec.Stderr = f
			}
		}
	}

	j := job.NewJob(spec)
	ctx := fm.Exec.ShellCtx

	var captured []byte
	done := make(chan struct{})
	if captureOut {
		go func() {
			captured, _ = io.ReadAll(pipeR)
			close(done)
		}()
	}

	logger.Printf("launching pipeline of %d stage(s), background=%v", len(spec.Processes), background)
	launchErr := job.Launch(ctx, j, !background)
	closeOpened()

	if captureOut {
		pipeW.Close()
		<-done
		pipeR.Close()
	}

	if launchErr != nil {
		return nil, NewRuntimeError(INVALID_COMMAND, "%v", launchErr)
	}

	if captureOut {
		return NewCapturedCmdObject(j.Status(), string(captured)), nil
	}
	return NewCmdObject(j.Status()), nil
}

// builtinDispatch adapts a Callable resolved from the interpreter's own
// bindings -- a native builtin or a declared `fn` -- into a job.BuiltinFunc,
// so a pipeline stage whose argv[0] names one runs in-process instead of
// being handed to exec.Command. Bindings are looked up before the
// external-command fallback, so a script's own `fn ls() {...}` shadows the
// system `ls` the same way a shell's own builtins take precedence over
// $PATH.
func builtinDispatch(fm *Frame, callable Callable) job.BuiltinFunc {
	return func(argv []string, stdin, stdout, stderr *os.File) int {
		subFm := fm.withStdio(stdin, stdout, stderr)
		args := make([]Object, len(argv)-1)
		for i, a := range argv[1:] {
			args[i] = NewString(a)
		}
		result, err := callable.Call(subFm, args, nil)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if status, ok := result.(*IntObject); ok {
			return int(status.Value)
		}
		return 0
	}
}

// buildArgv expands each CmdArg's parts (literal fragments and interpolated
// sub-expressions) into a single argv string.
func buildArgv(fm *Frame, args []ast.CmdArg) ([]string, error) {
	argv := make([]string, len(args))
	for i, arg := range args {
		var sb strings.Builder
		for _, part := range arg.Parts {
			v, err := fm.EvalExpr(part)
			if err != nil {
				return nil, err
			}
			s, err := toStr(fm, v)
			if err != nil {
				return nil, err
			}
			sb.WriteString(s.(*StringObject).Value)
		}
		argv[i] = sb.String()
	}
	return argv, nil
}

func openRedirect(fm *Frame, r ast.Redirection) (*os.File, error) {
	pathObj, err := fm.EvalExpr(r.Path)
	if err != nil {
		return nil, err
	}
	pathStr, err := toStr(fm, pathObj)
	if err != nil {
		return nil, err
	}
	path := pathStr.(*StringObject).Value

	var flags int
	var perm os.FileMode = 0644
	switch r.RKind {
	case ast.RedirInputFile:
		flags = os.O_RDONLY
	case ast.RedirOutputFile:
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case ast.RedirOutputAppend, ast.RedirErrorAppend:
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	case ast.RedirErrorFile:
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, perm)
	if err != nil {
		return nil, NewRuntimeError(INVALID_COMMAND, "cannot open %s: %v", path, err)
	}
	return f, nil
}
