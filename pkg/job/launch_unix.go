//go:build linux

package job

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/johanlieber/shell-plus-plus/pkg/sys"
)

// ShellContext carries the process-wide state the launch algorithm needs:
// the controlling terminal, whether the shell is interactive, and the
// shell's own process group and saved terminal modes. It is a plain struct
// threaded through Launch rather than package-level state, so a process
// hosting more than one shell instance never has them fight over globals.
type ShellContext struct {
	Terminal    *os.File
	Interactive bool
	ShellPgid   int
	ShellTmodes *sys.Termios
}

// NewShellContext detects interactivity of stdin and captures the shell's
// own process group and terminal modes.
func NewShellContext() *ShellContext {
	ctx := &ShellContext{Terminal: os.Stdin, ShellPgid: sys.Getpgrp()}
	ctx.Interactive = sys.IsATTY(os.Stdin)
	if ctx.Interactive {
		if t, err := sys.TcGetAttr(int(os.Stdin.Fd())); err == nil {
			ctx.ShellTmodes = t
		}
	}
	return ctx
}

type savedTermios = sys.Termios

// Launch wires pipes between consecutive stages, starts each stage with
// the process group and terminal handoff rules already applied by the
// kernel via SysProcAttr{Setpgid, Pgid, Foreground, Ctty} — the kernel
// performs both atomically before the child's first instruction runs,
// avoiding the setpgid/tcsetpgrp race a manual child-side dance would
// otherwise have to close — then waits for or backgrounds the job.
//
// A stage whose Process.Builtin is set runs in-process instead of being
// exec'd: its negative synthetic Pid distinguishes it from a real child in
// markProcessStatus, and builtinWG blocks Launch from handing control to
// waitForJob/putInForeground/putInBackground until every such stage has
// reported its status, since none of those will ever see a waitpid event
// for a process that was never forked.
func Launch(ctx *ShellContext, j *Job, foreground bool) error {
	n := len(j.Spec.Processes)
	if n == 0 {
		return fmt.Errorf("job: empty pipeline")
	}

	var builtinWG sync.WaitGroup
	nextBuiltinPid := -1

	infile := j.Spec.Stdin
	for i, p := range j.Spec.Processes {
		var outfile *os.File
		var pipeR *os.File
		if i != n-1 {
			r, w, err := os.Pipe()
			if err != nil {
				return fmt.Errorf("pipe: %w", err)
			}
			pipeR, outfile = r, w
		} else {
			outfile = j.Spec.Stdout
		}

		if p.Builtin != nil {
			stdin, stdout, stderr := infile, outfile, j.Spec.Stderr
			p.Pid = nextBuiltinPid
			nextBuiltinPid--
			builtinWG.Add(1)
			go func(p *Process, pid int) {
				defer builtinWG.Done()
				status := p.Builtin(p.Argv, stdin, stdout, stderr)
				closeIfOwned(stdin, j.Spec.Stdin)
				closeIfOwned(stdout, j.Spec.Stdout)
				j.markProcessStatus(pid, false, status)
			}(p, p.Pid)
			infile = pipeR
			continue
		}

		cmd := exec.Command(p.Argv[0], p.Argv[1:]...)
		cmd.Stdin = infile
		cmd.Stdout = outfile
		cmd.Stderr = j.Spec.Stderr
		cmd.SysProcAttr = &syscall.SysProcAttr{}
		if ctx.Interactive {
			cmd.SysProcAttr.Setpgid = true
			cmd.SysProcAttr.Pgid = j.pgid
			if foreground && ctx.Terminal != nil {
				cmd.SysProcAttr.Foreground = true
				cmd.SysProcAttr.Ctty = int(ctx.Terminal.Fd())
			}
		}

		if err := cmd.Start(); err != nil {
			closeIfOwned(infile, j.Spec.Stdin)
			closeIfOwned(outfile, j.Spec.Stdout)
			if pipeR != nil {
				pipeR.Close()
			}
			return fmt.Errorf("%s: %w", p.Argv[0], err)
		}
		p.Pid = cmd.Process.Pid
		if ctx.Interactive && j.pgid == 0 {
			j.pgid = p.Pid
		}

		closeIfOwned(infile, j.Spec.Stdin)
		closeIfOwned(outfile, j.Spec.Stdout)
		infile = pipeR
	}

	builtinWG.Wait()

	if ctx.Interactive && j.pgid == 0 {
		// A job made up entirely of builtins never forked a child to seed
		// j.pgid from, since a builtin runs inside the shell's own process.
		// Its process group is the shell's own.
		j.pgid = ctx.ShellPgid
	}

	if !ctx.Interactive {
		return waitForJob(j)
	}
	if foreground {
		return putInForeground(ctx, j, false)
	}
	return putInBackground(ctx, j, false)
}

func closeIfOwned(f, boundary *os.File) {
	if f != nil && f != boundary {
		f.Close()
	}
}

// waitForJob repeatedly waits on any child until every process in the job
// is stopped or completed. Builtin stages never reach Wait4, since they
// report their own status directly into markProcessStatus before this
// loop ever sees them; a job made up only of builtins simply has no
// children to wait on, so ECHILD ends the loop immediately.
func waitForJob(j *Job) error {
	for {
		var ws syscall.WaitStatus
		pid, err := syscall.Wait4(-1, &ws, syscall.WUNTRACED, nil)
		if err == syscall.ECHILD || pid == 0 {
			return nil
		}
		if err != nil {
			return err
		}
		j.markProcessStatus(pid, ws.Stopped(), int(ws))
		if j.IsStopped() || j.IsCompleted() {
			return nil
		}
	}
}

// putInForeground hands the controlling terminal to the job's process
// group, optionally resumes it with SIGCONT, waits for it, then reclaims
// the terminal for the shell and restores the shell's own modes.
func putInForeground(ctx *ShellContext, j *Job, cont bool) error {
	termFd := int(ctx.Terminal.Fd())
	if err := sys.Tcsetpgrp(termFd, j.pgid); err != nil {
		return err
	}
	if cont {
		if j.savedTmodes != nil {
			sys.TcSetAttr(termFd, j.savedTmodes)
		}
		syscall.Kill(-j.pgid, syscall.SIGCONT)
	}
	if err := waitForJob(j); err != nil {
		return err
	}
	sys.Tcsetpgrp(termFd, ctx.ShellPgid)
	if t, err := sys.TcGetAttr(termFd); err == nil {
		j.savedTmodes = t
	}
	if ctx.ShellTmodes != nil {
		sys.TcSetAttr(termFd, ctx.ShellTmodes)
	}
	return nil
}

// putInBackground optionally resumes a stopped job with SIGCONT and
// otherwise leaves the terminal alone, since a background job never owns
// it.
func putInBackground(ctx *ShellContext, j *Job, cont bool) error {
	if cont {
		return syscall.Kill(-j.pgid, syscall.SIGCONT)
	}
	return nil
}

// Resume continues a stopped job, in the foreground or background.
// Resuming in the foreground restores the shell's terminal modes once the
// job completes or stops again.
func Resume(ctx *ShellContext, j *Job, foreground bool) error {
	if foreground {
		return putInForeground(ctx, j, true)
	}
	return putInBackground(ctx, j, true)
}
