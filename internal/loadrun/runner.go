package loadrun

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
)

// cancelSignal is the forceful termination signal Cancel delivers. There is
// no graceful handshake or drain period at the worker boundary; exit
// classification compares the worker's terminating signal against this same
// signal.
const cancelSignal = syscall.SIGKILL

// Runner spawns load-generation workers.
type Runner interface {
	// Start launches a worker for key with the serialized options payload.
	Start(key string, payload []byte) (Worker, error)
}

// Worker is a handle on a spawned load-generation worker.
type Worker interface {
	// Wait blocks until the worker exits and returns its outcome.
	Wait() Exit
	// Kill delivers the forceful termination signal.
	Kill() error
}

// Exit describes how a worker ended.
type Exit struct {
	Code   int
	Killed bool // terminated by the orchestrator's cancellation signal
	Stdout string
	Stderr string
}

// ExecRunner runs workers as child processes of the configured command, with
// the options payload appended as the final argument.
type ExecRunner struct {
	Command []string
}

var _ Runner = (*ExecRunner)(nil)

func (r *ExecRunner) Start(key string, payload []byte) (Worker, error) {
	if len(r.Command) == 0 {
		return nil, errors.New("loadrun: no worker command configured")
	}

	args := append(append([]string{}, r.Command[1:]...), string(payload))
	w := &execWorker{cmd: exec.Command(r.Command[0], args...)}
	w.cmd.Stdout = &w.stdout
	w.cmd.Stderr = &w.stderr

	if err := w.cmd.Start(); err != nil {
		return nil, fmt.Errorf("loadrun: start worker for %s: %w", key, err)
	}
	return w, nil
}

type execWorker struct {
	cmd    *exec.Cmd
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func (w *execWorker) Wait() Exit {
	err := w.cmd.Wait()
	exit := Exit{
		Stdout: w.stdout.String(),
		Stderr: w.stderr.String(),
	}
	if err == nil {
		return exit
	}

	exit.Code = -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exit.Code = exitErr.ExitCode()
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			exit.Killed = ws.Signaled() && ws.Signal() == cancelSignal
		}
	}
	return exit
}

func (w *execWorker) Kill() error {
	return w.cmd.Process.Signal(cancelSignal)
}
