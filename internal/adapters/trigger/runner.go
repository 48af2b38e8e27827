package trigger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Runner starts one scheduler run and reports its exit code
type Runner interface {
	Run(ctx context.Context, stdout, stderr io.Writer) (int, error)
}

// CommandRunner runs the scheduler as a subprocess
type CommandRunner struct {
	Command []string
	Dir     string
}

// Run starts the command and waits for it. A non-zero exit is not an
// error; err is only set when the process could not be run.
func (r *CommandRunner) Run(ctx context.Context, stdout, stderr io.Writer) (int, error) {
	if len(r.Command) == 0 {
		return -1, errors.New("no scheduler command configured")
	}
	cmd := exec.CommandContext(ctx, r.Command[0], r.Command[1:]...)
	cmd.Dir = r.Dir
	cmd.Env = os.Environ()
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, fmt.Errorf("failed to run %s: %w", r.Command[0], err)
	}
	return 0, nil
}
