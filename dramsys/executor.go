package dramsys

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// Executor runs an external program to completion and returns its captured output.
// A non-nil error means the program could not be started or exited non-zero.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// processWaitDelay bounds how long Execute waits for output pipes after the process is killed.
const processWaitDelay = 5 * time.Second

// ProcessExecutor runs programs with os/exec. The process is killed when ctx is done.
type ProcessExecutor struct{}

// Execute implements Executor.
func (ProcessExecutor) Execute(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = processWaitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
