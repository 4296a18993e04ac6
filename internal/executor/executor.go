package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/quocvuong92/ai-terminal/internal/logging"
)

var logger = logging.Named("executor")

// Status is the outcome of an Execute or Decline call
type Status int

const (
	// Completed means a process ran, successfully or not
	Completed Status = iota
	// RequiresConfirmation means the command was held and nothing ran
	RequiresConfirmation
	// Cancelled means the user declined and nothing ran
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "completed"
	case RequiresConfirmation:
		return "requires-confirmation"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ExecutionResult holds the outcome of a command
type ExecutionResult struct {
	Status  Status
	Command string
	Stdout  string
	Stderr  string
	// ExitErr is set when the process exited non-zero or could not start
	ExitErr  error
	ExitCode int
	Duration time.Duration

	Risk   RiskLevel
	Reason string
}

// Failed reports whether a process ran and did not succeed
func (r *ExecutionResult) Failed() bool {
	return r.Status == Completed && r.ExitErr != nil
}

// HasErrorOutput reports whether there is anything to diagnose
func (r *ExecutionResult) HasErrorOutput() bool {
	return strings.TrimSpace(r.Stderr) != "" || r.Failed()
}

// ErrorText is the text handed to a diagnosis: stderr, or the exit error
// message when stderr is empty
func (r *ExecutionResult) ErrorText() string {
	if strings.TrimSpace(r.Stderr) != "" {
		return r.Stderr
	}
	if r.ExitErr != nil {
		return r.ExitErr.Error()
	}
	return ""
}

// CommandError describes a command that exited non-zero
type CommandError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command failed with exit code %d: %s", e.ExitCode, e.Command)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// RunOutput is what a Runner captured from one process
type RunOutput struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Err is nil on a zero exit
	Err error
}

// ShellRunner runs commands through "<shell> -c"
type ShellRunner struct {
	shell string
}

// NewShellRunner builds a runner. The shell defaults to $SHELL, then /bin/sh.
func NewShellRunner(shell string) *ShellRunner {
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	return &ShellRunner{shell: shell}
}

// Shell returns the interpreter path
func (r *ShellRunner) Shell() string {
	return r.shell
}

// Run implements Runner
func (r *ShellRunner) Run(ctx context.Context, command string) RunOutput {
	c := exec.CommandContext(ctx, r.shell, "-c", command)
	// children that outlive a killed shell keep the pipes open
	c.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	out := RunOutput{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
		out.Err = &CommandError{Command: command, ExitCode: out.ExitCode, Err: err}
	default:
		out.ExitCode = -1
		out.Err = fmt.Errorf("failed to start %s: %w", r.shell, err)
	}
	return out
}

// Executor classifies commands, holds dangerous ones for confirmation and
// spawns exactly one process for every command it runs
type Executor struct {
	runner  Runner
	gate    PermissionChecker
	timeout time.Duration
}

// Option configures an Executor
type Option func(*Executor)

// WithRunner replaces the process runner
func WithRunner(r Runner) Option {
	return func(e *Executor) { e.runner = r }
}

// WithGate replaces the confirmation gate
func WithGate(g PermissionChecker) Option {
	return func(e *Executor) { e.gate = g }
}

// WithTimeout bounds every command, zero means no limit
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) { e.timeout = d }
}

// New creates an executor honouring safeMode
func New(safeMode bool, opts ...Option) *Executor {
	e := &Executor{
		runner: NewShellRunner(""),
		gate:   NewGate(safeMode),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetPermissionChecker implements CommandExecutor
func (e *Executor) GetPermissionChecker() PermissionChecker {
	return e.gate
}

// Execute implements CommandExecutor. A command the gate holds comes back
// as RequiresConfirmation until it is re-submitted with confirmed set.
func (e *Executor) Execute(ctx context.Context, command string, confirmed bool) *ExecutionResult {
	risk, needsConfirm, reason := e.gate.CheckPermission(command)
	result := &ExecutionResult{Command: command, Risk: risk, Reason: reason}

	if needsConfirm && !confirmed {
		logger.Debug("Command held for confirmation", logging.Fields{"command": command, "reason": reason})
		result.Status = RequiresConfirmation
		return result
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	logger.Debug("Executing command", logging.Fields{"command": command, "risk": risk.String()})
	start := time.Now()
	out := e.runner.Run(ctx, command)
	result.Duration = time.Since(start)

	result.Status = Completed
	result.Stdout = out.Stdout
	result.Stderr = out.Stderr
	result.ExitCode = out.ExitCode
	result.ExitErr = out.Err

	logger.Debug("Command finished", logging.Fields{
		"command":     command,
		"exit_code":   out.ExitCode,
		"duration_ms": result.Duration.Milliseconds(),
	})
	return result
}

// Decline implements CommandExecutor
func (e *Executor) Decline(command string) *ExecutionResult {
	risk, _, reason := e.gate.CheckPermission(command)
	logger.Debug("Command declined", logging.Fields{"command": command})
	return &ExecutionResult{Status: Cancelled, Command: command, Risk: risk, Reason: reason}
}
