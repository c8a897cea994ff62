package delegate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"freqshift/internal/logging"
	"freqshift/internal/services"
)

// ErrProcess matches every *ProcessError.
var ErrProcess = errors.New("external process failed")

// Transcoder converts inputPath into outputPath. The output extension
// selects the target format.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, outputPath string) error
}

// Executor runs binary with args and returns its captured output streams.
// A non-zero exit is reported through an error implementing ExitCode() int.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (stdout, stderr []byte, err error)
}

// commandExecutor executes commands using os/exec.
type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// ProcessError describes a delegate that exited non-zero or could not start.
type ProcessError struct {
	Tool string
	Args []string
	// ExitCode is -1 when the process never ran.
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	var b strings.Builder
	if e.ExitCode < 0 {
		fmt.Fprintf(&b, "%s could not be launched", e.Tool)
	} else {
		fmt.Fprintf(&b, "%s exited with code %d", e.Tool, e.ExitCode)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		b.WriteString(": ")
		b.WriteString(stderr)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ProcessError) Unwrap() error { return e.Err }

// Is reports ErrProcess as a match.
func (e *ProcessError) Is(target error) bool { return target == ErrProcess }

type exitCoder interface {
	ExitCode() int
}

func newProcessError(tool string, args []string, stderr []byte, err error) *ProcessError {
	code := -1
	var coder exitCoder
	if errors.As(err, &coder) {
		code = coder.ExitCode()
	}
	return &ProcessError{
		Tool:     tool,
		Args:     append([]string(nil), args...),
		ExitCode: code,
		Stderr:   string(stderr),
		Err:      err,
	}
}

// runner is the process plumbing shared by every tool client.
type runner struct {
	tool   string
	binary string
	exec   Executor
	logger *slog.Logger
}

// Option configures a tool client.
type Option func(*runner)

// WithExecutor injects a custom executor, primarily for tests.
func WithExecutor(exec Executor) Option {
	return func(r *runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithBinary overrides the executable name or path.
func WithBinary(binary string) Option {
	return func(r *runner) {
		if binary = strings.TrimSpace(binary); binary != "" {
			r.binary = binary
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func newRunner(tool, binary string, opts []Option) runner {
	r := runner{
		tool:   tool,
		binary: binary,
		exec:   commandExecutor{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "delegate")
	return r
}

// Binary returns the configured executable.
func (r runner) Binary() string { return r.binary }

func (r runner) run(ctx context.Context, args []string) ([]byte, error) {
	ctx = services.WithStage(ctx, r.tool)
	logger := logging.WithContext(ctx, r.logger)
	logger.Debug("running delegate",
		logging.Args(logging.String("binary", r.binary), logging.String("args", strings.Join(args, " ")))...)

	stdout, stderr, err := r.exec.Run(ctx, r.binary, args)
	if err == nil {
		return stdout, nil
	}
	perr := newProcessError(r.tool, args, stderr, err)
	logging.ErrorWithContext(logger, "delegate failed", "delegate_failed",
		logging.Int("exit_code", perr.ExitCode),
		logging.String(logging.FieldErrorHint, "verify the "+r.tool+" binary is installed and supports this input"),
		logging.Error(err),
	)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, services.Wrap(services.ErrTimeout, r.tool, "run", ctxErr.Error(), perr)
	}
	return nil, perr
}

func requirePaths(tool string, paths ...string) error {
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			return services.Wrap(services.ErrValidation, tool, "transcode", "empty path", nil)
		}
	}
	return nil
}
