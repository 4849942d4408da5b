package cli

import (
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrEditorNotConfigured is returned if no editor command was supplied.
	ErrEditorNotConfigured = errors.New("no editor configured; please set $EDITOR to your preferred editor")
	// ErrEditorFailed is returned if the editor couldn't be started or exited unsuccessfully.
	ErrEditorFailed = errors.New("editor failed")
)

// ExecEditor opens files by running an external command, such as the one named by $EDITOR.
type ExecEditor struct {
	logger  *zap.Logger
	command string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewExecEditor creates an editor for the supplied command line. The command may carry
// arguments ("code -w"); the file path is appended to them.
func NewExecEditor(logger *zap.Logger, command string, stdin io.Reader, stdout io.Writer, stderr io.Writer) *ExecEditor {
	return &ExecEditor{
		logger:  logger,
		command: command,
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
	}
}

// Edit runs the editor on path and waits for it to exit.
func (e *ExecEditor) Edit(ctx context.Context, path string) error {
	parts := strings.Fields(e.command)
	if len(parts) == 0 {
		return ErrEditorNotConfigured
	}

	cmd := exec.CommandContext(ctx, parts[0], append(parts[1:], path)...)
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	e.logger.Debug("starting editor",
		zap.String("editor", parts[0]),
		zap.String("path", path),
	)
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(ErrEditorFailed, "%s: %v", parts[0], err)
	}
	return nil
}
