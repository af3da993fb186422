package cliadapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jgivc/jncepweb/internal/common"
	"github.com/jgivc/jncepweb/internal/entity"
)

// SuccessMarker is printed by jncep on stdout when an EPUB was generated.
const SuccessMarker = "Success!"

// IsSuccess reports whether the tool output signals a generated EPUB.
func IsSuccess(stdout string) bool {
	return strings.Contains(stdout, SuccessMarker)
}

type cliAdapter struct {
	binary string
	log    *slog.Logger
}

func NewCLIAdapter(binary string, log *slog.Logger) (*cliAdapter, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("binary required")
	}

	return &cliAdapter{
		binary: binary,
		log:    log.With(slog.String("item", "CLIAdapter")),
	}, nil
}

/*
Run executes the tool with args and waits for it. Output is captured in full.
A nonzero exit code is reported in the result, not as an error; only a process
that could not be started is an error. The child is not tied to ctx cancellation.
*/
func (a *cliAdapter) Run(ctx context.Context, args []string) (*entity.CommandResult, error) {
	res := &entity.CommandResult{RunID: uuid.NewString()}
	log := a.log.With(slog.String("run_id", res.RunID), slog.String("command", args0(args)))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(context.WithoutCancel(ctx), a.binary, args...) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Info("Run external tool")
	start := time.Now()
	err := cmd.Run()
	res.Duration = time.Since(start)
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			log.Error("Cannot run external tool", slog.Any("error", err))

			return nil, fmt.Errorf("%w: cannot run %s: %w", common.ErrExternalTool, a.binary, err)
		}

		res.ExitCode = exitErr.ExitCode()
	}

	log.Info("External tool finished", slog.Int("exit_code", res.ExitCode), slog.Duration("duration", res.Duration))
	log.Debug("External tool output", slog.String("stdout", res.Stdout), slog.String("stderr", res.Stderr))

	return res, nil
}

// args0 returns the subcommand part of args for logging, never the credentials.
func args0(args []string) string {
	var parts []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			break
		}
		parts = append(parts, arg)
	}

	return strings.Join(parts, " ")
}
