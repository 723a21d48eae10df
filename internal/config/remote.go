package config

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// commandRunner executes a command and returns its stdout. Swapped out in
// tests.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// remoteReader fetches catalog documents that live on a network share the
// local filesystem cannot reach directly. The share host exposes them
// through the host machine's PowerShell, so the path is converted to UNC
// form and read with one bounded Get-Content call.
type remoteReader struct {
	logger  *slog.Logger
	host    string
	timeout time.Duration
	run     commandRunner
}

func newRemoteReader(logger *slog.Logger) *remoteReader {
	return &remoteReader{
		logger:  logger,
		host:    DefaultRemoteHost,
		timeout: DefaultRemoteTimeout,
		run:     runCommand,
	}
}

// matches reports whether path points at the share host.
func (r *remoteReader) matches(path string) bool {
	return strings.Contains(path, r.host)
}

func (r *remoteReader) read(path string) ([]byte, error) {
	winPath := windowsPath(path)
	r.logger.Info("reading config via host shell", "path", winPath)

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	out, err := r.run(ctx, "powershell.exe", "-c",
		fmt.Sprintf("Get-Content \"%s\" -Raw", winPath))
	if err != nil {
		return nil, fmt.Errorf("host shell read: %w", err)
	}
	return bytes.TrimSpace(out), nil
}

// windowsPath converts a WSL-style share path to the UNC form the host
// shell understands. Paths in neither form pass through unchanged.
func windowsPath(path string) string {
	switch {
	case strings.HasPrefix(path, "//"):
		p := strings.ReplaceAll(path, "//", `\\`)
		return strings.ReplaceAll(p, "/", `\`)
	case strings.HasPrefix(path, "/mnt/"):
		p := strings.ReplaceAll(path, "/mnt/", `\\`)
		return strings.ReplaceAll(p, "/", `\`)
	default:
		return path
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
