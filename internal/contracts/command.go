package contracts

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// commandRunner runs an external tool in dir and returns its stdout.
type commandRunner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return output, fmt.Errorf("%s %s failed: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return output, fmt.Errorf("%s %s failed: %w", name, strings.Join(args, " "), err)
	}

	return output, nil
}
