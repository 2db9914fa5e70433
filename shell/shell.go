// Package shell runs external commands for the pipeline stages.
//
// Every tool wrapper takes a Runner so that stages can be exercised in tests
// with fake tool outputs instead of the real scientific binaries.
package shell

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Runner abstracts subprocess execution.
type Runner interface {
	// Run executes a command in dir, feeding stdin if non-empty, and
	// returns the combined stdout and stderr.
	Run(ctx context.Context, dir string, stdin string, name string, args ...string) ([]byte, error)

	// Output executes a command in dir and returns stdout only.
	// Stderr is folded into the error on failure.
	Output(ctx context.Context, dir string, stdin string, name string, args ...string) ([]byte, error)
}

// Exec is the Runner backed by os/exec.
type Exec struct{}

func (Exec) Run(ctx context.Context, dir string, stdin string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, errors.Wrapf(err, "%s: %s", name, strings.TrimSpace(string(out)))
	}
	return out, nil
}

func (Exec) Output(ctx context.Context, dir string, stdin string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return out, errors.Wrapf(err, "%s: %s", name, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// CopyFile copies src to dst, creating parent directories as needed.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "copy")
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return errors.Wrap(err, "copy")
	}

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "copy")
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrapf(err, "copy %s", src)
	}
	return out.Close()
}
