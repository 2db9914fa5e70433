// Package haddock wraps the HADDOCK refinement suite: restraint generation,
// the refinement run itself, and parsing of the per-cluster energy outputs.
package haddock

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tikz/dock/shell"
)

// Haddock runs HADDOCK and its companion tools.
type Haddock struct {
	dir           string // HADDOCK installation
	restraintsDir string // directory holding the haddock-restraints binary
	toolsDir      string // HADDOCKTOOLS directory with ana_clusters.csh
	runner        shell.Runner
}

// New validates the installation directories and returns a Haddock.
func New(installDir, restraintsDir, toolsDir string, runner shell.Runner) (*Haddock, error) {
	h := &Haddock{runner: runner}

	var err error
	if h.dir, err = filepath.Abs(installDir); err != nil {
		return nil, err
	}
	if h.restraintsDir, err = filepath.Abs(restraintsDir); err != nil {
		return nil, err
	}
	if h.toolsDir, err = filepath.Abs(toolsDir); err != nil {
		return nil, err
	}

	for _, dir := range []string{h.dir, h.restraintsDir, h.toolsDir} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return nil, fmt.Errorf("HADDOCK installation: %s does not exist", dir)
		}
	}

	return h, nil
}

// Run executes the refinement in the given project directory.
//
// HADDOCK's run script is invoked twice: the first call reads run.param and
// sets up the run<N> directory, the second call inside run<N> performs the
// actual docking protocol.
func (h *Haddock) Run(ctx context.Context, dir string) error {
	runNumber, err := runNumberFromParams(filepath.Join(dir, "run.param"))
	if err != nil {
		return err
	}

	script := filepath.Join(h.dir, "haddock", "run_haddock.py")

	if _, err := h.runner.Run(ctx, dir, "", "python", script); err != nil {
		return fmt.Errorf("haddock setup: %v", err)
	}

	runDir := filepath.Join(dir, "run"+runNumber)
	if _, err := h.runner.Run(ctx, runDir, "", "python", script); err != nil {
		return fmt.Errorf("haddock run: %v", err)
	}

	return nil
}

// runNumberFromParams reads the RUN_NUMBER value back from a run.param file.
func runNumberFromParams(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("read run.param: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "RUN_NUMBER") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			break
		}
		number := strings.TrimSpace(parts[1])
		if number == "" {
			break
		}
		return number, nil
	}

	return "", fmt.Errorf("%s: RUN_NUMBER not found", path)
}

// WaterDir returns the water refinement output directory for a run,
// where the cluster analysis files are produced.
func WaterDir(projectDir string, runNumber int) string {
	return filepath.Join(projectDir, fmt.Sprintf("run%d", runNumber), "structures", "it1", "water")
}
