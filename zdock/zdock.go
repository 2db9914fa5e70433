// Package zdock wraps the ZDOCK rigid-body docking tool and its companion
// scripts for surface marking and complex generation.
package zdock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tikz/dock/shell"
)

// ZDock runs the ZDOCK suite from one installation directory.
type ZDock struct {
	dir    string
	runner shell.Runner
}

// The files ZDOCK needs in its installation directory.
var requiredFiles = []string{"zdock", "mark_sur", "create.pl", "create_lig", "uniCHARMM"}

// New validates the installation directory and returns a ZDock.
func New(installDir string, runner shell.Runner) (*ZDock, error) {
	dir, err := filepath.Abs(installDir)
	if err != nil {
		return nil, err
	}

	for _, name := range requiredFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); os.IsNotExist(err) {
			return nil, fmt.Errorf("ZDOCK installation: %s not found in %s", name, dir)
		}
	}

	return &ZDock{dir: dir, runner: runner}, nil
}

// MarkSur marks the surface residues of a PDB file, producing a new PDB file.
// mark_sur reads the uniCHARMM parameter file from the working directory.
func (z *ZDock) MarkSur(ctx context.Context, dir, pdbFile, outFile string) error {
	err := shell.CopyFile(filepath.Join(z.dir, "uniCHARMM"), filepath.Join(dir, "uniCHARMM"))
	if err != nil {
		return fmt.Errorf("stage uniCHARMM: %v", err)
	}

	_, err = z.runner.Run(ctx, dir, "", filepath.Join(z.dir, "mark_sur"), pdbFile, outFile)
	if err != nil {
		return fmt.Errorf("mark_sur %s: %v", pdbFile, err)
	}
	return nil
}

// Options configures a ZDOCK run.
type Options struct {
	Receptor      string // surface-marked receptor PDB
	Ligand        string // surface-marked ligand PDB
	Output        string
	Predictions   int
	Seed          int
	DenseRotation bool // -D, dense rotational sampling
	FixReceptor   bool // -F, prevent receptor rotation
}

// Run executes the docking search, writing predictions to opts.Output.
func (z *ZDock) Run(ctx context.Context, dir string, opts Options) error {
	args := []string{
		"-R", opts.Receptor,
		"-L", opts.Ligand,
		"-o", opts.Output,
		"-N", fmt.Sprintf("%d", opts.Predictions),
		"-S", fmt.Sprintf("%d", opts.Seed),
	}
	if opts.DenseRotation {
		args = append(args, "-D")
	}
	if opts.FixReceptor {
		args = append(args, "-F")
	}

	_, err := z.runner.Run(ctx, dir, "", filepath.Join(z.dir, "zdock"), args...)
	if err != nil {
		return fmt.Errorf("zdock: %v", err)
	}
	return nil
}

// CreateComplexes builds the top n predicted complex structures from a ZDOCK
// output file, returning the generated file names (complex.1.pdb ... complex.n.pdb).
// create.pl expects the create_lig helper next to the output file.
func (z *ZDock) CreateComplexes(ctx context.Context, dir, outputFile string, n int) ([]string, error) {
	err := shell.CopyFile(filepath.Join(z.dir, "create_lig"), filepath.Join(dir, "create_lig"))
	if err != nil {
		return nil, fmt.Errorf("stage create_lig: %v", err)
	}

	_, err = z.runner.Run(ctx, dir, "", filepath.Join(z.dir, "create.pl"), outputFile, fmt.Sprintf("%d", n))
	if err != nil {
		return nil, fmt.Errorf("create.pl: %v", err)
	}

	files := make([]string, n)
	for i := 1; i <= n; i++ {
		name := ComplexFile(i)
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return nil, fmt.Errorf("create.pl did not produce %s: %v", name, err)
		}
		files[i-1] = name
	}
	return files, nil
}

// ComplexFile returns the file name create.pl gives the complex of a given rank.
func ComplexFile(rank int) string {
	return fmt.Sprintf("complex.%d.pdb", rank)
}
