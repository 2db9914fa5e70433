// Package gromacs wraps the gmx cluster command to group docked poses by RMSD.
package gromacs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tikz/dock/shell"
)

// Gromacs runs the gmx executable.
type Gromacs struct {
	bin    string
	runner shell.Runner
}

// New validates the gmx executable path and returns a Gromacs.
func New(bin string, runner shell.Runner) (*Gromacs, error) {
	abs, err := filepath.Abs(bin)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); os.IsNotExist(err) {
		return nil, fmt.Errorf("GROMACS: executable %s does not exist", abs)
	}

	return &Gromacs{bin: abs, runner: runner}, nil
}

// Cluster groups the given pose PDB files by pairwise RMSD within the cutoff
// distance (nm). Files are combined into one multi-model trajectory, gmx
// cluster is run over it, and the resulting log is parsed into clusters.
//
// The input files are ordered naturally by pose index so that model numbers
// in the log map back to pose ranks.
func (g *Gromacs) Cluster(ctx context.Context, dir string, pdbFiles []string, cutoff float64, prefix string) ([]Cluster, error) {
	if len(pdbFiles) == 0 {
		return nil, fmt.Errorf("no PDB files to cluster")
	}

	files := sortByPoseIndex(pdbFiles)
	combined := prefix + "_combined.pdb"
	if err := Combine(dir, files, combined); err != nil {
		return nil, err
	}

	// Selection group 3 (C-alpha) for both fit and RMSD calculation.
	_, err := g.runner.Run(ctx, dir, "3", g.bin,
		"cluster",
		"-f", combined,
		"-s", files[0],
		"-cutoff", fmt.Sprintf("%g", cutoff))
	if err != nil {
		return nil, fmt.Errorf("gmx cluster: %v", err)
	}

	logPath := filepath.Join(dir, "cluster.log")
	raw, err := os.ReadFile(logPath)
	if err != nil {
		return nil, fmt.Errorf("gmx cluster produced no log: %v", err)
	}

	clusters, err := ParseClusterLog(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %v", logPath, err)
	}
	return clusters, nil
}

// Combine concatenates pose PDB files into a single multi-model file that
// gmx cluster accepts as a trajectory. Each pose becomes one frame, framed
// by a TITLE record carrying the frame time and an ENDMDL record.
func Combine(dir string, pdbFiles []string, outFile string) error {
	out, err := os.Create(filepath.Join(dir, outFile))
	if err != nil {
		return fmt.Errorf("combine poses: %v", err)
	}
	defer out.Close()

	for i, file := range pdbFiles {
		raw, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return fmt.Errorf("combine poses: %v", err)
		}

		fmt.Fprintf(out, "TITLE     AAA t=  %d\n", i+1)
		out.Write(raw)
		fmt.Fprintln(out, "ENDMDL")
	}

	return nil
}
