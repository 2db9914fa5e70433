// Package pipeline sequences the docking stages: ZDOCK rigid-body search,
// RMSD clustering of the candidate poses, interface extraction on each
// cluster representative, HADDOCK refinement per cluster, and aggregation of
// the refined energies into one ranked table.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/tikz/dock/config"
	"github.com/tikz/dock/gromacs"
	"github.com/tikz/dock/haddock"
	"github.com/tikz/dock/interaction"
	"github.com/tikz/dock/pdb"
	"github.com/tikz/dock/rank"
	"github.com/tikz/dock/shell"
	"github.com/tikz/dock/zdock"
)

// Pipeline runs the docking protocol with a fixed configuration.
type Pipeline struct {
	cfg      *config.Config
	zdock    *zdock.ZDock
	gromacs  *gromacs.Gromacs
	haddock  *haddock.Haddock
	tieBreak rank.TieBreak

	runID  string
	logger *log.Logger
}

// New validates the tool installations from the configuration and returns a
// ready pipeline. Nothing is executed yet.
func New(cfg *config.Config, runner shell.Runner) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	z, err := zdock.New(cfg.ZDockDir, runner)
	if err != nil {
		return nil, err
	}

	g, err := gromacs.New(cfg.GromacsBin, runner)
	if err != nil {
		return nil, err
	}

	h, err := haddock.New(cfg.HaddockDir, cfg.HaddockRestraints, cfg.HaddockTools, runner)
	if err != nil {
		return nil, err
	}

	tieBreak, err := rank.ParseTieBreak(cfg.TieBreak)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	return &Pipeline{
		cfg:      cfg,
		zdock:    z,
		gromacs:  g,
		haddock:  h,
		tieBreak: tieBreak,
		runID:    runID,
		logger:   log.New(os.Stderr, "dock ["+runID[:8]+"] ", log.LstdFlags),
	}, nil
}

// ClusterResult is the outcome of refining one cluster. A failed cluster
// carries its error here instead of aborting the run.
type ClusterResult struct {
	Cluster        gromacs.Cluster
	Interface      interaction.Set
	Rows           []rank.Row
	Representative rank.Row
	Err            error
}

// Report is the final outcome of a pipeline run.
type Report struct {
	RunID     string
	Seed      int
	Clusters  []ClusterResult // every processed cluster, failed ones included
	Ranked    []rank.Row      // merged cluster representatives, best first
	TablePath string          // combined result CSV
}

// Failed returns the cluster results that ended in an error.
func (r *Report) Failed() []ClusterResult {
	var failed []ClusterResult
	for _, c := range r.Clusters {
		if c.Err != nil {
			failed = append(failed, c)
		}
	}
	return failed
}

// Run executes the full pipeline on a receptor and ligand PDB file.
//
// Refinement failures of single clusters are recorded in the report; the run
// only errors out if every cluster fails, or on configuration, input and
// docking-stage errors.
func (p *Pipeline) Run(ctx context.Context, receptorPDB, ligandPDB string) (*Report, error) {
	dockingDir, receptor, ligand, err := p.stageInputs(receptorPDB, ligandPDB)
	if err != nil {
		return nil, err
	}

	seed := p.cfg.Seed
	if seed == 0 {
		seed = rand.Intn(100) + 1
	}
	report := &Report{RunID: p.runID, Seed: seed}

	complexes, err := p.dock(ctx, dockingDir, receptor, ligand, seed)
	if err != nil {
		return nil, err
	}

	clusters, err := p.gromacs.Cluster(ctx, dockingDir, complexes, p.cfg.ClusterCutoff, "cluster")
	if err != nil {
		return nil, err
	}
	p.logger.Printf("clustering: %d clusters at %.2f nm cutoff", len(clusters), p.cfg.ClusterCutoff)

	if len(clusters) > p.cfg.MaxClusters {
		clusters = clusters[:p.cfg.MaxClusters]
	}

	report.Clusters = p.refineClusters(ctx, dockingDir, clusters, receptor, ligand)

	ranked, err := p.aggregate(report)
	if err != nil {
		return nil, err
	}
	report.Ranked = ranked

	outDir := filepath.Dir(dockingDir)
	if err := p.writeResults(report, dockingDir, outDir); err != nil {
		return nil, err
	}
	report.TablePath = filepath.Join(outDir, "combined_results.csv")

	mean, stddev := rank.Summary(report.Ranked)
	p.logger.Printf("done: %d structures ranked, composite score %.2f ± %.2f", len(report.Ranked), mean, stddev)

	return report, nil
}

// stageInputs prepares the working tree and copies the input files into it.
// Returns the docking directory and the input file base names.
func (p *Pipeline) stageInputs(receptorPDB, ligandPDB string) (string, string, string, error) {
	for _, path := range []string{receptorPDB, ligandPDB} {
		if _, err := os.Stat(path); err != nil {
			return "", "", "", fmt.Errorf("input PDB %s: %v", path, err)
		}
	}

	outDir, err := filepath.Abs(p.cfg.OutDir)
	if err != nil {
		return "", "", "", err
	}
	dockingDir := filepath.Join(outDir, "docking")
	if err := os.MkdirAll(dockingDir, os.ModePerm); err != nil {
		return "", "", "", fmt.Errorf("create output directory: %v", err)
	}

	receptor := filepath.Base(receptorPDB)
	ligand := filepath.Base(ligandPDB)
	for _, in := range []struct{ src, base string }{
		{receptorPDB, receptor},
		{ligandPDB, ligand},
	} {
		staged := filepath.Join(dockingDir, in.base)
		if err := shell.CopyFile(in.src, staged); err != nil {
			return "", "", "", err
		}
		if err := pdb.EnsureEND(staged); err != nil {
			return "", "", "", err
		}
		// Reject inputs the docking tools would choke on.
		if _, err := pdb.NewFromFile(staged); err != nil {
			return "", "", "", err
		}
	}

	return dockingDir, receptor, ligand, nil
}

// dock runs the surface marking and rigid-body search, and builds the top
// complex structures.
func (p *Pipeline) dock(ctx context.Context, dir, receptor, ligand string, seed int) ([]string, error) {
	receptorMarked := markedName(receptor)
	ligandMarked := markedName(ligand)

	if err := p.zdock.MarkSur(ctx, dir, receptor, receptorMarked); err != nil {
		return nil, err
	}
	if err := p.zdock.MarkSur(ctx, dir, ligand, ligandMarked); err != nil {
		return nil, err
	}

	const outputFile = "zdock.out"
	err := p.zdock.Run(ctx, dir, zdock.Options{
		Receptor:      receptorMarked,
		Ligand:        ligandMarked,
		Output:        outputFile,
		Predictions:   p.cfg.Predictions,
		Seed:          seed,
		DenseRotation: p.cfg.DenseRotation,
		FixReceptor:   p.cfg.FixReceptor,
	})
	if err != nil {
		return nil, err
	}

	poses, err := zdock.ParseOutputFile(filepath.Join(dir, outputFile))
	if err != nil {
		return nil, err
	}
	p.logger.Printf("docking: %d predictions, best score %.3f (seed %d)", len(poses), poses[0].Score, seed)

	n := p.cfg.Complexes
	if n > len(poses) {
		n = len(poses)
	}
	return p.zdock.CreateComplexes(ctx, dir, outputFile, n)
}

// refineClusters refines every cluster concurrently, each in its own working
// directory. One cluster's failure never aborts its siblings.
func (p *Pipeline) refineClusters(ctx context.Context, dockingDir string, clusters []gromacs.Cluster, receptor, ligand string) []ClusterResult {
	results := make(chan ClusterResult, len(clusters))

	var wg sync.WaitGroup
	for _, c := range clusters {
		wg.Add(1)
		go func(c gromacs.Cluster) {
			defer wg.Done()
			results <- p.refineCluster(ctx, dockingDir, c, receptor, ligand)
		}(c)
	}
	wg.Wait()
	close(results)

	var all []ClusterResult
	for result := range results {
		if result.Err != nil {
			p.logger.Printf("cluster %d: refinement failed: %v", result.Cluster.ID, result.Err)
		}
		all = append(all, result)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Cluster.ID < all[j].Cluster.ID })
	return all
}

// refineCluster extracts the interface of the cluster's best-ranked pose,
// generates restraints and runs the refinement in a private Pos<N> directory.
func (p *Pipeline) refineCluster(ctx context.Context, dockingDir string, c gromacs.Cluster, receptor, ligand string) ClusterResult {
	result := ClusterResult{Cluster: c}

	pose := bestPose(c)
	complexPath := filepath.Join(dockingDir, zdock.ComplexFile(pose))
	complexPDB, err := pdb.NewFromFile(complexPath)
	if err != nil {
		result.Err = err
		return result
	}

	iface, err := interaction.InterfaceResidues(complexPDB, p.cfg.ReceptorChain, p.cfg.LigandChain, p.cfg.InterfaceDistance)
	if err != nil {
		result.Err = err
		return result
	}
	result.Interface = iface
	if iface.Empty() {
		p.logger.Printf("cluster %d: no contacts within %.1f Å in pose %d, likely non-interacting",
			c.ID, p.cfg.InterfaceDistance, pose)
	}

	clusterDir := filepath.Join(dockingDir, fmt.Sprintf("Pos%d", c.ID))
	if err := os.MkdirAll(clusterDir, os.ModePerm); err != nil {
		result.Err = err
		return result
	}
	for _, base := range []string{receptor, ligand} {
		if err := shell.CopyFile(filepath.Join(dockingDir, base), filepath.Join(clusterDir, base)); err != nil {
			result.Err = err
			return result
		}
	}

	entries := []haddock.RestraintEntry{
		haddock.NewRestraintEntry(1, p.cfg.ReceptorChain, iface[p.cfg.ReceptorChain], receptor, []int{2}),
		haddock.NewRestraintEntry(2, p.cfg.LigandChain, iface[p.cfg.LigandChain], ligand, []int{1}),
	}
	if err := p.haddock.GenerateInput(ctx, clusterDir, entries); err != nil {
		result.Err = err
		return result
	}

	if err := p.haddock.Run(ctx, clusterDir); err != nil {
		result.Err = err
		return result
	}

	waterDir := haddock.WaterDir(clusterDir, 1)
	refined, err := p.haddock.Analyze(ctx, waterDir)
	if err != nil {
		result.Err = err
		return result
	}

	rows := make([]rank.Row, len(refined))
	for i, r := range refined {
		row := rank.NewRow(r, c.ID, c.Population())
		row.Path = filepath.Join(waterDir, r.Structure)
		rows[i] = row
	}
	result.Rows = rows

	result.Representative, err = rank.Representative(rows)
	if err != nil {
		result.Err = err
	}
	return result
}

// aggregate merges the representatives of the successful clusters.
func (p *Pipeline) aggregate(report *Report) ([]rank.Row, error) {
	var reps []rank.Row
	for _, c := range report.Clusters {
		if c.Err == nil {
			reps = append(reps, c.Representative)
		}
	}

	if len(reps) == 0 {
		return nil, fmt.Errorf("refinement failed for every cluster")
	}
	return rank.Merge(reps, p.tieBreak), nil
}

// writeResults writes the combined CSV table and copies the representative
// structures next to it.
func (p *Pipeline) writeResults(report *Report, dockingDir, outDir string) error {
	f, err := os.Create(filepath.Join(outDir, "combined_results.csv"))
	if err != nil {
		return fmt.Errorf("create result table: %v", err)
	}
	defer f.Close()

	if err := rank.WriteCSV(f, report.Ranked); err != nil {
		return err
	}

	for _, row := range report.Ranked {
		// HADDOCK reuses structure file names across runs, so copies
		// carry the cluster directory as a prefix.
		base := fmt.Sprintf("Pos%d_%s", row.ClusterID, filepath.Base(row.Path))
		if err := shell.CopyFile(row.Path, filepath.Join(dockingDir, "copied_files", base)); err != nil {
			return fmt.Errorf("copy representative %s: %v", row.Structure, err)
		}
		if err := shell.CopyFile(row.Path, filepath.Join(outDir, base)); err != nil {
			return fmt.Errorf("copy representative %s: %v", row.Structure, err)
		}
	}

	return nil
}

// bestPose returns the cluster member with the best docking rank.
func bestPose(c gromacs.Cluster) int {
	if len(c.Members) == 0 {
		return c.Middle
	}
	best := c.Members[0]
	for _, m := range c.Members[1:] {
		if m < best {
			best = m
		}
	}
	return best
}

// markedName returns the output name mark_sur gives a PDB file.
func markedName(pdbFile string) string {
	ext := filepath.Ext(pdbFile)
	return pdbFile[:len(pdbFile)-len(ext)] + "_m" + ext
}
