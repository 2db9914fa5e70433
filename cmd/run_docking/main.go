// Command run_docking performs protein-protein docking on a receptor and
// ligand PDB file, driving ZDOCK, GROMACS clustering and HADDOCK refinement.
//
// The ZDOCK, HADDOCK and GROMACS environment variables must point at the
// respective tool installations.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tikz/dock/config"
	"github.com/tikz/dock/pipeline"
	"github.com/tikz/dock/shell"
)

var (
	flagOutDir            string
	flagMaxClusters       int
	flagInterfaceDistance float64
	flagClusterCutoff     float64
	flagPredictions       int
	flagComplexes         int
	flagSeed              int
	flagDense             bool
	flagFixReceptor       bool
	flagConfigFile        string
)

var rootCmd = &cobra.Command{
	Use:   "run_docking <receptor.pdb> <ligand.pdb>",
	Short: "Protein-protein docking pipeline",
	Long: `run_docking docks a ligand protein onto a receptor protein.

Candidate poses come from a ZDOCK rigid-body search, get grouped by RMSD
with gmx cluster, and the best pose of each cluster is refined with HADDOCK
using interface-derived restraints. Refined structures are ranked by the sum
of their van der Waals, electrostatic and desolvation energies.

Input PDB files must contain ATOM, TER and END records only.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&flagOutDir, "output", "o", config.DefaultOutDir, "output directory")
	flags.IntVarP(&flagMaxClusters, "max-clusters", "c", config.DefaultMaxClusters, "maximum number of clusters to refine")
	flags.Float64VarP(&flagInterfaceDistance, "interface-distance", "d", config.DefaultInterfaceDistance, "interface residue distance cutoff (Å)")
	flags.Float64VarP(&flagClusterCutoff, "cluster-cutoff", "t", config.DefaultClusterCutoff, "RMSD clustering cutoff (nm)")
	flags.IntVarP(&flagPredictions, "predictions", "n", config.DefaultPredictions, "number of ZDOCK predictions")
	flags.IntVar(&flagComplexes, "complexes", config.DefaultComplexes, "number of top predictions to build and cluster")
	flags.IntVarP(&flagSeed, "seed", "s", 0, "ZDOCK randomization seed (0 picks a random seed)")
	flags.BoolVarP(&flagDense, "dense", "D", false, "dense rotational sampling")
	flags.BoolVarP(&flagFixReceptor, "fix-receptor", "F", false, "fix the receptor, preventing its rotation")
	flags.StringVar(&flagConfigFile, "config", "", "YAML file with run parameters")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	if flagConfigFile != "" {
		if err := cfg.LoadFile(flagConfigFile); err != nil {
			return err
		}
	}

	// Flags set explicitly win over the config file.
	flagValues := map[string]func(){
		"output":             func() { cfg.OutDir = flagOutDir },
		"max-clusters":       func() { cfg.MaxClusters = flagMaxClusters },
		"interface-distance": func() { cfg.InterfaceDistance = flagInterfaceDistance },
		"cluster-cutoff":     func() { cfg.ClusterCutoff = flagClusterCutoff },
		"predictions":        func() { cfg.Predictions = flagPredictions },
		"complexes":          func() { cfg.Complexes = flagComplexes },
		"seed":               func() { cfg.Seed = flagSeed },
		"dense":              func() { cfg.DenseRotation = flagDense },
		"fix-receptor":       func() { cfg.FixReceptor = flagFixReceptor },
	}
	for name, apply := range flagValues {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}

	p, err := pipeline.New(cfg, shell.Exec{})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := p.Run(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

func printReport(report *pipeline.Report) {
	fmt.Printf("run %s (seed %d)\n\n", report.RunID, report.Seed)

	fmt.Println("rank  cluster  population  Evdw      Eelec     Edesolv   score     structure")
	for i, row := range report.Ranked {
		fmt.Printf("%-5d %-8d %-11d %-9.2f %-9.2f %-9.2f %-9.2f %s\n",
			i+1, row.ClusterID, row.Population, row.Evdw, row.Eelec, row.Edesolv, row.Composite, row.Structure)
	}

	for _, failed := range report.Failed() {
		fmt.Printf("\ncluster %d failed: %v\n", failed.Cluster.ID, failed.Err)
	}

	fmt.Printf("\nresult table: %s\n", report.TablePath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "run_docking:", err)
		os.Exit(1)
	}
}
