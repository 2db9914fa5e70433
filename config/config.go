// Package config resolves the pipeline configuration once at startup.
//
// Tool locations come from environment variables, run parameters from flags
// or an optional YAML file. The resulting Config is built and validated
// before any tool is invoked, and never mutated afterwards.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variables naming the tool installations.
const (
	EnvZDock             = "ZDOCK"
	EnvHaddock           = "HADDOCK"
	EnvGromacs           = "GROMACS"
	EnvHaddockRestraints = "HADDOCK_RESTRAINTS"
	EnvHaddockTools      = "HADDOCKTOOLS"
)

// Run parameter defaults.
const (
	DefaultOutDir            = "results"
	DefaultMaxClusters       = 3
	DefaultInterfaceDistance = 8.0  // Å
	DefaultClusterCutoff     = 0.45 // nm
	DefaultPredictions       = 2000
	DefaultComplexes         = 100
	DefaultReceptorChain     = "A"
	DefaultLigandChain       = "B"
)

// Config holds tool locations and run parameters for one pipeline run.
type Config struct {
	// Tool installations, resolved from the environment.
	ZDockDir          string `yaml:"-"` // directory with zdock, mark_sur, create.pl, create_lig, uniCHARMM
	HaddockDir        string `yaml:"-"` // HADDOCK installation directory
	GromacsBin        string `yaml:"-"` // gmx executable
	HaddockRestraints string `yaml:"-"` // directory with the haddock-restraints binary
	HaddockTools      string `yaml:"-"` // directory with ana_clusters.csh

	// Run parameters.
	OutDir            string  `yaml:"outdir"`
	MaxClusters       int     `yaml:"max_clusters"`
	InterfaceDistance float64 `yaml:"interface_distance"` // Å
	ClusterCutoff     float64 `yaml:"cluster_cutoff"`     // nm
	Predictions       int     `yaml:"predictions"`        // ZDOCK -N
	Complexes         int     `yaml:"complexes"`          // complex PDBs built from the top predictions
	Seed              int     `yaml:"seed"`               // ZDOCK -S, 0 means random
	DenseRotation     bool    `yaml:"dense_rotation"`     // ZDOCK -D
	FixReceptor       bool    `yaml:"fix_receptor"`       // ZDOCK -F
	ReceptorChain     string  `yaml:"receptor_chain"`
	LigandChain       string  `yaml:"ligand_chain"`
	TieBreak          string  `yaml:"tie_break"` // inter-cluster tie-break policy name
}

// FromEnv builds a Config with default run parameters and tool locations
// taken from the environment. It fails naming the first missing variable or
// non-existent path.
func FromEnv() (*Config, error) {
	cfg := &Config{
		OutDir:            DefaultOutDir,
		MaxClusters:       DefaultMaxClusters,
		InterfaceDistance: DefaultInterfaceDistance,
		ClusterCutoff:     DefaultClusterCutoff,
		Predictions:       DefaultPredictions,
		Complexes:         DefaultComplexes,
		ReceptorChain:     DefaultReceptorChain,
		LigandChain:       DefaultLigandChain,
	}

	for _, v := range []struct {
		name string
		dest *string
	}{
		{EnvZDock, &cfg.ZDockDir},
		{EnvHaddock, &cfg.HaddockDir},
		{EnvGromacs, &cfg.GromacsBin},
	} {
		value := os.Getenv(v.name)
		if value == "" {
			return nil, fmt.Errorf("environment variable %s is not set", v.name)
		}
		*v.dest = value
	}

	// The HADDOCK companion tools default to living under the main install.
	cfg.HaddockRestraints = os.Getenv(EnvHaddockRestraints)
	if cfg.HaddockRestraints == "" {
		cfg.HaddockRestraints = cfg.HaddockDir
	}
	cfg.HaddockTools = os.Getenv(EnvHaddockTools)
	if cfg.HaddockTools == "" {
		cfg.HaddockTools = filepath.Join(cfg.HaddockDir, "tools")
	}

	if err := cfg.validatePaths(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile overlays run parameters from a YAML file.
// Tool locations always come from the environment.
func (cfg *Config) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %v", err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %v", path, err)
	}

	return cfg.Validate()
}

// validatePaths checks that every resolved tool location exists.
func (cfg *Config) validatePaths() error {
	for _, p := range []struct {
		env  string
		path string
	}{
		{EnvZDock, cfg.ZDockDir},
		{EnvHaddock, cfg.HaddockDir},
		{EnvGromacs, cfg.GromacsBin},
		{EnvHaddockRestraints, cfg.HaddockRestraints},
		{EnvHaddockTools, cfg.HaddockTools},
	} {
		if _, err := os.Stat(p.path); os.IsNotExist(err) {
			return fmt.Errorf("%s: path %s does not exist", p.env, p.path)
		}
	}
	return nil
}

// Validate checks the run parameters.
func (cfg *Config) Validate() error {
	if cfg.MaxClusters < 1 {
		return fmt.Errorf("max clusters must be at least 1, got %d", cfg.MaxClusters)
	}
	if cfg.InterfaceDistance <= 0 {
		return fmt.Errorf("interface distance must be positive, got %g", cfg.InterfaceDistance)
	}
	if cfg.ClusterCutoff <= 0 {
		return fmt.Errorf("cluster cutoff must be positive, got %g", cfg.ClusterCutoff)
	}
	if cfg.Predictions < 1 {
		return fmt.Errorf("predictions must be at least 1, got %d", cfg.Predictions)
	}
	if cfg.Complexes < 1 || cfg.Complexes > cfg.Predictions {
		return fmt.Errorf("complexes must be between 1 and predictions (%d), got %d", cfg.Predictions, cfg.Complexes)
	}
	if cfg.ReceptorChain == "" || cfg.LigandChain == "" {
		return fmt.Errorf("receptor and ligand chain IDs must be set")
	}
	if cfg.ReceptorChain == cfg.LigandChain {
		return fmt.Errorf("receptor and ligand chain IDs must differ, both are %q", cfg.ReceptorChain)
	}
	return nil
}
