package haddock

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// RestraintEntry describes one molecule of the complex for restraint
// generation: which residues are active at the interface and which partner
// molecules they are restrained towards.
type RestraintEntry struct {
	ID                int     `json:"id"`
	Chain             string  `json:"chain"`
	Active            []int64 `json:"active"`
	Passive           []int64 `json:"passive"`
	Structure         string  `json:"structure"`
	Target            []int   `json:"target"`
	PassiveFromActive bool    `json:"passive_from_active"`
	FilterBuried      bool    `json:"filter_buried"`
}

// NewRestraintEntry returns an entry with the defaults used by the pipeline:
// no explicit passive residues, passive derived from active, buried residues
// filtered out.
func NewRestraintEntry(id int, chain string, active []int64, structure string, target []int) RestraintEntry {
	return RestraintEntry{
		ID:                id,
		Chain:             chain,
		Active:            active,
		Passive:           []int64{},
		Structure:         structure,
		Target:            target,
		PassiveFromActive: true,
		FilterBuried:      true,
	}
}

// GenerateInput writes everything a HADDOCK run needs into dir: the restraint
// configuration JSON, the ambiguous restraints table produced by
// haddock-restraints, and the run.param file.
func (h *Haddock) GenerateInput(ctx context.Context, dir string, entries []RestraintEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("no restraint entries")
	}

	configFile := filepath.Join(dir, "output.json")
	raw, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal restraint entries: %v", err)
	}
	if err := os.WriteFile(configFile, raw, 0644); err != nil {
		return fmt.Errorf("write restraint config: %v", err)
	}

	tbl, err := h.runner.Output(ctx, dir, "", filepath.Join(h.restraintsDir, "haddock-restraints"), "tbl", configFile)
	if err != nil {
		return fmt.Errorf("haddock-restraints: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "restraints.tbl"), tbl, 0644); err != nil {
		return fmt.Errorf("write restraints table: %v", err)
	}

	return h.writeRunParams(filepath.Join(dir, "run.param"), entries)
}

// writeRunParams writes the run.param file that drives the HADDOCK run.
// Paths are relative to the project directory, run number is always 1.
func (h *Haddock) writeRunParams(path string, entries []RestraintEntry) error {
	var b []byte
	b = fmt.Appendf(b, "AMBIG_TBL=./restraints.tbl\n")
	b = fmt.Appendf(b, "HADDOCK_DIR=%s/\n", h.dir)
	b = fmt.Appendf(b, "RUN_NUMBER=1\n")
	b = fmt.Appendf(b, "N_COMP=%d\n", len(entries))
	b = fmt.Appendf(b, "PROJECT_DIR=.\n")

	for i, entry := range entries {
		b = fmt.Appendf(b, "PDB_FILE%d=%s\n", i+1, entry.Structure)
		b = fmt.Appendf(b, "PROT_SEGID_%d=%s\n", i+1, entry.Chain)
	}

	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("write run.param: %v", err)
	}
	return nil
}
