// Package pdb parses PDB coordinate files for the docking pipeline.
//
// Only ATOM, TER and END records are accepted: the docking tools misbehave
// on anything else, so any other record type is rejected as an input error
// that the caller must pre-clean.
package pdb

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// PDB represents a single parsed structure.
type PDB struct {
	Atoms  []*Atom
	Chains map[string]map[int64]*Residue // chain ID and residue number to residue

	TotalLength int64 // total residue count over all chains

	LocalPath string // path of the source file, if read from disk
}

// NewFromFile reads and parses a PDB file.
func NewFromFile(path string) (*PDB, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read PDB file: %v", err)
	}

	p, err := NewFromRaw(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}

	p.LocalPath = path
	return p, nil
}

// NewFromRaw parses raw PDB contents.
func NewFromRaw(raw []byte) (*PDB, error) {
	p := &PDB{}

	scanner := bufio.NewScanner(strings.NewReader(string(raw)))
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		record := recordName(line)
		switch record {
		case "ATOM":
			atom, err := parseAtomRecord(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", n, err)
			}
			p.Atoms = append(p.Atoms, atom)
		case "TER", "END":
			// structure delimiters, no data
		default:
			return nil, fmt.Errorf("line %d: record %q not allowed, input must contain ATOM/TER/END only", n, record)
		}
	}

	if len(p.Atoms) == 0 {
		return nil, fmt.Errorf("no ATOM records found")
	}

	p.makeChains()
	return p, nil
}

// recordName extracts the record type from PDB columns 1-6.
func recordName(line string) string {
	if len(line) > 6 {
		line = line[:6]
	}
	return strings.TrimSpace(line)
}

// makeChains groups the parsed atoms into residues per chain.
func (p *PDB) makeChains() {
	chains := make(map[string]map[int64]*Residue)

	for _, atom := range p.Atoms {
		chain, ok := chains[atom.Chain]
		if !ok {
			chain = make(map[int64]*Residue)
			chains[atom.Chain] = chain
		}

		res, ok := chain[atom.ResidueNumber]
		if !ok {
			res = NewResidue(atom.Chain, atom.ResidueNumber, atom.Residue)
			chain[atom.ResidueNumber] = res
		}
		res.Atoms = append(res.Atoms, atom)
	}

	p.Chains = chains
	p.TotalLength = 0
	for _, chain := range chains {
		p.TotalLength += int64(len(chain))
	}
}

// EnsureEND appends an END record to the file if the last record is not one.
// ZDOCK's surface marking step requires terminated input files.
func EnsureEND(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read PDB file: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "END" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open PDB file: %v", err)
	}
	defer f.Close()

	record := "END\n"
	if len(raw) > 0 && raw[len(raw)-1] != '\n' {
		record = "\n" + record
	}
	if _, err := f.WriteString(record); err != nil {
		return fmt.Errorf("append END record: %v", err)
	}
	return nil
}
