// Package interaction finds interface residues between chains of a docked complex.
package interaction

import (
	"fmt"
	"sort"

	"github.com/tikz/dock/pdb"
)

// Set holds, per chain ID, the sorted unique residue numbers with at least
// one heavy atom within the cutoff distance of the other chain.
type Set map[string][]int64

// Empty returns true if no interface residue was found on either chain,
// which signals a likely non-interacting pose.
func (s Set) Empty() bool {
	for _, residues := range s {
		if len(residues) > 0 {
			return false
		}
	}
	return true
}

// InterfaceResidues receives a structure, two chain IDs and a cutoff distance
// in Å, and returns the interface residue set of both chains.
//
// Every heavy atom of one chain is tested against every heavy atom of the
// other; a pair at most cutoff apart marks both owning residues. Residues
// without heavy atoms are never flagged, and atoms outside the two named
// chains are ignored. An empty result is valid and left to the caller to
// report.
func InterfaceResidues(p *pdb.PDB, chain1, chain2 string, cutoff float64) (Set, error) {
	c1, ok := p.Chains[chain1]
	if !ok {
		return nil, fmt.Errorf("chain %q not present in structure", chain1)
	}
	c2, ok := p.Chains[chain2]
	if !ok {
		return nil, fmt.Errorf("chain %q not present in structure", chain2)
	}

	atoms1 := heavyAtoms(c1)
	atoms2 := heavyAtoms(c2)

	cutoff2 := cutoff * cutoff
	marked1 := make(map[int64]bool)
	marked2 := make(map[int64]bool)

	// O(|A|·|B|) over heavy atoms. Structures of a few thousand atoms
	// finish in milliseconds, no spatial index needed.
	for _, a1 := range atoms1 {
		for _, a2 := range atoms2 {
			if pdb.Distance2(a1, a2) <= cutoff2 {
				marked1[a1.ResidueNumber] = true
				marked2[a2.ResidueNumber] = true
			}
		}
	}

	return Set{
		chain1: sortedPositions(marked1),
		chain2: sortedPositions(marked2),
	}, nil
}

func heavyAtoms(chain map[int64]*pdb.Residue) []*pdb.Atom {
	var atoms []*pdb.Atom
	for _, res := range chain {
		atoms = append(atoms, res.HeavyAtoms()...)
	}
	return atoms
}

func sortedPositions(marked map[int64]bool) []int64 {
	positions := make([]int64, 0, len(marked))
	for pos := range marked {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })
	return positions
}
