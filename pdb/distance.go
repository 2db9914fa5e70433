package pdb

import (
	"math"
)

// Distance returns the distance between a pair of atoms.
func Distance(atom1 *Atom, atom2 *Atom) float64 {
	return math.Sqrt(Distance2(atom1, atom2))
}

// Distance2 returns the squared distance between a pair of atoms.
// Cutoff comparisons over many atom pairs use this to skip the square root.
func Distance2(atom1 *Atom, atom2 *Atom) float64 {
	dx := atom1.X - atom2.X
	dy := atom1.Y - atom2.Y
	dz := atom1.Z - atom2.Z
	return dx*dx + dy*dy + dz*dz
}

// ResiduesDistance returns the distance between residues, of the closest pair of atoms.
func ResiduesDistance(res1 *Residue, res2 *Residue) float64 {
	minDist := Distance2(res1.Atoms[0], res2.Atoms[0])
	for _, a1 := range res1.Atoms {
		for _, a2 := range res2.Atoms {
			dist := Distance2(a1, a2)
			if dist < minDist {
				minDist = dist
			}
		}
	}

	return math.Sqrt(minDist)
}
