package pdb

import "strings"

var residueNames = [...][3]string{
	{"Alanine", "Ala", "A"},
	{"Arginine", "Arg", "R"},
	{"Asparagine", "Asn", "N"},
	{"Aspartic acid", "Asp", "D"},
	{"Cysteine", "Cys", "C"},
	{"Glutamic acid", "Glu", "E"},
	{"Glutamine", "Gln", "Q"},
	{"Glycine", "Gly", "G"},
	{"Histidine", "His", "H"},
	{"Isoleucine", "Ile", "I"},
	{"Leucine", "Leu", "L"},
	{"Lysine", "Lys", "K"},
	{"Methionine", "Met", "M"},
	{"Phenylalanine", "Phe", "F"},
	{"Proline", "Pro", "P"},
	{"Serine", "Ser", "S"},
	{"Threonine", "Thr", "T"},
	{"Tryptophan", "Trp", "W"},
	{"Tyrosine", "Tyr", "Y"},
	{"Valine", "Val", "V"},
}

// Residue represents a single residue from the PDB structure.
type Residue struct {
	Chain    string
	Position int64
	Name     string
	Name1    string
	Name3    string
	Atoms    []*Atom
}

// AminoacidNames receives a name and returns all the possible representations.
// The input is case-insensitive and can be a full aminoacid name, one or three letter abbreviation.
func AminoacidNames(input string) (string, string, string) {
	s := strings.Title(strings.ToLower(input))
	for _, res := range residueNames {
		for _, n := range res {
			if n == s {
				return res[0], res[1], res[2]
			}
		}
	}

	return input, "Unk", "X"
}

// NewResidue constructs a new residue given a chain, position and aminoacid name.
func NewResidue(chain string, pos int64, input string) *Residue {
	name, abbrv3, abbrv1 := AminoacidNames(input)

	return &Residue{
		Chain:    chain,
		Position: pos,
		Name:     name,
		Name1:    abbrv1,
		Name3:    abbrv3,
	}
}

// HeavyAtoms returns the non-hydrogen atoms of the residue.
func (r *Residue) HeavyAtoms() []*Atom {
	var heavy []*Atom
	for _, atom := range r.Atoms {
		if atom.Heavy() {
			heavy = append(heavy, atom)
		}
	}
	return heavy
}
