package pdb

import (
	"fmt"
	"strconv"
	"strings"
)

// Atom represents a single atom in the structure.
// It contains the columns from an ATOM record in a PDB file.
type Atom struct {
	Number        int64
	Name          string
	Residue       string
	Chain         string
	ResidueNumber int64
	X             float64
	Y             float64
	Z             float64
	Occupancy     float64
	BFactor       float64
	Element       string
}

// Heavy returns true if the atom is not a hydrogen.
// The element column is empty in files written by some docking tools,
// so the atom name is used as a fallback.
func (a *Atom) Heavy() bool {
	element := a.Element
	if element == "" {
		name := strings.TrimLeft(a.Name, "0123456789")
		if name == "" {
			return false
		}
		element = name[:1]
	}
	return element != "H" && element != "D"
}

// parseAtomRecord parses a single ATOM line using the fixed column layout.
// https://www.wwpdb.org/documentation/file-format-content/format23/sect9.html#ATOM
func parseAtomRecord(line string) (*Atom, error) {
	if len(line) < 54 {
		return nil, fmt.Errorf("ATOM record too short (%d columns)", len(line))
	}
	// Occupancy, B-factor and element columns are optional in practice.
	if len(line) < 80 {
		line = line + strings.Repeat(" ", 80-len(line))
	}

	var atom Atom
	var err error

	atom.Number, _ = strconv.ParseInt(strings.TrimSpace(line[6:11]), 10, 64)
	atom.Name = strings.TrimSpace(line[12:16])
	atom.Residue = strings.TrimSpace(line[17:20])
	atom.Chain = line[21:22]
	atom.ResidueNumber, err = strconv.ParseInt(strings.TrimSpace(line[22:26]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("ATOM record: bad residue number %q", strings.TrimSpace(line[22:26]))
	}

	for i, field := range []*float64{&atom.X, &atom.Y, &atom.Z} {
		start := 30 + i*8
		*field, err = strconv.ParseFloat(strings.TrimSpace(line[start:start+8]), 64)
		if err != nil {
			return nil, fmt.Errorf("ATOM record: bad coordinate %q", strings.TrimSpace(line[start:start+8]))
		}
	}

	atom.Occupancy, _ = strconv.ParseFloat(strings.TrimSpace(line[54:60]), 64)
	atom.BFactor, _ = strconv.ParseFloat(strings.TrimSpace(line[60:66]), 64)
	atom.Element = strings.TrimSpace(line[76:78])

	return &atom, nil
}
