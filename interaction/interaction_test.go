package interaction

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tikz/dock/pdb"
)

// testAtom places a single atom inside a residue of a chain.
type testAtom struct {
	chain   string
	residue int64
	element string
	x, y, z float64
}

func buildPDB(atoms []testAtom) *pdb.PDB {
	p := &pdb.PDB{Chains: make(map[string]map[int64]*pdb.Residue)}

	for _, ta := range atoms {
		atom := &pdb.Atom{
			Chain:         ta.chain,
			ResidueNumber: ta.residue,
			Element:       ta.element,
			X:             ta.x,
			Y:             ta.y,
			Z:             ta.z,
		}
		p.Atoms = append(p.Atoms, atom)

		chain, ok := p.Chains[ta.chain]
		if !ok {
			chain = make(map[int64]*pdb.Residue)
			p.Chains[ta.chain] = chain
		}
		res, ok := chain[ta.residue]
		if !ok {
			res = pdb.NewResidue(ta.chain, ta.residue, "GLY")
			chain[ta.residue] = res
		}
		res.Atoms = append(res.Atoms, atom)
	}

	return p
}

func TestContactPairMarksBothResidues(t *testing.T) {
	p := buildPDB([]testAtom{
		{"A", 10, "C", 0, 0, 0},
		{"A", 11, "C", 50, 0, 0},
		{"B", 3, "N", 5, 0, 0},
		{"B", 4, "N", 100, 0, 0},
	})

	set, err := InterfaceResidues(p, "A", "B", 8.0)
	require.NoError(t, err)

	assert.Equal(t, []int64{10}, set["A"])
	assert.Equal(t, []int64{3}, set["B"])
}

func TestCutoffIsInclusive(t *testing.T) {
	p := buildPDB([]testAtom{
		{"A", 1, "C", 0, 0, 0},
		{"B", 1, "C", 8.0, 0, 0},
	})

	set, err := InterfaceResidues(p, "A", "B", 8.0)
	require.NoError(t, err)
	assert.False(t, set.Empty(), "pair exactly at the cutoff counts as contact")

	set, err = InterfaceResidues(p, "A", "B", 7.999)
	require.NoError(t, err)
	assert.True(t, set.Empty())
}

func TestHydrogensNeverFlagResidues(t *testing.T) {
	p := buildPDB([]testAtom{
		{"A", 1, "H", 0, 0, 0}, // close, but not a heavy atom
		{"A", 2, "C", 100, 0, 0},
		{"B", 1, "C", 1, 0, 0},
	})

	set, err := InterfaceResidues(p, "A", "B", 8.0)
	require.NoError(t, err)
	assert.True(t, set.Empty(), "residues without heavy atoms in range must never be flagged")
}

func TestOtherChainsIgnored(t *testing.T) {
	p := buildPDB([]testAtom{
		{"A", 1, "C", 0, 0, 0},
		{"B", 1, "C", 100, 0, 0},
		{"C", 7, "C", 1, 0, 0}, // near chain A but not part of the pair
	})

	set, err := InterfaceResidues(p, "A", "B", 8.0)
	require.NoError(t, err)
	assert.True(t, set.Empty())
	assert.NotContains(t, set, "C")
}

func TestEmptyResultIsNotAnError(t *testing.T) {
	p := buildPDB([]testAtom{
		{"A", 1, "C", 0, 0, 0},
		{"B", 1, "C", 500, 500, 500},
	})

	set, err := InterfaceResidues(p, "A", "B", 8.0)
	require.NoError(t, err)
	assert.True(t, set.Empty())
	assert.Empty(t, set["A"])
	assert.Empty(t, set["B"])
}

func TestMissingChain(t *testing.T) {
	p := buildPDB([]testAtom{{"A", 1, "C", 0, 0, 0}})

	_, err := InterfaceResidues(p, "A", "B", 8.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `chain "B"`)
}

func TestOrderIndependence(t *testing.T) {
	atoms := []testAtom{
		{"A", 1, "C", 0, 0, 0},
		{"A", 2, "N", 2, 0, 0},
		{"A", 3, "O", 40, 0, 0},
		{"B", 1, "C", 5, 0, 0},
		{"B", 2, "N", 6, 1, 0},
		{"B", 3, "O", 42, 0, 0},
		{"B", 4, "C", 90, 0, 0},
	}

	reference, err := InterfaceResidues(buildPDB(atoms), "A", "B", 8.0)
	require.NoError(t, err)
	require.False(t, reference.Empty())

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := append([]testAtom(nil), atoms...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		set, err := InterfaceResidues(buildPDB(shuffled), "A", "B", 8.0)
		require.NoError(t, err)
		assert.Equal(t, reference, set, "interface residue set must not depend on atom record order")
	}
}

func TestSortedUniquePositions(t *testing.T) {
	p := buildPDB([]testAtom{
		// Two atoms in the same residue, both in contact range.
		{"A", 9, "C", 0, 0, 0},
		{"A", 9, "N", 1, 0, 0},
		{"A", 2, "C", 3, 0, 0},
		{"B", 1, "C", 2, 0, 0},
	})

	set, err := InterfaceResidues(p, "A", "B", 8.0)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 9}, set["A"], "positions must be unique and sorted")
}
