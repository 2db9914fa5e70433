package rank

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tikz/dock/haddock"
)

func TestCompositeIsExactSum(t *testing.T) {
	for _, c := range []struct {
		evdw, eelec, edesolv float64
	}{
		{-45.2, -148.7, -8.4},
		{0, 0, 0},
		{10.5, -3.25, 7.125},
	} {
		assert.Equal(t, c.evdw+c.eelec+c.edesolv, Composite(c.evdw, c.eelec, c.edesolv))
	}
}

func TestNewRow(t *testing.T) {
	result := haddock.Result{
		Structure: "complex_1w.pdb",
		Evdw:      -45.2,
		Eelec:     -148.7,
		Edesolv:   -8.4,
		Energies:  map[string]float64{"Einter": -110.2},
	}

	row := NewRow(result, 2, 14)
	assert.Equal(t, 2, row.ClusterID)
	assert.Equal(t, 14, row.Population)
	assert.Equal(t, -45.2+-148.7+-8.4, row.Composite)
}

func TestRepresentativePicksMinimum(t *testing.T) {
	rows := []Row{
		{Structure: "a", Composite: -100},
		{Structure: "b", Composite: -130},
		{Structure: "c", Composite: -90},
	}

	rep, err := Representative(rows)
	require.NoError(t, err)
	assert.Equal(t, "b", rep.Structure)
}

func TestRepresentativeKeepsEarlierOnTie(t *testing.T) {
	rows := []Row{
		{Structure: "a", Composite: -100},
		{Structure: "b", Composite: -100},
	}

	rep, err := Representative(rows)
	require.NoError(t, err)
	assert.Equal(t, "a", rep.Structure)
}

func TestRepresentativeEmpty(t *testing.T) {
	_, err := Representative(nil)
	require.Error(t, err)
}

func TestMergeSortsByComposite(t *testing.T) {
	reps := []Row{
		{ClusterID: 1, Composite: -90},
		{ClusterID: 2, Composite: -130},
		{ClusterID: 3, Composite: -110},
	}

	merged := Merge(reps, TieByPopulation)
	assert.Equal(t, []int{2, 3, 1}, clusterIDs(merged))
}

func TestMergeTieByPopulation(t *testing.T) {
	reps := []Row{
		{ClusterID: 1, Population: 3, Composite: -100},
		{ClusterID: 2, Population: 40, Composite: -100},
	}

	merged := Merge(reps, TieByPopulation)
	assert.Equal(t, []int{2, 1}, clusterIDs(merged), "larger cluster ranks first on equal score")
}

func TestMergeTieByClusterID(t *testing.T) {
	reps := []Row{
		{ClusterID: 2, Population: 40, Composite: -100},
		{ClusterID: 1, Population: 3, Composite: -100},
	}

	merged := Merge(reps, TieByClusterID)
	assert.Equal(t, []int{1, 2}, clusterIDs(merged))
}

func TestMergeFullTieIsDeterministic(t *testing.T) {
	reps := []Row{
		{ClusterID: 3, Population: 5, Composite: -100},
		{ClusterID: 1, Population: 5, Composite: -100},
	}

	merged := Merge(reps, TieByPopulation)
	assert.Equal(t, []int{1, 3}, clusterIDs(merged), "equal population falls back to cluster ID")
}

func TestParseTieBreak(t *testing.T) {
	policy, err := ParseTieBreak("")
	require.NoError(t, err)
	assert.Equal(t, TieByPopulation, policy)

	policy, err = ParseTieBreak("cluster")
	require.NoError(t, err)
	assert.Equal(t, TieByClusterID, policy)

	_, err = ParseTieBreak("alphabetical")
	require.Error(t, err)
}

func TestSummary(t *testing.T) {
	rows := []Row{
		{Composite: -100},
		{Composite: -120},
		{Composite: -140},
	}

	mean, stddev := Summary(rows)
	assert.Equal(t, -120.0, mean)
	assert.InDelta(t, 20.0, stddev, 1e-9)
}

func TestWriteCSV(t *testing.T) {
	rows := []Row{
		{
			Structure:  "complex_1w.pdb",
			Path:       "/results/docking/Pos1/run1/structures/it1/water/complex_1w.pdb",
			ClusterID:  1,
			Population: 12,
			Composite:  -202.3,
			Energies: map[string]float64{
				"Einter": -110.2, "Enb": -95.4, "Evdw+0.1Eelec": -60.1,
				"Evdw": -45.2, "Eelec": -148.7, "Eair": 12.3,
				"Edesolv": -8.4,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t, "#struc,Einter,Enb,Evdw+0.1Eelec,Evdw,Eelec,Eair,Ecdih,Ecoup,Esani,Evean,Edani,Edesolv,cluster,population,score", lines[0])

	fields := strings.Split(lines[1], ",")
	require.Len(t, fields, 16)
	assert.Equal(t, "/results/docking/Pos1/run1/structures/it1/water/complex_1w.pdb", fields[0])
	assert.Equal(t, "-45.2", fields[4])
	assert.Equal(t, "1", fields[13])
	assert.Equal(t, "12", fields[14])
	assert.Equal(t, "-202.3", fields[15])
}

func clusterIDs(rows []Row) []int {
	ids := make([]int, len(rows))
	for i, row := range rows {
		ids[i] = row.ClusterID
	}
	return ids
}
