// Package rank scores and orders refined structures.
//
// The composite score is the plain sum of the van der Waals, electrostatic
// and desolvation terms; lower is better, following the free-energy
// convention. Each cluster is represented by its minimum-score structure,
// and representatives merge into one final table.
package rank

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/tikz/dock/haddock"
)

// Row is one refined structure in the result table.
type Row struct {
	Structure  string
	Path       string // absolute path of the structure file
	ClusterID  int
	Population int
	Evdw       float64
	Eelec      float64
	Edesolv    float64
	Composite  float64
	Energies   map[string]float64
}

// Composite returns the composite score for the three energy terms.
func Composite(evdw, eelec, edesolv float64) float64 {
	return evdw + eelec + edesolv
}

// NewRow builds a table row from a refinement result.
func NewRow(result haddock.Result, clusterID, population int) Row {
	return Row{
		Structure:  result.Structure,
		ClusterID:  clusterID,
		Population: population,
		Evdw:       result.Evdw,
		Eelec:      result.Eelec,
		Edesolv:    result.Edesolv,
		Composite:  Composite(result.Evdw, result.Eelec, result.Edesolv),
		Energies:   result.Energies,
	}
}

// Representative returns the row with the lowest composite score.
// Equal scores keep the earlier row, so the tool-reported order of a
// cluster's structures decides within-cluster ties.
func Representative(rows []Row) (Row, error) {
	if len(rows) == 0 {
		return Row{}, fmt.Errorf("no rows to rank")
	}

	best := rows[0]
	for _, row := range rows[1:] {
		if row.Composite < best.Composite {
			best = row
		}
	}
	return best, nil
}

// TieBreak names the policy applied when merged representatives have equal
// composite scores. The rule materially affects final structure selection,
// so it is configuration, not hard-coded precedence.
type TieBreak string

const (
	// TieByPopulation ranks the representative of the larger cluster first.
	TieByPopulation TieBreak = "population"
	// TieByClusterID ranks the representative of the lower cluster ID first.
	TieByClusterID TieBreak = "cluster"
)

// ParseTieBreak validates a tie-break policy name. An empty name selects
// the default population policy.
func ParseTieBreak(name string) (TieBreak, error) {
	switch TieBreak(name) {
	case "":
		return TieByPopulation, nil
	case TieByPopulation, TieByClusterID:
		return TieBreak(name), nil
	}
	return "", fmt.Errorf("unknown tie-break policy %q", name)
}

// Merge sorts cluster representatives ascending by composite score.
// Ties fall to the policy; rows still tied after that order by cluster ID
// so the result is deterministic.
func Merge(reps []Row, policy TieBreak) []Row {
	merged := append([]Row(nil), reps...)
	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.Composite != b.Composite {
			return a.Composite < b.Composite
		}
		if policy == TieByPopulation && a.Population != b.Population {
			return a.Population > b.Population
		}
		return a.ClusterID < b.ClusterID
	})
	return merged
}

// Summary returns the mean and standard deviation of the composite scores.
func Summary(rows []Row) (mean, stddev float64) {
	scores := make([]float64, len(rows))
	for i, row := range rows {
		scores[i] = row.Composite
	}
	return stat.Mean(scores, nil), stat.StdDev(scores, nil)
}
