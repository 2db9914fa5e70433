package gromacs

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Cluster is one group of structurally similar poses from a gmx cluster run.
// Members hold pose indexes in trajectory frame order; Middle is the index
// of the structure closest to the cluster center.
type Cluster struct {
	ID         int
	RMSD       float64 // mean internal RMSD, NaN for single-member clusters
	Middle     int
	MiddleRMSD float64
	Members    []int
}

// Population returns the number of poses in the cluster.
func (c Cluster) Population() int {
	return len(c.Members)
}

// Table rows look like:
//
//	  1 |  40  .089 |     22 .101 |  1  2  3 ...
//	  2 |   1       |     57      | 57
var clusterRow = regexp.MustCompile(`^\s*(\d+)\s*\|\s*(\d+)\s*([\d.]*)\s*\|\s*(\d+)\s*([\d.]*)\s*\|`)

var number = regexp.MustCompile(`\d+`)

// ParseClusterLog parses the cluster table from a gmx cluster log.
// Member lists wrap over continuation lines, which carry indexes only.
func ParseClusterLog(logText string) ([]Cluster, error) {
	var clusters []Cluster
	var current *Cluster

	for _, line := range strings.Split(logText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		m := clusterRow.FindStringSubmatch(line)
		if m == nil {
			if current != nil {
				current.Members = append(current.Members, allInts(line)...)
			}
			continue
		}

		if current != nil {
			clusters = append(clusters, *current)
		}

		id, _ := strconv.Atoi(m[1])
		middle, _ := strconv.Atoi(m[4])

		current = &Cluster{
			ID:         id,
			RMSD:       floatOrNaN(m[3]),
			Middle:     middle,
			MiddleRMSD: floatOrNaN(m[5]),
			Members:    allInts(line[len(m[0]):]),
		}
	}
	if current != nil {
		clusters = append(clusters, *current)
	}

	if len(clusters) == 0 {
		return nil, fmt.Errorf("no clusters found in log")
	}
	return clusters, nil
}

func floatOrNaN(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func allInts(s string) []int {
	var values []int
	for _, m := range number.FindAllString(s, -1) {
		v, _ := strconv.Atoi(m)
		values = append(values, v)
	}
	return values
}

// sortByPoseIndex orders complex PDB file names naturally by the embedded
// pose index, so complex.10.pdb sorts after complex.9.pdb.
func sortByPoseIndex(files []string) []string {
	sorted := append([]string(nil), files...)
	sort.Slice(sorted, func(i, j int) bool {
		ni, iOK := poseIndex(sorted[i])
		nj, jOK := poseIndex(sorted[j])
		if iOK && jOK && ni != nj {
			return ni < nj
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

func poseIndex(file string) (int, bool) {
	m := number.FindString(file)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	return n, err == nil
}
