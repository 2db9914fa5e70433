package haddock

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Result holds the refinement energies of one structure: the three terms the
// composite score is built from plus the full energy row as reported.
type Result struct {
	Structure string
	Evdw      float64
	Eelec     float64
	Edesolv   float64
	Energies  map[string]float64
}

// Column order of the per-cluster _ener files.
var enerColumns = []string{
	"Einter", "Enb", "Evdw+0.1Eelec", "Evdw", "Eelec",
	"Eair", "Ecdih", "Ecoup", "Esani", "Evean", "Edani",
}

// bestClusterFile is written by ana_clusters.csh -best 4.
const bestClusterFile = "cluster_haddock-score.txt_best4"

// Analyze runs HADDOCK's cluster analysis in the water refinement directory,
// picks the cluster with the lowest HADDOCK score, and returns the parsed
// energy results of its best structures. Structure file names in the results
// are relative to waterDir.
func (h *Haddock) Analyze(ctx context.Context, waterDir string) ([]Result, error) {
	if _, err := os.Stat(waterDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("refinement output directory %s does not exist", waterDir)
	}

	_, err := h.runner.Run(ctx, waterDir, "",
		filepath.Join(h.toolsDir, "ana_clusters.csh"), "-best", "4", "analysis/cluster.out")
	if err != nil {
		return nil, fmt.Errorf("ana_clusters: %v", err)
	}

	scores, err := os.Open(filepath.Join(waterDir, bestClusterFile))
	if err != nil {
		return nil, fmt.Errorf("cluster scores: %v", err)
	}
	defer scores.Close()

	best, _, err := BestCluster(scores)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", bestClusterFile, err)
	}

	return h.clusterResults(waterDir, best)
}

// clusterResults joins the _ener and _Edesolv files of a cluster on the
// structure name.
func (h *Haddock) clusterResults(waterDir, cluster string) ([]Result, error) {
	enerPath := filepath.Join(waterDir, cluster+"_ener")
	ener, err := os.Open(enerPath)
	if err != nil {
		return nil, fmt.Errorf("energy file: %v", err)
	}
	defer ener.Close()

	results, err := ParseEnergyFile(ener)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", enerPath, err)
	}

	desolvPath := filepath.Join(waterDir, cluster+"_Edesolv")
	desolv, err := os.Open(desolvPath)
	if err != nil {
		return nil, fmt.Errorf("desolvation file: %v", err)
	}
	defer desolv.Close()

	edesolv, err := ParseDesolvFile(desolv)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", desolvPath, err)
	}

	return mergeDesolvation(results, edesolv)
}

// BestCluster reads a cluster_haddock-score file and returns the name and
// score of the cluster with the lowest HADDOCK score.
func BestCluster(r io.Reader) (string, float64, error) {
	best := ""
	bestScore := math.Inf(1)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens := strings.Fields(line)
		if len(tokens) < 2 {
			continue
		}
		score, err := strconv.ParseFloat(tokens[1], 64)
		if err != nil {
			continue
		}
		if score < bestScore {
			best = tokens[0]
			bestScore = score
		}
	}
	if err := scanner.Err(); err != nil {
		return "", 0, err
	}

	if best == "" {
		return "", 0, fmt.Errorf("no valid cluster scores found")
	}
	return best, bestScore, nil
}

// ParseEnergyFile reads a per-cluster _ener file: one structure per row,
// the structure file name followed by eleven energy columns.
func ParseEnergyFile(r io.Reader) ([]Result, error) {
	var results []Result

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tokens := strings.Fields(line)
		if len(tokens) != len(enerColumns)+1 {
			return nil, fmt.Errorf("energy row has %d columns, want %d", len(tokens), len(enerColumns)+1)
		}

		result := Result{
			Structure: tokens[0],
			Energies:  make(map[string]float64, len(enerColumns)+1),
		}
		for i, col := range enerColumns {
			v, err := strconv.ParseFloat(tokens[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("structure %s: bad %s value %q", result.Structure, col, tokens[i+1])
			}
			result.Energies[col] = v
		}
		result.Evdw = result.Energies["Evdw"]
		result.Eelec = result.Energies["Eelec"]

		results = append(results, result)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no energy rows found")
	}
	return results, nil
}

// ParseDesolvFile reads a per-cluster _Edesolv file mapping structure names
// to desolvation energies.
func ParseDesolvFile(r io.Reader) (map[string]float64, error) {
	values := make(map[string]float64)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tokens := strings.Fields(line)
		if len(tokens) != 2 {
			return nil, fmt.Errorf("desolvation row has %d columns, want 2", len(tokens))
		}
		v, err := strconv.ParseFloat(tokens[1], 64)
		if err != nil {
			return nil, fmt.Errorf("structure %s: bad Edesolv value %q", tokens[0], tokens[1])
		}
		values[tokens[0]] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("no desolvation rows found")
	}
	return values, nil
}

// mergeDesolvation is an inner join: structures missing from either file
// are dropped, matching the original analysis behavior.
func mergeDesolvation(results []Result, edesolv map[string]float64) ([]Result, error) {
	var merged []Result
	for _, result := range results {
		v, ok := edesolv[result.Structure]
		if !ok {
			continue
		}
		result.Edesolv = v
		result.Energies["Edesolv"] = v
		merged = append(merged, result)
	}

	if len(merged) == 0 {
		return nil, fmt.Errorf("energy and desolvation files share no structures")
	}
	return merged, nil
}
