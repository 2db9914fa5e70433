package zdock

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Pose is one predicted docking of the ligand onto the receptor.
// Poses are numbered by the rank ZDOCK assigned them, best first.
type Pose struct {
	Rank  int
	Score float64
}

// ParseOutput reads a zdock.out file into ranked poses.
//
// The file starts with header lines (grid parameters, initial rotations and
// the marked input file names) followed by one prediction per line, with the
// docking score in the last column. ZDOCK writes predictions best-first, so
// rank equals the line order.
func ParseOutput(r io.Reader) ([]Pose, error) {
	var poses []Pose

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if !isPredictionRow(fields) {
			continue
		}

		score, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			return nil, fmt.Errorf("parse ZDOCK score %q: %v", fields[len(fields)-1], err)
		}
		poses = append(poses, Pose{Rank: len(poses) + 1, Score: score})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(poses) == 0 {
		return nil, fmt.Errorf("no predictions found in ZDOCK output")
	}
	return poses, nil
}

// ParseOutputFile reads a zdock.out file from disk.
func ParseOutputFile(path string) ([]Pose, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read ZDOCK output: %v", err)
	}
	defer f.Close()

	poses, err := ParseOutput(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	return poses, nil
}

// isPredictionRow distinguishes prediction rows (seven numeric columns:
// three Euler angles, three translations, score) from header lines, which
// either have fewer columns or contain the input file names.
func isPredictionRow(fields []string) bool {
	if len(fields) != 7 {
		return false
	}
	for _, f := range fields {
		if _, err := strconv.ParseFloat(f, 64); err != nil {
			return false
		}
	}
	return true
}
