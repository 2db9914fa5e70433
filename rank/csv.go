package rank

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSV column order of the combined result table. The energy columns mirror
// the HADDOCK _ener file, followed by the joined desolvation term, the
// cluster data and the composite score.
var csvHeader = []string{
	"#struc",
	"Einter", "Enb", "Evdw+0.1Eelec", "Evdw", "Eelec",
	"Eair", "Ecdih", "Ecoup", "Esani", "Evean", "Edani",
	"Edesolv",
	"cluster", "population", "score",
}

// WriteCSV writes the result table.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write CSV header: %v", err)
	}

	for _, row := range rows {
		record := make([]string, 0, len(csvHeader))

		name := row.Path
		if name == "" {
			name = row.Structure
		}
		record = append(record, name)

		for _, col := range csvHeader[1:13] {
			record = append(record, formatEnergy(row.Energies[col]))
		}
		record = append(record,
			strconv.Itoa(row.ClusterID),
			strconv.Itoa(row.Population),
			formatEnergy(row.Composite))

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write CSV row %s: %v", row.Structure, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatEnergy(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
