// Package dataset loads aligned pair price series from CSV files produced
// by an external data pipeline.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pairsim/pairsim/internal/models"
)

const dateLayout = "2006-01-02"

// LoadCSV reads a pair series from a CSV file with a header row of
// date,<symbolA>,<symbolB> and one row per trading day of log prices.
func LoadCSV(path string) (models.PairSeries, error) {
	var series models.PairSeries

	f, err := os.Open(path)
	if err != nil {
		return series, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return series, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) < 2 {
		return series, fmt.Errorf("%w: %s has no data rows", models.ErrShapeMismatch, path)
	}

	header := records[0]
	if len(header) != 3 {
		return series, fmt.Errorf("%w: expected date plus exactly 2 price columns, got %d columns",
			models.ErrShapeMismatch, len(header))
	}
	series.SymbolA = header[1]
	series.SymbolB = header[2]

	for n, row := range records[1:] {
		if len(row) != 3 {
			return models.PairSeries{}, fmt.Errorf("%w: row %d has %d columns, expected 3",
				models.ErrShapeMismatch, n+2, len(row))
		}

		date, err := time.Parse(dateLayout, row[0])
		if err != nil {
			return models.PairSeries{}, fmt.Errorf("row %d: invalid date %q: %w", n+2, row[0], err)
		}
		logA, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return models.PairSeries{}, fmt.Errorf("row %d: invalid %s price: %w", n+2, series.SymbolA, err)
		}
		logB, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return models.PairSeries{}, fmt.Errorf("row %d: invalid %s price: %w", n+2, series.SymbolB, err)
		}

		series.Dates = append(series.Dates, date)
		series.LogA = append(series.LogA, logA)
		series.LogB = append(series.LogB, logB)
	}

	if err := series.Validate(); err != nil {
		return models.PairSeries{}, err
	}
	return series, nil
}
