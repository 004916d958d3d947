// Package dataset implements the offline tooling around the safety model:
// synthetic training-data generation and random-forest training.  Nothing in
// this package runs inside the request path; the runtime engine consumes only
// the artifacts produced here.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"

	"github.com/urbansight/urbansight/pkg/errors"
)

// Bengaluru bounding box, the reference sampling area.
const (
	MinLat = 12.83
	MaxLat = 13.14
	MinLng = 77.46
	MaxLng = 77.78
)

// Row is one labelled training sample.
type Row struct {
	Lat                  float64
	Lng                  float64
	Hour                 int
	DayOfWeek            int
	LightingScore        float64
	CrowdDensity         float64
	HistoricalCrimeIndex float64
	PoliceDistKm         float64
	IsIsolated           int
	NearTransit          int
	SafetyScore          float64
}

// GenerateConfig controls synthetic dataset generation.
type GenerateConfig struct {
	Rows int
	Seed int64
}

// DefaultGenerateConfig mirrors the reference dataset: 5000 rows, seed 42.
func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{Rows: 5000, Seed: 42}
}

func isNightHour(h int) bool { return h >= 22 || h <= 4 }

func isRushHour(h int) bool { return (h >= 8 && h <= 10) || (h >= 17 && h <= 20) }

func clip(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(x, hi))
}

// Generate produces cfg.Rows synthetic samples.  The distributions encode the
// assumed urban dynamics: lighting drops at night, crowds spike at rush
// hours, crime clusters spatially, and the target combines the signals with
// fixed weights plus Gaussian noise.  Output is deterministic for a given
// seed.
func Generate(cfg GenerateConfig) []Row {
	rng := rand.New(rand.NewSource(cfg.Seed))
	rows := make([]Row, cfg.Rows)

	for i := range rows {
		r := &rows[i]
		r.Lat = MinLat + rng.Float64()*(MaxLat-MinLat)
		r.Lng = MinLng + rng.Float64()*(MaxLng-MinLng)
		r.Hour = rng.Intn(24)
		r.DayOfWeek = rng.Intn(7)

		if isNightHour(r.Hour) {
			r.LightingScore = clip(rng.NormFloat64()*1.5+3, 1, 10)
		} else {
			r.LightingScore = clip(rng.NormFloat64()*2+7, 1, 10)
		}

		if isRushHour(r.Hour) {
			r.CrowdDensity = clip(rng.NormFloat64()*0.15+0.8, 0, 1)
		} else {
			r.CrowdDensity = clip(rng.NormFloat64()*0.2+0.3, 0, 1)
		}

		r.HistoricalCrimeIndex = clip(
			rng.NormFloat64()*0.2+0.5+math.Sin(r.Lat*100)*0.1+math.Cos(r.Lng*100)*0.1, 0, 1)

		r.PoliceDistKm = 0.5 + rng.Float64()*4.5

		if r.CrowdDensity < 0.2 && r.LightingScore < 4 {
			r.IsIsolated = 1
		}
		if rng.Float64() < 0.3 {
			r.NearTransit = 1
		}

		base := 1.0 -
			r.HistoricalCrimeIndex*0.35 -
			(1-r.LightingScore/10)*0.25 -
			float64(r.IsIsolated)*0.15 -
			(r.PoliceDistKm/5.0)*0.10 -
			r.CrowdDensity*0.05

		if isNightHour(r.Hour) {
			base -= 0.10
		}
		if r.NearTransit == 1 {
			base += 0.08
		}
		base += rng.NormFloat64() * 0.04

		r.SafetyScore = clip(base, 0.05, 0.98)
	}

	return rows
}

// csvHeader is the column order of the dataset file, matching the canonical
// feature ordering with coordinates first and the target last.
var csvHeader = []string{
	"lat", "lng",
	"hour", "day_of_week", "lighting_score", "crowd_density",
	"historical_crime_index", "police_dist_km", "is_isolated", "near_transit",
	"safety_score",
}

// WriteCSV streams rows to w in the canonical column order.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, errors.CodeDatasetInvalid, "failed to write CSV header")
	}

	record := make([]string, len(csvHeader))
	for i := range rows {
		r := &rows[i]
		record[0] = formatFloat(r.Lat)
		record[1] = formatFloat(r.Lng)
		record[2] = strconv.Itoa(r.Hour)
		record[3] = strconv.Itoa(r.DayOfWeek)
		record[4] = formatFloat(r.LightingScore)
		record[5] = formatFloat(r.CrowdDensity)
		record[6] = formatFloat(r.HistoricalCrimeIndex)
		record[7] = formatFloat(r.PoliceDistKm)
		record[8] = strconv.Itoa(r.IsIsolated)
		record[9] = strconv.Itoa(r.NearTransit)
		record[10] = formatFloat(r.SafetyScore)
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, errors.CodeDatasetInvalid, "failed to write CSV row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.CodeDatasetInvalid, "failed to flush CSV")
	}
	return nil
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// ReadCSV parses a dataset previously written by WriteCSV.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatasetInvalid, "failed to read CSV header")
	}
	if len(header) != len(csvHeader) {
		return nil, errors.Newf(errors.CodeDatasetInvalid,
			"dataset has %d columns, expected %d", len(header), len(csvHeader))
	}
	for i, col := range header {
		if col != csvHeader[i] {
			return nil, errors.Newf(errors.CodeDatasetInvalid,
				"dataset column %d is %q, expected %q", i, col, csvHeader[i])
		}
	}

	var rows []Row
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeDatasetInvalid, "failed to read CSV row")
		}
		row, err := parseRow(record)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeDatasetInvalid, fmt.Sprintf("line %d", line))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(record []string) (Row, error) {
	var r Row
	var err error

	parse := func(s string) float64 {
		if err != nil {
			return 0
		}
		var v float64
		v, err = strconv.ParseFloat(s, 64)
		return v
	}
	parseInt := func(s string) int {
		if err != nil {
			return 0
		}
		var v int
		v, err = strconv.Atoi(s)
		return v
	}

	r.Lat = parse(record[0])
	r.Lng = parse(record[1])
	r.Hour = parseInt(record[2])
	r.DayOfWeek = parseInt(record[3])
	r.LightingScore = parse(record[4])
	r.CrowdDensity = parse(record[5])
	r.HistoricalCrimeIndex = parse(record[6])
	r.PoliceDistKm = parse(record[7])
	r.IsIsolated = parseInt(record[8])
	r.NearTransit = parseInt(record[9])
	r.SafetyScore = parse(record[10])

	return r, err
}
