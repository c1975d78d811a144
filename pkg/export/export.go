// Package export serializes sweep records, fitted scaling laws and load
// curves for the presentation layer.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/kilianp07/peakshave/core/fit"
	"github.com/kilianp07/peakshave/core/loadcurve"
	"github.com/kilianp07/peakshave/core/sweep"
)

// StrategyFit pairs a policy name with its fitted scaling law.
type StrategyFit struct {
	Strategy string  `json:"strategy"`
	Fit      fit.Fit `json:"fit"`
}

// WriteRecordsJSON writes the per-strategy records to w in JSON format.
func WriteRecordsJSON(w io.Writer, series []sweep.StrategySeries) error {
	out := make(map[string][]sweep.Record, len(series))
	for _, s := range series {
		out[s.Name] = s.Records
	}
	enc := json.NewEncoder(w)
	return enc.Encode(out)
}

// WriteRecordsCSV writes the per-strategy records to w in CSV format.
func WriteRecordsCSV(w io.Writer, series []sweep.StrategySeries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"strategy", "capacity_mwh", "peak_mw"}); err != nil {
		return err
	}
	for _, s := range series {
		for _, r := range s.Records {
			rec := []string{
				s.Name,
				strconv.FormatFloat(r.CapacityMWh, 'f', -1, 64),
				strconv.FormatFloat(r.PeakMW, 'f', -1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRecordsCSV parses records written by WriteRecordsCSV, grouped by
// strategy name in input order.
func ReadRecordsCSV(r io.Reader) ([]sweep.StrategySeries, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("records csv is empty")
	}
	if len(rows[0]) < 3 || rows[0][0] != "strategy" {
		return nil, fmt.Errorf("unexpected records csv header %v", rows[0])
	}
	var series []sweep.StrategySeries
	index := map[string]int{}
	for i, row := range rows[1:] {
		capacity, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad capacity %q", i+1, row[1])
		}
		peak, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad peak %q", i+1, row[2])
		}
		j, ok := index[row[0]]
		if !ok {
			j = len(series)
			index[row[0]] = j
			series = append(series, sweep.StrategySeries{Name: row[0]})
		}
		series[j].Records = append(series[j].Records, sweep.Record{CapacityMWh: capacity, PeakMW: peak})
	}
	return series, nil
}

// WriteFitsJSON writes the fitted laws to w in JSON format.
func WriteFitsJSON(w io.Writer, fits []StrategyFit) error {
	enc := json.NewEncoder(w)
	return enc.Encode(fits)
}

// WriteFitsCSV writes the fitted laws to w in CSV format.
func WriteFitsCSV(w io.Writer, fits []StrategyFit) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"strategy", "scale", "exponent", "offset", "r_squared"}); err != nil {
		return err
	}
	for _, f := range fits {
		rec := []string{
			f.Strategy,
			strconv.FormatFloat(f.Fit.Scale, 'f', -1, 64),
			strconv.FormatFloat(f.Fit.Exponent, 'f', -1, 64),
			strconv.FormatFloat(f.Fit.Offset, 'f', -1, 64),
			strconv.FormatFloat(f.Fit.RSquared, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCurveCSV writes the load curve to w, one row per sample. When shaved
// is non-nil it must be index-aligned with the curve and adds a third column
// with the post-dispatch values.
func WriteCurveCSV(w io.Writer, c *loadcurve.Curve, shaved []float64) error {
	if shaved != nil && len(shaved) != c.Len() {
		return fmt.Errorf("shaved series has %d samples, curve has %d", len(shaved), c.Len())
	}
	cw := csv.NewWriter(w)
	header := []string{"hour", "load_mw"}
	if shaved != nil {
		header = append(header, "shaved_mw")
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := 0; i < c.Len(); i++ {
		rec := []string{
			strconv.FormatFloat(c.HourAt(i), 'f', -1, 64),
			strconv.FormatFloat(c.At(i), 'f', -1, 64),
		}
		if shaved != nil {
			rec = append(rec, strconv.FormatFloat(shaved[i], 'f', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
