package models

import "time"

// Observation is one daily OHLCV row for a single security.
type Observation struct {
	Name   string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Line   int // 1-based line in the uploaded file
}

// Features returns the regression inputs (open, high, low, volume).
func (o Observation) Features() []float64 {
	return []float64{o.Open, o.High, o.Low, o.Volume}
}

// Dataset is the loaded upload in upload row order.
// It is never mutated after loading; stages return new columns instead.
type Dataset struct {
	Rows        []Observation
	DroppedRows int
}

func (d Dataset) Len() int { return len(d.Rows) }

// Closes returns the target column.
func (d Dataset) Closes() []float64 {
	out := make([]float64, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r.Close
	}
	return out
}

// Groups returns row indices per security, in upload order, and the names in first-seen order.
func (d Dataset) Groups() (map[string][]int, []string) {
	idx := make(map[string][]int)
	names := make([]string, 0)
	for i, r := range d.Rows {
		if _, ok := idx[r.Name]; !ok {
			names = append(names, r.Name)
		}
		idx[r.Name] = append(idx[r.Name], i)
	}
	return idx, names
}

// Head returns at most n rows from the start of the dataset.
func (d Dataset) Head(n int) []Observation {
	if n < 0 {
		n = 0
	}
	if n > len(d.Rows) {
		n = len(d.Rows)
	}
	return d.Rows[:n]
}
