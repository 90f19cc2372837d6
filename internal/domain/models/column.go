package models

// Column is a row-aligned series of values where Valid[i] == false marks a null.
type Column struct {
	Name   string
	Values []float64
	Valid  []bool
}

// NewColumn returns a column of n null values.
func NewColumn(name string, n int) Column {
	return Column{Name: name, Values: make([]float64, n), Valid: make([]bool, n)}
}

// DenseColumn wraps fully populated values.
func DenseColumn(name string, values []float64) Column {
	valid := make([]bool, len(values))
	for i := range valid {
		valid[i] = true
	}
	return Column{Name: name, Values: values, Valid: valid}
}

func (c Column) Len() int { return len(c.Values) }

// Set stores v at i and marks it present.
func (c Column) Set(i int, v float64) {
	c.Values[i] = v
	c.Valid[i] = true
}

// At returns the value at i and whether it is present.
func (c Column) At(i int) (float64, bool) {
	if i < 0 || i >= len(c.Values) || !c.Valid[i] {
		return 0, false
	}
	return c.Values[i], true
}

// Count returns the number of present values.
func (c Column) Count() int {
	n := 0
	for _, ok := range c.Valid {
		if ok {
			n++
		}
	}
	return n
}
