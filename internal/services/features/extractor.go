package features

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"StockPredict/internal/domain/models"
)

// Column names of the derived features.
const (
	PrevCloseColumn = "prev_close"
	AvgVolumeColumn = "avg_volume"
)

// ChronologicalGroups returns, per security, row indices ordered by date.
// The sort is stable so same-day rows keep their upload order.
func ChronologicalGroups(ds models.Dataset) map[string][]int {
	groups, _ := ds.Groups()
	for _, idx := range groups {
		sort.SliceStable(idx, func(a, b int) bool {
			return ds.Rows[idx[a]].Date.Before(ds.Rows[idx[b]].Date)
		})
	}
	return groups
}

// PrevClose computes the previous close within each security.
// The first observation of a security has no previous close and stays null.
func PrevClose(ds models.Dataset) models.Column {
	col := models.NewColumn(PrevCloseColumn, ds.Len())
	for _, idx := range ChronologicalGroups(ds) {
		for k := 1; k < len(idx); k++ {
			col.Set(idx[k], ds.Rows[idx[k-1]].Close)
		}
	}
	return col
}

// AvgVolume broadcasts each security's mean volume to all of its rows.
func AvgVolume(ds models.Dataset) models.Column {
	col := models.NewColumn(AvgVolumeColumn, ds.Len())
	groups, _ := ds.Groups()
	for _, idx := range groups {
		vols := make([]float64, len(idx))
		for k, i := range idx {
			vols[k] = ds.Rows[i].Volume
		}
		mean := stat.Mean(vols, nil)
		for _, i := range idx {
			col.Set(i, mean)
		}
	}
	return col
}
