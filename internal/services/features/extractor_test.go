package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPredict/internal/domain/models"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestPrevCloseSortsByDateWithinGroup(t *testing.T) {
	// Upload order is not chronological for AAA.
	ds := models.Dataset{Rows: []models.Observation{
		{Name: "AAA", Date: day(3), Close: 13},
		{Name: "BBB", Date: day(1), Close: 21},
		{Name: "AAA", Date: day(1), Close: 11},
		{Name: "AAA", Date: day(2), Close: 12},
		{Name: "BBB", Date: day(2), Close: 22},
	}}

	col := PrevClose(ds)
	require.Equal(t, ds.Len(), col.Len())

	_, ok := col.At(2)
	assert.False(t, ok, "first AAA day has no previous close")
	_, ok = col.At(1)
	assert.False(t, ok, "first BBB day has no previous close")

	v, ok := col.At(3)
	require.True(t, ok)
	assert.Equal(t, 11.0, v)

	v, ok = col.At(0)
	require.True(t, ok)
	assert.Equal(t, 12.0, v)

	v, ok = col.At(4)
	require.True(t, ok)
	assert.Equal(t, 21.0, v, "lag never crosses securities")
}

func TestPrevCloseSameDayKeepsUploadOrder(t *testing.T) {
	ds := models.Dataset{Rows: []models.Observation{
		{Name: "AAA", Date: day(1), Close: 1},
		{Name: "AAA", Date: day(1), Close: 2},
	}}
	col := PrevClose(ds)
	v, ok := col.At(1)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestAvgVolumePerGroup(t *testing.T) {
	ds := models.Dataset{Rows: []models.Observation{
		{Name: "A", Date: day(1), Volume: 100},
		{Name: "B", Date: day(1), Volume: 1000},
		{Name: "A", Date: day(2), Volume: 200},
		{Name: "B", Date: day(2), Volume: 2000},
		{Name: "A", Date: day(3), Volume: 300},
		{Name: "B", Date: day(3), Volume: 3000},
	}}

	col := AvgVolume(ds)
	for i, r := range ds.Rows {
		v, ok := col.At(i)
		require.True(t, ok)
		if r.Name == "A" {
			assert.InDelta(t, 200.0, v, 1e-9)
		} else {
			assert.InDelta(t, 2000.0, v, 1e-9)
		}
	}
}

func TestFeaturesOnEmptyDataset(t *testing.T) {
	assert.Equal(t, 0, PrevClose(models.Dataset{}).Len())
	assert.Equal(t, 0, AvgVolume(models.Dataset{}).Len())
}
