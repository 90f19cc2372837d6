package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPredict/internal/domain/models"
)

const validCSV = `date,open,high,low,close,volume,Name
2013-02-08,15.07,15.12,14.63,14.75,8407500,AAL
2013-02-11,14.89,15.01,14.26,14.46,8882000,AAL
2013-02-08,67.7142,68.4014,66.8928,67.8542,158168416,AAPL
`

func load(t *testing.T, body string, maxRows int) (models.Dataset, error) {
	t.Helper()
	return NewCSVLoader(maxRows).Load(context.Background(), strings.NewReader(body))
}

func TestLoadValid(t *testing.T) {
	ds, err := load(t, validCSV, 0)
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, 0, ds.DroppedRows)

	first := ds.Rows[0]
	assert.Equal(t, "AAL", first.Name)
	assert.Equal(t, time.Date(2013, 2, 8, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 15.07, first.Open)
	assert.Equal(t, 15.12, first.High)
	assert.Equal(t, 14.63, first.Low)
	assert.Equal(t, 14.75, first.Close)
	assert.Equal(t, 8407500.0, first.Volume)
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "AAPL", ds.Rows[2].Name)
}

func TestLoadColumnsByNameNotPosition(t *testing.T) {
	body := "Name,volume,close,low,high,open,date\nXYZ,10,4,3,5,3.5,2020-01-02\n"
	ds, err := load(t, body, 0)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	r := ds.Rows[0]
	assert.Equal(t, "XYZ", r.Name)
	assert.Equal(t, 3.5, r.Open)
	assert.Equal(t, 5.0, r.High)
	assert.Equal(t, 3.0, r.Low)
	assert.Equal(t, 4.0, r.Close)
	assert.Equal(t, 10.0, r.Volume)
}

func TestLoadDropsMissing(t *testing.T) {
	body := `date,open,high,low,close,volume,name
2013-02-08,15.07,15.12,14.63,14.75,8407500,AAL
2013-02-11,,15.01,14.26,14.46,8882000,AAL
2013-02-12,14.45,NaN,14.13,14.27,8126000,AAL
,14.30,14.94,14.25,14.66,10259500,AAL
2013-02-14,14.94,14.96,13.16,13.99,31879900,
2013-02-15,13.93,14.61,13.93,14.5,15628000,AAL
`
	ds, err := load(t, body, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, 4, ds.DroppedRows)
	assert.Equal(t, 7, ds.Rows[1].Line)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		malformed  bool
		unreadable bool
	}{
		{
			name:      "missing column",
			body:      "date,open,high,low,close,name\n2013-02-08,1,2,0.5,1.5,AAL\n",
			malformed: true,
		},
		{
			name:      "bad date",
			body:      "date,open,high,low,close,volume,name\nnot-a-date,1,2,0.5,1.5,10,AAL\n",
			malformed: true,
		},
		{
			name:      "bad number",
			body:      "date,open,high,low,close,volume,name\n2013-02-08,one,2,0.5,1.5,10,AAL\n",
			malformed: true,
		},
		{
			name:       "empty input",
			body:       "",
			unreadable: true,
		},
		{
			name:       "ragged rows",
			body:       "date,open,high,low,close,volume,name\n2013-02-08,1,2\n",
			unreadable: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.body, 0)
			require.Error(t, err)
			assert.Equal(t, tt.malformed, models.IsMalformed(err), err.Error())
			assert.Equal(t, tt.unreadable, IsUnreadable(err), err.Error())
		})
	}
}

func TestLoadBadDateReportsLine(t *testing.T) {
	body := "date,open,high,low,close,volume,name\n2013-02-08,1,2,0.5,1.5,10,AAL\n2013-99-99,1,2,0.5,1.5,10,AAL\n"
	_, err := load(t, body, 0)
	var me *models.MalformedInputError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "date", me.Column)
	assert.Equal(t, 3, me.Line)
	assert.Equal(t, "2013-99-99", me.Value)
}

func TestLoadRejectsNonFinite(t *testing.T) {
	for _, raw := range []string{"Inf", "+Inf", "-inf", "infinity"} {
		t.Run(raw, func(t *testing.T) {
			body := "date,open,high,low,close,volume,name\n2013-02-08,1,2,0.5,1.5,10,AAL\n2013-02-11,1,2,0.5,1.5," + raw + ",AAL\n"
			_, err := load(t, body, 0)
			var me *models.MalformedInputError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, "volume", me.Column)
			assert.Equal(t, 3, me.Line)
			assert.Equal(t, raw, me.Value)
			assert.Equal(t, "not a finite number", me.Reason)
		})
	}
}

func TestLoadHeaderOnlyIsEmpty(t *testing.T) {
	ds, err := load(t, "date,open,high,low,close,volume,Name\n", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, 0, ds.DroppedRows)
}

func TestLoadHeaderOnlyMissingColumn(t *testing.T) {
	_, err := load(t, "date,open,high,low,close\n", 0)
	require.Error(t, err)
	assert.True(t, models.IsMalformed(err))
}

func TestLoadAllRowsDropped(t *testing.T) {
	body := "date,open,high,low,close,volume,name\n2013-02-08,,,,,,\n2013-02-11,NA,1,1,1,1,AAL\n"
	ds, err := load(t, body, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, 2, ds.DroppedRows)
}

func TestLoadMaxRows(t *testing.T) {
	_, err := load(t, validCSV, 2)
	require.Error(t, err)
	assert.True(t, models.IsMalformed(err))

	ds, err := load(t, validCSV, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
}

func TestLoadStripsBOM(t *testing.T) {
	ds, err := load(t, "\ufeff"+validCSV, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
}

func TestLoadCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCSVLoader(0).Load(ctx, strings.NewReader(validCSV))
	require.ErrorIs(t, err, context.Canceled)
}
