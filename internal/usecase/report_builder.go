package usecase

import (
	"github.com/shopspring/decimal"

	"StockPredict/internal/domain/models"
	"StockPredict/pkg/util"
)

const (
	ChartTitle  = "Model vs Heuristic MAE Comparison"
	ChartYLabel = "Mean Absolute Error"

	messagePrefix = "Model Trained | MAE: "
)

// barColors follows the fixed strategy order.
var barColors = map[string]string{
	models.LabelLinearRegression: "blue",
	models.LabelHeuristic:        "green",
	models.LabelFOL:              "orange",
	models.LabelCSP:              "red",
}

// StrategyOutcome is one scored prediction column.
type StrategyOutcome struct {
	Label  string
	Column models.Column
	MAE    float64
}

// ReportBuilder assembles a Report from already computed stage outputs.
type ReportBuilder struct {
	previewRows int
	sampleRows  int
}

// NewReportBuilder creates a builder; negative sizes are treated as zero.
func NewReportBuilder(previewRows, sampleRows int) *ReportBuilder {
	return &ReportBuilder{previewRows: max(previewRows, 0), sampleRows: max(sampleRows, 0)}
}

// WithSizes returns a builder with different preview and sample sizes.
func (b *ReportBuilder) WithSizes(previewRows, sampleRows int) *ReportBuilder {
	return NewReportBuilder(previewRows, sampleRows)
}

// Build assembles the report. Outcomes are placed in the fixed label order;
// labels without an outcome are omitted.
func (b *ReportBuilder) Build(ds models.Dataset, reg models.RegressionSummary, outcomes []StrategyOutcome) models.Report {
	byLabel := make(map[string]StrategyOutcome, len(outcomes))
	for _, o := range outcomes {
		byLabel[o.Label] = o
	}

	record := make(models.MAERecord, 0, len(models.StrategyLabels))
	for _, label := range models.StrategyLabels {
		if o, ok := byLabel[label]; ok {
			record = append(record, models.MAEEntry{Label: label, Value: o.MAE})
		}
	}

	_, names := ds.Groups()
	samples, total := b.samples(ds, byLabel)

	return models.Report{
		Rows:        ds.Len(),
		DroppedRows: ds.DroppedRows,
		Securities:  len(names),
		Preview:     b.preview(ds),
		Message:     SuccessMessage(reg.MAE),
		Regression:  reg,
		MAE:         record,
		Chart:       BuildChart(record),
		Samples:     samples,
		SampleTotal: total,
	}
}

// SuccessMessage formats the regression MAE to two decimals.
func SuccessMessage(mae float64) string {
	return messagePrefix + decimal.NewFromFloat(mae).StringFixed(2)
}

// UnavailableNote explains a strategy left out of the comparison.
func UnavailableNote(label string) string {
	return label + " MAE unavailable: no row has a prediction to score (every security has a single row)."
}

// BuildChart maps the MAE record onto colored bars.
func BuildChart(record models.MAERecord) models.Chart {
	bars := make([]models.ChartBar, 0, len(record))
	for _, e := range record {
		bars = append(bars, models.ChartBar{Label: e.Label, Value: e.Value, Color: barColors[e.Label]})
	}
	return models.Chart{Title: ChartTitle, YLabel: ChartYLabel, Bars: bars}
}

func (b *ReportBuilder) preview(ds models.Dataset) []models.PreviewRow {
	head := ds.Head(b.previewRows)
	out := make([]models.PreviewRow, 0, len(head))
	for _, r := range head {
		out = append(out, models.PreviewRow{
			Date:   util.FormatDate(r.Date),
			Name:   r.Name,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}
	return out
}

// samples returns the first sampleRows rows where every strategy has a value,
// and the number of such rows overall.
func (b *ReportBuilder) samples(ds models.Dataset, byLabel map[string]StrategyOutcome) ([]models.SampleRow, int) {
	get := func(label string, i int) (float64, bool) {
		o, ok := byLabel[label]
		if !ok {
			return 0, false
		}
		return o.Column.At(i)
	}

	out := make([]models.SampleRow, 0, min(b.sampleRows, ds.Len()))
	total := 0
	for i, r := range ds.Rows {
		lr, ok1 := get(models.LabelLinearRegression, i)
		h, ok2 := get(models.LabelHeuristic, i)
		f, ok3 := get(models.LabelFOL, i)
		c, ok4 := get(models.LabelCSP, i)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		total++
		if len(out) >= b.sampleRows {
			continue
		}
		out = append(out, models.SampleRow{
			Date:             util.FormatDate(r.Date),
			Name:             r.Name,
			Actual:           r.Close,
			LinearRegression: lr,
			Heuristic:        h,
			FOL:              f,
			CSP:              c,
		})
	}
	return out, total
}
