package analytics

import (
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"StockPredict/internal/domain/models"
	domsvc "StockPredict/internal/domain/service"
)

const (
	// RegressionColumn is the full-dataset prediction column of the linear model.
	RegressionColumn = "regression_prediction"

	// DefaultTestRatio is the share of rows held out for scoring.
	DefaultTestRatio = 0.25

	minTrainRows = 2
	minTestRows  = 1
	stageRegress = "regression"
)

var errSVDFailed = errors.New("ols: svd factorization did not converge")

// LinearRegressor fits ordinary least squares with intercept on a seeded random split.
type LinearRegressor struct {
	seed      int64
	testRatio float64
}

func NewLinearRegressor(seed int64, testRatio float64) *LinearRegressor {
	if testRatio <= 0 || testRatio >= 1 {
		testRatio = DefaultTestRatio
	}
	return &LinearRegressor{seed: seed, testRatio: testRatio}
}

func (r *LinearRegressor) Seed() int64        { return r.seed }
func (r *LinearRegressor) TestRatio() float64 { return r.testRatio }

// MinRows is the smallest dataset the split can serve.
func (r *LinearRegressor) MinRows() int {
	for n := 1; ; n++ {
		test := r.testSize(n)
		if n-test >= minTrainRows && test >= minTestRows {
			return n
		}
	}
}

func (r *LinearRegressor) testSize(n int) int {
	return int(math.Ceil(float64(n) * r.testRatio))
}

// Split partitions row indices into train and test sets.
// The permutation only depends on n and the seed.
func (r *LinearRegressor) Split(n int) (train, test []int, err error) {
	testN := r.testSize(n)
	if n == 0 || n-testN < minTrainRows || testN < minTestRows {
		return nil, nil, &models.InsufficientDataError{Stage: stageRegress, Need: r.MinRows(), Have: n}
	}
	perm := rand.New(rand.NewSource(r.seed)).Perm(n)
	return perm[testN:], perm[:testN], nil
}

// Fit trains on the train partition and scores on the test partition.
func (r *LinearRegressor) Fit(ds models.Dataset) (models.RegressionResult, error) {
	train, test, err := r.Split(ds.Len())
	if err != nil {
		return models.RegressionResult{}, err
	}

	x := make([][]float64, len(train))
	y := make([]float64, len(train))
	for k, i := range train {
		x[k] = ds.Rows[i].Features()
		y[k] = ds.Rows[i].Close
	}
	coef, intercept, err := FitOLS(x, y)
	if err != nil {
		return models.RegressionResult{}, err
	}

	full := models.NewColumn(RegressionColumn, ds.Len())
	for i, row := range ds.Rows {
		full.Set(i, intercept+floats.Dot(coef, row.Features()))
	}

	actual := make([]float64, len(test))
	predicted := make([]float64, len(test))
	for k, i := range test {
		actual[k] = ds.Rows[i].Close
		predicted[k] = full.Values[i]
	}
	mae, _ := MeanAbsoluteError(actual, predicted)

	return models.RegressionResult{
		Coefficients:    coef,
		Intercept:       intercept,
		TrainIndices:    train,
		TestIndices:     test,
		TestPredictions: predicted,
		Full:            full,
		MAE:             mae,
	}, nil
}

// FitOLS returns the minimum-norm least squares coefficients and intercept for y ~ x.
// Inputs are centered so the intercept is not penalized; rank-deficient designs are
// handled by discarding singular values below the numerical cutoff.
func FitOLS(x [][]float64, y []float64) ([]float64, float64, error) {
	m := len(x)
	if m == 0 || m != len(y) {
		return nil, 0, &models.InsufficientDataError{Stage: stageRegress, Need: 1, Have: m}
	}
	p := len(x[0])

	xMean := make([]float64, p)
	col := make([]float64, m)
	for j := 0; j < p; j++ {
		for i := 0; i < m; i++ {
			col[i] = x[i][j]
		}
		xMean[j] = stat.Mean(col, nil)
	}
	yMean := stat.Mean(y, nil)

	a := mat.NewDense(m, p, nil)
	b := mat.NewVecDense(m, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < p; j++ {
			a.Set(i, j, x[i][j]-xMean[j])
		}
		b.SetVec(i, y[i]-yMean)
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, 0, errSVDFailed
	}
	s := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	cutoff := 0.0
	if len(s) > 0 {
		cutoff = float64(max(m, p)) * s[0] * 2.220446049250313e-16
	}

	var utb mat.VecDense
	utb.MulVec(u.T(), b)
	for i, sv := range s {
		if sv > cutoff {
			utb.SetVec(i, utb.AtVec(i)/sv)
		} else {
			utb.SetVec(i, 0)
		}
	}
	var beta mat.VecDense
	beta.MulVec(&v, &utb)

	coef := make([]float64, p)
	for j := range coef {
		coef[j] = beta.AtVec(j)
	}
	return coef, yMean - floats.Dot(xMean, coef), nil
}

var _ domsvc.Regressor = (*LinearRegressor)(nil)
