package quality

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensorprep/pkg/contracts/domain"
)

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 100}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{0.25, 2},
		{0.5, 3},
		{0.75, 4},
		{1, 100},
		{0.1, 1.4},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Quantile(sorted, tt.p), 1e-9, "p=%v", tt.p)
	}

	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
	assert.Equal(t, 7.0, Quantile([]float64{7}, 0.75))
}

func TestOutliers_IQRFence(t *testing.T) {
	o := Outliers([]float64{1, 2, 3, 4, 100}, DefaultIQRMultiplier, 5)

	assert.Equal(t, 2.0, o.Q1)
	assert.Equal(t, 4.0, o.Q3)
	assert.Equal(t, 2.0, o.IQR)
	assert.Equal(t, -1.0, o.Lower)
	assert.Equal(t, 7.0, o.Upper)
	assert.Equal(t, 1, o.Count)
	assert.InDelta(t, 20.0, o.Percentage, 1e-9)
}

func TestOutliers_PercentageOfRows(t *testing.T) {
	// two missing rows count toward the denominator
	o := Outliers([]float64{1, 2, 3, 4, 100}, DefaultIQRMultiplier, 10)
	assert.InDelta(t, 10.0, o.Percentage, 1e-9)
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{4, 2, 1, 3})

	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-9)
	assert.InDelta(t, 1.2909944487, s.Std, 1e-9)
	assert.Equal(t, 1.0, s.Min)
	assert.InDelta(t, 1.75, s.Q1, 1e-9)
	assert.InDelta(t, 2.5, s.Median, 1e-9)
	assert.InDelta(t, 3.25, s.Q3, 1e-9)
	assert.Equal(t, 4.0, s.Max)
}

func TestDescribe_SmallInputs(t *testing.T) {
	one := Describe([]float64{5})
	assert.Equal(t, 1, one.Count)
	assert.Equal(t, 5.0, one.Mean)
	assert.True(t, math.IsNaN(one.Std))

	empty := Describe(nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))
}

func TestHistogram(t *testing.T) {
	bins := Histogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}, 5)
	require.Len(t, bins, 5)

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 10, total)
	assert.Equal(t, 0.0, bins[0].Low)
	assert.Equal(t, 10.0, bins[4].High)
	assert.Equal(t, 2, bins[0].Count)
	// the maximum lands in the last bin
	assert.Equal(t, 2, bins[4].Count)
}

func TestHistogram_EdgeCases(t *testing.T) {
	assert.Nil(t, Histogram(nil, 10))

	constant := Histogram([]float64{3, 3, 3}, 10)
	require.Len(t, constant, 1)
	assert.Equal(t, domain.HistogramBin{Low: 3, High: 3, Count: 3}, constant[0])

	withInf := Histogram([]float64{math.Inf(-1), 1, 2, math.Inf(1)}, 2)
	require.Len(t, withInf, 2)
	assert.Equal(t, 2, withInf[0].Count+withInf[1].Count)

	// NaN sorts first and must not reach the bin dividers
	withNaN := Histogram([]float64{math.NaN(), 1, 2, 3, 4, 100}, 20)
	require.Len(t, withNaN, 20)
	total := 0
	for _, b := range withNaN {
		assert.False(t, math.IsNaN(b.Low))
		total += b.Count
	}
	assert.Equal(t, 5, total)

	assert.Nil(t, Histogram([]float64{math.NaN()}, 5))
}
