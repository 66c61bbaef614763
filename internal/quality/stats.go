package quality

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"sensorprep/pkg/contracts/domain"
)

// DefaultIQRMultiplier is the Tukey fence width
const DefaultIQRMultiplier = 1.5

// Quantile returns the p-quantile of sorted by linear interpolation between
// closest ranks. It returns NaN for empty input.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// Describe computes count, mean, sample std, min, quartiles and max. values is
// sorted in place.
func Describe(values []float64) domain.NumericStats {
	slices.Sort(values)
	s := domain.NumericStats{Count: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	s.Mean, s.Std = stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		s.Std = math.NaN()
	}
	s.Min = values[0]
	s.Max = values[len(values)-1]
	s.Q1 = Quantile(values, 0.25)
	s.Median = Quantile(values, 0.5)
	s.Q3 = Quantile(values, 0.75)
	return s
}

// Outliers counts values outside [Q1 - k*IQR, Q3 + k*IQR]. sorted must be in
// ascending order; the percentage is of rows, missing cells included.
func Outliers(sorted []float64, k float64, rows int) domain.OutlierSummary {
	q1 := Quantile(sorted, 0.25)
	q3 := Quantile(sorted, 0.75)
	iqr := q3 - q1
	o := domain.OutlierSummary{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - k*iqr,
		Upper: q3 + k*iqr,
	}
	for _, v := range sorted {
		if v < o.Lower || v > o.Upper {
			o.Count++
		}
	}
	if rows > 0 {
		o.Percentage = float64(o.Count) / float64(rows) * 100
	}
	return o
}

// Histogram buckets sorted values into equal-width bins spanning min to max.
// NaN and infinite values are left out.
func Histogram(sorted []float64, bins int) []domain.HistogramBin {
	sorted = finite(sorted)
	if len(sorted) == 0 || bins < 1 {
		return nil
	}
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		bins = 1
	}

	dividers := make([]float64, bins+1)
	if bins == 1 {
		dividers[0], dividers[1] = lo, hi
	} else {
		floats.Span(dividers, lo, hi)
	}
	// the top divider is exclusive
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	out := make([]domain.HistogramBin, bins)
	for i := range out {
		out[i] = domain.HistogramBin{
			Low:   dividers[i],
			High:  dividers[i+1],
			Count: int(counts[i]),
		}
	}
	out[bins-1].High = hi
	return out
}

// finite returns the finite values of sorted, keeping their order
func finite(sorted []float64) []float64 {
	out := make([]float64, 0, len(sorted))
	for _, v := range sorted {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
