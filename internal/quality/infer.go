package quality

import (
	"sensorprep/internal/dataset"
	"sensorprep/pkg/contracts/domain"
)

// InferType returns the narrowest type holding every non-missing value
func InferType(values []string) domain.DataType {
	var present, ints, floats, bools int
	missing := false

	for _, v := range values {
		if dataset.IsNA(v) {
			missing = true
			continue
		}
		present++
		switch {
		case dataset.IsInt(v):
			ints++
			floats++
		case dataset.IsBool(v):
			bools++
		default:
			if _, ok := dataset.ParseFloat(v); ok {
				floats++
			}
		}
	}

	switch {
	case present == 0:
		return domain.DataTypeObject
	case ints == present && !missing:
		return domain.DataTypeInt64
	case floats == present:
		return domain.DataTypeFloat64
	case bools == present && !missing:
		return domain.DataTypeBool
	default:
		return domain.DataTypeObject
	}
}

// numericValues returns the parsed non-missing values of a numeric column
func numericValues(values []string) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := dataset.ParseFloat(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// CountMissing counts missing cells
func CountMissing(values []string) int {
	n := 0
	for _, v := range values {
		if dataset.IsNA(v) {
			n++
		}
	}
	return n
}

// CountUnique counts distinct non-missing values
func CountUnique(values []string) int {
	seen := make(map[string]struct{})
	for _, v := range values {
		if dataset.IsNA(v) {
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen)
}
