package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// naTokens are the cell values read as missing, the same set a dataframe
// CSV reader treats as NA by default
var naTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsNA reports whether a cell holds a missing value. Any spelling of NaN
// counts, since it would coerce to a missing float anyway.
func IsNA(value string) bool {
	value = strings.TrimSpace(value)
	if _, ok := naTokens[value]; ok {
		return true
	}
	return strings.EqualFold(strings.TrimLeft(value, "+-"), "nan")
}

// timestampLayouts are tried in order; the first match wins
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"2006/01/02 15:04:05",
	"01/02/2006 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp coerces a cell into a time. Values without a zone are UTC.
// Missing and unparseable values return ok=false.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if IsNA(value) {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseFloat coerces a numeric cell; missing values return ok=false
func ParseFloat(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if IsNA(value) {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// IsInt reports whether a cell is a base-10 integer
func IsInt(value string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	return err == nil
}

// IsBool reports whether a cell is a boolean literal
func IsBool(value string) bool {
	switch strings.TrimSpace(value) {
	case "True", "False", "true", "false", "TRUE", "FALSE":
		return true
	}
	return false
}
