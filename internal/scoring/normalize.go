package scoring

import (
	"fmt"
	"math"
)

// Method names a normalization policy.
type Method string

const (
	// MethodMinMax maps [Bounds.Min,Bounds.Max] onto [0,1].
	MethodMinMax Method = "minmax"
	// MethodMinMaxPercent maps [Bounds.Min,Bounds.Max] onto [0,100].
	MethodMinMaxPercent Method = "minmax_percent"
	// MethodPercentToRange treats inputs as 0-100 and maps them onto Bounds.
	MethodPercentToRange Method = "percent_to_range"
	// MethodRangeToRange rescales bureaus listed in Ranges onto Bounds and
	// passes the others through unchanged.
	MethodRangeToRange Method = "range_to_range"
	// MethodPerBureau1000 maps each bureau from its own range onto 0-1000.
	MethodPerBureau1000 Method = "per_bureau_1000"
)

var percentRange = Range{Min: 0, Max: 100}

// Normalization is an explicit normalization policy.
type Normalization struct {
	Method Method
	// Bounds is the input range for the min-max methods and the target range
	// for percent_to_range and range_to_range.
	Bounds Range
	// Ranges holds native per-bureau ranges for range_to_range and
	// per_bureau_1000. Bureaus without an entry use DefaultRange.
	Ranges map[Bureau]Range
}

// InputRange is the range a raw score for bureau must fall in under n.
func (n Normalization) InputRange(b Bureau) Range {
	switch n.Method {
	case MethodPercentToRange:
		return percentRange
	case MethodRangeToRange, MethodPerBureau1000:
		if r, ok := n.Ranges[b]; ok {
			return r
		}
		return DefaultRange
	default:
		if n.Bounds.Valid() {
			return n.Bounds
		}
		return DefaultRange
	}
}

// MinMax maps x from r onto [0,1].
func MinMax(x float64, r Range) (float64, error) {
	if !r.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrDegenerateRange, r)
	}
	if x < float64(r.Min) || x > float64(r.Max) {
		return 0, fmt.Errorf("%w: %v not in %s", ErrScoreOutOfRange, x, r)
	}
	return (x - float64(r.Min)) / float64(r.Span()), nil
}

// RescaleFloat maps x linearly from one range onto another.
func RescaleFloat(x float64, from, to Range) (float64, error) {
	unit, err := MinMax(x, from)
	if err != nil {
		return 0, err
	}
	return float64(to.Min) + unit*float64(to.Span()), nil
}

// Rescale maps an integer score between ranges, rounding to the nearest integer.
func Rescale(x int, from, to Range) (int, error) {
	if from == to {
		return x, nil
	}
	v, err := RescaleFloat(float64(x), from, to)
	if err != nil {
		return 0, err
	}
	return int(math.Round(v)), nil
}

// Normalize applies n to raw scores. Bureaus absent from raw are skipped.
func Normalize(raw map[Bureau]int, n Normalization) (map[Bureau]float64, error) {
	out := make(map[Bureau]float64, len(raw))
	for b, score := range raw {
		v, err := normalizeOne(b, float64(score), n)
		if err != nil {
			return nil, fmt.Errorf("normalize %s: %w", b, err)
		}
		out[b] = v
	}
	return out, nil
}

func normalizeOne(b Bureau, x float64, n Normalization) (float64, error) {
	switch n.Method {
	case MethodMinMax:
		return MinMax(x, n.Bounds)
	case MethodMinMaxPercent:
		v, err := MinMax(x, n.Bounds)
		return v * 100, err
	case MethodPercentToRange:
		if !n.Bounds.Valid() {
			return 0, fmt.Errorf("%w: %s", ErrDegenerateRange, n.Bounds)
		}
		return RescaleFloat(x, percentRange, n.Bounds)
	case MethodRangeToRange:
		from, ok := n.Ranges[b]
		if !ok {
			return x, nil
		}
		return RescaleFloat(x, from, n.Bounds)
	case MethodPerBureau1000:
		v, err := MinMax(x, n.InputRange(b))
		if err != nil {
			return 0, err
		}
		return math.Round(v * 1000), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, n.Method)
	}
}
