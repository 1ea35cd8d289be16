package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// Variant is a named normalization + aggregation recipe. Variants are not
// interchangeable: the same inputs produce different unified scores.
type Variant struct {
	Name          string
	Normalization Normalization
	Standardize   bool
	Aggregation   Aggregation
	// ScoreRange is the nominal range of the unified score.
	ScoreRange Range
}

// Result is the output of one variant computation.
type Result struct {
	Variant      string             `json:"variant"`
	Normalized   map[Bureau]float64 `json:"normalizedScores"`
	Standardized map[Bureau]float64 `json:"standardizedScores,omitempty"`
	Unified      int                `json:"unifiedScore"`
}

const DefaultVariant = "mean"

var variants = map[string]Variant{
	"mean": {
		Name:          "mean",
		Normalization: Normalization{Method: MethodMinMax, Bounds: DefaultRange},
		Aggregation:   Aggregation{Scale: 600, Offset: 300},
		ScoreRange:    DefaultRange,
	},
	"zscore": {
		Name:          "zscore",
		Normalization: Normalization{Method: MethodMinMax, Bounds: DefaultRange},
		Standardize:   true,
		Aggregation:   Aggregation{Scale: 100, Offset: 700},
		ScoreRange:    DefaultRange,
	},
	"percent": {
		Name:          "percent",
		Normalization: Normalization{Method: MethodMinMaxPercent, Bounds: DefaultRange},
		Aggregation:   Aggregation{Scale: 1},
		ScoreRange:    Range{Min: 0, Max: 100},
	},
	// rescale keeps the x100 of its mean, so unified scores land on [30000,90000].
	"rescale": {
		Name:          "rescale",
		Normalization: Normalization{Method: MethodPercentToRange, Bounds: DefaultRange},
		Aggregation:   Aggregation{Scale: 100},
		ScoreRange:    Range{Min: 30000, Max: 90000},
	},
	"equifax850": {
		Name: "equifax850",
		Normalization: Normalization{
			Method: MethodRangeToRange,
			Bounds: Range{Min: 300, Max: 850},
			Ranges: map[Bureau]Range{Equifax: DefaultRange},
		},
		Aggregation: Aggregation{Scale: 1},
		ScoreRange:  DefaultRange,
	},
	"weighted1000": {
		Name: "weighted1000",
		Normalization: Normalization{
			Method: MethodPerBureau1000,
			Ranges: map[Bureau]Range{
				TransUnion: {Min: 300, Max: 900},
				Experian:   {Min: 300, Max: 850},
				Equifax:    {Min: 280, Max: 850},
				CRIF:       {Min: 300, Max: 900},
			},
		},
		Aggregation: Aggregation{
			Scale: 1,
			Weights: map[Bureau]float64{
				TransUnion: 0.40,
				Experian:   0.35,
				Equifax:    0.25,
				CRIF:       0.25,
			},
		},
		ScoreRange: Range{Min: 0, Max: 1000},
	},
}

// LookupVariant returns the named variant; an empty name selects DefaultVariant.
func LookupVariant(name string) (Variant, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultVariant
	}
	v, ok := variants[key]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return v, nil
}

// VariantNames lists the registered variants in sorted order.
func VariantNames() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InputRange is the range raw scores for b must be supplied in.
func (v Variant) InputRange(b Bureau) Range {
	return v.Normalization.InputRange(b)
}

// Compute normalizes, optionally standardizes and aggregates raw scores.
func (v Variant) Compute(raw map[Bureau]int) (Result, error) {
	if len(raw) == 0 {
		return Result{}, ErrNoScores
	}
	normalized, err := Normalize(raw, v.Normalization)
	if err != nil {
		return Result{}, err
	}
	res := Result{Variant: v.Name, Normalized: normalized}
	values := normalized
	if v.Standardize {
		res.Standardized = Standardize(normalized)
		values = res.Standardized
	}
	unified, err := v.Aggregation.Aggregate(values)
	if err != nil {
		return Result{}, err
	}
	res.Unified = unified
	return res, nil
}
