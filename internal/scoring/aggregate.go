package scoring

import "math"

// Aggregation combines normalized values into one unified score:
// round(mean*Scale + Offset).
type Aggregation struct {
	// Weights switches to a weighted mean. Bureaus without a positive weight
	// are ignored. Nil means an arithmetic mean.
	Weights map[Bureau]float64
	Scale   float64
	Offset  float64
}

// Mean returns the arithmetic or weighted mean of values.
func Mean(values map[Bureau]float64, weights map[Bureau]float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrNoScores
	}
	if weights == nil {
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values)), nil
	}
	var sum, total float64
	for b, v := range values {
		w := weights[b]
		if w <= 0 {
			continue
		}
		sum += v * w
		total += w
	}
	if total == 0 {
		return 0, ErrNoScores
	}
	return sum / total, nil
}

// Aggregate reduces values to a unified score.
func (a Aggregation) Aggregate(values map[Bureau]float64) (int, error) {
	mean, err := Mean(values, a.Weights)
	if err != nil {
		return 0, err
	}
	scale := a.Scale
	if scale == 0 {
		scale = 1
	}
	return int(math.Round(mean*scale + a.Offset)), nil
}
