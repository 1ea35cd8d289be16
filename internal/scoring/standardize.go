package scoring

import "math"

// Standardize maps each value to its z-score using the population mean and
// standard deviation. When every value is equal the deviation is zero and all
// z-scores are reported as 0.
func Standardize(values map[Bureau]float64) map[Bureau]float64 {
	out := make(map[Bureau]float64, len(values))
	if len(values) == 0 {
		return out
	}
	mean, std := meanStdDev(values)
	for b, v := range values {
		if std == 0 {
			out[b] = 0
			continue
		}
		out[b] = (v - mean) / std
	}
	return out
}

func meanStdDev(values map[Bureau]float64) (float64, float64) {
	n := float64(len(values))
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	std := math.Sqrt(sq / n)
	// Rounding noise on equal inputs must not count as spread.
	if std < 1e-12 {
		std = 0
	}
	return mean, std
}
