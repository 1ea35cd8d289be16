package scoring

import "math"

// RiskLevel is the coarse risk label derived from a unified score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// Thresholds are inclusive lower bounds for the Low and Moderate levels.
type Thresholds struct {
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
}

// DefaultThresholds classifies >=700 as Low and >=600 as Moderate.
var DefaultThresholds = Thresholds{Low: 700, Moderate: 600}

// Risk is a classified risk level with its display label and color.
type Risk struct {
	Level RiskLevel `json:"level"`
	Label string    `json:"label"`
	Color string    `json:"color"`
}

// Classify maps a unified score (300-900 scale) to a risk level.
func (t Thresholds) Classify(score int) Risk {
	switch {
	case score >= t.Low:
		return Risk{Level: RiskLow, Label: "Low Risk", Color: "green"}
	case score >= t.Moderate:
		return Risk{Level: RiskModerate, Label: "Moderate Risk", Color: "yellow"}
	default:
		return Risk{Level: RiskHigh, Label: "High Risk", Color: "red"}
	}
}

// Valid reports whether the thresholds are ordered.
func (t Thresholds) Valid() bool { return t.Low > t.Moderate }

// RiskProfile describes a score on the 0-1000 scale.
func RiskProfile(score1000 int) string {
	switch {
	case score1000 >= 800:
		return "Very Low Risk - Excellent for Premium Credit Products"
	case score1000 >= 750:
		return "Low Risk - Eligible for Most Loans & Credit Cards"
	case score1000 >= 650:
		return "Low to Medium Risk - Good Chances for Loan Approval"
	case score1000 >= 550:
		return "Medium Risk - May Qualify for Standard Loans"
	case score1000 >= 450:
		return "Medium to High Risk - Limited Credit Options"
	default:
		return "High Risk - Significant Improvement Needed"
	}
}

// Confidence is the share of expected bureaus that reported, as a percentage.
func Confidence(available, expected int) int {
	if expected <= 0 || available <= 0 {
		return 0
	}
	if available > expected {
		available = expected
	}
	return int(math.Round(float64(available) / float64(expected) * 100))
}

// Clamp limits x to r.
func Clamp(x int, r Range) int {
	if x < r.Min {
		return r.Min
	}
	if x > r.Max {
		return r.Max
	}
	return x
}
