package bureaus

import (
	"context"
	"fmt"
	"math"

	"credit-backend/internal/profiles"
	"credit-backend/internal/scoring"
)

// Native ranges of the factor models.
var (
	CIBILRange    = scoring.Range{Min: 300, Max: 900}
	ExperianRange = scoring.Range{Min: 300, Max: 850}
	EquifaxRange  = scoring.Range{Min: 280, Max: 850}
)

// Breakdown is a factor-model score with its weighted components.
type Breakdown struct {
	Score      int            `json:"score"`
	Range      scoring.Range  `json:"range"`
	Components map[string]int `json:"components"`
}

type factors struct {
	paymentHistory, utilization, creditMix, historyLength, inquiries, other float64
}

func (f factors) total() float64 {
	return f.paymentHistory + f.utilization + f.creditMix + f.historyLength + f.inquiries + f.other
}

func (f factors) components() map[string]int {
	return map[string]int{
		"paymentHistory": roundInt(f.paymentHistory),
		"utilization":    roundInt(f.utilization),
		"creditMix":      roundInt(f.creditMix),
		"historyLength":  roundInt(f.historyLength),
		"inquiries":      roundInt(f.inquiries),
		"otherFactors":   roundInt(f.other),
	}
}

// paymentScore is the share of timely payments, 0-100. No history scores 0.
func paymentScore(p profiles.PaymentHistory) float64 {
	if p.Total() <= 0 {
		return 0
	}
	return float64(p.TimelyPayments) / float64(p.Total()) * 100
}

func cleanRecord(c profiles.CreditHistory) bool {
	return c.RecentCreditBehavior == "Good" && !c.HasNegativeRemarks()
}

// CIBILScore applies the CIBIL-style factor model (300-900).
func CIBILScore(p profiles.BorrowerProfile) Breakdown {
	c := p.Credit
	other := 70.0
	if cleanRecord(c) {
		other = 100
	}
	f := factors{
		paymentHistory: paymentScore(c.PaymentHistory) * 0.35,
		utilization:    math.Max(0, 100-c.CreditUtilizationRatio*100) * 0.30,
		creditMix:      math.Min(100, float64(len(c.CreditMix))*33.33) * 0.15,
		historyLength:  math.Min(100, c.LengthOfCreditHistory/7*100) * 0.15,
		inquiries:      math.Max(0, 100-float64(c.HardInquiriesCount)*20) * 0.05,
		other:          other * 0.05,
	}
	return finish(f, CIBILRange, 6)
}

// ExperianScore applies the Experian-style factor model (300-850).
func ExperianScore(p profiles.BorrowerProfile) Breakdown {
	c := p.Credit
	var util float64
	switch r := c.CreditUtilizationRatio; {
	case r <= 0.1:
		util = 100
	case r <= 0.3:
		util = 90
	case r <= 0.5:
		util = 70
	case r <= 0.7:
		util = 50
	default:
		util = 30
	}

	var other float64
	switch dti := p.DebtToIncome(); {
	case dti <= 0.2:
		other = 100
	case dti <= 0.36:
		other = 90
	case dti <= 0.42:
		other = 75
	case dti <= 0.5:
		other = 60
	default:
		other = 40
	}
	if c.RecentCreditBehavior == "Good" {
		other = math.Min(100, other+10)
	}
	if !c.HasNegativeRemarks() {
		other = math.Min(100, other+10)
	}

	f := factors{
		paymentHistory: paymentScore(c.PaymentHistory) * 0.35,
		utilization:    util * 0.30,
		creditMix:      math.Min(100, float64(len(c.CreditMix))*33.33) * 0.10,
		historyLength:  math.Min(100, c.LengthOfCreditHistory/8*100) * 0.15,
		inquiries:      math.Max(0, 100-float64(c.HardInquiriesCount)*15) * 0.05,
		other:          other * 0.05,
	}
	return finish(f, ExperianRange, 5.5)
}

// EquifaxScore applies the Equifax-style factor model (280-850). Late
// payments are penalized twice and unbalanced credit mixes lose points.
func EquifaxScore(p profiles.BorrowerProfile) Breakdown {
	c := p.Credit
	payment := paymentScore(c.PaymentHistory) - float64(c.PaymentHistory.LatePayments)*5

	var util float64
	switch r := c.CreditUtilizationRatio; {
	case r <= 0.1:
		util = 100
	case r <= 0.25:
		util = 90
	case r <= 0.4:
		util = 75
	case r <= 0.6:
		util = 55
	default:
		util = 35
	}

	mixCount := len(c.CreditMix)
	mix := math.Min(100, float64(mixCount)*33)
	if v := mixVariation(c); v > 1 {
		mix -= math.Min(30, v*10)
	}

	other := 70.0
	switch dti := p.DebtToIncome(); {
	case dti <= 0.2:
		other += 20
	case dti <= 0.36:
		other += 15
	case dti <= 0.43:
		other += 5
	default:
		other -= 10
	}
	if c.RecentCreditBehavior == "Good" {
		other += 10
	}
	if !c.HasNegativeRemarks() {
		other += 10
	}
	other = math.Min(100, other)

	f := factors{
		paymentHistory: payment * 0.35,
		utilization:    util * 0.30,
		creditMix:      mix * 0.10,
		historyLength:  math.Min(100, c.LengthOfCreditHistory/7*100) * 0.15,
		inquiries:      math.Max(0, 100-float64(c.HardInquiriesCount)*17) * 0.05,
		other:          other * 0.05,
	}
	return finish(f, EquifaxRange, 5.7)
}

// mixVariation is the mean relative deviation of loan amounts from their average.
func mixVariation(c profiles.CreditHistory) float64 {
	n := len(c.CreditMix)
	if n <= 1 {
		return 0
	}
	var total float64
	for _, amount := range c.CreditMix {
		v, _ := amount.Float64()
		total += v
	}
	avg := total / float64(n)
	if avg == 0 {
		return 0
	}
	var sum float64
	for _, amount := range c.CreditMix {
		v, _ := amount.Float64()
		sum += math.Abs(v-avg) / avg
	}
	return sum / float64(n)
}

func finish(f factors, r scoring.Range, multiplier float64) Breakdown {
	score := scoring.Clamp(roundInt(float64(r.Min)+f.total()*multiplier), r)
	return Breakdown{Score: score, Range: r, Components: f.components()}
}

func roundInt(v float64) int { return int(math.Round(v)) }

// ModelFor picks the factor model for a bureau. CRIF and TransUnion use the
// CIBIL model.
func ModelFor(b scoring.Bureau) func(profiles.BorrowerProfile) Breakdown {
	switch b {
	case scoring.Experian:
		return ExperianScore
	case scoring.Equifax:
		return EquifaxScore
	default:
		return CIBILScore
	}
}

// CalculatorSource scores a generated borrower profile with the per-bureau
// factor models and rescales the result onto the requested range.
type CalculatorSource struct {
	Profiles profiles.Generator
}

func (CalculatorSource) Name() string { return "calculator" }

func (s CalculatorSource) Fetch(ctx context.Context, subject profiles.Subject, bureau scoring.Bureau, valid scoring.Range) (int, error) {
	if s.Profiles == nil {
		return 0, fmt.Errorf("calculator source has no profile generator")
	}
	profile, err := s.Profiles.Generate(ctx, subject)
	if err != nil {
		return 0, err
	}
	b := ModelFor(bureau)(profile)
	return scoring.Rescale(b.Score, b.Range, valid)
}

var _ Source = CalculatorSource{}
