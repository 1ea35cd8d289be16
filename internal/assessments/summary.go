package assessments

import (
	"math"
	"sort"
	"strings"

	"credit-backend/internal/profiles"
)

func summarize(profile profiles.BorrowerProfile, subject profiles.Subject, a UnifiedAssessment) CreditSummary {
	c := profile.Credit
	name := a.BorrowerName
	if name == "" {
		name = profile.Personal.Name
	}

	// Every listed credit type counts, including zero balances.
	types := make([]string, 0, len(c.CreditMix))
	for kind := range c.CreditMix {
		types = append(types, kind)
	}
	sort.Strings(types)
	percentage := utilizationPercent(c.CreditUtilizationRatio)

	remarks := strings.TrimSpace(c.NegativeRemarks)
	if remarks == "" {
		remarks = "None"
	}

	return CreditSummary{
		PersonalInfo: PersonalInfo{
			Name:          name,
			AadhaarNumber: subject.MaskedAadhaar(),
			PanNumber:     subject.MaskedPAN(),
		},
		Scores: a,
		CreditUtilization: Utilization{
			Ratio:      c.CreditUtilizationRatio,
			Percentage: percentage,
			Impact:     utilizationImpact(percentage),
		},
		RepaymentHistory: Repayment{
			TotalPayments:  c.PaymentHistory.Total(),
			TimelyPayments: c.PaymentHistory.TimelyPayments,
			LatePayments:   c.PaymentHistory.LatePayments,
			Impact:         repaymentImpact(c.PaymentHistory.LatePayments),
		},
		CreditMix: Mix{
			Types:  types,
			Count:  len(types),
			Impact: mixImpact(len(types)),
		},
		HardInquiries: Inquiries{
			Count:  c.HardInquiriesCount,
			Impact: inquiriesImpact(c.HardInquiriesCount),
		},
		NegativeRemarks: Remarks{
			Remarks: remarks,
			Impact:  remarksImpact(c),
		},
		RiskProfile: a.RiskProfile,
	}
}

// utilizationPercent is the ratio as a whole percentage, rounded half up.
func utilizationPercent(ratio float64) int {
	return int(math.Floor(ratio*100 + 0.5))
}

func utilizationImpact(percent int) string {
	switch {
	case percent <= 30:
		return "Good"
	case percent <= 50:
		return "Moderate"
	default:
		return "Poor"
	}
}

func repaymentImpact(late int) string {
	switch {
	case late == 0:
		return "No Impact"
	case late <= 1:
		return "Minor Impact"
	case late <= 3:
		return "Moderate Impact"
	default:
		return "Severe Impact"
	}
}

func mixImpact(count int) string {
	switch {
	case count >= 3:
		return "Positive"
	case count == 2:
		return "Neutral"
	default:
		return "Negative"
	}
}

func inquiriesImpact(count int) string {
	switch {
	case count <= 1:
		return "No Impact"
	case count <= 3:
		return "Minor Impact"
	case count <= 5:
		return "Moderate Impact"
	default:
		return "Severe Impact"
	}
}

func remarksImpact(c profiles.CreditHistory) string {
	if c.HasNegativeRemarks() {
		return "Severe Impact"
	}
	return "No Impact"
}
