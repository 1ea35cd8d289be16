package bureaus

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-backend/internal/profiles"
	"credit-backend/internal/scoring"
)

func cleanProfile() profiles.BorrowerProfile {
	return profiles.BorrowerProfile{
		Personal: profiles.PersonalData{
			Name:         "Test Borrower",
			AnnualIncome: decimal.NewFromInt(1000000),
		},
		Credit: profiles.CreditHistory{
			PaymentHistory:         profiles.PaymentHistory{TimelyPayments: 40},
			CreditUtilizationRatio: 0.2,
			CreditMix: map[string]decimal.Decimal{
				"home_loan":     decimal.NewFromInt(100000),
				"car_loan":      decimal.NewFromInt(100000),
				"personal_loan": decimal.NewFromInt(100000),
			},
			LengthOfCreditHistory: 7,
			HardInquiriesCount:    1,
			OutstandingDebt:       decimal.NewFromInt(100000),
			RecentCreditBehavior:  "Good",
			NegativeRemarks:       "None",
		},
	}
}

func TestFactorModels(t *testing.T) {
	p := cleanProfile()

	cibil := CIBILScore(p)
	assert.Equal(t, 888, cibil.Score)
	assert.Equal(t, CIBILRange, cibil.Range)
	assert.Equal(t, map[string]int{
		"paymentHistory": 35,
		"utilization":    24,
		"creditMix":      15,
		"historyLength":  15,
		"inquiries":      4,
		"otherFactors":   5,
	}, cibil.Components)

	assert.Equal(t, 819, ExperianScore(p).Score)
	assert.Equal(t, 827, EquifaxScore(p).Score)
}

func TestFactorModelsPenalizeBadHistory(t *testing.T) {
	p := cleanProfile()
	p.Credit.PaymentHistory = profiles.PaymentHistory{TimelyPayments: 10, LatePayments: 10}
	p.Credit.CreditUtilizationRatio = 0.95
	p.Credit.HardInquiriesCount = 8
	p.Credit.RecentCreditBehavior = "Poor"
	p.Credit.NegativeRemarks = "Written off card"
	p.Credit.OutstandingDebt = decimal.NewFromInt(900000)

	for _, model := range []func(profiles.BorrowerProfile) Breakdown{CIBILScore, ExperianScore, EquifaxScore} {
		clean := model(cleanProfile())
		bad := model(p)
		assert.Less(t, bad.Score, clean.Score)
		assert.True(t, bad.Range.Contains(bad.Score))
	}
}

func TestEquifaxNeverLeavesRange(t *testing.T) {
	p := cleanProfile()
	p.Credit.PaymentHistory = profiles.PaymentHistory{TimelyPayments: 0, LatePayments: 30}
	p.Credit.CreditUtilizationRatio = 1
	p.Credit.CreditMix = nil
	p.Credit.LengthOfCreditHistory = 0
	p.Credit.HardInquiriesCount = 10
	p.Personal.AnnualIncome = decimal.Zero

	b := EquifaxScore(p)
	assert.Equal(t, EquifaxRange.Min, b.Score)
}

func TestModelFor(t *testing.T) {
	p := cleanProfile()
	assert.Equal(t, CIBILScore(p), ModelFor(scoring.CRIF)(p))
	assert.Equal(t, CIBILScore(p), ModelFor(scoring.TransUnion)(p))
	assert.Equal(t, ExperianScore(p), ModelFor(scoring.Experian)(p))
	assert.Equal(t, EquifaxScore(p), ModelFor(scoring.Equifax)(p))
}

type fixedProfiles struct{ p profiles.BorrowerProfile }

func (f fixedProfiles) Generate(ctx context.Context, subject profiles.Subject) (profiles.BorrowerProfile, error) {
	return f.p, nil
}

func TestCalculatorSourceRescalesIntoRequestedRange(t *testing.T) {
	src := CalculatorSource{Profiles: fixedProfiles{p: cleanProfile()}}
	subject := profiles.NewSubject("123456789012", "ABCDE1234F")

	got, err := src.Fetch(context.Background(), subject, scoring.Experian, ExperianRange)
	require.NoError(t, err)
	assert.Equal(t, 819, got)

	got, err = src.Fetch(context.Background(), subject, scoring.Experian, scoring.DefaultRange)
	require.NoError(t, err)
	assert.Equal(t, 866, got)
}
