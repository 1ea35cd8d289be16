package profiles

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

var (
	loanTypes       = []string{"home_loan", "car_loan", "personal_loan", "credit_card", "education_loan", "gold_loan"}
	behaviors       = []string{"Good", "Good", "Good", "Average", "Poor"}
	negativeRemarks = []string{"None", "None", "None", "None", "Late payment reported", "Settled account", "Written off card"}

	dobFrom = time.Date(1965, time.January, 1, 0, 0, 0, 0, time.UTC)
	dobTo   = time.Date(2000, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// FakeGenerator builds profiles from gofakeit seeded by the subject, so the
// same Aadhaar/PAN pair always yields the same borrower.
type FakeGenerator struct{}

// NewFakeGenerator constructs a FakeGenerator.
func NewFakeGenerator() FakeGenerator { return FakeGenerator{} }

// Generate returns a deterministic synthetic profile.
func (FakeGenerator) Generate(ctx context.Context, subject Subject) (BorrowerProfile, error) {
	if err := ctx.Err(); err != nil {
		return BorrowerProfile{}, err
	}
	f := gofakeit.New(SeedFor(subject))

	income := f.Number(300000, 2000000)
	mixCount := f.Number(1, 4)
	mix := make(map[string]decimal.Decimal, mixCount)
	for len(mix) < mixCount {
		loan := f.RandomString(loanTypes)
		mix[loan] = decimal.NewFromInt(int64(f.Number(20000, 2500000)))
	}

	profile := BorrowerProfile{
		Personal: PersonalData{
			Name:         f.Name(),
			DateOfBirth:  f.DateRange(dobFrom, dobTo).Format("2006-01-02"),
			Address:      f.Street() + ", " + f.City() + " " + f.Zip(),
			PhoneNumber:  f.Phone(),
			Email:        f.Email(),
			AnnualIncome: decimal.NewFromInt(int64(income)),
		},
		Credit: CreditHistory{
			PaymentHistory: PaymentHistory{
				TimelyPayments: f.Number(12, 72),
				LatePayments:   f.Number(0, 6),
			},
			CreditUtilizationRatio: round2(f.Float64Range(0.05, 0.9)),
			CreditMix:              mix,
			LengthOfCreditHistory:  float64(f.Number(1, 15)),
			HardInquiriesCount:     f.Number(0, 7),
			OutstandingDebt:        decimal.NewFromInt(int64(f.Number(0, income*6/10))),
			RecentCreditBehavior:   f.RandomString(behaviors),
			NegativeRemarks:        f.RandomString(negativeRemarks),
		},
	}
	return attachIdentity(profile, subject), nil
}

// SeedFor derives a non-zero PRNG seed from the subject.
func SeedFor(subject Subject) uint64 {
	sum := sha256.Sum256([]byte(subject.Key()))
	seed := binary.BigEndian.Uint64(sum[:8])
	if seed == 0 {
		seed = 1
	}
	return seed
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var _ Generator = FakeGenerator{}
