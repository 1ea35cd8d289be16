package profiles

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"credit-backend/internal/shared/util"
)

var (
	ErrInvalidAadhaar = errors.New("aadhaar number must be exactly 12 digits")
	ErrInvalidPAN     = errors.New("PAN must be in the format: ABCDE1234F")
)

var (
	aadhaarPattern = regexp.MustCompile(`^\d{12}$`)
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

// Subject identifies the person a lookup is for.
type Subject struct {
	Aadhaar string
	PAN     string
}

// NewSubject trims and upper-cases the identifiers.
func NewSubject(aadhaar, pan string) Subject {
	return Subject{
		Aadhaar: strings.TrimSpace(aadhaar),
		PAN:     strings.ToUpper(strings.TrimSpace(pan)),
	}
}

// Validate checks Aadhaar and PAN formats.
func (s Subject) Validate() error {
	if !aadhaarPattern.MatchString(s.Aadhaar) {
		return ErrInvalidAadhaar
	}
	if !panPattern.MatchString(s.PAN) {
		return ErrInvalidPAN
	}
	return nil
}

// Key is a stable, non-reversible identifier for caching and storage keys.
func (s Subject) Key() string {
	return util.SubjectKey(s.Aadhaar, s.PAN)
}

// MaskedAadhaar returns the Aadhaar with all but the last four digits hidden.
func (s Subject) MaskedAadhaar() string { return util.MaskAadhaar(s.Aadhaar) }

// MaskedPAN returns the PAN with its middle characters hidden.
func (s Subject) MaskedPAN() string { return util.MaskPAN(s.PAN) }

func (s Subject) String() string {
	return fmt.Sprintf("%s/%s", s.MaskedAadhaar(), s.MaskedPAN())
}

// BorrowerProfile is a synthetic borrower with the factors the bureau
// calculators consume.
type BorrowerProfile struct {
	Personal PersonalData  `json:"personal_data"`
	Credit   CreditHistory `json:"credit_score"`
}

type PersonalData struct {
	Name         string          `json:"name"`
	DateOfBirth  string          `json:"date_of_birth"`
	Address      string          `json:"address"`
	PhoneNumber  string          `json:"phone_number"`
	Email        string          `json:"email"`
	AnnualIncome decimal.Decimal `json:"annual_income"`
}

type PaymentHistory struct {
	TimelyPayments int `json:"timely_payments"`
	LatePayments   int `json:"late_payments"`
}

// Total is the number of recorded payments.
func (p PaymentHistory) Total() int { return p.TimelyPayments + p.LatePayments }

type CreditHistory struct {
	AadhaarNumber          string                     `json:"aadhaar_number,omitempty"`
	PANNumber              string                     `json:"pan_number,omitempty"`
	PaymentHistory         PaymentHistory             `json:"payment_history"`
	CreditUtilizationRatio float64                    `json:"credit_utilization_ratio"`
	CreditMix              map[string]decimal.Decimal `json:"credit_mix"`
	LengthOfCreditHistory  float64                    `json:"length_of_credit_history"`
	HardInquiriesCount     int                        `json:"hard_inquiries_count"`
	OutstandingDebt        decimal.Decimal            `json:"outstanding_debt"`
	RecentCreditBehavior   string                     `json:"recent_credit_behavior"`
	NegativeRemarks        string                     `json:"negative_remarks"`
}

// DebtToIncome returns outstanding debt over annual income. Debt without any
// income is reported as +Inf.
func (p BorrowerProfile) DebtToIncome() float64 {
	if !p.Personal.AnnualIncome.IsPositive() {
		if p.Credit.OutstandingDebt.IsPositive() {
			return math.Inf(1)
		}
		return 0
	}
	ratio, _ := p.Credit.OutstandingDebt.Div(p.Personal.AnnualIncome).Float64()
	return ratio
}

// HasNegativeRemarks reports whether the remarks field carries anything but "None".
func (c CreditHistory) HasNegativeRemarks() bool {
	r := strings.TrimSpace(c.NegativeRemarks)
	return r != "" && !strings.EqualFold(r, "none")
}
