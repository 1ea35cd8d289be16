package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-backend/internal/llm"
	"credit-backend/internal/shared/cache"
)

func TestSubjectValidate(t *testing.T) {
	tests := []struct {
		name    string
		aadhaar string
		pan     string
		want    error
	}{
		{name: "valid", aadhaar: "123456789012", pan: "ABCDE1234F"},
		{name: "lowercase pan normalized", aadhaar: " 123456789012 ", pan: "abcde1234f"},
		{name: "short aadhaar", aadhaar: "12345678901", pan: "ABCDE1234F", want: ErrInvalidAadhaar},
		{name: "letters in aadhaar", aadhaar: "12345678901A", pan: "ABCDE1234F", want: ErrInvalidAadhaar},
		{name: "bad pan", aadhaar: "123456789012", pan: "ABCD12345F", want: ErrInvalidPAN},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := NewSubject(tt.aadhaar, tt.pan).Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSubjectMasking(t *testing.T) {
	s := NewSubject("123456789012", "ABCDE1234F")
	assert.Equal(t, "XXXX-XXXX-9012", s.MaskedAadhaar())
	assert.Equal(t, "ABXXX1234F", s.MaskedPAN())
	assert.NotContains(t, s.String(), "123456789012")
	assert.Len(t, s.Key(), 64)
}

func TestFakeGeneratorDeterministic(t *testing.T) {
	ctx := context.Background()
	s := NewSubject("123456789012", "ABCDE1234F")

	a, err := NewFakeGenerator().Generate(ctx, s)
	require.NoError(t, err)
	b, err := NewFakeGenerator().Generate(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	assert.NotEmpty(t, a.Personal.Name)
	assert.True(t, a.Personal.AnnualIncome.GreaterThanOrEqual(decimal.NewFromInt(300000)))
	assert.NotEmpty(t, a.Credit.CreditMix)
	assert.GreaterOrEqual(t, a.Credit.CreditUtilizationRatio, 0.05)
	assert.LessOrEqual(t, a.Credit.CreditUtilizationRatio, 0.9)
	assert.Equal(t, "XXXX-XXXX-9012", a.Credit.AadhaarNumber)

	other, err := NewFakeGenerator().Generate(ctx, NewSubject("999988887777", "ZZZZZ9999Z"))
	require.NoError(t, err)
	assert.NotEqual(t, SeedFor(s), SeedFor(NewSubject("999988887777", "ZZZZZ9999Z")))
	_ = other
}

type stubLLM struct {
	out   string
	err   error
	calls int
	last  llm.Request
}

func (s *stubLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	s.calls++
	s.last = req
	return s.out, s.err
}

const llmProfile = `Sure! {
  "personal_data": {"name": "Asha Verma", "date_of_birth": "1988-04-12", "address": "12 MG Road, Pune 411001",
    "phone_number": "+91 9876543210", "email": "asha@example.com", "annual_income": 1200000},
  "credit_score": {"payment_history": {"timely_payments": 40, "late_payments": 2},
    "credit_utilization_ratio": 0.32, "credit_mix": {"home_loan": 1500000, "credit_card": 50000},
    "length_of_credit_history": 6, "hard_inquiries_count": 2, "outstanding_debt": 300000,
    "recent_credit_behavior": "Good", "negative_remarks": "None"}
}`

func TestLLMGeneratorDecodesProfile(t *testing.T) {
	client := &stubLLM{out: llmProfile}
	gen := LLMGenerator{Client: client}

	p, err := gen.Generate(context.Background(), NewSubject("123456789012", "ABCDE1234F"))
	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", p.Personal.Name)
	assert.Equal(t, 42, p.Credit.PaymentHistory.Total())
	assert.InDelta(t, 0.25, p.DebtToIncome(), 1e-9)
	assert.Equal(t, "ABXXX1234F", p.Credit.PANNumber)

	assert.Equal(t, "profile", client.last.Purpose)
	assert.True(t, client.last.JSON)
	for _, m := range client.last.Messages {
		assert.NotContains(t, m.Content, "123456789012")
	}
}

func TestLLMGeneratorRejectsSchemaViolations(t *testing.T) {
	gen := LLMGenerator{Client: &stubLLM{out: `{"personal_data":{"name":"x"}}`}}
	_, err := gen.Generate(context.Background(), NewSubject("123456789012", "ABCDE1234F"))
	assert.True(t, errors.Is(err, llm.ErrMalformedResponse), "got %v", err)
}

func TestCachedGeneratorServesFromCache(t *testing.T) {
	now := time.Date(2025, 3, 21, 10, 0, 0, 0, time.UTC)
	client := &stubLLM{out: llmProfile}
	gen := CachedGenerator{
		Base:  LLMGenerator{Client: client},
		Cache: cache.NewMemory(func() time.Time { return now }),
		TTL:   time.Hour,
	}
	s := NewSubject("123456789012", "ABCDE1234F")

	first, err := gen.Generate(context.Background(), s)
	require.NoError(t, err)
	second, err := gen.Generate(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, first.Personal.Name, second.Personal.Name)
	assert.True(t, first.Personal.AnnualIncome.Equal(second.Personal.AnnualIncome))

	now = now.Add(2 * time.Hour)
	_, err = gen.Generate(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls)
}
