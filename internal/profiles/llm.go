package profiles

import (
	"context"
	"fmt"

	"credit-backend/internal/llm"
)

// LLMGenerator asks a chat model for a fictional profile. Only masked
// identifiers are sent.
type LLMGenerator struct {
	Client llm.Client
}

// Generate requests, validates and decodes a profile.
func (g LLMGenerator) Generate(ctx context.Context, subject Subject) (BorrowerProfile, error) {
	if g.Client == nil {
		return BorrowerProfile{}, llm.ErrNotConfigured
	}
	msgs, err := llm.ProfileMessages(llm.ProfileInput{
		MaskedAadhaar: subject.MaskedAadhaar(),
		MaskedPAN:     subject.MaskedPAN(),
	})
	if err != nil {
		return BorrowerProfile{}, err
	}
	raw, err := g.Client.Complete(ctx, llm.Request{
		Purpose:     "profile",
		Messages:    msgs,
		JSON:        true,
		Temperature: llm.Temperature(0.7),
	})
	if err != nil {
		return BorrowerProfile{}, fmt.Errorf("generate profile: %w", llm.WrapTransport(err))
	}
	var profile BorrowerProfile
	if err := llm.DecodeJSON(raw, profileSchema, &profile); err != nil {
		return BorrowerProfile{}, fmt.Errorf("decode profile: %w", err)
	}
	if profile.Credit.NegativeRemarks == "" {
		profile.Credit.NegativeRemarks = "None"
	}
	return attachIdentity(profile, subject), nil
}

var _ Generator = LLMGenerator{}
