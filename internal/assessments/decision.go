package assessments

import (
	"context"
	"encoding/json"

	"credit-backend/internal/llm"
	"credit-backend/internal/scoring"
)

const decisionSchema = `{
  "type": "object",
  "required": ["creditWorthiness", "reason"],
  "properties": {
    "creditWorthiness": {"type": "string", "enum": ["Approved", "Rejected"]},
    "reason": {"type": "string", "minLength": 1}
  }
}`

func (s *Service) decide(ctx context.Context, a UnifiedAssessment) (*Decision, error) {
	client := s.LLM
	if client == nil {
		client = llm.PlaceholderClient{}
	}
	rawScores, err := json.Marshal(scoring.RawMap(a.BureauScores))
	if err != nil {
		return nil, err
	}
	normalized, err := json.Marshal(a.NormalizedScores)
	if err != nil {
		return nil, err
	}
	msgs, err := llm.DecisionMessages(llm.DecisionInput{
		RawScores:        string(rawScores),
		NormalizedScores: string(normalized),
		UnifiedScore:     a.UnifiedScore,
		RiskLabel:        a.RiskLabel,
	})
	if err != nil {
		return nil, err
	}

	out, err := client.Complete(ctx, llm.Request{
		Purpose:     "decision",
		Messages:    msgs,
		JSON:        true,
		Temperature: llm.Temperature(0.2),
	})
	if err != nil {
		return nil, llm.WrapTransport(err)
	}

	var d Decision
	if err := llm.DecodeJSON(out, decisionSchema, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
