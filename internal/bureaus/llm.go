package bureaus

import (
	"context"
	"fmt"

	"credit-backend/internal/llm"
	"credit-backend/internal/profiles"
	"credit-backend/internal/scoring"
)

const bureauScoreSchema = `{
  "type": "object",
  "required": ["score"],
  "properties": {
    "bureau": {"type": "string"},
    "score": {"type": "integer"}
  }
}`

const bureauScoresSchema = `{
  "type": "object",
  "additionalProperties": {"type": "integer"}
}`

// LLMSource asks a chat model to simulate bureau scores. The fetcher uses
// FetchBatch so a lookup costs one completion.
type LLMSource struct {
	Client llm.Client
}

func (LLMSource) Name() string { return "llm" }

func (s LLMSource) Fetch(ctx context.Context, subject profiles.Subject, bureau scoring.Bureau, valid scoring.Range) (int, error) {
	if s.Client == nil {
		return 0, llm.ErrNotConfigured
	}
	msgs, err := llm.BureauScoreMessages(llm.BureauScoreInput{
		Bureau:  string(bureau),
		Min:     valid.Min,
		Max:     valid.Max,
		Subject: subject.String(),
	})
	if err != nil {
		return 0, err
	}
	raw, err := s.Client.Complete(ctx, llm.Request{
		Purpose:   "bureau_score",
		Messages:  msgs,
		JSON:      true,
		MaxTokens: 100,
	})
	if err != nil {
		return 0, llm.WrapTransport(err)
	}
	var out struct {
		Bureau string `json:"bureau"`
		Score  int    `json:"score"`
	}
	if err := llm.DecodeJSON(raw, bureauScoreSchema, &out); err != nil {
		return 0, err
	}
	if !valid.Contains(out.Score) {
		return 0, fmt.Errorf("%w: %s score %d not in %s", llm.ErrMalformedResponse, bureau, out.Score, valid)
	}
	return out.Score, nil
}

// FetchBatch asks for every bureau in ranges with one prompt. Unknown keys
// are ignored; bureaus the model leaves out are absent from the result.
func (s LLMSource) FetchBatch(ctx context.Context, subject profiles.Subject, ranges map[scoring.Bureau]scoring.Range) (map[scoring.Bureau]int, error) {
	if s.Client == nil {
		return nil, llm.ErrNotConfigured
	}
	in := llm.BureauScoresInput{Subject: subject.String()}
	for _, b := range scoring.AllBureaus {
		if r, ok := ranges[b]; ok {
			in.Bureaus = append(in.Bureaus, llm.BureauRange{Name: string(b), Min: r.Min, Max: r.Max})
		}
	}
	msgs, err := llm.BureauScoresMessages(in)
	if err != nil {
		return nil, err
	}
	raw, err := s.Client.Complete(ctx, llm.Request{
		Purpose:   "bureau_scores",
		Messages:  msgs,
		JSON:      true,
		MaxTokens: 150,
	})
	if err != nil {
		return nil, llm.WrapTransport(err)
	}
	var out map[string]int
	if err := llm.DecodeJSON(raw, bureauScoresSchema, &out); err != nil {
		return nil, err
	}
	scores := make(map[scoring.Bureau]int, len(out))
	for name, score := range out {
		b, ok := scoring.ParseBureau(name)
		if !ok {
			continue
		}
		if _, wanted := ranges[b]; wanted {
			scores[b] = score
		}
	}
	return scores, nil
}

var (
	_ Source      = LLMSource{}
	_ BatchSource = LLMSource{}
)
