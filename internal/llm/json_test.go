package llm

import (
	"errors"
	"strings"
	"testing"
)

const decisionTestSchema = `{
  "type": "object",
  "required": ["creditWorthiness", "reason"],
  "properties": {
    "creditWorthiness": {"type": "string", "enum": ["Approved", "Rejected"]},
    "reason": {"type": "string"}
  }
}`

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain", raw: `{"a":1}`, want: `{"a":1}`},
		{name: "whitespace", raw: "\n  {\"a\":1}  \n", want: `{"a":1}`},
		{name: "prose wrapped", raw: "Here you go:\n{\"a\":1}\nThanks", want: `{"a":1}`},
		{name: "markdown fence", raw: "```json\n{\"a\":{\"b\":2}}\n```", want: `{"a":{"b":2}}`},
		{name: "empty", raw: "  ", wantErr: true},
		{name: "no object", raw: "approved", wantErr: true},
		{name: "broken object", raw: "{\"a\":}", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Fatalf("expected ErrMalformedResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractJSON: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("ExtractJSON = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDecodeJSONValidatesSchema(t *testing.T) {
	var out struct {
		CreditWorthiness string `json:"creditWorthiness"`
		Reason           string `json:"reason"`
	}
	if err := DecodeJSON(`{"creditWorthiness":"Approved","reason":"score 780"}`, decisionTestSchema, &out); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if out.CreditWorthiness != "Approved" || out.Reason != "score 780" {
		t.Fatalf("unexpected decode: %+v", out)
	}

	err := DecodeJSON(`{"creditWorthiness":"Maybe","reason":"?"}`, decisionTestSchema, &out)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected schema failure, got %v", err)
	}

	err = DecodeJSON(`{"reason":"missing verdict"}`, decisionTestSchema, &out)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected required failure, got %v", err)
	}
}

func TestPromptsRender(t *testing.T) {
	msgs, err := ProfileMessages(ProfileInput{MaskedAadhaar: "XXXX-XXXX-9012", MaskedPAN: "ABXXX1234F"})
	if err != nil {
		t.Fatalf("ProfileMessages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
	if want := "XXXX-XXXX-9012"; !strings.Contains(msgs[1].Content, want) {
		t.Fatalf("user prompt missing %q: %s", want, msgs[1].Content)
	}

	msgs, err = BureauScoreMessages(BureauScoreInput{Bureau: "Equifax", Min: 300, Max: 900, Subject: "abc"})
	if err != nil {
		t.Fatalf("BureauScoreMessages: %v", err)
	}
	if !strings.Contains(msgs[0].Content, "between 300 and 900") {
		t.Fatalf("bureau prompt missing bounds: %s", msgs[0].Content)
	}

	msgs, err = DecisionMessages(DecisionInput{RawScores: `{"Experian":700}`, NormalizedScores: `{"Experian":0.67}`, UnifiedScore: 700, RiskLabel: "Low Risk"})
	if err != nil {
		t.Fatalf("DecisionMessages: %v", err)
	}
	if !strings.Contains(msgs[1].Content, "Final aggregated credit score: 700 (Low Risk)") {
		t.Fatalf("decision prompt missing score: %s", msgs[1].Content)
	}
}
