package llm

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

var (
	//go:embed prompts/profile_system.txt
	profileSystemPrompt string
	//go:embed prompts/profile_user.txt
	profileUserPrompt string
	//go:embed prompts/bureau_score.txt
	bureauScorePrompt string
	//go:embed prompts/bureau_scores.txt
	bureauScoresPrompt string
	//go:embed prompts/decision_system.txt
	decisionSystemPrompt string
	//go:embed prompts/decision_user.txt
	decisionUserPrompt string
)

var templates = template.Must(template.New("prompts").Parse(""))

func init() {
	template.Must(templates.New("profile_user").Parse(profileUserPrompt))
	template.Must(templates.New("bureau_score").Parse(bureauScorePrompt))
	template.Must(templates.New("bureau_scores").Parse(bureauScoresPrompt))
	template.Must(templates.New("decision_user").Parse(decisionUserPrompt))
}

// ProfileInput fills the borrower profile prompt. Identifiers must already be masked.
type ProfileInput struct {
	MaskedAadhaar string
	MaskedPAN     string
}

// ProfileMessages builds the synthetic borrower profile prompt.
func ProfileMessages(in ProfileInput) ([]Message, error) {
	user, err := render("profile_user", in)
	if err != nil {
		return nil, err
	}
	return []Message{
		{Role: "system", Content: profileSystemPrompt},
		{Role: "user", Content: user},
	}, nil
}

// BureauScoreInput fills the single-bureau score prompt.
type BureauScoreInput struct {
	Bureau  string
	Min     int
	Max     int
	Subject string
}

// BureauScoreMessages builds the prompt asking for one simulated bureau score.
func BureauScoreMessages(in BureauScoreInput) ([]Message, error) {
	user, err := render("bureau_score", in)
	if err != nil {
		return nil, err
	}
	return []Message{{Role: "user", Content: user}}, nil
}

// BureauRange is one bureau and the range its score must fall in.
type BureauRange struct {
	Name string
	Min  int
	Max  int
}

// BureauScoresInput fills the all-bureaus score prompt.
type BureauScoresInput struct {
	Bureaus []BureauRange
	Subject string
}

// BureauScoresMessages builds one prompt asking for every bureau's score as a
// single JSON object keyed by bureau name.
func BureauScoresMessages(in BureauScoresInput) ([]Message, error) {
	user, err := render("bureau_scores", in)
	if err != nil {
		return nil, err
	}
	return []Message{{Role: "user", Content: user}}, nil
}

// DecisionInput fills the credit decision prompt. Score maps are pre-encoded JSON.
type DecisionInput struct {
	RawScores        string
	NormalizedScores string
	UnifiedScore     int
	RiskLabel        string
}

// DecisionMessages builds the analyst prompt that approves or rejects a borrower.
func DecisionMessages(in DecisionInput) ([]Message, error) {
	user, err := render("decision_user", in)
	if err != nil {
		return nil, err
	}
	return []Message{
		{Role: "system", Content: decisionSystemPrompt},
		{Role: "user", Content: user},
	}, nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return buf.String(), nil
}
