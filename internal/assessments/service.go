package assessments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"credit-backend/internal/bureaus"
	"credit-backend/internal/llm"
	"credit-backend/internal/profiles"
	"credit-backend/internal/scoring"
	"credit-backend/internal/shared/metrics"
	"credit-backend/internal/shared/storage/object"
	"credit-backend/internal/shared/telemetry"
)

const reportPrefix = "reports/"

// riskProfileRange is the scale the six-tier risk profile is defined on.
var riskProfileRange = scoring.Range{Min: 0, Max: 1000}

type Service struct {
	Fetcher    *bureaus.Fetcher
	Profiles   profiles.Generator
	LLM        llm.Client
	Store      object.ObjectStore
	Thresholds scoring.Thresholds
	Variant    string
	Now        func() time.Time
}

// Assess validates the subject, collects bureau scores and runs the
// requested variant over the bureaus that answered.
func (s *Service) Assess(ctx context.Context, req Request) (UnifiedAssessment, error) {
	start := time.Now()
	a, err := s.assess(ctx, req)
	if err != nil {
		_, code, ok := Classify(err)
		if !ok {
			code = "internal"
		}
		metrics.IncAssessmentFailed(code)
		return UnifiedAssessment{}, err
	}
	metrics.IncAssessment(a.Variant, string(a.RiskLevel))
	metrics.ObserveAssessmentDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	return a, nil
}

func (s *Service) assess(ctx context.Context, req Request) (UnifiedAssessment, error) {
	subject := profiles.NewSubject(req.AadhaarNumber, req.PanNumber)
	if err := subject.Validate(); err != nil {
		return UnifiedAssessment{}, err
	}
	name := req.Variant
	if strings.TrimSpace(name) == "" {
		name = s.Variant
	}
	variant, err := scoring.LookupVariant(name)
	if err != nil {
		return UnifiedAssessment{}, err
	}

	var (
		scores   []scoring.BureauScore
		expected int
	)
	if req.Scores != nil {
		scores, err = suppliedScores(req.Scores, variant)
		if err != nil {
			return UnifiedAssessment{}, err
		}
		expected = len(scoring.AllBureaus)
	} else {
		if s.Fetcher == nil {
			return UnifiedAssessment{}, errors.New("bureau fetcher not configured")
		}
		scores, err = s.Fetcher.FetchAll(ctx, subject, variant.InputRange)
		if err != nil {
			return UnifiedAssessment{}, err
		}
		expected = s.Fetcher.Expected()
	}

	raw := scoring.RawMap(scores)
	res, err := variant.Compute(raw)
	if err != nil {
		return UnifiedAssessment{}, err
	}

	thresholds := s.Thresholds
	if !thresholds.Valid() {
		thresholds = scoring.DefaultThresholds
	}
	unified := scoring.Clamp(res.Unified, variant.ScoreRange)
	classified, err := scoring.Rescale(unified, variant.ScoreRange, scoring.DefaultRange)
	if err != nil {
		return UnifiedAssessment{}, err
	}
	profileScore, err := scoring.Rescale(unified, variant.ScoreRange, riskProfileRange)
	if err != nil {
		return UnifiedAssessment{}, err
	}
	risk := thresholds.Classify(classified)

	a := UnifiedAssessment{
		UnifiedScore:       res.Unified,
		RiskLevel:          risk.Level,
		RiskLabel:          risk.Label,
		RiskColor:          risk.Color,
		ConfidenceScore:    scoring.Confidence(len(raw), expected),
		BureauScores:       scores,
		NormalizedScores:   res.Normalized,
		StandardizedScores: res.Standardized,
		Variant:            variant.Name,
		ScoreRange:         variant.ScoreRange,
		RiskProfile:        scoring.RiskProfile(profileScore),
		ApplicationName:    strings.TrimSpace(req.ApplicationName),
		BorrowerName:       strings.TrimSpace(req.BorrowerName),
		GeneratedAt:        s.now(),
	}
	telemetry.Info("assessment.complete", map[string]any{
		"subject":       subject.String(),
		"variant":       a.Variant,
		"unified_score": a.UnifiedScore,
		"risk_level":    string(a.RiskLevel),
		"confidence":    a.ConfidenceScore,
	})
	return a, nil
}

// suppliedScores turns caller-provided scores into online bureau entries,
// sorted by bureau order.
func suppliedScores(in map[string]int, variant scoring.Variant) ([]scoring.BureauScore, error) {
	out := make([]scoring.BureauScore, 0, len(in))
	for name, score := range in {
		b, ok := scoring.ParseBureau(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown bureau %q", ErrInvalidInput, name)
		}
		valid := variant.InputRange(b)
		if !valid.Contains(score) {
			return nil, fmt.Errorf("%w: %s score %d not in %s", scoring.ErrScoreOutOfRange, b, score, valid)
		}
		out = append(out, scoring.BureauScore{
			Bureau:     b,
			RawScore:   score,
			ValidRange: valid,
			Status:     scoring.StatusOnline,
			Source:     "request",
		})
	}
	order := make(map[scoring.Bureau]int, len(scoring.AllBureaus))
	for i, b := range scoring.AllBureaus {
		order[b] = i
	}
	sort.Slice(out, func(i, j int) bool { return order[out[i].Bureau] < order[out[j].Bureau] })
	return out, nil
}

// GenerateReport assesses the subject, summarizes their profile and saves
// the report as JSON under reports/<subject key>/.
func (s *Service) GenerateReport(ctx context.Context, req Request) (CreditReport, error) {
	a, err := s.Assess(ctx, req)
	if err != nil {
		return CreditReport{}, err
	}
	subject := profiles.NewSubject(req.AadhaarNumber, req.PanNumber)

	gen := s.Profiles
	if gen == nil {
		gen = profiles.NewFakeGenerator()
	}
	profile, err := gen.Generate(ctx, subject)
	if err != nil {
		return CreditReport{}, fmt.Errorf("load borrower profile: %w", err)
	}

	report := CreditReport{
		Title:         ReportTitle,
		GeneratedDate: a.GeneratedAt,
		Data:          summarize(profile, subject, a),
	}
	if req.WithDecision {
		decision, err := s.decide(ctx, a)
		if err != nil {
			return CreditReport{}, err
		}
		report.Decision = decision
	}

	if s.Store != nil {
		key := reportPrefix + subject.Key() + "/" + uuid.NewString() + ".json"
		report.StorageKey = key
		body, err := json.Marshal(report)
		if err != nil {
			return CreditReport{}, fmt.Errorf("encode report: %w", err)
		}
		if _, err := s.Store.SaveWithKey(ctx, key, "application/json", bytes.NewReader(body)); err != nil {
			return CreditReport{}, fmt.Errorf("save report: %w", err)
		}
		telemetry.Info("report.saved", map[string]any{
			"subject":     subject.String(),
			"storage_key": key,
			"bytes":       len(body),
		})
	}
	return report, nil
}

// ReportJSON generates a report and returns it serialized, the form
// applications store it in.
func (s *Service) ReportJSON(ctx context.Context, req Request) (string, error) {
	report, err := s.GenerateReport(ctx, req)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	return string(body), nil
}

// OpenReport streams a stored report.
func (s *Service) OpenReport(ctx context.Context, key string) (io.ReadCloser, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if !strings.HasPrefix(key, reportPrefix) || strings.Contains(key, "..") {
		return nil, object.ErrInvalidKey
	}
	if s.Store == nil {
		return nil, ErrReportNotFound
	}
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return rc, nil
}

// BureauStatus reports availability observed by the fetcher.
func (s *Service) BureauStatus() []bureaus.BureauStatus {
	if s.Fetcher == nil || s.Fetcher.Registry == nil {
		return []bureaus.BureauStatus{}
	}
	return s.Fetcher.Registry.Snapshot()
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
