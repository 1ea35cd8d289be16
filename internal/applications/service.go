package applications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"credit-backend/internal/assessments"
	"credit-backend/internal/shared/metrics"
	"credit-backend/internal/shared/telemetry"
)

// ReportGenerator renders a credit report for an application.
type ReportGenerator interface {
	ReportJSON(ctx context.Context, req assessments.Request) (string, error)
}

type Service struct {
	Repo    Repo
	Reports ReportGenerator
	NewID   func() string
	Now     func() time.Time
}

func NewService(repo Repo, reports ReportGenerator) *Service {
	return &Service{Repo: repo, Reports: reports}
}

// Create stores a new application. Only presence of the required fields is
// checked; Aadhaar/PAN formats are validated only when a report is generated.
func (s *Service) Create(ctx context.Context, in CreateInput) (Application, error) {
	if s == nil || s.Repo == nil {
		return Application{}, errors.New("applications service not configured")
	}
	if err := validateCreate(in); err != nil {
		return Application{}, err
	}

	app := Application{
		ID:                     s.newID(),
		UserID:                 strings.TrimSpace(in.UserID),
		ApplicationName:        strings.TrimSpace(in.ApplicationName),
		BorrowersName:          strings.TrimSpace(in.BorrowersName),
		Description:            in.Description,
		AadharNumber:           strings.TrimSpace(in.AadharNumber),
		PanNumber:              strings.TrimSpace(in.PanNumber),
		CreditAssessmentReport: in.CreditAssessmentReport,
		CreatedAt:              s.now(),
	}

	if in.GenerateReport {
		if s.Reports == nil {
			return Application{}, errors.New("report generation not configured")
		}
		report, err := s.Reports.ReportJSON(ctx, assessments.Request{
			AadhaarNumber:   app.AadharNumber,
			PanNumber:       app.PanNumber,
			ApplicationName: app.ApplicationName,
			BorrowerName:    app.BorrowersName,
			Variant:         in.Variant,
		})
		if err != nil {
			return Application{}, fmt.Errorf("generate assessment report: %w", err)
		}
		app.CreditAssessmentReport = report
	}

	if err := s.Repo.Create(ctx, app); err != nil {
		return Application{}, err
	}
	metrics.IncApplicationCreated()
	telemetry.Info("application.created", map[string]any{
		"application_id": app.ID,
		"user_id":        app.UserID,
		"with_report":    app.CreditAssessmentReport != "",
	})
	return app, nil
}

// ListByUser returns every application of userID, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("applications service not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUserID
	}
	return s.Repo.ListByUser(ctx, userID)
}

func validateCreate(in CreateInput) error {
	required := []struct {
		name  string
		value string
	}{
		{"userId", in.UserID},
		{"applicationName", in.ApplicationName},
		{"borrowersName", in.BorrowersName},
		{"aadharNumber", in.AadharNumber},
		{"panNumber", in.PanNumber},
	}
	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
