package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"credit-backend/internal/applications"
	"credit-backend/internal/assessments"
	"credit-backend/internal/shared/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Env:                      "test",
		CORSAllowOrigin:          []string{"*"},
		ApplicationStore:         "memory",
		ObjectStoreType:          "local",
		LocalStoreDir:            t.TempDir(),
		BureauSource:             "hash",
		ProfileSource:            "fake",
		ScoreVariant:             "mean",
		RiskLowThreshold:         700,
		RiskModerateThreshold:    600,
		ReportRateLimitPerMinute: 30,
	}
}

func buildTestApp(t *testing.T, cfg config.Config) *App {
	t.Helper()
	app, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { _ = app.Close(context.Background()) })
	return app
}

func serve(app *App, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	return resp
}

func TestRootAndHealth(t *testing.T) {
	app := buildTestApp(t, testConfig(t))

	resp := serve(app, http.MethodGet, "/", "", nil)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "Test Routes") {
		t.Fatalf("unexpected root response: %d %s", resp.Code, resp.Body.String())
	}

	resp = serve(app, http.MethodGet, "/healthz", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected healthy, got %d %s", resp.Code, resp.Body.String())
	}

	resp = serve(app, http.MethodGet, "/metrics", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", resp.Code)
	}
}

func TestApplicationFlowWithGeneratedReport(t *testing.T) {
	app := buildTestApp(t, testConfig(t))

	body := `{"applicationName":"Home loan","borrowersName":"Asha Rao","aadharNumber":"123456789012","panNumber":"ABCDE1234F","generateReport":true}`
	resp := serve(app, http.MethodPost, "/api/cred/application", body, map[string]string{"X-User-Id": "user-1"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", resp.Code, resp.Body.String())
	}
	var created applications.Application
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.UserID != "user-1" {
		t.Fatalf("expected userId from header, got %q", created.UserID)
	}
	var report assessments.CreditReport
	if err := json.Unmarshal([]byte(created.CreditAssessmentReport), &report); err != nil {
		t.Fatalf("decode stored report: %v", err)
	}
	if report.Title != assessments.ReportTitle || report.StorageKey == "" {
		t.Fatalf("unexpected report: %+v", report)
	}

	resp = serve(app, http.MethodGet, "/api/cred/application?userId=user-1", "", nil)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), created.ID) {
		t.Fatalf("expected listing with %s, got %d %s", created.ID, resp.Code, resp.Body.String())
	}

	resp = serve(app, http.MethodGet, "/api/cred/"+report.StorageKey, "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected stored report, got %d", resp.Code)
	}
}

func TestGeneratedReportRejectsInvalidPAN(t *testing.T) {
	app := buildTestApp(t, testConfig(t))

	body := `{"userId":"user-1","applicationName":"Home loan","borrowersName":"Asha Rao","aadharNumber":"123456789012","panNumber":"bad","generateReport":true}`
	resp := serve(app, http.MethodPost, "/api/cred/application", body, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %s", resp.Code, resp.Body.String())
	}
}

func TestAssessmentsAreRateLimited(t *testing.T) {
	cfg := testConfig(t)
	cfg.ReportRateLimitPerMinute = 1
	app := buildTestApp(t, cfg)

	body := `{"aadhaarNumber":"123456789012","panNumber":"ABCDE1234F"}`
	headers := map[string]string{"X-User-Id": "user-1"}
	if resp := serve(app, http.MethodPost, "/api/cred/assessments", body, headers); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", resp.Code, resp.Body.String())
	}
	if resp := serve(app, http.MethodPost, "/api/cred/reports", body, headers); resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if resp := serve(app, http.MethodGet, "/api/cred/bureaus", "", headers); resp.Code != http.StatusOK {
		t.Fatalf("bureau status should not be limited, got %d", resp.Code)
	}
}

func TestApplicationCreateSharesReportRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.ReportRateLimitPerMinute = 1
	app := buildTestApp(t, cfg)

	headers := map[string]string{"X-User-Id": "user-1"}
	body := `{"applicationName":"Home loan","borrowersName":"Asha Rao","aadharNumber":"123456789012","panNumber":"ABCDE1234F","generateReport":true}`
	if resp := serve(app, http.MethodPost, "/api/cred/application", body, headers); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", resp.Code, resp.Body.String())
	}
	if resp := serve(app, http.MethodPost, "/api/cred/application", body, headers); resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	lookup := `{"aadhaarNumber":"123456789012","panNumber":"ABCDE1234F"}`
	if resp := serve(app, http.MethodPost, "/api/cred/assessments", lookup, headers); resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected assessments to share the bucket, got %d", resp.Code)
	}
	if resp := serve(app, http.MethodGet, "/api/cred/application?userId=user-1", "", headers); resp.Code != http.StatusOK {
		t.Fatalf("listing should not be limited, got %d", resp.Code)
	}
}

func TestBuildRejectsUnknownSettings(t *testing.T) {
	cfg := testConfig(t)
	cfg.ScoreVariant = "median"
	if _, err := Build(cfg); err == nil {
		t.Fatalf("expected unknown variant error")
	}

	cfg = testConfig(t)
	cfg.BureauSource = "experian-api"
	if _, err := Build(cfg); err == nil {
		t.Fatalf("expected unknown bureau source error")
	}
}

func TestPostgresStoreFallsBackToMemoryInDev(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = "dev"
	cfg.ApplicationStore = "postgres"
	app := buildTestApp(t, cfg)
	if _, ok := app.ApplicationsRepo.(*applications.MemoryRepo); !ok {
		t.Fatalf("expected memory repo fallback, got %T", app.ApplicationsRepo)
	}
}
