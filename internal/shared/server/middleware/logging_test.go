package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"credit-backend/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	telemetry.SetLogger(zap.New(core))
	t.Cleanup(func() { telemetry.SetLogger(zap.NewNop()) })

	router := gin.New()
	router.Use(RequestID(), Identity(), Logging())
	router.POST("/api/cred/application", func(c *gin.Context) {
		c.Set("applicationId", "app-1")
		c.Set("variant", "zscore")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/api/cred/application", nil)
	req.Header.Set("X-User-Id", "user-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	entries := logs.FilterMessage("request.complete").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	for _, key := range []string{"request_id", "user_id", "application_id", "variant", "duration_ms", "status", "route"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if fields["user_id"] != "user-1" {
		t.Fatalf("unexpected user_id: %v", fields["user_id"])
	}
	if fields["application_id"] != "app-1" {
		t.Fatalf("unexpected application_id: %v", fields["application_id"])
	}
	if fields["route"] != "/api/cred/application" {
		t.Fatalf("unexpected route: %v", fields["route"])
	}
	if fields["status"] != int64(http.StatusOK) {
		t.Fatalf("unexpected status: %v", fields["status"])
	}
}
