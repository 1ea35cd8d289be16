package assessments

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"credit-backend/internal/shared/server/respond"
	"credit-backend/internal/shared/telemetry"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts the lookup endpoints. limited wraps the endpoints
// that may call the bureau source or the model.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, limited ...gin.HandlerFunc) {
	post := func(path string, fn gin.HandlerFunc) {
		handlers := make([]gin.HandlerFunc, 0, len(limited)+1)
		handlers = append(handlers, limited...)
		rg.POST(path, append(handlers, fn)...)
	}
	post("/assessments", h.assess)
	post("/reports", h.report)
	rg.GET("/reports/*key", h.openReport)
	rg.GET("/bureaus", h.bureaus)
}

func (h *Handler) assess(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	a, err := h.Svc.Assess(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "failed to assess credit")
		return
	}
	c.Set("variant", a.Variant)
	respond.OK(c, a)
}

func (h *Handler) report(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	report, err := h.Svc.GenerateReport(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "failed to generate credit report")
		return
	}
	c.Set("variant", report.Data.Scores.Variant)
	respond.OK(c, report)
}

func (h *Handler) openReport(c *gin.Context) {
	key := reportPrefix + strings.TrimPrefix(c.Param("key"), "/")
	rc, err := h.Svc.OpenReport(c.Request.Context(), key)
	if err != nil {
		writeError(c, err, "failed to open report")
		return
	}
	defer rc.Close()
	c.Header("Content-Type", "application/json")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		telemetry.Warn("report.stream_failed", map[string]any{"error": err.Error()})
	}
}

func (h *Handler) bureaus(c *gin.Context) {
	respond.OK(c, gin.H{"bureaus": h.Svc.BureauStatus()})
}

func writeError(c *gin.Context, err error, fallback string) {
	status, code, ok := Classify(err)
	if !ok {
		respond.Error(c, http.StatusInternalServerError, "internal", fallback, nil)
		return
	}
	msg := err.Error()
	if status == http.StatusBadGateway || status == http.StatusServiceUnavailable {
		msg = fallback
	}
	var details any
	if status >= http.StatusInternalServerError {
		details = gin.H{"cause": err.Error()}
	}
	respond.Error(c, status, code, msg, details)
}
