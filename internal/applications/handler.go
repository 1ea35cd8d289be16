package applications

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"credit-backend/internal/assessments"
	"credit-backend/internal/shared/server/middleware"
	"credit-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts the application endpoints. limited wraps the create
// endpoint, which can generate a report inline.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, limited ...gin.HandlerFunc) {
	rg.GET("/application", h.list)
	handlers := make([]gin.HandlerFunc, 0, len(limited)+1)
	handlers = append(handlers, limited...)
	rg.POST("/application", append(handlers, h.create)...)
}

func (h *Handler) list(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	userID := userIDFromRequest(c)
	apps, err := h.Svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrMissingUserID) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "userId is required", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", err.Error(), nil)
		return
	}
	respond.OK(c, apps)
}

func (h *Handler) create(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	if strings.TrimSpace(in.UserID) == "" {
		in.UserID = middleware.UserIDFromContext(c)
	}

	app, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			respond.Error(c, http.StatusBadRequest, "validation_error", verr.Error(), gin.H{"missing": verr.Missing})
			return
		}
		if status, code, ok := assessments.Classify(err); ok {
			respond.Error(c, status, code, err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", err.Error(), nil)
		return
	}
	c.Set("applicationId", app.ID)
	respond.OK(c, app)
}

// userIDFromRequest reads userId from the query string, the identity
// header, or a JSON body {"userId": ...} as the original GET-with-body
// clients send it.
func userIDFromRequest(c *gin.Context) string {
	if v := strings.TrimSpace(c.Query("userId")); v != "" {
		return v
	}
	if v := middleware.UserIDFromContext(c); v != "" {
		return v
	}
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return ""
	}
	var body struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.UserID)
}
