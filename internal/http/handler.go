package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alsxui/provisioning-gateway/internal/config"
	"github.com/alsxui/provisioning-gateway/internal/errs"
	"github.com/alsxui/provisioning-gateway/internal/metrics"
	"github.com/alsxui/provisioning-gateway/internal/models"
	"github.com/alsxui/provisioning-gateway/internal/service"
)

type Handler struct {
	cfg              *config.Config
	provisionService *service.ProvisionService
}

func NewHandler(cfg *config.Config, provisionService *service.ProvisionService) *Handler {
	return &Handler{
		cfg:              cfg,
		provisionService: provisionService,
	}
}

// Provision is the single gateway endpoint. Admission (method, secret) has
// already happened in the router and middleware; this handler validates the
// body and action, then dispatches to the service. Order matters: admission
// errors must never touch the panel.
func (h *Handler) Provision(c *gin.Context) {
	action := c.GetHeader(HeaderAction)
	if action == "" {
		action = models.ActionAdd
	}

	body, err := c.GetRawData()
	if err != nil || !validBody(action, body) {
		metrics.AdmissionRejections.WithLabelValues("bad_json").Inc()
		c.String(http.StatusBadRequest, "Bad JSON")
		return
	}

	switch action {
	case models.ActionAdd:
		var req models.AddRequest
		if err := json.Unmarshal(body, &req); err != nil {
			metrics.AdmissionRejections.WithLabelValues("bad_json").Inc()
			c.String(http.StatusBadRequest, "Bad JSON")
			return
		}
		if !h.panelConfigured(c, action) {
			return
		}
		resp, err := h.provisionService.Add(c.Request.Context(), &req)
		h.respond(c, action, resp, err)

	case models.ActionDetails:
		var req models.DetailsRequest
		if err := json.Unmarshal(body, &req); err != nil {
			metrics.AdmissionRejections.WithLabelValues("bad_json").Inc()
			c.String(http.StatusBadRequest, "Bad JSON")
			return
		}
		if !h.panelConfigured(c, action) {
			return
		}
		resp, err := h.provisionService.Details(c.Request.Context(), &req)
		h.respond(c, action, resp, err)

	case models.ActionPing:
		if !h.panelConfigured(c, action) {
			return
		}
		resp, err := h.provisionService.Ping(c.Request.Context())
		h.respond(c, action, resp, err)

	default:
		metrics.AdmissionRejections.WithLabelValues("unknown_action").Inc()
		c.String(http.StatusBadRequest, "Unknown action")
	}
}

// validBody accepts any valid JSON document. Ping takes no input, so a bare
// empty-body POST passes too.
func validBody(action string, body []byte) bool {
	if action == models.ActionPing && len(body) == 0 {
		return true
	}
	return json.Valid(body)
}

// panelConfigured rejects with 500 when panel settings are incomplete: a
// deployment error, not a request error.
func (h *Handler) panelConfigured(c *gin.Context, action string) bool {
	if h.cfg.Panel.Complete() {
		return true
	}
	metrics.RequestsTotal.WithLabelValues(action, "config_error").Inc()
	writeError(c, errs.ErrPanelConfig)
	return false
}

func (h *Handler) respond(c *gin.Context, action string, resp any, err error) {
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(action, "failure").Inc()
		writeError(c, err)
		return
	}
	metrics.RequestsTotal.WithLabelValues(action, "success").Inc()
	c.JSON(http.StatusOK, resp)
}

// writeError maps a service error onto the gateway's status taxonomy. The
// not-found miss on details is a normal outcome and keeps the JSON shape;
// everything unclassified is an upstream failure and surfaces as 502 with
// the error text as body.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
	case errors.Is(err, errs.ErrBadRequest):
		c.String(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrPanelConfig):
		c.String(http.StatusInternalServerError, "Missing PANEL_* configuration")
	default:
		c.String(http.StatusBadGateway, err.Error())
	}
}
