package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"vantage/internal/catalog"
	"vantage/internal/classify"
	"vantage/internal/codec"
	"vantage/internal/domain"
	"vantage/internal/repository"
	"vantage/internal/service"

	"go.uber.org/zap"
)

// SessionHeader carries the dashboard session used to memoize fallback content
const SessionHeader = "X-Session-ID"

// DashboardHandler handles dashboard API requests
type DashboardHandler struct {
	svc    *service.DashboardService
	logger *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(svc *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, logger: logger}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ListDomains returns the catalog in declared order
func (h *DashboardHandler) ListDomains(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.Domains(), http.StatusOK)
}

// ListTools returns the tools of a domain
func (h *DashboardHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	tools, err := h.svc.Tools(r.PathValue("domain"))
	if err != nil {
		h.writeServiceError(w, "Failed to list tools", err)
		return
	}

	h.writeJSON(w, tools, http.StatusOK)
}

// GetTool validates a selection and returns its tool
func (h *DashboardHandler) GetTool(w http.ResponseWriter, r *http.Request) {
	tool, err := h.svc.Tool(r.PathValue("domain"), r.PathValue("tool"))
	if err != nil {
		h.writeServiceError(w, "Failed to get tool", err)
		return
	}

	h.writeJSON(w, tool, http.StatusOK)
}

// GetPage returns a composed page: navigation, header and view
func (h *DashboardHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	req, err := renderRequest(r)
	if err != nil {
		h.writeError(w, "Invalid request", err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, h.svc.Page(r.Context(), req), http.StatusOK)
}

// GetView returns the dispatched view alone
func (h *DashboardHandler) GetView(w http.ResponseWriter, r *http.Request) {
	req, err := renderRequest(r)
	if err != nil {
		h.writeError(w, "Invalid request", err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, h.svc.View(r.Context(), req), http.StatusOK)
}

// ExportView exports the view's content as a file download
func (h *DashboardHandler) ExportView(w http.ResponseWriter, r *http.Request) {
	req, err := renderRequest(r)
	if err != nil {
		h.writeError(w, "Invalid request", err.Error(), http.StatusBadRequest)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = codec.FormatJSON
	}

	// Buffer so a failed export can still be reported as JSON
	var buf bytes.Buffer
	res, err := h.svc.Export(r.Context(), req, format, &buf)
	if err != nil {
		h.writeServiceError(w, "Failed to export view", err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write export", zap.Error(err))
	}
}

// PrimaryAction runs the header's primary action on a view
func (h *DashboardHandler) PrimaryAction(w http.ResponseWriter, r *http.Request) {
	key := domain.ViewKey{DomainID: r.PathValue("domain"), ToolID: r.PathValue("tool")}

	ev, err := h.svc.PrimaryAction(r.Context(), key, session(r))
	if err != nil {
		h.writeServiceError(w, "Failed to run primary action", err)
		return
	}

	h.writeJSON(w, ev, http.StatusAccepted)
}

// SeedReset is the body of a successful session reset
type SeedReset struct {
	Session string `json:"session"`
	Deleted int64  `json:"deleted"`
}

// ResetSession forgets the memoized fallback seeds of a session
func (h *DashboardHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("session"))
	if id == "" {
		h.writeError(w, "Invalid request", "session is required", http.StatusBadRequest)
		return
	}

	n, err := h.svc.ResetSession(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "Failed to reset session", err)
		return
	}

	h.writeJSON(w, SeedReset{Session: id, Deleted: n}, http.StatusOK)
}

// ListActions returns recent header actions, newest first
func (h *DashboardHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ActionFilter{
		DomainID: q.Get("domain"),
		ToolID:   q.Get("tool"),
		Session:  q.Get("session"),
		Kind:     domain.ActionKind(q.Get("kind")),
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			h.writeError(w, "Invalid limit", fmt.Sprintf("limit must be a non-negative integer, got %q", v), http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	actions, err := h.svc.Actions(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, "Failed to list actions", err)
		return
	}

	h.writeJSON(w, actions, http.StatusOK)
}

// GetAction returns a single recorded action
func (h *DashboardHandler) GetAction(w http.ResponseWriter, r *http.Request) {
	ev, err := h.svc.Action(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, "Failed to get action", err)
		return
	}

	h.writeJSON(w, ev, http.StatusOK)
}

// ClassificationResponse is the category of one literal on one axis
type ClassificationResponse struct {
	Axis     string          `json:"axis"`
	Literal  string          `json:"literal"`
	Category domain.Category `json:"category"`
}

// GetClassifier returns every axis table
func (h *DashboardHandler) GetClassifier(w http.ResponseWriter, r *http.Request) {
	cls := h.svc.Classifier()
	tables := make(map[classify.Axis]classify.Table)
	for _, axis := range cls.Axes() {
		tables[axis] = cls.Table(axis)
	}

	h.writeJSON(w, tables, http.StatusOK)
}

// Classify returns the category of a literal. Unknown axes and literals are
// neutral, never an error.
func (h *DashboardHandler) Classify(w http.ResponseWriter, r *http.Request) {
	axis := r.PathValue("axis")
	literal := r.PathValue("literal")

	h.writeJSON(w, ClassificationResponse{
		Axis:     axis,
		Literal:  literal,
		Category: h.svc.Classifier().Classify(classify.Axis(axis), literal),
	}, http.StatusOK)
}

// Health reports whether the service's dependencies are reachable
func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Health(r.Context()); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		h.writeError(w, "Unhealthy", err.Error(), http.StatusServiceUnavailable)
		return
	}

	h.writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// Helper methods

func (h *DashboardHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON", zap.Error(err))
	}
}

func (h *DashboardHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		h.logger.Error("failed to encode error response", zap.Error(err))
	}
}

// writeServiceError maps service errors to status codes
func (h *DashboardHandler) writeServiceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
	case errors.Is(err, codec.ErrUnsupportedFormat):
		details := fmt.Sprintf("%s (supported: %s)", err, strings.Join(h.svc.Codecs().Formats(), ", "))
		h.writeError(w, "Unsupported format", details, http.StatusBadRequest)
	default:
		h.logger.Error(msg, zap.Error(err))
		h.writeError(w, msg, err.Error(), http.StatusInternalServerError)
	}
}

// renderRequest reads a render request from path values and query parameters
func renderRequest(r *http.Request) (service.RenderRequest, error) {
	q := r.URL.Query()
	req := service.RenderRequest{
		DomainID: r.PathValue("domain"),
		ToolID:   r.PathValue("tool"),
		Session:  session(r),
	}

	if v := q.Get("loading"); v != "" {
		loading, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("loading: %q is not a boolean", v)
		}
		req.Loading = loading
	}

	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return req, fmt.Errorf("seed: %q is not an unsigned integer", v)
		}
		req.Seed = &seed
	}

	return req, nil
}

func session(r *http.Request) string {
	if s := strings.TrimSpace(r.Header.Get(SessionHeader)); s != "" {
		return s
	}
	return strings.TrimSpace(r.URL.Query().Get("session"))
}
