package handler

import "net/http"

// Register mounts the dashboard API on mux. events, when non-nil, serves the
// SSE stream at /events.
func (h *DashboardHandler) Register(mux *http.ServeMux, events http.Handler) {
	// Catalog
	mux.HandleFunc("GET /api/domains", h.ListDomains)
	mux.HandleFunc("GET /api/domains/{domain}/tools", h.ListTools)
	mux.HandleFunc("GET /api/domains/{domain}/tools/{tool}", h.GetTool)

	// Rendering
	mux.HandleFunc("GET /api/pages/{domain}/{tool}", h.GetPage)
	mux.HandleFunc("GET /api/views/{domain}/{tool}", h.GetView)

	// Header actions
	mux.HandleFunc("GET /api/views/{domain}/{tool}/export", h.ExportView)
	mux.HandleFunc("POST /api/views/{domain}/{tool}/primary", h.PrimaryAction)
	mux.HandleFunc("GET /api/actions", h.ListActions)
	mux.HandleFunc("GET /api/actions/{id}", h.GetAction)

	// Sessions
	mux.HandleFunc("DELETE /api/sessions/{session}/seeds", h.ResetSession)

	// Classifier
	mux.HandleFunc("GET /api/classifier", h.GetClassifier)
	mux.HandleFunc("GET /api/classifier/{axis}/{literal}", h.Classify)

	mux.HandleFunc("GET /healthz", h.Health)

	if events != nil {
		mux.Handle("GET /events", events)
	}
}
