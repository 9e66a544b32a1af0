// Package handler implements the HTTP API of the dashboard.
//
// DashboardHandler exposes the catalog, page composition, view rendering,
// header actions and the status classifier. Register mounts every route on a
// ServeMux using method-qualified patterns.
//
// # Sessions
//
// Fallback content is memoized per session. The session is read from the
// X-Session-ID header, or the session query parameter when the header is
// absent. Requests without a session share one anonymous session.
//
// # Response Format
//
// Success responses return JSON data with appropriate status codes (200, 202).
// Error responses return JSON with {error, details} structure. Unknown
// domains and tools are 404 on catalog and action routes, but render the
// generic fallback on view and page routes.
//
// # Middleware
//
// Chain composes Recover, CORS and Logger. The access logger forwards Flush
// so the /events stream works behind it.
package handler
