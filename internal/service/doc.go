// Package service implements the dashboard operations behind the HTTP API and
// the CLI.
//
// DashboardService resolves IDs against the catalog, picks a seed for fallback
// content, renders through the view dispatcher and runs the header actions.
// Rendering never fails: unknown domains and tools render the generic
// fallback, and a seed store that cannot be reached degrades to a derived
// seed with a warning.
//
// # Event System
//
// Header actions are recorded in the repository and published on the
// EventBus. The server forwards bus events to the SSE hub so open dashboards
// see actions as they happen.
//
// # Reloading
//
// Reload swaps the registry and dispatcher as one pair and publishes
// EventCatalogReloaded. Requests already running finish on the pair they
// started with.
package service
