// Package domain defines the core types for the Vantage analytics dashboard.
//
// This package contains the static catalog entities (industries and their
// tools), the transient selection supplied by the shell on every render, and
// the presentational tree every renderer produces.
//
// # Catalog Types
//
// Domain is an industry vertical (finance, healthcare, military, ...) owning an
// ordered list of tools.
//
// Tool is one analytical screen within a domain. Its IndustryID points back to
// the owning domain.
//
// # Render Types
//
// View is the output of a renderer: metric cards, charts and detail tables.
// A loading view keeps the exact layout of the real one and replaces every
// value with a skeleton marker.
//
// Page wraps a View with the tool-tab navigation and the content header, the
// way the dashboard shell shows it.
//
// # Badges
//
// Category is the visual class a status, priority or severity literal maps to.
// The mapping itself lives in the classify package.
//
// # Design Principles
//
// - Immutable value objects
// - No database or external dependencies
// - Pure domain logic without infrastructure concerns
package domain
