// Package view turns an active selection into a rendered dashboard page.
//
// The Dispatcher holds a two-level binding table, domain ID to tool ID to
// Renderer, built once at startup from the catalog and the embedded fixture
// set. Lookups that miss at either level go to the generic fallback, so every
// selection renders something. The active domain is authoritative: a tool
// bound under one domain never answers for another.
//
// Header strings (title, primary and export labels) are resolved by a
// separate lookup with defaults, since a missing header entry is harmless and
// a missing renderer is not.
package view
