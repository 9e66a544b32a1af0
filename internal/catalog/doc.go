// Package catalog provides the Domain/Tool Registry.
//
// The registry is the static list of industries and their tools that every
// other component keys off. It is loaded once at startup, validated, and never
// mutated afterwards, so it can be shared across goroutines without locking.
//
// # Sources
//
// Default returns the catalog embedded in the binary (catalog.yaml). LoadFile
// reads an operator-provided catalog with the same schema:
//
//	version: 1
//	domains:
//	  - id: finance
//	    name: Finance
//	    tools:
//	      - { id: portfolio-optimization, name: "Portfolio Optimization", icon: pie-chart }
//
// A tool's industry_id may be omitted; it defaults to the owning domain.
//
// # Invariants
//
// - Domain IDs are unique and non-empty
// - Tool IDs are unique within their domain
// - Every tool's industry_id matches its owning domain
//
// Lookups for unknown IDs return errors wrapping ErrNotFound.
package catalog
