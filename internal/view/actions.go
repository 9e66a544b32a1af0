package view

import (
	"context"

	"vantage/internal/domain"
)

// ActionFunc handles a header action for a view
type ActionFunc func(ctx context.Context, key domain.ViewKey, session string)

// Actions holds the callbacks behind the header's primary and export buttons.
// Nil callbacks do nothing.
type Actions struct {
	OnPrimaryAction ActionFunc
	OnExportData    ActionFunc
}

// Primary runs the primary action callback
func (a Actions) Primary(ctx context.Context, key domain.ViewKey, session string) {
	if a.OnPrimaryAction != nil {
		a.OnPrimaryAction(ctx, key, session)
	}
}

// Export runs the export callback
func (a Actions) Export(ctx context.Context, key domain.ViewKey, session string) {
	if a.OnExportData != nil {
		a.OnExportData(ctx, key, session)
	}
}
