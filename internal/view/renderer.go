package view

import (
	"strings"
	"time"

	"vantage/internal/domain"
	"vantage/internal/fallback"
)

// Request is a single render of the active selection
type Request struct {
	Selection domain.Selection
	Seed      uint64
	Now       time.Time
}

// Key returns the (domain, tool) key being rendered
func (r Request) Key() domain.ViewKey {
	return r.Selection.Key()
}

// Renderer produces a view for a selection. Implementations must be safe for
// concurrent use and must not retain the request.
type Renderer interface {
	Render(req Request) domain.View
}

// RendererFunc adapts a function to the Renderer interface
type RendererFunc func(req Request) domain.View

// Render implements Renderer
func (f RendererFunc) Render(req Request) domain.View {
	return f(req)
}

// Fallback wraps the generic fallback renderer. It receives the active tool's
// display name, or the generic label when none is known.
func Fallback(r *fallback.Renderer) Renderer {
	return RendererFunc(func(req Request) domain.View {
		return r.Render(fallback.Input{
			ToolName: toolLabel(req.Selection),
			Loading:  req.Selection.Loading,
			Seed:     req.Seed,
			Now:      req.Now,
		})
	})
}

// toolLabel is the display name used for content the selection does not name
func toolLabel(sel domain.Selection) string {
	if name := strings.TrimSpace(sel.Tool.Name); name != "" {
		return name
	}
	return fallback.GenericLabel
}
