package domain

import "time"

// ActionKind identifies a header action
type ActionKind string

const (
	ActionPrimary ActionKind = "primary"
	ActionExport  ActionKind = "export"
)

// ActionEvent records a header action taken on a view
type ActionEvent struct {
	ID         string     `json:"id"`
	Kind       ActionKind `json:"kind"`
	DomainID   string     `json:"domain_id"`
	ToolID     string     `json:"tool_id"`
	Session    string     `json:"session,omitempty"`
	Format     string     `json:"format,omitempty"` // Export format, empty for primary actions
	OccurredAt time.Time  `json:"occurred_at"`
}

// NewActionEvent creates an action event stamped with the current time
func NewActionEvent(id string, kind ActionKind, key ViewKey, session string) *ActionEvent {
	return &ActionEvent{
		ID:         id,
		Kind:       kind,
		DomainID:   key.DomainID,
		ToolID:     key.ToolID,
		Session:    session,
		OccurredAt: time.Now().UTC(),
	}
}

// Key returns the (domain, tool) pair the action was taken on
func (e ActionEvent) Key() ViewKey {
	return ViewKey{DomainID: e.DomainID, ToolID: e.ToolID}
}
