package sqlite

import (
	"database/sql"
	"strings"
	"time"

	"vantage/internal/domain"
	"vantage/internal/repository"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// ============================================================================
// Time Helpers
// ============================================================================

// Times are stored as Unix milliseconds in UTC

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nowMillis() int64 {
	return toMillis(time.Now())
}

// ============================================================================
// Action Row Scanning
// ============================================================================

// actionRow holds the columns of an action_events row
type actionRow struct {
	id         string
	kind       string
	domainID   string
	toolID     string
	session    sql.NullString
	format     sql.NullString
	occurredAt int64
}

func (r *actionRow) scanArgs() []interface{} {
	return []interface{}{
		&r.id, &r.kind, &r.domainID, &r.toolID, &r.session, &r.format, &r.occurredAt,
	}
}

func (r *actionRow) toDomain() domain.ActionEvent {
	return domain.ActionEvent{
		ID:         r.id,
		Kind:       domain.ActionKind(r.kind),
		DomainID:   r.domainID,
		ToolID:     r.toolID,
		Session:    nullToString(r.session),
		Format:     nullToString(r.format),
		OccurredAt: fromMillis(r.occurredAt),
	}
}

// actionInsertArgs returns the insert arguments in column order
func actionInsertArgs(ev *domain.ActionEvent) []interface{} {
	return []interface{}{
		ev.ID,
		string(ev.Kind),
		ev.DomainID,
		ev.ToolID,
		stringToNull(ev.Session),
		stringToNull(ev.Format),
		toMillis(ev.OccurredAt),
	}
}

// ============================================================================
// Query Building
// ============================================================================

// buildActionQuery assembles the listing query for a filter
func buildActionQuery(f repository.ActionFilter) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	if f.DomainID != "" {
		where = append(where, "domain_id = ?")
		args = append(args, f.DomainID)
	}
	if f.ToolID != "" {
		where = append(where, "tool_id = ?")
		args = append(args, f.ToolID)
	}
	if f.Session != "" {
		where = append(where, "session = ?")
		args = append(args, f.Session)
	}
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(f.Kind))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = repository.DefaultActionLimit
	}

	var b strings.Builder
	b.WriteString("SELECT id, kind, domain_id, tool_id, session, format, occurred_at FROM action_events")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY occurred_at DESC, id DESC LIMIT ?")
	args = append(args, limit)

	return b.String(), args
}
