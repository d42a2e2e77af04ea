package domain

import "time"

// ActivityEvent is one immutable row of the append-only activity log. Events
// are never edited or deleted; ordering is by instant with the log ID breaking
// ties in insertion order.
type ActivityEvent struct {
	ID         int64          `json:"id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Actor      string         `json:"actor"`
	LeadID     *string        `json:"lead_id,omitempty"`
	Action     string         `json:"action"`
	OldValue   *string        `json:"old_value,omitempty"`
	NewValue   *string        `json:"new_value,omitempty"`
	Note       *string        `json:"note,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// HasLead reports whether the event references a lead. System-wide summary
// log lines carry no lead and are skipped by per-lead logic.
func (e *ActivityEvent) HasLead() bool {
	return e.LeadID != nil && *e.LeadID != ""
}
