// Package classifying maps raw activity log rows onto semantic event kinds.
//
// The upstream log uses free-form action codes and de facto enum values typed
// by operators, so classification is substring matching over a versioned rule
// table: new status spellings become table entries, not new code paths.
package classifying

import (
	"strings"

	"github.com/taksitli/crm-reporting-api/internal/domain"
)

// Kind is the semantic category of an activity event.
type Kind string

const (
	KindCall          Kind = "call"
	KindSms           Kind = "sms"
	KindWhatsApp      Kind = "whatsapp"
	KindPull          Kind = "pull"
	KindStatusChange  Kind = "status_change"
	KindAttorneyQuery Kind = "attorney_query"
	KindOther         Kind = "other"
)

// QueryResult is the outcome of an attorney/registry query.
type QueryResult string

const (
	QueryResultNone  QueryResult = ""
	QueryResultClean QueryResult = "clean"
	QueryResultRisky QueryResult = "risky"
)

// Classified pairs an event with its resolved kind.
type Classified struct {
	Event domain.ActivityEvent
	Kind  Kind

	// OldValue/NewValue carry the status transition for KindStatusChange.
	OldValue string
	NewValue string

	// QueryResult is set for KindAttorneyQuery.
	QueryResult QueryResult

	// AttributionMarker flags a status change whose new value indicates the
	// application was received. The attribution resolver credits the
	// conversion to the first such event's actor.
	AttributionMarker bool
}

// RulesVersion identifies the active rule table. Bump when the matching rules
// change so stored snapshots can be told apart.
const RulesVersion = "2024-06"

// actionRules map substrings of the action code to a kind, checked in order.
// WhatsApp precedes SMS because some codes read "whatsapp mesajı".
var actionRules = []struct {
	substrings []string
	kind       Kind
}{
	{substrings: []string{"whatsapp", "wp mesaj"}, kind: KindWhatsApp},
	{substrings: []string{"sms", "mesaj"}, kind: KindSms},
	{substrings: []string{"arama", "aranma", "call", "telefon"}, kind: KindCall},
	{substrings: []string{"çekme", "cekme", "müşteri çek", "pull"}, kind: KindPull},
	{substrings: []string{"durum", "status"}, kind: KindStatusChange},
}

// attributionMarkerValues are the new-status spellings meaning "application
// received". The mixed variant covers all-caps input: ToLower maps Ş to ş but
// ASCII I to i, so "BAŞVURU ALINDI" folds to "başvuru alindi".
var attributionMarkerValues = []string{"başvuru alındı", "basvuru alindi", "başvuru alindi"}

// attorneySubstrings must all be present (across action, note and new value)
// for an event to count as an attorney query update.
var attorneySubstrings = []string{"avukat", "sorgu"}

const cleanQuerySubstring = "temiz"

// Classifier applies the rule table. It carries no mutable state and is safe
// for concurrent use.
type Classifier struct{}

func New() *Classifier {
	return &Classifier{}
}

// Classify resolves the semantic kind of a single event. Events matching no
// rule come back as KindOther and only ever count in generic per-operator
// totals.
func (c *Classifier) Classify(event domain.ActivityEvent) Classified {
	classified := Classified{Event: event, Kind: KindOther}

	action := fold(event.Action)
	newValue := fold(domain.StringValue(event.NewValue))
	note := fold(domain.StringValue(event.Note))

	// Attorney queries first: their action codes often also contain "durum"
	// and would otherwise be swallowed by the status-change rule.
	combined := action + " " + note + " " + newValue
	if containsAll(combined, attorneySubstrings) {
		classified.Kind = KindAttorneyQuery
		classified.OldValue = domain.StringValue(event.OldValue)
		classified.NewValue = domain.StringValue(event.NewValue)
		classified.QueryResult = queryResultOf(newValue)
		return classified
	}

	for _, rule := range actionRules {
		if !containsAny(action, rule.substrings) {
			continue
		}
		classified.Kind = rule.kind
		break
	}

	if classified.Kind == KindStatusChange {
		classified.OldValue = domain.StringValue(event.OldValue)
		classified.NewValue = domain.StringValue(event.NewValue)
		classified.AttributionMarker = containsAny(newValue, attributionMarkerValues)
	}

	return classified
}

// ClassifyAll classifies a batch, preserving order.
func (c *Classifier) ClassifyAll(events []domain.ActivityEvent) []Classified {
	classified := make([]Classified, 0, len(events))
	for _, event := range events {
		classified = append(classified, c.Classify(event))
	}
	return classified
}

// queryResultOf buckets an attorney query outcome: a value containing "Temiz"
// is clean, any other non-empty result is treated as risky.
func queryResultOf(foldedNewValue string) QueryResult {
	if foldedNewValue == "" {
		return QueryResultNone
	}
	if strings.Contains(foldedNewValue, cleanQuerySubstring) {
		return QueryResultClean
	}
	return QueryResultRisky
}

// fold lowercases for case-insensitive matching. Turkish dotted/dotless I
// does not round-trip through ToLower, which is why the rule table lists every
// spelling where it matters.
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
