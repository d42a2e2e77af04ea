package reporting

import (
	"sort"
	"strings"

	"github.com/taksitli/crm-reporting-api/internal/domain"
	"github.com/taksitli/crm-reporting-api/internal/usecases/classifying"
)

// normalizeOperator derives the grouping key for an actor string: lowercase,
// trim, then the configured alias table. Empty actors fall into the
// Unassigned bucket so totals stay reconcilable.
func normalizeOperator(raw string, aliases map[string]string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return domain.OperatorUnassigned
	}
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return key
}

// resolveAttribution determines which operator gets conversion credit for
// each delivered lead. The lead's stored owner may have changed after the
// sale was driven (e.g. escalation to a closer), so credit goes to the actor
// of the lead's first application-received marker event: whoever pulled the
// lead into application keeps the sale.
//
// Ordering is by instant ascending with log ID breaking ties, and the first
// marker wins. Leads with no marker fall back to the stored owner, then to
// Unassigned. The result is recomputed per report window, never cached on
// the lead.
func resolveAttribution(
	leads []*domain.Lead,
	history []classifying.Classified,
	aliases map[string]string,
) map[string]string {
	sorted := make([]classifying.Classified, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Event.OccurredAt.Equal(sorted[j].Event.OccurredAt) {
			return sorted[i].Event.OccurredAt.Before(sorted[j].Event.OccurredAt)
		}
		return sorted[i].Event.ID < sorted[j].Event.ID
	})

	markerActors := make(map[string]string)
	for _, classified := range sorted {
		if !classified.AttributionMarker || !classified.Event.HasLead() {
			continue
		}
		leadID := *classified.Event.LeadID
		if _, seen := markerActors[leadID]; seen {
			continue // first marker wins
		}
		markerActors[leadID] = normalizeOperator(classified.Event.Actor, aliases)
	}

	resolved := make(map[string]string, len(leads))
	for _, lead := range leads {
		if actor, ok := markerActors[lead.ID]; ok {
			resolved[lead.ID] = actor
			continue
		}
		resolved[lead.ID] = normalizeOperator(domain.StringValue(lead.Operator), aliases)
	}

	return resolved
}
