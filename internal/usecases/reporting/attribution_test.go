package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/taksitli/crm-reporting-api/internal/domain"
	"github.com/taksitli/crm-reporting-api/internal/usecases/classifying"
)

func markerEvent(id int64, leadID, actor string, at time.Time) classifying.Classified {
	newValue := domain.StatusApplicationReceived
	return classifying.Classified{
		Event: domain.ActivityEvent{
			ID:         id,
			OccurredAt: at,
			Actor:      actor,
			LeadID:     &leadID,
			Action:     "Durum Değişikliği",
			NewValue:   &newValue,
		},
		Kind:              classifying.KindStatusChange,
		NewValue:          newValue,
		AttributionMarker: true,
	}
}

func TestResolveAttribution_FirstMarkerWins(t *testing.T) {
	operatorB := "operator b"
	base := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	lead := &domain.Lead{
		ID:       "L1",
		Status:   domain.StatusDelivered,
		Operator: &operatorB, // ownership moved after the sale was driven
	}

	history := []classifying.Classified{
		markerEvent(2, "L1", "Operator B", base.Add(2*time.Hour)),
		markerEvent(1, "L1", "Operator A", base), // earlier, listed out of order
	}

	resolved := resolveAttribution([]*domain.Lead{lead}, history, nil)

	assert.Equal(t, "operator a", resolved["L1"])
}

func TestResolveAttribution_TieBreaksByLogID(t *testing.T) {
	at := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	lead := &domain.Lead{ID: "L1", Status: domain.StatusDelivered}

	history := []classifying.Classified{
		markerEvent(7, "L1", "Second", at),
		markerEvent(3, "L1", "First", at),
	}

	resolved := resolveAttribution([]*domain.Lead{lead}, history, nil)

	assert.Equal(t, "first", resolved["L1"])
}

func TestResolveAttribution_FallsBackToStoredOwner(t *testing.T) {
	owner := "Mehmet Yılmaz"
	lead := &domain.Lead{ID: "L2", Status: domain.StatusDelivered, Operator: &owner}

	resolved := resolveAttribution([]*domain.Lead{lead}, nil, nil)

	assert.Equal(t, "mehmet yılmaz", resolved["L2"])
}

func TestResolveAttribution_UnassignedWhenNoOwner(t *testing.T) {
	lead := &domain.Lead{ID: "L3", Status: domain.StatusDelivered}

	resolved := resolveAttribution([]*domain.Lead{lead}, nil, nil)

	assert.Equal(t, domain.OperatorUnassigned, resolved["L3"])
}

func TestResolveAttribution_AppliesAliases(t *testing.T) {
	aliases := map[string]string{"ayse k": "ayşe kaya"}
	base := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	lead := &domain.Lead{ID: "L4", Status: domain.StatusDelivered}
	history := []classifying.Classified{
		markerEvent(1, "L4", " Ayse K ", base),
	}

	resolved := resolveAttribution([]*domain.Lead{lead}, history, aliases)

	assert.Equal(t, "ayşe kaya", resolved["L4"])
}

func TestNormalizeOperator(t *testing.T) {
	aliases := map[string]string{"mehmet y.": "mehmet yılmaz"}

	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "trims and lowercases", raw: "  Ayşe Kaya ", expected: "ayşe kaya"},
		{name: "applies alias table", raw: "Mehmet Y.", expected: "mehmet yılmaz"},
		{name: "empty actor is unassigned", raw: "   ", expected: domain.OperatorUnassigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeOperator(tt.raw, aliases))
		})
	}
}
