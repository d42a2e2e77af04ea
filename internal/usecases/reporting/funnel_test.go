package reporting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/taksitli/crm-reporting-api/internal/domain"
	"github.com/taksitli/crm-reporting-api/internal/usecases/classifying"
	"github.com/taksitli/crm-reporting-api/pkg/businessclock"
)

func mustWindow(t *testing.T, start, end string) businessclock.Window {
	t.Helper()
	win, err := businessclock.WindowForDates(start, end)
	assert.NoError(t, err)
	return win
}

func leadWithStatus(id, status string) *domain.Lead {
	return &domain.Lead{ID: id, Status: status}
}

func TestBuildFunnel_ContactedComplementsRemaining(t *testing.T) {
	win := mustWindow(t, "2024-06-01", "2024-06-30")

	// 10 leads: 3 untouched, 2 rejected, rest spread over worked statuses.
	// Rejected leads were contacted; only status New counts as remaining.
	leads := []*domain.Lead{
		leadWithStatus("L1", domain.StatusNew),
		leadWithStatus("L2", domain.StatusNew),
		leadWithStatus("L3", domain.StatusNew),
		leadWithStatus("L4", domain.StatusRejected),
		leadWithStatus("L5", domain.StatusRejected),
		leadWithStatus("L6", domain.StatusContacted),
		leadWithStatus("L7", domain.StatusCallAgain),
		leadWithStatus("L8", domain.StatusApplicationReceived),
		leadWithStatus("L9", domain.StatusUnreachable),
		leadWithStatus("L10", domain.StatusCancelled),
	}

	funnel, _ := buildFunnel(leads, nil, win)

	assert.Equal(t, 10, funnel.TotalLeads)
	assert.Equal(t, 3, funnel.RemainingToCall)
	assert.Equal(t, 7, funnel.Contacted)
	assert.Equal(t, 2, funnel.RetryPool) // Tekrar Aranacak + Ulaşılamadı
	assert.Equal(t, 1, funnel.Applications)
}

func TestBuildFunnel_RevenueOnlyCountsInWindowItems(t *testing.T) {
	win := mustWindow(t, "2024-06-01", "2024-06-30")
	deliveredAt := time.Date(2024, 6, 10, 12, 0, 0, 0, businessclock.Location)

	// One item sold in June, one in July. The lead converts once; only the
	// June item's price lands in the window revenue.
	lead := &domain.Lead{
		ID:          "L1",
		Status:      domain.StatusDelivered,
		DeliveredAt: &deliveredAt,
		SoldItems: []domain.SoldItem{
			{Brand: "A", Price: "1.000,00", SaleDate: "2024-06-10"},
			{Brand: "B", Price: "1.000,00", SaleDate: "2024-07-05"},
		},
	}

	funnel, revenue := buildFunnel([]*domain.Lead{lead}, nil, win)

	assert.Equal(t, 1, funnel.Deliveries)
	assert.True(t, revenue.Equal(decimal.NewFromInt(1000)), "got %s", revenue)
}

func TestBuildFunnel_DeliveredLeadCountsOnceWithMultipleItems(t *testing.T) {
	win := mustWindow(t, "2024-06-01", "2024-06-30")

	lead := &domain.Lead{
		ID:     "L1",
		Status: domain.StatusSold,
		SoldItems: []domain.SoldItem{
			{Price: "500", SaleDate: "2024-06-05"},
			{Price: "700", SaleDate: "2024-06-20"},
		},
	}

	funnel, revenue := buildFunnel([]*domain.Lead{lead}, nil, win)

	assert.Equal(t, 1, funnel.Deliveries)
	assert.True(t, revenue.Equal(decimal.NewFromInt(1200)), "got %s", revenue)
}

func TestBuildFunnel_ScalarFallbackWithoutItems(t *testing.T) {
	win := mustWindow(t, "2024-06-01", "2024-06-30")
	soldAt := time.Date(2024, 6, 15, 10, 0, 0, 0, businessclock.Location)
	limit := "12.500,75"

	lead := &domain.Lead{
		ID:            "L1",
		Status:        domain.StatusDelivered,
		SoldAt:        &soldAt,
		ApprovedLimit: &limit,
	}

	funnel, revenue := buildFunnel([]*domain.Lead{lead}, nil, win)

	assert.Equal(t, 1, funnel.Deliveries)
	assert.True(t, revenue.Equal(decimal.RequireFromString("12500.75")), "got %s", revenue)
}

func TestBuildFunnel_OutOfWindowConversionExcluded(t *testing.T) {
	win := mustWindow(t, "2024-06-01", "2024-06-30")
	soldAt := time.Date(2024, 5, 20, 10, 0, 0, 0, businessclock.Location)
	amount := "900"

	lead := &domain.Lead{
		ID:              "L1",
		Status:          domain.StatusDelivered,
		SoldAt:          &soldAt,
		RequestedAmount: &amount,
	}

	funnel, revenue := buildFunnel([]*domain.Lead{lead}, nil, win)

	assert.Equal(t, 0, funnel.Deliveries)
	assert.True(t, revenue.IsZero())
}

func TestBuildFunnel_RatiosZeroOnZeroDenominator(t *testing.T) {
	win := mustWindow(t, "2024-06-01", "2024-06-30")

	funnel, _ := buildFunnel(nil, nil, win)

	assert.Equal(t, float64(0), funnel.AcquisitionRate)
	assert.Equal(t, float64(0), funnel.ConversionRate)
}

func TestBuildFunnel_Rates(t *testing.T) {
	win := mustWindow(t, "2024-06-01", "2024-06-30")
	approvedAt := time.Date(2024, 6, 12, 11, 0, 0, 0, businessclock.Location)
	approved := domain.ApprovalApproved

	leads := []*domain.Lead{
		leadWithStatus("L1", domain.StatusContacted),
		leadWithStatus("L2", domain.StatusContacted),
		leadWithStatus("L3", domain.StatusApplicationReceived),
		{
			ID:            "L4",
			Status:        domain.StatusApplicationReceived,
			ApprovalState: &approved,
			ApprovedAt:    &approvedAt,
		},
		{
			ID:     "L5",
			Status: domain.StatusDelivered,
			SoldItems: []domain.SoldItem{
				{Price: "100", SaleDate: "2024-06-14"},
			},
		},
	}

	funnel, _ := buildFunnel(leads, nil, win)

	// 3 applications over 5 contacted, 1 delivery over 3 applications.
	assert.Equal(t, 3, funnel.Applications)
	assert.Equal(t, 1, funnel.Approvals)
	assert.Equal(t, 60.0, funnel.AcquisitionRate)
	assert.Equal(t, 33.3, funnel.ConversionRate)
}

func TestCountAttorneyQueries_DedupesPerLead(t *testing.T) {
	leadA, leadB, leadC := "LA", "LB", "LC"
	clean := "Sonuç: Temiz"
	risky := "İcra kaydı bulundu"

	events := []classifying.Classified{
		// Lead A queried twice: the earlier risky result is superseded.
		{Kind: classifying.KindAttorneyQuery, QueryResult: classifying.QueryResultRisky, Event: domain.ActivityEvent{ID: 1, LeadID: &leadA, NewValue: &risky}},
		{Kind: classifying.KindAttorneyQuery, QueryResult: classifying.QueryResultClean, Event: domain.ActivityEvent{ID: 2, LeadID: &leadA, NewValue: &clean}},
		// Lead B queried once with no recorded result.
		{Kind: classifying.KindAttorneyQuery, QueryResult: classifying.QueryResultNone, Event: domain.ActivityEvent{ID: 3, LeadID: &leadB}},
		// Lead C risky.
		{Kind: classifying.KindAttorneyQuery, QueryResult: classifying.QueryResultRisky, Event: domain.ActivityEvent{ID: 4, LeadID: &leadC, NewValue: &risky}},
		// Non-query events are ignored.
		{Kind: classifying.KindCall, Event: domain.ActivityEvent{ID: 5, LeadID: &leadA}},
	}

	issued, clean2, risky2 := countAttorneyQueries(events)

	assert.Equal(t, 3, issued)
	assert.Equal(t, 1, clean2)
	assert.Equal(t, 1, risky2)
}

func TestWindowRevenue_SkipsNonDelivered(t *testing.T) {
	win := mustWindow(t, "2024-06-01", "2024-06-30")

	leads := []*domain.Lead{
		{
			ID:     "L1",
			Status: domain.StatusDelivered,
			SoldItems: []domain.SoldItem{
				{Price: "250", SaleDate: "2024-06-03"},
			},
		},
		{
			ID:     "L2",
			Status: domain.StatusApplicationReceived,
			SoldItems: []domain.SoldItem{
				{Price: "999", SaleDate: "2024-06-03"},
			},
		},
	}

	total := windowRevenue(leads, win)

	assert.True(t, total.Equal(decimal.NewFromInt(250)), "got %s", total)
}
