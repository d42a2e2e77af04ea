package reporting

import (
	"github.com/shopspring/decimal"
	"github.com/taksitli/crm-reporting-api/internal/domain"
	"github.com/taksitli/crm-reporting-api/internal/usecases/classifying"
	"github.com/taksitli/crm-reporting-api/pkg/businessclock"
	"github.com/taksitli/crm-reporting-api/pkg/money"
	"github.com/taksitli/crm-reporting-api/pkg/utils"
)

// buildFunnel folds the lead snapshot and the window-restricted classified
// events into the funnel counters. Status-derived counts inspect the full
// snapshot (a lead's current status matters regardless of when it last
// changed); approvals and deliveries are additionally gated on their own
// instants falling in-window.
func buildFunnel(
	leads []*domain.Lead,
	windowEvents []classifying.Classified,
	win businessclock.Window,
) (domain.FunnelMetrics, decimal.Decimal) {
	funnel := domain.FunnelMetrics{}
	revenue := decimal.Zero

	for _, lead := range leads {
		funnel.TotalLeads++

		if domain.StatusIsNew(lead.Status) {
			funnel.RemainingToCall++
		} else {
			funnel.Contacted++
		}

		if domain.StatusIsRetry(lead.Status) {
			funnel.RetryPool++
		}

		if domain.StatusIsApplication(lead.Status) || lead.HasApprovalDecision() {
			funnel.Applications++
		}

		if lead.IsApproved() && lead.ApprovedAt != nil && win.Contains(*lead.ApprovedAt) {
			funnel.Approvals++
		}

		if domain.StatusIsDelivered(lead.Status) {
			leadRevenue, matched := leadRevenueInWindow(lead, win)
			if matched {
				funnel.Deliveries++
				revenue = revenue.Add(leadRevenue)
			}
		}
	}

	funnel.AttorneyQueries, funnel.AttorneyClean, funnel.AttorneyRisky = countAttorneyQueries(windowEvents)

	funnel.AcquisitionRate = safeRate(funnel.Applications, funnel.Contacted)
	funnel.ConversionRate = safeRate(funnel.Deliveries, funnel.Applications)

	return funnel, revenue
}

// leadRevenueInWindow evaluates a converted lead's revenue against a window.
// Each sold item is checked independently on its own sale date (falling back
// to the lead's delivery instant), so revenue sums every matching item while
// the lead counts at most once in the delivered bucket. A lead with no items
// falls back to its scalar amount field, gated on the conversion instant.
func leadRevenueInWindow(lead *domain.Lead, win businessclock.Window) (decimal.Decimal, bool) {
	if len(lead.SoldItems) == 0 {
		conversion := lead.ConversionInstant()
		if conversion == nil || !win.Contains(*conversion) {
			return decimal.Zero, false
		}
		return money.Parse(lead.ScalarAmount()), true
	}

	total := decimal.Zero
	matched := false

	for _, item := range lead.SoldItems {
		itemInstant, ok := businessclock.ParseFlexible(item.SaleDate)
		if !ok {
			if lead.DeliveredAt == nil {
				continue
			}
			itemInstant = *lead.DeliveredAt
		}

		if !win.Contains(itemInstant) {
			continue
		}

		matched = true
		total = total.Add(money.Parse(item.Price))
	}

	return total, matched
}

// windowRevenue sums delivered revenue over an arbitrary window frame. Used
// for the daily and month-to-date finance rollups.
func windowRevenue(leads []*domain.Lead, win businessclock.Window) decimal.Decimal {
	total := decimal.Zero
	for _, lead := range leads {
		if !domain.StatusIsDelivered(lead.Status) {
			continue
		}
		if leadRevenue, matched := leadRevenueInWindow(lead, win); matched {
			total = total.Add(leadRevenue)
		}
	}
	return total
}

// countAttorneyQueries dedupes attorney query events per lead: a lead counts
// once as queried no matter how many query events it has, and its clean/risky
// bucket follows the latest event that carried a result.
func countAttorneyQueries(windowEvents []classifying.Classified) (issued, clean, risky int) {
	results := make(map[string]classifying.QueryResult)

	for _, classified := range windowEvents {
		if classified.Kind != classifying.KindAttorneyQuery || !classified.Event.HasLead() {
			continue
		}
		leadID := *classified.Event.LeadID
		if _, seen := results[leadID]; !seen {
			results[leadID] = classifying.QueryResultNone
		}
		if classified.QueryResult != classifying.QueryResultNone {
			results[leadID] = classified.QueryResult
		}
	}

	issued = len(results)
	for _, result := range results {
		switch result {
		case classifying.QueryResultClean:
			clean++
		case classifying.QueryResultRisky:
			risky++
		}
	}

	return issued, clean, risky
}

// safeRate is numerator/denominator*100 rounded to one decimal place, defined
// as 0 when the denominator is 0.
func safeRate(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return utils.RoundWithOneDecimalPlace(float64(numerator) / float64(denominator) * 100)
}
