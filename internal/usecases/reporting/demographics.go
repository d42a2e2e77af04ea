package reporting

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/taksitli/crm-reporting-api/internal/domain"
	"github.com/taksitli/crm-reporting-api/pkg/businessclock"
	"github.com/taksitli/crm-reporting-api/pkg/money"
)

const unknownBucket = "unknown"

// buildDemographics computes the group-by-count breakdowns over the lead
// snapshot. Unparsable birth dates and incomes land in the unknown bucket
// instead of dropping the lead.
func buildDemographics(leads []*domain.Lead, now time.Time) domain.Demographics {
	demographics := domain.Demographics{
		ByCity:         make(map[string]int),
		ByProfession:   make(map[string]int),
		ByAgeBucket:    make(map[string]int),
		ByIncomeBucket: make(map[string]int),
	}

	for _, lead := range leads {
		demographics.ByCity[labelOrUnknown(lead.City)]++
		demographics.ByProfession[labelOrUnknown(lead.Profession)]++
		demographics.ByAgeBucket[ageBucket(domain.StringValue(lead.BirthDate), now)]++
		demographics.ByIncomeBucket[incomeBucket(domain.StringValue(lead.Income))]++
	}

	return demographics
}

func labelOrUnknown(value *string) string {
	if value == nil || *value == "" {
		return unknownBucket
	}
	return *value
}

// ageBucket derives the age band from a raw birth date string.
func ageBucket(birthDate string, now time.Time) string {
	born, ok := businessclock.ParseFlexible(birthDate)
	if !ok {
		return unknownBucket
	}

	age := now.Year() - born.Year()
	if now.YearDay() < born.YearDay() {
		age--
	}

	switch {
	case age < 18:
		return "under-18"
	case age <= 24:
		return "18-24"
	case age <= 34:
		return "25-34"
	case age <= 44:
		return "35-44"
	case age <= 54:
		return "45-54"
	case age <= 64:
		return "55-64"
	default:
		return "65+"
	}
}

var incomeBands = []struct {
	upper decimal.Decimal
	label string
}{
	{upper: decimal.NewFromInt(10000), label: "0-10000"},
	{upper: decimal.NewFromInt(20000), label: "10000-20000"},
	{upper: decimal.NewFromInt(30000), label: "20000-30000"},
	{upper: decimal.NewFromInt(50000), label: "30000-50000"},
}

// incomeBucket derives the income band from a raw monetary string. Zero and
// unparsable incomes are unknown.
func incomeBucket(income string) string {
	amount := money.Parse(income)
	if amount.LessThanOrEqual(decimal.Zero) {
		return unknownBucket
	}

	for _, band := range incomeBands {
		if amount.LessThan(band.upper) {
			return band.label
		}
	}
	return "50000+"
}

// Canonical rejection reason labels. The mapping from status and approval
// sub-status is fixed; a lead-supplied free-text reason overrides it only for
// cancelled leads.
const (
	reasonCustomerDeclined = "Müşteri Reddetti"
	reasonCancelled        = "Müşteri Vazgeçti"
	reasonCreditRejected   = "Kredi Onayı Reddedildi"
)

// buildRejectionReasons tallies why leads fell out of the funnel.
func buildRejectionReasons(leads []*domain.Lead) map[string]int {
	reasons := make(map[string]int)

	for _, lead := range leads {
		// Statuses are human-entered; match through the normalized sets like
		// everywhere else.
		switch {
		case domain.StatusIsCancelled(lead.Status):
			reason := reasonCancelled
			if lead.CancelReason != nil && *lead.CancelReason != "" {
				reason = *lead.CancelReason
			}
			reasons[reason]++
		case domain.StatusIsRejected(lead.Status):
			reasons[reasonCustomerDeclined]++
		default:
			if lead.IsApprovalRejected() {
				reasons[reasonCreditRejected]++
			}
		}
	}

	return reasons
}
