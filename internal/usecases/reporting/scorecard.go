package reporting

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/taksitli/crm-reporting-api/internal/config"
	"github.com/taksitli/crm-reporting-api/internal/domain"
	"github.com/taksitli/crm-reporting-api/internal/usecases/classifying"
	"github.com/taksitli/crm-reporting-api/pkg/businessclock"
	"github.com/taksitli/crm-reporting-api/pkg/money"
	"github.com/taksitli/crm-reporting-api/pkg/utils"
)

// goalStretchPercent is the stretch applied on top of the 7-day call average
// when deriving the adaptive daily goal.
const goalStretchPercent = 10

// scorecardInputs gathers everything the per-operator rollup needs. Events
// are already window-restricted; historyCalls carries the lookback call
// counts per operator key for the adaptive goal.
type scorecardInputs struct {
	windowEvents []classifying.Classified
	historyCalls map[string]int
	leads        []*domain.Lead
	attribution  map[string]string
	win          businessclock.Window
}

type scorecardAccumulator struct {
	card     domain.OperatorScorecard
	instants []time.Time
}

// buildScorecards computes the per-operator activity counters, pace, adaptive
// daily goal, revenue and efficiency.
func buildScorecards(in scorecardInputs, cfg config.Reporting, aliases map[string]string) []domain.OperatorScorecard {
	accumulators := make(map[string]*scorecardAccumulator)

	get := func(operator string) *scorecardAccumulator {
		acc, ok := accumulators[operator]
		if !ok {
			acc = &scorecardAccumulator{card: domain.OperatorScorecard{
				Operator:      operator,
				ApprovedLimit: decimal.Zero,
				Revenue:       decimal.Zero,
			}}
			accumulators[operator] = acc
		}
		return acc
	}

	for _, classified := range in.windowEvents {
		operator := normalizeOperator(classified.Event.Actor, aliases)
		acc := get(operator)

		acc.card.TotalActivity++
		acc.instants = append(acc.instants, classified.Event.OccurredAt)

		switch classified.Kind {
		case classifying.KindCall:
			acc.card.Calls++
		case classifying.KindSms:
			acc.card.Sms++
		case classifying.KindWhatsApp:
			acc.card.WhatsApp++
		case classifying.KindPull:
			acc.card.Pulls++
		}

		if classified.AttributionMarker {
			acc.card.Applications++
		}
	}

	// Outcome credit follows attribution, not event actorship: approvals,
	// approved limits, deliveries and revenue land on the operator who
	// pulled the lead into application.
	for _, lead := range in.leads {
		operator, ok := in.attribution[lead.ID]
		if !ok {
			continue
		}

		if lead.IsApproved() && lead.ApprovedAt != nil && in.win.Contains(*lead.ApprovedAt) {
			acc := get(operator)
			acc.card.Approvals++
			if lead.ApprovedLimit != nil {
				acc.card.ApprovedLimit = acc.card.ApprovedLimit.Add(money.Parse(*lead.ApprovedLimit))
			}
		}

		if domain.StatusIsDelivered(lead.Status) {
			if leadRevenue, matched := leadRevenueInWindow(lead, in.win); matched {
				acc := get(operator)
				acc.card.Deliveries++
				acc.card.Revenue = acc.card.Revenue.Add(leadRevenue)
			}
		}
	}

	lookbackDays := cfg.GoalLookbackDays
	if lookbackDays <= 0 {
		lookbackDays = 7
	}

	cards := make([]domain.OperatorScorecard, 0, len(accumulators))
	for operator, acc := range accumulators {
		acc.card.PaceMinutes = paceMinutes(acc.instants, cfg.PaceBreakMinutes)
		acc.card.DailyGoal = dailyGoal(in.historyCalls[operator], lookbackDays, cfg.DefaultDailyCallGoal)
		acc.card.Efficiency = efficiency(acc.card.Deliveries, acc.card.TotalActivity)
		cards = append(cards, acc.card)
	}

	sort.Slice(cards, func(i, j int) bool {
		if !cards[i].Revenue.Equal(cards[j].Revenue) {
			return cards[i].Revenue.GreaterThan(cards[j].Revenue)
		}
		if cards[i].Calls != cards[j].Calls {
			return cards[i].Calls > cards[j].Calls
		}
		return cards[i].Operator < cards[j].Operator
	})

	return cards
}

// paceMinutes is the mean gap in minutes between an operator's consecutive
// actions. Gaps of breakMinutes or more are breaks, not working pace, and
// are discarded. Fewer than two qualifying actions yield 0.
func paceMinutes(instants []time.Time, breakMinutes int) int {
	if len(instants) < 2 {
		return 0
	}
	if breakMinutes <= 0 {
		breakMinutes = 60
	}

	sorted := make([]time.Time, len(instants))
	copy(sorted, instants)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	breakGap := time.Duration(breakMinutes) * time.Minute
	var total time.Duration
	qualifying := 0

	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Sub(sorted[i-1])
		if gap >= breakGap {
			continue
		}
		total += gap
		qualifying++
	}

	if qualifying == 0 {
		return 0
	}

	mean := float64(total.Minutes()) / float64(qualifying)
	return int(mean + 0.5)
}

// dailyGoal derives the adaptive call goal: the lookback average rounded up,
// stretched by goalStretchPercent, rounded up again. Integer arithmetic
// avoids float artifacts (ceil(50*1.10) must be 55, not 56). Operators with
// no lookback history get the configured default.
func dailyGoal(lookbackCalls, lookbackDays, defaultGoal int) int {
	if lookbackCalls == 0 {
		return defaultGoal
	}

	average := ceilDiv(lookbackCalls, lookbackDays)
	return ceilDiv(average*(100+goalStretchPercent), 100)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// efficiency is deliveries over total activity, as a percentage with one
// decimal place. The denominator is clamped to 1 so idle operators report 0
// rather than dividing by zero.
func efficiency(deliveries, totalActivity int) float64 {
	if totalActivity < 1 {
		totalActivity = 1
	}
	return utils.RoundWithOneDecimalPlace(float64(deliveries) / float64(totalActivity) * 100)
}
