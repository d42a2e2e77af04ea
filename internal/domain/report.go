package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportMeta describes how the requested window was resolved.
type ReportMeta struct {
	RunID       string    `json:"run_id"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	GeneratedAt time.Time `json:"generated_at"`
}

// FunnelMetrics are the window-restricted funnel counters and ratios.
type FunnelMetrics struct {
	TotalLeads      int `json:"total_leads"`
	Contacted       int `json:"contacted"`
	RemainingToCall int `json:"remaining_to_call"`
	RetryPool       int `json:"retry_pool"`
	Applications    int `json:"applications"`

	AttorneyQueries int `json:"attorney_queries"`
	AttorneyClean   int `json:"attorney_clean"`
	AttorneyRisky   int `json:"attorney_risky"`

	Approvals  int `json:"approvals"`
	Deliveries int `json:"deliveries"`

	// AcquisitionRate = applications / contacted * 100, one decimal, 0 when
	// contacted is 0. ConversionRate follows the same rule over applications.
	AcquisitionRate float64 `json:"acquisition_rate"`
	ConversionRate  float64 `json:"conversion_rate"`
}

// FinanceMetrics are the revenue rollups for the requested window plus the
// fixed daily and month-to-date frames relative to "now".
type FinanceMetrics struct {
	WindowRevenue decimal.Decimal `json:"window_revenue"`
	TodayRevenue  decimal.Decimal `json:"today_revenue"`
	MonthRevenue  decimal.Decimal `json:"month_revenue"`
}

// OperatorScorecard is the per-operator activity and outcome rollup.
type OperatorScorecard struct {
	Operator      string          `json:"operator"`
	Calls         int             `json:"calls"`
	Sms           int             `json:"sms"`
	WhatsApp      int             `json:"whatsapp"`
	Pulls         int             `json:"pulls"`
	Applications  int             `json:"applications"`
	Approvals     int             `json:"approvals"`
	ApprovedLimit decimal.Decimal `json:"approved_limit"`
	Deliveries    int             `json:"deliveries"`
	Revenue       decimal.Decimal `json:"revenue"`
	TotalActivity int             `json:"total_activity"`

	// PaceMinutes is the mean gap between consecutive actions, breaks
	// excluded; 0 when fewer than two qualifying actions exist.
	PaceMinutes int `json:"pace_minutes"`
	// DailyGoal is the adaptive call goal derived from the prior seven
	// civil days.
	DailyGoal int `json:"daily_goal"`
	// Efficiency = deliveries / max(total activity, 1) * 100.
	Efficiency float64 `json:"efficiency"`
}

// Demographics are group-by-count breakdowns over the lead snapshot.
type Demographics struct {
	ByCity         map[string]int `json:"by_city"`
	ByProfession   map[string]int `json:"by_profession"`
	ByAgeBucket    map[string]int `json:"by_age_bucket"`
	ByIncomeBucket map[string]int `json:"by_income_bucket"`
}

// HeatmapCell is one (civil day, operator, hour) activity count.
type HeatmapCell struct {
	Date     string `json:"date"`
	Operator string `json:"operator"`
	Hour     int    `json:"hour"`
	Count    int    `json:"count"`
}

// Report is the immutable output of one aggregation run. It is created fresh
// per request and never persisted by the engine itself.
type Report struct {
	Meta             ReportMeta          `json:"meta"`
	Funnel           FunnelMetrics       `json:"funnel"`
	Finance          FinanceMetrics      `json:"finance"`
	Operators        []OperatorScorecard `json:"operators"`
	Demographics     Demographics        `json:"demographics"`
	RejectionReasons map[string]int      `json:"rejection_reasons"`
	Heatmap          []HeatmapCell       `json:"heatmap"`
}
