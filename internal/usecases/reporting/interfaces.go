package reporting

import (
	"context"
	"time"

	"github.com/taksitli/crm-reporting-api/internal/domain"
	"github.com/taksitli/crm-reporting-api/pkg/businessclock"
)

// Clock abstracts "now" so report runs are deterministic under test. No code
// inside the aggregation path reads the wall clock directly.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall-clock implementation used in production.
func SystemClock() Clock { return systemClock{} }

// FixedClock returns a Clock frozen at t.
func FixedClock(t time.Time) Clock { return fixedClock{t} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// Reporter builds full analytics reports for a requested time window. Every
// build is a pure function of the fetched snapshots, the window and "now";
// nothing is written back to the stores.
type Reporter interface {
	// BuildForDates resolves explicit civil start/end dates into a window
	// and builds the report.
	BuildForDates(ctx context.Context, startDate, endDate string) (*domain.Report, error)

	// BuildToday builds the report for the current civil day.
	BuildToday(ctx context.Context) (*domain.Report, error)

	// BuildMonthToDate builds the report from the start of the current civil
	// month through the end of the current civil day.
	BuildMonthToDate(ctx context.Context) (*domain.Report, error)

	// BuildWindow builds the report for an already resolved window.
	BuildWindow(ctx context.Context, win businessclock.Window) (*domain.Report, error)
}
