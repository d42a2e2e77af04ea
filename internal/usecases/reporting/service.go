package reporting

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/taksitli/crm-reporting-api/infrastructure/repository"
	"github.com/taksitli/crm-reporting-api/internal/config"
	"github.com/taksitli/crm-reporting-api/internal/domain"
	"github.com/taksitli/crm-reporting-api/internal/usecases/classifying"
	"github.com/taksitli/crm-reporting-api/pkg/businessclock"
	"github.com/taksitli/crm-reporting-api/pkg/utils"
)

// Service assembles reports from the entity and event stores. Each build
// works on its own fetched snapshot, so concurrent report requests need no
// coordination.
type Service struct {
	cfg        *config.Config
	leadRepo   repository.LeadRepository
	eventRepo  repository.EventRepository
	classifier *classifying.Classifier
	clock      Clock
}

func NewService(
	cfg *config.Config,
	leadRepo repository.LeadRepository,
	eventRepo repository.EventRepository,
	classifier *classifying.Classifier,
	clock Clock,
) Reporter {
	return &Service{
		cfg:        cfg,
		leadRepo:   leadRepo,
		eventRepo:  eventRepo,
		classifier: classifier,
		clock:      clock,
	}
}

func (s *Service) BuildForDates(ctx context.Context, startDate, endDate string) (*domain.Report, error) {
	win, err := businessclock.WindowForDates(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.BuildWindow(ctx, win)
}

func (s *Service) BuildToday(ctx context.Context) (*domain.Report, error) {
	return s.BuildWindow(ctx, businessclock.DayWindow(s.clock.Now()))
}

func (s *Service) BuildMonthToDate(ctx context.Context) (*domain.Report, error) {
	now := s.clock.Now()
	win := businessclock.Window{
		Start: businessclock.StartOfMonth(now),
		End:   businessclock.DayWindow(now).End,
	}
	return s.BuildWindow(ctx, win)
}

// BuildWindow runs the full aggregation for a resolved window. Store
// failures surface as one aggregate error; the engine never returns a
// partial report. An empty snapshot is a valid, zero-valued report.
func (s *Service) BuildWindow(ctx context.Context, win businessclock.Window) (*domain.Report, error) {
	now := s.clock.Now()

	lookbackDays := s.cfg.Reporting.GoalLookbackDays
	if lookbackDays <= 0 {
		lookbackDays = 7
	}
	fetchStart := win.Start.AddDate(0, 0, -lookbackDays)

	// Fetch the entity snapshot and the event range concurrently. Both are
	// snapshots as of now, so completion order does not matter.
	var (
		leads     []*domain.Lead
		events    []domain.ActivityEvent
		leadsErr  error
		eventsErr error
	)

	wg := sync.WaitGroup{}
	wg.Add(2)

	go func() {
		defer wg.Done()
		leads, leadsErr = s.leadRepo.ListAll(ctx)
	}()

	go func() {
		defer wg.Done()
		events, eventsErr = s.eventRepo.ListByRange(ctx, fetchStart, win.End)
	}()

	wg.Wait()

	if leadsErr != nil {
		return nil, errors.Wrap(leadsErr, "fetching lead snapshot")
	}
	if eventsErr != nil {
		return nil, errors.Wrap(eventsErr, "fetching event range")
	}

	classified := s.classifier.ClassifyAll(events)

	windowEvents := make([]classifying.Classified, 0, len(classified))
	historyCalls := make(map[string]int)

	for _, c := range classified {
		if win.Contains(c.Event.OccurredAt) {
			windowEvents = append(windowEvents, c)
			continue
		}
		if c.Kind == classifying.KindCall && c.Event.OccurredAt.Before(win.Start) {
			historyCalls[normalizeOperator(c.Event.Actor, s.cfg.OperatorAlias.Map)]++
		}
	}

	// Attribution needs the full history of the converted leads, which may
	// predate the fetched range; gather it in a dedicated pass.
	deliveredIDs := make([]string, 0)
	for _, lead := range leads {
		if domain.StatusIsDelivered(lead.Status) {
			deliveredIDs = append(deliveredIDs, lead.ID)
		}
	}

	var history []classifying.Classified
	if len(deliveredIDs) > 0 {
		historyEvents, err := s.eventRepo.ListByLeadIDs(ctx, deliveredIDs)
		if err != nil {
			return nil, errors.Wrap(err, "fetching conversion histories")
		}
		history = s.classifier.ClassifyAll(historyEvents)
	}

	attribution := resolveAttribution(leads, history, s.cfg.OperatorAlias.Map)

	funnel, revenue := buildFunnel(leads, windowEvents, win)

	todayWindow := businessclock.DayWindow(now)
	finance := domain.FinanceMetrics{
		WindowRevenue: revenue,
		TodayRevenue:  windowRevenue(leads, todayWindow),
		MonthRevenue: windowRevenue(leads, businessclock.Window{
			Start: businessclock.StartOfMonth(now),
			End:   todayWindow.End,
		}),
	}

	scorecards := buildScorecards(scorecardInputs{
		windowEvents: windowEvents,
		historyCalls: historyCalls,
		leads:        leads,
		attribution:  attribution,
		win:          win,
	}, s.cfg.Reporting, s.cfg.OperatorAlias.Map)

	report := &domain.Report{
		Meta: domain.ReportMeta{
			RunID:       reportRunID(),
			StartDate:   businessclock.DayKey(win.Start),
			EndDate:     businessclock.DayKey(win.End.Add(-time.Nanosecond)),
			GeneratedAt: now,
		},
		Funnel:           funnel,
		Finance:          finance,
		Operators:        scorecards,
		Demographics:     buildDemographics(leads, now),
		RejectionReasons: buildRejectionReasons(leads),
		Heatmap:          buildHeatmap(windowEvents, s.cfg.OperatorAlias.Map),
	}

	logrus.WithFields(logrus.Fields{
		"run_id":     report.Meta.RunID,
		"start_date": report.Meta.StartDate,
		"end_date":   report.Meta.EndDate,
		"leads":      len(leads),
		"events":     len(events),
		"operators":  len(scorecards),
	}).Info("Report assembled")

	return report, nil
}

// buildHeatmap counts window activity per (civil day, operator, hour) cell.
// Cells come back sorted for a stable payload.
func buildHeatmap(windowEvents []classifying.Classified, aliases map[string]string) []domain.HeatmapCell {
	type cellKey struct {
		date     string
		operator string
		hour     int
	}

	counts := make(map[cellKey]int)
	for _, classified := range windowEvents {
		key := cellKey{
			date:     businessclock.DayKey(classified.Event.OccurredAt),
			operator: normalizeOperator(classified.Event.Actor, aliases),
			hour:     businessclock.HourOfDay(classified.Event.OccurredAt),
		}
		counts[key]++
	}

	cells := make([]domain.HeatmapCell, 0, len(counts))
	for key, count := range counts {
		cells = append(cells, domain.HeatmapCell{
			Date:     key.date,
			Operator: key.operator,
			Hour:     key.hour,
			Count:    count,
		})
	}

	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Date != cells[j].Date {
			return cells[i].Date < cells[j].Date
		}
		if cells[i].Operator != cells[j].Operator {
			return cells[i].Operator < cells[j].Operator
		}
		return cells[i].Hour < cells[j].Hour
	})

	return cells
}

func reportRunID() string {
	id, err := utils.GenerateID()
	if err != nil {
		logrus.WithError(err).Warn("Could not generate report run ID")
		return ""
	}
	return id
}
