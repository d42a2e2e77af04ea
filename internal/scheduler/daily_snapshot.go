package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/taksitli/crm-reporting-api/infrastructure/repository"
	"github.com/taksitli/crm-reporting-api/internal/config"
	"github.com/taksitli/crm-reporting-api/internal/usecases/reporting"
	"github.com/taksitli/crm-reporting-api/pkg/businessclock"
)

// SnapshotSyncConfig carries the scheduler tunables for the daily report
// snapshot job.
type SnapshotSyncConfig struct {
	CronSchedule  string
	RetentionDays int
	SyncEnabled   bool
}

// SnapshotSyncService builds the previous civil day's report after the nightly
// imports settle and caches it in the snapshot store, so historical dashboards
// read a frozen payload instead of re-aggregating. Live report requests never
// touch the cache.
type SnapshotSyncService struct {
	scheduler           *gocron.Scheduler
	config              SnapshotSyncConfig
	reporter            reporting.Reporter
	snapshotRepo        repository.ReportSnapshotRepository
	clock               reporting.Clock
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewSnapshotSyncService(
	reporter reporting.Reporter,
	snapshotRepo repository.ReportSnapshotRepository,
	clock reporting.Clock,
	appConfig *config.Config,
) *SnapshotSyncService {
	syncConfig := SnapshotSyncConfig{
		CronSchedule:  appConfig.SnapshotSync.CronSchedule,
		RetentionDays: appConfig.SnapshotSync.RetentionDays,
		SyncEnabled:   appConfig.SnapshotSync.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":  syncConfig.CronSchedule,
		"retention_days": syncConfig.RetentionDays,
		"sync_enabled":   syncConfig.SyncEnabled,
	}).Info("Snapshot sync scheduler configuration loaded")

	return &SnapshotSyncService{
		scheduler:    gocron.NewScheduler(businessclock.Location),
		config:       syncConfig,
		reporter:     reporter,
		snapshotRepo: snapshotRepo,
		clock:        clock,
		syncRunning:  false,
	}
}

// Start schedules the daily snapshot job and runs the scheduler until the
// context is cancelled.
func (s *SnapshotSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Daily report snapshot sync disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Starting daily report snapshot scheduler")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncDailySnapshot(context.Background())
	})
	if err != nil {
		return fmt.Errorf("scheduling daily report snapshot: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping daily report snapshot scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

// syncDailySnapshot builds and stores the previous civil day's report, then
// applies the retention policy. Overlapping runs are skipped.
func (s *SnapshotSyncService) syncDailySnapshot(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Snapshot sync already running, skipping")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	yesterday := businessclock.DayWindow(s.clock.Now().AddDate(0, 0, -1))
	reportDate := businessclock.DayKey(yesterday.Start)

	logrus.WithField("report_date", reportDate).Info("Building daily report snapshot")

	report, err := s.reporter.BuildWindow(ctx, yesterday)
	if err != nil {
		logrus.WithError(err).WithField("report_date", reportDate).Error("Could not build daily report snapshot")
		return
	}

	if err := s.snapshotRepo.SaveOrUpdate(ctx, reportDate, report); err != nil {
		logrus.WithError(err).WithField("report_date", reportDate).Error("Could not store daily report snapshot")
		return
	}

	s.applyRetention(ctx)

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"report_date": reportDate,
		"run_id":      report.Meta.RunID,
		"duration":    duration.String(),
	}).Info("Daily report snapshot stored")

	s.lastSyncCompletedAt = time.Now()
}

func (s *SnapshotSyncService) applyRetention(ctx context.Context) {
	if s.config.RetentionDays <= 0 {
		return
	}

	// Cut on business civil days, not the server's local calendar.
	cutoffDate := businessclock.DayKey(s.clock.Now().AddDate(0, 0, -s.config.RetentionDays))

	deleted, err := s.snapshotRepo.DeleteBefore(ctx, cutoffDate)
	if err != nil {
		logrus.WithError(err).Error("Could not apply snapshot retention policy")
		return
	}

	if deleted > 0 {
		logrus.WithFields(logrus.Fields{
			"deleted":        deleted,
			"cutoff_date":    cutoffDate,
			"retention_days": s.config.RetentionDays,
		}).Info("Expired report snapshots removed")
	}
}

// TriggerManualSync runs the snapshot job outside its schedule, typically
// after a data backfill.
func (s *SnapshotSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Snapshot sync already running, ignoring manual trigger")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Starting manual snapshot sync")
	go s.syncDailySnapshot(context.Background())
}

// GetStatus reports the scheduler state for the operational endpoint.
func (s *SnapshotSyncService) GetStatus() map[string]any {
	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"retention_days":         s.config.RetentionDays,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
