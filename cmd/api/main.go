package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/taksitli/crm-reporting-api/infrastructure/database/postgres"
	"github.com/taksitli/crm-reporting-api/infrastructure/repository"
	"github.com/taksitli/crm-reporting-api/internal/api"
	"github.com/taksitli/crm-reporting-api/internal/config"
	"github.com/taksitli/crm-reporting-api/internal/scheduler"
	"github.com/taksitli/crm-reporting-api/internal/usecases/authenticating"
	"github.com/taksitli/crm-reporting-api/internal/usecases/classifying"
	"github.com/taksitli/crm-reporting-api/internal/usecases/reporting"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid log level: %s, falling back to 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Log level set to: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	leadRepo := repository.NewLeadRepository(pgConn)
	eventRepo := repository.NewEventRepository(pgConn)
	snapshotRepo := repository.NewReportSnapshotRepository(pgConn)

	authenticator := authenticating.NewService(cfg)

	reportService := reporting.NewService(
		cfg,
		leadRepo,
		eventRepo,
		classifying.New(),
		reporting.SystemClock(),
	)

	snapshotSyncService := scheduler.NewSnapshotSyncService(
		reportService,
		snapshotRepo,
		reporting.SystemClock(),
		cfg,
	)

	if err := snapshotSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Could not start daily report snapshot scheduler")
	} else {
		logrus.Info("Daily report snapshot scheduler started")
	}

	server, err := api.New(
		cfg,
		reportService,
		leadRepo,
		snapshotRepo,
		authenticator,
		snapshotSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Could not connect to PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Could not verify PostgreSQL connection")
	}

	logrus.Info("PostgreSQL connection established")
	return conn
}
