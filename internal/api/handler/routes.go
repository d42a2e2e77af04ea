package handler

import (
	"net/http"

	"github.com/taksitli/crm-reporting-api/infrastructure/repository"
	"github.com/taksitli/crm-reporting-api/internal/api/handler/router"
	"github.com/taksitli/crm-reporting-api/internal/usecases/reporting"
	"github.com/taksitli/crm-reporting-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Reports(service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/reports",
			Method:      http.MethodGet,
			Handler:     GetReport(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/reports/today",
			Method:      http.MethodGet,
			Handler:     GetTodayReport(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/reports/monthly",
			Method:      http.MethodGet,
			Handler:     GetMonthlyReport(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/reports/operators",
			Method:      http.MethodGet,
			Handler:     GetOperatorScorecards(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}

func Leads(leadRepo repository.LeadRepository) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/leads/retry-pool",
			Method:      http.MethodGet,
			Handler:     GetRetryPoolLeads(leadRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/leads/changed",
			Method:      http.MethodGet,
			Handler:     GetChangedLeads(leadRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}

func ReportSnapshots(snapshotRepo repository.ReportSnapshotRepository) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/reports/snapshots/:date",
			Method:      http.MethodGet,
			Handler:     GetReportSnapshot(snapshotRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}
