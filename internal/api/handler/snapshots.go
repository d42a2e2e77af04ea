package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/taksitli/crm-reporting-api/infrastructure/repository"
	"github.com/taksitli/crm-reporting-api/pkg/apiErrors"
	"github.com/taksitli/crm-reporting-api/pkg/log"
	"github.com/taksitli/crm-reporting-api/pkg/utils"
)

// GetReportSnapshot serves the frozen daily report stored by the snapshot
// scheduler. Historical dashboards read these instead of re-aggregating.
func GetReportSnapshot(snapshotRepo repository.ReportSnapshotRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		reportDate := httprouter.ParamsFromContext(r.Context()).ByName("date")
		if _, err := utils.ParseDate(reportDate); err != nil || reportDate == "" {
			logger.WithField("report_date", reportDate).Warn("snapshots: invalid date parameter")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "date must be formatted as YYYY-MM-DD", nil)
			return
		}

		entry, err := snapshotRepo.GetByDate(r.Context(), reportDate)
		if err != nil {
			logger.WithFields(log.Fields{
				"report_date": reportDate,
				"error":       err.Error(),
			}).Error("snapshots: failed to load snapshot")

			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Snapshot could not be loaded", nil)
			return
		}

		if entry == nil {
			apiErrors.WriteError(w, apiErrors.ErrSnapshotNotFound, "No snapshot stored for the requested day", nil)
			return
		}

		logger.WithFields(log.Fields{
			"report_date": reportDate,
			"updated_at":  entry.UpdatedAt,
		}).Info("snapshots: snapshot served")

		writeJSON(w, logger, entry.Report)
	})
}
