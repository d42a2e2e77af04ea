package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/taksitli/crm-reporting-api/internal/usecases/reporting"
	"github.com/taksitli/crm-reporting-api/pkg/apiErrors"
	"github.com/taksitli/crm-reporting-api/pkg/businessclock"
	"github.com/taksitli/crm-reporting-api/pkg/log"
	"github.com/taksitli/crm-reporting-api/pkg/utils"
)

// Report payloads are large; jsoniter keeps encoding cheap without changing
// the wire format.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GetReport builds the full report for an explicit civil date window.
func GetReport(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		startDate := r.URL.Query().Get("start_date")
		endDate := r.URL.Query().Get("end_date")

		if _, ok := validateWindowParams(w, logger, startDate, endDate); !ok {
			return
		}

		logger.WithFields(log.Fields{
			"start_date": startDate,
			"end_date":   endDate,
		}).Info("reports: building report for window")

		report, err := service.BuildForDates(r.Context(), startDate, endDate)
		if err != nil {
			writeReportError(w, logger, startDate, endDate, err)
			return
		}

		logger.WithFields(log.Fields{
			"report_run_id": report.Meta.RunID,
			"start_date":    startDate,
			"end_date":      endDate,
		}).Info("reports: report built")

		writeJSON(w, logger, report)
	})
}

// GetTodayReport builds the report for the current civil day.
func GetTodayReport(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		logger.Info("reports: building today's report")

		report, err := service.BuildToday(r.Context())
		if err != nil {
			writeReportError(w, logger, "", "", err)
			return
		}

		writeJSON(w, logger, report)
	})
}

// GetMonthlyReport builds the month-to-date report.
func GetMonthlyReport(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		logger.Info("reports: building month-to-date report")

		report, err := service.BuildMonthToDate(r.Context())
		if err != nil {
			writeReportError(w, logger, "", "", err)
			return
		}

		writeJSON(w, logger, report)
	})
}

// GetOperatorScorecards returns only the per-operator section of a report,
// for the scorecard screen. Without date parameters it covers today.
func GetOperatorScorecards(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		startDate := r.URL.Query().Get("start_date")
		endDate := r.URL.Query().Get("end_date")

		if startDate == "" && endDate == "" {
			full, buildErr := service.BuildToday(r.Context())
			if buildErr != nil {
				writeReportError(w, logger, startDate, endDate, buildErr)
				return
			}
			writeJSON(w, logger, map[string]any{
				"meta":      full.Meta,
				"operators": full.Operators,
			})
			return
		}

		if _, ok := validateWindowParams(w, logger, startDate, endDate); !ok {
			return
		}

		full, err := service.BuildForDates(r.Context(), startDate, endDate)
		if err != nil {
			writeReportError(w, logger, startDate, endDate, err)
			return
		}

		writeJSON(w, logger, map[string]any{
			"meta":      full.Meta,
			"operators": full.Operators,
		})
	})
}

// validateWindowParams checks explicit window parameters before they reach the
// engine, so a bad request never surfaces as a report failure. It writes the
// validation error itself and reports whether the window is usable.
func validateWindowParams(w http.ResponseWriter, logger log.Logger, startDate, endDate string) (businessclock.Window, bool) {
	if startDate == "" || endDate == "" {
		logger.WithFields(log.Fields{
			"start_date": startDate,
			"end_date":   endDate,
		}).Warn("reports: missing date parameters")

		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "start_date and end_date are required", nil)
		return businessclock.Window{}, false
	}

	if _, err := utils.ParseDate(startDate); err != nil {
		logger.WithFields(log.Fields{
			"start_date": startDate,
			"error":      err.Error(),
		}).Warn("reports: invalid start_date parameter")

		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "start_date must be formatted as YYYY-MM-DD", nil)
		return businessclock.Window{}, false
	}

	if _, err := utils.ParseDate(endDate); err != nil {
		logger.WithFields(log.Fields{
			"end_date": endDate,
			"error":    err.Error(),
		}).Warn("reports: invalid end_date parameter")

		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "end_date must be formatted as YYYY-MM-DD", nil)
		return businessclock.Window{}, false
	}

	window, err := businessclock.WindowForDates(startDate, endDate)
	if err != nil {
		logger.WithFields(log.Fields{
			"start_date": startDate,
			"end_date":   endDate,
			"error":      err.Error(),
		}).Warn("reports: invalid date window")

		apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, "end_date must not precede start_date", nil)
		return businessclock.Window{}, false
	}

	return window, true
}

// writeReportError reports an aborted aggregation; window parameters are
// validated before the engine runs.
func writeReportError(w http.ResponseWriter, logger log.Logger, startDate, endDate string, err error) {
	logger.WithFields(log.Fields{
		"start_date": startDate,
		"end_date":   endDate,
		"error":      err.Error(),
	}).Error("reports: failed to build report")

	apiErrors.WriteError(w, apiErrors.ErrReportBuildFailed, "Report could not be built", nil)
}

func writeJSON(w http.ResponseWriter, logger log.Logger, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.WithField("error", err.Error()).Error("reports: failed to encode response")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
