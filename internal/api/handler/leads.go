package handler

import (
	"net/http"

	"github.com/taksitli/crm-reporting-api/infrastructure/repository"
	"github.com/taksitli/crm-reporting-api/internal/domain"
	"github.com/taksitli/crm-reporting-api/pkg/apiErrors"
	"github.com/taksitli/crm-reporting-api/pkg/log"
)

// GetRetryPoolLeads lists the leads sitting in the unreachable/call-back pool
// so operators can work through it without waiting for the next report.
func GetRetryPoolLeads(leadRepo repository.LeadRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		leads, err := leadRepo.ListByStatuses(r.Context(), domain.RetryStatusValues())
		if err != nil {
			logger.WithField("error", err.Error()).Error("leads: failed to list retry pool")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Retry pool could not be loaded", nil)
			return
		}

		writeJSON(w, logger, map[string]any{
			"count": len(leads),
			"leads": leads,
		})
	})
}

// GetChangedLeads lists the leads created or updated inside an explicit civil
// date window, for spot-checking what moved behind a report.
func GetChangedLeads(leadRepo repository.LeadRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		startDate := r.URL.Query().Get("start_date")
		endDate := r.URL.Query().Get("end_date")

		window, ok := validateWindowParams(w, logger, startDate, endDate)
		if !ok {
			return
		}

		leads, err := leadRepo.ListByUpdatedRange(r.Context(), window.Start, window.End)
		if err != nil {
			logger.WithFields(log.Fields{
				"start_date": startDate,
				"end_date":   endDate,
				"error":      err.Error(),
			}).Error("leads: failed to list changed leads")

			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Changed leads could not be loaded", nil)
			return
		}

		writeJSON(w, logger, map[string]any{
			"start_date": startDate,
			"end_date":   endDate,
			"count":      len(leads),
			"leads":      leads,
		})
	})
}
