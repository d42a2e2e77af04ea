package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taksitli/crm-reporting-api/internal/domain"
	reportingmocks "github.com/taksitli/crm-reporting-api/internal/usecases/reporting/mocks"
	"github.com/taksitli/crm-reporting-api/pkg/apiErrors"
	"github.com/taksitli/crm-reporting-api/pkg/log"
	"go.uber.org/mock/gomock"
)

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) apiErrors.APIError {
	t.Helper()

	var apiErr apiErrors.APIError
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
	return apiErr
}

// Window parameters are rejected before the engine runs: the reporter mock
// carries no expectations in the validation cases, so any call fails the test.
func TestGetReport_WindowValidation(t *testing.T) {
	log.SetupTestLogger()

	tests := []struct {
		name           string
		target         string
		setup          func(reporter *reportingmocks.MockReporter)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "missing end date",
			target:         "/v1/reports?start_date=2024-06-01",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apiErrors.ErrMissingRequiredData,
		},
		{
			name:           "bad date format",
			target:         "/v1/reports?start_date=01/06/2024&end_date=2024-06-30",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apiErrors.ErrInvalidFormat,
		},
		{
			name:           "inverted range",
			target:         "/v1/reports?start_date=2024-06-30&end_date=2024-06-01",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apiErrors.ErrInvalidDateRange,
		},
		{
			name:   "store failure",
			target: "/v1/reports?start_date=2024-06-01&end_date=2024-06-30",
			setup: func(reporter *reportingmocks.MockReporter) {
				reporter.EXPECT().
					BuildForDates(gomock.Any(), "2024-06-01", "2024-06-30").
					Return(nil, assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   apiErrors.ErrReportBuildFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			reporter := reportingmocks.NewMockReporter(ctrl)
			if tt.setup != nil {
				tt.setup(reporter)
			}

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)

			GetReport(reporter).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedCode, decodeAPIError(t, rec).Code)
		})
	}
}

func TestGetReport_ServesBuiltReport(t *testing.T) {
	log.SetupTestLogger()

	ctrl := gomock.NewController(t)
	reporter := reportingmocks.NewMockReporter(ctrl)

	report := &domain.Report{
		Meta: domain.ReportMeta{RunID: "abc123", StartDate: "2024-06-01", EndDate: "2024-06-30"},
	}

	reporter.EXPECT().
		BuildForDates(gomock.Any(), "2024-06-01", "2024-06-30").
		Return(report, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/reports?start_date=2024-06-01&end_date=2024-06-30", nil)

	GetReport(reporter).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var decoded domain.Report
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&decoded))
	assert.Equal(t, "abc123", decoded.Meta.RunID)
	assert.Equal(t, "2024-06-01", decoded.Meta.StartDate)
	assert.Equal(t, "2024-06-30", decoded.Meta.EndDate)
}

func TestGetOperatorScorecards_InvertedRange(t *testing.T) {
	log.SetupTestLogger()

	ctrl := gomock.NewController(t)
	reporter := reportingmocks.NewMockReporter(ctrl)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/reports/operators?start_date=2024-06-30&end_date=2024-06-01", nil)

	GetOperatorScorecards(reporter).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apiErrors.ErrInvalidDateRange, decodeAPIError(t, rec).Code)
}
