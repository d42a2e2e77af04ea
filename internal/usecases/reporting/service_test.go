package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/taksitli/crm-reporting-api/infrastructure/repository/mocks"
	"github.com/taksitli/crm-reporting-api/internal/config"
	"github.com/taksitli/crm-reporting-api/internal/domain"
	"github.com/taksitli/crm-reporting-api/internal/usecases/classifying"
	"github.com/taksitli/crm-reporting-api/pkg/businessclock"
	"go.uber.org/mock/gomock"
)

func testConfig() *config.Config {
	return &config.Config{
		Reporting: config.Reporting{
			DefaultDailyCallGoal: 40,
			PaceBreakMinutes:     60,
			GoalLookbackDays:     7,
		},
		OperatorAlias: config.OperatorAlias{Map: map[string]string{}},
	}
}

func newTestService(t *testing.T, now time.Time) (Reporter, *mocks.MockLeadRepository, *mocks.MockEventRepository) {
	ctrl := gomock.NewController(t)

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	eventRepo := mocks.NewMockEventRepository(ctrl)

	service := NewService(testConfig(), leadRepo, eventRepo, classifying.New(), FixedClock(now))

	return service, leadRepo, eventRepo
}

func TestService_BuildForDates_EmptyStores(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	service, leadRepo, eventRepo := newTestService(t, now)

	leadRepo.EXPECT().ListAll(gomock.Any()).Return(nil, nil)
	eventRepo.EXPECT().ListByRange(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	report, err := service.BuildForDates(context.Background(), "2024-06-01", "2024-06-15")

	assert.NoError(t, err)
	assert.NotNil(t, report)
	assert.Equal(t, "2024-06-01", report.Meta.StartDate)
	assert.Equal(t, "2024-06-15", report.Meta.EndDate)
	assert.NotEmpty(t, report.Meta.RunID)
	assert.Equal(t, 0, report.Funnel.TotalLeads)
	assert.Equal(t, float64(0), report.Funnel.AcquisitionRate)
	assert.Empty(t, report.Operators)
	assert.Empty(t, report.Heatmap)
	assert.True(t, report.Finance.WindowRevenue.IsZero())
}

func TestService_BuildForDates_InvalidDates(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	service, _, _ := newTestService(t, now)

	_, err := service.BuildForDates(context.Background(), "06/01/2024", "2024-06-15")

	assert.Error(t, err)
}

func TestService_BuildWindow_LeadStoreFailure(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	service, leadRepo, eventRepo := newTestService(t, now)

	leadRepo.EXPECT().ListAll(gomock.Any()).Return(nil, assert.AnError)
	eventRepo.EXPECT().ListByRange(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	report, err := service.BuildWindow(context.Background(), businessclock.DayWindow(now))

	assert.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "lead snapshot")
}

func TestService_BuildWindow_EventStoreFailure(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	service, leadRepo, eventRepo := newTestService(t, now)

	leadRepo.EXPECT().ListAll(gomock.Any()).Return(nil, nil)
	eventRepo.EXPECT().ListByRange(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, assert.AnError)

	report, err := service.BuildWindow(context.Background(), businessclock.DayWindow(now))

	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestService_BuildWindow_FullAggregation(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	service, leadRepo, eventRepo := newTestService(t, now)

	deliveredAt := time.Date(2024, 6, 10, 14, 0, 0, 0, businessclock.Location)
	opener := "ayşe kaya"
	closer := "mehmet yılmaz"
	applicationReceived := domain.StatusApplicationReceived
	leadID := "L1"

	leads := []*domain.Lead{
		{
			ID:          leadID,
			Status:      domain.StatusDelivered,
			Operator:    &closer,
			DeliveredAt: &deliveredAt,
			SoldItems: []domain.SoldItem{
				{Brand: "Arçelik", Price: "1.000,00", SaleDate: "2024-06-10"},
			},
		},
		{ID: "L2", Status: domain.StatusNew},
	}

	callAt := time.Date(2024, 6, 10, 9, 0, 0, 0, businessclock.Location)
	windowEvents := []domain.ActivityEvent{
		{ID: 1, OccurredAt: callAt, Actor: opener, LeadID: &leadID, Action: "Arama"},
		{
			ID:         2,
			OccurredAt: callAt.Add(30 * time.Minute),
			Actor:      opener,
			LeadID:     &leadID,
			Action:     "Durum Değişikliği",
			NewValue:   &applicationReceived,
		},
	}

	leadRepo.EXPECT().ListAll(gomock.Any()).Return(leads, nil)
	eventRepo.EXPECT().ListByRange(gomock.Any(), gomock.Any(), gomock.Any()).Return(windowEvents, nil)
	// The delivered lead's full history backs the attribution pass.
	eventRepo.EXPECT().ListByLeadIDs(gomock.Any(), []string{leadID}).Return(windowEvents, nil)

	report, err := service.BuildForDates(context.Background(), "2024-06-01", "2024-06-30")

	assert.NoError(t, err)
	assert.NotNil(t, report)

	assert.Equal(t, 2, report.Funnel.TotalLeads)
	assert.Equal(t, 1, report.Funnel.RemainingToCall)
	assert.Equal(t, 1, report.Funnel.Deliveries)
	assert.Equal(t, "1000", report.Finance.WindowRevenue.String())

	// Credit lands on the operator who pulled the lead into application, not
	// the current owner.
	assert.Len(t, report.Operators, 1)
	card := report.Operators[0]
	assert.Equal(t, opener, card.Operator)
	assert.Equal(t, 1, card.Calls)
	assert.Equal(t, 1, card.Applications)
	assert.Equal(t, 1, card.Deliveries)
	assert.Equal(t, "1000", card.Revenue.String())

	assert.NotEmpty(t, report.Heatmap)
	assert.Equal(t, "2024-06-10", report.Heatmap[0].Date)
	assert.Equal(t, opener, report.Heatmap[0].Operator)
	assert.Equal(t, 9, report.Heatmap[0].Hour)
}

func TestService_BuildToday_UsesCivilDay(t *testing.T) {
	// 22:30 UTC on June 14 is already June 15 in the business timezone.
	now := time.Date(2024, 6, 14, 22, 30, 0, 0, time.UTC)
	service, leadRepo, eventRepo := newTestService(t, now)

	leadRepo.EXPECT().ListAll(gomock.Any()).Return(nil, nil)
	eventRepo.EXPECT().ListByRange(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	report, err := service.BuildToday(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "2024-06-15", report.Meta.StartDate)
	assert.Equal(t, "2024-06-15", report.Meta.EndDate)
}

func TestService_BuildMonthToDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	service, leadRepo, eventRepo := newTestService(t, now)

	leadRepo.EXPECT().ListAll(gomock.Any()).Return(nil, nil)
	eventRepo.EXPECT().ListByRange(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	report, err := service.BuildMonthToDate(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "2024-06-01", report.Meta.StartDate)
	assert.Equal(t, "2024-06-15", report.Meta.EndDate)
}
