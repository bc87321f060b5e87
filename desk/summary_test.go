package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Mohammad-Mahdi82/NexusCue/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReports struct {
	day        time.Time
	year       int
	month      int
	monthlyErr error
}

func (f *fakeReports) DashboardStats(context.Context) (*models.DashboardStats, error) {
	return &models.DashboardStats{ActiveSessions: 4, AvgSessionTime: 72.4}, nil
}

func (f *fakeReports) DailyReport(_ context.Context, day time.Time) (*models.DailyReport, error) {
	f.day = day
	return &models.DailyReport{TotalInvoices: 9, TotalRevenue: decimal.NewFromInt(980000)}, nil
}

func (f *fakeReports) MonthlyReport(_ context.Context, year, month int) (*models.MonthlyReport, error) {
	f.year, f.month = year, month
	if f.monthlyErr != nil {
		return nil, f.monthlyErr
	}
	return &models.MonthlyReport{TotalInvoices: 300, TotalRevenue: decimal.NewFromInt(31000000)}, nil
}

func TestSummaryLine(t *testing.T) {
	src := &fakeReports{}
	now := time.Date(2026, 10, 16, 20, 0, 0, 0, time.Local)

	sum, err := loadSummary(context.Background(), src, now)
	require.NoError(t, err)
	assert.Equal(t, now, src.day)
	assert.Equal(t, 2026, src.year)
	assert.Equal(t, 10, src.month)
	assert.Equal(t,
		"Hôm nay: 9 HĐ, 980.000 ₫ | Tháng 10: 300 HĐ, 31.000.000 ₫ | Đang chơi: 4 | TB: 1h 12m",
		sum.Line())
}

func TestSummaryKeepsPartsThatArrived(t *testing.T) {
	src := &fakeReports{monthlyErr: errors.New("report down")}

	sum, err := loadSummary(context.Background(), src, time.Now())
	require.Error(t, err)
	assert.Contains(t, sum.Line(), "Hôm nay: 9 HĐ")
	assert.NotContains(t, sum.Line(), "Tháng")
}
