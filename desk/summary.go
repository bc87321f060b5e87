package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Mohammad-Mahdi82/NexusCue/locale"
	"github.com/Mohammad-Mahdi82/NexusCue/models"
	"golang.org/x/sync/errgroup"
)

type reportSource interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	DailyReport(ctx context.Context, day time.Time) (*models.DailyReport, error)
	MonthlyReport(ctx context.Context, year, month int) (*models.MonthlyReport, error)
}

// summary is the revenue header shown above the tables. Missing parts are
// left out of the line.
type summary struct {
	month   time.Month
	stats   *models.DashboardStats
	daily   *models.DailyReport
	monthly *models.MonthlyReport
}

// loadSummary fetches the three reports together. The first error is
// returned with whatever parts did arrive.
func loadSummary(ctx context.Context, src reportSource, now time.Time) (summary, error) {
	sum := summary{month: now.Month()}

	var g errgroup.Group
	g.Go(func() error {
		stats, err := src.DashboardStats(ctx)
		sum.stats = stats
		return err
	})
	g.Go(func() error {
		daily, err := src.DailyReport(ctx, now)
		sum.daily = daily
		return err
	})
	g.Go(func() error {
		monthly, err := src.MonthlyReport(ctx, now.Year(), int(now.Month()))
		sum.monthly = monthly
		return err
	})
	err := g.Wait()
	return sum, err
}

func (s summary) Line() string {
	var parts []string
	if s.daily != nil {
		parts = append(parts, fmt.Sprintf("Hôm nay: %d HĐ, %s", s.daily.TotalInvoices, locale.Currency(s.daily.TotalRevenue)))
	}
	if s.monthly != nil {
		parts = append(parts, fmt.Sprintf("Tháng %d: %d HĐ, %s", int(s.month), s.monthly.TotalInvoices, locale.Currency(s.monthly.TotalRevenue)))
	}
	if s.stats != nil {
		parts = append(parts, fmt.Sprintf("Đang chơi: %d", s.stats.ActiveSessions))
		if s.stats.AvgSessionTime > 0 {
			parts = append(parts, "TB: "+locale.Duration(int(s.stats.AvgSessionTime+0.5)))
		}
	}
	return strings.Join(parts, " | ")
}
