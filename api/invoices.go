package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Mohammad-Mahdi82/NexusCue/models"
)

func (c *Client) CreateInvoice(ctx context.Context, req models.CreateInvoiceRequest) (*models.Invoice, error) {
	if req.TableName == "" {
		return nil, models.Invalid("table name is required")
	}
	var out models.Invoice
	if err := c.do(ctx, http.MethodPost, "/invoices/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Invoices(ctx context.Context, limit, offset int) ([]models.Invoice, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	raw, err := c.getRaw(ctx, "/invoices/?"+q.Encode())
	if err != nil {
		return nil, err
	}
	return decodeList[models.Invoice](raw, "invoices")
}

func (c *Client) Invoice(ctx context.Context, id uint) (*models.Invoice, error) {
	var out models.Invoice
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/invoices/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DailyReport(ctx context.Context, day time.Time) (*models.DailyReport, error) {
	var out models.DailyReport
	path := "/reports/daily?date=" + day.Format("2006-01-02")
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MonthlyReport(ctx context.Context, year, month int) (*models.MonthlyReport, error) {
	var out models.MonthlyReport
	path := fmt.Sprintf("/reports/monthly?year=%d&month=%d", year, month)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var out models.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecentActivities lists today's session starts and ends, newest first.
func (c *Client) RecentActivities(ctx context.Context) ([]models.Activity, error) {
	raw, err := c.getRaw(ctx, "/dashboard/activities")
	if err != nil {
		return nil, err
	}
	return decodeList[models.Activity](raw, "activities")
}
