package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the immutable snapshot handed to the receipt printer. Amount is
// authoritative and is never recomputed from its parts on this side.
type Invoice struct {
	ID                  uint            `json:"id"`
	TableName           string          `json:"table_name"`
	CustomerName        string          `json:"customer_name,omitempty"`
	SessionID           *uint           `json:"session_id,omitempty"`
	StartTime           time.Time       `json:"start_time"`
	EndTime             time.Time       `json:"end_time"`
	PlayDurationMinutes int             `json:"play_duration_minutes"`
	HourlyRate          decimal.Decimal `json:"hourly_rate"`
	TimeTotal           decimal.Decimal `json:"time_total"`
	ServicesDetail      string          `json:"services_detail"`
	ServiceTotal        decimal.Decimal `json:"service_total"`
	Discount            decimal.Decimal `json:"discount"`
	Amount              decimal.Decimal `json:"amount"`
	PaymentStatus       string          `json:"payment_status,omitempty"`
	CreatedBy           uint            `json:"created_by"`
	CreatedAt           time.Time       `json:"created_at"`
}

// Subtotal is time plus services, before discount.
func (i *Invoice) Subtotal() decimal.Decimal {
	return i.TimeTotal.Add(i.ServiceTotal)
}

// HasServices reports whether the services section belongs on the receipt.
func (i *Invoice) HasServices() bool {
	return i.ServicesDetail != "" && i.ServiceTotal.IsPositive()
}

type CreateInvoiceRequest struct {
	TableName           string          `json:"table_name"`
	StartTime           time.Time       `json:"start_time"`
	EndTime             time.Time       `json:"end_time"`
	PlayDurationMinutes int             `json:"play_duration_minutes"`
	HourlyRate          decimal.Decimal `json:"hourly_rate"`
	ServicesDetail      string          `json:"services_detail"`
	ServiceTotal        decimal.Decimal `json:"service_total"`
	Discount            decimal.Decimal `json:"discount"`
}

type DailyReport struct {
	Date                string          `json:"date"`
	TotalInvoices       int             `json:"total_invoices"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TotalTimeRevenue    decimal.Decimal `json:"total_time_revenue"`
	TotalServiceRevenue decimal.Decimal `json:"total_service_revenue"`
}

type MonthlyReport struct {
	Year                int             `json:"year"`
	Month               int             `json:"month"`
	TotalInvoices       int             `json:"total_invoices"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TotalTimeRevenue    decimal.Decimal `json:"total_time_revenue"`
	TotalServiceRevenue decimal.Decimal `json:"total_service_revenue"`
}

type DashboardStats struct {
	TodayRevenue   decimal.Decimal `json:"today_revenue"`
	ActiveSessions int             `json:"active_sessions"`
	TodayInvoices  int             `json:"today_invoices"`
	AvgSessionTime float64         `json:"avg_session_time"`
}

// Activity is one line of the dashboard's recent-activity feed.
type Activity struct {
	Action   string `json:"action"`
	Table    string `json:"table"`
	Customer string `json:"customer"`
	Time     string `json:"time"`
}
