package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SessionFixedTime = "fixed_time"
	SessionOpenPlay  = "open_play"

	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
	StatusExpired   = "expired"

	// MaxPresetDurationMinutes is the longest booking the backend accepts.
	MaxPresetDurationMinutes = 480
)

// TableSession is the local mirror of a server-owned playing session.
type TableSession struct {
	ID                    uint            `json:"id"`
	TableID               uint            `json:"table_id"`
	TableName             string          `json:"table_name,omitempty"`
	CustomerName          string          `json:"customer_name"`
	SessionType           string          `json:"session_type"`
	StartTime             time.Time       `json:"start_time"`
	EndTime               *time.Time      `json:"end_time,omitempty"`
	PresetDurationMinutes int             `json:"preset_duration_minutes"`
	RemainingMinutes      *int            `json:"remaining_minutes,omitempty"`
	HourlyRate            decimal.Decimal `json:"hourly_rate"`
	PrepaidAmount         decimal.Decimal `json:"prepaid_amount"`
	Status                string          `json:"status"`
	CreatedBy             uint            `json:"created_by"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

func (s *TableSession) IsActive() bool {
	return s.Status == StatusActive
}

// Remaining returns remaining minutes, or false for open play sessions.
func (s *TableSession) Remaining() (int, bool) {
	if s.RemainingMinutes == nil {
		return 0, false
	}
	return *s.RemainingMinutes, true
}

// SessionAmount is the server-computed bill of one session at fetch time.
type SessionAmount struct {
	SessionID     uint            `json:"session_id"`
	SessionType   string          `json:"session_type"`
	ActualMinutes int             `json:"actual_minutes"`
	TableAmount   decimal.Decimal `json:"table_amount"`
	OrdersAmount  decimal.Decimal `json:"orders_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	HourlyRate    decimal.Decimal `json:"hourly_rate"`
}

type StartSessionRequest struct {
	TableID               uint            `json:"table_id"`
	CustomerName          string          `json:"customer_name"`
	SessionType           string          `json:"session_type"`
	PresetDurationMinutes int             `json:"preset_duration_minutes"`
	PrepaidAmount         decimal.Decimal `json:"prepaid_amount"`
}

// Validate mirrors the checks the desk runs before calling the API.
func (r *StartSessionRequest) Validate() error {
	if r.TableID == 0 {
		return Invalid("table is required")
	}
	if r.CustomerName == "" {
		return Invalid("customer name is required")
	}
	switch r.SessionType {
	case SessionFixedTime:
		if r.PresetDurationMinutes <= 0 {
			return Invalid("preset duration must be positive")
		}
	case SessionOpenPlay:
	default:
		return Invalid("unknown session type %q", r.SessionType)
	}
	if r.PrepaidAmount.IsNegative() {
		return Invalid("prepaid amount cannot be negative")
	}
	return nil
}

type EndSessionRequest struct {
	FinalAmount *decimal.Decimal `json:"final_amount,omitempty"`
	Discount    *decimal.Decimal `json:"discount,omitempty"`
}

// EndSessionResult carries InvoiceID 0 and InvoiceError when the session
// ended but no invoice could be created.
type EndSessionResult struct {
	Message      string          `json:"message"`
	InvoiceID    uint            `json:"invoice_id"`
	InvoiceError string          `json:"invoice_error,omitempty"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}
