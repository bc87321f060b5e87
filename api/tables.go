package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Mohammad-Mahdi82/NexusCue/models"
	"github.com/shopspring/decimal"
)

func (c *Client) Tables(ctx context.Context) ([]models.Table, error) {
	raw, err := c.getRaw(ctx, "/tables/")
	if err != nil {
		return nil, err
	}
	return decodeList[models.Table](raw, "tables")
}

func (c *Client) UpdateTableRate(ctx context.Context, tableID uint, rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return models.Invalid("hourly rate must be positive")
	}
	body := map[string]decimal.Decimal{"hourly_rate": rate}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/tables/%d/rate", tableID), body, nil)
}

func (c *Client) ActiveSessions(ctx context.Context) ([]models.TableSession, error) {
	raw, err := c.getRaw(ctx, "/tables/sessions")
	if err != nil {
		return nil, err
	}
	return decodeList[models.TableSession](raw, "sessions")
}

func (c *Client) StartSession(ctx context.Context, req models.StartSessionRequest) (*models.TableSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out struct {
		Message string              `json:"message"`
		Session models.TableSession `json:"session"`
	}
	if err := c.do(ctx, http.MethodPost, "/tables/sessions", req, &out); err != nil {
		return nil, err
	}
	return &out.Session, nil
}

func (c *Client) GetSession(ctx context.Context, id uint) (*models.TableSession, error) {
	var out models.TableSession
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tables/sessions/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SessionOrders(ctx context.Context, id uint) ([]models.SessionOrder, error) {
	raw, err := c.getRaw(ctx, fmt.Sprintf("/tables/sessions/%d/orders", id))
	if err != nil {
		return nil, err
	}
	return decodeList[models.SessionOrder](raw, "orders")
}

func (c *Client) CalculateSessionAmount(ctx context.Context, id uint) (*models.SessionAmount, error) {
	var out models.SessionAmount
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tables/sessions/%d/calculate-amount", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRemainingTime(ctx context.Context, id uint, remaining int) error {
	body := map[string]int{"remaining_minutes": remaining}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/tables/sessions/%d/time", id), body, nil)
}

func (c *Client) UpdatePresetDuration(ctx context.Context, id uint, minutes int) error {
	if minutes <= 0 || minutes > models.MaxPresetDurationMinutes {
		return models.Invalid("preset duration must be between 1 and %d minutes", models.MaxPresetDurationMinutes)
	}
	body := map[string]int{"preset_duration_minutes": minutes}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/tables/sessions/%d/preset-duration", id), body, nil)
}

func (c *Client) EndSession(ctx context.Context, id uint, req models.EndSessionRequest) (*models.EndSessionResult, error) {
	var out models.EndSessionResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/tables/sessions/%d/end", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AutoExpireSessions(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/tables/sessions/expire", nil, nil)
}

func (c *Client) AddOrder(ctx context.Context, req models.AddOrderRequest) ([]models.SessionOrder, error) {
	if req.SessionID == 0 || len(req.Items) == 0 {
		return nil, models.ErrEmptyCart
	}
	var out struct {
		Orders []models.SessionOrder `json:"orders"`
	}
	if err := c.do(ctx, http.MethodPost, "/tables/sessions/orders", req, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}
