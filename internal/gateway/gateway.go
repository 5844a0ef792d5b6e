// Package gateway is the payment gateway client. The current implementation
// settles charges in-process; a real gateway would accept the intent and
// report completion asynchronously through POST /api/payments/:id/webhook,
// which applies the exact same side effects as the synchronous path.
package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	timeout time.Duration
}

type ChargeRequest struct {
	Reference   string
	Amount      int64
	Currency    string
	Description string
}

type ChargeResult struct {
	TransactionID string
	Status        string
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout,
	}
}

// Charge submits a payment intent. Simulated: every charge settles
// immediately with a generated transaction id.
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	txnID := "TXN-" + uuid.New().String()

	slog.Info("Simulated gateway settlement",
		"reference", req.Reference,
		"amount", req.Amount,
		"transaction_id", txnID)

	return &ChargeResult{
		TransactionID: txnID,
		Status:        "completed",
	}, nil
}
