package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
)

const (
	EventSucceeded = "succeeded"
	EventFailed    = "failed"
)

// Event is the provider's webhook payload, decoded only after its signature
// checked out.
type Event struct {
	Event   string `json:"event"`
	OrderID uint64 `json:"orderId"`
	UserID  uint64 `json:"userId"`
}

type sessionRequest struct {
	Reference string        `json:"reference"`
	OrderID   uint64        `json:"orderId"`
	Amount    string        `json:"amount"`
	Currency  string        `json:"currency"`
	Items     []sessionItem `json:"items"`
}

type sessionItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

type sessionResponse struct {
	RedirectURL string `json:"redirectUrl"`
}

// Bridge talks to the external payment provider. Session creation is the
// only outbound call; everything else arrives through the webhook.
type Bridge struct {
	client  *http.Client
	baseURL string
	secret  []byte
	logger  *zap.Logger
}

func NewBridge(baseURL, webhookSecret string, timeout time.Duration, logger *zap.Logger) *Bridge {
	return &Bridge{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		secret:  []byte(webhookSecret),
		logger:  logger,
	}
}

// CreateSession registers a pending order with the provider and returns the
// redirect target for the buyer. Failures are retryable: the caller may
// resubmit the checkout.
func (b *Bridge) CreateSession(ctx context.Context, orderID uint64, amount decimal.Decimal, items []domain.LineItem) (string, error) {
	payload := sessionRequest{
		Reference: uuid.New().String(),
		OrderID:   orderID,
		Amount:    amount.StringFixed(2),
		Currency:  "INR",
		Items:     make([]sessionItem, len(items)),
	}
	for i, it := range items {
		payload.Items[i] = sessionItem{
			Name:      it.ProductName,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/sessions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", apperrors.NewExternalError("payment provider unreachable", err, true)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", apperrors.NewExternalError(
			fmt.Sprintf("payment provider returned status %d", resp.StatusCode), nil, true)
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", apperrors.NewExternalError("decoding session response", err, true)
	}
	if session.RedirectURL == "" {
		return "", apperrors.NewExternalError("payment provider returned no redirect url", nil, true)
	}

	b.logger.Info("payment session created", zap.Uint64("orderId", orderID))
	return session.RedirectURL, nil
}
