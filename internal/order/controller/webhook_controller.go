package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/payment"
)

type PaymentWebhookUseCase interface {
	HandleEvent(ctx context.Context, event payment.Event) error
}

type SignatureVerifier interface {
	VerifySignature(payload []byte, signature string) bool
}

// WebhookController is the provider-facing endpoint. It only acknowledges
// events it could verify; everything after verification is handled so that
// permanent failures still return 200, keeping the provider from retrying
// forever.
type WebhookController struct {
	useCase  PaymentWebhookUseCase
	verifier SignatureVerifier
	logger   *zap.Logger
}

func NewWebhookController(useCase PaymentWebhookUseCase, verifier SignatureVerifier, logger *zap.Logger) *WebhookController {
	return &WebhookController{
		useCase:  useCase,
		verifier: verifier,
		logger:   logger,
	}
}

func (c *WebhookController) HandlePaymentEvent(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		logger.Warn("reading webhook body", zap.Error(err))
		writeError(w, logger, traceID, http.StatusBadRequest, "VALIDATION", "unreadable body")
		return
	}

	if !c.verifier.VerifySignature(body, r.Header.Get(payment.SignatureHeader)) {
		logger.Warn("webhook signature rejected")
		writeError(w, logger, traceID, http.StatusUnauthorized, "UNVERIFIED", "signature verification failed")
		return
	}

	var event payment.Event
	if err := json.Unmarshal(body, &event); err != nil {
		logger.Warn("invalid webhook payload", zap.Error(err))
		writeError(w, logger, traceID, http.StatusBadRequest, "VALIDATION", "payload must be valid JSON")
		return
	}

	if err := c.useCase.HandleEvent(r.Context(), event); err != nil {
		logger.Error("webhook processing failed",
			zap.Uint64("orderId", event.OrderID), zap.String("event", event.Event), zap.Error(err))
		writeError(w, logger, traceID, http.StatusInternalServerError, "INTERNAL_ERROR",
			"event could not be processed")
		return
	}

	writeJSON(w, logger, http.StatusOK, map[string]string{"received": "true"})
}
