package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type PlaceOrderUseCase interface {
	PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (*dto.PlaceOrderResult, error)
}

type CheckoutController struct {
	useCase PlaceOrderUseCase
	logger  *zap.Logger
}

func NewCheckoutController(useCase PlaceOrderUseCase, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *CheckoutController) HandlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		writeValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	result, err := c.useCase.PlaceOrder(r.Context(), req)
	if err != nil {
		c.handleError(w, logger, traceID, err)
		return
	}

	writeJSON(w, logger, http.StatusCreated, dto.PlaceOrderResponse{
		TraceID:    traceID,
		OrderID:    result.OrderID,
		Amount:     result.Amount,
		Status:     result.Status,
		PaymentURL: result.PaymentURL,
		Timestamp:  time.Now().UTC(),
	})
}

func (c *CheckoutController) handleError(w http.ResponseWriter, logger *zap.Logger, traceID string, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		// An empty cart is a validation failure with its own wire code.
		for _, d := range ve.Details {
			if d.Field == "items" {
				writeError(w, logger, traceID, http.StatusBadRequest, "EMPTY_CART", d.Message)
				return
			}
		}
		writeValidationError(w, logger, traceID, ve.Message, ve.Details...)
		return
	}

	if oos, ok := apperrors.IsOutOfStockError(err); ok {
		writeError(w, logger, traceID, http.StatusConflict, "OUT_OF_STOCK", oos.Error())
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		writeError(w, logger, traceID, http.StatusBadRequest, "INVALID_ADDRESS", err.Error())
		return
	}

	if ee, ok := apperrors.IsExternalError(err); ok {
		logger.Error("payment provider failure", zap.Error(ee))
		writeError(w, logger, traceID, http.StatusBadGateway, "PAYMENT_PROVIDER_UNAVAILABLE",
			"payment session could not be created; please retry")
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		writeError(w, logger, traceID, http.StatusConflict, "CONFLICT",
			"checkout contention, please retry")
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	writeError(w, logger, traceID, http.StatusInternalServerError, "INTERNAL_ERROR",
		"an unexpected error occurred")
}
