package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type OrderQueryUseCase interface {
	GetOrder(ctx context.Context, orderID uint64) (*dto.OrderResponse, error)
	ListUserOrders(ctx context.Context, userID uint64) ([]dto.OrderResponse, error)
}

type UpdateStatusUseCase interface {
	UpdateStatus(ctx context.Context, orderID uint64, target domain.OrderStatus) (*domain.Order, error)
}

type CancelOrderUseCase interface {
	Cancel(ctx context.Context, orderID, userID uint64) error
}

type OrderController struct {
	query  OrderQueryUseCase
	status UpdateStatusUseCase
	cancel CancelOrderUseCase
	logger *zap.Logger
}

func NewOrderController(
	query OrderQueryUseCase,
	status UpdateStatusUseCase,
	cancel CancelOrderUseCase,
	logger *zap.Logger,
) *OrderController {
	return &OrderController{
		query:  query,
		status: status,
		cancel: cancel,
		logger: logger,
	}
}

func (c *OrderController) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := c.pathID(w, logger, traceID, r, "orderID")
	if !ok {
		return
	}

	order, err := c.query.GetOrder(r.Context(), orderID)
	if err != nil {
		c.handleError(w, logger, traceID, err)
		return
	}

	writeJSON(w, logger, http.StatusOK, order)
}

func (c *OrderController) HandleListUserOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	userID, ok := c.pathID(w, logger, traceID, r, "userID")
	if !ok {
		return
	}

	orders, err := c.query.ListUserOrders(r.Context(), userID)
	if err != nil {
		c.handleError(w, logger, traceID, err)
		return
	}

	writeJSON(w, logger, http.StatusOK, map[string]any{"orders": orders})
}

func (c *OrderController) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := c.pathID(w, logger, traceID, r, "orderID")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	order, err := c.status.UpdateStatus(r.Context(), orderID, domain.OrderStatus(req.Status))
	if err != nil {
		c.handleError(w, logger, traceID, err)
		return
	}

	writeJSON(w, logger, http.StatusOK, map[string]any{
		"orderId": order.ID,
		"status":  string(order.Status),
		"isPaid":  order.IsPaid,
	})
}

func (c *OrderController) HandleCancelOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := c.pathID(w, logger, traceID, r, "orderID")
	if !ok {
		return
	}

	var req dto.CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}
	if req.UserID == 0 {
		writeValidationError(w, logger, traceID, "validation failed", apperrors.ValidationDetail{
			Field:   "userId",
			Message: "userId is required",
		})
		return
	}

	if err := c.cancel.Cancel(r.Context(), orderID, req.UserID); err != nil {
		c.handleError(w, logger, traceID, err)
		return
	}

	writeJSON(w, logger, http.StatusOK, map[string]any{
		"orderId": orderID,
		"status":  string(domain.OrderStatusCancelled),
	})
}

func (c *OrderController) pathID(w http.ResponseWriter, logger *zap.Logger, traceID string, r *http.Request, param string) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, param), 10, 64)
	if err != nil || id == 0 {
		writeValidationError(w, logger, traceID, "validation failed", apperrors.ValidationDetail{
			Field:   param,
			Message: param + " must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

func (c *OrderController) handleError(w http.ResponseWriter, logger *zap.Logger, traceID string, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		writeValidationError(w, logger, traceID, ve.Message, ve.Details...)
		return
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		writeError(w, logger, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		writeError(w, logger, traceID, http.StatusConflict, "CONFLICT", err.Error())
		return
	}
	if _, ok := apperrors.IsForbiddenError(err); ok {
		writeError(w, logger, traceID, http.StatusForbidden, "FORBIDDEN", err.Error())
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	writeError(w, logger, traceID, http.StatusInternalServerError, "INTERNAL_ERROR",
		"an unexpected error occurred")
}
