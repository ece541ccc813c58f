package cart

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront/internal/dto"
)

type Controller struct {
	store  *Store
	logger *zap.Logger
}

func NewController(store *Store, logger *zap.Logger) *Controller {
	return &Controller{store: store, logger: logger}
}

func (c *Controller) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}

	items, err := c.store.Get(r.Context(), userID)
	if err != nil {
		c.logger.Error("reading cart", zap.Uint64("userId", userID), zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "an unexpected error occurred",
		})
		return
	}

	resp := dto.CartResponse{UserID: userID, Items: make([]dto.CartItemDTO, 0, len(items))}
	for productID, qty := range items {
		resp.Items = append(resp.Items, dto.CartItemDTO{ProductID: productID, Quantity: qty})
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c *Controller) HandleSaveCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}

	var req dto.SaveCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "VALIDATION",
			"message": "request body must be valid JSON",
		})
		return
	}

	items := make(map[uint64]int, len(req.Items))
	for _, it := range req.Items {
		if it.ProductID == 0 || it.Quantity < 1 {
			c.writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":   "VALIDATION",
				"message": "each item needs a productId and a quantity of at least 1",
			})
			return
		}
		items[it.ProductID] = it.Quantity
	}

	if err := c.store.Save(r.Context(), userID, items); err != nil {
		c.logger.Error("saving cart", zap.Uint64("userId", userID), zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "an unexpected error occurred",
		})
		return
	}

	c.writeJSON(w, http.StatusNoContent, nil)
}

func (c *Controller) userID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	userID, err := strconv.ParseUint(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID == 0 {
		c.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "VALIDATION",
			"message": "userID must be a positive integer",
		})
		return 0, false
	}
	return userID, true
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		c.logger.Error("writing response", zap.Error(err))
	}
}
