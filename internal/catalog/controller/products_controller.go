package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type BrowseUseCase interface {
	ListProducts(ctx context.Context, req dto.ListProductsRequest) (*dto.ListProductsResponse, error)
	GetProduct(ctx context.Context, id uint64) (*dto.ProductDTO, error)
}

type ProductsController struct {
	useCase BrowseUseCase
	logger  *zap.Logger
}

func NewProductsController(useCase BrowseUseCase, logger *zap.Logger) *ProductsController {
	return &ProductsController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *ProductsController) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	req := dto.ListProductsRequest{
		Category: q.Get("category"),
		Limit:    limit,
		Offset:   offset,
	}

	resp, err := c.useCase.ListProducts(r.Context(), req)
	if err != nil {
		c.logger.Error("list products failed", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "an unexpected error occurred",
		})
		return
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c *ProductsController) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "productID")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		c.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "VALIDATION",
			"message": "productID must be a positive integer",
		})
		return
	}

	product, err := c.useCase.GetProduct(r.Context(), id)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			c.writeJSON(w, http.StatusNotFound, map[string]string{
				"error":   "NOT_FOUND",
				"message": err.Error(),
			})
			return
		}
		c.logger.Error("get product failed", zap.Uint64("productId", id), zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "an unexpected error occurred",
		})
		return
	}

	c.writeJSON(w, http.StatusOK, product)
}

func (c *ProductsController) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		c.logger.Error("writing response", zap.Error(err))
	}
}
