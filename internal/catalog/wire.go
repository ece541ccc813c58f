package catalog

import (
	"database/sql"

	"go.uber.org/zap"

	"storefront/internal/catalog/controller"
	"storefront/internal/catalog/repository"
	"storefront/internal/catalog/service"
	"storefront/internal/catalog/usecase"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.ProductsController {
	repo := repository.NewMySQLProductRepository(db)
	svc := service.NewCatalogService(repo)
	uc := usecase.NewBrowseProductsUseCase(svc)
	return controller.NewProductsController(uc, logger)
}
