package order

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	addressrepo "storefront/internal/address/repository"
	"storefront/internal/cart"
	catalogrepo "storefront/internal/catalog/repository"
	"storefront/internal/config"
	"storefront/internal/infrastructure/mysql"
	"storefront/internal/order/controller"
	orderrepo "storefront/internal/order/repository"
	"storefront/internal/order/service"
	"storefront/internal/order/usecase"
	"storefront/internal/payment"
)

type Module struct {
	Checkout *controller.CheckoutController
	Orders   *controller.OrderController
	Webhook  *controller.WebhookController
}

func NewModule(
	db *sql.DB,
	carts *cart.Store,
	bridge *payment.Bridge,
	events usecase.EventPublisher,
	cfg *config.Config,
	logger *zap.Logger,
) (*Module, error) {
	taxRate, err := decimal.NewFromString(cfg.Order.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("parsing tax rate %q: %w", cfg.Order.TaxRate, err)
	}

	txManager := mysql.TxManager{DB: db}
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	itemRepo := orderrepo.NewMySQLOrderItemRepository(db)
	productRepo := catalogrepo.NewMySQLProductRepository(db)
	addressRepo := addressrepo.NewMySQLAddressRepository(db)

	stockSvc := service.NewStockService(productRepo, logger)

	checkoutSvc := service.NewCheckoutService(
		txManager,
		productRepo,
		orderRepo,
		itemRepo,
		stockSvc,
		logger,
		cfg.Order.ReservationTxTimeout,
		taxRate,
	)

	settlementSvc := service.NewSettlementService(
		txManager,
		db,
		orderRepo,
		itemRepo,
		stockSvc,
		logger,
		cfg.Order.ReservationTxTimeout,
	)

	placeUC := usecase.NewPlaceOrderUseCase(
		addressRepo,
		checkoutSvc,
		bridge,
		settlementSvc,
		events,
		logger,
		cfg.Order.MaxRetryAttempts,
	)
	webhookUC := usecase.NewPaymentWebhookUseCase(settlementSvc, carts, events, logger)
	cancelUC := usecase.NewCancelOrderUseCase(
		orderRepo, itemRepo, settlementSvc, events, logger, cfg.Order.CancelWindow)
	statusUC := usecase.NewUpdateStatusUseCase(orderRepo, events, logger)
	queryUC := usecase.NewOrderQueryUseCase(orderRepo, itemRepo)

	return &Module{
		Checkout: controller.NewCheckoutController(placeUC, logger),
		Orders:   controller.NewOrderController(queryUC, statusUC, cancelUC, logger),
		Webhook:  controller.NewWebhookController(webhookUC, bridge, logger),
	}, nil
}
