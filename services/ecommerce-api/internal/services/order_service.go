package services

import (
	"context"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/database"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/models"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/repositories"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/views"
	"github.com/nimeshabuddhika/ecommerce-data-api/services/ecommerce-api/internal/observability"
	"go.uber.org/zap"
)

type OrderService interface {
	// CreateOrder stores an order for customerID linked to the products in
	// productIDs that exist. Unknown product IDs are ignored.
	CreateOrder(ctx context.Context, traceId string, customerID int64, productIDs []int64) (models.Order, error)
	GetOrder(ctx context.Context, traceId string, id int64) (models.Order, error)
}

type OrderServiceImpl struct {
	logger      *zap.Logger
	db          database.Store
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   EventPublisher
	now         func() time.Time
}

// NewOrderService wires the order service; a nil publisher disables events.
func NewOrderService(logger *zap.Logger, db database.Store, orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository, publisher EventPublisher) OrderService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &OrderServiceImpl{
		logger:      logger,
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *OrderServiceImpl) CreateOrder(ctx context.Context, traceId string, customerID int64, productIDs []int64) (models.Order, error) {
	requested := uniqueIDs(productIDs)

	// The order row and its product links commit together or not at all.
	var order models.Order
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		created, err := s.orderRepo.Create(ctx, tx, models.Order{CustomerID: customerID, CreatedAt: s.now()})
		if err != nil {
			return err
		}
		// Filtering and linking happen in one statement, so a product deleted
		// concurrently is skipped rather than failing the foreign key.
		linked, err := s.orderRepo.LinkProducts(ctx, tx, created.ID, requested)
		if err != nil {
			return err
		}
		if created.Products, err = s.productRepo.FindByIds(ctx, tx, linked); err != nil {
			return err
		}
		order = created
		return nil
	})
	if err != nil {
		return models.Order{}, pkg.HandleSQLError(traceId, s.logger, pkg.EntityOrder, err)
	}

	observability.OrdersCreated.Inc()
	if ignored := len(requested) - len(order.Products); ignored > 0 {
		observability.OrderProductsIgnored.Add(float64(ignored))
	}
	s.logger.Info("order created",
		zap.String(pkg.TraceId, traceId),
		zap.Int64("orderId", order.ID),
		zap.Int64("customerId", customerID),
		zap.Int64s("productIds", order.ProductIDs()),
		zap.Int("ignoredProductIds", len(requested)-len(order.Products)),
	)

	// Best effort: the order is committed whether or not the event goes out.
	event := views.OrderCreatedEvent{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		ProductIDs: order.ProductIDs(),
		CreatedAt:  order.CreatedAt,
		TraceID:    traceId,
	}
	if err = s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("failed to publish order created event",
			zap.String(pkg.TraceId, traceId), zap.Int64("orderId", order.ID), zap.Error(err))
	}
	return order, nil
}

func (s *OrderServiceImpl) GetOrder(ctx context.Context, traceId string, id int64) (models.Order, error) {
	order, err := s.orderRepo.FindById(ctx, s.db, id)
	if err != nil {
		return models.Order{}, pkg.HandleSQLError(traceId, s.logger, pkg.EntityOrder, err)
	}
	return order, nil
}

// uniqueIDs drops duplicate IDs, keeping first-seen order.
func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
