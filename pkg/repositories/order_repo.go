package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/database"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/models"
)

type OrderRepository interface {
	// Create inserts the order row and returns it with its generated ID.
	// Products are attached separately with LinkProducts.
	Create(ctx context.Context, q database.Querier, order models.Order) (models.Order, error)
	// LinkProducts links the products among productIDs that exist to an order
	// in one statement and returns the linked IDs. Missing IDs are skipped.
	LinkProducts(ctx context.Context, q database.Querier, orderID int64, productIDs []int64) ([]int64, error)
	// FindById finds an order and its products.
	FindById(ctx context.Context, q database.Querier, id int64) (models.Order, error)
}

type OrderRepositoryImpl struct {
}

func NewOrderRepository() OrderRepository {
	return &OrderRepositoryImpl{}
}

func (o OrderRepositoryImpl) Create(ctx context.Context, q database.Querier, order models.Order) (models.Order, error) {
	err := q.QueryRow(ctx, `
						INSERT INTO orders (customer_id, created_at)
						VALUES ($1, $2) RETURNING id, created_at`,
		order.CustomerID,
		order.CreatedAt,
	).Scan(&order.ID, &order.CreatedAt)
	return order, err
}

func (o OrderRepositoryImpl) LinkProducts(ctx context.Context, q database.Querier, orderID int64, productIDs []int64) ([]int64, error) {
	if len(productIDs) == 0 {
		return []int64{}, nil
	}
	rows, err := q.Query(ctx, `
						INSERT INTO order_products (order_id, product_id)
						SELECT $1, p.id FROM products p WHERE p.id = ANY($2)
						ON CONFLICT DO NOTHING
						RETURNING product_id`,
		orderID, productIDs,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func (o OrderRepositoryImpl) FindById(ctx context.Context, q database.Querier, id int64) (models.Order, error) {
	var order models.Order
	err := q.QueryRow(ctx, `SELECT id, customer_id, created_at FROM orders WHERE id = $1`, id).Scan(
		&order.ID, &order.CustomerID, &order.CreatedAt)
	if err != nil {
		return order, err
	}

	rows, err := q.Query(ctx, `
							SELECT p.id, p.name, p.price
							FROM order_products op
							JOIN products p ON p.id = op.product_id
							WHERE op.order_id = $1
							ORDER BY p.id`, id)
	if err != nil {
		return order, err
	}
	order.Products, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Product, error) {
		var p models.Product
		err := row.Scan(&p.ID, &p.Name, &p.Price)
		return p, err
	})
	return order, err
}
