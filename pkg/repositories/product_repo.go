package repositories

import (
	"context"

	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/database"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/models"
)

// ProductRepository defines the interface for product repository.
type ProductRepository interface {
	Create(ctx context.Context, q database.Querier, product models.Product) (models.Product, error)
	FindById(ctx context.Context, q database.Querier, id int64) (models.Product, error)
	// FindByIds returns the products whose ID is in ids. Unknown IDs are skipped.
	FindByIds(ctx context.Context, q database.Querier, ids []int64) ([]models.Product, error)
	FindAll(ctx context.Context, q database.Querier) ([]models.Product, error)
	Update(ctx context.Context, q database.Querier, product models.Product) (models.Product, error)
	Delete(ctx context.Context, q database.Querier, id int64) error
}

type ProductRepositoryImpl struct {
}

func NewProductRepository() ProductRepository {
	return &ProductRepositoryImpl{}
}

func (r ProductRepositoryImpl) Create(ctx context.Context, q database.Querier, product models.Product) (models.Product, error) {
	err := q.QueryRow(ctx, `INSERT INTO products (name, price) VALUES ($1, $2) RETURNING id`,
		product.Name, product.Price,
	).Scan(&product.ID)
	return product, err
}

func (r ProductRepositoryImpl) FindById(ctx context.Context, q database.Querier, id int64) (models.Product, error) {
	var p models.Product
	err := q.QueryRow(ctx, `SELECT id, name, price FROM products WHERE id = $1`, id).Scan(&p.ID, &p.Name, &p.Price)
	return p, err
}

func (r ProductRepositoryImpl) FindByIds(ctx context.Context, q database.Querier, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	return r.query(ctx, q, `SELECT id, name, price FROM products WHERE id = ANY($1) ORDER BY id`, ids)
}

func (r ProductRepositoryImpl) FindAll(ctx context.Context, q database.Querier) ([]models.Product, error) {
	return r.query(ctx, q, `SELECT id, name, price FROM products ORDER BY id`)
}

func (r ProductRepositoryImpl) Update(ctx context.Context, q database.Querier, product models.Product) (models.Product, error) {
	err := q.QueryRow(ctx, `UPDATE products SET name = $1, price = $2 WHERE id = $3 RETURNING id`,
		product.Name, product.Price, product.ID,
	).Scan(&product.ID)
	return product, err
}

func (r ProductRepositoryImpl) Delete(ctx context.Context, q database.Querier, id int64) error {
	return q.QueryRow(ctx, `DELETE FROM products WHERE id = $1 RETURNING id`, id).Scan(&id)
}

func (r ProductRepositoryImpl) query(ctx context.Context, q database.Querier, sql string, args ...any) ([]models.Product, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	products := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err = rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
