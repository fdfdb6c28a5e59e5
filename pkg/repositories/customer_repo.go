package repositories

import (
	"context"

	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/database"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/models"
)

// CustomerRepository defines the interface for customer repository.
// Lookups of a missing row return pgx.ErrNoRows.
type CustomerRepository interface {
	// Create inserts a customer and returns it with its generated ID.
	Create(ctx context.Context, q database.Querier, customer models.Customer) (models.Customer, error)
	// FindById finds a customer by ID.
	FindById(ctx context.Context, q database.Querier, id int64) (models.Customer, error)
	// FindAll returns every customer ordered by ID.
	FindAll(ctx context.Context, q database.Querier) ([]models.Customer, error)
	// Update overwrites name, email and phone.
	Update(ctx context.Context, q database.Querier, customer models.Customer) (models.Customer, error)
	// Delete removes a customer by ID.
	Delete(ctx context.Context, q database.Querier, id int64) error
}

type CustomerRepositoryImpl struct {
}

func NewCustomerRepository() CustomerRepository {
	return &CustomerRepositoryImpl{}
}

func (r CustomerRepositoryImpl) Create(ctx context.Context, q database.Querier, customer models.Customer) (models.Customer, error) {
	err := q.QueryRow(ctx, `INSERT INTO customers (name, email, phone)
		VALUES ($1, $2, $3)
		RETURNING id`,
		customer.Name, customer.Email, customer.Phone,
	).Scan(&customer.ID)
	return customer, err
}

func (r CustomerRepositoryImpl) FindById(ctx context.Context, q database.Querier, id int64) (models.Customer, error) {
	var c models.Customer
	err := q.QueryRow(ctx, `SELECT id, name, COALESCE(email, ''), COALESCE(phone, '') FROM customers WHERE id = $1`, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone)
	return c, err
}

func (r CustomerRepositoryImpl) FindAll(ctx context.Context, q database.Querier) ([]models.Customer, error) {
	rows, err := q.Query(ctx, `SELECT id, name, COALESCE(email, ''), COALESCE(phone, '') FROM customers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	customers := make([]models.Customer, 0)
	for rows.Next() {
		var c models.Customer
		if err = rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r CustomerRepositoryImpl) Update(ctx context.Context, q database.Querier, customer models.Customer) (models.Customer, error) {
	err := q.QueryRow(ctx, `UPDATE customers SET name = $1, email = $2, phone = $3 WHERE id = $4 RETURNING id`,
		customer.Name, customer.Email, customer.Phone, customer.ID,
	).Scan(&customer.ID)
	return customer, err
}

func (r CustomerRepositoryImpl) Delete(ctx context.Context, q database.Querier, id int64) error {
	return q.QueryRow(ctx, `DELETE FROM customers WHERE id = $1 RETURNING id`, id).Scan(&id)
}
