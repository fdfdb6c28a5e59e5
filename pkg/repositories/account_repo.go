package repositories

import (
	"context"

	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/database"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/models"
)

// AccountRepository defines the interface for customer account repository.
// Reads, updates and deletes are keyed by the owning customer's ID.
type AccountRepository interface {
	// Create creates a new account.
	Create(ctx context.Context, q database.Querier, account models.CustomerAccount) (models.CustomerAccount, error)
	// FindByCustomerId finds the account of a customer, with the customer loaded.
	FindByCustomerId(ctx context.Context, q database.Querier, customerID int64) (models.CustomerAccount, error)
	// UpdateCredentials overwrites username and password hash; customer_id never changes.
	UpdateCredentials(ctx context.Context, q database.Querier, customerID int64, username, passwordHash string) error
	// DeleteByCustomerId removes the account of a customer.
	DeleteByCustomerId(ctx context.Context, q database.Querier, customerID int64) error
}

type AccountRepositoryImpl struct {
}

func NewAccountRepository() AccountRepository {
	return &AccountRepositoryImpl{}
}

func (a AccountRepositoryImpl) Create(ctx context.Context, q database.Querier, account models.CustomerAccount) (models.CustomerAccount, error) {
	err := q.QueryRow(ctx, `INSERT INTO customer_accounts (username, password_hash, customer_id)
		VALUES ($1, $2, $3)
		RETURNING id`,
		account.Username, account.PasswordHash, account.CustomerID,
	).Scan(&account.ID)
	return account, err
}

func (a AccountRepositoryImpl) FindByCustomerId(ctx context.Context, q database.Querier, customerID int64) (models.CustomerAccount, error) {
	var account models.CustomerAccount
	err := q.QueryRow(ctx, `SELECT a.id, a.username, a.password_hash, a.customer_id,
			c.id, c.name, COALESCE(c.email, ''), COALESCE(c.phone, '')
		FROM customer_accounts a
		JOIN customers c ON c.id = a.customer_id
		WHERE a.customer_id = $1`, customerID).Scan(
		&account.ID, &account.Username, &account.PasswordHash, &account.CustomerID,
		&account.Customer.ID, &account.Customer.Name, &account.Customer.Email, &account.Customer.Phone)
	return account, err
}

func (a AccountRepositoryImpl) UpdateCredentials(ctx context.Context, q database.Querier, customerID int64, username, passwordHash string) error {
	var id int64
	return q.QueryRow(ctx, `UPDATE customer_accounts SET username = $1, password_hash = $2 WHERE customer_id = $3 RETURNING id`,
		username, passwordHash, customerID,
	).Scan(&id)
}

func (a AccountRepositoryImpl) DeleteByCustomerId(ctx context.Context, q database.Querier, customerID int64) error {
	var id int64
	return q.QueryRow(ctx, `DELETE FROM customer_accounts WHERE customer_id = $1 RETURNING id`, customerID).Scan(&id)
}
