// Package memrepo is an in-memory implementation of the repositories and
// database.Store, for tests. It reports missing rows with pgx.ErrNoRows and
// constraint violations with *pgconn.PgError, the same way PostgreSQL does.
package memrepo

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/database"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/models"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/repositories"
)

var errRawSQL = errors.New("memrepo: raw SQL is not supported")

type state struct {
	customers     map[int64]models.Customer
	products      map[int64]models.Product
	accounts      map[int64]models.CustomerAccount // keyed by account ID
	orders        map[int64]models.Order           // Products left empty; see orderProducts
	orderProducts map[int64][]int64
	seq           int64
}

func (s state) clone() state {
	c := s
	c.customers = maps.Clone(s.customers)
	c.products = maps.Clone(s.products)
	c.accounts = maps.Clone(s.accounts)
	c.orders = maps.Clone(s.orders)
	c.orderProducts = make(map[int64][]int64, len(s.orderProducts))
	for k, v := range s.orderProducts {
		c.orderProducts[k] = slices.Clone(v)
	}
	return c
}

// Store holds every table in memory.
type Store struct {
	mu sync.Mutex
	st state

	// FailNext, when set, is returned by the next repository call.
	FailNext error
}

var _ database.Store = (*Store)(nil)

func New() *Store {
	return &Store{st: state{
		customers:     map[int64]models.Customer{},
		products:      map[int64]models.Product{},
		accounts:      map[int64]models.CustomerAccount{},
		orders:        map[int64]models.Order{},
		orderProducts: map[int64][]int64{},
	}}
}

// WithTransaction snapshots the tables and restores them when fn fails.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(ctx, nil); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Primary returns the store itself; there are no replicas in memory.
func (s *Store) Primary() database.Querier { return s }

func (s *Store) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errRawSQL
}

func (s *Store) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errRawSQL
}

func (s *Store) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{}
}

type errRow struct{}

func (errRow) Scan(...any) error { return errRawSQL }

// Customers returns a CustomerRepository backed by the store.
func (s *Store) Customers() repositories.CustomerRepository { return customerRepo{s} }

// Products returns a ProductRepository backed by the store.
func (s *Store) Products() repositories.ProductRepository { return productRepo{s} }

// Accounts returns an AccountRepository backed by the store.
func (s *Store) Accounts() repositories.AccountRepository { return accountRepo{s} }

// Orders returns an OrderRepository backed by the store.
func (s *Store) Orders() repositories.OrderRepository { return orderRepo{s} }

// lock acquires the mutex and consumes FailNext.
func (s *Store) lock() error {
	s.mu.Lock()
	if err := s.FailNext; err != nil {
		s.FailNext = nil
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) nextID() int64 {
	s.st.seq++
	return s.st.seq
}

func pgError(code, table, constraint string) error {
	return &pgconn.PgError{Code: code, TableName: table, ConstraintName: constraint}
}

type customerRepo struct{ s *Store }

func (r customerRepo) Create(_ context.Context, _ database.Querier, c models.Customer) (models.Customer, error) {
	if err := r.s.lock(); err != nil {
		return c, err
	}
	defer r.s.mu.Unlock()
	c.ID = r.s.nextID()
	r.s.st.customers[c.ID] = c
	return c, nil
}

func (r customerRepo) FindById(_ context.Context, _ database.Querier, id int64) (models.Customer, error) {
	if err := r.s.lock(); err != nil {
		return models.Customer{}, err
	}
	defer r.s.mu.Unlock()
	c, ok := r.s.st.customers[id]
	if !ok {
		return models.Customer{}, pgx.ErrNoRows
	}
	return c, nil
}

func (r customerRepo) FindAll(context.Context, database.Querier) ([]models.Customer, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	out := make([]models.Customer, 0, len(r.s.st.customers))
	for _, id := range slices.Sorted(maps.Keys(r.s.st.customers)) {
		out = append(out, r.s.st.customers[id])
	}
	return out, nil
}

func (r customerRepo) Update(_ context.Context, _ database.Querier, c models.Customer) (models.Customer, error) {
	if err := r.s.lock(); err != nil {
		return c, err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.customers[c.ID]; !ok {
		return c, pgx.ErrNoRows
	}
	r.s.st.customers[c.ID] = c
	return c, nil
}

func (r customerRepo) Delete(_ context.Context, _ database.Querier, id int64) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.customers[id]; !ok {
		return pgx.ErrNoRows
	}
	for _, o := range r.s.st.orders {
		if o.CustomerID == id {
			return pgError(pkg.PgForeignKeyViolation, "orders", "orders_customer_id_fkey")
		}
	}
	for _, a := range r.s.st.accounts {
		if a.CustomerID == id {
			return pgError(pkg.PgForeignKeyViolation, "customer_accounts", "customer_accounts_customer_id_fkey")
		}
	}
	delete(r.s.st.customers, id)
	return nil
}

type productRepo struct{ s *Store }

func (r productRepo) Create(_ context.Context, _ database.Querier, p models.Product) (models.Product, error) {
	if err := r.s.lock(); err != nil {
		return p, err
	}
	defer r.s.mu.Unlock()
	if p.Price < 0 {
		return p, pgError(pkg.PgCheckViolation, "products", "products_price_check")
	}
	p.ID = r.s.nextID()
	r.s.st.products[p.ID] = p
	return p, nil
}

func (r productRepo) FindById(_ context.Context, _ database.Querier, id int64) (models.Product, error) {
	if err := r.s.lock(); err != nil {
		return models.Product{}, err
	}
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[id]
	if !ok {
		return models.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (r productRepo) FindByIds(_ context.Context, _ database.Querier, ids []int64) ([]models.Product, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	out := make([]models.Product, 0, len(ids))
	for _, id := range slices.Sorted(maps.Keys(r.s.st.products)) {
		if slices.Contains(ids, id) {
			out = append(out, r.s.st.products[id])
		}
	}
	return out, nil
}

func (r productRepo) FindAll(context.Context, database.Querier) ([]models.Product, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	out := make([]models.Product, 0, len(r.s.st.products))
	for _, id := range slices.Sorted(maps.Keys(r.s.st.products)) {
		out = append(out, r.s.st.products[id])
	}
	return out, nil
}

func (r productRepo) Update(_ context.Context, _ database.Querier, p models.Product) (models.Product, error) {
	if err := r.s.lock(); err != nil {
		return p, err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.products[p.ID]; !ok {
		return p, pgx.ErrNoRows
	}
	r.s.st.products[p.ID] = p
	return p, nil
}

func (r productRepo) Delete(_ context.Context, _ database.Querier, id int64) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.products[id]; !ok {
		return pgx.ErrNoRows
	}
	for _, ids := range r.s.st.orderProducts {
		if slices.Contains(ids, id) {
			return pgError(pkg.PgForeignKeyViolation, "order_products", "order_products_product_id_fkey")
		}
	}
	delete(r.s.st.products, id)
	return nil
}

type accountRepo struct{ s *Store }

func (r accountRepo) Create(_ context.Context, _ database.Querier, a models.CustomerAccount) (models.CustomerAccount, error) {
	if err := r.s.lock(); err != nil {
		return a, err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.customers[a.CustomerID]; !ok {
		return a, pgError(pkg.PgForeignKeyViolation, "customer_accounts", "customer_accounts_customer_id_fkey")
	}
	for _, existing := range r.s.st.accounts {
		if existing.Username == a.Username {
			return a, pgError(pkg.PgUniqueViolation, "customer_accounts", "customer_accounts_username_key")
		}
		if existing.CustomerID == a.CustomerID {
			return a, pgError(pkg.PgUniqueViolation, "customer_accounts", "customer_accounts_customer_id_key")
		}
	}
	a.ID = r.s.nextID()
	a.Customer = models.Customer{}
	r.s.st.accounts[a.ID] = a
	return a, nil
}

func (r accountRepo) byCustomer(customerID int64) (models.CustomerAccount, bool) {
	for _, a := range r.s.st.accounts {
		if a.CustomerID == customerID {
			return a, true
		}
	}
	return models.CustomerAccount{}, false
}

func (r accountRepo) FindByCustomerId(_ context.Context, _ database.Querier, customerID int64) (models.CustomerAccount, error) {
	if err := r.s.lock(); err != nil {
		return models.CustomerAccount{}, err
	}
	defer r.s.mu.Unlock()
	a, ok := r.byCustomer(customerID)
	if !ok {
		return models.CustomerAccount{}, pgx.ErrNoRows
	}
	a.Customer = r.s.st.customers[customerID]
	return a, nil
}

func (r accountRepo) UpdateCredentials(_ context.Context, _ database.Querier, customerID int64, username, passwordHash string) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	a, ok := r.byCustomer(customerID)
	if !ok {
		return pgx.ErrNoRows
	}
	for _, existing := range r.s.st.accounts {
		if existing.ID != a.ID && existing.Username == username {
			return pgError(pkg.PgUniqueViolation, "customer_accounts", "customer_accounts_username_key")
		}
	}
	a.Username = username
	a.PasswordHash = passwordHash
	r.s.st.accounts[a.ID] = a
	return nil
}

func (r accountRepo) DeleteByCustomerId(_ context.Context, _ database.Querier, customerID int64) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	a, ok := r.byCustomer(customerID)
	if !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.st.accounts, a.ID)
	return nil
}

type orderRepo struct{ s *Store }

func (r orderRepo) Create(_ context.Context, _ database.Querier, o models.Order) (models.Order, error) {
	if err := r.s.lock(); err != nil {
		return o, err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.customers[o.CustomerID]; !ok {
		return o, pgError(pkg.PgForeignKeyViolation, "orders", "orders_customer_id_fkey")
	}
	o.ID = r.s.nextID()
	o.Products = nil
	r.s.st.orders[o.ID] = o
	return o, nil
}

func (r orderRepo) LinkProducts(_ context.Context, _ database.Querier, orderID int64, productIDs []int64) ([]int64, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.orders[orderID]; !ok {
		return nil, pgError(pkg.PgForeignKeyViolation, "order_products", "order_products_order_id_fkey")
	}
	existing := r.s.st.orderProducts[orderID]
	linked := make([]int64, 0, len(productIDs))
	for _, id := range productIDs {
		if _, ok := r.s.st.products[id]; !ok {
			continue
		}
		if slices.Contains(existing, id) || slices.Contains(linked, id) {
			continue
		}
		linked = append(linked, id)
	}
	r.s.st.orderProducts[orderID] = append(existing, linked...)
	return linked, nil
}

func (r orderRepo) FindById(_ context.Context, _ database.Querier, id int64) (models.Order, error) {
	if err := r.s.lock(); err != nil {
		return models.Order{}, err
	}
	defer r.s.mu.Unlock()
	o, ok := r.s.st.orders[id]
	if !ok {
		return models.Order{}, pgx.ErrNoRows
	}
	ids := slices.Sorted(slices.Values(r.s.st.orderProducts[id]))
	o.Products = make([]models.Product, 0, len(ids))
	for _, pid := range ids {
		o.Products = append(o.Products, r.s.st.products[pid])
	}
	return o, nil
}
