package services

import (
	"context"

	"github.com/nimeshabuddhika/ecommerce-data-api/pkg"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/database"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/models"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/repositories"
	"go.uber.org/zap"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, traceId string, customer models.Customer) (models.Customer, error)
	GetCustomer(ctx context.Context, traceId string, id int64) (models.Customer, error)
	ListCustomers(ctx context.Context, traceId string) ([]models.Customer, error)
	UpdateCustomer(ctx context.Context, traceId string, customer models.Customer) (models.Customer, error)
	DeleteCustomer(ctx context.Context, traceId string, id int64) error
}

type CustomerServiceImpl struct {
	logger *zap.Logger
	db     database.Store
	repo   repositories.CustomerRepository
}

func NewCustomerService(logger *zap.Logger, db database.Store, repo repositories.CustomerRepository) CustomerService {
	return &CustomerServiceImpl{logger: logger, db: db, repo: repo}
}

func (s *CustomerServiceImpl) CreateCustomer(ctx context.Context, traceId string, customer models.Customer) (models.Customer, error) {
	created, err := s.repo.Create(ctx, s.db.Primary(), customer)
	if err != nil {
		return models.Customer{}, pkg.HandleSQLError(traceId, s.logger, pkg.EntityCustomer, err)
	}
	s.logger.Info("customer created", zap.String(pkg.TraceId, traceId), zap.Int64("customerId", created.ID))
	return created, nil
}

func (s *CustomerServiceImpl) GetCustomer(ctx context.Context, traceId string, id int64) (models.Customer, error) {
	customer, err := s.repo.FindById(ctx, s.db, id)
	if err != nil {
		return models.Customer{}, pkg.HandleSQLError(traceId, s.logger, pkg.EntityCustomer, err)
	}
	return customer, nil
}

func (s *CustomerServiceImpl) ListCustomers(ctx context.Context, traceId string) ([]models.Customer, error) {
	customers, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, pkg.HandleSQLError(traceId, s.logger, pkg.EntityCustomer, err)
	}
	return customers, nil
}

func (s *CustomerServiceImpl) UpdateCustomer(ctx context.Context, traceId string, customer models.Customer) (models.Customer, error) {
	updated, err := s.repo.Update(ctx, s.db.Primary(), customer)
	if err != nil {
		return models.Customer{}, pkg.HandleSQLError(traceId, s.logger, pkg.EntityCustomer, err)
	}
	s.logger.Info("customer updated", zap.String(pkg.TraceId, traceId), zap.Int64("customerId", updated.ID))
	return updated, nil
}

// DeleteCustomer is rejected with a conflict while the customer still has
// orders or an account.
func (s *CustomerServiceImpl) DeleteCustomer(ctx context.Context, traceId string, id int64) error {
	if err := s.repo.Delete(ctx, s.db.Primary(), id); err != nil {
		return pkg.HandleSQLError(traceId, s.logger, pkg.EntityCustomer, err)
	}
	s.logger.Info("customer deleted", zap.String(pkg.TraceId, traceId), zap.Int64("customerId", id))
	return nil
}
