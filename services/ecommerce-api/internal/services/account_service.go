package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/database"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/models"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/repositories"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/utils"
	"go.uber.org/zap"
)

// AccountService manages customer accounts. Every lookup is keyed by the
// owning customer's ID rather than the account ID.
type AccountService interface {
	CreateAccount(ctx context.Context, traceId string, customerID int64, username, password string) (models.CustomerAccount, error)
	GetAccount(ctx context.Context, traceId string, customerID int64) (models.CustomerAccount, error)
	UpdateAccount(ctx context.Context, traceId string, customerID int64, username, password string) (models.CustomerAccount, error)
	DeleteAccount(ctx context.Context, traceId string, customerID int64) error
}

type AccountServiceImpl struct {
	logger     *zap.Logger
	db         database.Store
	repo       repositories.AccountRepository
	bcryptCost int
}

func NewAccountService(logger *zap.Logger, db database.Store, repo repositories.AccountRepository, bcryptCost int) AccountService {
	return &AccountServiceImpl{logger: logger, db: db, repo: repo, bcryptCost: bcryptCost}
}

func (s *AccountServiceImpl) hash(password string) (string, error) {
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return "", pkg.NewInvalidInputError("password is too long", err)
	}
	return hash, err
}

func (s *AccountServiceImpl) CreateAccount(ctx context.Context, traceId string, customerID int64, username, password string) (models.CustomerAccount, error) {
	hash, err := s.hash(password)
	if err != nil {
		return models.CustomerAccount{}, err
	}
	account, err := s.repo.Create(ctx, s.db.Primary(), models.CustomerAccount{
		Username:     username,
		PasswordHash: hash,
		CustomerID:   customerID,
	})
	if err != nil {
		return models.CustomerAccount{}, pkg.HandleSQLError(traceId, s.logger, pkg.EntityCustomerAccount, err)
	}
	s.logger.Info("customer account created",
		zap.String(pkg.TraceId, traceId),
		zap.Int64("accountId", account.ID),
		zap.Int64("customerId", customerID),
	)
	return account, nil
}

func (s *AccountServiceImpl) GetAccount(ctx context.Context, traceId string, customerID int64) (models.CustomerAccount, error) {
	account, err := s.repo.FindByCustomerId(ctx, s.db, customerID)
	if err != nil {
		return models.CustomerAccount{}, pkg.HandleSQLError(traceId, s.logger, pkg.EntityCustomerAccount, err)
	}
	return account, nil
}

// UpdateAccount replaces username and password; the owning customer never changes.
func (s *AccountServiceImpl) UpdateAccount(ctx context.Context, traceId string, customerID int64, username, password string) (models.CustomerAccount, error) {
	hash, err := s.hash(password)
	if err != nil {
		return models.CustomerAccount{}, err
	}
	var account models.CustomerAccount
	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.repo.UpdateCredentials(ctx, tx, customerID, username, hash); err != nil {
			return err
		}
		var findErr error
		account, findErr = s.repo.FindByCustomerId(ctx, tx, customerID)
		return findErr
	})
	if err != nil {
		return models.CustomerAccount{}, pkg.HandleSQLError(traceId, s.logger, pkg.EntityCustomerAccount, err)
	}
	s.logger.Info("customer account updated", zap.String(pkg.TraceId, traceId), zap.Int64("customerId", customerID))
	return account, nil
}

func (s *AccountServiceImpl) DeleteAccount(ctx context.Context, traceId string, customerID int64) error {
	if err := s.repo.DeleteByCustomerId(ctx, s.db.Primary(), customerID); err != nil {
		return pkg.HandleSQLError(traceId, s.logger, pkg.EntityCustomerAccount, err)
	}
	s.logger.Info("customer account deleted", zap.String(pkg.TraceId, traceId), zap.Int64("customerId", customerID))
	return nil
}
