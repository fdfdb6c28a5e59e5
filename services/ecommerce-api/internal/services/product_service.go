package services

import (
	"context"

	"github.com/nimeshabuddhika/ecommerce-data-api/pkg"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/cache"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/database"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/models"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/repositories"
	"go.uber.org/zap"
)

type ProductService interface {
	CreateProduct(ctx context.Context, traceId string, product models.Product) (models.Product, error)
	GetProduct(ctx context.Context, traceId string, id int64) (models.Product, error)
	ListProducts(ctx context.Context, traceId string) ([]models.Product, error)
	UpdateProduct(ctx context.Context, traceId string, product models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, traceId string, id int64) error
}

type ProductServiceImpl struct {
	logger *zap.Logger
	db     database.Store
	repo   repositories.ProductRepository
	cache  cache.ProductCache
}

// NewProductService wires the product service; a nil productCache disables caching.
func NewProductService(logger *zap.Logger, db database.Store, repo repositories.ProductRepository, productCache cache.ProductCache) ProductService {
	if productCache == nil {
		productCache = cache.NoopProductCache{}
	}
	return &ProductServiceImpl{logger: logger, db: db, repo: repo, cache: productCache}
}

func (s *ProductServiceImpl) CreateProduct(ctx context.Context, traceId string, product models.Product) (models.Product, error) {
	created, err := s.repo.Create(ctx, s.db.Primary(), product)
	if err != nil {
		return models.Product{}, pkg.HandleSQLError(traceId, s.logger, pkg.EntityProduct, err)
	}
	s.logger.Info("product created", zap.String(pkg.TraceId, traceId), zap.Int64("productId", created.ID))
	return created, nil
}

func (s *ProductServiceImpl) GetProduct(ctx context.Context, traceId string, id int64) (models.Product, error) {
	if product, ok := s.cache.Get(ctx, id); ok {
		return product, nil
	}
	// A lagging replica could repopulate the cache with a row an update just
	// invalidated, so misses are filled from the primary.
	product, err := s.repo.FindById(ctx, s.db.Primary(), id)
	if err != nil {
		return models.Product{}, pkg.HandleSQLError(traceId, s.logger, pkg.EntityProduct, err)
	}
	s.cache.Set(ctx, product)
	return product, nil
}

func (s *ProductServiceImpl) ListProducts(ctx context.Context, traceId string) ([]models.Product, error) {
	products, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, pkg.HandleSQLError(traceId, s.logger, pkg.EntityProduct, err)
	}
	return products, nil
}

func (s *ProductServiceImpl) UpdateProduct(ctx context.Context, traceId string, product models.Product) (models.Product, error) {
	updated, err := s.repo.Update(ctx, s.db.Primary(), product)
	if err != nil {
		return models.Product{}, pkg.HandleSQLError(traceId, s.logger, pkg.EntityProduct, err)
	}
	s.cache.Delete(ctx, updated.ID)
	s.logger.Info("product updated", zap.String(pkg.TraceId, traceId), zap.Int64("productId", updated.ID))
	return updated, nil
}

// DeleteProduct is rejected with a conflict while an order still references the product.
func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, traceId string, id int64) error {
	if err := s.repo.Delete(ctx, s.db.Primary(), id); err != nil {
		return pkg.HandleSQLError(traceId, s.logger, pkg.EntityProduct, err)
	}
	s.cache.Delete(ctx, id)
	s.logger.Info("product deleted", zap.String(pkg.TraceId, traceId), zap.Int64("productId", id))
	return nil
}
