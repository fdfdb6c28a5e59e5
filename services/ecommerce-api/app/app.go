package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/cache"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/database"
	middleware "github.com/nimeshabuddhika/ecommerce-data-api/pkg/middlewares"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/repositories"
	"github.com/nimeshabuddhika/ecommerce-data-api/services/ecommerce-api/configs"
	_ "github.com/nimeshabuddhika/ecommerce-data-api/services/ecommerce-api/docs"
	"github.com/nimeshabuddhika/ecommerce-data-api/services/ecommerce-api/internal/handlers"
	"github.com/nimeshabuddhika/ecommerce-data-api/services/ecommerce-api/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Services groups the resource services the router exposes.
type Services struct {
	Customers services.CustomerService
	Accounts  services.AccountService
	Products  services.ProductService
	Orders    services.OrderService
}

// Repositories groups the data-access implementations the services run on.
type Repositories struct {
	Customers repositories.CustomerRepository
	Accounts  repositories.AccountRepository
	Products  repositories.ProductRepository
	Orders    repositories.OrderRepository
}

// NewPostgresRepositories returns the pgx-backed repositories.
func NewPostgresRepositories() Repositories {
	return Repositories{
		Customers: repositories.NewCustomerRepository(),
		Accounts:  repositories.NewAccountRepository(),
		Products:  repositories.NewProductRepository(),
		Orders:    repositories.NewOrderRepository(),
	}
}

// NewServices wires repositories into services over one store.
func NewServices(logger *zap.Logger, db database.Store, repos Repositories, productCache cache.ProductCache,
	publisher services.EventPublisher, bcryptCost int) Services {
	return Services{
		Customers: services.NewCustomerService(logger, db, repos.Customers),
		Accounts:  services.NewAccountService(logger, db, repos.Accounts, bcryptCost),
		Products:  services.NewProductService(logger, db, repos.Products, productCache),
		Orders:    services.NewOrderService(logger, db, repos.Orders, repos.Products, publisher),
	}
}

// NewRouter builds the Gin engine with middleware and every route registered.
func NewRouter(logger *zap.Logger, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	handlers.NewBaseHandler(logger).RegisterRoutes(r)

	api := r.Group("")
	handlers.NewCustomerHandler(logger, svc.Customers).RegisterRoutes(api)
	handlers.NewAccountHandler(logger, svc.Accounts).RegisterRoutes(api)
	handlers.NewProductHandler(logger, svc.Products).RegisterRoutes(api)
	handlers.NewOrderHandler(logger, svc.Orders).RegisterRoutes(api)
	return r
}

// NewApp wires dependencies, builds the Gin engine, and returns an *http.Server and a cleanup func.
// It reads configuration from environment variables via configs.Load.
func NewApp(ctx context.Context, logger *zap.Logger) (*http.Server, *configs.Config, func(), error) {
	// Load config
	cfg, err := configs.Load(logger)
	if err != nil {
		return nil, nil, nil, err
	}
	pkg.ExposeErrorDetails = cfg.ExposeErrorDetails

	// Initialize postgres db
	dbConfig := database.Config{
		PrimaryDSN:  cfg.PrimaryDbAddr,
		ReplicaDSNs: []string{cfg.ReplicaDbAddr},
		MaxConns:    cfg.MaxDbCons,
		MinConns:    cfg.MinDbCons,
	}
	db, disconnect, err := database.New(ctx, logger, dbConfig)
	if err != nil {
		return nil, nil, nil, err
	}
	closers := []func(){disconnect}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// Run migrations on primary
	if err = database.RunMigrations(logger, cfg.PrimaryDbAddr); err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	var productCache cache.ProductCache = cache.NoopProductCache{}
	if cfg.RedisAddr != "" {
		client, closeRedis, err := cache.New(ctx, cache.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("redis: %w", err)
		}
		closers = append(closers, closeRedis)
		productCache = cache.NewRedisProductCache(logger, client, cfg.ProductCacheTTL)
		logger.Info("product cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.ProductCacheTTL))
	}

	var publisher services.EventPublisher = services.NoopPublisher{}
	if cfg.KafkaBrokers != "" {
		publisher, err = services.NewKafkaPublisher(ctx, logger, cfg)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("kafka: %w", err)
		}
		closers = append(closers, publisher.Close)
	}

	router := NewRouter(logger, NewServices(logger, db, NewPostgresRepositories(), productCache, publisher, cfg.BcryptCost))
	srv := &http.Server{Addr: fmt.Sprintf(":%s", cfg.Port), Handler: router}
	return srv, cfg, cleanup, nil
}
