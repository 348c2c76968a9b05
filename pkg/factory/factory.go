package factory

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"blogapi/internal/api"
	"blogapi/internal/api/middleware"
	"blogapi/internal/config"
	"blogapi/internal/domain"
	"blogapi/internal/messaging"
	"blogapi/internal/repository"
	"blogapi/internal/repository/memory"
	"blogapi/internal/security"
	"blogapi/internal/service"
	"blogapi/pkg/cache"
	"blogapi/pkg/circuitbreaker"
	"blogapi/pkg/database"
	"blogapi/pkg/logger"
	redisclient "blogapi/pkg/redis"
)

const cachePrefix = "blogapi"

type Factory interface {
	GetLogger() logger.Logger
	GetConfig() *config.Config
	GetConnectionManager() *database.ConnectionManager
	GetRedisClient() *redis.Client
	GetCache() cache.Cache
	GetCacheManager() cache.CacheStrategy
	GetPublisher() domain.EventPublisher

	GetUserRepository() domain.UserRepository
	GetCategoryRepository() domain.CategoryRepository
	GetBlogRepository() domain.BlogRepository
	GetAuditLogRepository() domain.AuditLogRepository

	GetUserService() domain.UserService
	GetCategoryService() domain.CategoryService
	GetBlogService() domain.BlogService
	GetAuditLogService() domain.AuditLogService

	GetTokenManager() *security.TokenManager
	GetRateLimiter() *middleware.RateLimiter
	GetHealthHandler() *api.HealthHandler

	Close(ctx context.Context) error
}

type AppFactory struct {
	config       *config.Config
	logger       logger.Logger
	cm           *database.ConnectionManager
	store        *memory.Store
	redisClient  *redis.Client
	cache        cache.Cache
	cacheManager cache.CacheStrategy
	publisher    domain.EventPublisher

	userRepository     domain.UserRepository
	categoryRepository domain.CategoryRepository
	blogRepository     domain.BlogRepository
	auditLogRepository domain.AuditLogRepository

	userService     domain.UserService
	categoryService domain.CategoryService
	blogService     domain.BlogService
	auditLogService domain.AuditLogService

	tokenManager  *security.TokenManager
	rateLimiter   *middleware.RateLimiter
	healthHandler *api.HealthHandler
}

func NewFactory(ctx context.Context) (Factory, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Options{
		Level:  logger.LogLevel(cfg.LogLevel),
		Pretty: cfg.IsDevelopment(),
	})

	f := &AppFactory{
		config: cfg,
		logger: log,
	}

	if err := f.initStorage(ctx); err != nil {
		return nil, err
	}
	if err := f.initCache(ctx); err != nil {
		_ = f.Close(ctx)
		return nil, err
	}
	if err := f.initPublisher(); err != nil {
		_ = f.Close(ctx)
		return nil, err
	}

	f.initRepositories()
	f.initServices()
	f.initHTTP()

	return f, nil
}

func (f *AppFactory) initStorage(ctx context.Context) error {
	if f.config.Database.Driver == config.StorageMemory {
		f.logger.Warn("Using in-memory storage; data is lost on restart", logger.Fields{})
		f.store = memory.NewStore()
		return nil
	}

	f.cm = database.NewConnectionManager(database.Settings{
		URI:      f.config.Database.URI,
		Database: f.config.Database.Name,
		Timeout:  f.config.Database.Timeout,
	}, f.logger)

	return f.cm.Connect(ctx)
}

func (f *AppFactory) initCache(ctx context.Context) error {
	if f.config.Redis.Addr == "" {
		f.cache = cache.NewNopCache()
		f.cacheManager = cache.NewCacheManager(f.cache, f.logger)
		return nil
	}

	client, err := redisclient.NewClient(ctx, redisclient.Options{
		Addr:     f.config.Redis.Addr,
		Password: f.config.Redis.Password,
		DB:       f.config.Redis.DB,
	}, 5*time.Second)
	if err != nil {
		return err
	}
	f.logger.Info("Connected to Redis", logger.Fields{"addr": f.config.Redis.Addr})

	f.redisClient = client
	f.cache = cache.NewBreakerCache(
		cache.NewRedisCache(client, f.logger, cachePrefix),
		circuitbreaker.Settings{Name: "redis", FailureThreshold: 5, OpenTimeout: 30 * time.Second},
		f.logger,
	)
	f.cacheManager = cache.NewCacheManager(f.cache, f.logger)
	return nil
}

func (f *AppFactory) initPublisher() error {
	if f.config.NATS.URL == "" {
		f.publisher = messaging.NewNopPublisher()
		return nil
	}

	publisher, err := messaging.NewNATSPublisher(f.config.NATS.URL, f.logger)
	if err != nil {
		return err
	}
	f.publisher = publisher
	return nil
}

func (f *AppFactory) initRepositories() {
	var users domain.UserRepository
	if f.store != nil {
		users = f.store.Users()
		f.categoryRepository = f.store.Categories()
		f.blogRepository = f.store.Blogs()
		f.auditLogRepository = f.store.AuditLogs()
	} else {
		users = repository.NewUserRepository(f.cm, f.logger)
		f.categoryRepository = repository.NewCategoryRepository(f.cm, f.logger)
		f.blogRepository = repository.NewBlogRepository(f.cm, f.logger)
		f.auditLogRepository = repository.NewAuditLogRepository(f.cm, f.logger)
	}

	f.userRepository = repository.NewCachedUserRepository(users, f.cacheManager, f.config.Redis.TTL)
}

func (f *AppFactory) initServices() {
	f.auditLogService = service.NewAuditLogService(f.auditLogRepository, f.logger)

	f.userService = service.NewUserService(f.userRepository, f.auditLogService, f.publisher, f.logger)
	f.categoryService = service.NewCategoryService(
		f.userRepository,
		f.categoryRepository,
		f.auditLogService,
		f.publisher,
		f.logger,
	)
	f.blogService = service.NewBlogService(
		f.userRepository,
		f.categoryRepository,
		f.blogRepository,
		f.auditLogService,
		f.publisher,
		f.logger,
	)
}

func (f *AppFactory) initHTTP() {
	if f.config.Auth.Enabled {
		f.tokenManager = security.NewTokenManager(f.config.Auth.Secret, f.config.Auth.Expiration)
	}
	if f.config.RateLimit.RPS > 0 {
		f.rateLimiter = middleware.NewRateLimiter(f.config.RateLimit.RPS, f.config.RateLimit.Burst)
	}

	var checkers []api.HealthChecker
	if f.cm != nil {
		checkers = append(checkers, api.CheckFunc{Service: "database", Ping: f.cm.Ping, Stats: f.cm.GetStats})
	}
	if f.redisClient != nil {
		checkers = append(checkers, api.CheckFunc{Service: "cache", Ping: f.cache.Ping})
	}
	f.healthHandler = api.NewHealthHandler(f.logger, checkers...)
}

// Close releases every connection the factory opened, newest first.
func (f *AppFactory) Close(ctx context.Context) error {
	var errs []error

	if f.publisher != nil {
		errs = append(errs, f.publisher.Close())
	}
	if f.redisClient != nil {
		errs = append(errs, f.redisClient.Close())
	}
	if f.cm != nil {
		errs = append(errs, f.cm.Close(ctx))
	}

	return errors.Join(errs...)
}

func (f *AppFactory) GetLogger() logger.Logger {
	return f.logger
}

func (f *AppFactory) GetConfig() *config.Config {
	return f.config
}

// GetConnectionManager returns nil when the memory driver is selected.
func (f *AppFactory) GetConnectionManager() *database.ConnectionManager {
	return f.cm
}

func (f *AppFactory) GetRedisClient() *redis.Client {
	return f.redisClient
}

func (f *AppFactory) GetCache() cache.Cache {
	return f.cache
}

func (f *AppFactory) GetCacheManager() cache.CacheStrategy {
	return f.cacheManager
}

func (f *AppFactory) GetPublisher() domain.EventPublisher {
	return f.publisher
}

func (f *AppFactory) GetUserRepository() domain.UserRepository {
	return f.userRepository
}

func (f *AppFactory) GetCategoryRepository() domain.CategoryRepository {
	return f.categoryRepository
}

func (f *AppFactory) GetBlogRepository() domain.BlogRepository {
	return f.blogRepository
}

func (f *AppFactory) GetAuditLogRepository() domain.AuditLogRepository {
	return f.auditLogRepository
}

func (f *AppFactory) GetUserService() domain.UserService {
	return f.userService
}

func (f *AppFactory) GetCategoryService() domain.CategoryService {
	return f.categoryService
}

func (f *AppFactory) GetBlogService() domain.BlogService {
	return f.blogService
}

func (f *AppFactory) GetAuditLogService() domain.AuditLogService {
	return f.auditLogService
}

func (f *AppFactory) GetTokenManager() *security.TokenManager {
	return f.tokenManager
}

func (f *AppFactory) GetRateLimiter() *middleware.RateLimiter {
	return f.rateLimiter
}

func (f *AppFactory) GetHealthHandler() *api.HealthHandler {
	return f.healthHandler
}
