package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"classlib-backend/internal/config"
	borrowerHandler "classlib-backend/internal/domains/borrower/handler"
	borrowerJob "classlib-backend/internal/domains/borrower/job"
	borrowerRepo "classlib-backend/internal/domains/borrower/repository"
	borrowerService "classlib-backend/internal/domains/borrower/service"
	circulationHandler "classlib-backend/internal/domains/circulation/handler"
	circulationRepo "classlib-backend/internal/domains/circulation/repository"
	circulationService "classlib-backend/internal/domains/circulation/service"
	importerHandler "classlib-backend/internal/domains/importer/handler"
	importerJob "classlib-backend/internal/domains/importer/job"
	importerRepo "classlib-backend/internal/domains/importer/repository"
	importerService "classlib-backend/internal/domains/importer/service"
	itemHandler "classlib-backend/internal/domains/item/handler"
	itemRepo "classlib-backend/internal/domains/item/repository"
	itemService "classlib-backend/internal/domains/item/service"
	infraCache "classlib-backend/internal/infrastructure/cache"
	"classlib-backend/internal/infrastructure/database"
	"classlib-backend/internal/infrastructure/queue"
	"classlib-backend/internal/infrastructure/storage"
	"classlib-backend/pkg/cache"
	"classlib-backend/pkg/clock"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application.
// Redis, the job queue and MinIO are optional: when one is down the
// features built on it degrade and the core lending flow keeps working.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config   *config.Config
	DB       *database.PostgresDB
	Redis    *infraCache.RedisClient // nil when unreachable
	Cache    cache.Cache             // nil when Redis is unreachable
	Enqueuer *queue.Enqueuer         // nil when Redis is unreachable
	Storage  *storage.MinIOStorage   // nil when disabled or unreachable
	Clock    clock.Clock

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	BorrowerRepo  borrowerRepo.RepositoryInterface
	ItemRepo      itemRepo.RepositoryInterface
	HistoryRepo   circulationRepo.HistoryRepository
	ImportRunRepo importerRepo.RunRepository

	// ========================================
	// SERVICE LAYER
	// ========================================
	Resolver           borrowerService.Resolver
	RosterService      borrowerService.RosterService
	ItemService        itemService.ServiceInterface
	CirculationService circulationService.ServiceInterface
	Reconciler         importerService.Reconciler
	ImportService      importerService.ServiceInterface

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================
	BorrowerHandler    *borrowerHandler.Handler
	ItemHandler        *itemHandler.Handler
	CirculationHandler *circulationHandler.Handler
	ImportHandler      *importerHandler.Handler

	// ========================================
	// JOB HANDLERS (worker)
	// ========================================
	RosterRefreshJob *borrowerJob.RosterRefreshHandler
	ImportProcessJob *importerJob.ImportProcessHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph.
//
// Thứ tự initialization:
// 1. Config
// 2. Infrastructure (DB, Redis, queue, MinIO)
// 3. Repositories
// 4. Services
// 5. Handlers
func NewContainer(ctx context.Context) (*Container, error) {
	log.Info().Msg("🔧 Initializing DI Container...")

	c := &Container{Clock: clock.Real{}}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("✅ Config loaded")

	// ========================================
	// STEP 2: INITIALIZE INFRASTRUCTURE
	// ========================================
	if err := c.initDatabase(ctx); err != nil {
		return nil, err
	}
	c.initRedis(ctx)
	c.initStorage(ctx)

	// ========================================
	// STEP 3-5: DOMAIN LAYERS
	// ========================================
	c.initRepositories()
	log.Info().Msg("✅ Repositories initialized")

	c.initServices()
	log.Info().Msg("✅ Services initialized")

	c.initHandlers()
	log.Info().Msg("✅ Handlers initialized")

	log.Info().Msg("🎉 DI Container initialized successfully")
	return c, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	log.Info().Msg("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Info().Msg("✅ Database connected")
	return nil
}

// initRedis wires the roster cache and the job queue. Both are non-critical.
func (c *Container) initRedis(ctx context.Context) {
	log.Info().Msg("🔴 Connecting to Redis...")

	client := infraCache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := client.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("⚠️  Redis connection failed (non-critical): roster cache and background jobs disabled")
		_ = client.Close()
		return
	}

	c.Redis = client
	c.Cache = infraCache.NewRedisCache(client)
	c.Enqueuer = queue.NewEnqueuer(c.Config.Redis, c.Config.Jobs)
	log.Info().Msg("✅ Redis connected")
}

func (c *Container) initStorage(ctx context.Context) {
	if !c.Config.MinIO.Enabled {
		log.Info().Msg("MinIO disabled: async imports unavailable")
		return
	}

	s, err := storage.NewMinIOStorage(ctx, c.Config.MinIO)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️  MinIO unavailable (non-critical): async imports disabled")
		return
	}

	c.Storage = s
	log.Info().Str("bucket", c.Config.MinIO.Bucket).Msg("✅ MinIO connected")
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.BorrowerRepo = borrowerRepo.NewRepository(pool)
	c.ItemRepo = itemRepo.NewRepository(pool)
	c.HistoryRepo = circulationRepo.NewHistoryRepository(pool)
	c.ImportRunRepo = importerRepo.NewRunRepository(pool)
}

func (c *Container) initServices() {
	tx := c.DB.TxManager()

	// typed nils must not leak into the optional interface parameters
	var (
		rosterEnqueuer borrowerService.RefreshEnqueuer
		runEnqueuer    importerService.RunEnqueuer
		objectStore    importerService.ObjectStore
	)
	if c.Enqueuer != nil {
		rosterEnqueuer = c.Enqueuer
		runEnqueuer = c.Enqueuer
	}
	if c.Storage != nil {
		objectStore = c.Storage
	}

	c.Resolver = borrowerService.NewResolver(c.BorrowerRepo)
	c.RosterService = borrowerService.NewRosterService(c.BorrowerRepo, c.Cache, rosterEnqueuer, c.Config.Jobs.RosterCacheTTL)
	c.ItemService = itemService.NewItemService(c.ItemRepo)
	c.CirculationService = circulationService.NewCirculationService(
		tx,
		c.Clock,
		c.Resolver,
		c.ItemRepo,
		c.HistoryRepo,
		c.RosterService,
	)
	c.Reconciler = importerService.NewReconciler(tx, c.Resolver, c.ItemRepo)
	c.ImportService = importerService.NewImportService(
		c.Reconciler,
		c.ImportRunRepo,
		objectStore,
		runEnqueuer,
		c.RosterService,
		c.Config.Import.MaxRows,
	)
}

func (c *Container) initHandlers() {
	c.BorrowerHandler = borrowerHandler.NewHandler(c.RosterService)
	c.ItemHandler = itemHandler.NewHandler(c.ItemService)
	c.CirculationHandler = circulationHandler.NewHandler(c.CirculationService)
	c.ImportHandler = importerHandler.NewHandler(c.ImportService, c.Config.Import.MaxUploadBytes)

	c.RosterRefreshJob = borrowerJob.NewRosterRefreshHandler(c.RosterService)
	c.ImportProcessJob = importerJob.NewImportProcessHandler(c.ImportService)
}

// HealthCheck reports the state of every dependency. Only the database is
// required for the service to be healthy.
func (c *Container) HealthCheck(ctx context.Context) (map[string]string, bool) {
	status := map[string]string{
		"database": "up",
		"redis":    "disabled",
		"storage":  "disabled",
	}
	healthy := true

	if err := c.DB.HealthCheck(ctx); err != nil {
		status["database"] = "down"
		healthy = false
	}
	if c.Redis != nil {
		status["redis"] = "up"
		if err := c.Redis.HealthCheck(ctx); err != nil {
			status["redis"] = "down"
		}
	}
	if c.Storage != nil {
		status["storage"] = "up"
		if err := c.Storage.HealthCheck(ctx); err != nil {
			status["storage"] = "down"
		}
	}

	return status, healthy
}

// Cleanup đóng tất cả connections.
func (c *Container) Cleanup() {
	log.Info().Msg("🧹 Cleaning up container resources...")

	if c.Enqueuer != nil {
		if err := c.Enqueuer.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to close queue client")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to close Redis")
		} else {
			log.Info().Msg("✅ Redis connections closed")
		}
	}

	if c.DB != nil {
		_ = c.DB.Close()
	}

	log.Info().Msg("✅ Container cleanup completed")
}
