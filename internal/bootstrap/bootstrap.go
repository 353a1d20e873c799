package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/hogwarts/internal/app/controllers"
	"github.com/yigit/hogwarts/internal/app/mappers"
	appMigrations "github.com/yigit/hogwarts/internal/app/migrations"
	appRepos "github.com/yigit/hogwarts/internal/app/repositories"
	appRoutes "github.com/yigit/hogwarts/internal/app/routes"
	appServices "github.com/yigit/hogwarts/internal/app/services"
	"github.com/yigit/hogwarts/internal/config"
	"github.com/yigit/hogwarts/internal/db"
	appMiddleware "github.com/yigit/hogwarts/internal/middleware"
	"github.com/yigit/hogwarts/internal/pkg/filestorage"
	"github.com/yigit/hogwarts/internal/pkg/helpers"
	"github.com/yigit/hogwarts/internal/pkg/lock"
	"github.com/yigit/hogwarts/internal/pkg/logger"
	"github.com/yigit/hogwarts/internal/pkg/validation"
	"github.com/yigit/hogwarts/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	FacultyService    appServices.FacultyService
	StudentService    appServices.StudentService
	AvatarService     appServices.AvatarService
	InfoService       appServices.InfoService
	FacultyController *appControllers.FacultyController
	StudentController *appControllers.StudentController
	AvatarController  *appControllers.AvatarController
	InfoController    *appControllers.InfoController
	Repos             *appRepos.Repositories
	Mappers           *mappers.Mappers
	FileStorage       *filestorage.LocalStorage
	Locker            lock.Locker
	Redis             *redis.Client // nil unless redis.addr is set
	Logger            zerolog.Logger
}

// Close releases resources owned by the dependency graph.
func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error().Err(err).Msg("Failed to close redis client")
		}
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrationsDir := cfg.Database.MigrationsPath
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := appMigrations.NewMigrator(dbPool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Database.Seed {
		if err := seed.CreateDefaultData(ctx, appRepos.NewFacultyRepository(dbPool), lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// newLocker returns the Redis lock when redis.addr is set, otherwise the
// in-process keyed mutex.
func newLocker(cfg *config.Config, lgr zerolog.Logger) (lock.Locker, *redis.Client, error) {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("Redis not configured, avatar uploads are serialized in-process")
		return lock.NewKeyedMutex(), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Redis.Addr, err)
	}

	ttl := helpers.ParseDuration(cfg.Redis.LockTTL, 30*time.Second)
	lgr.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", ttl).Msg("Avatar uploads are serialized through redis")
	return lock.NewRedisLocker(client, ttl), client, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool appRepos.DBTX, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	port, err := strconv.Atoi(cfg.Server.Port)
	if err != nil {
		return nil, fmt.Errorf("server port %q is not a number: %w", cfg.Server.Port, err)
	}

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.Mappers = mappers.NewMappers(cfg.BaseURL())

	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.AvatarsPath)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Locker, deps.Redis, err = newLocker(cfg, lgr)
	if err != nil {
		return nil, err
	}

	deps.AvatarService = appServices.NewAvatarService(
		deps.Repos.AvatarRepository,
		deps.FileStorage,
		deps.Locker,
		deps.Mappers.Avatar,
		cfg.Storage.PreviewWidth,
	)
	deps.FacultyService = appServices.NewFacultyService(deps.Repos.FacultyRepository, deps.Repos.StudentRepository, deps.Mappers)
	deps.StudentService = appServices.NewStudentService(
		deps.Repos.StudentRepository,
		deps.Repos.FacultyRepository,
		deps.AvatarService,
		deps.Mappers,
		appServices.NewNamePrinter(helpers.ParseDuration(cfg.Demo.PrintDelay, 3*time.Second), nil),
	)
	deps.InfoService = appServices.NewInfoService(port)

	deps.FacultyController = appControllers.NewFacultyController(deps.FacultyService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.AvatarController = appControllers.NewAvatarController(deps.AvatarService)
	deps.InfoController = appControllers.NewInfoController(deps.InfoService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.Register(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), gin.Recovery())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router,
		deps.FacultyController,
		deps.StudentController,
		deps.AvatarController,
		deps.InfoController,
	)

	return router, nil
}
