package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/eduadmin/internal/app/controllers"
	appMigrations "github.com/yigit/eduadmin/internal/app/migrations"
	"github.com/yigit/eduadmin/internal/app/models/dto"
	appRepos "github.com/yigit/eduadmin/internal/app/repositories"
	"github.com/yigit/eduadmin/internal/app/repositories/memory"
	appRoutes "github.com/yigit/eduadmin/internal/app/routes"
	appServices "github.com/yigit/eduadmin/internal/app/services"
	"github.com/yigit/eduadmin/internal/config"
	"github.com/yigit/eduadmin/internal/db"
	appMiddleware "github.com/yigit/eduadmin/internal/middleware"
	pkgAuth "github.com/yigit/eduadmin/internal/pkg/auth"
	"github.com/yigit/eduadmin/internal/pkg/filestorage"
	"github.com/yigit/eduadmin/internal/pkg/logger"
	"github.com/yigit/eduadmin/internal/pkg/validation"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Stores         appServices.Stores
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	AuthLimiter    *appMiddleware.RateLimiter
	JWTService     *pkgAuth.JWTService
	FileStorage    filestorage.FileStorage
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.ConfigFromStrings(cfg.Logging.Level, cfg.Logging.Format))

	lgr := logger.Get()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStores opens the configured storage driver and returns the stores with a function releasing them.
// The postgres driver runs pending migrations first.
func SetupStores(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appServices.Stores, func(), error) {
	var (
		stores  appServices.Stores
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Database.Driver {
	case config.DriverMemory:
		lgr.Warn().Msg("Using the in-memory store; data is lost on restart")
		mem := memory.New()
		stores = appServices.Stores{
			Tx:          mem,
			Users:       memory.NewUserRepository(mem),
			Departments: memory.NewDepartmentRepository(mem),
			Courses:     memory.NewCourseRepository(mem),
			Instructors: memory.NewInstructorRepository(mem),
			Enrollments: memory.NewEnrollmentRepository(mem),
			ResetTokens: memory.NewResetTokenStore(mem),
			Ping:        mem.Ping,
		}

	default:
		database, err := SetupDatabase(ctx, cfg, lgr)
		if err != nil {
			return stores, nil, err
		}
		closers = append(closers, database.Close)

		repos := appRepos.NewRepositories(database)
		stores = appServices.Stores{
			Tx:          database,
			Users:       repos.UserRepository,
			Departments: repos.DepartmentRepository,
			Courses:     repos.CourseRepository,
			Instructors: repos.InstructorRepository,
			Enrollments: repos.EnrollmentRepository,
			ResetTokens: repos.ResetTokenRepository,
			Ping:        database.Ping,
		}
	}

	if cfg.Auth.ResetTokenStore == config.TokenStoreRedis {
		client, err := appRepos.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			closeAll()
			return stores, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		closers = append(closers, func() {
			if err := client.Close(); err != nil {
				lgr.Warn().Err(err).Msg("Failed to close redis client")
			}
		})
		stores.ResetTokens = appRepos.NewRedisResetTokenStore(client)
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Reset tokens stored in redis")
	}

	return stores, closeAll, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	if err := RunMigrations(ctx, cfg, database, lgr); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// RunMigrations applies the SQL files of the migrations directory that have not run yet
func RunMigrations(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Str("dir", cfg.Database.MigrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, logger.Component("migrator"))
	if err := migrator.MigrateFromDirectory(ctx, cfg.Database.MigrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// SetupFileStorage builds the configured profile photo backend
func SetupFileStorage(cfg *config.Config) (filestorage.FileStorage, error) {
	if cfg.Storage.Driver == config.StorageS3 {
		return filestorage.NewS3Storage(filestorage.S3Config{
			Bucket:        cfg.Storage.Bucket,
			Region:        cfg.Storage.Region,
			Endpoint:      cfg.Storage.Endpoint,
			AccessKey:     cfg.Storage.AccessKey,
			SecretKey:     cfg.Storage.SecretKey,
			UsePathStyle:  cfg.Storage.UsePathStyle,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
		}), nil
	}

	// Saved URLs carry the /uploads prefix served by SetupRouter
	storage, err := filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Server.PublicURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	return storage, nil
}

// BuildDependencies initializes services, middleware and controllers over stores.
func BuildDependencies(cfg *config.Config, stores appServices.Stores, storage filestorage.FileStorage, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{
		Stores:      stores,
		FileStorage: storage,
		Logger:      lgr,
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: config.MustDuration(cfg.JWT.AccessTokenExpiration),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Services = appServices.NewServices(stores, appServices.Options{
		JWTService:     deps.JWTService,
		Storage:        storage,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		ResetTokenTTL:  config.MustDuration(cfg.Auth.ResetTokenTTL),
	})

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	if cfg.Auth.RateLimitRPS > 0 {
		deps.AuthLimiter = appMiddleware.NewRateLimiter(cfg.Auth.RateLimitRPS, cfg.Auth.RateLimitBurst, 3*time.Minute)
	}

	deps.Controllers = appRoutes.Controllers{
		Auth:        appControllers.NewAuthController(deps.Services.Auth),
		Departments: appControllers.NewDepartmentController(deps.Services.Departments),
		Courses:     appControllers.NewCourseController(deps.Services.Courses),
		Instructors: appControllers.NewInstructorController(deps.Services.Instructors),
		Students:    appControllers.NewStudentController(deps.Services.Students),
		Enrollments: appControllers.NewEnrollmentController(deps.Services.Enrollments),
		Analysis:    appControllers.NewAnalysisController(deps.Services.Analysis, stores.Ping),
	}

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.Register(); err != nil {
		lgr.Error().Err(err).Msg("Failed to register custom validation rules")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(logger.Component("http")))
	router.Use(appMiddleware.CORSMiddleware())
	router.MaxMultipartMemory = cfg.Server.MaxUploadBytes

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.AuthLimiter)

	if cfg.Storage.Driver == config.StorageLocal {
		router.Static("/uploads", cfg.Server.StoragePath)
		lgr.Info().Str("path", cfg.Server.StoragePath).Msg("Static file serving configured for uploads directory")
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound, "Route not found", c.Request.URL.Path))
	})

	return router
}
