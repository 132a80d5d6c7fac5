package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/procureops/procurement-portal/internal"
	"github.com/procureops/procurement-portal/internal/auth"
	authPostgres "github.com/procureops/procurement-portal/internal/auth/postgres"
	"github.com/procureops/procurement-portal/internal/committee"
	committeePostgres "github.com/procureops/procurement-portal/internal/committee/postgres"
	"github.com/procureops/procurement-portal/internal/directory"
	"github.com/procureops/procurement-portal/internal/plan"
	planPostgres "github.com/procureops/procurement-portal/internal/plan/postgres"
	"github.com/procureops/procurement-portal/internal/storage"
	"github.com/procureops/procurement-portal/internal/transport/rest"
	"github.com/procureops/procurement-portal/internal/transport/swagger"
	"github.com/procureops/procurement-portal/internal/user"
	userPostgres "github.com/procureops/procurement-portal/internal/user/postgres"
	"github.com/procureops/procurement-portal/pkg/logger"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	if err := swagger.ValidateSpec(context.Background(), "./api/openapi.yml"); err != nil {
		return nil, err
	}

	letterStore, err := storage.NewDiskLetterStore(config.Storage.LettersDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize letter storage: %w", err)
	}

	// Auth
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authRepo := authPostgres.NewRepository(gormDB)
	authService := auth.NewService(authRepo, tokenGen, config.Security.BCryptCost)
	authHandler := auth.NewHandler(authService)

	// Employee directory
	directoryClient := directory.NewClient(directory.Config{
		BaseURL:       config.Directory.BaseURL,
		APIKey:        config.Directory.APIKey,
		LookupTimeout: config.Directory.LookupTimeout,
		CacheTTL:      config.Directory.CacheTTL,
		MinQueryLen:   config.Directory.MinQueryLen,
	}, lg)
	directoryHandler := directory.NewHandler(directoryClient)

	// Procurement plans
	planRepo := planPostgres.NewPlanRepository(gormDB)
	planService := plan.NewService(planRepo, lg)
	planHandler := plan.NewHandler(planService)

	// Committees
	committeeRepo := committeePostgres.NewCommitteeRepository(gormDB)
	committeeService := committee.NewService(
		committeeRepo,
		planService,
		directoryClient,
		letterStore,
		config.Committee.DeadlineDaysOrDefault(),
		lg,
	)
	committeeHandler := committee.NewHandler(committeeService, config.Storage.MaxUploadBytes)

	// Users
	userRepo := userPostgres.NewUserRepository(gormDB)
	userService := user.NewService(userRepo, authService, lg)
	userHandler := user.NewHandler(userService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, config.Storage.LettersDir, config.Server.AllowedOrigins,
		authHandler, userHandler, committeeHandler, planHandler, directoryHandler, lg)

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Router: router,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
