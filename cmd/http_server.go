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

	"github.com/rupeedesk/cbs-admin/internal"
	"github.com/rupeedesk/cbs-admin/internal/alert"
	alertpg "github.com/rupeedesk/cbs-admin/internal/alert/postgres"
	"github.com/rupeedesk/cbs-admin/internal/approval"
	"github.com/rupeedesk/cbs-admin/internal/auth"
	authpg "github.com/rupeedesk/cbs-admin/internal/auth/postgres"
	"github.com/rupeedesk/cbs-admin/internal/branch"
	branchpg "github.com/rupeedesk/cbs-admin/internal/branch/postgres"
	"github.com/rupeedesk/cbs-admin/internal/core/events"
	"github.com/rupeedesk/cbs-admin/internal/teller"
	"github.com/rupeedesk/cbs-admin/internal/transport/middleware"
	"github.com/rupeedesk/cbs-admin/internal/transport/rest"
	"github.com/rupeedesk/cbs-admin/internal/user"
	userpg "github.com/rupeedesk/cbs-admin/internal/user/postgres"
	"github.com/rupeedesk/cbs-admin/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
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
	GormDB *gorm.DB
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger

	AuthHandler     *auth.Handler
	UserHandler     *user.Handler
	BranchHandler   *branch.Handler
	AlertHandler    *alert.Handler
	ApprovalHandler *approval.Handler
	TellerHandler   *teller.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
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
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	deps.Router.Use(middleware.RequestID)
	deps.Router.Use(middleware.LoggingMiddleware(deps.Logger))

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.AuthHandler,
		deps.UserHandler,
		deps.BranchHandler,
		deps.AlertHandler,
		deps.ApprovalHandler,
		deps.TellerHandler,
		deps.Logger,
	)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Format, config.Logging.Level)

	gormDB, sqlDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	authService := auth.NewService(authpg.NewUserDirectory(gormDB), tokenGen)
	authHandler := auth.NewHandler(authService)

	eventBus := events.NewEventBus(logger.L())
	registerAuditHandlers(eventBus)

	branchService := branch.NewService(branchpg.NewBranchRepository(gormDB), eventBus)
	branchHandler := branch.NewHandler(branchService)

	userService := user.NewService(
		userpg.NewUserRepository(gormDB),
		&branchDirectoryAdapter{branches: branchService},
		eventBus,
		config.Security.BCryptCost,
	)
	userHandler := user.NewHandler(userService)

	alertService := alert.NewService(alertpg.NewAlertRepository(gormDB))
	alertHandler := alert.NewHandler(alertService)

	return &Dependencies{
		Config: config,
		Logger: logger.L(),
		GormDB: gormDB,
		DB:     sqlDB,
		Router: chi.NewRouter(),

		AuthHandler:     authHandler,
		UserHandler:     userHandler,
		BranchHandler:   branchHandler,
		AlertHandler:    alertHandler,
		ApprovalHandler: approval.NewHandler(),
		TellerHandler:   teller.NewHandler(),
	}, nil
}

// registerAuditHandlers logs every directory mutation as a structured audit
// entry.
func registerAuditHandlers(bus *events.EventBus) {
	audit := func(ctx context.Context, event events.Event) error {
		logger.L().Info("audit",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}

	bus.Subscribe(events.EventTypeUserCreated, audit)
	bus.Subscribe(events.EventTypeUserLockChanged, audit)
	bus.Subscribe(events.EventTypeBranchDeleted, audit)
}

// branchDirectoryAdapter exposes the branch service to the user service
// without the user package depending on the branch package.
type branchDirectoryAdapter struct {
	branches *branch.Service
}

func (a *branchDirectoryAdapter) GetBranch(code string) (*user.BranchInfo, error) {
	b, err := a.branches.GetByCode(code)
	if err != nil {
		return nil, err
	}
	return &user.BranchInfo{Name: b.Name, Code: b.Code}, nil
}

// initDB opens the gorm connection for the configured driver and wraps the
// underlying *sql.DB in sqlx for the health probe and raw queries.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, *sqlx.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Source)
	default:
		dialector = postgres.Open(cfg.Source)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to access db pool: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close pool on failure
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return gormDB, sqlx.NewDb(sqlDB, cfg.Driver), nil
}
