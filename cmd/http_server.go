package cmd

import (
	"context"
	"database/sql"
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
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/geodateam/team-presence/internal"
	"github.com/geodateam/team-presence/internal/attendance"
	attendancememory "github.com/geodateam/team-presence/internal/attendance/memory"
	attendancepostgres "github.com/geodateam/team-presence/internal/attendance/postgres"
	"github.com/geodateam/team-presence/internal/auth"
	"github.com/geodateam/team-presence/internal/expense"
	expensememory "github.com/geodateam/team-presence/internal/expense/memory"
	expensepostgres "github.com/geodateam/team-presence/internal/expense/postgres"
	"github.com/geodateam/team-presence/internal/filestore"
	"github.com/geodateam/team-presence/internal/location"
	locationmemory "github.com/geodateam/team-presence/internal/location/memory"
	locationpostgres "github.com/geodateam/team-presence/internal/location/postgres"
	"github.com/geodateam/team-presence/internal/notification"
	"github.com/geodateam/team-presence/internal/report"
	"github.com/geodateam/team-presence/internal/transport/rest"
	"github.com/geodateam/team-presence/internal/user"
	usermemory "github.com/geodateam/team-presence/internal/user/memory"
	userpostgres "github.com/geodateam/team-presence/internal/user/postgres"
	"github.com/geodateam/team-presence/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type repositories struct {
	users      user.Repository
	attendance attendance.Repository
	expenses   expense.Repository
	locations  location.Repository
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
	deps.Logger.Info("Starting HTTP server", "address", addr)

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
		deps.Logger.Info("Received signal, shutting down...", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if deps.DB != nil {
			if err := deps.DB.Close(); err != nil {
				deps.Logger.Error("Database close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Format, config.Logging.Level)
	log := logger.L()

	var (
		db    *sqlx.DB
		sqlDB *sql.DB
		repos *repositories
	)

	switch config.Database.Driver {
	case "memory":
		repos = newMemoryRepositories()
		log.Info("using in-memory repositories")
	default:
		db, err = initDB(config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		sqlDB = db.DB

		gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize orm: %w", err)
		}
		repos = newPostgresRepositories(gormDB)
	}

	files, err := newFileStore(config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}

	sender, err := newEmailSender(config.Email, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email sender: %w", err)
	}

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenTTL,
		config.Security.RefreshTokenTTL,
	)

	authService := auth.NewService(repos.users, tokenGen, config.Security.BCryptCost, log)
	attendanceService := attendance.NewService(repos.attendance, log)
	expenseService := expense.NewService(repos.expenses, repos.users, log)
	locationService := location.NewService(repos.locations, log)
	reportService := report.NewService(repos.users, repos.attendance, repos.expenses, sender, log)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(
		router,
		sqlDB,
		auth.NewHandler(authService),
		attendance.NewHandler(attendanceService),
		expense.NewHandler(expenseService, files),
		location.NewHandler(locationService),
		report.NewHandler(reportService),
		log,
	)

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: router,
		Logger: log,
	}, nil
}

func newMemoryRepositories() *repositories {
	return &repositories{
		users:      usermemory.NewUserRepository(),
		attendance: attendancememory.NewAttendanceRepository(),
		expenses:   expensememory.NewExpenseRepository(),
		locations:  locationmemory.NewLocationRepository(),
	}
}

func newPostgresRepositories(db *gorm.DB) *repositories {
	return &repositories{
		users:      userpostgres.NewUserRepository(db),
		attendance: attendancepostgres.NewAttendanceRepository(db),
		expenses:   expensepostgres.NewExpenseRepository(db),
		locations:  locationpostgres.NewLocationRepository(db),
	}
}

func newFileStore(cfg internal.StorageConfig) (filestore.Store, error) {
	if cfg.Driver == "s3" {
		return filestore.NewS3Store(context.Background(), cfg.S3Bucket, cfg.S3Prefix)
	}

	dir := cfg.UploadDir
	if dir == "" {
		dir = "uploads"
	}
	return filestore.NewDiskStore(dir)
}

func newEmailSender(cfg internal.EmailConfig, log *slog.Logger) (notification.EmailSender, error) {
	if cfg.Driver == "ses" {
		return notification.NewSESSender(context.Background(), cfg.FromAddress, log)
	}
	return notification.NewLogSender(log), nil
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
	if cfg.ConnMaxLifetime > 0 {
		dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
