package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/autotracker/tracker-admin/internal"
	"github.com/autotracker/tracker-admin/internal/core/events"
	"github.com/autotracker/tracker-admin/internal/importer"
	"github.com/autotracker/tracker-admin/internal/object"
	objectpg "github.com/autotracker/tracker-admin/internal/object/postgres"
	"github.com/autotracker/tracker-admin/internal/scraper"
	"github.com/autotracker/tracker-admin/internal/transport"
	"github.com/autotracker/tracker-admin/internal/transport/rest"
	"github.com/autotracker/tracker-admin/internal/user"
	userpg "github.com/autotracker/tracker-admin/internal/user/postgres"
	"github.com/autotracker/tracker-admin/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
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
	Config        *internal.Config
	DB            *sqlx.DB
	GormDB        *gorm.DB
	Router        *chi.Mux
	UserHandler   *user.Handler
	ObjectHandler *object.Handler
	ImportHandler *importer.Handler
	Logger        *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.Config.Server.AllowedOrigins,
		deps.UserHandler,
		deps.ObjectHandler,
		deps.ImportHandler,
		deps.Logger,
	)

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
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
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
	log := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := openGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	base := transport.NewBaseHandler(log)

	userRepo := userpg.NewUserRepository(gormDB)
	userService := user.NewService(userRepo, log)
	userHandler := user.NewHandler(base, userService)

	objectRepo := objectpg.NewObjectRepository(gormDB)
	objectService := object.NewService(objectRepo, log)
	objectHandler := object.NewHandler(base, objectService)

	bus := events.NewBus(log)
	bus.Subscribe(importer.EventImportCompleted, func(ctx context.Context, ev events.Event) error {
		log.Info("import completed", "event_id", ev.ID, "summary", ev.Payload)
		return nil
	})

	scrapeClient := scraper.NewClient(config.Scraper, log)
	coordinator := importer.NewCoordinator(userRepo, objectRepo, scrapeClient, config.Importer.Workers, log)
	importService := importer.NewService(
		&importer.FileSource{Path: config.Importer.SourcePath},
		coordinator,
		bus,
		log,
	)
	importHandler := importer.NewHandler(base, importService)

	return &Dependencies{
		Config:        config,
		Logger:        log,
		DB:            db,
		GormDB:        gormDB,
		Router:        chi.NewRouter(),
		UserHandler:   userHandler,
		ObjectHandler: objectHandler,
		ImportHandler: importHandler,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, dataSource(cfg))
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

// dataSource appends the configured statement timeout to the DSN so every
// pooled connection carries it.
func dataSource(cfg internal.DatabaseConfig) string {
	source := cfg.Source
	if cfg.StatementTimeout <= 0 || strings.Contains(source, "statement_timeout") {
		return source
	}

	sep := "?"
	if strings.Contains(source, "?") {
		sep = "&"
	}
	options := fmt.Sprintf("-c statement_timeout=%d", cfg.StatementTimeout.Milliseconds())
	return source + sep + "options=" + url.QueryEscape(options)
}

// openGorm layers the ORM over the already pooled pgx connection.
// TranslateError maps driver unique violations onto gorm.ErrDuplicatedKey,
// which the repositories depend on.
func openGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
	})
}
