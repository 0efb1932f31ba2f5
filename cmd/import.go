package cmd

import (
	"context"
	"log"

	"github.com/autotracker/tracker-admin/internal/core/events"
	"github.com/autotracker/tracker-admin/internal/importer"
	objectpg "github.com/autotracker/tracker-admin/internal/object/postgres"
	"github.com/autotracker/tracker-admin/internal/scraper"
	userpg "github.com/autotracker/tracker-admin/internal/user/postgres"
	"github.com/autotracker/tracker-admin/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	importFile    string
	importWorkers int

	importCmd = &cobra.Command{
		Use:   "import",
		Short: "Run the legacy panel import once and exit",
		Long:  `Load the exported user grid, scrape each user's objects from the legacy panel and upsert everything into the database.`,
		RunE:  runImport,
	}
)

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "user grid export to import (defaults to importer.source_path)")
	importCmd.Flags().IntVarP(&importWorkers, "workers", "w", 0, "concurrent scrape workers (defaults to importer.workers)")
}

func runImport(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(".")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	lg := logger.L()

	db, err := initDB(cfg.Database)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}
	defer db.Close()

	gormDB, err := openGorm(db)
	if err != nil {
		log.Fatalf("failed to init orm: %v", err)
	}

	sourcePath := cfg.Importer.SourcePath
	if importFile != "" {
		sourcePath = importFile
	}
	workers := cfg.Importer.Workers
	if importWorkers > 0 {
		workers = importWorkers
	}

	coordinator := importer.NewCoordinator(
		userpg.NewUserRepository(gormDB),
		objectpg.NewObjectRepository(gormDB),
		scraper.NewClient(cfg.Scraper, lg),
		workers,
		lg,
	)
	service := importer.NewService(&importer.FileSource{Path: sourcePath}, coordinator, events.NewBus(lg), lg)

	summary, err := service.Run(context.Background())
	if err != nil {
		return err
	}

	lg.Info("import finished",
		"users", summary.Users,
		"objects", summary.Objects,
		"scrape_failures", summary.ScrapeFailures)
	return nil
}
