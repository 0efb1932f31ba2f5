package importer

import (
	"context"
	"log/slog"

	"github.com/autotracker/tracker-admin/internal/core/events"
	"github.com/autotracker/tracker-admin/internal/scraper"
)

// EventImportCompleted is published after every finished import run.
const EventImportCompleted = "import.completed"

type Source interface {
	Load() ([]scraper.RawRow, error)
}

// Service ties the file source to the coordinator and announces completed
// runs on the event bus.
type Service struct {
	source      Source
	coordinator *Coordinator
	bus         *events.Bus
	logger      *slog.Logger
}

func NewService(source Source, coordinator *Coordinator, bus *events.Bus, logger *slog.Logger) *Service {
	return &Service{
		source:      source,
		coordinator: coordinator,
		bus:         bus,
		logger:      logger,
	}
}

func (s *Service) Run(ctx context.Context) (Summary, error) {
	rows, err := s.source.Load()
	if err != nil {
		s.logger.Error("failed to load import source", "error", err)
		return Summary{}, err
	}

	summary, err := s.coordinator.ImportAll(ctx, rows)
	if err != nil {
		s.logger.Error("import aborted", "error", err,
			"users_committed", summary.Users,
			"objects_committed", summary.Objects)
		return summary, err
	}

	if s.bus != nil {
		s.bus.Publish(context.WithoutCancel(ctx), events.New(EventImportCompleted, summary))
	}

	return summary, nil
}
