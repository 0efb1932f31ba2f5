package object

import (
	"context"
	"log/slog"

	"github.com/autotracker/tracker-admin/internal/listquery"
)

// Service handles tracked object business logic
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, spec listquery.Spec) (listquery.Page[TrackedObject], error) {
	page, err := s.repo.List(ctx, spec)
	if err != nil {
		s.logger.Error("failed to list objects", "error", err, "sort_field", spec.SortField)
		return listquery.Page[TrackedObject]{}, err
	}
	return page, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string, spec listquery.Spec) (listquery.Page[TrackedObject], error) {
	page, err := s.repo.ListByUser(ctx, userID, spec)
	if err != nil {
		s.logger.Error("failed to list objects by user", "error", err, "user_id", userID)
		return listquery.Page[TrackedObject]{}, err
	}
	return page, nil
}

func (s *Service) GetByIMEI(ctx context.Context, imei string) (*TrackedObject, error) {
	obj, err := s.repo.GetByIMEI(ctx, imei)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (s *Service) Create(ctx context.Context, dto CreateObjectDTO) (*TrackedObject, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("object validation failed", "error", err)
		return nil, err
	}

	obj := dto.ToModel()
	if err := s.repo.Create(ctx, obj); err != nil {
		s.logger.Error("failed to create object", "error", err, "object_id", obj.ObjectID)
		return nil, err
	}

	s.logger.Info("object created", "object_id", obj.ObjectID, "imei", obj.IMEI)
	return obj, nil
}

// Update applies a partial update addressed by IMEI and returns the fresh
// row. The IMEI itself may change, so the reload uses the updated value.
func (s *Service) Update(ctx context.Context, imei string, dto UpdateObjectDTO) (*TrackedObject, error) {
	if _, err := s.repo.GetByIMEI(ctx, imei); err != nil {
		return nil, err
	}

	updates := dto.ToUpdates()
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, imei, updates); err != nil {
			s.logger.Error("failed to update object", "error", err, "imei", imei)
			return nil, err
		}
	}

	reloadIMEI := imei
	if dto.IMEI != nil {
		reloadIMEI = *dto.IMEI
	}
	return s.repo.GetByIMEI(ctx, reloadIMEI)
}

// Delete removes the object addressed by IMEI and reports the number of rows
// deleted. A miss is not an error: the endpoint answers {deletedCount: 0}.
func (s *Service) Delete(ctx context.Context, imei string) (int64, error) {
	count, err := s.repo.Delete(ctx, imei)
	if err != nil {
		s.logger.Error("failed to delete object", "error", err, "imei", imei)
		return 0, err
	}

	s.logger.Info("object deleted", "imei", imei, "deleted_count", count)
	return count, nil
}
