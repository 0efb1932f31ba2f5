package user

import (
	"context"
	"log/slog"

	"github.com/autotracker/tracker-admin/internal/listquery"
)

// Service handles user business logic
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, spec listquery.Spec) (listquery.Page[User], error) {
	page, err := s.repo.List(ctx, spec)
	if err != nil {
		s.logger.Error("failed to list users", "error", err, "sort_field", spec.SortField)
		return listquery.Page[User]{}, err
	}
	return page, nil
}

func (s *Service) ListWithObjects(ctx context.Context, spec listquery.Spec) (listquery.Page[User], error) {
	page, err := s.repo.ListWithObjects(ctx, spec)
	if err != nil {
		s.logger.Error("failed to list users with objects", "error", err, "sort_field", spec.SortField)
		return listquery.Page[User]{}, err
	}
	return page, nil
}

func (s *Service) Get(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("user validation failed", "error", err)
		return nil, err
	}

	u := dto.ToModel()
	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.Error("failed to create user", "error", err, "user_id", u.UserID)
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.UserID)
	return u, nil
}

// Update applies a partial update and returns the fresh row with its
// objects, mirroring the legacy update-then-reload behavior.
func (s *Service) Update(ctx context.Context, userID string, dto UpdateUserDTO) (*User, error) {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	updates := dto.ToUpdates()
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, userID, updates); err != nil {
			s.logger.Error("failed to update user", "error", err, "user_id", userID)
			return nil, err
		}
	}

	return s.repo.GetByID(ctx, userID)
}

// Delete removes the user and reports the number of rows deleted. A miss is
// not an error: the legacy endpoint answers {deletedCount: 0}.
func (s *Service) Delete(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.Delete(ctx, userID)
	if err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", userID)
		return 0, err
	}

	s.logger.Info("user deleted", "user_id", userID, "deleted_count", count)
	return count, nil
}
