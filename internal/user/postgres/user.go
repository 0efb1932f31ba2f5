package postgres

import (
	"context"
	"errors"
	"fmt"

	userdm "github.com/autotracker/tracker-admin/internal/core/datamodel/user"
	"github.com/autotracker/tracker-admin/internal/listquery"
	"github.com/autotracker/tracker-admin/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository implements the user.Repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context, spec listquery.Spec) (listquery.Page[userdm.User], error) {
	return listquery.Find[userdm.User](r.db.WithContext(ctx), spec, user.Columns)
}

func (r *UserRepository) ListWithObjects(ctx context.Context, spec listquery.Spec) (listquery.Page[userdm.User], error) {
	page, err := listquery.Find[userdm.User](r.db.WithContext(ctx), spec, user.ColumnsWithObjects,
		func(q *gorm.DB) *gorm.DB { return q.Preload("Objects") })
	if err != nil {
		return page, err
	}

	for i := range page.Data {
		stripOwner(&page.Data[i])
	}
	return page, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*userdm.User, error) {
	var u userdm.User
	err := r.db.WithContext(ctx).
		Preload("Objects").
		First(&u, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	stripOwner(&u)
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *userdm.User) error {
	err := r.db.WithContext(ctx).Omit("Objects").Create(u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	err := r.db.WithContext(ctx).
		Model(&userdm.User{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&userdm.User{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete user: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Upsert inserts the user or replaces every column of an existing row with
// the same userId. Import relies on this being idempotent.
func (r *UserRepository) Upsert(ctx context.Context, u *userdm.User) error {
	err := r.db.WithContext(ctx).
		Omit("Objects").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(u).Error
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// stripOwner blanks the redundant FK on nested objects so responses keep the
// legacy panel's restricted projection.
func stripOwner(u *userdm.User) {
	for i := range u.Objects {
		u.Objects[i].UserID = ""
	}
}
