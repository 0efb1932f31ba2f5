package postgres

import (
	"context"
	"errors"
	"fmt"

	objectdm "github.com/autotracker/tracker-admin/internal/core/datamodel/object"
	"github.com/autotracker/tracker-admin/internal/listquery"
	"github.com/autotracker/tracker-admin/internal/object"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ObjectRepository implements the object.Repository interface using GORM
type ObjectRepository struct {
	db *gorm.DB
}

func NewObjectRepository(db *gorm.DB) object.Repository {
	return &ObjectRepository{db: db}
}

func (r *ObjectRepository) List(ctx context.Context, spec listquery.Spec) (listquery.Page[objectdm.TrackedObject], error) {
	return listquery.Find[objectdm.TrackedObject](r.db.WithContext(ctx), spec, object.Columns)
}

func (r *ObjectRepository) ListByUser(ctx context.Context, userID string, spec listquery.Spec) (listquery.Page[objectdm.TrackedObject], error) {
	return listquery.Find[objectdm.TrackedObject](r.db.WithContext(ctx), spec, object.UserScopedColumns,
		func(q *gorm.DB) *gorm.DB { return q.Where("user_id = ?", userID) })
}

func (r *ObjectRepository) GetByIMEI(ctx context.Context, imei string) (*objectdm.TrackedObject, error) {
	var obj objectdm.TrackedObject
	err := r.db.WithContext(ctx).First(&obj, "imei = ?", imei).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, object.ErrObjectNotFound
		}
		return nil, fmt.Errorf("get object by imei: %w", err)
	}
	return &obj, nil
}

func (r *ObjectRepository) Create(ctx context.Context, obj *objectdm.TrackedObject) error {
	err := r.db.WithContext(ctx).Create(obj).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return object.ErrObjectExists
		}
		return fmt.Errorf("create object: %w", err)
	}
	return nil
}

func (r *ObjectRepository) Update(ctx context.Context, imei string, updates map[string]interface{}) error {
	err := r.db.WithContext(ctx).
		Model(&objectdm.TrackedObject{}).
		Where("imei = ?", imei).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("update object: %w", err)
	}
	return nil
}

func (r *ObjectRepository) Delete(ctx context.Context, imei string) (int64, error) {
	res := r.db.WithContext(ctx).Where("imei = ?", imei).Delete(&objectdm.TrackedObject{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete object: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// BulkUpsert inserts the batch in one statement, keyed on objectId. Existing
// rows only take the mutable tracker fields; ownership never moves between
// users on re-import.
func (r *ObjectRepository) BulkUpsert(ctx context.Context, objects []objectdm.TrackedObject) error {
	if len(objects) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "object_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "imei", "active", "expiry_date", "last_connection", "status",
			}),
		}).
		Create(&objects).Error
	if err != nil {
		return fmt.Errorf("bulk upsert objects: %w", err)
	}
	return nil
}
