package object

import (
	"context"
	"errors"

	objectdm "github.com/autotracker/tracker-admin/internal/core/datamodel/object"
	"github.com/autotracker/tracker-admin/internal/listquery"
)

type TrackedObject = objectdm.TrackedObject

// Domain errors
var (
	ErrObjectNotFound = errors.New("object not found")
	ErrObjectExists   = errors.New("object already exists")
)

// Repository defines the data access methods for tracked objects
type Repository interface {
	List(ctx context.Context, spec listquery.Spec) (listquery.Page[TrackedObject], error)
	ListByUser(ctx context.Context, userID string, spec listquery.Spec) (listquery.Page[TrackedObject], error)
	GetByIMEI(ctx context.Context, imei string) (*TrackedObject, error)
	Create(ctx context.Context, obj *TrackedObject) error
	Update(ctx context.Context, imei string, updates map[string]interface{}) error
	Delete(ctx context.Context, imei string) (int64, error)
	BulkUpsert(ctx context.Context, objects []TrackedObject) error
}

// Columns is the closed sort/filter enumeration for the objects grid.
var Columns = listquery.Columns{
	Fields: map[string]string{
		"objectid":       "object_id",
		"userid":         "user_id",
		"name":           "name",
		"imei":           "imei",
		"active":         "active",
		"expirydate":     "expiry_date",
		"lastconnection": "last_connection",
		"status":         "status",
	},
	Searchable: []string{"name", "imei", "user_id"},
}

// UserScopedColumns drops userId from search: within one user's listing the
// owner column is constant.
var UserScopedColumns = listquery.Columns{
	Fields:     Columns.Fields,
	Searchable: []string{"name", "imei"},
}

var ListDefaults = listquery.Defaults{
	Limit:     20,
	SortField: "name",
	SortOrder: listquery.OrderAsc,
}
