package user

import (
	"context"
	"errors"

	userdm "github.com/autotracker/tracker-admin/internal/core/datamodel/user"
	"github.com/autotracker/tracker-admin/internal/listquery"
)

type User = userdm.User

// Domain errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// Repository defines the data access methods for users
type Repository interface {
	List(ctx context.Context, spec listquery.Spec) (listquery.Page[User], error)
	ListWithObjects(ctx context.Context, spec listquery.Spec) (listquery.Page[User], error)
	GetByID(ctx context.Context, userID string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	Delete(ctx context.Context, userID string) (int64, error)
	Upsert(ctx context.Context, user *User) error
}

// Columns is the closed sort/filter enumeration for the users grid. Keys are
// the camelCase request names the frontend sends, lowercased.
var Columns = listquery.Columns{
	Fields: map[string]string{
		"userid":           "user_id",
		"username":         "user_name",
		"useremail":        "user_email",
		"active":           "active",
		"expirydate":       "expiry_date",
		"privileges":       "privileges",
		"apiaccess":        "api_access",
		"registrationdate": "registration_date",
		"lastlogin":        "last_login",
		"ipaddress":        "ip_address",
		"subaccounts":      "sub_accounts",
		"objectcount":      "object_count",
		"email":            "email",
		"sms":              "sms",
		"webhook":          "webhook",
		"api":              "api",
	},
	Searchable: []string{"user_id", "user_name", "user_email", "privileges", "ip_address"},
}

// ColumnsWithObjects narrows free-text search for the nested-objects
// listing, matching the legacy panel's behavior for that view.
var ColumnsWithObjects = listquery.Columns{
	Fields:     Columns.Fields,
	Searchable: []string{"user_name", "user_email", "privileges"},
}

var (
	ListDefaults = listquery.Defaults{
		Limit:     200,
		SortField: "userId",
		SortOrder: listquery.OrderAsc,
	}
	ListAllDefaults = listquery.Defaults{
		Limit:     100,
		SortField: "userId",
		SortOrder: listquery.OrderAsc,
	}
)
