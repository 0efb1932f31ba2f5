package user

import object "github.com/autotracker/tracker-admin/internal/core/datamodel/object"

// User is one tenant account in the tracking panel. The primary key is
// assigned by the legacy system, never generated here. Date-ish columns stay
// strings on purpose: the legacy grid emits free-form values ("No expiry",
// "-") that must round-trip untouched.
type User struct {
	UserID           string                 `json:"userId" gorm:"column:user_id;primaryKey"`
	UserName         string                 `json:"userName" gorm:"column:user_name"`
	UserEmail        string                 `json:"userEmail" gorm:"column:user_email"`
	Active           bool                   `json:"active" gorm:"column:active"`
	ExpiryDate       string                 `json:"expiryDate" gorm:"column:expiry_date"`
	Privileges       string                 `json:"privileges" gorm:"column:privileges"`
	APIAccess        bool                   `json:"apiAccess" gorm:"column:api_access"`
	RegistrationDate string                 `json:"registrationDate" gorm:"column:registration_date"`
	LastLogin        string                 `json:"lastLogin" gorm:"column:last_login"`
	IPAddress        string                 `json:"ipAddress" gorm:"column:ip_address"`
	SubAccounts      int                    `json:"subAccounts" gorm:"column:sub_accounts"`
	ObjectCount      *int64                 `json:"objectCount" gorm:"column:object_count"`
	Email            int                    `json:"email" gorm:"column:email"`
	SMS              int                    `json:"sms" gorm:"column:sms"`
	Webhook          int                    `json:"webhook" gorm:"column:webhook"`
	API              int                    `json:"api" gorm:"column:api"`
	Objects          []object.TrackedObject `json:"objects,omitempty" gorm:"foreignKey:UserID;references:UserID"`
}

func (User) TableName() string {
	return "users"
}
