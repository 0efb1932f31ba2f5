package object

// TrackedObject is one device owned by a User. objectId and IMEI carry the
// same value when sourced from the legacy grid, but IMEI is independently
// unique because manual CRUD may diverge them.
type TrackedObject struct {
	ObjectID       string `json:"objectId" gorm:"column:object_id;primaryKey"`
	UserID         string `json:"userId,omitempty" gorm:"column:user_id;index"`
	Name           string `json:"name" gorm:"column:name"`
	IMEI           string `json:"IMEI" gorm:"column:imei;uniqueIndex"`
	Active         bool   `json:"active" gorm:"column:active"`
	ExpiryDate     string `json:"expiryDate" gorm:"column:expiry_date"`
	LastConnection string `json:"lastConnection" gorm:"column:last_connection"`
	Status         bool   `json:"status" gorm:"column:status"`
}

func (TrackedObject) TableName() string {
	return "objects"
}
