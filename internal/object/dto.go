package object

import "github.com/autotracker/tracker-admin/internal/core/common/validation"

// CreateObjectDTO represents the request payload for creating an object
type CreateObjectDTO struct {
	ObjectID       string `json:"objectId"`
	UserID         string `json:"userId"`
	Name           string `json:"name"`
	IMEI           string `json:"IMEI"`
	Active         bool   `json:"active"`
	ExpiryDate     string `json:"expiryDate"`
	LastConnection string `json:"lastConnection"`
	Status         bool   `json:"status"`
}

// Validate validates the CreateObjectDTO
func (dto CreateObjectDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("objectId", dto.ObjectID).Required()
	v.Field("userId", dto.UserID).Required()
	v.Field("IMEI", dto.IMEI).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (dto CreateObjectDTO) ToModel() *TrackedObject {
	return &TrackedObject{
		ObjectID:       dto.ObjectID,
		UserID:         dto.UserID,
		Name:           dto.Name,
		IMEI:           dto.IMEI,
		Active:         dto.Active,
		ExpiryDate:     dto.ExpiryDate,
		LastConnection: dto.LastConnection,
		Status:         dto.Status,
	}
}

// UpdateObjectDTO is a partial update: only non-nil fields are written.
type UpdateObjectDTO struct {
	UserID         *string `json:"userId"`
	Name           *string `json:"name"`
	IMEI           *string `json:"IMEI"`
	Active         *bool   `json:"active"`
	ExpiryDate     *string `json:"expiryDate"`
	LastConnection *string `json:"lastConnection"`
	Status         *bool   `json:"status"`
}

// ToUpdates returns the column updates for the fields present in the request.
func (dto UpdateObjectDTO) ToUpdates() map[string]interface{} {
	updates := make(map[string]interface{})
	if dto.UserID != nil {
		updates["user_id"] = *dto.UserID
	}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.IMEI != nil {
		updates["imei"] = *dto.IMEI
	}
	if dto.Active != nil {
		updates["active"] = *dto.Active
	}
	if dto.ExpiryDate != nil {
		updates["expiry_date"] = *dto.ExpiryDate
	}
	if dto.LastConnection != nil {
		updates["last_connection"] = *dto.LastConnection
	}
	if dto.Status != nil {
		updates["status"] = *dto.Status
	}
	return updates
}
