package user

import "github.com/autotracker/tracker-admin/internal/core/common/validation"

// CreateUserDTO represents the request payload for creating a user. The
// primary key is externally assigned and therefore required.
type CreateUserDTO struct {
	UserID           string `json:"userId"`
	UserName         string `json:"userName"`
	UserEmail        string `json:"userEmail"`
	Active           bool   `json:"active"`
	ExpiryDate       string `json:"expiryDate"`
	Privileges       string `json:"privileges"`
	APIAccess        bool   `json:"apiAccess"`
	RegistrationDate string `json:"registrationDate"`
	LastLogin        string `json:"lastLogin"`
	IPAddress        string `json:"ipAddress"`
	SubAccounts      int    `json:"subAccounts"`
	ObjectCount      *int64 `json:"objectCount"`
	Email            int    `json:"email"`
	SMS              int    `json:"sms"`
	Webhook          int    `json:"webhook"`
	API              int    `json:"api"`
}

// Validate validates the CreateUserDTO
func (dto CreateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("userId", dto.UserID).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (dto CreateUserDTO) ToModel() *User {
	return &User{
		UserID:           dto.UserID,
		UserName:         dto.UserName,
		UserEmail:        dto.UserEmail,
		Active:           dto.Active,
		ExpiryDate:       dto.ExpiryDate,
		Privileges:       dto.Privileges,
		APIAccess:        dto.APIAccess,
		RegistrationDate: dto.RegistrationDate,
		LastLogin:        dto.LastLogin,
		IPAddress:        dto.IPAddress,
		SubAccounts:      dto.SubAccounts,
		ObjectCount:      dto.ObjectCount,
		Email:            dto.Email,
		SMS:              dto.SMS,
		Webhook:          dto.Webhook,
		API:              dto.API,
	}
}

// UpdateUserDTO is a partial update: only non-nil fields are written.
type UpdateUserDTO struct {
	UserName         *string `json:"userName"`
	UserEmail        *string `json:"userEmail"`
	Active           *bool   `json:"active"`
	ExpiryDate       *string `json:"expiryDate"`
	Privileges       *string `json:"privileges"`
	APIAccess        *bool   `json:"apiAccess"`
	RegistrationDate *string `json:"registrationDate"`
	LastLogin        *string `json:"lastLogin"`
	IPAddress        *string `json:"ipAddress"`
	SubAccounts      *int    `json:"subAccounts"`
	ObjectCount      *int64  `json:"objectCount"`
	Email            *int    `json:"email"`
	SMS              *int    `json:"sms"`
	Webhook          *int    `json:"webhook"`
	API              *int    `json:"api"`
}

// ToUpdates returns the column updates for the fields present in the request.
func (dto UpdateUserDTO) ToUpdates() map[string]interface{} {
	updates := make(map[string]interface{})
	if dto.UserName != nil {
		updates["user_name"] = *dto.UserName
	}
	if dto.UserEmail != nil {
		updates["user_email"] = *dto.UserEmail
	}
	if dto.Active != nil {
		updates["active"] = *dto.Active
	}
	if dto.ExpiryDate != nil {
		updates["expiry_date"] = *dto.ExpiryDate
	}
	if dto.Privileges != nil {
		updates["privileges"] = *dto.Privileges
	}
	if dto.APIAccess != nil {
		updates["api_access"] = *dto.APIAccess
	}
	if dto.RegistrationDate != nil {
		updates["registration_date"] = *dto.RegistrationDate
	}
	if dto.LastLogin != nil {
		updates["last_login"] = *dto.LastLogin
	}
	if dto.IPAddress != nil {
		updates["ip_address"] = *dto.IPAddress
	}
	if dto.SubAccounts != nil {
		updates["sub_accounts"] = *dto.SubAccounts
	}
	if dto.ObjectCount != nil {
		updates["object_count"] = *dto.ObjectCount
	}
	if dto.Email != nil {
		updates["email"] = *dto.Email
	}
	if dto.SMS != nil {
		updates["sms"] = *dto.SMS
	}
	if dto.Webhook != nil {
		updates["webhook"] = *dto.Webhook
	}
	if dto.API != nil {
		updates["api"] = *dto.API
	}
	return updates
}
