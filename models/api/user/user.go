package userapimodels

import (
	"teamtrack-backend/models"
	apimodels "teamtrack-backend/models/api"
	dbmodels "teamtrack-backend/models/db"
	"time"
)

type CreateUser struct {
	Name       string            `json:"name" validate:"required"`
	Email      string            `json:"email" validate:"required,email"`
	Password   string            `json:"password" validate:"required,min=6"`
	GlobalRole models.GlobalRole `json:"global_role" validate:"required"`
	EmployeeID string            `json:"employee_id"`
	Department string            `json:"department"`
	Phone      string            `json:"phone"`
}

func (r CreateUser) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if !r.GlobalRole.IsValid() {
		return models.NewError(models.KindValidation, "unknown global role")
	}
	return nil
}

type UpdateUser struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
}

type UserView struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	GlobalRole    string    `json:"global_role"`
	RoleName      string    `json:"role_name"`
	EmployeeID    string    `json:"employee_id,omitempty"`
	Department    string    `json:"department,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	ProfilePicURL string    `json:"profile_pic_url,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

func UserConvert(rec dbmodels.User) UserView {
	return UserView{
		ID:            rec.ID,
		Name:          rec.Name,
		Email:         rec.Email,
		GlobalRole:    string(rec.GlobalRole),
		RoleName:      rec.GlobalRole.ToHuman(),
		EmployeeID:    rec.EmployeeID,
		Department:    rec.Department,
		Phone:         rec.Phone,
		ProfilePicURL: rec.ProfilePicURL,
		IsActive:      rec.IsActive,
		CreatedAt:     rec.CreatedAt,
	}
}

type UserFilter struct {
	apimodels.Pagination
	Role     models.GlobalRole `json:"role"`
	IsActive *bool             `json:"is_active"`
	Search   string            `json:"search"`
}
