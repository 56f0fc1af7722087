package dbmodels

import (
	"teamtrack-backend/models"
	"time"
)

type User struct {
	BaseModel
	Name          string            `gorm:"type:varchar(150)"`
	Email         string            `gorm:"type:varchar(255);uniqueIndex"`
	Password      string            `gorm:"type:varchar(128)"`
	GlobalRole    models.GlobalRole `gorm:"type:varchar(20);index"`
	EmployeeID    string            `gorm:"type:varchar(50)"`
	Department    string            `gorm:"type:varchar(150)"`
	Phone         string            `gorm:"type:varchar(20)"`
	ProfilePicURL string
	IsActive      bool   `gorm:"index"`
	CreatedByID   string `gorm:"type:varchar(36)"`
	LastLogin     time.Time
}

func (u User) IsSuperAdmin() bool {
	return u.GlobalRole == models.RoleSuperAdmin
}
