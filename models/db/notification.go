package dbmodels

import (
	"teamtrack-backend/models"
	"time"
)

type Notification struct {
	BaseModel
	UserID        string                  `gorm:"type:varchar(36);index:idx_notification_user"`
	Type          models.NotificationType `gorm:"type:varchar(30)"`
	Title         string                  `gorm:"type:varchar(255)"`
	Message       string
	ReferenceID   string               `gorm:"type:varchar(36)"`
	ReferenceType models.ReferenceType `gorm:"type:varchar(20)"`
	IsRead        bool                 `gorm:"index"`
	ReadAt        *time.Time
}
