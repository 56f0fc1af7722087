package notificationapimodels

import (
	dbmodels "teamtrack-backend/models/db"
	"time"
)

type NotificationView struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	ReferenceID   string     `json:"reference_id,omitempty"`
	ReferenceType string     `json:"reference_type,omitempty"`
	IsRead        bool       `json:"is_read"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NotificationConvert(rec dbmodels.Notification) NotificationView {
	return NotificationView{
		ID:            rec.ID,
		Type:          string(rec.Type),
		Title:         rec.Title,
		Message:       rec.Message,
		ReferenceID:   rec.ReferenceID,
		ReferenceType: string(rec.ReferenceType),
		IsRead:        rec.IsRead,
		ReadAt:        rec.ReadAt,
		CreatedAt:     rec.CreatedAt,
	}
}
