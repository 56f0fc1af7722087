package notificationstore

import (
	"time"

	"gorm.io/gorm"
	dbmodels "teamtrack-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Notification) error
	CreateBatch(recs []dbmodels.Notification) error
	List(userID string, unreadOnly bool, limit int) (list []dbmodels.Notification, err error)
	CountUnread(userID string) (count int64, err error)
	MarkRead(userID, id string) error
	MarkAllRead(userID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Notification) error {
	return i.db.
		Create(&rec).
		Error
}

func (i impl) CreateBatch(recs []dbmodels.Notification) error {
	if len(recs) == 0 {
		return nil
	}
	return i.db.
		Create(&recs).
		Error
}

func (i impl) List(userID string, unreadOnly bool, limit int) (list []dbmodels.Notification, err error) {
	tx := i.db.
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if unreadOnly {
		tx = tx.Where("is_read = ?", false)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CountUnread(userID string) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.Notification{}).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Count(&count).
		Error
	return count, err
}

func (i impl) MarkRead(userID, id string) error {
	now := time.Now()
	return i.db.
		Model(&dbmodels.Notification{}).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": &now,
		}).
		Error
}

func (i impl) MarkAllRead(userID string) error {
	now := time.Now()
	return i.db.
		Model(&dbmodels.Notification{}).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": &now,
		}).
		Error
}
