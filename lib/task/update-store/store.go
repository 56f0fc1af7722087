package taskupdatestore

import (
	"gorm.io/gorm"
	dbmodels "teamtrack-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.TaskUpdate) (id string, err error)
	ListByTask(taskID string) (list []dbmodels.TaskUpdate, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.TaskUpdate) (id string, err error) {
	err = i.db.
		Omit("User").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) ListByTask(taskID string) (list []dbmodels.TaskUpdate, err error) {
	err = i.db.
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Preload("User").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
