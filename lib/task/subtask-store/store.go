package subtaskstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "teamtrack-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.TaskSubtask) (id string, err error)
	GetByID(id string) (rec *dbmodels.TaskSubtask, err error)
	Update(id string, updMap map[string]interface{}) error
	ListByTask(taskID string) (list []dbmodels.TaskSubtask, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.TaskSubtask) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.TaskSubtask, error) {
	rec := dbmodels.TaskSubtask{}
	err := i.db.
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.TaskSubtask{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) ListByTask(taskID string) (list []dbmodels.TaskSubtask, err error) {
	err = i.db.
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
