package timelogstore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"teamtrack-backend/models"
	timelogapimodels "teamtrack-backend/models/api/timelog"
	dbmodels "teamtrack-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.TaskTimeLog) (id string, err error)
	GetOpen(taskID, userID string) (rec *dbmodels.TaskTimeLog, err error)
	CloseOpen(taskID, userID string, endTime time.Time) (rec *dbmodels.TaskTimeLog, err error)
	SumDurationByTask(taskID string) (total int, err error)
	ListByTask(taskID string) (list []dbmodels.TaskTimeLog, err error)
	ListByUser(userID string, filter timelogapimodels.TimeLogFilter) (list []dbmodels.TaskTimeLog, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.TaskTimeLog) (id string, err error) {
	err = i.db.
		Omit("User").
		Create(&rec).
		Error
	if err != nil {
		// partial unique index on (task_id, user_id) WHERE end_time IS NULL
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", models.NewError(models.KindConflict, "timer is already running for this task")
		}
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetOpen(taskID, userID string) (*dbmodels.TaskTimeLog, error) {
	rec := dbmodels.TaskTimeLog{}
	err := i.db.
		Where("task_id = ?", taskID).
		Where("user_id = ?", userID).
		Where("end_time IS NULL").
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

// CloseOpen closes the caller's open log for the task. The close is a
// conditional update on end_time IS NULL, so when two stops race only one
// writer wins; the loser gets a no-running-timer error.
func (i impl) CloseOpen(taskID, userID string, endTime time.Time) (*dbmodels.TaskTimeLog, error) {
	open, err := i.GetOpen(taskID, userID)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, models.NewError(models.KindInvalidState, "no running timer found")
	}
	duration := int(endTime.Sub(open.StartTime).Minutes())
	res := i.db.
		Model(&dbmodels.TaskTimeLog{}).
		Where("id = ?", open.ID).
		Where("end_time IS NULL").
		Updates(map[string]interface{}{
			"end_time": &endTime,
			"duration": duration,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, models.NewError(models.KindInvalidState, "no running timer found")
	}
	open.EndTime = &endTime
	open.Duration = duration
	return open, nil
}

func (i impl) SumDurationByTask(taskID string) (total int, err error) {
	err = i.db.
		Model(&dbmodels.TaskTimeLog{}).
		Where("task_id = ?", taskID).
		Select("COALESCE(SUM(duration), 0)").
		Scan(&total).
		Error
	return total, err
}

func (i impl) ListByTask(taskID string) (list []dbmodels.TaskTimeLog, err error) {
	err = i.db.
		Where("task_id = ?", taskID).
		Order("start_time DESC").
		Preload("User").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByUser(userID string, filter timelogapimodels.TimeLogFilter) (list []dbmodels.TaskTimeLog, err error) {
	tx := i.db.
		Where("user_id = ?", userID).
		Order("start_time DESC")
	if filter.StartDate != nil {
		tx = tx.Where("start_time >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		endOfDay := filter.EndDate.Add(24*time.Hour - time.Nanosecond)
		tx = tx.Where("start_time <= ?", endOfDay)
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
