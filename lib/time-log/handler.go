package timeloghandler

import (
	"time"

	"gorm.io/gorm"
	"teamtrack-backend/db"
	taskstore "teamtrack-backend/lib/task/store"
	timelogstore "teamtrack-backend/lib/time-log/store"
	"teamtrack-backend/models"
	timelogapimodels "teamtrack-backend/models/api/timelog"
	dbmodels "teamtrack-backend/models/db"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	StartTimer(userID, taskID string) (id string, err error)
	StopTimer(userID, taskID string) (view timelogapimodels.TimeLogView, err error)
	AddManual(userID, taskID string, data timelogapimodels.ManualEntryData) (id string, err error)
	ListByTask(taskID string) (list []timelogapimodels.TimeLogView, totalMinutes int, err error)
	MyLogs(userID string, filter timelogapimodels.TimeLogFilter) (list []timelogapimodels.TimeLogView, totalMinutes int, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:     timelogstore.NewInstance(db.DB),
		taskStore: taskstore.NewInstance(db.DB),
	}
}

type impl struct {
	store     timelogstore.Provider
	taskStore taskstore.Provider
}

func (i impl) getLogger(taskID, userID string) *log.Entry {
	return log.
		WithField("task_id", taskID).
		WithField("user_id", userID)
}

func (i impl) getOwnTask(userID, taskID string) (*dbmodels.Task, error) {
	rec, err := i.taskStore.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, models.NewError(models.KindNotFound, "task not found")
	}
	if rec.AssignedToID != userID {
		return nil, models.NewError(models.KindOwnership, "task is assigned to another user")
	}
	return rec, nil
}

func (i impl) StartTimer(userID, taskID string) (id string, err error) {
	_, err = i.getOwnTask(userID, taskID)
	if err != nil {
		return "", err
	}
	id, err = i.store.Create(dbmodels.TaskTimeLog{
		TaskID:    taskID,
		UserID:    userID,
		StartTime: time.Now(),
		EntryType: models.TimeEntryAutomatic,
	})
	if err != nil {
		return "", err
	}
	i.getLogger(taskID, userID).Info("timer started")
	return id, nil
}

func (i impl) StopTimer(userID, taskID string) (view timelogapimodels.TimeLogView, err error) {
	_, err = i.getOwnTask(userID, taskID)
	if err != nil {
		return timelogapimodels.TimeLogView{}, err
	}
	var closed *dbmodels.TaskTimeLog
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		logStore := timelogstore.NewInstance(tx)
		closed, err = logStore.CloseOpen(taskID, userID, time.Now())
		if err != nil {
			return err
		}
		total, err := logStore.SumDurationByTask(taskID)
		if err != nil {
			return err
		}
		return taskstore.NewInstance(tx).Update(taskID, map[string]interface{}{
			"actual_time": total,
		})
	})
	if err != nil {
		return timelogapimodels.TimeLogView{}, err
	}
	i.getLogger(taskID, userID).
		WithField("duration", closed.Duration).
		Info("timer stopped")
	return timelogapimodels.TimeLogConvert(*closed), nil
}

func (i impl) AddManual(userID, taskID string, data timelogapimodels.ManualEntryData) (id string, err error) {
	_, err = i.getOwnTask(userID, taskID)
	if err != nil {
		return "", err
	}
	duration := int(data.EndTime.Sub(data.StartTime).Minutes())
	endTime := data.EndTime
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		logStore := timelogstore.NewInstance(tx)
		id, err = logStore.Create(dbmodels.TaskTimeLog{
			TaskID:      taskID,
			UserID:      userID,
			StartTime:   data.StartTime,
			EndTime:     &endTime,
			Duration:    duration,
			Description: data.Description,
			EntryType:   models.TimeEntryManual,
		})
		if err != nil {
			return err
		}
		total, err := logStore.SumDurationByTask(taskID)
		if err != nil {
			return err
		}
		return taskstore.NewInstance(tx).Update(taskID, map[string]interface{}{
			"actual_time": total,
		})
	})
	if err != nil {
		return "", err
	}
	i.getLogger(taskID, userID).
		WithField("duration", duration).
		Info("manual time entry added")
	return id, nil
}

func (i impl) ListByTask(taskID string) (list []timelogapimodels.TimeLogView, totalMinutes int, err error) {
	recs, err := i.store.ListByTask(taskID)
	if err != nil {
		return nil, 0, err
	}
	list = make([]timelogapimodels.TimeLogView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, timelogapimodels.TimeLogConvert(rec))
		totalMinutes += rec.Duration
	}
	return list, totalMinutes, nil
}

func (i impl) MyLogs(userID string, filter timelogapimodels.TimeLogFilter) (list []timelogapimodels.TimeLogView, totalMinutes int, err error) {
	recs, err := i.store.ListByUser(userID, filter)
	if err != nil {
		return nil, 0, err
	}
	list = make([]timelogapimodels.TimeLogView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, timelogapimodels.TimeLogConvert(rec))
		totalMinutes += rec.Duration
	}
	return list, totalMinutes, nil
}
