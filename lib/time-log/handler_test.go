package timeloghandler

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"teamtrack-backend/db"
	"teamtrack-backend/models"
	timelogapimodels "teamtrack-backend/models/api/timelog"
	dbmodels "teamtrack-backend/models/db"
)

func setupTest(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.Nil(t, err)
	sqlDB, err := gdb.DB()
	require.Nil(t, err)
	sqlDB.SetMaxOpenConns(1)
	db.DB = gdb
	require.Nil(t, db.AutoMigrateDB())
	NewHandler()
}

func seedTask(t *testing.T, assigneeID string) dbmodels.Task {
	rec := dbmodels.Task{
		ProjectID:    "project-1",
		Title:        "Review the payment flow",
		AssignedToID: assigneeID,
		AssignedByID: "assigner-1",
		Status:       models.TaskStatusInProgress,
	}
	require.Nil(t, db.DB.Create(&rec).Error)
	return rec
}

func taskActualTime(t *testing.T, id string) int {
	rec := dbmodels.Task{}
	require.Nil(t, db.DB.Where("id = ?", id).First(&rec).Error)
	return rec.ActualTime
}

func TestTimer(t *testing.T) {
	t.Run(`start and stop check`, func(t *testing.T) {
		setupTest(t)
		task := seedTask(t, "user-1")

		id, err := Instance.StartTimer("user-1", task.ID)
		require.Nil(t, err)
		require.NotEmpty(t, id)

		view, err := Instance.StopTimer("user-1", task.ID)
		require.Nil(t, err)
		require.Equal(t, id, view.ID)
		require.NotNil(t, view.EndTime)
		require.Equal(t, 0, view.Duration)
		require.Equal(t, 0, taskActualTime(t, task.ID))
	})

	t.Run(`single open timer per task and user check`, func(t *testing.T) {
		setupTest(t)
		task := seedTask(t, "user-1")

		_, err := Instance.StartTimer("user-1", task.ID)
		require.Nil(t, err)

		_, err = Instance.StartTimer("user-1", task.ID)
		require.Equal(t, models.KindConflict, models.KindOf(err))
		require.Equal(t, "timer is already running for this task", err.Error())
	})

	t.Run(`second stop loses check`, func(t *testing.T) {
		setupTest(t)
		task := seedTask(t, "user-1")

		_, err := Instance.StartTimer("user-1", task.ID)
		require.Nil(t, err)
		_, err = Instance.StopTimer("user-1", task.ID)
		require.Nil(t, err)

		// the closed log must not be picked up again
		_, err = Instance.StopTimer("user-1", task.ID)
		require.Equal(t, models.KindInvalidState, models.KindOf(err))
		require.Equal(t, "no running timer found", err.Error())
	})

	t.Run(`stop without a running timer check`, func(t *testing.T) {
		setupTest(t)
		task := seedTask(t, "user-1")

		_, err := Instance.StopTimer("user-1", task.ID)
		require.Equal(t, models.KindInvalidState, models.KindOf(err))
		require.Equal(t, "no running timer found", err.Error())
	})

	t.Run(`ownership check`, func(t *testing.T) {
		setupTest(t)
		task := seedTask(t, "user-1")

		_, err := Instance.StartTimer("user-2", task.ID)
		require.Equal(t, models.KindOwnership, models.KindOf(err))

		_, err = Instance.StartTimer("user-1", "missing-task")
		require.Equal(t, models.KindNotFound, models.KindOf(err))
	})
}

func TestManualEntry(t *testing.T) {
	t.Run(`manual entry re-derives actual time check`, func(t *testing.T) {
		setupTest(t)
		task := seedTask(t, "user-1")
		end := time.Now()

		_, err := Instance.AddManual("user-1", task.ID, timelogapimodels.ManualEntryData{
			StartTime:   end.Add(-30 * time.Minute),
			EndTime:     end,
			Description: "code review",
		})
		require.Nil(t, err)
		require.Equal(t, 30, taskActualTime(t, task.ID))

		_, err = Instance.AddManual("user-1", task.ID, timelogapimodels.ManualEntryData{
			StartTime: end.Add(-90 * time.Minute),
			EndTime:   end.Add(-75 * time.Minute),
		})
		require.Nil(t, err)
		require.Equal(t, 45, taskActualTime(t, task.ID))

		list, total, err := Instance.ListByTask(task.ID)
		require.Nil(t, err)
		require.Len(t, list, 2)
		require.Equal(t, 45, total)
	})

	t.Run(`invalid time range check`, func(t *testing.T) {
		now := time.Now()
		data := timelogapimodels.ManualEntryData{
			StartTime: now,
			EndTime:   now.Add(-10 * time.Minute),
		}
		err := data.Validate()
		require.Equal(t, models.KindValidation, models.KindOf(err))
	})
}

func TestMyLogs(t *testing.T) {
	t.Run(`date window filter check`, func(t *testing.T) {
		setupTest(t)
		task := seedTask(t, "user-1")
		now := time.Now()
		old := now.AddDate(0, 0, -10)

		for _, rec := range []dbmodels.TaskTimeLog{
			{TaskID: task.ID, UserID: "user-1", StartTime: old, EndTime: &old, Duration: 20, EntryType: models.TimeEntryManual},
			{TaskID: task.ID, UserID: "user-1", StartTime: now, EndTime: &now, Duration: 15, EntryType: models.TimeEntryManual},
			{TaskID: task.ID, UserID: "user-2", StartTime: now, EndTime: &now, Duration: 50, EntryType: models.TimeEntryManual},
		} {
			require.Nil(t, db.DB.Create(&rec).Error)
		}

		list, total, err := Instance.MyLogs("user-1", timelogapimodels.TimeLogFilter{})
		require.Nil(t, err)
		require.Len(t, list, 2)
		require.Equal(t, 35, total)

		from := now.AddDate(0, 0, -1)
		list, total, err = Instance.MyLogs("user-1", timelogapimodels.TimeLogFilter{StartDate: &from})
		require.Nil(t, err)
		require.Len(t, list, 1)
		require.Equal(t, 15, total)
	})
}
