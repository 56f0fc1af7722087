package attendancehandler

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"teamtrack-backend/db"
	notificationhandler "teamtrack-backend/lib/notification"
	"teamtrack-backend/models"
	attendanceapimodels "teamtrack-backend/models/api/attendance"
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
	notificationhandler.NewHandler()
	NewHandler()
}

func getAttendanceRec(t *testing.T, id string) dbmodels.Attendance {
	rec := dbmodels.Attendance{}
	require.Nil(t, db.DB.Preload("Breaks").Where("id = ?", id).First(&rec).Error)
	return rec
}

func setLoginTime(t *testing.T, id string, loginTime time.Time) {
	require.Nil(t, db.DB.Model(&dbmodels.Attendance{}).
		Where("id = ?", id).
		Update("login_time", loginTime).Error)
}

func TestClockIn(t *testing.T) {
	t.Run(`one record per user per day check`, func(t *testing.T) {
		setupTest(t)

		view, err := Instance.ClockIn("user-1", attendanceapimodels.ClockInData{IP: "10.0.0.5", Device: "desktop"})
		require.Nil(t, err)
		require.NotEmpty(t, view.ID)
		require.Equal(t, string(models.AttendancePresent), view.Status)
		require.Nil(t, view.LogoutTime)

		_, err = Instance.ClockIn("user-1", attendanceapimodels.ClockInData{})
		require.Equal(t, models.KindConflict, models.KindOf(err))
		require.Equal(t, "already clocked in today", err.Error())

		// another user is unaffected
		_, err = Instance.ClockIn("user-2", attendanceapimodels.ClockInData{})
		require.Nil(t, err)
	})
}

func TestClockOut(t *testing.T) {
	t.Run(`state guards check`, func(t *testing.T) {
		setupTest(t)

		_, err := Instance.ClockOut("user-1", "10.0.0.5")
		require.Equal(t, models.KindInvalidState, models.KindOf(err))
		require.Equal(t, "not clocked in today", err.Error())

		_, err = Instance.ClockIn("user-1", attendanceapimodels.ClockInData{})
		require.Nil(t, err)
		_, err = Instance.StartBreak("user-1", attendanceapimodels.BreakStartData{})
		require.Nil(t, err)

		_, err = Instance.ClockOut("user-1", "10.0.0.5")
		require.Equal(t, models.KindInvalidState, models.KindOf(err))
		require.Equal(t, "end the active break before clocking out", err.Error())

		_, err = Instance.EndBreak("user-1")
		require.Nil(t, err)
		_, err = Instance.ClockOut("user-1", "10.0.0.5")
		require.Nil(t, err)

		_, err = Instance.ClockOut("user-1", "10.0.0.5")
		require.Equal(t, models.KindInvalidState, models.KindOf(err))
		require.Equal(t, "already clocked out", err.Error())
	})

	t.Run(`short day becomes half-day check`, func(t *testing.T) {
		setupTest(t)

		view, err := Instance.ClockIn("user-1", attendanceapimodels.ClockInData{})
		require.Nil(t, err)
		setLoginTime(t, view.ID, time.Now().Add(-2*time.Hour))

		out, err := Instance.ClockOut("user-1", "10.0.0.5")
		require.Nil(t, err)
		require.Equal(t, string(models.AttendanceHalfDay), out.Status)
		require.Equal(t, 120, out.GrossWorkingMinutes)
		require.Equal(t, 120, out.NetWorkingMinutes)
	})

	t.Run(`net time excludes breaks check`, func(t *testing.T) {
		setupTest(t)

		view, err := Instance.ClockIn("user-1", attendanceapimodels.ClockInData{})
		require.Nil(t, err)
		setLoginTime(t, view.ID, time.Now().Add(-8*time.Hour))
		end := time.Now().Add(-4 * time.Hour)
		brk := dbmodels.AttendanceBreak{
			AttendanceID: view.ID,
			BreakType:    models.BreakTypeLunch,
			StartTime:    end.Add(-30 * time.Minute),
			EndTime:      &end,
			Duration:     30,
		}
		require.Nil(t, db.DB.Create(&brk).Error)

		out, err := Instance.ClockOut("user-1", "10.0.0.5")
		require.Nil(t, err)
		require.Equal(t, string(models.AttendancePresent), out.Status)
		require.Equal(t, 480, out.GrossWorkingMinutes)
		require.Equal(t, 30, out.TotalBreakMinutes)
		require.Equal(t, 450, out.NetWorkingMinutes)
	})
}

func TestBreaks(t *testing.T) {
	t.Run(`eligibility rule order check`, func(t *testing.T) {
		setupTest(t)

		_, err := Instance.StartBreak("user-1", attendanceapimodels.BreakStartData{})
		require.Equal(t, models.KindInvalidState, models.KindOf(err))
		require.Equal(t, "not clocked in today", err.Error())

		view, err := Instance.ClockIn("user-1", attendanceapimodels.ClockInData{})
		require.Nil(t, err)

		brk, err := Instance.StartBreak("user-1", attendanceapimodels.BreakStartData{BreakType: models.BreakTypeTea})
		require.Nil(t, err)
		require.True(t, brk.IsActive)
		require.Equal(t, string(models.BreakTypeTea), brk.BreakType)

		_, err = Instance.StartBreak("user-1", attendanceapimodels.BreakStartData{})
		require.Equal(t, models.KindInvalidState, models.KindOf(err))
		require.Equal(t, "already on a break", err.Error())

		_, err = Instance.EndBreak("user-1")
		require.Nil(t, err)

		// three more closed breaks hit the daily count cap
		for j := 0; j < 3; j++ {
			_, err = Instance.StartBreak("user-1", attendanceapimodels.BreakStartData{})
			require.Nil(t, err)
			_, err = Instance.EndBreak("user-1")
			require.Nil(t, err)
		}
		_, err = Instance.StartBreak("user-1", attendanceapimodels.BreakStartData{})
		require.Equal(t, models.KindInvalidState, models.KindOf(err))
		require.Equal(t, "maximum breaks per day reached", err.Error())

		// the minutes budget caps on its own, regardless of the count
		require.Nil(t, db.DB.Where("attendance_id = ?", view.ID).Delete(&dbmodels.AttendanceBreak{}).Error)
		require.Nil(t, db.DB.Model(&dbmodels.Attendance{}).
			Where("id = ?", view.ID).
			Update("total_break_minutes", models.MaxTotalBreakMinutes).Error)
		_, err = Instance.StartBreak("user-1", attendanceapimodels.BreakStartData{})
		require.Equal(t, models.KindInvalidState, models.KindOf(err))
		require.Equal(t, "daily break budget exhausted", err.Error())
	})

	t.Run(`default break type check`, func(t *testing.T) {
		setupTest(t)
		_, err := Instance.ClockIn("user-1", attendanceapimodels.ClockInData{})
		require.Nil(t, err)

		brk, err := Instance.StartBreak("user-1", attendanceapimodels.BreakStartData{})
		require.Nil(t, err)
		require.Equal(t, string(models.BreakTypeShort), brk.BreakType)
	})

	t.Run(`end break without an active one check`, func(t *testing.T) {
		setupTest(t)
		_, err := Instance.ClockIn("user-1", attendanceapimodels.ClockInData{})
		require.Nil(t, err)

		_, err = Instance.EndBreak("user-1")
		require.Equal(t, models.KindInvalidState, models.KindOf(err))
		require.Equal(t, "no active break found", err.Error())
	})

	t.Run(`break total re-derived from the break list check`, func(t *testing.T) {
		setupTest(t)
		view, err := Instance.ClockIn("user-1", attendanceapimodels.ClockInData{})
		require.Nil(t, err)

		// a closed break whose minutes never made it into the stored total
		end := time.Now().Add(-1 * time.Hour)
		stale := dbmodels.AttendanceBreak{
			AttendanceID: view.ID,
			BreakType:    models.BreakTypeTea,
			StartTime:    end.Add(-10 * time.Minute),
			EndTime:      &end,
			Duration:     10,
		}
		require.Nil(t, db.DB.Create(&stale).Error)

		brk, err := Instance.StartBreak("user-1", attendanceapimodels.BreakStartData{})
		require.Nil(t, err)
		require.Nil(t, db.DB.Model(&dbmodels.AttendanceBreak{}).
			Where("id = ?", brk.ID).
			Update("start_time", time.Now().Add(-5*time.Minute)).Error)

		ended, err := Instance.EndBreak("user-1")
		require.Nil(t, err)
		require.Equal(t, 5, ended.Duration)
		require.Equal(t, 15, getAttendanceRec(t, view.ID).TotalBreakMinutes)
	})

	t.Run(`long break ends normally and notifies check`, func(t *testing.T) {
		setupTest(t)
		view, err := Instance.ClockIn("user-1", attendanceapimodels.ClockInData{})
		require.Nil(t, err)
		brk, err := Instance.StartBreak("user-1", attendanceapimodels.BreakStartData{})
		require.Nil(t, err)
		require.Nil(t, db.DB.Model(&dbmodels.AttendanceBreak{}).
			Where("id = ?", brk.ID).
			Update("start_time", time.Now().Add(-20*time.Minute)).Error)

		ended, err := Instance.EndBreak("user-1")
		require.Nil(t, err)
		require.Equal(t, 20, ended.Duration)
		require.False(t, ended.IsActive)
		require.Equal(t, 20, getAttendanceRec(t, view.ID).TotalBreakMinutes)

		notice := dbmodels.Notification{}
		err = db.DB.
			Where("user_id = ?", "user-1").
			Where("type = ?", models.NotificationBreakExceeded).
			First(&notice).Error
		require.Nil(t, err)
		require.Equal(t, view.ID, notice.ReferenceID)
	})
}

func TestStatus(t *testing.T) {
	t.Run(`empty state when not clocked in check`, func(t *testing.T) {
		setupTest(t)

		view, err := Instance.Status("user-1")
		require.Nil(t, err)
		require.False(t, view.IsClockedIn)
		require.False(t, view.IsOnBreak)
		require.Nil(t, view.Attendance)
	})

	t.Run(`live state check`, func(t *testing.T) {
		setupTest(t)
		_, err := Instance.ClockIn("user-1", attendanceapimodels.ClockInData{})
		require.Nil(t, err)

		view, err := Instance.Status("user-1")
		require.Nil(t, err)
		require.True(t, view.IsClockedIn)
		require.False(t, view.IsOnBreak)
		require.NotNil(t, view.Attendance)

		_, err = Instance.StartBreak("user-1", attendanceapimodels.BreakStartData{})
		require.Nil(t, err)
		view, err = Instance.Status("user-1")
		require.Nil(t, err)
		require.True(t, view.IsOnBreak)
		require.NotNil(t, view.ActiveBreak)

		_, err = Instance.EndBreak("user-1")
		require.Nil(t, err)
		_, err = Instance.ClockOut("user-1", "10.0.0.5")
		require.Nil(t, err)
		view, err = Instance.Status("user-1")
		require.Nil(t, err)
		require.False(t, view.IsClockedIn)
		require.NotNil(t, view.Attendance)
	})
}

func TestSummary(t *testing.T) {
	t.Run(`aggregates over the range check`, func(t *testing.T) {
		setupTest(t)
		now := time.Now()
		for i, rec := range []dbmodels.Attendance{
			{UserID: "user-1", Status: models.AttendancePresent, NetWorkingMinutes: 480, TotalBreakMinutes: 30},
			{UserID: "user-1", Status: models.AttendancePresent, NetWorkingMinutes: 450, TotalBreakMinutes: 60},
			{UserID: "user-1", Status: models.AttendanceHalfDay, NetWorkingMinutes: 180},
		} {
			day := models.StartOfDay(now.AddDate(0, 0, -i))
			rec.Day = day
			rec.LoginTime = day.Add(9 * time.Hour)
			require.Nil(t, db.DB.Create(&rec).Error)
		}

		view, err := Instance.Summary("user-1", now.AddDate(0, 0, -7), now)
		require.Nil(t, err)
		require.Equal(t, 3, view.TotalDays)
		require.Equal(t, 2, view.PresentDays)
		require.Equal(t, 1, view.HalfDays)
		require.InDelta(t, 18.5, view.TotalWorkingHours, 0.01)
		require.InDelta(t, 1.5, view.TotalBreakHours, 0.01)
		require.InDelta(t, 18.5/3, view.AverageWorkHours, 0.01)
	})
}

func TestAdjust(t *testing.T) {
	t.Run(`admin correction re-derives durations check`, func(t *testing.T) {
		setupTest(t)
		view, err := Instance.ClockIn("user-1", attendanceapimodels.ClockInData{})
		require.Nil(t, err)
		setLoginTime(t, view.ID, time.Now().Add(-2*time.Hour))
		_, err = Instance.ClockOut("user-1", "10.0.0.5")
		require.Nil(t, err)
		closed := getAttendanceRec(t, view.ID)
		require.Equal(t, models.AttendanceHalfDay, closed.Status)

		// the corrected login makes it a full day again
		loginTime := closed.LogoutTime.Add(-9 * time.Hour)
		err = Instance.Adjust("admin-1", view.ID, attendanceapimodels.AdjustData{
			LoginTime:       &loginTime,
			AdjustmentNotes: "forgot to clock in at arrival",
		})
		require.Nil(t, err)
		rec := getAttendanceRec(t, view.ID)
		require.Equal(t, models.AttendancePresent, rec.Status)
		require.Equal(t, 540, rec.GrossWorkingMinutes)
		require.Equal(t, "admin-1", rec.AdjustedByID)
		require.NotNil(t, rec.AdjustedAt)
		require.Equal(t, "forgot to clock in at arrival", rec.AdjustmentNotes)

		err = Instance.Adjust("admin-1", "missing", attendanceapimodels.AdjustData{AdjustmentNotes: "x"})
		require.Equal(t, models.KindNotFound, models.KindOf(err))
	})
}
