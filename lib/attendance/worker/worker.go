package attendanceworker

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"teamtrack-backend/config"
	"teamtrack-backend/db"
	attendancehandler "teamtrack-backend/lib/attendance"
	attendancestore "teamtrack-backend/lib/attendance/store"
	notificationhandler "teamtrack-backend/lib/notification"
	usersstore "teamtrack-backend/lib/users/store"
	"teamtrack-backend/lib/utils/helpers"
	"teamtrack-backend/models"
)

// Start registers the wall-clock attendance jobs. Schedules run in the
// configured company timezone, not in server local time.
func Start() error {
	loc, err := time.LoadLocation(config.Conf.Scheduler.Timezone)
	if err != nil {
		return err
	}
	w := worker{
		store:     attendancestore.NewInstance(db.DB),
		userStore: usersstore.NewInstance(db.DB),
		location:  loc,
	}
	c := cron.New(cron.WithLocation(loc))
	jobs := []struct {
		spec string
		name string
		run  func()
	}{
		{"30 9 * * 1-5", "clock-in reminder", w.clockInReminder},
		{"0 18 * * 1-5", "clock-out reminder", w.clockOutReminder},
		{"0 22 * * *", "forgot clock-out alert", w.forgotClockOutAlert},
		{"0 9 * * 1", "weekly summary", w.weeklySummary},
	}
	for _, job := range jobs {
		job := job
		_, err = c.AddFunc(job.spec, func() {
			defer func() {
				if rec := recover(); rec != nil {
					log.WithField("job", job.name).Errorf("attendance job panic: %v", rec)
				}
			}()
			job.run()
		})
		if err != nil {
			return err
		}
	}
	c.Start()
	log.WithField("timezone", loc.String()).Info("attendance scheduler started")
	return nil
}

type worker struct {
	store     attendancestore.Provider
	userStore usersstore.Provider
	location  *time.Location
}

func (w worker) getLogger(job string) *log.Entry {
	return log.WithField("job", job)
}

// clockInReminder pings everyone who has not clocked in by the morning cutoff.
func (w worker) clockInReminder() {
	logger := w.getLogger("clock-in reminder")
	users, err := w.userStore.ListActiveExcludingRole(models.RoleSuperAdmin)
	if err != nil {
		logger.WithError(err).Error("failed to list users")
		return
	}
	now := time.Now().In(w.location)
	notified := 0
	for _, user := range users {
		rec, err := w.store.GetForUserDay(user.ID, now)
		if err != nil {
			logger.WithError(err).WithField("user_id", user.ID).Error("failed to check attendance")
			continue
		}
		if rec != nil {
			continue
		}
		notificationhandler.Instance.Send(user.ID, models.NotificationAttendanceReminder,
			"Clock-in reminder",
			"You have not clocked in yet today",
			"", models.ReferenceUser)
		notified++
	}
	logger.WithField("notified", notified).Info("attendance job finished")
}

// clockOutReminder pings everyone still clocked in at end of day.
func (w worker) clockOutReminder() {
	logger := w.getLogger("clock-out reminder")
	open, err := w.store.ListOpenForDay(time.Now().In(w.location))
	if err != nil {
		logger.WithError(err).Error("failed to list open attendance records")
		return
	}
	for _, rec := range open {
		notificationhandler.Instance.Send(rec.UserID, models.NotificationAttendanceReminder,
			"Clock-out reminder",
			"Remember to clock out before leaving",
			rec.ID, models.ReferenceUser)
	}
	logger.WithField("notified", len(open)).Info("attendance job finished")
}

// forgotClockOutAlert tells the admins who never clocked out today.
func (w worker) forgotClockOutAlert() {
	logger := w.getLogger("forgot clock-out alert")
	open, err := w.store.ListOpenForDay(time.Now().In(w.location))
	if err != nil {
		logger.WithError(err).Error("failed to list open attendance records")
		return
	}
	if len(open) == 0 {
		return
	}
	admins, err := w.userStore.ListByRole([]models.GlobalRole{models.RoleSuperAdmin})
	if err != nil {
		logger.WithError(err).Error("failed to list admins")
		return
	}
	adminIDs := make([]string, 0, len(admins))
	for _, admin := range admins {
		adminIDs = append(adminIDs, admin.ID)
	}
	for _, rec := range open {
		name := rec.UserID
		if rec.User != nil {
			name = rec.User.Name
		}
		notificationhandler.Instance.SendBatch(adminIDs, models.NotificationForgotClockOut,
			"Missing clock-out",
			fmt.Sprintf("%s did not clock out today", name),
			rec.ID, models.ReferenceUser)
	}
	logger.WithField("open_records", len(open)).Info("attendance job finished")
}

// weeklySummary sends everyone their numbers for the past week.
func (w worker) weeklySummary() {
	logger := w.getLogger("weekly summary")
	users, err := w.userStore.ListActiveExcludingRole(models.RoleSuperAdmin)
	if err != nil {
		logger.WithError(err).Error("failed to list users")
		return
	}
	to := time.Now().In(w.location)
	from := to.AddDate(0, 0, -7)
	for _, user := range users {
		summary, err := attendancehandler.Instance.Summary(user.ID, from, to)
		if err != nil {
			logger.WithError(err).WithField("user_id", user.ID).Error("failed to build summary")
			continue
		}
		if summary.TotalDays == 0 {
			continue
		}
		totalMinutes := int(summary.TotalWorkingHours * 60)
		notificationhandler.Instance.Send(user.ID, models.NotificationAttendanceReminder,
			"Your week in numbers",
			fmt.Sprintf("Last week: %d days worked, %s total, %d late arrivals",
				summary.TotalDays, helpers.FormatMinutes(totalMinutes), summary.LateArrivals),
			"", models.ReferenceUser)
	}
	logger.WithField("users", len(users)).Info("attendance job finished")
}
