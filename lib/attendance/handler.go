package attendancehandler

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"teamtrack-backend/db"
	attendancestore "teamtrack-backend/lib/attendance/store"
	notificationhandler "teamtrack-backend/lib/notification"
	"teamtrack-backend/lib/utils/helpers"
	"teamtrack-backend/models"
	attendanceapimodels "teamtrack-backend/models/api/attendance"
	dbmodels "teamtrack-backend/models/db"
)

type Provider interface {
	ClockIn(userID string, data attendanceapimodels.ClockInData) (view attendanceapimodels.AttendanceView, err error)
	ClockOut(userID, ip string) (view attendanceapimodels.AttendanceView, err error)
	StartBreak(userID string, data attendanceapimodels.BreakStartData) (view attendanceapimodels.BreakView, err error)
	EndBreak(userID string) (view attendanceapimodels.BreakView, err error)
	Status(userID string) (view attendanceapimodels.StatusView, err error)
	MyHistory(userID string, filter attendanceapimodels.HistoryFilter) (list []attendanceapimodels.AttendanceView, err error)
	Summary(userID string, from, to time.Time) (view attendanceapimodels.SummaryView, err error)
	List(filter attendanceapimodels.AdminFilter) (list []attendanceapimodels.AttendanceView, err error)
	Today() (list []attendanceapimodels.AttendanceView, err error)
	Adjust(adminID, id string, data attendanceapimodels.AdjustData) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: attendancestore.NewInstance(db.DB),
	}
}

type impl struct {
	store attendancestore.Provider
}

func (i impl) getLogger(userID string) *log.Entry {
	return log.WithField("user_id", userID)
}

func (i impl) ClockIn(userID string, data attendanceapimodels.ClockInData) (view attendanceapimodels.AttendanceView, err error) {
	now := time.Now()
	rec := dbmodels.Attendance{
		UserID:      userID,
		Day:         models.StartOfDay(now),
		LoginTime:   now,
		Status:      models.AttendancePresent,
		LoginIP:     data.IP,
		LoginDevice: data.Device,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return attendanceapimodels.AttendanceView{}, err
	}
	created, err := i.store.GetByID(id)
	if err != nil {
		return attendanceapimodels.AttendanceView{}, err
	}
	i.getLogger(userID).Info("clocked in")
	return attendanceapimodels.AttendanceConvert(*created), nil
}

func (i impl) ClockOut(userID, ip string) (view attendanceapimodels.AttendanceView, err error) {
	now := time.Now()
	rec, err := i.store.GetForUserDay(userID, now)
	if err != nil {
		return attendanceapimodels.AttendanceView{}, err
	}
	if rec == nil {
		return attendanceapimodels.AttendanceView{}, models.NewError(models.KindInvalidState, "not clocked in today")
	}
	if rec.LogoutTime != nil {
		return attendanceapimodels.AttendanceView{}, models.NewError(models.KindInvalidState, "already clocked out")
	}
	if rec.ActiveBreak() != nil {
		return attendanceapimodels.AttendanceView{}, models.NewError(models.KindInvalidState, "end the active break before clocking out")
	}
	rec.LogoutTime = &now
	rec.CalculateDurations()
	status := models.AttendancePresent
	if rec.NetWorkingMinutes < models.HalfDayHours*60 {
		status = models.AttendanceHalfDay
	}
	rec.Status = status
	err = i.store.Update(rec.ID, map[string]interface{}{
		"logout_time":           &now,
		"logout_ip":             ip,
		"total_break_minutes":   rec.TotalBreakMinutes,
		"gross_working_minutes": rec.GrossWorkingMinutes,
		"net_working_minutes":   rec.NetWorkingMinutes,
		"status":                status,
	})
	if err != nil {
		return attendanceapimodels.AttendanceView{}, err
	}
	i.getLogger(userID).
		WithField("net_minutes", rec.NetWorkingMinutes).
		WithField("status", string(status)).
		Info("clocked out")
	return attendanceapimodels.AttendanceConvert(*rec), nil
}

func (i impl) StartBreak(userID string, data attendanceapimodels.BreakStartData) (view attendanceapimodels.BreakView, err error) {
	now := time.Now()
	rec, err := i.store.GetForUserDay(userID, now)
	if err != nil {
		return attendanceapimodels.BreakView{}, err
	}
	if rec == nil {
		return attendanceapimodels.BreakView{}, models.NewError(models.KindInvalidState, "not clocked in today")
	}
	if rec.LogoutTime != nil {
		return attendanceapimodels.BreakView{}, models.NewError(models.KindInvalidState, "already clocked out")
	}
	err = rec.CanTakeBreak()
	if err != nil {
		return attendanceapimodels.BreakView{}, err
	}
	breakType := data.BreakType
	if breakType == "" {
		breakType = models.BreakTypeShort
	}
	brk := dbmodels.AttendanceBreak{
		AttendanceID: rec.ID,
		BreakType:    breakType,
		StartTime:    now,
		IsActive:     true,
		Notes:        data.Notes,
	}
	id, err := i.store.CreateBreak(brk)
	if err != nil {
		return attendanceapimodels.BreakView{}, err
	}
	brk.ID = id
	i.getLogger(userID).
		WithField("break_type", string(breakType)).
		Info("break started")
	return attendanceapimodels.BreakConvert(brk), nil
}

func (i impl) EndBreak(userID string) (view attendanceapimodels.BreakView, err error) {
	now := time.Now()
	rec, err := i.store.GetForUserDay(userID, now)
	if err != nil {
		return attendanceapimodels.BreakView{}, err
	}
	if rec == nil {
		return attendanceapimodels.BreakView{}, models.NewError(models.KindInvalidState, "not clocked in today")
	}
	brk := rec.ActiveBreak()
	if brk == nil {
		return attendanceapimodels.BreakView{}, models.NewError(models.KindInvalidState, "no active break found")
	}
	duration := helpers.MinutesBetween(brk.StartTime, now)
	err = i.store.CloseBreak(brk.ID, now, duration)
	if err != nil {
		return attendanceapimodels.BreakView{}, err
	}
	// re-derived over the full break list, not incremented; the break just
	// closed still carries zero in rec.Breaks
	total := duration
	for _, b := range rec.Breaks {
		total += b.Duration
	}
	err = i.store.Update(rec.ID, map[string]interface{}{
		"total_break_minutes": total,
	})
	if err != nil {
		return attendanceapimodels.BreakView{}, err
	}
	// a long break ends normally, the user just gets told about it
	if duration > models.MaxBreakDurationMinutes {
		notificationhandler.Instance.Send(userID, models.NotificationBreakExceeded,
			"Break duration exceeded",
			fmt.Sprintf("Your break lasted %s, over the %d minute guideline",
				helpers.FormatMinutes(duration), models.MaxBreakDurationMinutes),
			rec.ID, models.ReferenceUser)
	}
	brk.EndTime = &now
	brk.Duration = duration
	brk.IsActive = false
	i.getLogger(userID).
		WithField("duration", duration).
		Info("break ended")
	return attendanceapimodels.BreakConvert(*brk), nil
}

// Status never errors on a missing record: not clocked in is a valid empty
// state, not a failure.
func (i impl) Status(userID string) (view attendanceapimodels.StatusView, err error) {
	rec, err := i.store.GetForUserDay(userID, time.Now())
	if err != nil {
		return attendanceapimodels.StatusView{}, err
	}
	if rec == nil {
		return attendanceapimodels.StatusView{}, nil
	}
	attView := attendanceapimodels.AttendanceConvert(*rec)
	view = attendanceapimodels.StatusView{
		IsClockedIn: rec.LogoutTime == nil,
		Attendance:  &attView,
	}
	if brk := rec.ActiveBreak(); brk != nil {
		brkView := attendanceapimodels.BreakConvert(*brk)
		view.IsOnBreak = true
		view.ActiveBreak = &brkView
	}
	return view, nil
}

func (i impl) MyHistory(userID string, filter attendanceapimodels.HistoryFilter) (list []attendanceapimodels.AttendanceView, err error) {
	to := time.Now()
	from := to.AddDate(0, -1, 0)
	if filter.StartDate != nil {
		from = *filter.StartDate
	}
	if filter.EndDate != nil {
		to = *filter.EndDate
	}
	recs, err := i.store.ListByUserRange(userID, from, to)
	if err != nil {
		return nil, err
	}
	list = make([]attendanceapimodels.AttendanceView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, attendanceapimodels.AttendanceConvert(rec))
	}
	return list, nil
}

func (i impl) Summary(userID string, from, to time.Time) (view attendanceapimodels.SummaryView, err error) {
	recs, err := i.store.ListByUserRange(userID, from, to)
	if err != nil {
		return attendanceapimodels.SummaryView{}, err
	}
	for _, rec := range recs {
		view.TotalDays++
		switch rec.Status {
		case models.AttendanceHalfDay:
			view.HalfDays++
		case models.AttendancePresent:
			view.PresentDays++
		}
		view.TotalWorkingHours += float64(rec.NetWorkingMinutes) / 60
		view.TotalBreakHours += float64(rec.TotalBreakMinutes) / 60
		if models.IsLateArrival(rec.LoginTime) {
			view.LateArrivals++
		}
		if rec.LogoutTime != nil && models.IsEarlyDeparture(*rec.LogoutTime) {
			view.EarlyDepartures++
		}
	}
	if view.TotalDays > 0 {
		view.AverageWorkHours = view.TotalWorkingHours / float64(view.TotalDays)
	}
	return view, nil
}

func (i impl) List(filter attendanceapimodels.AdminFilter) (list []attendanceapimodels.AttendanceView, err error) {
	recs, err := i.store.List(filter)
	if err != nil {
		return nil, err
	}
	list = make([]attendanceapimodels.AttendanceView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, attendanceapimodels.AttendanceConvert(rec))
	}
	return list, nil
}

func (i impl) Today() (list []attendanceapimodels.AttendanceView, err error) {
	recs, err := i.store.ListByDay(time.Now())
	if err != nil {
		return nil, err
	}
	list = make([]attendanceapimodels.AttendanceView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, attendanceapimodels.AttendanceConvert(rec))
	}
	return list, nil
}

// Adjust lets an admin correct a record, recalculating the derived durations
// from the corrected times.
func (i impl) Adjust(adminID, id string, data attendanceapimodels.AdjustData) error {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return models.NewError(models.KindNotFound, "attendance record not found")
	}
	if data.LoginTime != nil {
		rec.LoginTime = *data.LoginTime
	}
	if data.LogoutTime != nil {
		rec.LogoutTime = data.LogoutTime
	}
	rec.CalculateDurations()
	now := time.Now()
	updMap := map[string]interface{}{
		"login_time":       rec.LoginTime,
		"adjusted_by_id":   adminID,
		"adjusted_at":      &now,
		"adjustment_notes": data.AdjustmentNotes,
	}
	if rec.LogoutTime != nil {
		status := models.AttendancePresent
		if rec.NetWorkingMinutes < models.HalfDayHours*60 {
			status = models.AttendanceHalfDay
		}
		updMap["logout_time"] = rec.LogoutTime
		updMap["total_break_minutes"] = rec.TotalBreakMinutes
		updMap["gross_working_minutes"] = rec.GrossWorkingMinutes
		updMap["net_working_minutes"] = rec.NetWorkingMinutes
		updMap["status"] = status
	}
	err = i.store.Update(id, updMap)
	if err != nil {
		return err
	}
	i.getLogger(rec.UserID).
		WithField("attendance_id", id).
		WithField("adjusted_by", adminID).
		Info("attendance adjusted")
	return nil
}
