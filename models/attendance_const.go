package models

import "time"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceHalfDay AttendanceStatus = "half-day"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceOnLeave AttendanceStatus = "on-leave"
	AttendanceHoliday AttendanceStatus = "holiday"
	AttendanceWeekend AttendanceStatus = "weekend"
)

type BreakType string

const (
	BreakTypeTea      BreakType = "tea-break"
	BreakTypeLunch    BreakType = "lunch-break"
	BreakTypeShort    BreakType = "short-break"
	BreakTypePersonal BreakType = "personal"
)

func (b BreakType) IsValid() bool {
	switch b {
	case BreakTypeTea, BreakTypeLunch, BreakTypeShort, BreakTypePersonal:
		return true
	}
	return false
}

// Attendance business rules, fixed at deploy time.
const (
	MaxBreaksPerDay = 4
	// MaxBreakDurationMinutes is a reporting threshold only. Exceeding it
	// triggers a notification when the break ends but never blocks the break.
	MaxBreakDurationMinutes = 15
	MaxTotalBreakMinutes    = 60
	StandardWorkHours       = 8
	HalfDayHours            = 4
	LateArrivalMinutes      = 30
	EarlyDepartureMinutes   = 30
)

// Reference times for late-arrival / early-departure reporting.
var (
	WorkDayStartHour = 9
	WorkDayEndHour   = 18
)

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsLateArrival reports whether loginTime is past the morning grace window.
func IsLateArrival(loginTime time.Time) bool {
	limit := time.Date(loginTime.Year(), loginTime.Month(), loginTime.Day(),
		WorkDayStartHour, LateArrivalMinutes, 0, 0, loginTime.Location())
	return loginTime.After(limit)
}

// IsEarlyDeparture reports whether logoutTime is before the evening grace window.
func IsEarlyDeparture(logoutTime time.Time) bool {
	limit := time.Date(logoutTime.Year(), logoutTime.Month(), logoutTime.Day(),
		WorkDayEndHour-1, 60-EarlyDepartureMinutes, 0, 0, logoutTime.Location())
	return logoutTime.Before(limit)
}
