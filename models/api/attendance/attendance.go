package attendanceapimodels

import (
	"teamtrack-backend/models"
	apimodels "teamtrack-backend/models/api"
	dbmodels "teamtrack-backend/models/db"
	"time"
)

type ClockInData struct {
	IP     string `json:"ip"`
	Device string `json:"device"`
}

type BreakStartData struct {
	BreakType models.BreakType `json:"break_type"`
	Notes     string           `json:"notes"`
}

func (r BreakStartData) Validate() error {
	if r.BreakType != "" && !r.BreakType.IsValid() {
		return models.NewError(models.KindValidation, "unknown break type")
	}
	return nil
}

type AdjustData struct {
	LoginTime       *time.Time `json:"login_time"`
	LogoutTime      *time.Time `json:"logout_time"`
	AdjustmentNotes string     `json:"adjustment_notes" validate:"required"`
}

func (r AdjustData) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if r.LoginTime == nil && r.LogoutTime == nil {
		return models.NewError(models.KindValidation, "nothing to adjust")
	}
	return nil
}

type BreakView struct {
	ID        string     `json:"id"`
	BreakType string     `json:"break_type"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Duration  int        `json:"duration"` // minutes
	IsActive  bool       `json:"is_active"`
	Notes     string     `json:"notes,omitempty"`
}

type AttendanceView struct {
	ID                  string      `json:"id"`
	UserID              string      `json:"user_id"`
	UserName            string      `json:"user_name,omitempty"`
	Day                 time.Time   `json:"day"`
	LoginTime           time.Time   `json:"login_time"`
	LogoutTime          *time.Time  `json:"logout_time,omitempty"`
	Breaks              []BreakView `json:"breaks"`
	TotalBreakMinutes   int         `json:"total_break_minutes"`
	GrossWorkingMinutes int         `json:"gross_working_minutes"`
	NetWorkingMinutes   int         `json:"net_working_minutes"`
	Status              string      `json:"status"`
	AdjustedByID        string      `json:"adjusted_by_id,omitempty"`
	AdjustedAt          *time.Time  `json:"adjusted_at,omitempty"`
	AdjustmentNotes     string      `json:"adjustment_notes,omitempty"`
}

func BreakConvert(rec dbmodels.AttendanceBreak) BreakView {
	return BreakView{
		ID:        rec.ID,
		BreakType: string(rec.BreakType),
		StartTime: rec.StartTime,
		EndTime:   rec.EndTime,
		Duration:  rec.Duration,
		IsActive:  rec.IsActive,
		Notes:     rec.Notes,
	}
}

func AttendanceConvert(rec dbmodels.Attendance) AttendanceView {
	view := AttendanceView{
		ID:                  rec.ID,
		UserID:              rec.UserID,
		Day:                 rec.Day,
		LoginTime:           rec.LoginTime,
		LogoutTime:          rec.LogoutTime,
		Breaks:              make([]BreakView, 0, len(rec.Breaks)),
		TotalBreakMinutes:   rec.TotalBreakMinutes,
		GrossWorkingMinutes: rec.GrossWorkingMinutes,
		NetWorkingMinutes:   rec.NetWorkingMinutes,
		Status:              string(rec.Status),
		AdjustedByID:        rec.AdjustedByID,
		AdjustedAt:          rec.AdjustedAt,
		AdjustmentNotes:     rec.AdjustmentNotes,
	}
	if rec.User != nil {
		view.UserName = rec.User.Name
	}
	for _, brk := range rec.Breaks {
		view.Breaks = append(view.Breaks, BreakConvert(brk))
	}
	return view
}

// StatusView is the "where am I now" answer. Empty state (nil Attendance)
// means not clocked in today.
type StatusView struct {
	IsClockedIn bool            `json:"is_clocked_in"`
	IsOnBreak   bool            `json:"is_on_break"`
	ActiveBreak *BreakView      `json:"active_break,omitempty"`
	Attendance  *AttendanceView `json:"attendance,omitempty"`
}

type HistoryFilter struct {
	apimodels.Pagination
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

type AdminFilter struct {
	apimodels.Pagination
	UserID    string                  `json:"user_id"`
	Status    models.AttendanceStatus `json:"status"`
	Date      *time.Time              `json:"date"`
	StartDate *time.Time              `json:"start_date"`
	EndDate   *time.Time              `json:"end_date"`
}

type SummaryView struct {
	TotalDays         int     `json:"total_days"`
	PresentDays       int     `json:"present_days"`
	HalfDays          int     `json:"half_days"`
	TotalWorkingHours float64 `json:"total_working_hours"`
	TotalBreakHours   float64 `json:"total_break_hours"`
	AverageWorkHours  float64 `json:"average_work_hours"`
	LateArrivals      int     `json:"late_arrivals"`
	EarlyDepartures   int     `json:"early_departures"`
}
