package dbmodels

import (
	"teamtrack-backend/models"
	"time"
)

// Attendance is the working-day record: exactly one per (user, calendar day),
// enforced by the composite unique index.
type Attendance struct {
	BaseModel
	UserID string `gorm:"type:varchar(36);uniqueIndex:idx_attendance_user_day"`
	User   *User
	Day    time.Time `gorm:"uniqueIndex:idx_attendance_user_day"`

	LoginTime  time.Time
	LogoutTime *time.Time

	Breaks []AttendanceBreak `gorm:"foreignKey:AttendanceID"`

	TotalBreakMinutes   int `gorm:"default:0"`
	GrossWorkingMinutes int `gorm:"default:0"`
	NetWorkingMinutes   int `gorm:"default:0"`

	Status models.AttendanceStatus `gorm:"type:varchar(20);index"`

	LoginIP     string `gorm:"type:varchar(45)"`
	LoginDevice string
	LogoutIP    string `gorm:"type:varchar(45)"`

	AdjustedByID    string `gorm:"type:varchar(36)"`
	AdjustedAt      *time.Time
	AdjustmentNotes string
}

// ActiveBreak returns the open break, if any. The partial unique index on
// (attendance_id) WHERE is_active guarantees at most one.
func (a Attendance) ActiveBreak() *AttendanceBreak {
	for i := range a.Breaks {
		if a.Breaks[i].IsActive {
			return &a.Breaks[i]
		}
	}
	return nil
}

// CanTakeBreak applies the break eligibility rules in order: no active break,
// then the daily count cap, then the cumulative minutes cap.
func (a Attendance) CanTakeBreak() error {
	if a.ActiveBreak() != nil {
		return models.NewError(models.KindInvalidState, "already on a break")
	}
	if len(a.Breaks) >= models.MaxBreaksPerDay {
		return models.NewError(models.KindInvalidState, "maximum breaks per day reached")
	}
	if a.TotalBreakMinutes >= models.MaxTotalBreakMinutes {
		return models.NewError(models.KindInvalidState, "daily break budget exhausted")
	}
	return nil
}

// CalculateDurations re-derives the working-time metrics from the login/logout
// pair and the full break list. No-op until clock-out.
func (a *Attendance) CalculateDurations() {
	if a.LogoutTime == nil {
		return
	}
	a.GrossWorkingMinutes = int(a.LogoutTime.Sub(a.LoginTime).Minutes())
	total := 0
	for _, brk := range a.Breaks {
		total += brk.Duration
	}
	a.TotalBreakMinutes = total
	a.NetWorkingMinutes = a.GrossWorkingMinutes - a.TotalBreakMinutes
}

type AttendanceBreak struct {
	BaseModel
	AttendanceID string           `gorm:"type:varchar(36);index"`
	BreakType    models.BreakType `gorm:"type:varchar(20)"`
	StartTime    time.Time
	EndTime      *time.Time
	Duration     int `gorm:"default:0"` // minutes
	IsActive     bool
	Notes        string
}
