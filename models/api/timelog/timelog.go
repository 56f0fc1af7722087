package timelogapimodels

import (
	"teamtrack-backend/models"
	apimodels "teamtrack-backend/models/api"
	dbmodels "teamtrack-backend/models/db"
	"time"
)

type ManualEntryData struct {
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Description string    `json:"description"`
}

func (r ManualEntryData) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if !r.EndTime.After(r.StartTime) {
		return models.NewError(models.KindValidation, "end time must be after start time")
	}
	return nil
}

type TimeLogView struct {
	ID          string     `json:"id"`
	TaskID      string     `json:"task_id"`
	UserID      string     `json:"user_id"`
	UserName    string     `json:"user_name,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Duration    int        `json:"duration"` // minutes
	Description string     `json:"description,omitempty"`
	EntryType   string     `json:"entry_type"`
}

func TimeLogConvert(rec dbmodels.TaskTimeLog) TimeLogView {
	view := TimeLogView{
		ID:          rec.ID,
		TaskID:      rec.TaskID,
		UserID:      rec.UserID,
		StartTime:   rec.StartTime,
		EndTime:     rec.EndTime,
		Duration:    rec.Duration,
		Description: rec.Description,
		EntryType:   string(rec.EntryType),
	}
	if rec.User != nil {
		view.UserName = rec.User.Name
	}
	return view
}

type TimeLogFilter struct {
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}
