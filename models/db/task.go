package dbmodels

import (
	"teamtrack-backend/models"
	"time"

	"github.com/lib/pq"
)

type Task struct {
	BaseModel
	ProjectID   string `gorm:"type:varchar(36);index"`
	Project     *Project
	Title       string `gorm:"type:varchar(255)"`
	Description string

	AssignedToID string `gorm:"type:varchar(36);index"`
	AssignedTo   *User  `gorm:"foreignKey:AssignedToID"`
	AssignedByID string `gorm:"type:varchar(36);index"`
	AssignedBy   *User  `gorm:"foreignKey:AssignedByID"`

	ApprovalStatus  models.TaskApprovalStatus `gorm:"type:varchar(20);index"`
	ApprovedByID    string                    `gorm:"type:varchar(36)"`
	ApprovedBy      *User                     `gorm:"foreignKey:ApprovedByID"`
	ApprovalDate    *time.Time
	RejectionReason string

	Status   models.TaskStatus   `gorm:"type:varchar(20);index"`
	Priority models.TaskPriority `gorm:"type:varchar(10)"`

	// EstimatedTime is in hours, ActualTime in minutes. ActualTime is always
	// re-derived as the sum over the task's time logs, never incremented.
	EstimatedTime float64
	ActualTime    int

	StartedAt   *time.Time
	CompletedAt *time.Time
	DueDate     time.Time `gorm:"index"`

	Tags pq.StringArray `gorm:"type:text[]"`

	AttachmentURLs pq.StringArray `gorm:"type:text[]"`

	ReassignedByID     string `gorm:"type:varchar(36)"`
	ReassignedAt       *time.Time
	ReassignmentReason string
}

type TaskTimeLog struct {
	BaseModel
	TaskID      string `gorm:"type:varchar(36);index:idx_timelog_task"`
	UserID      string `gorm:"type:varchar(36);index:idx_timelog_user"`
	User        *User
	StartTime   time.Time
	EndTime     *time.Time
	Duration    int `gorm:"default:0"` // minutes
	Description string
	EntryType   models.TimeEntryType `gorm:"type:varchar(10)"`
}

type TaskUpdate struct {
	BaseModel
	TaskID         string `gorm:"type:varchar(36);index"`
	UserID         string `gorm:"type:varchar(36)"`
	User           *User
	UpdateType     models.TaskUpdateType `gorm:"type:varchar(20)"`
	Description    string
	AttachmentURLs pq.StringArray `gorm:"type:text[]"`
}

type TaskSubtask struct {
	BaseModel
	TaskID      string `gorm:"type:varchar(36);index"`
	Title       string `gorm:"type:varchar(255)"`
	CreatedByID string `gorm:"type:varchar(36)"`
	IsCompleted bool
	CompletedAt *time.Time
}
