package taskapimodels

import (
	"teamtrack-backend/models"
	apimodels "teamtrack-backend/models/api"
	timelogapimodels "teamtrack-backend/models/api/timelog"
	dbmodels "teamtrack-backend/models/db"
	"time"
)

type TaskData struct {
	ProjectID      string              `json:"project_id" validate:"required"`
	Title          string              `json:"title" validate:"required"`
	Description    string              `json:"description" validate:"required"`
	AssignedToID   string              `json:"assigned_to_id" validate:"required"`
	EstimatedTime  float64             `json:"estimated_time" validate:"required,gt=0"` // hours
	DueDate        time.Time           `json:"due_date" validate:"required"`
	Priority       models.TaskPriority `json:"priority"`
	Tags           []string            `json:"tags"`
	AttachmentURLs []string            `json:"attachment_urls"`
}

func (r TaskData) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if r.Priority != "" && !r.Priority.IsValid() {
		return models.NewError(models.KindValidation, "unknown priority")
	}
	return nil
}

type TaskPatchData struct {
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Priority      models.TaskPriority `json:"priority"`
	EstimatedTime float64             `json:"estimated_time"`
	DueDate       *time.Time          `json:"due_date"`
}

func (r TaskPatchData) Validate() error {
	if r.Priority != "" && !r.Priority.IsValid() {
		return models.NewError(models.KindValidation, "unknown priority")
	}
	if r.EstimatedTime < 0 {
		return models.NewError(models.KindValidation, "estimated time must be positive")
	}
	return nil
}

type RejectData struct {
	Reason string `json:"reason" validate:"required"`
}

func (r RejectData) Validate() error {
	return apimodels.ValidateStruct(r)
}

type ReassignData struct {
	NewAssigneeID string `json:"new_assignee_id" validate:"required"`
	Reason        string `json:"reason"`
}

func (r ReassignData) Validate() error {
	return apimodels.ValidateStruct(r)
}

type UpdateData struct {
	UpdateType     models.TaskUpdateType `json:"update_type" validate:"required"`
	Description    string                `json:"description" validate:"required"`
	AttachmentURLs []string              `json:"attachment_urls"`
}

func (r UpdateData) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if !r.UpdateType.IsValid() {
		return models.NewError(models.KindValidation, "unknown update type")
	}
	return nil
}

type SubtaskData struct {
	Title string `json:"title" validate:"required"`
}

func (r SubtaskData) Validate() error {
	return apimodels.ValidateStruct(r)
}

type TaskView struct {
	ID              string     `json:"id"`
	ProjectID       string     `json:"project_id"`
	ProjectTitle    string     `json:"project_title,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	AssignedToID    string     `json:"assigned_to_id"`
	AssignedTo      string     `json:"assigned_to,omitempty"`
	AssignedByID    string     `json:"assigned_by_id"`
	AssignedBy      string     `json:"assigned_by,omitempty"`
	ApprovalStatus  string     `json:"approval_status"`
	ApprovedByID    string     `json:"approved_by_id,omitempty"`
	ApprovalDate    *time.Time `json:"approval_date,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	EstimatedTime   float64    `json:"estimated_time"`
	ActualTime      int        `json:"actual_time"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	DueDate         time.Time  `json:"due_date"`
	Tags            []string   `json:"tags,omitempty"`
	AttachmentURLs  []string   `json:"attachment_urls,omitempty"`
	ReassignedAt    *time.Time `json:"reassigned_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func TaskConvert(rec dbmodels.Task) TaskView {
	view := TaskView{
		ID:              rec.ID,
		ProjectID:       rec.ProjectID,
		Title:           rec.Title,
		Description:     rec.Description,
		AssignedToID:    rec.AssignedToID,
		AssignedByID:    rec.AssignedByID,
		ApprovalStatus:  string(rec.ApprovalStatus),
		ApprovedByID:    rec.ApprovedByID,
		ApprovalDate:    rec.ApprovalDate,
		RejectionReason: rec.RejectionReason,
		Status:          string(rec.Status),
		Priority:        string(rec.Priority),
		EstimatedTime:   rec.EstimatedTime,
		ActualTime:      rec.ActualTime,
		StartedAt:       rec.StartedAt,
		CompletedAt:     rec.CompletedAt,
		DueDate:         rec.DueDate,
		Tags:            rec.Tags,
		AttachmentURLs:  rec.AttachmentURLs,
		ReassignedAt:    rec.ReassignedAt,
		CreatedAt:       rec.CreatedAt,
	}
	if rec.Project != nil {
		view.ProjectTitle = rec.Project.Title
	}
	if rec.AssignedTo != nil {
		view.AssignedTo = rec.AssignedTo.Name
	}
	if rec.AssignedBy != nil {
		view.AssignedBy = rec.AssignedBy.Name
	}
	return view
}

type UpdateView struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	UserName       string    `json:"user_name,omitempty"`
	UpdateType     string    `json:"update_type"`
	Description    string    `json:"description"`
	AttachmentURLs []string  `json:"attachment_urls,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func UpdateConvert(rec dbmodels.TaskUpdate) UpdateView {
	view := UpdateView{
		ID:             rec.ID,
		UserID:         rec.UserID,
		UpdateType:     string(rec.UpdateType),
		Description:    rec.Description,
		AttachmentURLs: rec.AttachmentURLs,
		CreatedAt:      rec.CreatedAt,
	}
	if rec.User != nil {
		view.UserName = rec.User.Name
	}
	return view
}

type SubtaskView struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func SubtaskConvert(rec dbmodels.TaskSubtask) SubtaskView {
	return SubtaskView{
		ID:          rec.ID,
		Title:       rec.Title,
		IsCompleted: rec.IsCompleted,
		CompletedAt: rec.CompletedAt,
		CreatedAt:   rec.CreatedAt,
	}
}

type TaskFilter struct {
	apimodels.Pagination
	ProjectID      string                    `json:"project_id"`
	AssignedToID   string                    `json:"assigned_to_id"`
	AssignedByID   string                    `json:"assigned_by_id"`
	Status         models.TaskStatus         `json:"status"`
	ApprovalStatus models.TaskApprovalStatus `json:"approval_status"`
	Priority       models.TaskPriority       `json:"priority"`
}

type DetailsView struct {
	Task                TaskView                       `json:"task"`
	Updates             []UpdateView                   `json:"updates"`
	Subtasks            []SubtaskView                  `json:"subtasks"`
	TimeLogs            []timelogapimodels.TimeLogView `json:"time_logs"`
	TotalTrackedMinutes int                            `json:"total_tracked_minutes"`
}

type TaskStats struct {
	Total           int64 `json:"total"`
	NotStarted      int64 `json:"not_started"`
	InProgress      int64 `json:"in_progress"`
	Completed       int64 `json:"completed"`
	PendingApproval int64 `json:"pending_approval"`
}
