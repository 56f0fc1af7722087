package models

type TaskApprovalStatus string

const (
	// TaskApprovalPending - assigned at team-lead level, waiting for superadmin sign-off.
	TaskApprovalPending TaskApprovalStatus = "pending"
	// TaskApprovalPendingTeamLead - assigned by a project lead, waiting for team-lead sign-off.
	TaskApprovalPendingTeamLead TaskApprovalStatus = "pending_teamlead"
	TaskApprovalApproved        TaskApprovalStatus = "approved"
	TaskApprovalRejected        TaskApprovalStatus = "rejected"
)

type TaskStatus string

const (
	TaskStatusNotStarted        TaskStatus = "not-started"
	TaskStatusInProgress        TaskStatus = "in-progress"
	TaskStatusCompleted         TaskStatus = "completed"
	TaskStatusCancelled         TaskStatus = "cancelled"
	TaskStatusBackToProjectLead TaskStatus = "back_to_projectlead"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type TimeEntryType string

const (
	TimeEntryAutomatic TimeEntryType = "automatic"
	TimeEntryManual    TimeEntryType = "manual"
)

type TaskUpdateType string

const (
	TaskUpdateProgress   TaskUpdateType = "progress"
	TaskUpdateIssue      TaskUpdateType = "issue"
	TaskUpdateComment    TaskUpdateType = "comment"
	TaskUpdateFile       TaskUpdateType = "file"
	TaskUpdateCompletion TaskUpdateType = "completion"
)

func (t TaskUpdateType) IsValid() bool {
	switch t {
	case TaskUpdateProgress, TaskUpdateIssue, TaskUpdateComment, TaskUpdateFile, TaskUpdateCompletion:
		return true
	}
	return false
}

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOnHold    ProjectStatus = "on-hold"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}
