package models

type NotificationType string

const (
	NotificationTaskAssigned       NotificationType = "task_assigned"
	NotificationTaskApproved       NotificationType = "task_approved"
	NotificationTaskRejected       NotificationType = "task_rejected"
	NotificationTaskCompleted      NotificationType = "task_completed"
	NotificationTaskReassigned     NotificationType = "task_reassigned"
	NotificationProjectCreated     NotificationType = "project_created"
	NotificationUserCreated        NotificationType = "user_created"
	NotificationDueDateApproaching NotificationType = "due_date_approaching"
	NotificationTaskOverdue        NotificationType = "task_overdue"
	NotificationAttendanceReminder NotificationType = "attendance_reminder"
	NotificationForgotClockOut     NotificationType = "forgot_clock_out"
	NotificationBreakExceeded      NotificationType = "break_exceeded"
)

type ReferenceType string

const (
	ReferenceTask    ReferenceType = "task"
	ReferenceProject ReferenceType = "project"
	ReferenceUser    ReferenceType = "user"
)
