package taskhandler

import (
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"teamtrack-backend/db"
	notificationhandler "teamtrack-backend/lib/notification"
	membersstore "teamtrack-backend/lib/project/member-store"
	projectstore "teamtrack-backend/lib/project/store"
	taskstore "teamtrack-backend/lib/task/store"
	subtaskstore "teamtrack-backend/lib/task/subtask-store"
	updatestore "teamtrack-backend/lib/task/update-store"
	timelogstore "teamtrack-backend/lib/time-log/store"
	usersstore "teamtrack-backend/lib/users/store"
	"teamtrack-backend/models"
	taskapimodels "teamtrack-backend/models/api/task"
	timelogapimodels "teamtrack-backend/models/api/timelog"
	dbmodels "teamtrack-backend/models/db"

	"github.com/lib/pq"
)

type Provider interface {
	Create(assignerID string, assignerRole models.GlobalRole, data taskapimodels.TaskData) (id string, err error)
	GetByID(id string) (view taskapimodels.TaskView, err error)
	GetDetails(id string) (view taskapimodels.DetailsView, err error)
	Patch(actorID string, actorRole models.GlobalRole, id string, data taskapimodels.TaskPatchData) error
	Approve(approverID string, approverRole models.GlobalRole, id string) error
	Reject(approverID string, approverRole models.GlobalRole, id string, data taskapimodels.RejectData) error
	Start(userID, id string) error
	Complete(userID, id string) error
	Reassign(actorID string, actorRole models.GlobalRole, id string, data taskapimodels.ReassignData) error
	AddUpdate(userID, id string, data taskapimodels.UpdateData) (updateID string, err error)
	AddSubtask(userID, id string, data taskapimodels.SubtaskData) (subtaskID string, err error)
	ToggleSubtask(userID, id, subtaskID string) error
	List(filter taskapimodels.TaskFilter) (list []taskapimodels.TaskView, rowCount int64, err error)
	MyTasks(userID string, filter taskapimodels.TaskFilter) (list []taskapimodels.TaskView, rowCount int64, err error)
	AssignedTasks(userID string, filter taskapimodels.TaskFilter) (list []taskapimodels.TaskView, rowCount int64, err error)
	PendingApprovals(approverRole models.GlobalRole) (list []taskapimodels.TaskView, err error)
	MyStats(userID string) (stats taskapimodels.TaskStats, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:        taskstore.NewInstance(db.DB),
		updateStore:  updatestore.NewInstance(db.DB),
		subtaskStore: subtaskstore.NewInstance(db.DB),
		timeLogStore: timelogstore.NewInstance(db.DB),
		projectStore: projectstore.NewInstance(db.DB),
		memberStore:  membersstore.NewInstance(db.DB),
		userStore:    usersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store        taskstore.Provider
	updateStore  updatestore.Provider
	subtaskStore subtaskstore.Provider
	timeLogStore timelogstore.Provider
	projectStore projectstore.Provider
	memberStore  membersstore.Provider
	userStore    usersstore.Provider
}

func (i impl) getLogger(taskID, userID string) *log.Entry {
	logger := log.WithField("task_id", taskID)
	if userID != "" {
		logger = logger.WithField("user_id", userID)
	}
	return logger
}

// approvalTier resolves which approval queue a new task lands in, based on
// who is assigning it. Only a superadmin may assign without holding an active
// membership; for everyone else the per-project role wins over the global one.
func (i impl) approvalTier(assignerID string, assignerRole models.GlobalRole, projectID string) (models.TaskApprovalStatus, error) {
	if assignerRole == models.RoleSuperAdmin {
		return models.TaskApprovalPending, nil
	}
	member, err := i.memberStore.GetActive(projectID, assignerID)
	if err != nil {
		return "", err
	}
	if member == nil {
		return "", models.NewError(models.KindPermission, "not a member of this project")
	}
	if assignerRole == models.RoleTeamLead {
		return models.TaskApprovalPending, nil
	}
	switch member.RoleInProject {
	case models.ProjectRoleTeamLead:
		return models.TaskApprovalPending, nil
	case models.ProjectRoleProjectLead:
		return models.TaskApprovalPendingTeamLead, nil
	}
	return "", models.NewError(models.KindPermission, "not allowed to assign tasks in this project")
}

func (i impl) Create(assignerID string, assignerRole models.GlobalRole, data taskapimodels.TaskData) (id string, err error) {
	project, err := i.projectStore.GetByID(data.ProjectID)
	if err != nil {
		return "", err
	}
	if project == nil {
		return "", models.NewError(models.KindNotFound, "project not found")
	}
	tier, err := i.approvalTier(assignerID, assignerRole, data.ProjectID)
	if err != nil {
		return "", err
	}
	assignee, err := i.memberStore.GetActive(data.ProjectID, data.AssignedToID)
	if err != nil {
		return "", err
	}
	if assignee == nil {
		return "", models.NewError(models.KindValidation, "assignee is not an active member of this project")
	}
	priority := data.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	rec := dbmodels.Task{
		ProjectID:      data.ProjectID,
		Title:          data.Title,
		Description:    data.Description,
		AssignedToID:   data.AssignedToID,
		AssignedByID:   assignerID,
		ApprovalStatus: tier,
		Status:         models.TaskStatusNotStarted,
		Priority:       priority,
		EstimatedTime:  data.EstimatedTime,
		DueDate:        data.DueDate,
		Tags:           pq.StringArray(data.Tags),
		AttachmentURLs: pq.StringArray(data.AttachmentURLs),
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", err
	}
	notificationhandler.Instance.Send(data.AssignedToID, models.NotificationTaskAssigned,
		"New task assigned",
		"You have been assigned task: "+data.Title,
		id, models.ReferenceTask)
	i.notifyApprovers(tier, data.ProjectID, id, data.Title)
	i.getLogger(id, assignerID).
		WithField("approval_status", string(tier)).
		Info("task created")
	return id, nil
}

// notifyApprovers pings whoever can act on the task's approval queue.
func (i impl) notifyApprovers(tier models.TaskApprovalStatus, projectID, taskID, title string) {
	switch tier {
	case models.TaskApprovalPending:
		admins, err := i.userStore.ListByRole([]models.GlobalRole{models.RoleSuperAdmin})
		if err != nil {
			i.getLogger(taskID, "").WithError(err).Error("failed to resolve approvers")
			return
		}
		ids := make([]string, 0, len(admins))
		for _, admin := range admins {
			ids = append(ids, admin.ID)
		}
		notificationhandler.Instance.SendBatch(ids, models.NotificationTaskAssigned,
			"Task awaiting approval",
			"Task awaiting your approval: "+title,
			taskID, models.ReferenceTask)
	case models.TaskApprovalPendingTeamLead:
		leads, err := i.userStore.ListByRole([]models.GlobalRole{models.RoleTeamLead})
		if err != nil {
			i.getLogger(taskID, "").WithError(err).Error("failed to resolve approvers")
			return
		}
		ids := make([]string, 0, len(leads))
		for _, lead := range leads {
			ids = append(ids, lead.ID)
		}
		projectLeads, err := i.memberStore.ListByProjectRole(projectID, models.ProjectRoleTeamLead)
		if err == nil {
			for _, member := range projectLeads {
				ids = append(ids, member.UserID)
			}
		}
		notificationhandler.Instance.SendBatch(ids, models.NotificationTaskAssigned,
			"Task awaiting team lead approval",
			"Task awaiting your approval: "+title,
			taskID, models.ReferenceTask)
	}
}

func (i impl) getTask(id string) (*dbmodels.Task, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, models.NewError(models.KindNotFound, "task not found")
	}
	return rec, nil
}

// canApprove checks the exact tier an approver may act on. A superadmin
// handles the pending queue, a team lead (global or in-project) handles the
// pending_teamlead queue; neither may act on the other queue.
func (i impl) canApprove(approverID string, approverRole models.GlobalRole, rec *dbmodels.Task) error {
	switch rec.ApprovalStatus {
	case models.TaskApprovalPending:
		if approverRole != models.RoleSuperAdmin {
			return models.NewError(models.KindPermission, "only a superadmin can act on this task")
		}
	case models.TaskApprovalPendingTeamLead:
		if approverRole == models.RoleTeamLead {
			return nil
		}
		member, err := i.memberStore.GetActive(rec.ProjectID, approverID)
		if err != nil {
			return err
		}
		if member == nil || member.RoleInProject != models.ProjectRoleTeamLead {
			return models.NewError(models.KindPermission, "only a team lead can act on this task")
		}
	default:
		return models.NewError(models.KindInvalidState, "task is not awaiting approval")
	}
	return nil
}

func (i impl) Approve(approverID string, approverRole models.GlobalRole, id string) error {
	rec, err := i.getTask(id)
	if err != nil {
		return err
	}
	err = i.canApprove(approverID, approverRole, rec)
	if err != nil {
		return err
	}
	now := time.Now()
	err = i.store.Update(id, map[string]interface{}{
		"approval_status": models.TaskApprovalApproved,
		"approved_by_id":  approverID,
		"approval_date":   &now,
	})
	if err != nil {
		return err
	}
	notificationhandler.Instance.SendBatch([]string{rec.AssignedToID, rec.AssignedByID},
		models.NotificationTaskApproved,
		"Task approved",
		"Task has been approved: "+rec.Title,
		id, models.ReferenceTask)
	i.getLogger(id, approverID).Info("task approved")
	return nil
}

func (i impl) Reject(approverID string, approverRole models.GlobalRole, id string, data taskapimodels.RejectData) error {
	rec, err := i.getTask(id)
	if err != nil {
		return err
	}
	err = i.canApprove(approverID, approverRole, rec)
	if err != nil {
		return err
	}
	// superadmin rejection kills the task; team-lead rejection sends it back
	// to the project lead for rework
	newStatus := models.TaskStatusCancelled
	if rec.ApprovalStatus == models.TaskApprovalPendingTeamLead {
		newStatus = models.TaskStatusBackToProjectLead
	}
	err = i.store.Update(id, map[string]interface{}{
		"approval_status":  models.TaskApprovalRejected,
		"approved_by_id":   approverID,
		"rejection_reason": data.Reason,
		"status":           newStatus,
	})
	if err != nil {
		return err
	}
	notificationhandler.Instance.SendBatch([]string{rec.AssignedToID, rec.AssignedByID},
		models.NotificationTaskRejected,
		"Task rejected",
		"Task has been rejected: "+rec.Title+". Reason: "+data.Reason,
		id, models.ReferenceTask)
	i.getLogger(id, approverID).
		WithField("new_status", string(newStatus)).
		Info("task rejected")
	return nil
}

func (i impl) Start(userID, id string) error {
	rec, err := i.getTask(id)
	if err != nil {
		return err
	}
	if rec.AssignedToID != userID {
		return models.NewError(models.KindOwnership, "task is assigned to another user")
	}
	if rec.ApprovalStatus == models.TaskApprovalPendingTeamLead {
		return models.NewError(models.KindInvalidState, "task is awaiting team lead approval")
	}
	switch rec.Status {
	case models.TaskStatusInProgress:
		return models.NewError(models.KindInvalidState, "task is already in progress")
	case models.TaskStatusCompleted, models.TaskStatusCancelled:
		return models.NewError(models.KindInvalidState, "task is closed")
	}
	now := time.Now()
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		updMap := map[string]interface{}{
			"status": models.TaskStatusInProgress,
		}
		if rec.StartedAt == nil {
			updMap["started_at"] = &now
		}
		err := taskstore.NewInstance(tx).Update(id, updMap)
		if err != nil {
			return err
		}
		_, err = timelogstore.NewInstance(tx).Create(dbmodels.TaskTimeLog{
			TaskID:    id,
			UserID:    userID,
			StartTime: now,
			EntryType: models.TimeEntryAutomatic,
		})
		if err != nil {
			return err
		}
		_, err = updatestore.NewInstance(tx).Create(dbmodels.TaskUpdate{
			TaskID:      id,
			UserID:      userID,
			UpdateType:  models.TaskUpdateProgress,
			Description: "Started working on the task",
		})
		return err
	})
	if err != nil {
		return err
	}
	i.getLogger(id, userID).Info("task started")
	return nil
}

func (i impl) Complete(userID, id string) error {
	rec, err := i.getTask(id)
	if err != nil {
		return err
	}
	if rec.AssignedToID != userID {
		return models.NewError(models.KindOwnership, "task is assigned to another user")
	}
	switch rec.Status {
	case models.TaskStatusCompleted:
		return models.NewError(models.KindInvalidState, "task is already completed")
	case models.TaskStatusCancelled:
		return models.NewError(models.KindInvalidState, "task is cancelled")
	case models.TaskStatusNotStarted, models.TaskStatusBackToProjectLead:
		return models.NewError(models.KindInvalidState, "task has not been started")
	}
	now := time.Now()
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		logStore := timelogstore.NewInstance(tx)
		_, err := logStore.CloseOpen(id, userID, now)
		if err != nil && !models.IsKind(err, models.KindInvalidState) {
			return err
		}
		// actual time is re-derived over the full set of logs, not incremented
		total, err := logStore.SumDurationByTask(id)
		if err != nil {
			return err
		}
		err = taskstore.NewInstance(tx).Update(id, map[string]interface{}{
			"status":       models.TaskStatusCompleted,
			"completed_at": &now,
			"actual_time":  total,
		})
		if err != nil {
			return err
		}
		_, err = updatestore.NewInstance(tx).Create(dbmodels.TaskUpdate{
			TaskID:      id,
			UserID:      userID,
			UpdateType:  models.TaskUpdateCompletion,
			Description: "Task completed",
		})
		return err
	})
	if err != nil {
		return err
	}
	notificationhandler.Instance.Send(rec.AssignedByID, models.NotificationTaskCompleted,
		"Task completed",
		"Task has been completed: "+rec.Title,
		id, models.ReferenceTask)
	i.getLogger(id, userID).Info("task completed")
	return nil
}

func (i impl) Reassign(actorID string, actorRole models.GlobalRole, id string, data taskapimodels.ReassignData) error {
	if actorRole == models.RoleMember {
		return models.NewError(models.KindPermission, "not allowed to reassign tasks")
	}
	rec, err := i.getTask(id)
	if err != nil {
		return err
	}
	switch rec.Status {
	case models.TaskStatusCompleted, models.TaskStatusCancelled:
		return models.NewError(models.KindInvalidState, "task is closed")
	}
	assignee, err := i.memberStore.GetActive(rec.ProjectID, data.NewAssigneeID)
	if err != nil {
		return err
	}
	if assignee == nil {
		return models.NewError(models.KindValidation, "new assignee is not an active member of this project")
	}
	now := time.Now()
	// progress resets for the new assignee, the approval decision stands
	err = i.store.Update(id, map[string]interface{}{
		"assigned_to_id":      data.NewAssigneeID,
		"status":              models.TaskStatusNotStarted,
		"started_at":          nil,
		"reassigned_by_id":    actorID,
		"reassigned_at":       &now,
		"reassignment_reason": data.Reason,
	})
	if err != nil {
		return err
	}
	notificationhandler.Instance.Send(data.NewAssigneeID, models.NotificationTaskReassigned,
		"Task assigned to you",
		"Task has been reassigned to you: "+rec.Title,
		id, models.ReferenceTask)
	notificationhandler.Instance.Send(rec.AssignedToID, models.NotificationTaskReassigned,
		"Task reassigned",
		"Task has been reassigned to another user: "+rec.Title,
		id, models.ReferenceTask)
	i.getLogger(id, actorID).
		WithField("new_assignee_id", data.NewAssigneeID).
		Info("task reassigned")
	return nil
}

func (i impl) Patch(actorID string, actorRole models.GlobalRole, id string, data taskapimodels.TaskPatchData) error {
	rec, err := i.getTask(id)
	if err != nil {
		return err
	}
	if actorRole != models.RoleSuperAdmin && rec.AssignedByID != actorID {
		return models.NewError(models.KindPermission, "only the assigner can edit this task")
	}
	updMap := map[string]interface{}{}
	if data.Title != "" {
		updMap["title"] = data.Title
	}
	if data.Description != "" {
		updMap["description"] = data.Description
	}
	if data.Priority != "" {
		updMap["priority"] = data.Priority
	}
	if data.EstimatedTime > 0 {
		updMap["estimated_time"] = data.EstimatedTime
	}
	if data.DueDate != nil {
		updMap["due_date"] = *data.DueDate
	}
	if len(updMap) == 0 {
		return nil
	}
	return i.store.Update(id, updMap)
}

func (i impl) GetByID(id string) (view taskapimodels.TaskView, err error) {
	rec, err := i.getTask(id)
	if err != nil {
		return taskapimodels.TaskView{}, err
	}
	return taskapimodels.TaskConvert(*rec), nil
}

func (i impl) GetDetails(id string) (view taskapimodels.DetailsView, err error) {
	rec, err := i.getTask(id)
	if err != nil {
		return taskapimodels.DetailsView{}, err
	}
	view.Task = taskapimodels.TaskConvert(*rec)
	updates, err := i.updateStore.ListByTask(id)
	if err != nil {
		return taskapimodels.DetailsView{}, err
	}
	view.Updates = make([]taskapimodels.UpdateView, 0, len(updates))
	for _, upd := range updates {
		view.Updates = append(view.Updates, taskapimodels.UpdateConvert(upd))
	}
	subtasks, err := i.subtaskStore.ListByTask(id)
	if err != nil {
		return taskapimodels.DetailsView{}, err
	}
	view.Subtasks = make([]taskapimodels.SubtaskView, 0, len(subtasks))
	for _, sub := range subtasks {
		view.Subtasks = append(view.Subtasks, taskapimodels.SubtaskConvert(sub))
	}
	logs, err := i.timeLogStore.ListByTask(id)
	if err != nil {
		return taskapimodels.DetailsView{}, err
	}
	view.TimeLogs = make([]timelogapimodels.TimeLogView, 0, len(logs))
	for _, rec := range logs {
		view.TimeLogs = append(view.TimeLogs, timelogapimodels.TimeLogConvert(rec))
		view.TotalTrackedMinutes += rec.Duration
	}
	return view, nil
}

func (i impl) AddUpdate(userID, id string, data taskapimodels.UpdateData) (updateID string, err error) {
	rec, err := i.getTask(id)
	if err != nil {
		return "", err
	}
	if rec.AssignedToID != userID && rec.AssignedByID != userID {
		return "", models.NewError(models.KindOwnership, "task does not belong to you")
	}
	return i.updateStore.Create(dbmodels.TaskUpdate{
		TaskID:         id,
		UserID:         userID,
		UpdateType:     data.UpdateType,
		Description:    data.Description,
		AttachmentURLs: pq.StringArray(data.AttachmentURLs),
	})
}

func (i impl) AddSubtask(userID, id string, data taskapimodels.SubtaskData) (subtaskID string, err error) {
	rec, err := i.getTask(id)
	if err != nil {
		return "", err
	}
	if rec.AssignedToID != userID && rec.AssignedByID != userID {
		return "", models.NewError(models.KindOwnership, "task does not belong to you")
	}
	return i.subtaskStore.Create(dbmodels.TaskSubtask{
		TaskID:      id,
		Title:       data.Title,
		CreatedByID: userID,
	})
}

func (i impl) ToggleSubtask(userID, id, subtaskID string) error {
	rec, err := i.getTask(id)
	if err != nil {
		return err
	}
	if rec.AssignedToID != userID && rec.AssignedByID != userID {
		return models.NewError(models.KindOwnership, "task does not belong to you")
	}
	sub, err := i.subtaskStore.GetByID(subtaskID)
	if err != nil {
		return err
	}
	if sub == nil || sub.TaskID != id {
		return models.NewError(models.KindNotFound, "subtask not found")
	}
	updMap := map[string]interface{}{
		"is_completed": !sub.IsCompleted,
	}
	if !sub.IsCompleted {
		now := time.Now()
		updMap["completed_at"] = &now
	} else {
		updMap["completed_at"] = nil
	}
	return i.subtaskStore.Update(subtaskID, updMap)
}

func (i impl) List(filter taskapimodels.TaskFilter) (list []taskapimodels.TaskView, rowCount int64, err error) {
	recs, rowCount, err := i.store.List(filter)
	if err != nil {
		return nil, 0, err
	}
	list = make([]taskapimodels.TaskView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, taskapimodels.TaskConvert(rec))
	}
	return list, rowCount, nil
}

func (i impl) MyTasks(userID string, filter taskapimodels.TaskFilter) (list []taskapimodels.TaskView, rowCount int64, err error) {
	filter.AssignedToID = userID
	return i.List(filter)
}

func (i impl) AssignedTasks(userID string, filter taskapimodels.TaskFilter) (list []taskapimodels.TaskView, rowCount int64, err error) {
	filter.AssignedByID = userID
	return i.List(filter)
}

// PendingApprovals lists the queue the caller can act on.
func (i impl) PendingApprovals(approverRole models.GlobalRole) (list []taskapimodels.TaskView, err error) {
	var status models.TaskApprovalStatus
	switch approverRole {
	case models.RoleSuperAdmin:
		status = models.TaskApprovalPending
	case models.RoleTeamLead:
		status = models.TaskApprovalPendingTeamLead
	default:
		return nil, models.NewError(models.KindPermission, "no approval queue for this role")
	}
	recs, err := i.store.ListByApprovalStatus(status)
	if err != nil {
		return nil, err
	}
	list = make([]taskapimodels.TaskView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, taskapimodels.TaskConvert(rec))
	}
	return list, nil
}

func (i impl) MyStats(userID string) (stats taskapimodels.TaskStats, err error) {
	counts := map[models.TaskStatus]*int64{
		models.TaskStatusNotStarted: &stats.NotStarted,
		models.TaskStatusInProgress: &stats.InProgress,
		models.TaskStatusCompleted:  &stats.Completed,
	}
	for status, dst := range counts {
		*dst, err = i.store.CountByAssignee(userID, status)
		if err != nil {
			return taskapimodels.TaskStats{}, err
		}
	}
	stats.Total, err = i.store.CountByAssignee(userID, "")
	if err != nil {
		return taskapimodels.TaskStats{}, err
	}
	stats.PendingApproval, err = i.store.CountPendingApproval(userID)
	if err != nil {
		return taskapimodels.TaskStats{}, err
	}
	return stats, nil
}
