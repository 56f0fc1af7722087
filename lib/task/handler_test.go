package taskhandler

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"teamtrack-backend/db"
	notificationhandler "teamtrack-backend/lib/notification"
	"teamtrack-backend/models"
	taskapimodels "teamtrack-backend/models/api/task"
	dbmodels "teamtrack-backend/models/db"
)

func setupTest(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.Nil(t, err)
	sqlDB, err := gdb.DB()
	require.Nil(t, err)
	sqlDB.SetMaxOpenConns(1)
	db.DB = gdb
	require.Nil(t, db.AutoMigrateDB())
	notificationhandler.NewHandler()
	NewHandler()
}

func seedUser(t *testing.T, name string, role models.GlobalRole) dbmodels.User {
	rec := dbmodels.User{
		Name:       name,
		Email:      name + "@example.com",
		GlobalRole: role,
		IsActive:   true,
	}
	require.Nil(t, db.DB.Create(&rec).Error)
	return rec
}

func seedProject(t *testing.T, createdByID string) dbmodels.Project {
	rec := dbmodels.Project{
		Title:       "Internal portal",
		Status:      models.ProjectStatusActive,
		CreatedByID: createdByID,
	}
	require.Nil(t, db.DB.Create(&rec).Error)
	return rec
}

func seedMember(t *testing.T, projectID, userID string, role models.ProjectRole) {
	rec := dbmodels.ProjectMember{
		ProjectID:     projectID,
		UserID:        userID,
		RoleInProject: role,
		IsActive:      true,
		JoinedAt:      time.Now(),
	}
	require.Nil(t, db.DB.Create(&rec).Error)
}

func taskData(projectID, assigneeID string) taskapimodels.TaskData {
	return taskapimodels.TaskData{
		ProjectID:     projectID,
		Title:         "Prepare the release notes",
		Description:   "Collect the changes shipped this sprint",
		AssignedToID:  assigneeID,
		EstimatedTime: 3,
		DueDate:       time.Now().AddDate(0, 0, 7),
	}
}

func getTaskRec(t *testing.T, id string) dbmodels.Task {
	rec := dbmodels.Task{}
	require.Nil(t, db.DB.Where("id = ?", id).First(&rec).Error)
	return rec
}

func TestCreate(t *testing.T) {
	t.Run(`approval tier by assigner check`, func(t *testing.T) {
		setupTest(t)
		admin := seedUser(t, "admin", models.RoleSuperAdmin)
		lead := seedUser(t, "lead", models.RoleTeamLead)
		projectLead := seedUser(t, "plead", models.RoleMember)
		projectTeamLead := seedUser(t, "ptl", models.RoleMember)
		member := seedUser(t, "member", models.RoleMember)
		assignee := seedUser(t, "assignee", models.RoleMember)
		project := seedProject(t, admin.ID)
		seedMember(t, project.ID, projectLead.ID, models.ProjectRoleProjectLead)
		seedMember(t, project.ID, projectTeamLead.ID, models.ProjectRoleTeamLead)
		seedMember(t, project.ID, member.ID, models.ProjectRoleMember)
		seedMember(t, project.ID, assignee.ID, models.ProjectRoleMember)

		// only the superadmin assigns without holding a membership
		id, err := Instance.Create(admin.ID, admin.GlobalRole, taskData(project.ID, assignee.ID))
		require.Nil(t, err)
		require.Equal(t, models.TaskApprovalPending, getTaskRec(t, id).ApprovalStatus)

		_, err = Instance.Create(lead.ID, lead.GlobalRole, taskData(project.ID, assignee.ID))
		require.Equal(t, models.KindPermission, models.KindOf(err))
		require.Equal(t, "not a member of this project", err.Error())

		seedMember(t, project.ID, lead.ID, models.ProjectRoleMember)
		id, err = Instance.Create(lead.ID, lead.GlobalRole, taskData(project.ID, assignee.ID))
		require.Nil(t, err)
		require.Equal(t, models.TaskApprovalPending, getTaskRec(t, id).ApprovalStatus)

		id, err = Instance.Create(projectTeamLead.ID, projectTeamLead.GlobalRole, taskData(project.ID, assignee.ID))
		require.Nil(t, err)
		require.Equal(t, models.TaskApprovalPending, getTaskRec(t, id).ApprovalStatus)

		id, err = Instance.Create(projectLead.ID, projectLead.GlobalRole, taskData(project.ID, assignee.ID))
		require.Nil(t, err)
		rec := getTaskRec(t, id)
		require.Equal(t, models.TaskApprovalPendingTeamLead, rec.ApprovalStatus)
		require.Equal(t, models.TaskStatusNotStarted, rec.Status)
		require.Equal(t, models.TaskPriorityMedium, rec.Priority)

		_, err = Instance.Create(member.ID, member.GlobalRole, taskData(project.ID, assignee.ID))
		require.Equal(t, models.KindPermission, models.KindOf(err))
	})

	t.Run(`assignee must be an active project member check`, func(t *testing.T) {
		setupTest(t)
		admin := seedUser(t, "admin", models.RoleSuperAdmin)
		outsider := seedUser(t, "outsider", models.RoleMember)
		project := seedProject(t, admin.ID)

		_, err := Instance.Create(admin.ID, admin.GlobalRole, taskData(project.ID, outsider.ID))
		require.Equal(t, models.KindValidation, models.KindOf(err))

		_, err = Instance.Create(admin.ID, admin.GlobalRole, taskData("missing-project", outsider.ID))
		require.Equal(t, models.KindNotFound, models.KindOf(err))
	})
}

func TestApprove(t *testing.T) {
	t.Run(`exact tier enforcement check`, func(t *testing.T) {
		setupTest(t)
		admin := seedUser(t, "admin", models.RoleSuperAdmin)
		lead := seedUser(t, "lead", models.RoleTeamLead)
		projectLead := seedUser(t, "plead", models.RoleMember)
		assignee := seedUser(t, "assignee", models.RoleMember)
		project := seedProject(t, admin.ID)
		seedMember(t, project.ID, projectLead.ID, models.ProjectRoleProjectLead)
		seedMember(t, project.ID, assignee.ID, models.ProjectRoleMember)

		// superadmin queue: a team lead may not act on it
		pendingID, err := Instance.Create(admin.ID, admin.GlobalRole, taskData(project.ID, assignee.ID))
		require.Nil(t, err)
		err = Instance.Approve(lead.ID, lead.GlobalRole, pendingID)
		require.Equal(t, models.KindPermission, models.KindOf(err))

		err = Instance.Approve(admin.ID, admin.GlobalRole, pendingID)
		require.Nil(t, err)
		rec := getTaskRec(t, pendingID)
		require.Equal(t, models.TaskApprovalApproved, rec.ApprovalStatus)
		require.Equal(t, admin.ID, rec.ApprovedByID)
		require.NotNil(t, rec.ApprovalDate)

		// team-lead queue: a superadmin outside the project may not act on it
		teamLeadID, err := Instance.Create(projectLead.ID, projectLead.GlobalRole, taskData(project.ID, assignee.ID))
		require.Nil(t, err)
		err = Instance.Approve(admin.ID, admin.GlobalRole, teamLeadID)
		require.Equal(t, models.KindPermission, models.KindOf(err))

		err = Instance.Approve(lead.ID, lead.GlobalRole, teamLeadID)
		require.Nil(t, err)
		require.Equal(t, models.TaskApprovalApproved, getTaskRec(t, teamLeadID).ApprovalStatus)

		// an already decided task has no queue
		err = Instance.Approve(admin.ID, admin.GlobalRole, pendingID)
		require.Equal(t, models.KindInvalidState, models.KindOf(err))
	})
}

func TestReject(t *testing.T) {
	t.Run(`rejection outcome by tier check`, func(t *testing.T) {
		setupTest(t)
		admin := seedUser(t, "admin", models.RoleSuperAdmin)
		lead := seedUser(t, "lead", models.RoleTeamLead)
		projectLead := seedUser(t, "plead", models.RoleMember)
		assignee := seedUser(t, "assignee", models.RoleMember)
		project := seedProject(t, admin.ID)
		seedMember(t, project.ID, projectLead.ID, models.ProjectRoleProjectLead)
		seedMember(t, project.ID, assignee.ID, models.ProjectRoleMember)

		pendingID, err := Instance.Create(admin.ID, admin.GlobalRole, taskData(project.ID, assignee.ID))
		require.Nil(t, err)
		err = Instance.Reject(admin.ID, admin.GlobalRole, pendingID, taskapimodels.RejectData{Reason: "duplicate work"})
		require.Nil(t, err)
		rec := getTaskRec(t, pendingID)
		require.Equal(t, models.TaskApprovalRejected, rec.ApprovalStatus)
		require.Equal(t, models.TaskStatusCancelled, rec.Status)
		require.Equal(t, "duplicate work", rec.RejectionReason)

		teamLeadID, err := Instance.Create(projectLead.ID, projectLead.GlobalRole, taskData(project.ID, assignee.ID))
		require.Nil(t, err)
		err = Instance.Reject(lead.ID, lead.GlobalRole, teamLeadID, taskapimodels.RejectData{Reason: "needs rework"})
		require.Nil(t, err)
		rec = getTaskRec(t, teamLeadID)
		require.Equal(t, models.TaskApprovalRejected, rec.ApprovalStatus)
		require.Equal(t, models.TaskStatusBackToProjectLead, rec.Status)
	})
}

func TestStart(t *testing.T) {
	t.Run(`start opens a timer and records progress check`, func(t *testing.T) {
		setupTest(t)
		admin := seedUser(t, "admin", models.RoleSuperAdmin)
		assignee := seedUser(t, "assignee", models.RoleMember)
		project := seedProject(t, admin.ID)
		seedMember(t, project.ID, assignee.ID, models.ProjectRoleMember)

		id, err := Instance.Create(admin.ID, admin.GlobalRole, taskData(project.ID, assignee.ID))
		require.Nil(t, err)

		err = Instance.Start(admin.ID, id)
		require.Equal(t, models.KindOwnership, models.KindOf(err))

		err = Instance.Start(assignee.ID, id)
		require.Nil(t, err)
		rec := getTaskRec(t, id)
		require.Equal(t, models.TaskStatusInProgress, rec.Status)
		require.NotNil(t, rec.StartedAt)

		openLog := dbmodels.TaskTimeLog{}
		err = db.DB.Where("task_id = ? AND user_id = ? AND end_time IS NULL", id, assignee.ID).First(&openLog).Error
		require.Nil(t, err)
		require.Equal(t, models.TimeEntryAutomatic, openLog.EntryType)

		var updCount int64
		require.Nil(t, db.DB.Model(&dbmodels.TaskUpdate{}).Where("task_id = ?", id).Count(&updCount).Error)
		require.Equal(t, int64(1), updCount)

		err = Instance.Start(assignee.ID, id)
		require.Equal(t, models.KindInvalidState, models.KindOf(err))
		require.Equal(t, "task is already in progress", err.Error())
	})

	t.Run(`start blocked while awaiting team lead approval check`, func(t *testing.T) {
		setupTest(t)
		admin := seedUser(t, "admin", models.RoleSuperAdmin)
		lead := seedUser(t, "lead", models.RoleTeamLead)
		projectLead := seedUser(t, "plead", models.RoleMember)
		assignee := seedUser(t, "assignee", models.RoleMember)
		project := seedProject(t, admin.ID)
		seedMember(t, project.ID, projectLead.ID, models.ProjectRoleProjectLead)
		seedMember(t, project.ID, assignee.ID, models.ProjectRoleMember)

		// superadmin queue does not block the assignee
		pendingID, err := Instance.Create(admin.ID, admin.GlobalRole, taskData(project.ID, assignee.ID))
		require.Nil(t, err)
		require.Nil(t, Instance.Start(assignee.ID, pendingID))

		// team-lead queue does, until approved
		teamLeadID, err := Instance.Create(projectLead.ID, projectLead.GlobalRole, taskData(project.ID, assignee.ID))
		require.Nil(t, err)
		err = Instance.Start(assignee.ID, teamLeadID)
		require.Equal(t, models.KindInvalidState, models.KindOf(err))
		require.Equal(t, "task is awaiting team lead approval", err.Error())

		require.Nil(t, Instance.Approve(lead.ID, lead.GlobalRole, teamLeadID))
		require.Nil(t, Instance.Start(assignee.ID, teamLeadID))
	})
}

func TestComplete(t *testing.T) {
	t.Run(`complete closes the timer and re-derives actual time check`, func(t *testing.T) {
		setupTest(t)
		admin := seedUser(t, "admin", models.RoleSuperAdmin)
		assignee := seedUser(t, "assignee", models.RoleMember)
		project := seedProject(t, admin.ID)
		seedMember(t, project.ID, assignee.ID, models.ProjectRoleMember)

		id, err := Instance.Create(admin.ID, admin.GlobalRole, taskData(project.ID, assignee.ID))
		require.Nil(t, err)

		err = Instance.Complete(assignee.ID, id)
		require.Equal(t, models.KindInvalidState, models.KindOf(err))
		require.Equal(t, "task has not been started", err.Error())

		require.Nil(t, Instance.Start(assignee.ID, id))

		// a closed manual entry alongside the open timer
		end := time.Now()
		start := end.Add(-45 * time.Minute)
		manual := dbmodels.TaskTimeLog{
			TaskID:    id,
			UserID:    assignee.ID,
			StartTime: start,
			EndTime:   &end,
			Duration:  45,
			EntryType: models.TimeEntryManual,
		}
		require.Nil(t, db.DB.Create(&manual).Error)

		require.Nil(t, Instance.Complete(assignee.ID, id))
		rec := getTaskRec(t, id)
		require.Equal(t, models.TaskStatusCompleted, rec.Status)
		require.NotNil(t, rec.CompletedAt)
		require.Equal(t, 45, rec.ActualTime)

		var open int64
		require.Nil(t, db.DB.Model(&dbmodels.TaskTimeLog{}).
			Where("task_id = ? AND end_time IS NULL", id).Count(&open).Error)
		require.Equal(t, int64(0), open)

		err = Instance.Complete(assignee.ID, id)
		require.Equal(t, models.KindInvalidState, models.KindOf(err))
	})
}

func TestReassign(t *testing.T) {
	t.Run(`reassignment resets progress and keeps the approval check`, func(t *testing.T) {
		setupTest(t)
		admin := seedUser(t, "admin", models.RoleSuperAdmin)
		member := seedUser(t, "member", models.RoleMember)
		assignee := seedUser(t, "assignee", models.RoleMember)
		next := seedUser(t, "next", models.RoleMember)
		project := seedProject(t, admin.ID)
		seedMember(t, project.ID, assignee.ID, models.ProjectRoleMember)
		seedMember(t, project.ID, next.ID, models.ProjectRoleMember)

		id, err := Instance.Create(admin.ID, admin.GlobalRole, taskData(project.ID, assignee.ID))
		require.Nil(t, err)
		require.Nil(t, Instance.Approve(admin.ID, admin.GlobalRole, id))
		require.Nil(t, Instance.Start(assignee.ID, id))

		err = Instance.Reassign(member.ID, member.GlobalRole, id, taskapimodels.ReassignData{NewAssigneeID: next.ID})
		require.Equal(t, models.KindPermission, models.KindOf(err))

		err = Instance.Reassign(admin.ID, admin.GlobalRole, id, taskapimodels.ReassignData{NewAssigneeID: member.ID})
		require.Equal(t, models.KindValidation, models.KindOf(err))

		err = Instance.Reassign(admin.ID, admin.GlobalRole, id, taskapimodels.ReassignData{
			NewAssigneeID: next.ID,
			Reason:        "original assignee is on leave",
		})
		require.Nil(t, err)
		rec := getTaskRec(t, id)
		require.Equal(t, next.ID, rec.AssignedToID)
		require.Equal(t, models.TaskStatusNotStarted, rec.Status)
		require.Nil(t, rec.StartedAt)
		require.Equal(t, models.TaskApprovalApproved, rec.ApprovalStatus)
		require.Equal(t, admin.ID, rec.ReassignedByID)
		require.NotNil(t, rec.ReassignedAt)

		require.Nil(t, Instance.Start(next.ID, id))
		require.Nil(t, Instance.Complete(next.ID, id))
		err = Instance.Reassign(admin.ID, admin.GlobalRole, id, taskapimodels.ReassignData{NewAssigneeID: assignee.ID})
		require.Equal(t, models.KindInvalidState, models.KindOf(err))
	})
}

func TestSubtasks(t *testing.T) {
	t.Run(`subtask toggle and ownership check`, func(t *testing.T) {
		setupTest(t)
		admin := seedUser(t, "admin", models.RoleSuperAdmin)
		assignee := seedUser(t, "assignee", models.RoleMember)
		stranger := seedUser(t, "stranger", models.RoleMember)
		project := seedProject(t, admin.ID)
		seedMember(t, project.ID, assignee.ID, models.ProjectRoleMember)

		id, err := Instance.Create(admin.ID, admin.GlobalRole, taskData(project.ID, assignee.ID))
		require.Nil(t, err)

		_, err = Instance.AddSubtask(stranger.ID, id, taskapimodels.SubtaskData{Title: "draft"})
		require.Equal(t, models.KindOwnership, models.KindOf(err))

		subID, err := Instance.AddSubtask(assignee.ID, id, taskapimodels.SubtaskData{Title: "draft"})
		require.Nil(t, err)

		require.Nil(t, Instance.ToggleSubtask(assignee.ID, id, subID))
		sub := dbmodels.TaskSubtask{}
		require.Nil(t, db.DB.Where("id = ?", subID).First(&sub).Error)
		require.True(t, sub.IsCompleted)
		require.NotNil(t, sub.CompletedAt)

		require.Nil(t, Instance.ToggleSubtask(assignee.ID, id, subID))
		require.Nil(t, db.DB.Where("id = ?", subID).First(&sub).Error)
		require.False(t, sub.IsCompleted)
	})
}

func TestPendingApprovals(t *testing.T) {
	t.Run(`queue per role check`, func(t *testing.T) {
		setupTest(t)
		admin := seedUser(t, "admin", models.RoleSuperAdmin)
		lead := seedUser(t, "lead", models.RoleTeamLead)
		projectLead := seedUser(t, "plead", models.RoleMember)
		assignee := seedUser(t, "assignee", models.RoleMember)
		project := seedProject(t, admin.ID)
		seedMember(t, project.ID, lead.ID, models.ProjectRoleMember)
		seedMember(t, project.ID, projectLead.ID, models.ProjectRoleProjectLead)
		seedMember(t, project.ID, assignee.ID, models.ProjectRoleMember)

		pendingID, err := Instance.Create(lead.ID, lead.GlobalRole, taskData(project.ID, assignee.ID))
		require.Nil(t, err)
		teamLeadID, err := Instance.Create(projectLead.ID, projectLead.GlobalRole, taskData(project.ID, assignee.ID))
		require.Nil(t, err)

		list, err := Instance.PendingApprovals(models.RoleSuperAdmin)
		require.Nil(t, err)
		require.Len(t, list, 1)
		require.Equal(t, pendingID, list[0].ID)

		list, err = Instance.PendingApprovals(models.RoleTeamLead)
		require.Nil(t, err)
		require.Len(t, list, 1)
		require.Equal(t, teamLeadID, list[0].ID)

		_, err = Instance.PendingApprovals(models.RoleMember)
		require.Equal(t, models.KindPermission, models.KindOf(err))
	})
}

func TestMyStats(t *testing.T) {
	t.Run(`status counters check`, func(t *testing.T) {
		setupTest(t)
		admin := seedUser(t, "admin", models.RoleSuperAdmin)
		assignee := seedUser(t, "assignee", models.RoleMember)
		project := seedProject(t, admin.ID)
		seedMember(t, project.ID, assignee.ID, models.ProjectRoleMember)

		first, err := Instance.Create(admin.ID, admin.GlobalRole, taskData(project.ID, assignee.ID))
		require.Nil(t, err)
		_, err = Instance.Create(admin.ID, admin.GlobalRole, taskData(project.ID, assignee.ID))
		require.Nil(t, err)
		require.Nil(t, Instance.Start(assignee.ID, first))

		stats, err := Instance.MyStats(assignee.ID)
		require.Nil(t, err)
		require.Equal(t, int64(2), stats.Total)
		require.Equal(t, int64(1), stats.InProgress)
		require.Equal(t, int64(1), stats.NotStarted)
		require.Equal(t, int64(0), stats.Completed)
		require.Equal(t, int64(2), stats.PendingApproval)
	})
}
