package projecthandler

import (
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"teamtrack-backend/db"
	notificationhandler "teamtrack-backend/lib/notification"
	membersstore "teamtrack-backend/lib/project/member-store"
	projectstore "teamtrack-backend/lib/project/store"
	usersstore "teamtrack-backend/lib/users/store"
	"teamtrack-backend/models"
	projectapimodels "teamtrack-backend/models/api/project"
	dbmodels "teamtrack-backend/models/db"

	"github.com/lib/pq"
)

type Provider interface {
	Create(creatorID string, data projectapimodels.ProjectData) (id string, err error)
	GetByID(id string) (view projectapimodels.ProjectView, err error)
	Update(id string, data projectapimodels.ProjectData) error
	SetStatus(id string, status models.ProjectStatus) error
	List(userID string, role models.GlobalRole, filter projectapimodels.ProjectFilter) (list []projectapimodels.ProjectView, rowCount int64, err error)
	AddMember(projectID, assignerID string, data projectapimodels.MemberData) (id string, err error)
	RemoveMember(projectID, userID string) error
	Members(projectID string) (list []projectapimodels.MemberView, err error)
	MemberRole(projectID, userID string) (role models.ProjectRole, err error)
	AddDocument(projectID, url string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:       projectstore.NewInstance(db.DB),
		memberStore: membersstore.NewInstance(db.DB),
		userStore:   usersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store       projectstore.Provider
	memberStore membersstore.Provider
	userStore   usersstore.Provider
}

func (i impl) getLogger(projectID, userID string) *log.Entry {
	logger := log.WithField("project_id", projectID)
	if userID != "" {
		logger = logger.WithField("user_id", userID)
	}
	return logger
}

func (i impl) Create(creatorID string, data projectapimodels.ProjectData) (id string, err error) {
	recID := ""
	memberIDs := make([]string, 0, len(data.Members))
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		rec := dbmodels.Project{
			Title:        data.Title,
			Description:  data.Description,
			Requirements: data.Requirements,
			Status:       models.ProjectStatusActive,
			DocumentURLs: pq.StringArray(data.DocumentURLs),
			CreatedByID:  creatorID,
		}
		store := projectstore.NewInstance(tx)
		recID, err = store.Create(rec)
		if err != nil {
			return err
		}
		memberStore := membersstore.NewInstance(tx)
		for _, member := range data.Members {
			_, err = memberStore.Create(dbmodels.ProjectMember{
				ProjectID:     recID,
				UserID:        member.UserID,
				RoleInProject: member.RoleInProject,
				AssignedByID:  creatorID,
				IsActive:      true,
				JoinedAt:      time.Now(),
			})
			if err != nil {
				return err
			}
			memberIDs = append(memberIDs, member.UserID)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	notificationhandler.Instance.SendBatch(memberIDs, models.NotificationProjectCreated,
		"Added to project",
		"You have been added to project: "+data.Title,
		recID, models.ReferenceProject)
	i.getLogger(recID, creatorID).Info("project created")
	return recID, nil
}

func (i impl) GetByID(id string) (view projectapimodels.ProjectView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return projectapimodels.ProjectView{}, err
	}
	if rec == nil {
		return projectapimodels.ProjectView{}, models.NewError(models.KindNotFound, "project not found")
	}
	return projectapimodels.ProjectConvert(*rec), nil
}

func (i impl) Update(id string, data projectapimodels.ProjectData) error {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return models.NewError(models.KindNotFound, "project not found")
	}
	updMap := map[string]interface{}{
		"title":        data.Title,
		"description":  data.Description,
		"requirements": data.Requirements,
	}
	if data.DocumentURLs != nil {
		updMap["document_urls"] = pq.StringArray(data.DocumentURLs)
	}
	return i.store.Update(id, updMap)
}

func (i impl) SetStatus(id string, status models.ProjectStatus) error {
	if !status.IsValid() {
		return models.NewError(models.KindValidation, "unknown project status")
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return models.NewError(models.KindNotFound, "project not found")
	}
	return i.store.Update(id, map[string]interface{}{"status": status})
}

// List returns all projects for superadmins and teamleads, and only
// membership projects for everyone else.
func (i impl) List(userID string, role models.GlobalRole, filter projectapimodels.ProjectFilter) (list []projectapimodels.ProjectView, rowCount int64, err error) {
	var restrictToIDs []string
	if role != models.RoleSuperAdmin && role != models.RoleTeamLead {
		restrictToIDs, err = i.memberStore.ListProjectIDsForUser(userID)
		if err != nil {
			return nil, 0, err
		}
		if len(restrictToIDs) == 0 {
			return []projectapimodels.ProjectView{}, 0, nil
		}
	}
	recs, rowCount, err := i.store.List(filter, restrictToIDs)
	if err != nil {
		return nil, 0, err
	}
	list = make([]projectapimodels.ProjectView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, projectapimodels.ProjectConvert(rec))
	}
	return list, rowCount, nil
}

func (i impl) AddMember(projectID, assignerID string, data projectapimodels.MemberData) (id string, err error) {
	project, err := i.store.GetByID(projectID)
	if err != nil {
		return "", err
	}
	if project == nil {
		return "", models.NewError(models.KindNotFound, "project not found")
	}
	user, err := i.userStore.GetByID(data.UserID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", models.NewError(models.KindNotFound, "user not found")
	}
	// a removed member rejoins with a fresh record, history stays intact
	id, err = i.memberStore.Create(dbmodels.ProjectMember{
		ProjectID:     projectID,
		UserID:        data.UserID,
		RoleInProject: data.RoleInProject,
		AssignedByID:  assignerID,
		IsActive:      true,
		JoinedAt:      time.Now(),
	})
	if err != nil {
		return "", err
	}
	notificationhandler.Instance.Send(data.UserID, models.NotificationProjectCreated,
		"Added to project",
		"You have been added to project: "+project.Title,
		projectID, models.ReferenceProject)
	i.getLogger(projectID, data.UserID).Info("member added to project")
	return id, nil
}

func (i impl) RemoveMember(projectID, userID string) error {
	member, err := i.memberStore.GetActive(projectID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return models.NewError(models.KindNotFound, "user is not an active member of this project")
	}
	err = i.memberStore.Deactivate(projectID, userID)
	if err != nil {
		return err
	}
	i.getLogger(projectID, userID).Info("member removed from project")
	return nil
}

func (i impl) Members(projectID string) (list []projectapimodels.MemberView, err error) {
	recs, err := i.memberStore.ListByProject(projectID, true)
	if err != nil {
		return nil, err
	}
	list = make([]projectapimodels.MemberView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, projectapimodels.MemberConvert(rec))
	}
	return list, nil
}

// MemberRole returns the caller's role in the project, or empty when the
// caller is not an active member.
func (i impl) MemberRole(projectID, userID string) (role models.ProjectRole, err error) {
	member, err := i.memberStore.GetActive(projectID, userID)
	if err != nil {
		return "", err
	}
	if member == nil {
		return "", nil
	}
	return member.RoleInProject, nil
}

func (i impl) AddDocument(projectID, url string) error {
	rec, err := i.store.GetByID(projectID)
	if err != nil {
		return err
	}
	if rec == nil {
		return models.NewError(models.KindNotFound, "project not found")
	}
	urls := append(rec.DocumentURLs, url)
	return i.store.Update(projectID, map[string]interface{}{"document_urls": urls})
}
