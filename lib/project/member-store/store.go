package membersstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"teamtrack-backend/models"
	dbmodels "teamtrack-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.ProjectMember) (id string, err error)
	GetActive(projectID, userID string) (rec *dbmodels.ProjectMember, err error)
	Deactivate(projectID, userID string) error
	ListByProject(projectID string, activeOnly bool) (list []dbmodels.ProjectMember, err error)
	ListByProjectRole(projectID string, role models.ProjectRole) (list []dbmodels.ProjectMember, err error)
	ListProjectIDsForUser(userID string) (ids []string, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ProjectMember) (id string, err error) {
	err = i.db.
		Omit("Project", "User").
		Create(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", models.NewError(models.KindConflict, "user is already an active member of this project")
		}
		return "", err
	}
	return rec.ID, nil
}

// GetActive fetches the single active membership for (project, user). The
// query is parameterized by both IDs so it cannot return a foreign record.
func (i impl) GetActive(projectID, userID string) (*dbmodels.ProjectMember, error) {
	rec := dbmodels.ProjectMember{}
	err := i.db.
		Where("project_id = ?", projectID).
		Where("user_id = ?", userID).
		Where("is_active = ?", true).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Deactivate(projectID, userID string) error {
	return i.db.
		Model(&dbmodels.ProjectMember{}).
		Where("project_id = ?", projectID).
		Where("user_id = ?", userID).
		Where("is_active = ?", true).
		Update("is_active", false).
		Error
}

func (i impl) ListByProject(projectID string, activeOnly bool) (list []dbmodels.ProjectMember, err error) {
	tx := i.db.
		Where("project_id = ?", projectID).
		Preload("User").
		Order("joined_at ASC")
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByProjectRole(projectID string, role models.ProjectRole) (list []dbmodels.ProjectMember, err error) {
	err = i.db.
		Where("project_id = ?", projectID).
		Where("role_in_project = ?", role).
		Where("is_active = ?", true).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListProjectIDsForUser(userID string) (ids []string, err error) {
	err = i.db.
		Model(&dbmodels.ProjectMember{}).
		Where("user_id = ?", userID).
		Where("is_active = ?", true).
		Pluck("project_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
