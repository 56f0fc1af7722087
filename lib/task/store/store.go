package taskstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"teamtrack-backend/models"
	taskapimodels "teamtrack-backend/models/api/task"
	dbmodels "teamtrack-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Task) (id string, err error)
	GetByID(id string) (rec *dbmodels.Task, err error)
	Update(id string, updMap map[string]interface{}) error
	List(filter taskapimodels.TaskFilter) (list []dbmodels.Task, rowCount int64, err error)
	ListByApprovalStatus(status models.TaskApprovalStatus) (list []dbmodels.Task, err error)
	CountByAssignee(userID string, status models.TaskStatus) (count int64, err error)
	CountPendingApproval(userID string) (count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Task) (id string, err error) {
	err = i.db.
		Omit("Project", "AssignedTo", "AssignedBy", "ApprovedBy").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Task, error) {
	rec := dbmodels.Task{}
	err := i.db.
		Where("id = ?", id).
		Preload("Project").
		Preload("AssignedTo").
		Preload("AssignedBy").
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.Task{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) List(filter taskapimodels.TaskFilter) (list []dbmodels.Task, rowCount int64, err error) {
	tx := i.db.Model(&dbmodels.Task{})
	if filter.ProjectID != "" {
		tx = tx.Where("project_id = ?", filter.ProjectID)
	}
	if filter.AssignedToID != "" {
		tx = tx.Where("assigned_to_id = ?", filter.AssignedToID)
	}
	if filter.AssignedByID != "" {
		tx = tx.Where("assigned_by_id = ?", filter.AssignedByID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.ApprovalStatus != "" {
		tx = tx.Where("approval_status = ?", filter.ApprovalStatus)
	}
	if filter.Priority != "" {
		tx = tx.Where("priority = ?", filter.Priority)
	}
	err = tx.Count(&rowCount).Error
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	err = tx.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Preload("Project").
		Preload("AssignedTo").
		Preload("AssignedBy").
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, rowCount, nil
}

func (i impl) ListByApprovalStatus(status models.TaskApprovalStatus) (list []dbmodels.Task, err error) {
	err = i.db.
		Where("approval_status = ?", status).
		Order("created_at DESC").
		Preload("Project").
		Preload("AssignedTo").
		Preload("AssignedBy").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CountByAssignee(userID string, status models.TaskStatus) (count int64, err error) {
	tx := i.db.
		Model(&dbmodels.Task{}).
		Where("assigned_to_id = ?", userID)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	err = tx.Count(&count).Error
	return count, err
}

func (i impl) CountPendingApproval(userID string) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.Task{}).
		Where("assigned_to_id = ?", userID).
		Where("approval_status IN ?", []models.TaskApprovalStatus{
			models.TaskApprovalPending,
			models.TaskApprovalPendingTeamLead,
		}).
		Count(&count).
		Error
	return count, err
}
