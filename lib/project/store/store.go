package projectstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	projectapimodels "teamtrack-backend/models/api/project"
	dbmodels "teamtrack-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Project) (id string, err error)
	GetByID(id string) (rec *dbmodels.Project, err error)
	Update(id string, updMap map[string]interface{}) error
	List(filter projectapimodels.ProjectFilter, restrictToIDs []string) (list []dbmodels.Project, rowCount int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Project) (id string, err error) {
	err = i.db.
		Omit("CreatedBy").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Project, error) {
	rec := dbmodels.Project{}
	err := i.db.
		Where("id = ?", id).
		Preload("CreatedBy").
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
		Model(&dbmodels.Project{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

// List returns projects filtered and optionally restricted to the given IDs
// (membership scoping for non-admin callers).
func (i impl) List(filter projectapimodels.ProjectFilter, restrictToIDs []string) (list []dbmodels.Project, rowCount int64, err error) {
	tx := i.db.Model(&dbmodels.Project{})
	if restrictToIDs != nil {
		tx = tx.Where("id IN ?", restrictToIDs)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		tx = tx.Where("title ILIKE ? OR description ILIKE ?", like, like)
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
		Preload("CreatedBy").
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, rowCount, nil
}
