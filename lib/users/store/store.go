package usersstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"teamtrack-backend/models"
	userapimodels "teamtrack-backend/models/api/user"
	dbmodels "teamtrack-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.User) (id string, err error)
	GetByID(id string) (rec *dbmodels.User, err error)
	GetByEmail(email string) (rec *dbmodels.User, err error)
	Update(id string, updMap map[string]interface{}) error
	List(filter userapimodels.UserFilter) (list []dbmodels.User, rowCount int64, err error)
	ListByRole(roles []models.GlobalRole) (list []dbmodels.User, err error)
	ListActiveExcludingRole(role models.GlobalRole) (list []dbmodels.User, err error)
	CountByRole(role models.GlobalRole) (count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.User) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", models.NewError(models.KindConflict, "user with this email already exists")
		}
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.
		Where("id = ?", id).
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

func (i impl) GetByEmail(email string) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.
		Where("email = ?", email).
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
		Model(&dbmodels.User{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) List(filter userapimodels.UserFilter) (list []dbmodels.User, rowCount int64, err error) {
	tx := i.db.Model(&dbmodels.User{})
	if filter.Role != "" {
		tx = tx.Where("global_role = ?", filter.Role)
	}
	if filter.IsActive != nil {
		tx = tx.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		tx = tx.Where("name ILIKE ? OR email ILIKE ?", like, like)
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
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, rowCount, nil
}

func (i impl) ListByRole(roles []models.GlobalRole) (list []dbmodels.User, err error) {
	err = i.db.
		Where("global_role IN ?", roles).
		Where("is_active = ?", true).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// CountByRole counts all accounts with the role, deactivated ones included,
// so a disabled superadmin still marks the system as set up.
func (i impl) CountByRole(role models.GlobalRole) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.User{}).
		Where("global_role = ?", role).
		Count(&count).
		Error
	return count, err
}

func (i impl) ListActiveExcludingRole(role models.GlobalRole) (list []dbmodels.User, err error) {
	err = i.db.
		Where("global_role <> ?", role).
		Where("is_active = ?", true).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
