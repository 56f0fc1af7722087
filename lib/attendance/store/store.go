package attendancestore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"teamtrack-backend/models"
	attendanceapimodels "teamtrack-backend/models/api/attendance"
	dbmodels "teamtrack-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Attendance) (id string, err error)
	GetByID(id string) (rec *dbmodels.Attendance, err error)
	GetForUserDay(userID string, day time.Time) (rec *dbmodels.Attendance, err error)
	Update(id string, updMap map[string]interface{}) error
	CreateBreak(rec dbmodels.AttendanceBreak) (id string, err error)
	CloseBreak(breakID string, endTime time.Time, duration int) error
	ListByUserRange(userID string, from, to time.Time) (list []dbmodels.Attendance, err error)
	ListByDay(day time.Time) (list []dbmodels.Attendance, err error)
	ListOpenForDay(day time.Time) (list []dbmodels.Attendance, err error)
	List(filter attendanceapimodels.AdminFilter) (list []dbmodels.Attendance, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Attendance) (id string, err error) {
	err = i.db.
		Omit("User", "AdjustedBy").
		Create(&rec).
		Error
	if err != nil {
		// unique index on (user_id, day)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", models.NewError(models.KindConflict, "already clocked in today")
		}
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Attendance, error) {
	rec := dbmodels.Attendance{}
	err := i.db.
		Where("id = ?", id).
		Preload("Breaks").
		Preload("User").
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

// GetForUserDay is keyed by both user and day, so a caller can only ever
// reach its own record for that day.
func (i impl) GetForUserDay(userID string, day time.Time) (*dbmodels.Attendance, error) {
	rec := dbmodels.Attendance{}
	err := i.db.
		Where("user_id = ?", userID).
		Where("day = ?", models.StartOfDay(day)).
		Preload("Breaks").
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
	return i.db.
		Model(&dbmodels.Attendance{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) CreateBreak(rec dbmodels.AttendanceBreak) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		// partial unique index on attendance_id WHERE is_active
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", models.NewError(models.KindInvalidState, "already on a break")
		}
		return "", err
	}
	return rec.ID, nil
}

func (i impl) CloseBreak(breakID string, endTime time.Time, duration int) error {
	res := i.db.
		Model(&dbmodels.AttendanceBreak{}).
		Where("id = ?", breakID).
		Where("is_active = ?", true).
		Updates(map[string]interface{}{
			"end_time":  &endTime,
			"duration":  duration,
			"is_active": false,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewError(models.KindInvalidState, "no active break found")
	}
	return nil
}

func (i impl) ListByUserRange(userID string, from, to time.Time) (list []dbmodels.Attendance, err error) {
	err = i.db.
		Where("user_id = ?", userID).
		Where("day >= ?", models.StartOfDay(from)).
		Where("day <= ?", models.StartOfDay(to)).
		Order("day DESC").
		Preload("Breaks").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByDay(day time.Time) (list []dbmodels.Attendance, err error) {
	err = i.db.
		Where("day = ?", models.StartOfDay(day)).
		Order("login_time ASC").
		Preload("Breaks").
		Preload("User").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListOpenForDay returns records that were clocked in but never clocked out.
func (i impl) ListOpenForDay(day time.Time) (list []dbmodels.Attendance, err error) {
	err = i.db.
		Where("day = ?", models.StartOfDay(day)).
		Where("logout_time IS NULL").
		Preload("User").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) List(filter attendanceapimodels.AdminFilter) (list []dbmodels.Attendance, err error) {
	tx := i.db.
		Order("day DESC, login_time ASC").
		Preload("Breaks").
		Preload("User")
	if filter.UserID != "" {
		tx = tx.Where("user_id = ?", filter.UserID)
	}
	if filter.Date != nil {
		tx = tx.Where("day = ?", models.StartOfDay(*filter.Date))
	}
	if filter.StartDate != nil {
		tx = tx.Where("day >= ?", models.StartOfDay(*filter.StartDate))
	}
	if filter.EndDate != nil {
		tx = tx.Where("day <= ?", models.StartOfDay(*filter.EndDate))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
