package usershandler

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"teamtrack-backend/db"
	notificationhandler "teamtrack-backend/lib/notification"
	usersstore "teamtrack-backend/lib/users/store"
	authutils "teamtrack-backend/lib/utils/auth-utils"
	"teamtrack-backend/models"
	authapimodels "teamtrack-backend/models/api/auth"
	userapimodels "teamtrack-backend/models/api/user"
	dbmodels "teamtrack-backend/models/db"
)

type Provider interface {
	Login(data authapimodels.Login) (resp authapimodels.LoginResponse, err error)
	SetupStatus() (resp authapimodels.SetupStatus, err error)
	SetupSuperAdmin(data authapimodels.Setup) (resp authapimodels.LoginResponse, err error)
	Create(creatorID string, data userapimodels.CreateUser) (id string, err error)
	GetByID(id string) (view userapimodels.UserView, err error)
	Update(id string, data userapimodels.UpdateUser) error
	SetActive(id string, isActive bool) error
	SetProfilePic(id, url string) error
	List(filter userapimodels.UserFilter) (list []userapimodels.UserView, rowCount int64, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: usersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store usersstore.Provider
}

func (i impl) Login(data authapimodels.Login) (resp authapimodels.LoginResponse, err error) {
	rec, err := i.store.GetByEmail(data.Email)
	if err != nil {
		return authapimodels.LoginResponse{}, err
	}
	if rec == nil || !rec.IsActive {
		return authapimodels.LoginResponse{}, models.NewError(models.KindPermission, "invalid credentials")
	}
	err = bcrypt.CompareHashAndPassword([]byte(rec.Password), []byte(data.Password))
	if err != nil {
		return authapimodels.LoginResponse{}, models.NewError(models.KindPermission, "invalid credentials")
	}
	accessToken, err := authutils.GetToken(rec.ID, rec.Name, rec.GlobalRole)
	if err != nil {
		return authapimodels.LoginResponse{}, errors.Wrap(err, "failed to issue access token")
	}
	refreshToken, err := authutils.GetRefreshToken(rec.ID, rec.Name)
	if err != nil {
		return authapimodels.LoginResponse{}, errors.Wrap(err, "failed to issue refresh token")
	}
	now := time.Now()
	err = i.store.Update(rec.ID, map[string]interface{}{"last_login": &now})
	if err != nil {
		log.
			WithError(err).
			WithField("user_id", rec.ID).
			Error("failed to record last login")
	}
	return authapimodels.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       rec.ID,
		Name:         rec.Name,
		Role:         string(rec.GlobalRole),
	}, nil
}

func (i impl) SetupStatus() (resp authapimodels.SetupStatus, err error) {
	count, err := i.store.CountByRole(models.RoleSuperAdmin)
	if err != nil {
		return authapimodels.SetupStatus{}, err
	}
	return authapimodels.SetupStatus{
		SetupRequired: count == 0,
		SetupComplete: count > 0,
	}, nil
}

// SetupSuperAdmin creates the first superadmin account. It only works while
// no superadmin exists; afterwards accounts are created by admins.
func (i impl) SetupSuperAdmin(data authapimodels.Setup) (resp authapimodels.LoginResponse, err error) {
	count, err := i.store.CountByRole(models.RoleSuperAdmin)
	if err != nil {
		return authapimodels.LoginResponse{}, err
	}
	if count > 0 {
		return authapimodels.LoginResponse{}, models.NewError(models.KindPermission, "setup has already been completed")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return authapimodels.LoginResponse{}, errors.Wrap(err, "failed to hash password")
	}
	department := data.Department
	if department == "" {
		department = "Administration"
	}
	rec := dbmodels.User{
		Name:       data.Name,
		Email:      data.Email,
		Password:   string(hash),
		GlobalRole: models.RoleSuperAdmin,
		Department: department,
		Phone:      data.Phone,
		IsActive:   true,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return authapimodels.LoginResponse{}, err
	}
	accessToken, err := authutils.GetToken(id, data.Name, models.RoleSuperAdmin)
	if err != nil {
		return authapimodels.LoginResponse{}, errors.Wrap(err, "failed to issue access token")
	}
	refreshToken, err := authutils.GetRefreshToken(id, data.Name)
	if err != nil {
		return authapimodels.LoginResponse{}, errors.Wrap(err, "failed to issue refresh token")
	}
	log.
		WithField("user_id", id).
		Info("first superadmin created, setup complete")
	return authapimodels.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       id,
		Name:         data.Name,
		Role:         string(models.RoleSuperAdmin),
	}, nil
}

func (i impl) Create(creatorID string, data userapimodels.CreateUser) (id string, err error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}
	rec := dbmodels.User{
		Name:        data.Name,
		Email:       data.Email,
		Password:    string(hash),
		GlobalRole:  data.GlobalRole,
		EmployeeID:  data.EmployeeID,
		Department:  data.Department,
		Phone:       data.Phone,
		IsActive:    true,
		CreatedByID: creatorID,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", err
	}
	notificationhandler.Instance.Send(id, models.NotificationUserCreated,
		"Welcome to TeamTrack",
		"Your account has been created",
		id, models.ReferenceUser)
	log.
		WithField("user_id", id).
		WithField("created_by", creatorID).
		Info("user created")
	return id, nil
}

func (i impl) GetByID(id string) (view userapimodels.UserView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return userapimodels.UserView{}, err
	}
	if rec == nil {
		return userapimodels.UserView{}, models.NewError(models.KindNotFound, "user not found")
	}
	return userapimodels.UserConvert(*rec), nil
}

func (i impl) Update(id string, data userapimodels.UpdateUser) error {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return models.NewError(models.KindNotFound, "user not found")
	}
	updMap := map[string]interface{}{}
	if data.Name != "" {
		updMap["name"] = data.Name
	}
	if data.Department != "" {
		updMap["department"] = data.Department
	}
	if data.Phone != "" {
		updMap["phone"] = data.Phone
	}
	if len(updMap) == 0 {
		return nil
	}
	return i.store.Update(id, updMap)
}

func (i impl) SetActive(id string, isActive bool) error {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return models.NewError(models.KindNotFound, "user not found")
	}
	return i.store.Update(id, map[string]interface{}{"is_active": isActive})
}

func (i impl) SetProfilePic(id, url string) error {
	return i.store.Update(id, map[string]interface{}{"profile_pic_url": url})
}

func (i impl) List(filter userapimodels.UserFilter) (list []userapimodels.UserView, rowCount int64, err error) {
	recs, rowCount, err := i.store.List(filter)
	if err != nil {
		return nil, 0, err
	}
	list = make([]userapimodels.UserView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, userapimodels.UserConvert(rec))
	}
	return list, rowCount, nil
}
