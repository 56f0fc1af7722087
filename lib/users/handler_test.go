package usershandler

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"teamtrack-backend/config"
	"teamtrack-backend/db"
	"teamtrack-backend/models"
	authapimodels "teamtrack-backend/models/api/auth"
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
	conf := &config.Configuration{}
	conf.Auth.JWTSecret = "test-secret"
	conf.Auth.JWTExpireInSec = 3600
	conf.Auth.JWTRefreshExpireInSec = 7200
	config.Conf = conf
	NewHandler()
}

func TestSetup(t *testing.T) {
	t.Run(`first-run superadmin setup check`, func(t *testing.T) {
		setupTest(t)

		status, err := Instance.SetupStatus()
		require.Nil(t, err)
		require.True(t, status.SetupRequired)
		require.False(t, status.SetupComplete)

		resp, err := Instance.SetupSuperAdmin(authapimodels.Setup{
			Name:     "Root Admin",
			Email:    "root@example.com",
			Password: "secret123",
		})
		require.Nil(t, err)
		require.NotEmpty(t, resp.AccessToken)
		require.NotEmpty(t, resp.RefreshToken)
		require.Equal(t, string(models.RoleSuperAdmin), resp.Role)

		rec := dbmodels.User{}
		require.Nil(t, db.DB.Where("id = ?", resp.UserID).First(&rec).Error)
		require.Equal(t, models.RoleSuperAdmin, rec.GlobalRole)
		require.True(t, rec.IsActive)
		require.Equal(t, "Administration", rec.Department)
		require.Empty(t, rec.CreatedByID)

		status, err = Instance.SetupStatus()
		require.Nil(t, err)
		require.False(t, status.SetupRequired)
		require.True(t, status.SetupComplete)
	})

	t.Run(`setup rejected once a superadmin exists check`, func(t *testing.T) {
		setupTest(t)

		_, err := Instance.SetupSuperAdmin(authapimodels.Setup{
			Name:     "Root Admin",
			Email:    "root@example.com",
			Password: "secret123",
		})
		require.Nil(t, err)

		_, err = Instance.SetupSuperAdmin(authapimodels.Setup{
			Name:     "Second Admin",
			Email:    "second@example.com",
			Password: "secret123",
		})
		require.Equal(t, models.KindPermission, models.KindOf(err))
		require.Equal(t, "setup has already been completed", err.Error())

		// a deactivated superadmin still counts as set up
		require.Nil(t, db.DB.Model(&dbmodels.User{}).
			Where("email = ?", "root@example.com").
			Update("is_active", false).Error)
		status, err := Instance.SetupStatus()
		require.Nil(t, err)
		require.True(t, status.SetupComplete)
	})
}

func TestLogin(t *testing.T) {
	t.Run(`credentials check`, func(t *testing.T) {
		setupTest(t)

		_, err := Instance.SetupSuperAdmin(authapimodels.Setup{
			Name:     "Root Admin",
			Email:    "root@example.com",
			Password: "secret123",
		})
		require.Nil(t, err)

		resp, err := Instance.Login(authapimodels.Login{Email: "root@example.com", Password: "secret123"})
		require.Nil(t, err)
		require.NotEmpty(t, resp.AccessToken)
		require.Equal(t, string(models.RoleSuperAdmin), resp.Role)

		_, err = Instance.Login(authapimodels.Login{Email: "root@example.com", Password: "wrong-pass"})
		require.Equal(t, models.KindPermission, models.KindOf(err))
		require.Equal(t, "invalid credentials", err.Error())

		_, err = Instance.Login(authapimodels.Login{Email: "nobody@example.com", Password: "secret123"})
		require.Equal(t, models.KindPermission, models.KindOf(err))
	})
}
