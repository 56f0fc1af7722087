package dbmodels

import (
	"teamtrack-backend/models"
	"time"

	"github.com/lib/pq"
)

type Project struct {
	BaseModel
	Title        string `gorm:"type:varchar(255)"`
	Description  string
	Requirements string
	Status       models.ProjectStatus `gorm:"type:varchar(20);index"`
	DocumentURLs pq.StringArray       `gorm:"type:text[]"`
	CreatedByID  string               `gorm:"type:varchar(36)"`
	CreatedBy    *User                `gorm:"foreignKey:CreatedByID"`
}

// ProjectMember maps a user to a project with a per-project role. Removal
// deactivates the record; re-adding the user creates a fresh one, so the
// uniqueness invariant only covers active memberships.
type ProjectMember struct {
	BaseModel
	ProjectID     string `gorm:"type:varchar(36);index:idx_member_project"`
	Project       *Project
	UserID        string `gorm:"type:varchar(36);index:idx_member_user"`
	User          *User
	RoleInProject models.ProjectRole `gorm:"type:varchar(20)"`
	AssignedByID  string             `gorm:"type:varchar(36)"`
	IsActive      bool
	JoinedAt      time.Time
}
