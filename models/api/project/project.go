package projectapimodels

import (
	"teamtrack-backend/models"
	apimodels "teamtrack-backend/models/api"
	dbmodels "teamtrack-backend/models/db"
	"time"
)

type MemberData struct {
	UserID        string             `json:"user_id" validate:"required"`
	RoleInProject models.ProjectRole `json:"role_in_project" validate:"required"`
}

func (r MemberData) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if !r.RoleInProject.IsValid() {
		return models.NewError(models.KindValidation, "unknown project role")
	}
	return nil
}

type ProjectData struct {
	Title        string       `json:"title" validate:"required"`
	Description  string       `json:"description"`
	Requirements string       `json:"requirements"`
	DocumentURLs []string     `json:"document_urls"`
	Members      []MemberData `json:"members"`
}

func (r ProjectData) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	for _, member := range r.Members {
		if err := member.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type ProjectView struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Requirements string    `json:"requirements,omitempty"`
	Status       string    `json:"status"`
	DocumentURLs []string  `json:"document_urls,omitempty"`
	CreatedByID  string    `json:"created_by_id"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func ProjectConvert(rec dbmodels.Project) ProjectView {
	view := ProjectView{
		ID:           rec.ID,
		Title:        rec.Title,
		Description:  rec.Description,
		Requirements: rec.Requirements,
		Status:       string(rec.Status),
		DocumentURLs: rec.DocumentURLs,
		CreatedByID:  rec.CreatedByID,
		CreatedAt:    rec.CreatedAt,
	}
	if rec.CreatedBy != nil {
		view.CreatedBy = rec.CreatedBy.Name
	}
	return view
}

type MemberView struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name,omitempty"`
	Email         string    `json:"email,omitempty"`
	RoleInProject string    `json:"role_in_project"`
	IsActive      bool      `json:"is_active"`
	JoinedAt      time.Time `json:"joined_at"`
}

func MemberConvert(rec dbmodels.ProjectMember) MemberView {
	view := MemberView{
		ID:            rec.ID,
		UserID:        rec.UserID,
		RoleInProject: string(rec.RoleInProject),
		IsActive:      rec.IsActive,
		JoinedAt:      rec.JoinedAt,
	}
	if rec.User != nil {
		view.Name = rec.User.Name
		view.Email = rec.User.Email
	}
	return view
}

type ProjectFilter struct {
	apimodels.Pagination
	Status models.ProjectStatus `json:"status"`
	Search string               `json:"search"`
}
