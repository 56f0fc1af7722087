package authapimodels

import (
	apimodels "teamtrack-backend/models/api"
)

type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (r Login) Validate() error {
	return apimodels.ValidateStruct(r)
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
}

// Setup is the first-run superadmin payload. The endpoint only works while no
// superadmin account exists.
type Setup struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
}

func (r Setup) Validate() error {
	return apimodels.ValidateStruct(r)
}

type SetupStatus struct {
	SetupRequired bool `json:"setup_required"`
	SetupComplete bool `json:"setup_complete"`
}
