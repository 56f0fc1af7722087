package apimodels

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"teamtrack-backend/models"
)

var validate = validator.New()

// ValidateStruct runs the tag-based validation and converts the first failure
// into a business validation error.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		return models.NewError(models.KindValidation, "invalid value for field "+vErrs[0].Field())
	}
	return models.NewError(models.KindValidation, err.Error())
}
