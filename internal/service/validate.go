package service

import (
	"github.com/go-playground/validator/v10"

	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

var validate = validator.New()

func validateStruct(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return nil
}
