package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var validOperatorRoles = []string{"operator", "manager", "admin"}

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("operator_role", validateOperatorRole); err != nil {
		panic(err)
	}
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateOperatorRole(fl validator.FieldLevel) bool {
	role := fl.Field().String()

	for _, validRole := range validOperatorRoles {
		if role == validRole {
			return true
		}
	}
	return false
}
