package taxid

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studentcoin/core"
)

var (
	personalIDTag  = "cpf"
	personalIDText = "invalid CPF"

	entityIDTag  = "cnpj"
	entityIDText = "invalid CNPJ"
)

// InitValidators registers the `cpf` and `cnpj` validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(personalIDTag, personalIDValidation)
	core.RegisterCustomTranslation(validate, translator, personalIDTag, personalIDText)

	_ = validate.RegisterValidation(entityIDTag, entityIDValidation)
	core.RegisterCustomTranslation(validate, translator, entityIDTag, entityIDText)
}

// Custom Validators

func personalIDValidation(fl validator.FieldLevel) bool {
	return IsValidPersonalID(fl.Field().String())
}

func entityIDValidation(fl validator.FieldLevel) bool {
	return IsValidEntityID(fl.Field().String())
}
