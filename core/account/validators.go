package account

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/studentcoin/core"
)

var (
	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdMaxLen     = 50
	pwdMaxLenTag  = "pwdmaxlen"
	pwdMaxLenText = fmt.Sprintf("password must contain at most %d characters", pwdMaxLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdComplexityTag  = "pwdcplx"
	pwdComplexityText = "password must contain at least 1 uppercase character, 1 lowercase character and 1 digit"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"

	pwdTexts = map[string]string{
		pwdMinLenTag:     pwdMinLenText,
		pwdMaxLenTag:     pwdMaxLenText,
		pwdNoSpaceTag:    pwdNoSpaceText,
		pwdNotAllNumTag:  pwdNotAllNumText,
		pwdComplexityTag: pwdComplexityText,
		pwdAttrSimTag:    pwdAttrSimText,
	}
)

// InitValidators registers the password policy on User and every form embedding it.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(userStructValidation, User{})
	for tag, text := range pwdTexts {
		core.RegisterCustomTranslation(validate, translator, tag, text)
	}
}

// Validate cleans form and validates it. Failures are returned as a *core.ValidationError
// holding the first translated message of each field.
func Validate(validate *validator.Validate, translator ut.Translator, form Form) error {
	form.Clean()

	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(err, "validating form")
	}

	seen := make(map[string]bool, len(vErrs))
	flds := make([]core.FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		if seen[vErr.Field()] {
			continue
		}
		seen[vErr.Field()] = true
		flds = append(flds, core.FieldError{Field: vErr.Field(), Error: vErr.Translate(translator)})
	}
	return core.NewValidationError(nil, flds...)
}

// CheckPassword applies the password policy to pwd, comparing it with the given user attributes.
func CheckPassword(pwd string, attrs ...string) error {
	if tag := passwordViolation(pwd, attrs...); tag != "" {
		return errors.New(pwdTexts[tag])
	}
	return nil
}

func userStructValidation(sl validator.StructLevel) {
	usr, ok := sl.Current().Interface().(User)
	if !ok || usr.Password == "" {
		return
	}
	if tag := passwordViolation(usr.Password, usr.Name, usr.Email); tag != "" {
		sl.ReportError(usr.Password, "password", "Password", tag, "")
	}
}

// passwordViolation returns the tag of the first password policy rule pwd breaks:
// - length: 8 to 50
// - no whitespace
// - not all numeric
// - complexity: 1 upper, 1 lower, 1 digit
// - no user attrs similarity
func passwordViolation(pwd string, attrs ...string) string {
	pwdLen := utf8.RuneCountInString(pwd)
	if pwdLen < pwdMinLen {
		return pwdMinLenTag
	}
	if pwdLen > pwdMaxLen {
		return pwdMaxLenTag
	}

	var (
		digitCount         int
		hasUpper, hasLower bool
	)
	for _, char := range pwd {
		if unicode.IsSpace(char) {
			return pwdNoSpaceTag
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
		if !hasUpper && unicode.IsUpper(char) {
			hasUpper = true
		}
		if !hasLower && unicode.IsLower(char) {
			hasLower = true
		}
	}

	if digitCount == pwdLen {
		return pwdNotAllNumTag
	}
	if !(hasUpper && hasLower && digitCount > 0) {
		return pwdComplexityTag
	}

	getRatio := func(pass, usrAttr string) float64 {
		if usrAttr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(pass, ""), strings.Split(usrAttr, "")).QuickRatio()
	}
	lpwd := strings.ToLower(pwd)
	for _, attr := range attrs {
		if getRatio(lpwd, strings.ToLower(attr)) >= pwdMaxSim {
			return pwdAttrSimTag
		}
	}
	return ""
}
