package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studentcoin/core/access"
	"github.com/trezcool/studentcoin/core/account"
)

type formApi struct {
	validate   *validator.Validate
	translator ut.Translator
}

func registerFormAPI(
	g *echo.Group,
	session echo.MiddlewareFunc,
	registry *access.Registry,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := formApi{validate: validate, translator: translator}

	fg := g.Group("/forms", session)
	fg.POST("/users", api.submit(func() account.Form { return new(account.NewUser) }),
		accessMiddleware(registry, access.ResUserRegistration))
	fg.POST("/students", api.submit(func() account.Form { return new(account.Student) }),
		accessMiddleware(registry, access.ResStudentRegistration))
	fg.POST("/companies", api.submit(func() account.Form { return new(account.Company) }),
		accessMiddleware(registry, access.ResCompanyList))
	fg.POST("/benefits", api.submit(func() account.Form { return new(account.Benefit) }),
		accessMiddleware(registry, access.ResBenefitRegistration))
	fg.POST("/transfers", api.submit(func() account.Form { return new(account.CoinTransfer) }),
		accessMiddleware(registry, access.ResSendCoins))
}

// Handlers

// submit binds the request body to a fresh form, validates it and echoes it back cleaned.
func (api *formApi) submit(newForm func() account.Form) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		form := newForm()
		if err := ctx.Bind(form); err != nil {
			return errors.Wrapf(err, "binding to %T", form)
		}
		if err := account.Validate(api.validate, api.translator, form); err != nil {
			return err
		}

		if f, ok := form.(interface{ ClearPassword() }); ok {
			f.ClearPassword()
		}
		return ctx.JSON(http.StatusOK, form)
	}
}
