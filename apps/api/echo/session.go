package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studentcoin/core"
	"github.com/trezcool/studentcoin/core/access"
	"github.com/trezcool/studentcoin/core/account"
)

type (
	NewSessionResponse struct {
		DeviceID string `json:"deviceId"`
	}

	SessionResponse struct {
		Role      access.Role       `json:"role"`
		Resources []access.Resource `json:"resources"`
	}

	SetRoleRequest struct {
		Role string `json:"role" validate:"required,notblank"`
	}

	AccessResponse struct {
		Resource string `json:"resource"`
		Allowed  bool   `json:"allowed"`
	}
)

type sessionApi struct {
	sessions   *access.Sessions
	registry   *access.Registry
	validate   *validator.Validate
	translator ut.Translator
}

func registerSessionAPI(
	g *echo.Group,
	session echo.MiddlewareFunc,
	sessions *access.Sessions,
	registry *access.Registry,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := sessionApi{
		sessions:   sessions,
		registry:   registry,
		validate:   validate,
		translator: translator,
	}

	g.POST("/sessions", api.create)

	sg := g.Group("/session", session)
	sg.GET("", api.retrieve)
	sg.PUT("", api.update)
	sg.DELETE("", api.destroy)

	rg := g.Group("/resources")
	rg.GET("", api.queryResources)
	rg.GET("/:name/access", api.checkAccess, session)
}

// Handlers

func (api *sessionApi) create(ctx echo.Context) error {
	return ctx.JSON(http.StatusCreated, NewSessionResponse{DeviceID: api.sessions.NewDeviceID()})
}

func (api *sessionApi) retrieve(ctx echo.Context) error {
	ctrl, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.sessionResponse(ctrl.Role()))
}

func (api *sessionApi) update(ctx echo.Context) error {
	ctrl, err := getContextSession(ctx)
	if err != nil {
		return err
	}

	var data SetRoleRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetRoleRequest")
	}
	if err = validateRequest(api.validate, api.translator, &data); err != nil {
		return err
	}
	role, err := access.ParseRole(data.Role)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: access.ErrUnknownRole.Error()})
	}

	ctrl.SetRole(ctx.Request().Context(), role)
	return ctx.JSON(http.StatusOK, api.sessionResponse(ctrl.Role()))
}

func (api *sessionApi) destroy(ctx echo.Context) error {
	ctrl, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	ctrl.Logout(ctx.Request().Context())
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sessionApi) queryResources(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.registry.Resources())
}

func (api *sessionApi) checkAccess(ctx echo.Context) error {
	ctrl, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	res, ok := api.registry.Lookup(ctx.Param("name"))
	if !ok {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, AccessResponse{Resource: res.Name(), Allowed: ctrl.CanAccess(res)})
}

func (api *sessionApi) sessionResponse(role access.Role) SessionResponse {
	return SessionResponse{Role: role, Resources: api.registry.Accessible(role)}
}

// validateRequest cleans data if it is an account.Form and validates it, returning translated field errors as a *core.ValidationError.
func validateRequest(validate *validator.Validate, translator ut.Translator, data interface{}) error {
	if form, ok := data.(account.Form); ok {
		form.Clean()
	}
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(err, "validating request")
	}
	fldErrs := core.TranslateValidationErrors(vErrs, translator)
	flds := make([]core.FieldError, 0, len(fldErrs))
	for fld, msg := range fldErrs {
		flds = append(flds, core.FieldError{Field: fld, Error: msg})
	}
	return core.NewValidationError(nil, flds...)
}
