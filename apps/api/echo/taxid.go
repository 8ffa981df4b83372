package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studentcoin/core"
	"github.com/trezcool/studentcoin/core/taxid"
)

type (
	ValidateTaxIDRequest struct {
		Kind  string `json:"kind" validate:"required,oneof=cpf cnpj"`
		Value string `json:"value" validate:"required"`
	}

	ValidateTaxIDResponse struct {
		Valid      bool   `json:"valid"`
		Normalized string `json:"normalized"`
		Formatted  string `json:"formatted"`
	}

	FormatTaxIDRequest struct {
		Kind  string `query:"kind" json:"kind" validate:"required,oneof=cpf cnpj"`
		Value string `query:"value" json:"value"`
	}

	FormatTaxIDResponse struct {
		Formatted string `json:"formatted"`
	}
)

func (r *ValidateTaxIDRequest) Clean() {
	r.Kind = core.CleanString(r.Kind, true /* lower */)
}

func (r *FormatTaxIDRequest) Clean() {
	r.Kind = core.CleanString(r.Kind, true /* lower */)
}

type taxIDApi struct {
	validate   *validator.Validate
	translator ut.Translator
}

func registerTaxIDAPI(g *echo.Group, validate *validator.Validate, translator ut.Translator) {
	api := taxIDApi{validate: validate, translator: translator}

	tg := g.Group("/taxids")
	tg.POST("/validate", api.validateID)
	tg.GET("/format", api.format)
}

// Handlers

func (api *taxIDApi) validateID(ctx echo.Context) error {
	var data ValidateTaxIDRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ValidateTaxIDRequest")
	}
	if err := validateRequest(api.validate, api.translator, &data); err != nil {
		return err
	}

	kind, _ := taxid.ParseKind(data.Kind)
	return ctx.JSON(http.StatusOK, ValidateTaxIDResponse{
		Valid:      kind.Validate(data.Value),
		Normalized: taxid.Normalize(data.Value),
		Formatted:  kind.Format(data.Value),
	})
}

func (api *taxIDApi) format(ctx echo.Context) error {
	var data FormatTaxIDRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FormatTaxIDRequest")
	}
	if err := validateRequest(api.validate, api.translator, &data); err != nil {
		return err
	}

	kind, _ := taxid.ParseKind(data.Kind)
	return ctx.JSON(http.StatusOK, FormatTaxIDResponse{Formatted: kind.Format(data.Value)})
}
