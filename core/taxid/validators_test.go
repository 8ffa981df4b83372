package taxid

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studentcoin/core"
)

type taxPayer struct {
	CPF  string `json:"cpf" validate:"omitempty,cpf"`
	CNPJ string `json:"cnpj" validate:"omitempty,cnpj"`
}

func TestInitValidators(t *testing.T) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)

	tests := []struct {
		name    string
		payer   taxPayer
		wantErr map[string]string
	}{
		{name: "empty", payer: taxPayer{}},
		{name: "valid", payer: taxPayer{CPF: "111.444.777-35", CNPJ: "11.222.333/0001-81"}},
		{name: "invalid cpf", payer: taxPayer{CPF: "111.444.777-36"}, wantErr: map[string]string{"cpf": "invalid CPF"}},
		{name: "invalid cnpj", payer: taxPayer{CNPJ: "11222333000180"}, wantErr: map[string]string{"cnpj": "invalid CNPJ"}},
		{
			name:    "both swapped",
			payer:   taxPayer{CPF: "11222333000181", CNPJ: "11144477735"},
			wantErr: map[string]string{"cpf": "invalid CPF", "cnpj": "invalid CNPJ"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.payer)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.wantErr, core.TranslateValidationErrors(verrs, translator))
		})
	}
}
