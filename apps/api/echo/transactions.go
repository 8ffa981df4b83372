package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studentcoin/core/access"
	"github.com/trezcool/studentcoin/core/transaction"
)

type (
	TransactionSummaryRequest struct {
		transaction.Query
		Transactions []transaction.Transaction `json:"transactions" validate:"dive"`
		SeenIDs      []int64                   `json:"seenIds"`
	}

	TransactionSummaryResponse struct {
		Transactions []transaction.Transaction `json:"transactions"`
		Totals       transaction.Summary       `json:"totals"`
		New          []transaction.Transaction `json:"new"`
		SeenIDs      []int64                   `json:"seenIds"`
	}
)

type transactionApi struct {
	validate   *validator.Validate
	translator ut.Translator
}

func registerTransactionAPI(
	g *echo.Group,
	session echo.MiddlewareFunc,
	registry *access.Registry,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := transactionApi{validate: validate, translator: translator}

	tg := g.Group("/transactions", session)
	tg.POST("/summary", api.summary, accessMiddleware(registry, access.ResTransactions))
}

// Handlers

// summary filters a transaction history, sums it and picks the credits the client has not seen yet.
func (api *transactionApi) summary(ctx echo.Context) error {
	var data TransactionSummaryRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TransactionSummaryRequest")
	}
	if err := validateRequest(api.validate, api.translator, &data); err != nil {
		return err
	}

	txs := transaction.Filter(data.Transactions, data.Query)
	// notifications follow the student's whole history, not the search
	fresh, seen := transaction.NewSince(
		transaction.Filter(data.Transactions, transaction.Query{StudentID: data.StudentID}),
		data.SeenIDs,
	)
	return ctx.JSON(http.StatusOK, TransactionSummaryResponse{
		Transactions: txs,
		Totals:       transaction.Totals(txs, data.StudentID),
		New:          fresh,
		SeenIDs:      seen,
	})
}
