package echoapi

import (
	"net/http"
	"testing"

	"github.com/trezcool/studentcoin/core/access"
	"github.com/trezcool/studentcoin/core/transaction"
)

func Test_transactionApi_summary(t *testing.T) {
	app := newTestApp(t)
	student := app.newDevice(t, access.Student)
	teacher := app.newDevice(t, access.Teacher)
	nobody := app.newDevice(t, access.None)

	history := `[
		{"id":1,"type":"PROFESSOR_PARA_ALUNO","teacherName":"Carla Dias","studentId":10,"amount":50,"reason":"Great project"},
		{"id":2,"type":"ENVIO","teacherName":"Carla Dias","studentId":11,"amount":20,"reason":"Helping peers"},
		{"id":3,"type":"TROCA","teacherName":"Carla Dias","studentId":10,"amount":15,"reason":"Coffee voucher"},
		{"id":4,"type":"RECEBIMENTO","teacherName":"Davi Rocha","studentId":10,"amount":5,"reason":"Quiz winner"}
	]`
	tx1 := transaction.Transaction{ID: 1, Type: transaction.TeacherToStudent, TeacherName: "Carla Dias", StudentID: 10, Amount: 50, Reason: "Great project"}
	tx2 := transaction.Transaction{ID: 2, Type: transaction.Send, TeacherName: "Carla Dias", StudentID: 11, Amount: 20, Reason: "Helping peers"}
	tx3 := transaction.Transaction{ID: 3, Type: transaction.Exchange, TeacherName: "Carla Dias", StudentID: 10, Amount: 15, Reason: "Coffee voucher"}
	tx4 := transaction.Transaction{ID: 4, Type: transaction.Receive, TeacherName: "Davi Rocha", StudentID: 10, Amount: 5, Reason: "Quiz winner"}

	runHTTPTests(t, app, []httpTest{
		{
			name:     "no session",
			method:   http.MethodPost,
			path:     "/v1/transactions/summary",
			body:     []byte(`{"transactions":[]}`),
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "no role",
			method:   http.MethodPost,
			path:     "/v1/transactions/summary",
			body:     []byte(`{"transactions":[]}`),
			deviceID: nobody,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "student history",
			method:   http.MethodPost,
			path:     "/v1/transactions/summary",
			body:     []byte(`{"studentId":10,"seenIds":[1],"transactions":` + history + `}`),
			deviceID: student,
			wantCode: http.StatusOK,
			wantData: marshalObj(t, TransactionSummaryResponse{
				Transactions: []transaction.Transaction{tx1, tx3, tx4},
				Totals:       transaction.Summary{Received: 55, Spent: 15},
				New:          []transaction.Transaction{tx4},
				SeenIDs:      []int64{1, 4},
			}),
		},
		{
			name:     "search does not hide notifications",
			method:   http.MethodPost,
			path:     "/v1/transactions/summary",
			body:     []byte(`{"studentId":10,"search":"quiz","transactions":` + history + `}`),
			deviceID: student,
			wantCode: http.StatusOK,
			wantData: marshalObj(t, TransactionSummaryResponse{
				Transactions: []transaction.Transaction{tx4},
				Totals:       transaction.Summary{Received: 5},
				New:          []transaction.Transaction{tx1, tx4},
				SeenIDs:      []int64{1, 4},
			}),
		},
		{
			name:     "every student",
			method:   http.MethodPost,
			path:     "/v1/transactions/summary",
			body:     []byte(`{"seenIds":[1,2,4],"transactions":` + history + `}`),
			deviceID: teacher,
			wantCode: http.StatusOK,
			wantData: marshalObj(t, TransactionSummaryResponse{
				Transactions: []transaction.Transaction{tx1, tx2, tx3, tx4},
				Totals:       transaction.Summary{Received: 75, Spent: 15},
				New:          []transaction.Transaction{},
				SeenIDs:      []int64{1, 2, 4},
			}),
		},
		{
			name:     "unknown type",
			method:   http.MethodPost,
			path:     "/v1/transactions/summary",
			body:     []byte(`{"transactions":[{"id":1,"type":"DOACAO","studentId":10,"amount":5}]}`),
			deviceID: student,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "invalid amount",
			method:   http.MethodPost,
			path:     "/v1/transactions/summary",
			body:     []byte(`{"transactions":[{"id":1,"type":"ENVIO","studentId":10,"amount":-5}]}`),
			deviceID: student,
			wantCode: http.StatusBadRequest,
		},
	})
}
