package transaction

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func history() []Transaction {
	return []Transaction{
		{ID: 1, Type: TeacherToStudent, TeacherName: "Carla Dias", StudentID: 10, StudentName: "Ana Lima", Amount: 50, Reason: "Great project"},
		{ID: 2, Type: Send, TeacherName: "Carla Dias", StudentID: 11, StudentName: "Bruno Costa", Amount: 20, Reason: "Helping peers"},
		{ID: 3, Type: Exchange, TeacherName: "Carla Dias", StudentID: 10, StudentName: "Ana Lima", Amount: 15, Reason: "Coffee voucher"},
		{ID: 4, Type: Receive, TeacherName: "Davi Rocha", StudentID: 10, StudentName: "Ana Lima", Amount: 5, Reason: "Quiz winner"},
		{ID: 5, Type: Exchange, TeacherName: "Davi Rocha", StudentID: 11, StudentName: "Bruno Costa", Amount: 120, Reason: "Book discount"},
	}
}

func ids(txs []Transaction) []int64 {
	res := make([]int64, 0, len(txs))
	for _, tx := range txs {
		res = append(res, tx.ID)
	}
	return res
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{in: "PROFESSOR_PARA_ALUNO", want: TeacherToStudent},
		{in: "ENVIO", want: Send},
		{in: "recebimento", want: Receive},
		{in: " TROCA ", want: Exchange},
		{in: "exchange", want: Exchange},
		{in: "teacher_to_student", want: TeacherToStudent},
		{in: "", want: Unknown, wantErr: true},
		{in: "DOACAO", want: Unknown, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownType), "error = %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestType_direction(t *testing.T) {
	tests := []struct {
		typ        Type
		wantCredit bool
		wantDebit  bool
		wantDir    Direction
	}{
		{typ: TeacherToStudent, wantCredit: true, wantDir: Received},
		{typ: Send, wantCredit: true, wantDir: Received},
		{typ: Receive, wantCredit: true, wantDir: Received},
		{typ: Exchange, wantDebit: true, wantDir: Sent},
		{typ: Unknown},
	}
	for _, tt := range tests {
		if got := tt.typ.Credits(); got != tt.wantCredit {
			t.Errorf("%v.Credits() = %v, want %v", tt.typ, got, tt.wantCredit)
		}
		if got := tt.typ.Debits(); got != tt.wantDebit {
			t.Errorf("%v.Debits() = %v, want %v", tt.typ, got, tt.wantDebit)
		}
		if got := tt.typ.Direction(); got != tt.wantDir {
			t.Errorf("%v.Direction() = %q, want %q", tt.typ, got, tt.wantDir)
		}
	}
}

func TestTransaction_json(t *testing.T) {
	var tx Transaction
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"type":"TROCA","studentId":10,"amount":30}`), &tx))
	assert.Equal(t, Exchange, tx.Type)

	data, err := json.Marshal(tx.Type)
	require.NoError(t, err)
	assert.Equal(t, `"exchange"`, string(data))

	err = json.Unmarshal([]byte(`{"id":8,"type":"DOACAO"}`), &tx)
	assert.True(t, errors.Is(err, ErrUnknownType), "error = %v", err)
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  []int64
	}{
		{name: "everything", want: []int64{1, 2, 3, 4, 5}},
		{name: "by student", query: Query{StudentID: 10}, want: []int64{1, 3, 4}},
		{name: "unknown student", query: Query{StudentID: 99}, want: []int64{}},
		{name: "reason", query: Query{Search: "VOUCHER"}, want: []int64{3}},
		{name: "teacher name", query: Query{Search: "davi"}, want: []int64{4, 5}},
		{name: "student name", query: Query{Search: "bruno"}, want: []int64{2, 5}},
		{name: "amount", query: Query{Search: "12"}, want: []int64{5}},
		{name: "student and search", query: Query{StudentID: 10, Search: "carla"}, want: []int64{1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(history(), tt.query)))
		})
	}
}

func TestTotals(t *testing.T) {
	tests := []struct {
		name      string
		txs       []Transaction
		studentID int64
		want      Summary
	}{
		{name: "empty", want: Summary{}},
		{name: "one student", txs: history(), studentID: 10, want: Summary{Received: 55, Spent: 15}},
		{name: "other student", txs: history(), studentID: 11, want: Summary{Received: 20, Spent: 120}},
		{name: "every student", txs: history(), want: Summary{Received: 75, Spent: 135}},
		{name: "unknown types ignored", txs: []Transaction{{ID: 1, StudentID: 10, Amount: 9}}, studentID: 10, want: Summary{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Totals(tt.txs, tt.studentID); got != tt.want {
				t.Errorf("Totals() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewSince(t *testing.T) {
	tests := []struct {
		name      string
		seen      []int64
		wantFresh []int64
	}{
		{name: "first poll", wantFresh: []int64{1, 2, 4}},
		{name: "some seen", seen: []int64{1, 3}, wantFresh: []int64{2, 4}},
		{name: "all seen", seen: []int64{1, 2, 4}, wantFresh: []int64{}},
		{name: "stale ids", seen: []int64{42}, wantFresh: []int64{1, 2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fresh, seen := NewSince(history(), tt.seen)
			assert.Equal(t, tt.wantFresh, ids(fresh))
			assert.Equal(t, []int64{1, 2, 4}, seen, "exchanges are never notified")
		})
	}

	// the next poll only reports what arrived in between
	_, seen := NewSince(history(), nil)
	next := append(history(), Transaction{ID: 6, Type: Send, StudentID: 10, Amount: 3})
	fresh, _ := NewSince(next, seen)
	assert.Equal(t, []int64{6}, ids(fresh))
}
