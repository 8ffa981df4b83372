package transaction

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Type is the kind of a coin movement.
type Type int

const (
	Unknown Type = iota
	TeacherToStudent
	Send
	Receive
	Exchange // a student trading coins for a benefit
)

var (
	ErrUnknownType = errors.New("unknown transaction type")

	typeNames = map[Type]string{
		TeacherToStudent: "teacher_to_student",
		Send:             "send",
		Receive:          "receive",
		Exchange:         "exchange",
	}

	// canonical names, plus the names of the coin backend ("tipoTransacao")
	typeAliases = map[string]Type{
		"teacher_to_student":   TeacherToStudent,
		"professor_para_aluno": TeacherToStudent,
		"send":                 Send,
		"envio":                Send,
		"receive":              Receive,
		"recebimento":          Receive,
		"exchange":             Exchange,
		"troca":                Exchange,
	}
)

// ParseType returns the Type named by s (case-insensitive).
func ParseType(s string) (Type, error) {
	if typ, ok := typeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return typ, nil
	}
	return Unknown, errors.Wrapf(ErrUnknownType, "%q", s)
}

func (t Type) String() string {
	return typeNames[t]
}

// Credits reports whether the movement adds coins to the student's balance.
func (t Type) Credits() bool {
	return t == TeacherToStudent || t == Send || t == Receive
}

// Debits reports whether the movement takes coins from the student's balance.
func (t Type) Debits() bool {
	return t == Exchange
}

// Direction is the student's side of a movement.
func (t Type) Direction() Direction {
	switch {
	case t.Credits():
		return Received
	case t.Debits():
		return Sent
	}
	return ""
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	typ, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = typ
	return nil
}

type Direction string

const (
	Sent     Direction = "sent"
	Received Direction = "received"
)

// Transaction is a coin movement between a teacher and a student.
type Transaction struct {
	ID          int64     `json:"id" validate:"required,gt=0"`
	Type        Type      `json:"type" validate:"required"`
	TeacherID   int64     `json:"teacherId"`
	TeacherName string    `json:"teacherName"`
	StudentID   int64     `json:"studentId" validate:"required,gt=0"`
	StudentName string    `json:"studentName"`
	Amount      int       `json:"amount" validate:"required,gt=0"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Query narrows a transaction history. Zero fields match everything.
type Query struct {
	StudentID int64  `json:"studentId" validate:"gte=0"`
	Search    string `json:"search" validate:"max=100"`
}

// Matches reports whether tx belongs to the queried student and contains the search text
// in its reason, teacher or student name (case-insensitive) or in its amount.
func (q Query) Matches(tx Transaction) bool {
	if q.StudentID != 0 && tx.StudentID != q.StudentID {
		return false
	}
	if q.Search == "" {
		return true
	}
	search := strings.ToLower(q.Search)
	return strings.Contains(strings.ToLower(tx.Reason), search) ||
		strings.Contains(strings.ToLower(tx.TeacherName), search) ||
		strings.Contains(strings.ToLower(tx.StudentName), search) ||
		strings.Contains(strconv.Itoa(tx.Amount), q.Search)
}

// Filter returns the transactions matching q, in their original order.
func Filter(txs []Transaction, q Query) []Transaction {
	res := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if q.Matches(tx) {
			res = append(res, tx)
		}
	}
	return res
}

// Summary holds the coins a history moved in and out of student balances.
type Summary struct {
	Received int `json:"received"`
	Spent    int `json:"spent"`
}

// Totals sums the coins received and spent in txs by studentID, or by every student when studentID is 0.
func Totals(txs []Transaction, studentID int64) Summary {
	var sum Summary
	for _, tx := range txs {
		if studentID != 0 && tx.StudentID != studentID {
			continue
		}
		switch {
		case tx.Type.Credits():
			sum.Received += tx.Amount
		case tx.Type.Debits():
			sum.Spent += tx.Amount
		}
	}
	return sum
}

// NewSince returns the credits of txs whose IDs are not in seenIDs, plus the IDs of every credit in txs,
// which become the seen set of the next poll.
func NewSince(txs []Transaction, seenIDs []int64) (fresh []Transaction, seen []int64) {
	known := make(map[int64]struct{}, len(seenIDs))
	for _, id := range seenIDs {
		known[id] = struct{}{}
	}

	fresh = make([]Transaction, 0)
	seen = make([]int64, 0, len(txs))
	for _, tx := range txs {
		if !tx.Type.Credits() {
			continue
		}
		seen = append(seen, tx.ID)
		if _, ok := known[tx.ID]; !ok {
			fresh = append(fresh, tx)
		}
	}
	return fresh, seen
}
