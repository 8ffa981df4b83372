package access

import (
	"strings"

	"github.com/pkg/errors"
)

// Role is the persona under which a session operates.
// The zero value is None: no role, no access.
type Role int

const (
	None Role = iota
	Admin
	Teacher
	Company
	Student
)

var (
	// AllRoles lists every concrete role, ordered by priority.
	AllRoles = []Role{Admin, Teacher, Company, Student}

	ErrUnknownRole = errors.New("unknown role")

	roleNames = map[Role]string{
		Admin:   "admin",
		Teacher: "teacher",
		Company: "company",
		Student: "student",
	}

	// canonical names, plus the names used by the coin backend ("tipo" of a user)
	roleAliases = map[string]Role{
		"admin":         Admin,
		"administrador": Admin,
		"teacher":       Teacher,
		"professor":     Teacher,
		"company":       Company,
		"empresa":       Company,
		"student":       Student,
		"aluno":         Student,
	}
)

// ParseRole returns the Role named by s (case-insensitive).
// An empty s is None; unknown names are None and ErrUnknownRole.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return None, nil
	}
	if role, ok := roleAliases[s]; ok {
		return role, nil
	}
	return None, errors.Wrapf(ErrUnknownRole, "%q", s)
}

// String returns the canonical role name, "" for None.
func (r Role) String() string {
	return roleNames[r]
}

// IsNone reports whether r is not a concrete role.
func (r Role) IsNone() bool {
	_, ok := roleNames[r]
	return !ok
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}
