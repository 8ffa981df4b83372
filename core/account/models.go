package account

import (
	"strings"
	"unicode"

	"github.com/trezcool/studentcoin/core"
	"github.com/trezcool/studentcoin/core/access"
	"github.com/trezcool/studentcoin/core/taxid"
)

// Form is a payload cleaned before validation.
type Form interface {
	Clean()
}

// Registration is a Form creating an account of a given Role.
type Registration interface {
	Form
	Role() access.Role
}

var (
	_ Registration = (*NewUser)(nil)
	_ Registration = (*Student)(nil)
	_ Registration = (*Teacher)(nil)
	_ Registration = (*Company)(nil)
	_ Registration = (*Admin)(nil)
	_ Form         = (*Benefit)(nil)
	_ Form         = (*CoinTransfer)(nil)
)

// User holds the credentials every account has.
type User struct {
	Name            string `json:"name" validate:"required,notblank,min=3,max=100"`
	Email           string `json:"email" validate:"required,email,min=5,max=100"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm,omitempty" validate:"required,eqfield=Password"`
}

func (u *User) Clean() {
	u.Name = core.CleanString(u.Name)
	u.Email = core.CleanString(u.Email, true /* lower */)
}

// ClearPassword drops the password fields, eg. before echoing the form back.
func (u *User) ClearPassword() {
	u.Password = ""
	u.PasswordConfirm = ""
}

// NewUser is an account created from the admin user registration page.
type NewUser struct {
	User
	Type access.Role `json:"type" validate:"required"`
}

func (nu *NewUser) Role() access.Role { return nu.Type }

type Student struct {
	User
	CPF           string `json:"cpf" validate:"required,cpf"`
	RA            string `json:"ra" validate:"required,min=5,max=20"`
	Address       string `json:"address" validate:"required,min=10,max=200"`
	Course        string `json:"course" validate:"required,min=3,max=100"`
	InstitutionID int    `json:"institutionId" validate:"required,gt=0"`
}

func (s *Student) Clean() {
	s.User.Clean()
	s.CPF = taxid.Normalize(s.CPF)
	s.RA = cleanRA(s.RA)
	s.Address = core.CleanString(s.Address)
	s.Course = core.CleanString(s.Course)
}

func (*Student) Role() access.Role { return access.Student }

// cleanRA keeps the ASCII letters and digits of an academic record number, upper-cased, up to raMaxLen.
func cleanRA(ra string) string {
	ra = strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToUpper(r)
		}
		return -1
	}, ra)
	if len(ra) > raMaxLen {
		ra = ra[:raMaxLen]
	}
	return ra
}

const raMaxLen = 20

type Teacher struct {
	User
	CPF           string `json:"cpf" validate:"required,cpf"`
	Department    string `json:"department" validate:"max=100"`
	InstitutionID int    `json:"institutionId" validate:"required,gt=0"`
}

func (t *Teacher) Clean() {
	t.User.Clean()
	t.CPF = taxid.Normalize(t.CPF)
	t.Department = core.CleanString(t.Department)
}

func (*Teacher) Role() access.Role { return access.Teacher }

// Company is a partner company offering benefits to students.
type Company struct {
	User
	CompanyName string `json:"companyName" validate:"required,min=3,max=100"`
	CNPJ        string `json:"cnpj" validate:"required,cnpj"`
	Description string `json:"description" validate:"required,min=10,max=500"`
}

func (c *Company) Clean() {
	c.User.Clean()
	c.CompanyName = core.CleanString(c.CompanyName)
	c.CNPJ = taxid.Normalize(c.CNPJ)
	c.Description = core.CleanString(c.Description)
}

func (*Company) Role() access.Role { return access.Company }

type Admin struct {
	User
}

func (*Admin) Role() access.Role { return access.Admin }

// Benefit is a reward a company offers in exchange for coins.
type Benefit struct {
	Title       string `json:"title" validate:"required,notblank,min=3,max=100"`
	Description string `json:"description" validate:"required,min=10,max=500"`
	Cost        int    `json:"cost" validate:"required,gt=0"`
	PhotoURL    string `json:"photoUrl" validate:"omitempty,url,max=2048"`
}

func (b *Benefit) Clean() {
	b.Title = core.CleanString(b.Title)
	b.Description = core.CleanString(b.Description)
	b.PhotoURL = core.CleanString(b.PhotoURL)
}

// CoinTransfer is a teacher sending coins to a student.
type CoinTransfer struct {
	StudentEmail string `json:"studentEmail" validate:"required,email"`
	Amount       int    `json:"amount" validate:"required,gt=0"`
	Reason       string `json:"reason" validate:"required,notblank,max=255"`
}

func (ct *CoinTransfer) Clean() {
	ct.StudentEmail = core.CleanString(ct.StudentEmail, true /* lower */)
	ct.Reason = core.CleanString(ct.Reason)
}
