package access

import (
	"encoding/json"
	"sort"
)

// Resource is a named view or capability gated by role membership.
type Resource struct {
	name    string
	allowed map[Role]struct{}
}

// NewResource returns a Resource opened to the given roles. None is never allowed.
func NewResource(name string, roles ...Role) Resource {
	allowed := make(map[Role]struct{}, len(roles))
	for _, role := range roles {
		if !role.IsNone() {
			allowed[role] = struct{}{}
		}
	}
	return Resource{name: name, allowed: allowed}
}

func (res Resource) Name() string { return res.name }

// Allows reports whether role may open the resource.
func (res Resource) Allows(role Role) bool {
	if role.IsNone() {
		return false
	}
	_, ok := res.allowed[role]
	return ok
}

// Roles returns the allowed roles, ordered as AllRoles.
func (res Resource) Roles() []Role {
	roles := make([]Role, 0, len(res.allowed))
	for _, role := range AllRoles {
		if _, ok := res.allowed[role]; ok {
			roles = append(roles, role)
		}
	}
	return roles
}

func (res Resource) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string `json:"name"`
		Roles []Role `json:"roles"`
	}{res.name, res.Roles()})
}

// Registry maps resource names to resources. It is built once and never mutated.
type Registry struct {
	resources map[string]Resource
}

func NewRegistry(resources ...Resource) *Registry {
	reg := &Registry{resources: make(map[string]Resource, len(resources))}
	for _, res := range resources {
		reg.resources[res.name] = res
	}
	return reg
}

// Lookup returns the resource registered under name.
func (reg *Registry) Lookup(name string) (Resource, bool) {
	res, ok := reg.resources[name]
	return res, ok
}

// Resources returns all resources sorted by name.
func (reg *Registry) Resources() []Resource {
	resources := make([]Resource, 0, len(reg.resources))
	for _, res := range reg.resources {
		resources = append(resources, res)
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i].name < resources[j].name })
	return resources
}

// Accessible returns the resources role may open, sorted by name.
func (reg *Registry) Accessible(role Role) []Resource {
	resources := make([]Resource, 0)
	for _, res := range reg.Resources() {
		if res.Allows(role) {
			resources = append(resources, res)
		}
	}
	return resources
}

// Pages of the coin application.
const (
	ResUserRegistration    = "user-registration"
	ResUserList            = "user-list"
	ResUserEdit            = "user-edit"
	ResCompanyList         = "company-list"
	ResCompanyEdit         = "company-edit"
	ResStudentRegistration = "student-registration"
	ResTeacherDashboard    = "teacher-dashboard"
	ResSendCoins           = "send-coins"
	ResBenefitRegistration = "benefit-registration"
	ResBenefits            = "benefits"
	ResStudentDashboard    = "student-dashboard"
	ResTransactions        = "transactions"
)

// DefaultRegistry returns the page registry of the coin application.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewResource(ResUserRegistration, Admin),
		NewResource(ResUserList, Admin),
		NewResource(ResUserEdit, Admin),
		NewResource(ResCompanyList, Admin),
		NewResource(ResCompanyEdit, Admin),
		NewResource(ResStudentRegistration, Admin),
		NewResource(ResTeacherDashboard, Teacher),
		NewResource(ResSendCoins, Teacher),
		NewResource(ResBenefitRegistration, Company),
		NewResource(ResBenefits, Student, Company),
		NewResource(ResStudentDashboard, Student),
		NewResource(ResTransactions, AllRoles...),
	)
}
