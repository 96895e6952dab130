// Package authz concentra la política de acceso: rol mínimo por acción y
// recurso, más la regla de propiedad para owners.
package authz

import (
	"strings"

	"pet-care-management/internal/platform/apperr"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
	RoleOwner Role = "owner"
)

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", apperr.Validation("role must be one of admin, staff, owner")
	}
	return r, nil
}

func (r Role) Valid() bool {
	return r.rank() > 0
}

func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleStaff:
		return 2
	case RoleOwner:
		return 1
	default:
		return 0
	}
}

// AtLeast reporta si r tiene el rango de min o superior.
func (r Role) AtLeast(min Role) bool {
	return r.rank() > 0 && r.rank() >= min.rank()
}

type Action string

const (
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	// ActionManage cubre cambios de workflow reservados a personal
	// (estado/asignación de órdenes, activación de cuentas).
	ActionManage Action = "manage"
)

type Resource string

const (
	ResourceUser         Resource = "user"
	ResourcePet          Resource = "pet"
	ResourceService      Resource = "service"
	ResourceOrder        Resource = "order"
	ResourceBoarding     Resource = "boarding"
	ResourceHealthRecord Resource = "health_record"
	ResourceDashboard    Resource = "dashboard"
)

// Caller es la identidad autenticada del request.
type Caller struct {
	ID   int64
	Role Role
}

type key struct {
	action   Action
	resource Resource
}

// rule: min es el rol mínimo. Si owned, quien no alcance bypass solo pasa
// cuando es dueño del recurso.
type rule struct {
	min    Role
	owned  bool
	bypass Role
}

var (
	anyone     = rule{min: RoleOwner}
	staffOnly  = rule{min: RoleStaff}
	adminOnly  = rule{min: RoleAdmin}
	ownedStaff = rule{min: RoleOwner, owned: true, bypass: RoleStaff}
	ownedAdmin = rule{min: RoleOwner, owned: true, bypass: RoleAdmin}
)

var rules = map[key]rule{
	{ActionList, ResourceUser}:   adminOnly,
	{ActionCreate, ResourceUser}: adminOnly,
	{ActionDelete, ResourceUser}: adminOnly,
	{ActionManage, ResourceUser}: adminOnly,
	{ActionRead, ResourceUser}:   ownedAdmin,
	{ActionUpdate, ResourceUser}: ownedAdmin,

	{ActionList, ResourcePet}:   anyone,
	{ActionRead, ResourcePet}:   ownedStaff,
	{ActionCreate, ResourcePet}: ownedStaff,
	{ActionUpdate, ResourcePet}: ownedStaff,
	{ActionDelete, ResourcePet}: ownedStaff,

	{ActionList, ResourceService}:   anyone,
	{ActionRead, ResourceService}:   anyone,
	{ActionCreate, ResourceService}: staffOnly,
	{ActionUpdate, ResourceService}: staffOnly,
	{ActionDelete, ResourceService}: staffOnly,

	{ActionList, ResourceOrder}:   anyone,
	{ActionRead, ResourceOrder}:   ownedStaff,
	{ActionCreate, ResourceOrder}: ownedStaff,
	{ActionUpdate, ResourceOrder}: ownedStaff,
	{ActionDelete, ResourceOrder}: ownedStaff,
	{ActionManage, ResourceOrder}: staffOnly,

	{ActionList, ResourceBoarding}:   anyone,
	{ActionRead, ResourceBoarding}:   ownedStaff,
	{ActionCreate, ResourceBoarding}: staffOnly,
	{ActionUpdate, ResourceBoarding}: staffOnly,
	{ActionDelete, ResourceBoarding}: staffOnly,

	{ActionList, ResourceHealthRecord}:   anyone,
	{ActionRead, ResourceHealthRecord}:   ownedStaff,
	{ActionCreate, ResourceHealthRecord}: staffOnly,
	{ActionUpdate, ResourceHealthRecord}: staffOnly,
	{ActionDelete, ResourceHealthRecord}: staffOnly,

	{ActionRead, ResourceDashboard}: staffOnly,
}

// Allow es la única decisión de acceso. ownerID es el dueño del recurso
// (nil si no aplica). Combinaciones sin regla se niegan.
func Allow(c Caller, action Action, res Resource, ownerID *int64) bool {
	if c.ID <= 0 || !c.Role.Valid() {
		return false
	}
	rl, ok := rules[key{action, res}]
	if !ok {
		return false
	}
	if !c.Role.AtLeast(rl.min) {
		return false
	}
	if !rl.owned || c.Role.AtLeast(rl.bypass) {
		return true
	}
	return ownerID != nil && *ownerID == c.ID
}

// Require es Allow devolviendo apperr.Forbidden.
func Require(c Caller, action Action, res Resource, ownerID *int64) error {
	if !Allow(c, action, res, ownerID) {
		return apperr.Forbidden("permission denied")
	}
	return nil
}

// ScopeOwner devuelve el filtro de dueño forzado para listados: el propio id
// para owners, nil para personal.
func ScopeOwner(c Caller) *int64 {
	if c.Role.AtLeast(RoleStaff) {
		return nil
	}
	id := c.ID
	return &id
}

// Owner es un helper para pasar ids como *int64.
func Owner(id int64) *int64 { return &id }
