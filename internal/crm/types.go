package crm

import (
	"strings"
	"time"
)

// EntityKind identifies one of the five managed record types.
type EntityKind string

const (
	KindEmployee EntityKind = "employee"
	KindRole     EntityKind = "role"
	KindCustomer EntityKind = "customer"
	KindContract EntityKind = "contract"
	KindEvent    EntityKind = "event"
)

// Kinds lists every entity kind in menu order.
var Kinds = []EntityKind{KindCustomer, KindContract, KindEvent, KindEmployee, KindRole}

// Distinguished role names used by ownership scoping.
const (
	RoleNameManagement = "Management"
	RoleNameCommercial = "Commercial"
	RoleNameSupport    = "Support"
)

// Capability is the per-entity-kind flag triple. The flags are
// independent bits: CreateUpdateDelete does not set ReadUpdate, and
// ReadUpdate does not set Read. Policy queries OR them together.
type Capability struct {
	Read               bool
	ReadUpdate         bool
	CreateUpdateDelete bool
}

// Role bundles the capability flags shared by its employees.
type Role struct {
	ID   int64
	Name string

	Employee Capability
	Role     Capability
	Customer Capability
	Contract Capability
	Event    Capability

	AccessAllCustomers bool
	AccessAllContracts bool
	AccessAllEvents    bool
	// AssignableSupport marks roles whose members may be set as an
	// event's support contact. It does not widen event read scope.
	AssignableSupport bool

	CreatedAt time.Time
}

// Capability returns the flag triple for the given entity kind.
func (r *Role) Capability(kind EntityKind) Capability {
	switch kind {
	case KindEmployee:
		return r.Employee
	case KindRole:
		return r.Role
	case KindCustomer:
		return r.Customer
	case KindContract:
		return r.Contract
	case KindEvent:
		return r.Event
	}
	return Capability{}
}

// Is reports whether the role carries the given distinguished name,
// case-insensitively.
func (r *Role) Is(name string) bool {
	return strings.EqualFold(r.Name, name)
}

func (r *Role) Key() int64 { return r.ID }

// Employee is an authenticated operator record.
type Employee struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	RoleID       int64
	CreatedAt    time.Time

	// RoleName is populated by list queries for display only.
	RoleName string
}

func (e *Employee) Key() int64 { return e.ID }

// Customer belongs to exactly one commercial employee.
type Customer struct {
	ID           int64
	CommercialID int64
	FirstName    string
	LastName     string
	Email        string
	PhoneNumber  string
	Company      string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// CommercialEmail is populated by list queries for display only.
	CommercialEmail string
}

func (c *Customer) Key() int64 { return c.ID }

// Contract belongs to exactly one customer. Outstanding never exceeds
// Amount; both are non-negative.
type Contract struct {
	ID          int64
	CustomerID  int64
	Title       string
	Amount      float64
	Outstanding float64
	Signed      bool
	CreatedAt   time.Time

	// Populated by list queries for display only.
	CustomerEmail string
}

func (c *Contract) Key() int64 { return c.ID }

// Event belongs to exactly one signed contract and optionally to a
// support employee. When both dates are set, End is strictly after
// Start.
type Event struct {
	ID         int64
	ContractID int64
	SupportID  *int64
	Title      string
	Notes      string
	Location   string
	Attendees  int
	Start      *time.Time
	End        *time.Time
	CreatedAt  time.Time

	// Populated by list queries for display only.
	ContractTitle string
	SupportEmail  string
}

func (e *Event) Key() int64 { return e.ID }
