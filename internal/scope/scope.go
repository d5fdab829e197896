// Package scope answers "which records can this operator see, and is
// this id one of them". Every list and lookup the interactive session
// performs goes through a Resolver so the ownership rules live in one
// place.
package scope

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"epicevents.org/internal/crm"
	"epicevents.org/internal/store/pg"
)

// Outcome tags the result of resolving a raw id against the operator's
// authorized set.
type Outcome int

const (
	// Found means the record exists and is inside the operator's scope.
	Found Outcome = iota
	// Malformed means the raw input is not a positive integer id.
	Malformed
	// NotFound means the record does not exist and the operator's view
	// of the kind is unscoped, so saying so leaks nothing.
	NotFound
	// Unauthorized covers both a record outside the operator's scope
	// and a missing id in a scoped view. The two are indistinguishable
	// on purpose so scoped operators cannot probe for existence.
	Unauthorized
)

// Resolver scopes queries to one authenticated operator.
type Resolver struct {
	store *pg.Store
	actor *crm.Employee
	role  *crm.Role
}

func NewResolver(store *pg.Store, actor *crm.Employee, role *crm.Role) *Resolver {
	return &Resolver{store: store, actor: actor, role: role}
}

func (r *Resolver) Actor() *crm.Employee { return r.actor }
func (r *Resolver) Role() *crm.Role      { return r.role }

// ParseID validates raw operator input as a record id.
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Customers lists the customers visible to the operator: everything
// with the access-all grant, the operator's own portfolio for a
// commercial, nothing otherwise.
func (r *Resolver) Customers(ctx context.Context) ([]*crm.Customer, error) {
	if !crm.CanRead(r.role, crm.KindCustomer) {
		return nil, crm.ErrUnauthorized
	}
	if crm.CanAccessAll(r.role, crm.KindCustomer) {
		return r.store.ListCustomers(ctx)
	}
	if r.role.Is(crm.RoleNameCommercial) {
		return r.store.ListCustomersByCommercial(ctx, r.actor.ID)
	}
	return nil, nil
}

// Contracts lists the contracts visible to the operator, scoped through
// the owning customer's commercial.
func (r *Resolver) Contracts(ctx context.Context) ([]*crm.Contract, error) {
	if !crm.CanRead(r.role, crm.KindContract) {
		return nil, crm.ErrUnauthorized
	}
	if crm.CanAccessAll(r.role, crm.KindContract) {
		return r.store.ListContracts(ctx)
	}
	if r.role.Is(crm.RoleNameCommercial) {
		return r.store.ListContractsByCommercial(ctx, r.actor.ID)
	}
	return nil, nil
}

// SignedContracts narrows Contracts to signed ones. Used when creating
// an event, which requires a signed contract.
func (r *Resolver) SignedContracts(ctx context.Context) ([]*crm.Contract, error) {
	if !crm.CanRead(r.role, crm.KindContract) {
		return nil, crm.ErrUnauthorized
	}
	if crm.CanAccessAll(r.role, crm.KindContract) {
		return r.store.ListSignedContracts(ctx)
	}
	if r.role.Is(crm.RoleNameCommercial) {
		return r.store.ListSignedContractsByCommercial(ctx, r.actor.ID)
	}
	return nil, nil
}

// UnsignedContracts is the commercial follow-up view of contracts still
// awaiting signature.
func (r *Resolver) UnsignedContracts(ctx context.Context) ([]*crm.Contract, error) {
	if !crm.CanRead(r.role, crm.KindContract) || !r.role.Is(crm.RoleNameCommercial) {
		return nil, crm.ErrUnauthorized
	}
	return r.store.ListUnsignedContractsByCommercial(ctx, r.actor.ID)
}

// OutstandingContracts is the commercial follow-up view of contracts
// with a balance still due.
func (r *Resolver) OutstandingContracts(ctx context.Context) ([]*crm.Contract, error) {
	if !crm.CanRead(r.role, crm.KindContract) || !r.role.Is(crm.RoleNameCommercial) {
		return nil, crm.ErrUnauthorized
	}
	return r.store.ListOutstandingContractsByCommercial(ctx, r.actor.ID)
}

// Events lists the events visible to the operator. Access-all sees
// everything, a commercial sees events under their customers' contracts,
// a support employee sees the events assigned to them.
func (r *Resolver) Events(ctx context.Context) ([]*crm.Event, error) {
	if !crm.CanRead(r.role, crm.KindEvent) {
		return nil, crm.ErrUnauthorized
	}
	if crm.CanAccessAll(r.role, crm.KindEvent) {
		return r.store.ListEvents(ctx)
	}
	if r.role.Is(crm.RoleNameCommercial) {
		return r.store.ListEventsByCommercial(ctx, r.actor.ID)
	}
	if r.role.Is(crm.RoleNameSupport) {
		return r.store.ListEventsBySupport(ctx, r.actor.ID)
	}
	return nil, nil
}

// EventsWithoutSupport lists events awaiting a support assignment. Only
// roles that manage assignments need the view.
func (r *Resolver) EventsWithoutSupport(ctx context.Context) ([]*crm.Event, error) {
	if !crm.CanManageSupportAssignment(r.role) {
		return nil, crm.ErrUnauthorized
	}
	return r.store.ListEventsWithoutSupport(ctx)
}

// Employees and Roles are not ownership-scoped; read capability alone
// gates them.
func (r *Resolver) Employees(ctx context.Context) ([]*crm.Employee, error) {
	if !crm.CanRead(r.role, crm.KindEmployee) {
		return nil, crm.ErrUnauthorized
	}
	return r.store.ListEmployees(ctx)
}

func (r *Resolver) Roles(ctx context.Context) ([]*crm.Role, error) {
	if !crm.CanRead(r.role, crm.KindRole) {
		return nil, crm.ErrUnauthorized
	}
	return r.store.ListRoles(ctx)
}

// SupportCandidates lists employees whose role carries the
// support-assignable flag, for assignment pickers.
func (r *Resolver) SupportCandidates(ctx context.Context) ([]*crm.Employee, error) {
	if !crm.CanManageSupportAssignment(r.role) {
		return nil, crm.ErrUnauthorized
	}
	return r.store.ListAssignableSupportEmployees(ctx)
}

// missing translates a missing id into the outcome the operator is
// allowed to learn: NotFound when their view of the kind is unscoped,
// Unauthorized otherwise.
func (r *Resolver) missing(kind crm.EntityKind) Outcome {
	switch kind {
	case crm.KindCustomer, crm.KindContract, crm.KindEvent:
		if crm.CanAccessAll(r.role, kind) {
			return NotFound
		}
		return Unauthorized
	}
	return NotFound
}

// Customer resolves a raw id against the operator's customer scope.
func (r *Resolver) Customer(ctx context.Context, raw string) (*crm.Customer, Outcome, error) {
	if !crm.CanRead(r.role, crm.KindCustomer) {
		return nil, Unauthorized, nil
	}
	id, ok := ParseID(raw)
	if !ok {
		return nil, Malformed, nil
	}
	c, err := r.store.CustomerByID(ctx, id)
	if errors.Is(err, crm.ErrNotFound) {
		return nil, r.missing(crm.KindCustomer), nil
	}
	if err != nil {
		return nil, NotFound, err
	}
	if !crm.CanAccessAll(r.role, crm.KindCustomer) && c.CommercialID != r.actor.ID {
		return nil, Unauthorized, nil
	}
	return c, Found, nil
}

// Contract resolves a raw id against the operator's contract scope.
func (r *Resolver) Contract(ctx context.Context, raw string) (*crm.Contract, Outcome, error) {
	if !crm.CanRead(r.role, crm.KindContract) {
		return nil, Unauthorized, nil
	}
	id, ok := ParseID(raw)
	if !ok {
		return nil, Malformed, nil
	}
	c, err := r.store.ContractByID(ctx, id)
	if errors.Is(err, crm.ErrNotFound) {
		return nil, r.missing(crm.KindContract), nil
	}
	if err != nil {
		return nil, NotFound, err
	}
	if crm.CanAccessAll(r.role, crm.KindContract) {
		return c, Found, nil
	}
	owner, err := r.store.CustomerByID(ctx, c.CustomerID)
	if err != nil {
		if errors.Is(err, crm.ErrNotFound) {
			return nil, Unauthorized, nil
		}
		return nil, NotFound, err
	}
	if owner.CommercialID != r.actor.ID {
		return nil, Unauthorized, nil
	}
	return c, Found, nil
}

// Event resolves a raw id against the operator's event scope.
func (r *Resolver) Event(ctx context.Context, raw string) (*crm.Event, Outcome, error) {
	if !crm.CanRead(r.role, crm.KindEvent) {
		return nil, Unauthorized, nil
	}
	id, ok := ParseID(raw)
	if !ok {
		return nil, Malformed, nil
	}
	e, err := r.store.EventByID(ctx, id)
	if errors.Is(err, crm.ErrNotFound) {
		return nil, r.missing(crm.KindEvent), nil
	}
	if err != nil {
		return nil, NotFound, err
	}
	if crm.CanAccessAll(r.role, crm.KindEvent) {
		return e, Found, nil
	}
	if r.role.Is(crm.RoleNameSupport) {
		if e.SupportID != nil && *e.SupportID == r.actor.ID {
			return e, Found, nil
		}
		return nil, Unauthorized, nil
	}
	if r.role.Is(crm.RoleNameCommercial) {
		owned, err := r.ownsContract(ctx, e.ContractID)
		if err != nil {
			return nil, NotFound, err
		}
		if owned {
			return e, Found, nil
		}
	}
	return nil, Unauthorized, nil
}

// Employee resolves a raw employee id. Employees are unscoped.
func (r *Resolver) Employee(ctx context.Context, raw string) (*crm.Employee, Outcome, error) {
	if !crm.CanRead(r.role, crm.KindEmployee) {
		return nil, Unauthorized, nil
	}
	id, ok := ParseID(raw)
	if !ok {
		return nil, Malformed, nil
	}
	e, err := r.store.EmployeeByID(ctx, id)
	if errors.Is(err, crm.ErrNotFound) {
		return nil, NotFound, nil
	}
	if err != nil {
		return nil, NotFound, err
	}
	return e, Found, nil
}

// RoleRecord resolves a raw role id. Roles are unscoped.
func (r *Resolver) RoleRecord(ctx context.Context, raw string) (*crm.Role, Outcome, error) {
	if !crm.CanRead(r.role, crm.KindRole) {
		return nil, Unauthorized, nil
	}
	id, ok := ParseID(raw)
	if !ok {
		return nil, Malformed, nil
	}
	role, err := r.store.RoleByID(ctx, id)
	if errors.Is(err, crm.ErrNotFound) {
		return nil, NotFound, nil
	}
	if err != nil {
		return nil, NotFound, err
	}
	return role, Found, nil
}

func (r *Resolver) ownsContract(ctx context.Context, contractID int64) (bool, error) {
	ct, err := r.store.ContractByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, crm.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	cu, err := r.store.CustomerByID(ctx, ct.CustomerID)
	if err != nil {
		if errors.Is(err, crm.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return cu.CommercialID == r.actor.ID, nil
}
