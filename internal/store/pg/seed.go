package pg

import (
	"context"
	"errors"
	"fmt"

	"epicevents.org/internal/crm"
)

// defaultRoles is the permission matrix the CRM ships with. Management
// administers staff and contracts, commercials own their customer
// portfolios, support handles only the events assigned to them.
func defaultRoles() []*crm.Role {
	return []*crm.Role{
		{
			Name:               crm.RoleNameManagement,
			Employee:           crm.Capability{Read: true, ReadUpdate: true, CreateUpdateDelete: true},
			Role:               crm.Capability{Read: true, ReadUpdate: true, CreateUpdateDelete: true},
			Customer:           crm.Capability{Read: true},
			Contract:           crm.Capability{Read: true, ReadUpdate: true, CreateUpdateDelete: true},
			Event:              crm.Capability{Read: true, ReadUpdate: true},
			AccessAllCustomers: true,
			AccessAllContracts: true,
			AccessAllEvents:    true,
		},
		{
			Name:     crm.RoleNameCommercial,
			Employee: crm.Capability{Read: true},
			Role:     crm.Capability{Read: true},
			Customer: crm.Capability{Read: true, ReadUpdate: true, CreateUpdateDelete: true},
			Contract: crm.Capability{Read: true, ReadUpdate: true},
			Event:    crm.Capability{Read: true, ReadUpdate: true, CreateUpdateDelete: true},
		},
		{
			Name:               crm.RoleNameSupport,
			Employee:           crm.Capability{Read: true},
			Role:               crm.Capability{Read: true},
			Customer:           crm.Capability{Read: true},
			Contract:           crm.Capability{Read: true},
			Event:              crm.Capability{Read: true, ReadUpdate: true},
			AccessAllCustomers: true,
			AccessAllContracts: true,
			AssignableSupport:  true,
		},
	}
}

// SeedDefaults installs the stock roles and a bootstrap management
// account. Safe to rerun: existing roles and the admin are left alone.
func (s *Store) SeedDefaults(ctx context.Context, adminEmail, adminPasswordHash string) error {
	var managementID int64
	for _, role := range defaultRoles() {
		existing, err := s.RoleByName(ctx, role.Name)
		switch {
		case err == nil:
			if role.Is(crm.RoleNameManagement) {
				managementID = existing.ID
			}
			continue
		case errors.Is(err, crm.ErrNotFound):
		default:
			return fmt.Errorf("seed role %s: %w", role.Name, err)
		}
		if err := s.InsertRole(ctx, s.db, role); err != nil {
			return fmt.Errorf("seed role %s: %w", role.Name, err)
		}
		if role.Is(crm.RoleNameManagement) {
			managementID = role.ID
		}
	}

	_, err := s.EmployeeByEmail(ctx, adminEmail)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, crm.ErrNotFound):
	default:
		return fmt.Errorf("seed admin: %w", err)
	}
	admin := &crm.Employee{
		FirstName:    "Admin",
		LastName:     "Admin",
		Email:        adminEmail,
		PasswordHash: adminPasswordHash,
		RoleID:       managementID,
	}
	if err := s.InsertEmployee(ctx, s.db, admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
