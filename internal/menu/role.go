package menu

import (
	"context"
	"fmt"

	"epicevents.org/internal/crm"
	"epicevents.org/internal/crud"
	"epicevents.org/internal/store/pg"
)

func (s *Session) roleMenu(ctx context.Context) error {
	items := []item{
		{label: "List roles", run: s.listRoles},
	}
	if crm.CanCreateDelete(s.role, crm.KindRole) {
		items = append(items, item{label: "Create role", run: s.createRole})
	}
	if crm.CanUpdate(s.role, crm.KindRole) {
		items = append(items, item{label: "Update role", run: s.updateRole})
	}
	if crm.CanCreateDelete(s.role, crm.KindRole) {
		items = append(items, item{label: "Delete role", run: s.deleteRole})
	}
	return s.runMenu(ctx, "Roles", items)
}

func (s *Session) listRoles(ctx context.Context) error {
	roles, err := s.resolver.Roles(ctx)
	if err != nil {
		s.denied(crm.KindRole, "list")
		return nil
	}
	if len(roles) == 0 {
		s.view.Info("No roles to show.")
		return nil
	}
	s.view.Table(roleHeaders, roleRows(roles))
	return nil
}

func (s *Session) promptCapability(kind string, current crm.Capability) (crm.Capability, error) {
	var err error
	c := current
	if c.Read, err = s.promptYesNo(kind+": read", c.Read); err != nil {
		return c, err
	}
	if c.ReadUpdate, err = s.promptYesNo(kind+": read+update", c.ReadUpdate); err != nil {
		return c, err
	}
	if c.CreateUpdateDelete, err = s.promptYesNo(kind+": full crud", c.CreateUpdateDelete); err != nil {
		return c, err
	}
	return c, nil
}

func (s *Session) promptRoleFields(r *crm.Role) error {
	var err error
	if r.ID == 0 {
		if r.Name, err = s.promptRequired("Role name"); err != nil {
			return err
		}
	} else {
		if r.Name, err = s.promptDefault("Role name", r.Name); err != nil {
			return err
		}
	}
	if r.Employee, err = s.promptCapability("Employees", r.Employee); err != nil {
		return err
	}
	if r.Role, err = s.promptCapability("Roles", r.Role); err != nil {
		return err
	}
	if r.Customer, err = s.promptCapability("Customers", r.Customer); err != nil {
		return err
	}
	if r.Contract, err = s.promptCapability("Contracts", r.Contract); err != nil {
		return err
	}
	if r.Event, err = s.promptCapability("Events", r.Event); err != nil {
		return err
	}
	if r.AccessAllCustomers, err = s.promptYesNo("Access all customers", r.AccessAllCustomers); err != nil {
		return err
	}
	if r.AccessAllContracts, err = s.promptYesNo("Access all contracts", r.AccessAllContracts); err != nil {
		return err
	}
	if r.AccessAllEvents, err = s.promptYesNo("Access all events", r.AccessAllEvents); err != nil {
		return err
	}
	if r.AssignableSupport, err = s.promptYesNo("Members assignable as event support", r.AssignableSupport); err != nil {
		return err
	}
	return nil
}

func (s *Session) createRole(ctx context.Context) error {
	if !crm.CanCreateDelete(s.role, crm.KindRole) {
		s.denied(crm.KindRole, "create")
		return nil
	}
	r := &crm.Role{}
	if err := s.promptRoleFields(r); err != nil {
		return err
	}
	if err := crm.ValidateRole(r); err != nil {
		s.view.Error("%v", err)
		return nil
	}

	res := s.orch.Execute(ctx, crud.Operation{
		Entity: crm.KindRole,
		Action: "create",
		Stage: func(ctx context.Context, q pg.Querier) (string, error) {
			if err := s.store.InsertRole(ctx, q, r); err != nil {
				return "", err
			}
			return fmt.Sprintf("Create role #%d %q", r.ID, r.Name), nil
		},
		Confirm:     s.confirmRecap,
		AuditFields: map[string]any{"name": r.Name},
	})
	s.report(res, fmt.Sprintf("Role #%d created.", r.ID))
	return nil
}

func (s *Session) updateRole(ctx context.Context) error {
	if !crm.CanUpdate(s.role, crm.KindRole) {
		s.denied(crm.KindRole, "update")
		return nil
	}
	raw, err := s.prompt.Input("Role id")
	if err != nil {
		return err
	}
	r, outcome, err := s.resolver.RoleRecord(ctx, raw)
	if err != nil {
		return err
	}
	if !s.reportOutcome(outcome, crm.KindRole, "update") {
		return nil
	}

	if err := s.promptRoleFields(r); err != nil {
		return err
	}
	if err := crm.ValidateRole(r); err != nil {
		s.view.Error("%v", err)
		return nil
	}

	res := s.orch.Execute(ctx, crud.Operation{
		Entity: crm.KindRole,
		Action: "update",
		Stage: func(ctx context.Context, q pg.Querier) (string, error) {
			if err := s.store.UpdateRole(ctx, q, r); err != nil {
				return "", err
			}
			return fmt.Sprintf("Update role #%d %q", r.ID, r.Name), nil
		},
		Confirm:     s.confirmRecap,
		AuditFields: map[string]any{"role_id": r.ID},
	})
	s.report(res, fmt.Sprintf("Role #%d updated.", r.ID))
	return nil
}

func (s *Session) deleteRole(ctx context.Context) error {
	if !crm.CanCreateDelete(s.role, crm.KindRole) {
		s.denied(crm.KindRole, "delete")
		return nil
	}
	raw, err := s.prompt.Input("Role id")
	if err != nil {
		return err
	}
	r, outcome, err := s.resolver.RoleRecord(ctx, raw)
	if err != nil {
		return err
	}
	if !s.reportOutcome(outcome, crm.KindRole, "delete") {
		return nil
	}
	if r.ID == s.role.ID {
		s.view.Error("You cannot delete your own role while logged in.")
		return nil
	}

	res := s.orch.Execute(ctx, crud.Operation{
		Entity: crm.KindRole,
		Action: "delete",
		Stage: func(ctx context.Context, q pg.Querier) (string, error) {
			if err := s.store.DeleteRole(ctx, q, r.ID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Delete role #%d %q", r.ID, r.Name), nil
		},
		Confirm:     s.confirmRecap,
		AuditFields: map[string]any{"role_id": r.ID, "name": r.Name},
	})
	s.report(res, fmt.Sprintf("Role #%d deleted.", r.ID))
	return nil
}
