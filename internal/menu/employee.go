package menu

import (
	"context"
	"fmt"

	"epicevents.org/internal/auth"
	"epicevents.org/internal/crm"
	"epicevents.org/internal/crud"
	"epicevents.org/internal/store/pg"
)

func (s *Session) employeeMenu(ctx context.Context) error {
	items := []item{
		{label: "List employees", run: s.listEmployees},
	}
	if crm.CanCreateDelete(s.role, crm.KindEmployee) {
		items = append(items, item{label: "Create employee", run: s.createEmployee})
	}
	if crm.CanUpdate(s.role, crm.KindEmployee) {
		items = append(items, item{label: "Update employee", run: s.updateEmployee})
	}
	if crm.CanCreateDelete(s.role, crm.KindEmployee) {
		items = append(items, item{label: "Delete employee", run: s.deleteEmployee})
	}
	return s.runMenu(ctx, "Employees", items)
}

func (s *Session) listEmployees(ctx context.Context) error {
	employees, err := s.resolver.Employees(ctx)
	if err != nil {
		s.denied(crm.KindEmployee, "list")
		return nil
	}
	if len(employees) == 0 {
		s.view.Info("No employees to show.")
		return nil
	}
	s.view.Table(employeeHeaders, employeeRows(employees))
	return nil
}

// promptRolePick shows the role table and loops until a listed id is
// chosen. Blank keeps current when current is non-zero.
func (s *Session) promptRolePick(ctx context.Context, current int64) (int64, error) {
	roles, err := s.store.ListRoles(ctx)
	if err != nil {
		return 0, err
	}
	if len(roles) == 0 {
		s.view.Warn("No roles exist; create one first.")
		return 0, crm.ErrNotFound
	}
	s.view.Table(roleHeaders, roleRows(roles))
	label := "Role id"
	if current != 0 {
		label = fmt.Sprintf("Role id [%d]", current)
	}
	for {
		raw, err := s.prompt.Input(label)
		if err != nil {
			return 0, err
		}
		if raw == "" && current != 0 {
			return current, nil
		}
		for _, r := range roles {
			if formatID(r.ID) == raw {
				return r.ID, nil
			}
		}
		s.view.Error("Pick an id from the list.")
	}
}

func (s *Session) createEmployee(ctx context.Context) error {
	if !crm.CanCreateDelete(s.role, crm.KindEmployee) {
		s.denied(crm.KindEmployee, "create")
		return nil
	}
	e := &crm.Employee{}
	var err error
	if e.FirstName, err = s.promptRequired("First name"); err != nil {
		return err
	}
	if e.LastName, err = s.promptRequired("Last name"); err != nil {
		return err
	}
	if e.Email, err = s.promptEmail("Email", ""); err != nil {
		return err
	}
	password, err := s.promptPassword("Password")
	if err != nil {
		return err
	}
	if e.PasswordHash, err = auth.HashPassword(password); err != nil {
		s.view.Error("%v", err)
		return nil
	}
	if e.RoleID, err = s.promptRolePick(ctx, 0); err != nil {
		return nil
	}
	if err := crm.ValidateEmployee(e); err != nil {
		s.view.Error("%v", err)
		return nil
	}

	res := s.orch.Execute(ctx, crud.Operation{
		Entity: crm.KindEmployee,
		Action: "create",
		Stage: func(ctx context.Context, q pg.Querier) (string, error) {
			if err := s.store.InsertEmployee(ctx, q, e); err != nil {
				return "", err
			}
			return fmt.Sprintf("Create employee #%d\n%s %s <%s> (role #%d)",
				e.ID, e.FirstName, e.LastName, e.Email, e.RoleID), nil
		},
		Confirm:     s.confirmRecap,
		AuditFields: map[string]any{"email": e.Email, "role_id": e.RoleID},
	})
	s.report(res, fmt.Sprintf("Employee #%d created.", e.ID))
	return nil
}

func (s *Session) updateEmployee(ctx context.Context) error {
	if !crm.CanUpdate(s.role, crm.KindEmployee) {
		s.denied(crm.KindEmployee, "update")
		return nil
	}
	raw, err := s.prompt.Input("Employee id")
	if err != nil {
		return err
	}
	e, outcome, err := s.resolver.Employee(ctx, raw)
	if err != nil {
		return err
	}
	if !s.reportOutcome(outcome, crm.KindEmployee, "update") {
		return nil
	}

	if e.FirstName, err = s.promptDefault("First name", e.FirstName); err != nil {
		return err
	}
	if e.LastName, err = s.promptDefault("Last name", e.LastName); err != nil {
		return err
	}
	if e.Email, err = s.promptEmail("Email", e.Email); err != nil {
		return err
	}
	reset, err := s.promptYesNo("Reset password", false)
	if err != nil {
		return err
	}
	if reset {
		password, err := s.promptPassword("New password")
		if err != nil {
			return err
		}
		if e.PasswordHash, err = auth.HashPassword(password); err != nil {
			s.view.Error("%v", err)
			return nil
		}
	}
	if e.RoleID, err = s.promptRolePick(ctx, e.RoleID); err != nil {
		return nil
	}
	if err := crm.ValidateEmployee(e); err != nil {
		s.view.Error("%v", err)
		return nil
	}

	res := s.orch.Execute(ctx, crud.Operation{
		Entity: crm.KindEmployee,
		Action: "update",
		Stage: func(ctx context.Context, q pg.Querier) (string, error) {
			if err := s.store.UpdateEmployee(ctx, q, e); err != nil {
				return "", err
			}
			return fmt.Sprintf("Update employee #%d\n%s %s <%s> (role #%d)",
				e.ID, e.FirstName, e.LastName, e.Email, e.RoleID), nil
		},
		Confirm:     s.confirmRecap,
		AuditFields: map[string]any{"employee_id": e.ID},
	})
	s.report(res, fmt.Sprintf("Employee #%d updated.", e.ID))
	return nil
}

func (s *Session) deleteEmployee(ctx context.Context) error {
	if !crm.CanCreateDelete(s.role, crm.KindEmployee) {
		s.denied(crm.KindEmployee, "delete")
		return nil
	}
	raw, err := s.prompt.Input("Employee id")
	if err != nil {
		return err
	}
	e, outcome, err := s.resolver.Employee(ctx, raw)
	if err != nil {
		return err
	}
	if !s.reportOutcome(outcome, crm.KindEmployee, "delete") {
		return nil
	}
	if e.ID == s.actor.ID {
		s.view.Error("You cannot delete your own account while logged in.")
		return nil
	}

	res := s.orch.Execute(ctx, crud.Operation{
		Entity: crm.KindEmployee,
		Action: "delete",
		Stage: func(ctx context.Context, q pg.Querier) (string, error) {
			if err := s.store.DeleteEmployee(ctx, q, e.ID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Delete employee #%d (%s %s <%s>)",
				e.ID, e.FirstName, e.LastName, e.Email), nil
		},
		Confirm:     s.confirmRecap,
		AuditFields: map[string]any{"employee_id": e.ID, "email": e.Email},
	})
	s.report(res, fmt.Sprintf("Employee #%d deleted.", e.ID))
	return nil
}
