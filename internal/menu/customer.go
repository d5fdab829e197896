package menu

import (
	"context"
	"fmt"

	"epicevents.org/internal/crm"
	"epicevents.org/internal/crud"
	"epicevents.org/internal/store/pg"
)

func (s *Session) customerMenu(ctx context.Context) error {
	items := []item{
		{label: "List customers", run: s.listCustomers},
	}
	if crm.CanCreateDelete(s.role, crm.KindCustomer) {
		items = append(items, item{label: "Create customer", run: s.createCustomer})
	}
	if crm.CanUpdate(s.role, crm.KindCustomer) {
		items = append(items, item{label: "Update customer", run: s.updateCustomer})
	}
	if crm.CanCreateDelete(s.role, crm.KindCustomer) {
		items = append(items, item{label: "Delete customer", run: s.deleteCustomer})
	}
	return s.runMenu(ctx, "Customers", items)
}

func (s *Session) listCustomers(ctx context.Context) error {
	customers, err := s.resolver.Customers(ctx)
	if err != nil {
		s.denied(crm.KindCustomer, "list")
		return nil
	}
	if len(customers) == 0 {
		s.view.Info("No customers to show.")
		return nil
	}
	s.view.Table(customerHeaders, customerRows(customers))
	return nil
}

func (s *Session) promptCustomerFields(c *crm.Customer) error {
	var err error
	if c.ID == 0 {
		if c.FirstName, err = s.promptRequired("First name"); err != nil {
			return err
		}
		if c.LastName, err = s.promptRequired("Last name"); err != nil {
			return err
		}
	} else {
		if c.FirstName, err = s.promptDefault("First name", c.FirstName); err != nil {
			return err
		}
		if c.LastName, err = s.promptDefault("Last name", c.LastName); err != nil {
			return err
		}
	}
	if c.Email, err = s.promptEmail("Email", c.Email); err != nil {
		return err
	}
	if c.PhoneNumber, err = s.promptDefault("Phone", c.PhoneNumber); err != nil {
		return err
	}
	if c.Company, err = s.promptDefault("Company", c.Company); err != nil {
		return err
	}
	return nil
}

func (s *Session) createCustomer(ctx context.Context) error {
	if !crm.CanCreateDelete(s.role, crm.KindCustomer) {
		s.denied(crm.KindCustomer, "create")
		return nil
	}
	c := &crm.Customer{CommercialID: s.actor.ID}
	if err := s.promptCustomerFields(c); err != nil {
		return err
	}
	if err := crm.ValidateCustomer(c); err != nil {
		s.view.Error("%v", err)
		return nil
	}

	res := s.orch.Execute(ctx, crud.Operation{
		Entity: crm.KindCustomer,
		Action: "create",
		Stage: func(ctx context.Context, q pg.Querier) (string, error) {
			if err := s.store.InsertCustomer(ctx, q, c); err != nil {
				return "", err
			}
			return fmt.Sprintf("Create customer #%d\n%s %s <%s>\nPhone: %s  Company: %s",
				c.ID, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Company), nil
		},
		Confirm:     s.confirmRecap,
		AuditFields: map[string]any{"email": c.Email},
	})
	s.report(res, fmt.Sprintf("Customer #%d created.", c.ID))
	return nil
}

func (s *Session) updateCustomer(ctx context.Context) error {
	if !crm.CanUpdate(s.role, crm.KindCustomer) {
		s.denied(crm.KindCustomer, "update")
		return nil
	}
	raw, err := s.prompt.Input("Customer id")
	if err != nil {
		return err
	}
	c, outcome, err := s.resolver.Customer(ctx, raw)
	if err != nil {
		return err
	}
	if !s.reportOutcome(outcome, crm.KindCustomer, "update") {
		return nil
	}

	if err := s.promptCustomerFields(c); err != nil {
		return err
	}
	// Reassignment to another commercial is reserved for roles that see
	// the whole book.
	if crm.CanAccessAll(s.role, crm.KindCustomer) {
		if err := s.promptCommercialReassignment(ctx, c); err != nil {
			return err
		}
	}
	if err := crm.ValidateCustomer(c); err != nil {
		s.view.Error("%v", err)
		return nil
	}

	res := s.orch.Execute(ctx, crud.Operation{
		Entity: crm.KindCustomer,
		Action: "update",
		Stage: func(ctx context.Context, q pg.Querier) (string, error) {
			if err := s.store.UpdateCustomer(ctx, q, c); err != nil {
				return "", err
			}
			return fmt.Sprintf("Update customer #%d\n%s %s <%s>\nPhone: %s  Company: %s",
				c.ID, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Company), nil
		},
		Confirm:     s.confirmRecap,
		AuditFields: map[string]any{"customer_id": c.ID},
	})
	s.report(res, fmt.Sprintf("Customer #%d updated.", c.ID))
	return nil
}

func (s *Session) promptCommercialReassignment(ctx context.Context, c *crm.Customer) error {
	change, err := s.promptYesNo("Reassign to another commercial", false)
	if err != nil || !change {
		return err
	}
	commercials, err := s.store.ListEmployeesByRoleName(ctx, crm.RoleNameCommercial)
	if err != nil {
		s.view.Error("Could not load commercials: %v", err)
		return nil
	}
	if len(commercials) == 0 {
		s.view.Warn("No commercial employees exist.")
		return nil
	}
	s.view.Table(employeeHeaders, employeeRows(commercials))
	for {
		raw, err := s.prompt.Input("New commercial id")
		if err != nil {
			return err
		}
		for _, e := range commercials {
			if formatID(e.ID) == raw {
				c.CommercialID = e.ID
				return nil
			}
		}
		s.view.Error("Pick an id from the list.")
	}
}

func (s *Session) deleteCustomer(ctx context.Context) error {
	if !crm.CanCreateDelete(s.role, crm.KindCustomer) {
		s.denied(crm.KindCustomer, "delete")
		return nil
	}
	raw, err := s.prompt.Input("Customer id")
	if err != nil {
		return err
	}
	c, outcome, err := s.resolver.Customer(ctx, raw)
	if err != nil {
		return err
	}
	if !s.reportOutcome(outcome, crm.KindCustomer, "delete") {
		return nil
	}

	res := s.orch.Execute(ctx, crud.Operation{
		Entity: crm.KindCustomer,
		Action: "delete",
		Stage: func(ctx context.Context, q pg.Querier) (string, error) {
			if err := s.store.DeleteCustomer(ctx, q, c.ID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Delete customer #%d (%s %s <%s>)",
				c.ID, c.FirstName, c.LastName, c.Email), nil
		},
		Confirm:     s.confirmRecap,
		AuditFields: map[string]any{"customer_id": c.ID, "email": c.Email},
	})
	s.report(res, fmt.Sprintf("Customer #%d deleted.", c.ID))
	return nil
}
