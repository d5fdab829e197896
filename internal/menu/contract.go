package menu

import (
	"context"
	"fmt"

	"epicevents.org/internal/crm"
	"epicevents.org/internal/crud"
	"epicevents.org/internal/store/pg"
)

func (s *Session) contractMenu(ctx context.Context) error {
	items := []item{
		{label: "List contracts", run: s.listContracts},
		{label: "List signed contracts", run: s.listSignedContracts},
	}
	if s.role.Is(crm.RoleNameCommercial) {
		items = append(items,
			item{label: "List my unsigned contracts", run: s.listUnsignedContracts},
			item{label: "List my contracts with a balance due", run: s.listOutstandingContracts},
		)
	}
	if crm.CanCreateDelete(s.role, crm.KindContract) {
		items = append(items, item{label: "Create contract", run: s.createContract})
	}
	if crm.CanUpdate(s.role, crm.KindContract) {
		items = append(items, item{label: "Update contract", run: s.updateContract})
	}
	if crm.CanCreateDelete(s.role, crm.KindContract) {
		items = append(items, item{label: "Delete contract", run: s.deleteContract})
	}
	return s.runMenu(ctx, "Contracts", items)
}

func (s *Session) showContracts(contracts []*crm.Contract, err error) error {
	if err != nil {
		s.denied(crm.KindContract, "list")
		return nil
	}
	if len(contracts) == 0 {
		s.view.Info("No contracts to show.")
		return nil
	}
	s.view.Table(contractHeaders, contractRows(contracts))
	return nil
}

func (s *Session) listContracts(ctx context.Context) error {
	contracts, err := s.resolver.Contracts(ctx)
	return s.showContracts(contracts, err)
}

func (s *Session) listSignedContracts(ctx context.Context) error {
	contracts, err := s.resolver.SignedContracts(ctx)
	return s.showContracts(contracts, err)
}

func (s *Session) listUnsignedContracts(ctx context.Context) error {
	contracts, err := s.resolver.UnsignedContracts(ctx)
	return s.showContracts(contracts, err)
}

func (s *Session) listOutstandingContracts(ctx context.Context) error {
	contracts, err := s.resolver.OutstandingContracts(ctx)
	return s.showContracts(contracts, err)
}

// promptContractAmounts loops until the pair satisfies the invariant
// that outstanding never exceeds amount.
func (s *Session) promptContractAmounts(c *crm.Contract, update bool) error {
	for {
		amount, err := s.promptAmount("Amount", c.Amount, update)
		if err != nil {
			return err
		}
		outstanding, err := s.promptAmount("Outstanding", c.Outstanding, update)
		if err != nil {
			return err
		}
		if err := crm.ValidateContractAmounts(amount, outstanding); err != nil {
			s.view.Error("%v", err)
			continue
		}
		c.Amount, c.Outstanding = amount, outstanding
		return nil
	}
}

func (s *Session) createContract(ctx context.Context) error {
	if !crm.CanCreateDelete(s.role, crm.KindContract) {
		s.denied(crm.KindContract, "create")
		return nil
	}
	customers, err := s.resolver.Customers(ctx)
	if err != nil {
		s.denied(crm.KindCustomer, "list")
		return nil
	}
	if len(customers) == 0 {
		s.view.Warn("No customers available; create the customer first.")
		return nil
	}
	s.view.Table(customerHeaders, customerRows(customers))

	raw, err := s.prompt.Input("Customer id")
	if err != nil {
		return err
	}
	customer, outcome, err := s.resolver.Customer(ctx, raw)
	if err != nil {
		return err
	}
	if !s.reportOutcome(outcome, crm.KindCustomer, "read") {
		return nil
	}

	c := &crm.Contract{CustomerID: customer.ID}
	if c.Title, err = s.promptRequired("Title"); err != nil {
		return err
	}
	if err := s.promptContractAmounts(c, false); err != nil {
		return err
	}
	if c.Signed, err = s.promptYesNo("Signed", false); err != nil {
		return err
	}
	if err := crm.ValidateContract(c); err != nil {
		s.view.Error("%v", err)
		return nil
	}

	res := s.orch.Execute(ctx, crud.Operation{
		Entity: crm.KindContract,
		Action: "create",
		Stage: func(ctx context.Context, q pg.Querier) (string, error) {
			if err := s.store.InsertContract(ctx, q, c); err != nil {
				return "", err
			}
			return fmt.Sprintf("Create contract #%d %q for %s\nAmount: %.2f  Outstanding: %.2f  Signed: %s",
				c.ID, c.Title, customer.Email, c.Amount, c.Outstanding, formatBool(c.Signed)), nil
		},
		Confirm:     s.confirmRecap,
		AuditFields: map[string]any{"title": c.Title, "customer_id": customer.ID},
	})
	s.report(res, fmt.Sprintf("Contract #%d created.", c.ID))
	return nil
}

func (s *Session) updateContract(ctx context.Context) error {
	if !crm.CanUpdate(s.role, crm.KindContract) {
		s.denied(crm.KindContract, "update")
		return nil
	}
	raw, err := s.prompt.Input("Contract id")
	if err != nil {
		return err
	}
	c, outcome, err := s.resolver.Contract(ctx, raw)
	if err != nil {
		return err
	}
	if !s.reportOutcome(outcome, crm.KindContract, "update") {
		return nil
	}

	if c.Title, err = s.promptDefault("Title", c.Title); err != nil {
		return err
	}
	if err := s.promptContractAmounts(c, true); err != nil {
		return err
	}
	if c.Signed, err = s.promptYesNo("Signed", c.Signed); err != nil {
		return err
	}
	if err := crm.ValidateContract(c); err != nil {
		s.view.Error("%v", err)
		return nil
	}

	res := s.orch.Execute(ctx, crud.Operation{
		Entity: crm.KindContract,
		Action: "update",
		Stage: func(ctx context.Context, q pg.Querier) (string, error) {
			if err := s.store.UpdateContract(ctx, q, c); err != nil {
				return "", err
			}
			return fmt.Sprintf("Update contract #%d %q\nAmount: %.2f  Outstanding: %.2f  Signed: %s",
				c.ID, c.Title, c.Amount, c.Outstanding, formatBool(c.Signed)), nil
		},
		Confirm:     s.confirmRecap,
		AuditFields: map[string]any{"contract_id": c.ID},
	})
	s.report(res, fmt.Sprintf("Contract #%d updated.", c.ID))
	return nil
}

func (s *Session) deleteContract(ctx context.Context) error {
	if !crm.CanCreateDelete(s.role, crm.KindContract) {
		s.denied(crm.KindContract, "delete")
		return nil
	}
	raw, err := s.prompt.Input("Contract id")
	if err != nil {
		return err
	}
	c, outcome, err := s.resolver.Contract(ctx, raw)
	if err != nil {
		return err
	}
	if !s.reportOutcome(outcome, crm.KindContract, "delete") {
		return nil
	}

	res := s.orch.Execute(ctx, crud.Operation{
		Entity: crm.KindContract,
		Action: "delete",
		Stage: func(ctx context.Context, q pg.Querier) (string, error) {
			if err := s.store.DeleteContract(ctx, q, c.ID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Delete contract #%d %q", c.ID, c.Title), nil
		},
		Confirm:     s.confirmRecap,
		AuditFields: map[string]any{"contract_id": c.ID, "title": c.Title},
	})
	s.report(res, fmt.Sprintf("Contract #%d deleted.", c.ID))
	return nil
}
