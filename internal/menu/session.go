// Package menu drives the interactive session: a numbered menu per
// entity, with items filtered by the operator's permission flags and
// every mutation routed through the staged confirm-commit lifecycle.
package menu

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"epicevents.org/internal/audit"
	"epicevents.org/internal/auth"
	"epicevents.org/internal/crm"
	"epicevents.org/internal/crud"
	"epicevents.org/internal/obs"
	"epicevents.org/internal/scope"
	"epicevents.org/internal/store/pg"
	"epicevents.org/internal/ui"
)

// Session is one authenticated interactive run.
type Session struct {
	store    *pg.Store
	tokens   *auth.TokenManager
	orch     *crud.Orchestrator
	resolver *scope.Resolver
	view     *ui.View
	prompt   ui.Prompter
	actor    *crm.Employee
	role     *crm.Role
}

func NewSession(store *pg.Store, tokens *auth.TokenManager, view *ui.View, prompt ui.Prompter, actor *crm.Employee, role *crm.Role) *Session {
	return &Session{
		store:    store,
		tokens:   tokens,
		orch:     crud.NewOrchestrator(store),
		resolver: scope.NewResolver(store, actor, role),
		view:     view,
		prompt:   prompt,
		actor:    actor,
		role:     role,
	}
}

// item is one gated menu entry.
type item struct {
	label string
	run   func(ctx context.Context) error
}

// Run loops the top-level menu until the operator quits or the session
// token expires. The token is revalidated before every redraw so an
// expired session cannot keep operating.
func (s *Session) Run(ctx context.Context) error {
	ctx = audit.WithActor(ctx, s.actor.Email)
	for {
		if _, ok := s.tokens.Validate(); !ok {
			s.view.Warn("Session expired, please log in again.")
			return nil
		}

		var items []item
		for _, kind := range crm.Kinds {
			if !crm.CanRead(s.role, kind) {
				continue
			}
			kind := kind
			items = append(items, item{
				label: titleCase(string(kind)) + "s",
				run:   func(ctx context.Context) error { return s.entityMenu(ctx, kind) },
			})
		}
		if len(items) == 0 {
			s.view.Warn("Your role grants no access. Contact management.")
			return nil
		}

		idx, ok, err := s.pick(fmt.Sprintf("Epic Events CRM - %s (%s)", s.actor.Email, s.role.Name), items, "Quit")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := items[idx].run(ctx); err != nil {
			return err
		}
	}
}

func (s *Session) entityMenu(ctx context.Context, kind crm.EntityKind) error {
	switch kind {
	case crm.KindCustomer:
		return s.customerMenu(ctx)
	case crm.KindContract:
		return s.contractMenu(ctx)
	case crm.KindEvent:
		return s.eventMenu(ctx)
	case crm.KindEmployee:
		return s.employeeMenu(ctx)
	case crm.KindRole:
		return s.roleMenu(ctx)
	}
	return nil
}

// pick renders a numbered menu plus a zero item and loops until the
// operator enters a valid choice. ok is false for the zero item.
func (s *Session) pick(title string, items []item, zeroLabel string) (int, bool, error) {
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.label
	}
	for {
		s.view.Menu(title, labels)
		s.view.Println("   0. " + zeroLabel)
		answer, err := s.prompt.Input("Choice")
		if err != nil {
			return 0, false, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(answer))
		if err != nil || n < 0 || n > len(items) {
			s.view.Error("Enter a number between 0 and %d.", len(items))
			continue
		}
		if n == 0 {
			return 0, false, nil
		}
		return n - 1, true, nil
	}
}

// runMenu loops a submenu until Back is chosen.
func (s *Session) runMenu(ctx context.Context, title string, items []item) error {
	for {
		if _, ok := s.tokens.Validate(); !ok {
			s.view.Warn("Session expired, please log in again.")
			return nil
		}
		idx, ok, err := s.pick(title, items, "Back")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := items[idx].run(ctx); err != nil {
			return err
		}
	}
}

// confirmRecap is the shared Confirm hook for staged operations.
func (s *Session) confirmRecap(summary string) (bool, error) {
	s.view.Panel(summary)
	return s.prompt.Confirm("Apply this change?")
}

// report renders a lifecycle result to the operator.
func (s *Session) report(res crud.Result, success string) {
	switch res.Failure {
	case crud.FailureNone:
		s.view.Success("%s", success)
	case crud.FailureCancelled:
		s.view.Info("Change discarded, nothing was saved.")
	case crud.FailureValidation:
		s.view.Error("Rejected: %v", res.Err)
	case crud.FailureIntegrity:
		s.view.Error("Conflicts with existing data: %v", res.Err)
	default:
		s.view.Error("Operation failed: %v", res.Err)
	}
}

// denied records and renders a permission refusal.
func (s *Session) denied(kind crm.EntityKind, op string) {
	obs.RecordDenial(string(kind), op)
	s.view.Error("Your role does not allow this.")
}

// reportOutcome renders a failed id resolution. Returns true when the
// record was resolved and the caller may proceed.
func (s *Session) reportOutcome(outcome scope.Outcome, kind crm.EntityKind, op string) bool {
	switch outcome {
	case scope.Found:
		return true
	case scope.Malformed:
		s.view.Error("That is not a valid id.")
	case scope.NotFound:
		s.view.Error("No such record.")
	case scope.Unauthorized:
		s.denied(kind, op)
	}
	return false
}
