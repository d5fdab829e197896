package menu

import (
	"context"
	"fmt"

	"epicevents.org/internal/crm"
	"epicevents.org/internal/crud"
	"epicevents.org/internal/store/pg"
)

func (s *Session) eventMenu(ctx context.Context) error {
	items := []item{
		{label: "List events", run: s.listEvents},
	}
	if crm.CanManageSupportAssignment(s.role) {
		items = append(items, item{label: "List events without support", run: s.listEventsWithoutSupport})
	}
	if crm.CanCreateDelete(s.role, crm.KindEvent) {
		items = append(items, item{label: "Create event", run: s.createEvent})
	}
	if crm.CanUpdate(s.role, crm.KindEvent) {
		items = append(items, item{label: "Update event", run: s.updateEvent})
	}
	if crm.CanCreateDelete(s.role, crm.KindEvent) {
		items = append(items, item{label: "Delete event", run: s.deleteEvent})
	}
	return s.runMenu(ctx, "Events", items)
}

func (s *Session) showEvents(events []*crm.Event, err error) error {
	if err != nil {
		s.denied(crm.KindEvent, "list")
		return nil
	}
	if len(events) == 0 {
		s.view.Info("No events to show.")
		return nil
	}
	s.view.Table(eventHeaders, eventRows(events))
	return nil
}

func (s *Session) listEvents(ctx context.Context) error {
	events, err := s.resolver.Events(ctx)
	return s.showEvents(events, err)
}

func (s *Session) listEventsWithoutSupport(ctx context.Context) error {
	events, err := s.resolver.EventsWithoutSupport(ctx)
	return s.showEvents(events, err)
}

// promptEventDates loops until the pair is ordered.
func (s *Session) promptEventDates(e *crm.Event) error {
	for {
		start, err := s.promptDate("Start", e.Start)
		if err != nil {
			return err
		}
		end, err := s.promptDate("End", e.End)
		if err != nil {
			return err
		}
		if err := crm.ValidateEventDates(start, end); err != nil {
			s.view.Error("%v", err)
			continue
		}
		e.Start, e.End = start, end
		return nil
	}
}

// promptSupportAssignment offers a support pick to roles that manage
// the whole event book. Blank keeps the current assignment.
func (s *Session) promptSupportAssignment(ctx context.Context, e *crm.Event) error {
	if !crm.CanManageSupportAssignment(s.role) {
		return nil
	}
	candidates, err := s.resolver.SupportCandidates(ctx)
	if err != nil {
		s.view.Error("Could not load support employees: %v", err)
		return nil
	}
	if len(candidates) == 0 {
		s.view.Warn("No support employees exist.")
		return nil
	}
	s.view.Table(employeeHeaders, employeeRows(candidates))
	for {
		raw, err := s.prompt.Input("Support id (blank to keep, none to clear)")
		if err != nil {
			return err
		}
		if raw == "" {
			return nil
		}
		if raw == "none" {
			e.SupportID = nil
			return nil
		}
		for _, c := range candidates {
			if formatID(c.ID) == raw {
				id := c.ID
				e.SupportID = &id
				return nil
			}
		}
		s.view.Error("Pick an id from the list.")
	}
}

func (s *Session) promptEventFields(ctx context.Context, e *crm.Event) error {
	var err error
	if e.ID == 0 {
		if e.Title, err = s.promptRequired("Title"); err != nil {
			return err
		}
	} else {
		if e.Title, err = s.promptDefault("Title", e.Title); err != nil {
			return err
		}
	}
	if e.Notes, err = s.promptDefault("Notes", e.Notes); err != nil {
		return err
	}
	if e.Location, err = s.promptDefault("Location", e.Location); err != nil {
		return err
	}
	if e.Attendees, err = s.promptAttendees(e.Attendees, e.ID != 0); err != nil {
		return err
	}
	if err = s.promptEventDates(e); err != nil {
		return err
	}
	return s.promptSupportAssignment(ctx, e)
}

func (s *Session) createEvent(ctx context.Context) error {
	if !crm.CanCreateDelete(s.role, crm.KindEvent) {
		s.denied(crm.KindEvent, "create")
		return nil
	}
	// Events hang off signed contracts only.
	contracts, err := s.resolver.SignedContracts(ctx)
	if err != nil {
		s.denied(crm.KindContract, "list")
		return nil
	}
	if len(contracts) == 0 {
		s.view.Warn("No signed contracts available; an event needs one.")
		return nil
	}
	s.view.Table(contractHeaders, contractRows(contracts))

	raw, err := s.prompt.Input("Contract id")
	if err != nil {
		return err
	}
	contract, outcome, err := s.resolver.Contract(ctx, raw)
	if err != nil {
		return err
	}
	if !s.reportOutcome(outcome, crm.KindContract, "read") {
		return nil
	}
	if !contract.Signed {
		s.view.Error("Contract #%d is not signed.", contract.ID)
		return nil
	}

	e := &crm.Event{ContractID: contract.ID}
	if err := s.promptEventFields(ctx, e); err != nil {
		return err
	}
	if err := crm.ValidateEvent(e); err != nil {
		s.view.Error("%v", err)
		return nil
	}

	res := s.orch.Execute(ctx, crud.Operation{
		Entity: crm.KindEvent,
		Action: "create",
		Stage: func(ctx context.Context, q pg.Querier) (string, error) {
			if err := s.store.InsertEvent(ctx, q, e); err != nil {
				return "", err
			}
			return fmt.Sprintf("Create event #%d %q under contract %q\nLocation: %s  Attendees: %d",
				e.ID, e.Title, contract.Title, e.Location, e.Attendees), nil
		},
		Confirm:     s.confirmRecap,
		AuditFields: map[string]any{"title": e.Title, "contract_id": contract.ID},
	})
	s.report(res, fmt.Sprintf("Event #%d created.", e.ID))
	return nil
}

func (s *Session) updateEvent(ctx context.Context) error {
	if !crm.CanUpdate(s.role, crm.KindEvent) {
		s.denied(crm.KindEvent, "update")
		return nil
	}
	raw, err := s.prompt.Input("Event id")
	if err != nil {
		return err
	}
	e, outcome, err := s.resolver.Event(ctx, raw)
	if err != nil {
		return err
	}
	if !s.reportOutcome(outcome, crm.KindEvent, "update") {
		return nil
	}

	if err := s.promptEventFields(ctx, e); err != nil {
		return err
	}
	if err := crm.ValidateEvent(e); err != nil {
		s.view.Error("%v", err)
		return nil
	}

	res := s.orch.Execute(ctx, crud.Operation{
		Entity: crm.KindEvent,
		Action: "update",
		Stage: func(ctx context.Context, q pg.Querier) (string, error) {
			if err := s.store.UpdateEvent(ctx, q, e); err != nil {
				return "", err
			}
			support := "unassigned"
			if e.SupportID != nil {
				support = "employee #" + formatID(*e.SupportID)
			}
			return fmt.Sprintf("Update event #%d %q\nLocation: %s  Attendees: %d  Support: %s",
				e.ID, e.Title, e.Location, e.Attendees, support), nil
		},
		Confirm:     s.confirmRecap,
		AuditFields: map[string]any{"event_id": e.ID},
	})
	s.report(res, fmt.Sprintf("Event #%d updated.", e.ID))
	return nil
}

func (s *Session) deleteEvent(ctx context.Context) error {
	if !crm.CanCreateDelete(s.role, crm.KindEvent) {
		s.denied(crm.KindEvent, "delete")
		return nil
	}
	raw, err := s.prompt.Input("Event id")
	if err != nil {
		return err
	}
	e, outcome, err := s.resolver.Event(ctx, raw)
	if err != nil {
		return err
	}
	if !s.reportOutcome(outcome, crm.KindEvent, "delete") {
		return nil
	}

	res := s.orch.Execute(ctx, crud.Operation{
		Entity: crm.KindEvent,
		Action: "delete",
		Stage: func(ctx context.Context, q pg.Querier) (string, error) {
			if err := s.store.DeleteEvent(ctx, q, e.ID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Delete event #%d %q", e.ID, e.Title), nil
		},
		Confirm:     s.confirmRecap,
		AuditFields: map[string]any{"event_id": e.ID, "title": e.Title},
	})
	s.report(res, fmt.Sprintf("Event #%d deleted.", e.ID))
	return nil
}
