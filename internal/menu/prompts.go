package menu

import (
	"fmt"
	"strings"
	"time"

	"epicevents.org/internal/crm"
)

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// promptRequired loops until the operator enters a non-blank value.
func (s *Session) promptRequired(label string) (string, error) {
	for {
		v, err := s.prompt.Input(label)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
		s.view.Error("%s is required.", label)
	}
}

// promptDefault shows the current value; blank keeps it.
func (s *Session) promptDefault(label, current string) (string, error) {
	v, err := s.prompt.Input(fmt.Sprintf("%s [%s]", label, current))
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

// promptEmail loops until a well-formed address is entered. Blank keeps
// current when current is non-empty.
func (s *Session) promptEmail(label, current string) (string, error) {
	for {
		raw, err := s.prompt.Input(emailLabel(label, current))
		if err != nil {
			return "", err
		}
		if raw == "" && current != "" {
			return current, nil
		}
		email, err := crm.NormalizeEmail(raw)
		if err != nil {
			s.view.Error("%v", err)
			continue
		}
		return email, nil
	}
}

func emailLabel(label, current string) string {
	if current == "" {
		return label
	}
	return fmt.Sprintf("%s [%s]", label, current)
}

// promptPassword loops until the password meets the strength rules and
// both entries match.
func (s *Session) promptPassword(label string) (string, error) {
	for {
		first, err := s.prompt.Secret(label)
		if err != nil {
			return "", err
		}
		if err := crm.ValidatePassword(first); err != nil {
			s.view.Error("%v", err)
			continue
		}
		second, err := s.prompt.Secret(label + " (again)")
		if err != nil {
			return "", err
		}
		if first != second {
			s.view.Error("Entries do not match.")
			continue
		}
		return first, nil
	}
}

// promptAmount loops until a non-negative number is entered. Blank
// keeps current when keepBlank is set.
func (s *Session) promptAmount(label string, current float64, keepBlank bool) (float64, error) {
	for {
		display := label
		if keepBlank {
			display = fmt.Sprintf("%s [%.2f]", label, current)
		}
		raw, err := s.prompt.Input(display)
		if err != nil {
			return 0, err
		}
		if raw == "" && keepBlank {
			return current, nil
		}
		v, err := crm.ParseAmount(label, raw)
		if err != nil {
			s.view.Error("%v", err)
			continue
		}
		return v, nil
	}
}

// promptDate loops until a dd-mm-yyyy date or blank is entered.
func (s *Session) promptDate(label string, current *time.Time) (*time.Time, error) {
	display := label + " (dd-mm-yyyy, blank for none)"
	if current != nil {
		display = fmt.Sprintf("%s (dd-mm-yyyy) [%s]", label, current.Format(crm.EventDateLayout))
	}
	for {
		raw, err := s.prompt.Input(display)
		if err != nil {
			return nil, err
		}
		if raw == "" {
			return current, nil
		}
		if strings.EqualFold(raw, "none") {
			return nil, nil
		}
		t, err := crm.ParseEventDate(raw)
		if err != nil {
			s.view.Error("%v", err)
			continue
		}
		return t, nil
	}
}

// promptAttendees loops until a non-negative count is entered.
func (s *Session) promptAttendees(current int, keepBlank bool) (int, error) {
	label := "Attendees"
	if keepBlank {
		label = fmt.Sprintf("Attendees [%d]", current)
	}
	for {
		raw, err := s.prompt.Input(label)
		if err != nil {
			return 0, err
		}
		if raw == "" && keepBlank {
			return current, nil
		}
		n, err := crm.ParseAttendees(raw)
		if err != nil {
			s.view.Error("%v", err)
			continue
		}
		return n, nil
	}
}

// promptYesNo reads a boolean flag, keeping current on blank input.
func (s *Session) promptYesNo(label string, current bool) (bool, error) {
	state := "n"
	if current {
		state = "y"
	}
	for {
		raw, err := s.prompt.Input(fmt.Sprintf("%s (y/n) [%s]", label, state))
		if err != nil {
			return false, err
		}
		switch strings.ToLower(raw) {
		case "":
			return current, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		s.view.Error("Answer y or n.")
	}
}
