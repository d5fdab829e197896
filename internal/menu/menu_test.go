package menu

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"epicevents.org/internal/auth"
	"epicevents.org/internal/crm"
	"epicevents.org/internal/store/pg"
	"epicevents.org/internal/ui"
)

// scriptPrompter replays canned answers.
type scriptPrompter struct {
	inputs   []string
	secrets  []string
	confirms []bool
}

func (p *scriptPrompter) Input(string) (string, error) {
	if len(p.inputs) == 0 {
		return "", io.EOF
	}
	v := p.inputs[0]
	p.inputs = p.inputs[1:]
	return v, nil
}

func (p *scriptPrompter) Secret(string) (string, error) {
	if len(p.secrets) == 0 {
		return "", io.EOF
	}
	v := p.secrets[0]
	p.secrets = p.secrets[1:]
	return v, nil
}

func (p *scriptPrompter) Confirm(string) (bool, error) {
	if len(p.confirms) == 0 {
		return false, io.EOF
	}
	v := p.confirms[0]
	p.confirms = p.confirms[1:]
	return v, nil
}

func commercialRole() *crm.Role {
	return &crm.Role{
		ID:       2,
		Name:     crm.RoleNameCommercial,
		Customer: crm.Capability{Read: true, ReadUpdate: true, CreateUpdateDelete: true},
		Contract: crm.Capability{Read: true, ReadUpdate: true},
		Event:    crm.Capability{Read: true, ReadUpdate: true, CreateUpdateDelete: true},
	}
}

func newTestSession(t *testing.T, prompt ui.Prompter, role *crm.Role) (*Session, sqlmock.Sqlmock, *bytes.Buffer) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenManager(auth.NewMemoryTokenStore(), "test-secret-key", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	if _, _, err := tokens.Issue(7); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var out bytes.Buffer
	actor := &crm.Employee{ID: 7, Email: "sam@epic.test", RoleID: role.ID}
	s := NewSession(pg.NewStore(db), tokens, ui.NewViewWriter(&out), prompt, actor, role)
	return s, mock, &out
}

func TestCreateCustomerCommitsOnConfirm(t *testing.T) {
	prompt := &scriptPrompter{
		inputs:   []string{"Ada", "Lovelace", "ada@corp.test", "0601020304", "Corp"},
		confirms: []bool{true},
	}
	s, mock, out := newTestSession(t, prompt, commercialRole())

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("insert into customers").
		WithArgs(int64(7), "Ada", "Lovelace", "ada@corp.test", "0601020304", "Corp").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(11), created, created))
	mock.ExpectExec("insert into audit_log").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := s.createCustomer(context.Background()); err != nil {
		t.Fatalf("createCustomer: %v", err)
	}
	if !strings.Contains(out.String(), "Customer #11 created") {
		t.Fatalf("missing success message in output:\n%s", out.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateCustomerRollsBackOnDecline(t *testing.T) {
	prompt := &scriptPrompter{
		inputs:   []string{"Ada", "Lovelace", "ada@corp.test", "", ""},
		confirms: []bool{false},
	}
	s, mock, out := newTestSession(t, prompt, commercialRole())

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("insert into customers").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(11), created, created))
	mock.ExpectRollback()

	if err := s.createCustomer(context.Background()); err != nil {
		t.Fatalf("createCustomer: %v", err)
	}
	if !strings.Contains(out.String(), "nothing was saved") {
		t.Fatalf("missing discard message in output:\n%s", out.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateCustomerRetriesBadEmail(t *testing.T) {
	prompt := &scriptPrompter{
		inputs:   []string{"Ada", "Lovelace", "not-an-email", "ada@corp.test", "", ""},
		confirms: []bool{true},
	}
	s, mock, out := newTestSession(t, prompt, commercialRole())

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("insert into customers").
		WithArgs(int64(7), "Ada", "Lovelace", "ada@corp.test", "", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(11), created, created))
	mock.ExpectExec("insert into audit_log").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := s.createCustomer(context.Background()); err != nil {
		t.Fatalf("createCustomer: %v", err)
	}
	if !strings.Contains(out.String(), "Customer #11 created") {
		t.Fatalf("retry loop did not recover:\n%s", out.String())
	}
}

func TestCreateEventRequiresSignedContract(t *testing.T) {
	prompt := &scriptPrompter{inputs: []string{"5"}}
	s, mock, out := newTestSession(t, prompt, commercialRole())

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	contractCols := []string{"id", "customer_id", "title", "amount", "outstanding", "signed", "created_at", "customer_email"}

	// The signed-contract list shows one entry.
	mock.ExpectQuery("select .* from contracts ct").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(contractCols).
			AddRow(int64(5), int64(1), "Annual gala", 12000.0, 0.0, true, created, "ada@corp.test"))
	// The resolved contract turns out unsigned (changed concurrently).
	mock.ExpectQuery("select .* from contracts ct").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(contractCols).
			AddRow(int64(5), int64(1), "Annual gala", 12000.0, 0.0, false, created, "ada@corp.test"))
	mock.ExpectQuery("select .* from customers c").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "commercial_id", "first_name", "last_name", "email",
			"phone_number", "company", "created_at", "updated_at", "commercial_email",
		}).AddRow(int64(1), int64(7), "Ada", "Lovelace", "ada@corp.test",
			"", "", created, created, "sam@epic.test"))

	if err := s.createEvent(context.Background()); err != nil {
		t.Fatalf("createEvent: %v", err)
	}
	if !strings.Contains(out.String(), "not signed") {
		t.Fatalf("unsigned contract should be refused:\n%s", out.String())
	}
}

func TestRunStopsWhenTokenExpires(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	tokens, err := auth.NewTokenManager(auth.NewMemoryTokenStore(), "test-secret-key", time.Minute,
		auth.WithClock(clock))
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	if _, _, err := tokens.Issue(7); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	now = now.Add(2 * time.Minute)

	var out bytes.Buffer
	role := commercialRole()
	actor := &crm.Employee{ID: 7, Email: "sam@epic.test", RoleID: role.ID}
	s := NewSession(pg.NewStore(db), tokens, ui.NewViewWriter(&out), &scriptPrompter{}, actor, role)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Session expired") {
		t.Fatalf("expected expiry message:\n%s", out.String())
	}
}
