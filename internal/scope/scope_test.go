package scope

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"epicevents.org/internal/crm"
	"epicevents.org/internal/store/pg"
)

func commercialRole() *crm.Role {
	return &crm.Role{
		ID:       2,
		Name:     crm.RoleNameCommercial,
		Customer: crm.Capability{Read: true, ReadUpdate: true, CreateUpdateDelete: true},
		Contract: crm.Capability{Read: true, ReadUpdate: true},
		Event:    crm.Capability{Read: true, ReadUpdate: true, CreateUpdateDelete: true},
	}
}

func supportRole() *crm.Role {
	return &crm.Role{
		ID:                 3,
		Name:               crm.RoleNameSupport,
		Customer:           crm.Capability{Read: true},
		Contract:           crm.Capability{Read: true},
		Event:              crm.Capability{Read: true, ReadUpdate: true},
		AccessAllCustomers: true,
		AccessAllContracts: true,
	}
}

func newMockResolver(t *testing.T, actor *crm.Employee, role *crm.Role) (*Resolver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewResolver(pg.NewStore(db), actor, role), mock
}

func customerRows(id, commercialID int64) *sqlmock.Rows {
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "commercial_id", "first_name", "last_name", "email",
		"phone_number", "company", "created_at", "updated_at", "commercial_email",
	}).AddRow(id, commercialID, "Ada", "Lovelace", "ada@corp.test",
		"0601020304", "Corp", created, created, "sam@epic.test")
}

func TestParseID(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"7", 7, true},
		{" 12 ", 12, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseID(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseID(%q) = %d, %v; want %d, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCommercialCustomersAreScoped(t *testing.T) {
	actor := &crm.Employee{ID: 7}
	r, mock := newMockResolver(t, actor, commercialRole())

	mock.ExpectQuery("select .* from customers c").
		WithArgs(int64(7)).
		WillReturnRows(customerRows(1, 7))

	customers, err := r.Customers(context.Background())
	if err != nil {
		t.Fatalf("Customers: %v", err)
	}
	if len(customers) != 1 || customers[0].CommercialID != 7 {
		t.Fatalf("unexpected customers: %+v", customers)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSupportSeesAllCustomers(t *testing.T) {
	actor := &crm.Employee{ID: 4}
	r, mock := newMockResolver(t, actor, supportRole())

	// No bound argument: the unscoped query runs.
	mock.ExpectQuery("select .* from customers c").
		WillReturnRows(customerRows(1, 7))

	customers, err := r.Customers(context.Background())
	if err != nil {
		t.Fatalf("Customers: %v", err)
	}
	if len(customers) != 1 {
		t.Fatalf("expected one customer, got %d", len(customers))
	}
}

func TestResolveForeignCustomerIsUnauthorized(t *testing.T) {
	actor := &crm.Employee{ID: 7}
	r, mock := newMockResolver(t, actor, commercialRole())

	// Record exists but belongs to commercial 8.
	mock.ExpectQuery("select .* from customers c").
		WithArgs(int64(1)).
		WillReturnRows(customerRows(1, 8))

	c, outcome, err := r.Customer(context.Background(), "1")
	if err != nil {
		t.Fatalf("Customer: %v", err)
	}
	if outcome != Unauthorized || c != nil {
		t.Fatalf("expected Unauthorized, got %v (%+v)", outcome, c)
	}
}

func TestResolveMissingCustomerScopedIsUnauthorized(t *testing.T) {
	actor := &crm.Employee{ID: 7}
	r, mock := newMockResolver(t, actor, commercialRole())

	mock.ExpectQuery("select .* from customers c").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, outcome, err := r.Customer(context.Background(), "99")
	if err != nil {
		t.Fatalf("Customer: %v", err)
	}
	if outcome != Unauthorized {
		t.Fatalf("scoped missing id should be Unauthorized, got %v", outcome)
	}
}

func TestResolveMissingCustomerUnscopedIsNotFound(t *testing.T) {
	actor := &crm.Employee{ID: 4}
	r, mock := newMockResolver(t, actor, supportRole())

	mock.ExpectQuery("select .* from customers c").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, outcome, err := r.Customer(context.Background(), "99")
	if err != nil {
		t.Fatalf("Customer: %v", err)
	}
	if outcome != NotFound {
		t.Fatalf("unscoped missing id should be NotFound, got %v", outcome)
	}
}

func TestResolveMalformedID(t *testing.T) {
	actor := &crm.Employee{ID: 7}
	r, _ := newMockResolver(t, actor, commercialRole())

	_, outcome, err := r.Customer(context.Background(), "not-an-id")
	if err != nil {
		t.Fatalf("Customer: %v", err)
	}
	if outcome != Malformed {
		t.Fatalf("expected Malformed, got %v", outcome)
	}
}

func eventRows(id, contractID int64, supportID any) *sqlmock.Rows {
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "contract_id", "support_id", "title", "notes", "location",
		"attendees", "date_start", "date_end", "created_at", "contract_title", "support_email",
	}).AddRow(id, contractID, supportID, "Gala evening", "", "Paris",
		100, nil, nil, created, "Annual gala", "")
}

func TestSupportResolvesOnlyAssignedEvents(t *testing.T) {
	actor := &crm.Employee{ID: 4}
	r, mock := newMockResolver(t, actor, supportRole())

	mock.ExpectQuery("select .* from events ev").
		WithArgs(int64(9)).
		WillReturnRows(eventRows(9, 5, int64(4)))

	e, outcome, err := r.Event(context.Background(), "9")
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if outcome != Found || e == nil {
		t.Fatalf("expected Found, got %v", outcome)
	}

	mock.ExpectQuery("select .* from events ev").
		WithArgs(int64(10)).
		WillReturnRows(eventRows(10, 5, int64(6)))

	_, outcome, err = r.Event(context.Background(), "10")
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if outcome != Unauthorized {
		t.Fatalf("foreign assignment should be Unauthorized, got %v", outcome)
	}
}

func TestCommercialResolvesEventThroughOwnership(t *testing.T) {
	actor := &crm.Employee{ID: 7}
	r, mock := newMockResolver(t, actor, commercialRole())

	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("select .* from events ev").
		WithArgs(int64(9)).
		WillReturnRows(eventRows(9, 5, nil))
	mock.ExpectQuery("select .* from contracts ct").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "customer_id", "title", "amount", "outstanding", "signed", "created_at", "customer_email",
		}).AddRow(int64(5), int64(1), "Annual gala", 12000.0, 0.0, true, created, "ada@corp.test"))
	mock.ExpectQuery("select .* from customers c").
		WithArgs(int64(1)).
		WillReturnRows(customerRows(1, 7))

	e, outcome, err := r.Event(context.Background(), "9")
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if outcome != Found || e == nil {
		t.Fatalf("expected Found through contract ownership, got %v", outcome)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReadDeniedWithoutCapability(t *testing.T) {
	actor := &crm.Employee{ID: 7}
	role := &crm.Role{ID: 9, Name: "Intern"}
	r, _ := newMockResolver(t, actor, role)

	if _, err := r.Customers(context.Background()); err == nil {
		t.Fatal("expected denial for role without read capability")
	}
	_, outcome, err := r.Customer(context.Background(), "1")
	if err != nil {
		t.Fatalf("Customer: %v", err)
	}
	if outcome != Unauthorized {
		t.Fatalf("expected Unauthorized, got %v", outcome)
	}
}

func TestEventsWithoutSupportRequiresFullEventScope(t *testing.T) {
	actor := &crm.Employee{ID: 7}
	r, _ := newMockResolver(t, actor, commercialRole())

	if _, err := r.EventsWithoutSupport(context.Background()); err == nil {
		t.Fatal("expected denial without the access-all-events grant")
	}
}
