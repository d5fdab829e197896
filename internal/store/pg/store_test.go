package pg

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"epicevents.org/internal/crm"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func TestInsertCustomerDuplicateEmail(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("insert into customers").
		WithArgs(int64(7), "Ada", "Lovelace", "ada@corp.test", "0601020304", "Corp").
		WillReturnError(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "customers_email_key"})

	c := &crm.Customer{
		CommercialID: 7,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@corp.test",
		PhoneNumber:  "0601020304",
		Company:      "Corp",
	}
	err := store.InsertCustomer(context.Background(), store.DB(), c)
	if !errors.Is(err, crm.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteCustomerBlockedByContracts(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("delete from customers").
		WithArgs(int64(3)).
		WillReturnError(&pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "contracts_customer_id_fkey"})

	err := store.DeleteCustomer(context.Background(), store.DB(), 3)
	if !errors.Is(err, crm.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestInsertContractCheckViolation(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("insert into contracts").
		WithArgs(int64(1), "Launch party", 100.0, 250.0, false).
		WillReturnError(&pgconn.PgError{Code: codeCheckViolation, ConstraintName: "contracts_outstanding_check"})

	c := &crm.Contract{CustomerID: 1, Title: "Launch party", Amount: 100, Outstanding: 250}
	err := store.InsertContract(context.Background(), store.DB(), c)
	if !errors.Is(err, crm.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCustomerByIDNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("select .* from customers c").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := store.CustomerByID(context.Background(), 99)
	if !errors.Is(err, crm.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContractByIDScans(t *testing.T) {
	store, mock := newMockStore(t)

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "customer_id", "title", "amount", "outstanding", "signed", "created_at", "customer_email",
	}).AddRow(int64(5), int64(2), "Annual gala", 12000.0, 3000.0, true, created, "ada@corp.test")
	mock.ExpectQuery("select .* from contracts ct").WithArgs(int64(5)).WillReturnRows(rows)

	c, err := store.ContractByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("ContractByID: %v", err)
	}
	if c.Title != "Annual gala" || !c.Signed || c.Outstanding != 3000 {
		t.Fatalf("unexpected contract: %+v", c)
	}
	if c.CustomerEmail != "ada@corp.test" {
		t.Fatalf("customer email not joined: %q", c.CustomerEmail)
	}
}

func TestEventByIDNullableFields(t *testing.T) {
	store, mock := newMockStore(t)

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "contract_id", "support_id", "title", "notes", "location",
		"attendees", "date_start", "date_end", "created_at", "contract_title", "support_email",
	}).AddRow(int64(9), int64(5), nil, "Gala evening", "", "Paris", 120, nil, nil, created, "Annual gala", "")
	mock.ExpectQuery("select .* from events ev").WithArgs(int64(9)).WillReturnRows(rows)

	e, err := store.EventByID(context.Background(), 9)
	if err != nil {
		t.Fatalf("EventByID: %v", err)
	}
	if e.SupportID != nil || e.Start != nil || e.End != nil {
		t.Fatalf("expected nil optional fields, got %+v", e)
	}
	if e.ContractTitle != "Annual gala" {
		t.Fatalf("contract title not joined: %q", e.ContractTitle)
	}
}

func TestListEventsBySupport(t *testing.T) {
	store, mock := newMockStore(t)

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	start := time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "contract_id", "support_id", "title", "notes", "location",
		"attendees", "date_start", "date_end", "created_at", "contract_title", "support_email",
	}).AddRow(int64(9), int64(5), int64(4), "Gala evening", "vip list", "Paris", 120, start, end, created, "Annual gala", "kate@epic.test")
	mock.ExpectQuery("select .* from events ev").WithArgs(int64(4)).WillReturnRows(rows)

	events, err := store.ListEventsBySupport(context.Background(), 4)
	if err != nil {
		t.Fatalf("ListEventsBySupport: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	e := events[0]
	if e.SupportID == nil || *e.SupportID != 4 {
		t.Fatalf("support id not scanned: %+v", e.SupportID)
	}
	if e.Start == nil || !e.Start.Equal(start) || e.End == nil || !e.End.Equal(end) {
		t.Fatalf("dates not scanned: %+v %+v", e.Start, e.End)
	}
}

func TestRoleByNameCaseInsensitive(t *testing.T) {
	store, mock := newMockStore(t)

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "name",
		"can_r_employee", "can_ru_employee", "can_crud_employee",
		"can_r_role", "can_ru_role", "can_crud_role",
		"can_r_customer", "can_ru_customer", "can_crud_customer", "can_access_all_customers",
		"can_r_contract", "can_ru_contract", "can_crud_contract", "can_access_all_contracts",
		"can_r_event", "can_ru_event", "can_crud_event", "can_access_all_events",
		"can_be_assigned_support", "created_at",
	}).AddRow(int64(1), "Management",
		true, true, true,
		true, true, true,
		true, false, false, true,
		true, true, true, true,
		true, true, false, true,
		true, created)
	mock.ExpectQuery("select .* from roles where lower").
		WithArgs("management").
		WillReturnRows(rows)

	r, err := store.RoleByName(context.Background(), "management")
	if err != nil {
		t.Fatalf("RoleByName: %v", err)
	}
	if !r.Is(crm.RoleNameManagement) {
		t.Fatalf("unexpected role name: %q", r.Name)
	}
	if !r.Employee.CreateUpdateDelete || !r.AssignableSupport {
		t.Fatalf("flags not scanned: %+v", r)
	}
}

func TestListAssignableSupportEmployees(t *testing.T) {
	store, mock := newMockStore(t)

	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "password_hash", "role_id", "created_at",
	}).AddRow(int64(4), "Kate", "Reed", "kate@epic.test", "hash", int64(3), created)
	mock.ExpectQuery("select .* from employees e join roles r .* can_be_assigned_support").
		WillReturnRows(rows)

	employees, err := store.ListAssignableSupportEmployees(context.Background())
	if err != nil {
		t.Fatalf("ListAssignableSupportEmployees: %v", err)
	}
	if len(employees) != 1 || employees[0].Email != "kate@epic.test" {
		t.Fatalf("unexpected employees: %+v", employees)
	}
}

func TestUpdateCustomerRefreshesTimestamp(t *testing.T) {
	store, mock := newMockStore(t)

	updated := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery("update customers").
		WithArgs(int64(2), int64(7), "Ada", "Lovelace", "ada@corp.test", "0601020304", "Corp").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(updated))

	c := &crm.Customer{
		ID:           2,
		CommercialID: 7,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@corp.test",
		PhoneNumber:  "0601020304",
		Company:      "Corp",
	}
	if err := store.UpdateCustomer(context.Background(), store.DB(), c); err != nil {
		t.Fatalf("UpdateCustomer: %v", err)
	}
	if !c.UpdatedAt.Equal(updated) {
		t.Fatalf("updated_at not refreshed: %v", c.UpdatedAt)
	}
}
