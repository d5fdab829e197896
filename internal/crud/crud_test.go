package crud

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"epicevents.org/internal/crm"
	"epicevents.org/internal/store/pg"
)

func newMockOrchestrator(t *testing.T) (*Orchestrator, *pg.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	store := pg.NewStore(db)
	return NewOrchestrator(store), store, mock
}

func TestExecuteCommitsOnConfirmation(t *testing.T) {
	o, _, mock := newMockOrchestrator(t)

	mock.ExpectBegin()
	mock.ExpectExec("update customers").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("insert into audit_log").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var shown string
	res := o.Execute(context.Background(), Operation{
		Entity: crm.KindCustomer,
		Action: "update",
		Stage: func(ctx context.Context, q pg.Querier) (string, error) {
			if _, err := q.ExecContext(ctx, "update customers set company='Corp' where id=1"); err != nil {
				return "", err
			}
			return "customer 1: company -> Corp", nil
		},
		Confirm: func(summary string) (bool, error) {
			shown = summary
			return true, nil
		},
	})
	if !res.Committed() {
		t.Fatalf("expected commit, got %v (%v)", res.Failure, res.Err)
	}
	if shown != "customer 1: company -> Corp" {
		t.Fatalf("recap not shown: %q", shown)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestExecuteRollsBackOnDecline(t *testing.T) {
	o, _, mock := newMockOrchestrator(t)

	mock.ExpectBegin()
	mock.ExpectExec("delete from customers").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	res := o.Execute(context.Background(), Operation{
		Entity: crm.KindCustomer,
		Action: "delete",
		Stage: func(ctx context.Context, q pg.Querier) (string, error) {
			if _, err := q.ExecContext(ctx, "delete from customers where id=1"); err != nil {
				return "", err
			}
			return "delete customer 1", nil
		},
		Confirm: func(string) (bool, error) { return false, nil },
	})
	if res.Failure != FailureCancelled {
		t.Fatalf("expected FailureCancelled, got %v", res.Failure)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestExecuteClassifiesIntegrityBreach(t *testing.T) {
	o, store, mock := newMockOrchestrator(t)

	mock.ExpectBegin()
	mock.ExpectQuery("insert into customers").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "customers_email_key"})
	mock.ExpectRollback()

	res := o.Execute(context.Background(), Operation{
		Entity: crm.KindCustomer,
		Action: "create",
		Stage: func(ctx context.Context, q pg.Querier) (string, error) {
			c := &crm.Customer{CommercialID: 7, Email: "dup@corp.test"}
			if err := store.InsertCustomer(ctx, q, c); err != nil {
				return "", err
			}
			return "create customer", nil
		},
		Confirm: func(string) (bool, error) {
			t.Fatal("confirm must not run after a failed stage")
			return false, nil
		},
	})
	if res.Failure != FailureIntegrity {
		t.Fatalf("expected FailureIntegrity, got %v (%v)", res.Failure, res.Err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestExecuteClassifiesValidation(t *testing.T) {
	o, _, mock := newMockOrchestrator(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	res := o.Execute(context.Background(), Operation{
		Entity: crm.KindContract,
		Action: "update",
		Stage: func(context.Context, pg.Querier) (string, error) {
			return "", errors.Join(crm.ErrInvalidInput, errors.New("outstanding exceeds amount"))
		},
		Confirm: func(string) (bool, error) { return true, nil },
	})
	if res.Failure != FailureValidation {
		t.Fatalf("expected FailureValidation, got %v", res.Failure)
	}
}
