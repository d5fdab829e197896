// Package crud runs every mutation through the same staged lifecycle:
// the change executes inside an open transaction, the operator reviews
// a recap of what is about to be persisted, and only an explicit
// confirmation commits. Declining, or any failure along the way, rolls
// the transaction back so the database never holds a half-applied
// change.
package crud

import (
	"context"
	"errors"
	"fmt"

	"epicevents.org/internal/audit"
	"epicevents.org/internal/crm"
	"epicevents.org/internal/ids"
	"epicevents.org/internal/obs"
	"epicevents.org/internal/store/pg"
)

// Failure classifies why a staged operation did not commit.
type Failure int

const (
	FailureNone Failure = iota
	// FailureValidation covers input rejected before or during staging.
	FailureValidation
	// FailureIntegrity covers database constraint breaches such as a
	// duplicate email or a delete blocked by dependent rows.
	FailureIntegrity
	// FailureCancelled means the operator declined the recap.
	FailureCancelled
	// FailureUnexpected covers infrastructure errors.
	FailureUnexpected
)

// Result reports how an operation ended.
type Result struct {
	Failure Failure
	Err     error
}

func (r Result) Committed() bool { return r.Failure == FailureNone }

// Operation describes one staged mutation.
type Operation struct {
	Entity crm.EntityKind
	// Action is the audit verb: create, update or delete.
	Action string
	// Stage performs the mutation against the supplied transaction and
	// returns the recap shown to the operator.
	Stage func(ctx context.Context, q pg.Querier) (string, error)
	// Confirm presents the recap and reports the operator's decision.
	Confirm func(summary string) (bool, error)
	// AuditFields are recorded with the audit entry on commit.
	AuditFields map[string]any
}

// Orchestrator owns the stage-confirm-commit lifecycle.
type Orchestrator struct {
	store *pg.Store
}

func NewOrchestrator(store *pg.Store) *Orchestrator {
	return &Orchestrator{store: store}
}

// Execute runs op through the lifecycle and records the outcome in the
// audit trail and process metrics.
func (o *Orchestrator) Execute(ctx context.Context, op Operation) Result {
	res := o.execute(ctx, op)
	obs.RecordOperation(string(op.Entity), op.Action, resultLabel(res.Failure))
	if res.Committed() {
		_ = audit.LogEvent(ctx, fmt.Sprintf("%s.%s", op.Entity, op.Action), op.AuditFields)
	}
	return res
}

func (o *Orchestrator) execute(ctx context.Context, op Operation) Result {
	tx, err := o.store.Begin(ctx)
	if err != nil {
		return Result{Failure: FailureUnexpected, Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	summary, err := op.Stage(ctx, tx)
	if err != nil {
		return Result{Failure: classify(err), Err: err}
	}

	ok, err := op.Confirm(summary)
	if err != nil {
		return Result{Failure: FailureUnexpected, Err: err}
	}
	if !ok {
		return Result{Failure: FailureCancelled}
	}

	// The audit row rides in the same transaction as the change it
	// describes.
	err = o.store.InsertAuditEntry(ctx, tx, ids.New(), audit.ActorFromContext(ctx),
		fmt.Sprintf("%s.%s", op.Entity, op.Action), op.AuditFields)
	if err != nil {
		return Result{Failure: classify(err), Err: err}
	}

	if err := tx.Commit(); err != nil {
		return Result{Failure: classify(err), Err: err}
	}
	committed = true
	return Result{}
}

func classify(err error) Failure {
	switch {
	case errors.Is(err, crm.ErrInvalidInput):
		return FailureValidation
	case errors.Is(err, crm.ErrConflict):
		return FailureIntegrity
	default:
		return FailureUnexpected
	}
}

func resultLabel(f Failure) string {
	switch f {
	case FailureNone:
		return "committed"
	case FailureValidation:
		return "validation"
	case FailureIntegrity:
		return "integrity"
	case FailureCancelled:
		return "cancelled"
	default:
		return "error"
	}
}
