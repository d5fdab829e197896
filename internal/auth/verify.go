package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"epicevents.org/internal/crm"
)

// Directory is the lookup surface the verifier needs from the store.
type Directory interface {
	EmployeeByEmail(ctx context.Context, email string) (*crm.Employee, error)
	RoleByID(ctx context.Context, id int64) (*crm.Role, error)
}

// Verifier checks a supplied email/password pair against stored
// employees. Every failure mode is reported uniformly so the caller
// cannot enumerate accounts from the return value.
type Verifier struct {
	dir     Directory
	limiter *rate.Limiter
}

// NewVerifier constructs a Verifier. Attempts are throttled to one per
// second with a small burst, which is plenty for an interactive
// operator and slows down scripted guessing.
func NewVerifier(dir Directory) *Verifier {
	return &Verifier{
		dir:     dir,
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

// Authenticate returns the matched employee and its role on success.
// It has no side effects beyond the read; session state is the
// TokenManager's job.
func (v *Verifier) Authenticate(ctx context.Context, email, password string) (*crm.Employee, *crm.Role, bool) {
	if !v.limiter.Allow() {
		return nil, nil, false
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, nil, false
	}
	employee, err := v.dir.EmployeeByEmail(ctx, email)
	if err != nil {
		return nil, nil, false
	}
	if err := VerifyPassword(employee.PasswordHash, password); err != nil {
		return nil, nil, false
	}
	role, err := v.dir.RoleByID(ctx, employee.RoleID)
	if err != nil {
		return nil, nil, false
	}
	return employee, role, true
}
