package auth

import (
	"testing"
	"time"
)

func TestIssueThenValidateRoundTrip(t *testing.T) {
	store := NewMemoryTokenStore()
	mgr, err := NewTokenManager(store, "test-secret", 30*time.Minute)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, exp, err := mgr.Issue(42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected a signed token")
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expected future expiry, got %v", exp)
	}

	claims, ok := mgr.Validate()
	if !ok {
		t.Fatal("expected valid session")
	}
	if claims.UserID != 42 {
		t.Fatalf("unexpected user id: %d", claims.UserID)
	}

	// Validation must not consume the session.
	if _, ok := mgr.Validate(); !ok {
		t.Fatal("second validation should still succeed")
	}
}

func TestIssueOverwritesPriorSession(t *testing.T) {
	store := NewMemoryTokenStore()
	mgr, err := NewTokenManager(store, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	if _, _, err := mgr.Issue(1); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, _, err := mgr.Issue(2); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, ok := mgr.Validate()
	if !ok || claims.UserID != 2 {
		t.Fatalf("expected session for user 2, got %+v ok=%v", claims, ok)
	}
}

func TestExpiredTokenIsErasedFailClosed(t *testing.T) {
	store := NewMemoryTokenStore()
	now := time.Now()
	clock := func() time.Time { return now }
	mgr, err := NewTokenManager(store, "test-secret", 10*time.Minute, WithClock(clock))
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	if _, _, err := mgr.Issue(7); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	now = now.Add(11 * time.Minute)
	if _, ok := mgr.Validate(); ok {
		t.Fatal("expected expired session to be rejected")
	}
	if tok, _ := store.Load(); tok != "" {
		t.Fatal("expected persisted token to be erased")
	}
	// Idempotent: validating again yields the same no-session outcome.
	if _, ok := mgr.Validate(); ok {
		t.Fatal("expected no session on repeated validation")
	}
}

func TestTamperedTokenIsRejected(t *testing.T) {
	store := NewMemoryTokenStore()
	mgr, err := NewTokenManager(store, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	token, _, err := mgr.Issue(9)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	_ = store.Save(token + "x")
	if _, ok := mgr.Validate(); ok {
		t.Fatal("expected tampered token to be rejected")
	}
	if tok, _ := store.Load(); tok != "" {
		t.Fatal("expected tampered token to be erased")
	}
}

func TestForeignSecretIsRejected(t *testing.T) {
	store := NewMemoryTokenStore()
	other, err := NewTokenManager(NewMemoryTokenStore(), "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	token, _, err := other.Issue(5)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	_ = store.Save(token)

	mgr, err := NewTokenManager(store, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	if _, ok := mgr.Validate(); ok {
		t.Fatal("expected token signed with a foreign secret to be rejected")
	}
}
