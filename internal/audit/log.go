// Package audit writes the append-only trail of sensitive actions as
// structured JSON lines, one ulid-keyed entry per action.
package audit

import (
	"context"
	"errors"
	"strings"
	"time"

	"epicevents.org/internal/ids"
	"epicevents.org/internal/obs"
)

type ctxKey string

const actorKey ctxKey = "audit_actor"

// WithActor attaches the authenticated operator's email to the context
// so every audit entry names who acted.
func WithActor(ctx context.Context, email string) context.Context {
	email = strings.TrimSpace(email)
	if email == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey, email)
}

// ActorFromContext returns the attached operator email, or "".
func ActorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(actorKey).(string); ok {
		return v
	}
	return ""
}

// LogEvent writes one audit entry enriched with the acting operator.
func LogEvent(ctx context.Context, event string, fields map[string]any) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return errors.New("event name is required")
	}
	entry := map[string]any{
		"id":    ids.New(),
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"type":  "audit",
		"event": event,
	}
	if actor := ActorFromContext(ctx); actor != "" {
		entry["actor"] = actor
	}
	if len(fields) > 0 {
		copyFields := make(map[string]any, len(fields))
		for k, v := range fields {
			copyFields[k] = v
		}
		entry["fields"] = copyFields
	} else {
		entry["fields"] = map[string]any{}
	}
	obs.LogEvent(entry)
	return nil
}
