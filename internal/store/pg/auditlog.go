package pg

import (
	"context"
	"encoding/json"
)

// InsertAuditEntry appends one row to the audit trail. Run inside the
// staged transaction so the entry commits, or rolls back, together with
// the change it describes.
func (s *Store) InsertAuditEntry(ctx context.Context, q Querier, id, actor, action string, fields map[string]any) error {
	if fields == nil {
		fields = map[string]any{}
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx,
		`insert into audit_log(id, actor, action, fields) values($1,$2,$3,$4)`,
		id, actor, action, payload)
	return mapError(err)
}
