package pg

import (
	"context"
	"database/sql"
	"time"

	"epicevents.org/internal/crm"
)

func (s *Store) InsertEvent(ctx context.Context, q Querier, e *crm.Event) error {
	err := q.QueryRowContext(ctx,
		`insert into events(contract_id, support_id, title, notes, location, attendees, date_start, date_end)
		 values($1,$2,$3,$4,$5,$6,$7,$8) returning id, created_at`,
		e.ContractID, nullableID(e.SupportID), e.Title, e.Notes, e.Location,
		e.Attendees, nullableTime(e.Start), nullableTime(e.End),
	).Scan(&e.ID, &e.CreatedAt)
	return mapError(err)
}

func (s *Store) UpdateEvent(ctx context.Context, q Querier, e *crm.Event) error {
	_, err := q.ExecContext(ctx,
		`update events set contract_id=$2, support_id=$3, title=$4, notes=$5, location=$6,
			attendees=$7, date_start=$8, date_end=$9
		 where id=$1`,
		e.ID, e.ContractID, nullableID(e.SupportID), e.Title, e.Notes, e.Location,
		e.Attendees, nullableTime(e.Start), nullableTime(e.End),
	)
	return mapError(err)
}

func (s *Store) DeleteEvent(ctx context.Context, q Querier, id int64) error {
	_, err := q.ExecContext(ctx, `delete from events where id=$1`, id)
	return mapError(err)
}

const eventColumns = `ev.id, ev.contract_id, ev.support_id, ev.title, ev.notes, ev.location,
	ev.attendees, ev.date_start, ev.date_end, ev.created_at,
	coalesce(ct.title, ''), coalesce(sup.email, '')`

func (s *Store) queryEvents(ctx context.Context, where string, args ...any) ([]*crm.Event, error) {
	query := `select ` + eventColumns + `
		 from events ev
		 left join contracts ct on ct.id = ev.contract_id
		 left join employees sup on sup.id = ev.support_id`
	if where != "" {
		query += ` where ` + where
	}
	query += ` order by ev.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var events []*crm.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func scanEvent(row interface{ Scan(...any) error }) (*crm.Event, error) {
	var (
		e          crm.Event
		supportID  sql.NullInt64
		start, end sql.NullTime
	)
	err := row.Scan(&e.ID, &e.ContractID, &supportID, &e.Title, &e.Notes, &e.Location,
		&e.Attendees, &start, &end, &e.CreatedAt, &e.ContractTitle, &e.SupportEmail)
	if err != nil {
		return nil, mapError(err)
	}
	if supportID.Valid {
		e.SupportID = &supportID.Int64
	}
	if start.Valid {
		t := start.Time
		e.Start = &t
	}
	if end.Valid {
		t := end.Time
		e.End = &t
	}
	return &e, nil
}

func (s *Store) ListEvents(ctx context.Context) ([]*crm.Event, error) {
	return s.queryEvents(ctx, "")
}

// ListEventsByCommercial resolves ownership through the two-hop join
// contract -> customer -> commercial.
func (s *Store) ListEventsByCommercial(ctx context.Context, commercialID int64) ([]*crm.Event, error) {
	return s.queryEvents(ctx,
		`ev.contract_id in (
			select co.id from contracts co
			join customers cu on cu.id = co.customer_id
			where cu.commercial_id = $1
		)`, commercialID)
}

func (s *Store) ListEventsBySupport(ctx context.Context, supportID int64) ([]*crm.Event, error) {
	return s.queryEvents(ctx, `ev.support_id = $1`, supportID)
}

// ListEventsWithoutSupport lists events awaiting a support assignment.
func (s *Store) ListEventsWithoutSupport(ctx context.Context) ([]*crm.Event, error) {
	return s.queryEvents(ctx, `ev.support_id is null`)
}

func (s *Store) EventByID(ctx context.Context, id int64) (*crm.Event, error) {
	return scanEvent(s.db.QueryRowContext(ctx,
		`select `+eventColumns+`
		 from events ev
		 left join contracts ct on ct.id = ev.contract_id
		 left join employees sup on sup.id = ev.support_id
		 where ev.id=$1`, id))
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
