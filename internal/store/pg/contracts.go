package pg

import (
	"context"

	"epicevents.org/internal/crm"
)

func (s *Store) InsertContract(ctx context.Context, q Querier, c *crm.Contract) error {
	err := q.QueryRowContext(ctx,
		`insert into contracts(customer_id, title, amount, outstanding, signed)
		 values($1,$2,$3,$4,$5) returning id, created_at`,
		c.CustomerID, c.Title, c.Amount, c.Outstanding, c.Signed,
	).Scan(&c.ID, &c.CreatedAt)
	return mapError(err)
}

func (s *Store) UpdateContract(ctx context.Context, q Querier, c *crm.Contract) error {
	_, err := q.ExecContext(ctx,
		`update contracts set customer_id=$2, title=$3, amount=$4, outstanding=$5, signed=$6
		 where id=$1`,
		c.ID, c.CustomerID, c.Title, c.Amount, c.Outstanding, c.Signed,
	)
	return mapError(err)
}

func (s *Store) DeleteContract(ctx context.Context, q Querier, id int64) error {
	_, err := q.ExecContext(ctx, `delete from contracts where id=$1`, id)
	return mapError(err)
}

const contractColumns = `ct.id, ct.customer_id, ct.title, ct.amount, ct.outstanding,
	ct.signed, ct.created_at, coalesce(c.email, '')`

func (s *Store) queryContracts(ctx context.Context, where string, args ...any) ([]*crm.Contract, error) {
	query := `select ` + contractColumns + `
		 from contracts ct
		 left join customers c on c.id = ct.customer_id`
	if where != "" {
		query += ` where ` + where
	}
	query += ` order by ct.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var contracts []*crm.Contract
	for rows.Next() {
		var c crm.Contract
		if err := rows.Scan(&c.ID, &c.CustomerID, &c.Title, &c.Amount, &c.Outstanding,
			&c.Signed, &c.CreatedAt, &c.CustomerEmail); err != nil {
			return nil, mapError(err)
		}
		contracts = append(contracts, &c)
	}
	return contracts, rows.Err()
}

func (s *Store) ListContracts(ctx context.Context) ([]*crm.Contract, error) {
	return s.queryContracts(ctx, "")
}

// ListContractsByCommercial joins through the owning customer.
func (s *Store) ListContractsByCommercial(ctx context.Context, commercialID int64) ([]*crm.Contract, error) {
	return s.queryContracts(ctx, `c.commercial_id = $1`, commercialID)
}

func (s *Store) ListSignedContracts(ctx context.Context) ([]*crm.Contract, error) {
	return s.queryContracts(ctx, `ct.signed = true`)
}

func (s *Store) ListSignedContractsByCommercial(ctx context.Context, commercialID int64) ([]*crm.Contract, error) {
	return s.queryContracts(ctx, `c.commercial_id = $1 and ct.signed = true`, commercialID)
}

// ListUnsignedContractsByCommercial supports the commercial follow-up
// view of contracts still awaiting signature.
func (s *Store) ListUnsignedContractsByCommercial(ctx context.Context, commercialID int64) ([]*crm.Contract, error) {
	return s.queryContracts(ctx, `c.commercial_id = $1 and ct.signed = false`, commercialID)
}

// ListOutstandingContractsByCommercial lists contracts with a balance
// still due.
func (s *Store) ListOutstandingContractsByCommercial(ctx context.Context, commercialID int64) ([]*crm.Contract, error) {
	return s.queryContracts(ctx, `c.commercial_id = $1 and ct.outstanding <> 0`, commercialID)
}

func (s *Store) ContractByID(ctx context.Context, id int64) (*crm.Contract, error) {
	var c crm.Contract
	err := s.db.QueryRowContext(ctx,
		`select `+contractColumns+`
		 from contracts ct
		 left join customers c on c.id = ct.customer_id
		 where ct.id=$1`, id,
	).Scan(&c.ID, &c.CustomerID, &c.Title, &c.Amount, &c.Outstanding,
		&c.Signed, &c.CreatedAt, &c.CustomerEmail)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}
