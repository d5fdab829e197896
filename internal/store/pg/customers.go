package pg

import (
	"context"

	"epicevents.org/internal/crm"
)

func (s *Store) InsertCustomer(ctx context.Context, q Querier, c *crm.Customer) error {
	err := q.QueryRowContext(ctx,
		`insert into customers(commercial_id, first_name, last_name, email, phone_number, company)
		 values($1,$2,$3,$4,$5,$6) returning id, created_at, updated_at`,
		c.CommercialID, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Company,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return mapError(err)
}

// UpdateCustomer refreshes updated_at on every mutation.
func (s *Store) UpdateCustomer(ctx context.Context, q Querier, c *crm.Customer) error {
	err := q.QueryRowContext(ctx,
		`update customers
		 set commercial_id=$2, first_name=$3, last_name=$4, email=$5, phone_number=$6, company=$7,
			updated_at=now()
		 where id=$1 returning updated_at`,
		c.ID, c.CommercialID, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Company,
	).Scan(&c.UpdatedAt)
	return mapError(err)
}

func (s *Store) DeleteCustomer(ctx context.Context, q Querier, id int64) error {
	_, err := q.ExecContext(ctx, `delete from customers where id=$1`, id)
	return mapError(err)
}

const customerColumns = `c.id, c.commercial_id, c.first_name, c.last_name, c.email,
	c.phone_number, c.company, c.created_at, c.updated_at, coalesce(e.email, '')`

func (s *Store) queryCustomers(ctx context.Context, where string, args ...any) ([]*crm.Customer, error) {
	query := `select ` + customerColumns + `
		 from customers c
		 left join employees e on e.id = c.commercial_id`
	if where != "" {
		query += ` where ` + where
	}
	query += ` order by c.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var customers []*crm.Customer
	for rows.Next() {
		var c crm.Customer
		if err := rows.Scan(&c.ID, &c.CommercialID, &c.FirstName, &c.LastName, &c.Email,
			&c.PhoneNumber, &c.Company, &c.CreatedAt, &c.UpdatedAt, &c.CommercialEmail); err != nil {
			return nil, mapError(err)
		}
		customers = append(customers, &c)
	}
	return customers, rows.Err()
}

func (s *Store) ListCustomers(ctx context.Context) ([]*crm.Customer, error) {
	return s.queryCustomers(ctx, "")
}

func (s *Store) ListCustomersByCommercial(ctx context.Context, commercialID int64) ([]*crm.Customer, error) {
	return s.queryCustomers(ctx, `c.commercial_id = $1`, commercialID)
}

func (s *Store) CustomerByID(ctx context.Context, id int64) (*crm.Customer, error) {
	var c crm.Customer
	err := s.db.QueryRowContext(ctx,
		`select `+customerColumns+`
		 from customers c
		 left join employees e on e.id = c.commercial_id
		 where c.id=$1`, id,
	).Scan(&c.ID, &c.CommercialID, &c.FirstName, &c.LastName, &c.Email,
		&c.PhoneNumber, &c.Company, &c.CreatedAt, &c.UpdatedAt, &c.CommercialEmail)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}
