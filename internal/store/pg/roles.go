package pg

import (
	"context"

	"epicevents.org/internal/crm"
)

const roleColumns = `id, name,
	can_r_employee, can_ru_employee, can_crud_employee,
	can_r_role, can_ru_role, can_crud_role,
	can_r_customer, can_ru_customer, can_crud_customer, can_access_all_customers,
	can_r_contract, can_ru_contract, can_crud_contract, can_access_all_contracts,
	can_r_event, can_ru_event, can_crud_event, can_access_all_events,
	can_be_assigned_support, created_at`

func scanRole(row interface{ Scan(...any) error }) (*crm.Role, error) {
	var r crm.Role
	err := row.Scan(
		&r.ID, &r.Name,
		&r.Employee.Read, &r.Employee.ReadUpdate, &r.Employee.CreateUpdateDelete,
		&r.Role.Read, &r.Role.ReadUpdate, &r.Role.CreateUpdateDelete,
		&r.Customer.Read, &r.Customer.ReadUpdate, &r.Customer.CreateUpdateDelete, &r.AccessAllCustomers,
		&r.Contract.Read, &r.Contract.ReadUpdate, &r.Contract.CreateUpdateDelete, &r.AccessAllContracts,
		&r.Event.Read, &r.Event.ReadUpdate, &r.Event.CreateUpdateDelete, &r.AccessAllEvents,
		&r.AssignableSupport, &r.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &r, nil
}

func (s *Store) InsertRole(ctx context.Context, q Querier, r *crm.Role) error {
	err := q.QueryRowContext(ctx,
		`insert into roles(name,
			can_r_employee, can_ru_employee, can_crud_employee,
			can_r_role, can_ru_role, can_crud_role,
			can_r_customer, can_ru_customer, can_crud_customer, can_access_all_customers,
			can_r_contract, can_ru_contract, can_crud_contract, can_access_all_contracts,
			can_r_event, can_ru_event, can_crud_event, can_access_all_events,
			can_be_assigned_support)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		 returning id, created_at`,
		r.Name,
		r.Employee.Read, r.Employee.ReadUpdate, r.Employee.CreateUpdateDelete,
		r.Role.Read, r.Role.ReadUpdate, r.Role.CreateUpdateDelete,
		r.Customer.Read, r.Customer.ReadUpdate, r.Customer.CreateUpdateDelete, r.AccessAllCustomers,
		r.Contract.Read, r.Contract.ReadUpdate, r.Contract.CreateUpdateDelete, r.AccessAllContracts,
		r.Event.Read, r.Event.ReadUpdate, r.Event.CreateUpdateDelete, r.AccessAllEvents,
		r.AssignableSupport,
	).Scan(&r.ID, &r.CreatedAt)
	return mapError(err)
}

func (s *Store) UpdateRole(ctx context.Context, q Querier, r *crm.Role) error {
	_, err := q.ExecContext(ctx,
		`update roles set name=$2,
			can_r_employee=$3, can_ru_employee=$4, can_crud_employee=$5,
			can_r_role=$6, can_ru_role=$7, can_crud_role=$8,
			can_r_customer=$9, can_ru_customer=$10, can_crud_customer=$11, can_access_all_customers=$12,
			can_r_contract=$13, can_ru_contract=$14, can_crud_contract=$15, can_access_all_contracts=$16,
			can_r_event=$17, can_ru_event=$18, can_crud_event=$19, can_access_all_events=$20,
			can_be_assigned_support=$21
		 where id=$1`,
		r.ID, r.Name,
		r.Employee.Read, r.Employee.ReadUpdate, r.Employee.CreateUpdateDelete,
		r.Role.Read, r.Role.ReadUpdate, r.Role.CreateUpdateDelete,
		r.Customer.Read, r.Customer.ReadUpdate, r.Customer.CreateUpdateDelete, r.AccessAllCustomers,
		r.Contract.Read, r.Contract.ReadUpdate, r.Contract.CreateUpdateDelete, r.AccessAllContracts,
		r.Event.Read, r.Event.ReadUpdate, r.Event.CreateUpdateDelete, r.AccessAllEvents,
		r.AssignableSupport,
	)
	return mapError(err)
}

func (s *Store) DeleteRole(ctx context.Context, q Querier, id int64) error {
	_, err := q.ExecContext(ctx, `delete from roles where id=$1`, id)
	return mapError(err)
}

func (s *Store) RoleByID(ctx context.Context, id int64) (*crm.Role, error) {
	return scanRole(s.db.QueryRowContext(ctx,
		`select `+roleColumns+` from roles where id=$1`, id))
}

func (s *Store) RoleByName(ctx context.Context, name string) (*crm.Role, error) {
	return scanRole(s.db.QueryRowContext(ctx,
		`select `+roleColumns+` from roles where lower(name)=lower($1)`, name))
}

func (s *Store) ListRoles(ctx context.Context) ([]*crm.Role, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+roleColumns+` from roles order by id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var roles []*crm.Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}
