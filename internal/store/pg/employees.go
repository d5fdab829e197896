package pg

import (
	"context"
	"database/sql"

	"epicevents.org/internal/crm"
)

func (s *Store) InsertEmployee(ctx context.Context, q Querier, e *crm.Employee) error {
	err := q.QueryRowContext(ctx,
		`insert into employees(first_name, last_name, email, password_hash, role_id)
		 values($1,$2,$3,$4,$5) returning id, created_at`,
		e.FirstName, e.LastName, e.Email, e.PasswordHash, e.RoleID,
	).Scan(&e.ID, &e.CreatedAt)
	return mapError(err)
}

func (s *Store) UpdateEmployee(ctx context.Context, q Querier, e *crm.Employee) error {
	_, err := q.ExecContext(ctx,
		`update employees set first_name=$2, last_name=$3, email=$4, password_hash=$5, role_id=$6
		 where id=$1`,
		e.ID, e.FirstName, e.LastName, e.Email, e.PasswordHash, e.RoleID,
	)
	return mapError(err)
}

func (s *Store) DeleteEmployee(ctx context.Context, q Querier, id int64) error {
	_, err := q.ExecContext(ctx, `delete from employees where id=$1`, id)
	return mapError(err)
}

func scanEmployee(row interface{ Scan(...any) error }) (*crm.Employee, error) {
	var (
		e      crm.Employee
		roleID sql.NullInt64
	)
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.PasswordHash, &roleID, &e.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	e.RoleID = roleID.Int64
	return &e, nil
}

func (s *Store) EmployeeByID(ctx context.Context, id int64) (*crm.Employee, error) {
	return scanEmployee(s.db.QueryRowContext(ctx,
		`select id, first_name, last_name, email, password_hash, role_id, created_at
		 from employees where id=$1`, id))
}

func (s *Store) EmployeeByEmail(ctx context.Context, email string) (*crm.Employee, error) {
	return scanEmployee(s.db.QueryRowContext(ctx,
		`select id, first_name, last_name, email, password_hash, role_id, created_at
		 from employees where email=$1`, email))
}

func (s *Store) ListEmployees(ctx context.Context) ([]*crm.Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		`select e.id, e.first_name, e.last_name, e.email, e.password_hash, e.role_id, e.created_at,
			coalesce(r.name, '')
		 from employees e
		 left join roles r on r.id = e.role_id
		 order by e.id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var employees []*crm.Employee
	for rows.Next() {
		var (
			e      crm.Employee
			roleID sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.PasswordHash,
			&roleID, &e.CreatedAt, &e.RoleName); err != nil {
			return nil, mapError(err)
		}
		e.RoleID = roleID.Int64
		employees = append(employees, &e)
	}
	return employees, rows.Err()
}

// ListEmployeesByRoleName returns the employees holding the named role,
// used to offer commercials when reassigning a customer.
func (s *Store) ListEmployeesByRoleName(ctx context.Context, roleName string) ([]*crm.Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		`select e.id, e.first_name, e.last_name, e.email, e.password_hash, e.role_id, e.created_at
		 from employees e
		 join roles r on r.id = e.role_id
		 where lower(r.name) = lower($1)
		 order by e.id`, roleName)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var employees []*crm.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// ListAssignableSupportEmployees returns the employees whose role
// carries the support-assignable flag, used to offer candidates during
// event assignment.
func (s *Store) ListAssignableSupportEmployees(ctx context.Context) ([]*crm.Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		`select e.id, e.first_name, e.last_name, e.email, e.password_hash, e.role_id, e.created_at
		 from employees e
		 join roles r on r.id = e.role_id
		 where r.can_be_assigned_support
		 order by e.id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var employees []*crm.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
