package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/employee"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
	pgdb "github.com/ogurasousui/codex-visa-workflow/internal/platform/db/postgres"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"

	employeePassportConstraint = "employees_passport_number_key"
	employeePassportCheck      = "employees_passport_number_check"
)

const employeeColumns = `id, full_name, email, passport_number, nationality, job_title, department, salary, visa_type, completed_steps, version, created_at, updated_at`

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員を新規作成します。version は 1 から始まります。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees (full_name, email, passport_number, nationality, job_title, department, salary, visa_type, completed_steps, version, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $11)
        RETURNING `+employeeColumns,
		e.FullName,
		nullableString(e.Email),
		e.PassportNumber,
		e.Nationality,
		e.JobTitle,
		e.Department,
		e.Salary,
		e.VisaType,
		e.Flags.Names(),
		e.CreatedAt,
		e.UpdatedAt,
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// UpdateProfile はプロフィール項目を更新します。フラグは変更しません。
func (r *EmployeeRepository) UpdateProfile(ctx context.Context, e *employee.Employee, expectedVersion int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE employees
           SET full_name = $1,
               email = $2,
               passport_number = $3,
               nationality = $4,
               job_title = $5,
               department = $6,
               salary = $7,
               visa_type = $8,
               updated_at = $9,
               version = version + 1
         WHERE id = $10 AND version = $11
        RETURNING `+employeeColumns,
		e.FullName,
		nullableString(e.Email),
		e.PassportNumber,
		e.Nationality,
		e.JobTitle,
		e.Department,
		e.Salary,
		e.VisaType,
		e.UpdatedAt,
		e.ID,
		expectedVersion,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, r.conflictOrNotFound(ctx, e.ID)
		}
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// SaveFlags は完了フラグを保存します。expectedVersion が一致しない場合は ErrVersionConflict です。
func (r *EmployeeRepository) SaveFlags(ctx context.Context, id string, flags workflow.Flags, expectedVersion int64, updatedAt time.Time) (*employee.Employee, error) {
	if err := flags.Validate(); err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE employees
           SET completed_steps = $1,
               updated_at = $2,
               version = version + 1
         WHERE id = $3 AND version = $4
        RETURNING `+employeeColumns,
		flags.Names(),
		updatedAt,
		id,
		expectedVersion,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, r.conflictOrNotFound(ctx, id)
		}
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

func (r *EmployeeRepository) conflictOrNotFound(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	var version int64
	if err := exec.QueryRow(ctx, `SELECT version FROM employees WHERE id = $1`, id).Scan(&version); err != nil {
		return translateEmployeePgError(err)
	}
	return employee.ErrVersionConflict
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1 LIMIT 1`, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// FindByPassportNumber は旅券番号で社員を取得します。
func (r *EmployeeRepository) FindByPassportNumber(ctx context.Context, passportNumber string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE passport_number = $1 LIMIT 1`, passportNumber)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// List は社員の一覧を取得します。段階は completed_steps の境界フラグで絞り込みます。
func (r *EmployeeRepository) List(ctx context.Context, filter employee.ListEmployeesFilter) ([]*employee.Employee, string, error) {
	if filter.Limit <= 0 {
		return nil, "", employee.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", employee.ErrInvalidPageToken
	}

	limitWithBuffer := filter.Limit + 1

	args := make([]any, 0, 4)
	conditions := make([]string, 0, 2)

	if filter.Stage != nil {
		boundary, err := workflow.BoundaryOf(*filter.Stage)
		if err != nil {
			return nil, "", err
		}
		if boundary.HasEntry {
			args = append(args, boundary.Entry.String())
			conditions = append(conditions, "$"+strconv.Itoa(len(args))+" = ANY(completed_steps)")
		}
		if boundary.HasExit {
			args = append(args, boundary.Exit.String())
			conditions = append(conditions, "NOT ($"+strconv.Itoa(len(args))+" = ANY(completed_steps))")
		}
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	limitPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, limitWithBuffer)
	offsetPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, filter.Offset)

	query := `
        SELECT ` + employeeColumns + `
          FROM employees` + whereClause + `
         ORDER BY created_at DESC, id DESC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder + `
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0, filter.Limit)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, "", translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, "", translateEmployeePgError(err)
	}

	var nextToken string
	if len(employees) == limitWithBuffer {
		employees = employees[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}

	return employees, nextToken, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id             string
		fullName       string
		email          sql.NullString
		passportNumber string
		nationality    string
		jobTitle       string
		department     string
		salary         string
		visaType       string
		steps          []string
		version        int64
		createdAt      time.Time
		updatedAt      time.Time
	)

	if err := row.Scan(
		&id,
		&fullName,
		&email,
		&passportNumber,
		&nationality,
		&jobTitle,
		&department,
		&salary,
		&visaType,
		&steps,
		&version,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	flags, err := workflow.ParseFlags(steps)
	if err != nil {
		return nil, fmt.Errorf("postgres: employee %s completed_steps: %w", id, err)
	}
	if err := flags.Validate(); err != nil {
		return nil, fmt.Errorf("postgres: employee %s completed_steps: %w", id, err)
	}

	var emailPtr *string
	if email.Valid {
		v := email.String
		emailPtr = &v
	}

	return &employee.Employee{
		ID:             id,
		FullName:       fullName,
		Email:          emailPtr,
		PassportNumber: passportNumber,
		Nationality:    nationality,
		JobTitle:       jobTitle,
		Department:     department,
		Salary:         salary,
		VisaType:       visaType,
		Flags:          flags,
		Version:        version,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			if pgErr.ConstraintName == employeePassportConstraint || pgErr.ConstraintName == "" {
				return employee.ErrPassportAlreadyExists
			}
		case checkViolationCode:
			if pgErr.ConstraintName == employeePassportCheck {
				return employee.ErrInvalidPassportNumber
			}
		}
	}

	return err
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}
