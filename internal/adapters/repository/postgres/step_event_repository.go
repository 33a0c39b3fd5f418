package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/employee"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
	pgdb "github.com/ogurasousui/codex-visa-workflow/internal/platform/db/postgres"
)

const stepEventColumns = `id, employee_id, flag, actor_id, actor_role, payload, completed_at`

// StepEventRepository はステップ完了記録を step_events テーブルに保存します。
type StepEventRepository struct {
	pool pgdb.Queryer
}

// NewStepEventRepository は StepEventRepository を生成します。
func NewStepEventRepository(pool pgdb.Queryer) *StepEventRepository {
	return &StepEventRepository{pool: pool}
}

// Append は完了記録を追加します。同じ社員・フラグの記録は一件のみです。
func (r *StepEventRepository) Append(ctx context.Context, event *employee.StepEvent) (*employee.StepEvent, error) {
	payload, err := encodePayload(event.Payload)
	if err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO step_events (employee_id, flag, actor_id, actor_role, payload, completed_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+stepEventColumns,
		event.EmployeeID,
		event.Flag.String(),
		event.ActorID,
		string(event.ActorRole),
		payload,
		event.CompletedAt,
	)

	created, err := scanStepEvent(row)
	if err != nil {
		return nil, translateStepEventPgError(err)
	}
	return created, nil
}

// ListByEmployee は社員の完了記録を完了順に返します。
func (r *StepEventRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*employee.StepEvent, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+stepEventColumns+`
          FROM step_events
         WHERE employee_id = $1
         ORDER BY completed_at ASC, id ASC
    `, employeeID)
	if err != nil {
		return nil, translateStepEventPgError(err)
	}
	defer rows.Close()

	events := make([]*employee.StepEvent, 0)
	for rows.Next() {
		ev, err := scanStepEvent(rows)
		if err != nil {
			return nil, translateStepEventPgError(err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, translateStepEventPgError(err)
	}
	return events, nil
}

func scanStepEvent(row pgx.Row) (*employee.StepEvent, error) {
	var (
		id          string
		employeeID  string
		flagName    string
		actorID     string
		actorRole   string
		payload     []byte
		completedAt time.Time
	)

	if err := row.Scan(&id, &employeeID, &flagName, &actorID, &actorRole, &payload, &completedAt); err != nil {
		return nil, err
	}

	flag, err := workflow.ParseFlag(flagName)
	if err != nil {
		return nil, fmt.Errorf("postgres: step event %s: %w", id, err)
	}

	decoded, err := decodePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("postgres: step event %s payload: %w", id, err)
	}

	return &employee.StepEvent{
		ID:          id,
		EmployeeID:  employeeID,
		Flag:        flag,
		ActorID:     actorID,
		ActorRole:   workflow.Role(actorRole),
		Payload:     decoded,
		CompletedAt: completedAt,
	}, nil
}

func encodePayload(payload map[string]any) ([]byte, error) {
	if payload == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("postgres: encode payload: %w", err)
	}
	return b, nil
}

func decodePayload(raw []byte) (map[string]any, error) {
	out := map[string]any{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func translateStepEventPgError(err error) error {
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
			return employee.ErrStepAlreadyRecorded
		case foreignKeyViolationCode:
			return employee.ErrEmployeeNotFound
		}
	}
	return err
}
