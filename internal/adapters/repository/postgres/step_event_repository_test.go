package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/employee"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var stepEventColumnNames = []string{"id", "employee_id", "flag", "actor_id", "actor_role", "payload", "completed_at"}

func TestStepEventRepository_Append(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewStepEventRepository(mock)
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	payload := []byte(`{"arrival_date":"2025-05-01"}`)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO step_events`)).
		WithArgs("emp-1", "arrival_updated", "u-1", "employee", payload, now).
		WillReturnRows(pgxmock.NewRows(stepEventColumnNames).
			AddRow("ev-1", "emp-1", "arrival_updated", "u-1", "employee", payload, now))

	ev, err := repo.Append(context.Background(), &employee.StepEvent{
		EmployeeID:  "emp-1",
		Flag:        workflow.FlagArrivalUpdated,
		ActorID:     "u-1",
		ActorRole:   workflow.RoleEmployee,
		Payload:     map[string]any{"arrival_date": "2025-05-01"},
		CompletedAt: now,
	})
	if err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if ev.ID != "ev-1" || ev.Flag != workflow.FlagArrivalUpdated || ev.Payload["arrival_date"] != "2025-05-01" {
		t.Fatalf("unexpected event: %+v", ev)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStepEventRepository_Append_Duplicate(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewStepEventRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO step_events`)).
		WithArgs("emp-1", "documents_uploaded", "u-1", "employee", []byte("{}"), now).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	_, err = repo.Append(context.Background(), &employee.StepEvent{
		EmployeeID:  "emp-1",
		Flag:        workflow.FlagDocumentsUploaded,
		ActorID:     "u-1",
		ActorRole:   workflow.RoleEmployee,
		CompletedAt: now,
	})
	if !errors.Is(err, employee.ErrStepAlreadyRecorded) {
		t.Fatalf("expected ErrStepAlreadyRecorded, got %v", err)
	}
}

func TestStepEventRepository_ListByEmployee(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewStepEventRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM step_events WHERE employee_id = $1 ORDER BY completed_at ASC, id ASC`)).
		WithArgs("emp-1").
		WillReturnRows(pgxmock.NewRows(stepEventColumnNames).
			AddRow("ev-1", "emp-1", "documents_uploaded", "u-1", "employee", []byte(`{}`), now).
			AddRow("ev-2", "emp-1", "hr_reviewed", "hr-1", "hr", []byte(`{"note":"ok"}`), now.Add(time.Hour)))

	events, err := repo.ListByEmployee(context.Background(), "emp-1")
	if err != nil {
		t.Fatalf("ListByEmployee returned error: %v", err)
	}
	if len(events) != 2 || events[1].ActorRole != workflow.RoleHR || events[1].Payload["note"] != "ok" {
		t.Fatalf("unexpected events: %+v", events)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
