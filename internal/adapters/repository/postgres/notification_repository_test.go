package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/ogurasousui/codex-visa-workflow/internal/core/notification"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var notificationColumnNames = []string{"id", "recipient", "employee_id", "message", "severity", "is_read", "created_at"}

func TestNotificationRepository_List_EmployeeUnread(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewNotificationRepository(mock)
	employeeID := "emp-1"
	now := time.Now().UTC()

	query := regexp.QuoteMeta(`FROM notifications WHERE recipient = $1 AND employee_id = $2 AND is_read = FALSE ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`)
	mock.ExpectQuery(query).
		WithArgs("employee", employeeID, 11, 0).
		WillReturnRows(pgxmock.NewRows(notificationColumnNames).
			AddRow("n-1", "employee", employeeID, "Your documents were submitted.", "success", false, now))

	items, next, err := repo.List(context.Background(), notification.ListFilter{
		Recipient:  notification.RecipientEmployee,
		EmployeeID: &employeeID,
		UnreadOnly: true,
		Limit:      10,
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 1 || next != "" {
		t.Fatalf("unexpected result: %d items, next %q", len(items), next)
	}
	if items[0].Severity != workflow.SeveritySuccess || items[0].EmployeeID == nil || *items[0].EmployeeID != employeeID {
		t.Fatalf("unexpected notification: %+v", items[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNotificationRepository_Delete_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewNotificationRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM notifications WHERE id = $1`)).
		WithArgs("n-404").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), "n-404"); !errors.Is(err, notification.ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewNotificationRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE notifications SET is_read = TRUE WHERE id = $1`)).
		WithArgs("n-1").
		WillReturnRows(pgxmock.NewRows(notificationColumnNames).
			AddRow("n-1", "hr", nil, "Visa processing started for Aisha.", "info", true, now))

	n, err := repo.MarkRead(context.Background(), "n-1")
	if err != nil {
		t.Fatalf("MarkRead returned error: %v", err)
	}
	if !n.Read || n.EmployeeID != nil || n.Recipient != notification.RecipientHR {
		t.Fatalf("unexpected notification: %+v", n)
	}
}
