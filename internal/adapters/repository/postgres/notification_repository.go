package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/notification"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
	pgdb "github.com/ogurasousui/codex-visa-workflow/internal/platform/db/postgres"
)

const notificationColumns = `id, recipient, employee_id, message, severity, is_read, created_at`

// NotificationRepository は PostgreSQL を利用した通知永続化の実装です。
type NotificationRepository struct {
	pool pgdb.Queryer
}

// NewNotificationRepository は NotificationRepository を生成します。
func NewNotificationRepository(pool pgdb.Queryer) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create は通知を保存します。
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) (*notification.Notification, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO notifications (recipient, employee_id, message, severity, is_read, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+notificationColumns,
		string(n.Recipient),
		nullableString(n.EmployeeID),
		n.Message,
		string(n.Severity),
		n.Read,
		n.CreatedAt,
	)

	created, err := scanNotification(row)
	if err != nil {
		return nil, translateNotificationPgError(err)
	}
	return created, nil
}

// FindByID は ID で通知を取得します。
func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*notification.Notification, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1 LIMIT 1`, id)

	found, err := scanNotification(row)
	if err != nil {
		return nil, translateNotificationPgError(err)
	}
	return found, nil
}

// MarkRead は通知を既読にします。
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) (*notification.Notification, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE notifications
           SET is_read = TRUE
         WHERE id = $1
        RETURNING `+notificationColumns, id)

	updated, err := scanNotification(row)
	if err != nil {
		return nil, translateNotificationPgError(err)
	}
	return updated, nil
}

// Delete は通知を削除します。
func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return translateNotificationPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

// List は受信箱の通知を新しい順に返します。
func (r *NotificationRepository) List(ctx context.Context, filter notification.ListFilter) ([]*notification.Notification, string, error) {
	if filter.Limit <= 0 {
		return nil, "", notification.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", notification.ErrInvalidPageToken
	}

	limitWithBuffer := filter.Limit + 1

	args := []any{string(filter.Recipient)}
	conditions := []string{"recipient = $1"}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, "employee_id = $"+strconv.Itoa(len(args)))
	}
	if filter.UnreadOnly {
		conditions = append(conditions, "is_read = FALSE")
	}

	limitPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, limitWithBuffer)
	offsetPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, filter.Offset)

	query := `
        SELECT ` + notificationColumns + `
          FROM notifications WHERE ` + strings.Join(conditions, " AND ") + `
         ORDER BY created_at DESC, id DESC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder + `
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateNotificationPgError(err)
	}
	defer rows.Close()

	items := make([]*notification.Notification, 0, filter.Limit)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, "", translateNotificationPgError(err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, "", translateNotificationPgError(err)
	}

	var nextToken string
	if len(items) == limitWithBuffer {
		items = items[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}
	return items, nextToken, nil
}

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var (
		id         string
		recipient  string
		employeeID sql.NullString
		message    string
		severity   string
		read       bool
		createdAt  time.Time
	)

	if err := row.Scan(&id, &recipient, &employeeID, &message, &severity, &read, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notification.ErrNotificationNotFound
		}
		return nil, err
	}

	var employeePtr *string
	if employeeID.Valid {
		v := employeeID.String
		employeePtr = &v
	}

	return &notification.Notification{
		ID:         id,
		Recipient:  notification.Recipient(recipient),
		EmployeeID: employeePtr,
		Message:    message,
		Severity:   workflow.Severity(severity),
		Read:       read,
		CreatedAt:  createdAt,
	}, nil
}

func translateNotificationPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notification.ErrNotificationNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case foreignKeyViolationCode:
			return notification.ErrEmployeeNotFound
		case checkViolationCode:
			return notification.ErrInvalidSeverity
		}
	}
	return err
}
