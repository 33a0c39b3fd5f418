package notification

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
	maxMessageLength    = 1000
)

// Service は通知の作成・参照・既読化・削除をまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase は通知ユースケースの公開インターフェースです。
type UseCase interface {
	ListNotifications(ctx context.Context, in ListNotificationsInput) (*ListNotificationsResult, error)
	MarkRead(ctx context.Context, in MarkReadInput) (*Notification, error)
	DeleteNotification(ctx context.Context, in DeleteNotificationInput) error
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// ListNotificationsInput は一覧取得時の入力です。
type ListNotificationsInput struct {
	Actor      workflow.Actor
	UnreadOnly bool
	PageSize   int
	PageToken  string
}

// ListNotificationsResult は一覧取得結果です。
type ListNotificationsResult struct {
	Notifications []*Notification
	NextPageToken string
}

// MarkReadInput は既読化時の入力です。
type MarkReadInput struct {
	Actor workflow.Actor
	ID    string
}

// DeleteNotificationInput は削除時の入力です。
type DeleteNotificationInput struct {
	Actor workflow.Actor
	ID    string
}

// Dispatch はワークフロー遷移の通知意図を保存します。呼び出し元のトランザクションを再利用します。
func (s *Service) Dispatch(ctx context.Context, employeeID string, intents []workflow.NotificationIntent) error {
	id, err := normalizeID(employeeID, ErrInvalidEmployeeID)
	if err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		for _, intent := range intents {
			recipient, err := recipientFor(intent.Audience)
			if err != nil {
				return err
			}
			if _, err := s.create(txCtx, recipient, &id, intent.Message, intent.Severity); err != nil {
				return err
			}
		}
		return nil
	})
}

// NotifyEmployee は社員宛ての通知を作成します。
func (s *Service) NotifyEmployee(ctx context.Context, employeeID, message string, severity workflow.Severity) (*Notification, error) {
	id, err := normalizeID(employeeID, ErrInvalidEmployeeID)
	if err != nil {
		return nil, err
	}

	var created *Notification
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		n, err := s.create(txCtx, RecipientEmployee, &id, message, severity)
		if err != nil {
			return err
		}
		created = n
		return nil
	}); err != nil {
		return nil, err
	}
	return created, nil
}

// NotifyHR は HR 宛ての通知を作成します。employeeID は任意の参照です。
func (s *Service) NotifyHR(ctx context.Context, message string, severity workflow.Severity, employeeID *string) (*Notification, error) {
	var ref *string
	if employeeID != nil {
		id, err := normalizeID(*employeeID, ErrInvalidEmployeeID)
		if err != nil {
			return nil, err
		}
		ref = &id
	}

	var created *Notification
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		n, err := s.create(txCtx, RecipientHR, ref, message, severity)
		if err != nil {
			return err
		}
		created = n
		return nil
	}); err != nil {
		return nil, err
	}
	return created, nil
}

// ListNotifications は操作者の受信箱を新しい順に返します。
func (s *Service) ListNotifications(ctx context.Context, in ListNotificationsInput) (*ListNotificationsResult, error) {
	filter, err := inboxFilter(in.Actor)
	if err != nil {
		return nil, err
	}

	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}
	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	filter.UnreadOnly = in.UnreadOnly
	filter.Limit = limit
	filter.Offset = offset

	var result ListNotificationsResult
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, next, err := s.repo.List(txCtx, filter)
		if err != nil {
			return err
		}
		result.Notifications = found
		result.NextPageToken = next
		return nil
	}); err != nil {
		return nil, err
	}
	return &result, nil
}

// MarkRead は通知を既読にします。
func (s *Service) MarkRead(ctx context.Context, in MarkReadInput) (*Notification, error) {
	id, err := normalizeID(in.ID, ErrInvalidID)
	if err != nil {
		return nil, err
	}

	var updated *Notification
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := authorize(in.Actor, existing); err != nil {
			return err
		}
		if existing.Read {
			updated = existing
			return nil
		}
		result, err := s.repo.MarkRead(txCtx, id)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteNotification は通知を削除します。
func (s *Service) DeleteNotification(ctx context.Context, in DeleteNotificationInput) error {
	id, err := normalizeID(in.ID, ErrInvalidID)
	if err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := authorize(in.Actor, existing); err != nil {
			return err
		}
		return s.repo.Delete(txCtx, id)
	})
}

func (s *Service) create(ctx context.Context, recipient Recipient, employeeID *string, message string, severity workflow.Severity) (*Notification, error) {
	msg := strings.TrimSpace(message)
	if msg == "" || len(msg) > maxMessageLength {
		return nil, ErrInvalidMessage
	}
	if !severity.Valid() {
		return nil, ErrInvalidSeverity
	}
	if recipient == RecipientEmployee && employeeID == nil {
		return nil, ErrInvalidEmployeeID
	}

	return s.repo.Create(ctx, &Notification{
		Recipient:  recipient,
		EmployeeID: employeeID,
		Message:    msg,
		Severity:   severity,
		CreatedAt:  s.clock.Now(),
	})
}

func recipientFor(audience workflow.Audience) (Recipient, error) {
	switch audience {
	case workflow.AudienceHR:
		return RecipientHR, nil
	case workflow.AudienceEmployee:
		return RecipientEmployee, nil
	default:
		return "", fmt.Errorf("audience %q: %w", string(audience), ErrInvalidRecipient)
	}
}

func inboxFilter(actor workflow.Actor) (ListFilter, error) {
	switch actor.Role {
	case workflow.RoleHR:
		return ListFilter{Recipient: RecipientHR}, nil
	case workflow.RoleEmployee:
		id, err := normalizeID(actor.EmployeeID, ErrInvalidEmployeeID)
		if err != nil {
			return ListFilter{}, err
		}
		return ListFilter{Recipient: RecipientEmployee, EmployeeID: &id}, nil
	default:
		return ListFilter{}, ErrForbidden
	}
}

func authorize(actor workflow.Actor, n *Notification) error {
	switch actor.Role {
	case workflow.RoleHR:
		if n.Recipient == RecipientHR {
			return nil
		}
	case workflow.RoleEmployee:
		if n.Recipient == RecipientEmployee && n.EmployeeID != nil && *n.EmployeeID == actor.EmployeeID {
			return nil
		}
	}
	return ErrForbidden
}

func normalizeID(raw string, invalid error) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", invalid
	}
	return parsed.String(), nil
}

func normalizePageSize(pageSize int) (int, error) {
	if pageSize <= 0 {
		return defaultListPageSize, nil
	}
	if pageSize > maxListPageSize {
		return 0, ErrInvalidPageSize
	}
	return pageSize, nil
}

func parsePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}
	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}
	return offset, nil
}
