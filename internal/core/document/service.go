package document

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/notification"
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

// EmployeeNotifier は審査結果を社員へ通知します。
type EmployeeNotifier interface {
	NotifyEmployee(ctx context.Context, employeeID, message string, severity workflow.Severity) (*notification.Notification, error)
}

// DefaultMaxSizeBytes はアップロード上限の既定値です。
const DefaultMaxSizeBytes int64 = 10 << 20

// Service は書類のアップロード・審査・参照をまとめます。
type Service struct {
	repo     Repository
	notifier EmployeeNotifier
	clock    Clock
	tx       TransactionManager
	maxSize  int64
}

// UseCase は書類ユースケースの公開インターフェースです。
type UseCase interface {
	UploadDocument(ctx context.Context, in UploadDocumentInput) (*Document, error)
	GetDocument(ctx context.Context, in GetDocumentInput) (*Document, []byte, error)
	ReviewDocument(ctx context.Context, in ReviewDocumentInput) (*Document, error)
	ListDocuments(ctx context.Context, in ListDocumentsInput) ([]*Document, error)
}

// Config は Service の設定です。
type Config struct {
	Notifier     EmployeeNotifier
	Clock        Clock
	Tx           TransactionManager
	MaxSizeBytes int64
}

// NewService は Service を生成します。
func NewService(repo Repository, cfg Config) *Service {
	s := &Service{
		repo:     repo,
		notifier: cfg.Notifier,
		clock:    cfg.Clock,
		tx:       cfg.Tx,
		maxSize:  cfg.MaxSizeBytes,
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.tx == nil {
		s.tx = noopTransactionManager{}
	}
	if s.maxSize <= 0 {
		s.maxSize = DefaultMaxSizeBytes
	}
	return s
}

// UploadDocumentInput はアップロード時の入力です。
type UploadDocumentInput struct {
	Actor       workflow.Actor
	EmployeeID  string
	Type        Type
	FileName    string
	ContentType string
	Content     []byte
}

// GetDocumentInput は取得時の入力です。WithContent が false の場合は本文を読みません。
type GetDocumentInput struct {
	Actor       workflow.Actor
	ID          string
	WithContent bool
}

// ReviewDocumentInput は審査時の入力です。
type ReviewDocumentInput struct {
	Actor   workflow.Actor
	ID      string
	Status  Status
	Comment string
}

// ListDocumentsInput は一覧取得時の入力です。
type ListDocumentsInput struct {
	Actor      workflow.Actor
	EmployeeID string
}

// MaxSizeBytes はアップロード上限を返します。
func (s *Service) MaxSizeBytes() int64 {
	return s.maxSize
}

// UploadDocument は書類を保存します。審査状態は pending から始まります。
func (s *Service) UploadDocument(ctx context.Context, in UploadDocumentInput) (*Document, error) {
	employeeID, err := normalizeID(in.EmployeeID, ErrInvalidEmployeeID)
	if err != nil {
		return nil, err
	}
	if err := authorizeEmployee(in.Actor, employeeID); err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, ErrInvalidType
	}

	name, err := normalizeFileName(in.FileName)
	if err != nil {
		return nil, err
	}
	if len(in.Content) == 0 {
		return nil, ErrEmptyContent
	}
	if int64(len(in.Content)) > s.maxSize {
		return nil, fmt.Errorf("%d bytes exceeds %d: %w", len(in.Content), s.maxSize, ErrContentTooLarge)
	}

	contentType := strings.TrimSpace(in.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(in.Content)
	}

	var created *Document
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Create(txCtx, &Document{
			EmployeeID:  employeeID,
			Type:        in.Type,
			FileName:    name,
			ContentType: contentType,
			SizeBytes:   int64(len(in.Content)),
			Status:      StatusPending,
			UploadedAt:  s.clock.Now(),
		}, in.Content)
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}
	return created, nil
}

// GetDocument は書類を取得します。
func (s *Service) GetDocument(ctx context.Context, in GetDocumentInput) (*Document, []byte, error) {
	id, err := normalizeID(in.ID, ErrInvalidID)
	if err != nil {
		return nil, nil, err
	}

	var (
		doc     *Document
		content []byte
	)
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := authorizeEmployee(in.Actor, found.EmployeeID); err != nil {
			return err
		}
		doc = found
		if !in.WithContent {
			return nil
		}
		body, err := s.repo.GetContent(txCtx, id)
		if err != nil {
			return err
		}
		content = body
		return nil
	}); err != nil {
		return nil, nil, err
	}
	return doc, content, nil
}

// ReviewDocument は書類を承認または却下します。HR のみ実行できます。
func (s *Service) ReviewDocument(ctx context.Context, in ReviewDocumentInput) (*Document, error) {
	if in.Actor.Role != workflow.RoleHR || strings.TrimSpace(in.Actor.ID) == "" {
		return nil, ErrForbidden
	}

	id, err := normalizeID(in.ID, ErrInvalidID)
	if err != nil {
		return nil, err
	}

	comment := strings.TrimSpace(in.Comment)
	switch in.Status {
	case StatusApproved:
	case StatusRejected:
		if comment == "" {
			return nil, ErrCommentRequired
		}
	default:
		return nil, ErrInvalidStatus
	}

	var reviewed *Document
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if existing.Status != StatusPending {
			return ErrAlreadyReviewed
		}

		now := s.clock.Now()
		existing.Status = in.Status
		existing.ReviewerComment = comment
		existing.ReviewedAt = &now

		result, err := s.repo.UpdateReview(txCtx, existing)
		if err != nil {
			return err
		}

		if s.notifier != nil {
			msg, severity := reviewMessage(result)
			if _, err := s.notifier.NotifyEmployee(txCtx, result.EmployeeID, msg, severity); err != nil {
				return err
			}
		}

		reviewed = result
		return nil
	}); err != nil {
		return nil, err
	}
	return reviewed, nil
}

// ListDocuments は社員の書類をアップロード順に返します。
func (s *Service) ListDocuments(ctx context.Context, in ListDocumentsInput) ([]*Document, error) {
	employeeID, err := normalizeID(in.EmployeeID, ErrInvalidEmployeeID)
	if err != nil {
		return nil, err
	}
	if err := authorizeEmployee(in.Actor, employeeID); err != nil {
		return nil, err
	}

	var docs []*Document
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.ListByEmployee(txCtx, employeeID)
		if err != nil {
			return err
		}
		docs = found
		return nil
	}); err != nil {
		return nil, err
	}
	return docs, nil
}

// HasDocument は却下されていない指定種別の書類があるかを返します。
func (s *Service) HasDocument(ctx context.Context, employeeID, docType string) (bool, error) {
	id, err := normalizeID(employeeID, ErrInvalidEmployeeID)
	if err != nil {
		return false, err
	}
	t := Type(docType)
	if !t.Valid() {
		return false, ErrInvalidType
	}
	return s.repo.ExistsByType(ctx, id, t)
}

func reviewMessage(doc *Document) (string, workflow.Severity) {
	label := strings.ReplaceAll(string(doc.Type), "_", " ")
	if doc.Status == StatusRejected {
		return fmt.Sprintf("Your %s document was rejected: %s", label, doc.ReviewerComment), workflow.SeverityWarning
	}
	return fmt.Sprintf("Your %s document was approved.", label), workflow.SeveritySuccess
}

func authorizeEmployee(actor workflow.Actor, employeeID string) error {
	if strings.TrimSpace(actor.ID) == "" {
		return ErrForbidden
	}
	switch actor.Role {
	case workflow.RoleHR:
		return nil
	case workflow.RoleEmployee:
		if actor.EmployeeID == employeeID {
			return nil
		}
	}
	return ErrForbidden
}

func normalizeFileName(raw string) (string, error) {
	name := filepath.Base(strings.ReplaceAll(strings.TrimSpace(raw), "\\", "/"))
	if name == "" || name == "." || name == "/" || len(name) > 255 {
		return "", ErrInvalidFileName
	}
	return name, nil
}

func normalizeID(raw string, invalid error) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", invalid
	}
	return parsed.String(), nil
}
