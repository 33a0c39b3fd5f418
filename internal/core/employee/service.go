package employee

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
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
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// NotificationDispatcher はエンジンが返した通知意図を配信します。
// ctx にトランザクションが含まれる場合、同じトランザクション内で保存されます。
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, employeeID string, intents []workflow.NotificationIntent) error
}

// DocumentChecker は社員に指定種別の書類が提出済みかを返します。
type DocumentChecker interface {
	HasDocument(ctx context.Context, employeeID, docType string) (bool, error)
}

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
)

var passportNumberPattern = regexp.MustCompile(`^[A-Z0-9]{5,20}$`)

// requiredDocuments はステップ完了前に提出が必要な書類種別です。
var requiredDocuments = map[workflow.Flag][]string{
	workflow.FlagDocumentsUploaded:          {"passport", "photo"},
	workflow.FlagMedicalCertificateUploaded: {"medical_certificate"},
	workflow.FlagStampedVisaUploaded:        {"stamped_visa"},
}

// Service は社員レコードとワークフロー進行に関するユースケースをまとめます。
type Service struct {
	repo       Repository
	events     StepEventRepository
	dispatcher NotificationDispatcher
	documents  DocumentChecker
	clock      Clock
	tx         TransactionManager
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error)
	UpdateEmployeeProfile(ctx context.Context, in UpdateEmployeeProfileInput) (*Employee, error)
	AdvanceStep(ctx context.Context, in AdvanceStepInput) (*AdvanceStepResult, error)
	GetNextAction(ctx context.Context, in GetNextActionInput) (*NextActionResult, error)
	ListStepHistory(ctx context.Context, in ListStepHistoryInput) ([]*StepEvent, error)
}

// Option は Service の任意設定です。
type Option func(*Service)

// WithClock は時刻の取得元を差し替えます。
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithTransactionManager はトランザクション制御を設定します。
func WithTransactionManager(tx TransactionManager) Option {
	return func(s *Service) {
		if tx != nil {
			s.tx = tx
		}
	}
}

// WithNotificationDispatcher は通知配信先を設定します。
func WithNotificationDispatcher(d NotificationDispatcher) Option {
	return func(s *Service) {
		s.dispatcher = d
	}
}

// WithDocumentChecker は書類提出の確認先を設定します。未設定の場合は確認しません。
func WithDocumentChecker(c DocumentChecker) Option {
	return func(s *Service) {
		s.documents = c
	}
}

// NewService は Service を生成します。
func NewService(repo Repository, events StepEventRepository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		events: events,
		clock:  realClock{},
		tx:     noopTransactionManager{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	Actor          workflow.Actor
	FullName       string
	Email          *string
	PassportNumber string
	Nationality    string
	JobTitle       string
	Department     string
	Salary         string
	VisaType       string
}

// UpdateEmployeeProfileInput はプロフィール更新時の入力です。nil の項目は変更しません。
type UpdateEmployeeProfileInput struct {
	Actor           workflow.Actor
	ID              string
	FullName        *string
	Email           *string
	PassportNumber  *string
	Nationality     *string
	JobTitle        *string
	Department      *string
	Salary          *string
	VisaType        *string
	ExpectedVersion *int64
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	Actor workflow.Actor
	ID    string
}

// ListEmployeesInput は一覧取得時の入力です。
type ListEmployeesInput struct {
	Actor     workflow.Actor
	PageSize  int
	PageToken string
	Stage     *workflow.Stage
}

// ListEmployeesResult は一覧取得結果を表します。
type ListEmployeesResult struct {
	Employees     []*Employee
	NextPageToken string
}

// AdvanceStepInput はステップ完了要求の入力です。
type AdvanceStepInput struct {
	Actor           workflow.Actor
	EmployeeID      string
	Flag            workflow.Flag
	Payload         map[string]any
	ExpectedVersion *int64
}

// AdvanceStepResult はステップ完了の結果です。
type AdvanceStepResult struct {
	Employee   *Employee
	Transition *workflow.Transition
	Event      *StepEvent
}

// GetNextActionInput は次の操作取得時の入力です。
type GetNextActionInput struct {
	Actor      workflow.Actor
	EmployeeID string
}

// NextActionResult は次の操作の案内です。
type NextActionResult struct {
	Employee *Employee
	Action   workflow.NextAction
}

// ListStepHistoryInput は完了履歴取得時の入力です。
type ListStepHistoryInput struct {
	Actor      workflow.Actor
	EmployeeID string
}

// CreateEmployee は全フラグ未完了の社員レコードを作成します。HR のみ実行できます。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	if err := requireHR(in.Actor); err != nil {
		return nil, err
	}

	name, err := normalizeFullName(in.FullName)
	if err != nil {
		return nil, err
	}

	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	passport, err := normalizePassportNumber(in.PassportNumber)
	if err != nil {
		return nil, err
	}

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensurePassportNotExists(txCtx, passport, ""); err != nil {
			return err
		}

		now := s.clock.Now()
		emp := &Employee{
			FullName:       name,
			Email:          email,
			PassportNumber: passport,
			Nationality:    strings.TrimSpace(in.Nationality),
			JobTitle:       strings.TrimSpace(in.JobTitle),
			Department:     strings.TrimSpace(in.Department),
			Salary:         strings.TrimSpace(in.Salary),
			VisaType:       strings.TrimSpace(in.VisaType),
			Version:        1,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		result, err := s.repo.Create(txCtx, emp)
		if err != nil {
			return err
		}

		if err := s.dispatch(txCtx, result.ID, []workflow.NotificationIntent{{
			Audience: workflow.AudienceHR,
			Message:  fmt.Sprintf("Visa processing started for %s.", result.FullName),
			Severity: workflow.SeverityInfo,
		}}); err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// GetEmployee は社員レコードを取得します。社員ロールは本人のレコードのみ参照できます。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}
	if err := authorizeRecord(in.Actor, id); err != nil {
		return nil, err
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListEmployees は社員の一覧を取得します。HR のみ実行できます。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error) {
	if err := requireHR(in.Actor); err != nil {
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

	var stagePtr *workflow.Stage
	if in.Stage != nil {
		stage, err := workflow.ParseStage(string(*in.Stage))
		if err != nil {
			return nil, err
		}
		stagePtr = &stage
	}

	var (
		employees []*Employee
		nextToken string
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, token, err := s.repo.List(txCtx, ListEmployeesFilter{
			Stage:  stagePtr,
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return err
		}
		employees = result
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return &ListEmployeesResult{Employees: employees, NextPageToken: nextToken}, nil
}

// UpdateEmployeeProfile はプロフィール項目を更新します。フラグは変更しません。
func (s *Service) UpdateEmployeeProfile(ctx context.Context, in UpdateEmployeeProfileInput) (*Employee, error) {
	if err := requireHR(in.Actor); err != nil {
		return nil, err
	}

	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if in.ExpectedVersion != nil && *in.ExpectedVersion != existing.Version {
			return ErrVersionConflict
		}

		if in.FullName != nil {
			name, err := normalizeFullName(*in.FullName)
			if err != nil {
				return err
			}
			existing.FullName = name
		}

		if in.Email != nil {
			email, err := normalizeEmail(in.Email)
			if err != nil {
				return err
			}
			existing.Email = email
		}

		if in.PassportNumber != nil {
			passport, err := normalizePassportNumber(*in.PassportNumber)
			if err != nil {
				return err
			}
			if passport != existing.PassportNumber {
				if err := s.ensurePassportNotExists(txCtx, passport, existing.ID); err != nil {
					return err
				}
				existing.PassportNumber = passport
			}
		}

		applyTrimmed(&existing.Nationality, in.Nationality)
		applyTrimmed(&existing.JobTitle, in.JobTitle)
		applyTrimmed(&existing.Department, in.Department)
		applyTrimmed(&existing.Salary, in.Salary)
		applyTrimmed(&existing.VisaType, in.VisaType)

		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.UpdateProfile(txCtx, existing, existing.Version)
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

// AdvanceStep は 1 ステップを完了させます。
// 検証・フラグ保存・フォーム内容の記録・通知の保存は同一トランザクションで行い、
// いずれかが失敗した場合は何も反映しません。
func (s *Service) AdvanceStep(ctx context.Context, in AdvanceStepInput) (*AdvanceStepResult, error) {
	if err := validateActor(in.Actor); err != nil {
		return nil, err
	}

	id, err := normalizeID(in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := authorizeRecord(in.Actor, id); err != nil {
		return nil, err
	}

	var result *AdvanceStepResult
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if in.ExpectedVersion != nil && *in.ExpectedVersion != existing.Version {
			return ErrVersionConflict
		}

		transition, err := workflow.Advance(workflow.Subject{Name: existing.FullName, Flags: existing.Flags}, in.Flag, in.Actor.Role)
		if err != nil {
			return err
		}

		if err := s.ensureRequiredDocuments(txCtx, existing.ID, in.Flag); err != nil {
			return err
		}

		now := s.clock.Now()
		saved, err := s.repo.SaveFlags(txCtx, existing.ID, transition.Flags, existing.Version, now)
		if err != nil {
			return err
		}

		event, err := s.events.Append(txCtx, &StepEvent{
			EmployeeID:  existing.ID,
			Flag:        in.Flag,
			ActorID:     in.Actor.ID,
			ActorRole:   in.Actor.Role,
			Payload:     clonePayload(in.Payload),
			CompletedAt: now,
		})
		if err != nil {
			return err
		}

		if err := s.dispatch(txCtx, existing.ID, transition.Notifications); err != nil {
			return err
		}

		result = &AdvanceStepResult{Employee: saved, Transition: transition, Event: event}
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// GetNextAction は操作者にとっての次の操作を返します。
func (s *Service) GetNextAction(ctx context.Context, in GetNextActionInput) (*NextActionResult, error) {
	if err := validateActor(in.Actor); err != nil {
		return nil, err
	}

	emp, err := s.GetEmployee(ctx, GetEmployeeInput{Actor: in.Actor, ID: in.EmployeeID})
	if err != nil {
		return nil, err
	}

	return &NextActionResult{Employee: emp, Action: emp.NextAction(in.Actor.Role)}, nil
}

// ListStepHistory はステップ完了記録を完了順に返します。
func (s *Service) ListStepHistory(ctx context.Context, in ListStepHistoryInput) ([]*StepEvent, error) {
	id, err := normalizeID(in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := authorizeRecord(in.Actor, id); err != nil {
		return nil, err
	}

	var events []*StepEvent
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.FindByID(txCtx, id); err != nil {
			return err
		}
		found, err := s.events.ListByEmployee(txCtx, id)
		if err != nil {
			return err
		}
		events = found
		return nil
	}); err != nil {
		return nil, err
	}

	return events, nil
}

func (s *Service) ensureRequiredDocuments(ctx context.Context, employeeID string, flag workflow.Flag) error {
	if s.documents == nil {
		return nil
	}
	for _, docType := range requiredDocuments[flag] {
		ok, err := s.documents.HasDocument(ctx, employeeID, docType)
		if err != nil {
			return err
		}
		if !ok {
			return &MissingDocumentError{Flag: flag, DocumentType: docType}
		}
	}
	return nil
}

func (s *Service) dispatch(ctx context.Context, employeeID string, intents []workflow.NotificationIntent) error {
	if s.dispatcher == nil || len(intents) == 0 {
		return nil
	}
	if err := s.dispatcher.Dispatch(ctx, employeeID, intents); err != nil {
		return fmt.Errorf("%w: %w", ErrNotificationUndelivered, err)
	}
	return nil
}

func (s *Service) ensurePassportNotExists(ctx context.Context, passport, exceptID string) error {
	emp, err := s.repo.FindByPassportNumber(ctx, passport)
	if err != nil && !errors.Is(err, ErrEmployeeNotFound) {
		return err
	}
	if emp != nil && emp.ID != exceptID {
		return ErrPassportAlreadyExists
	}
	return nil
}

// MissingDocumentError は未提出の必須書類を表します。
type MissingDocumentError struct {
	Flag         workflow.Flag
	DocumentType string
}

func (e *MissingDocumentError) Error() string {
	return fmt.Sprintf("employee: %s requires a %s document", e.Flag, e.DocumentType)
}

func (e *MissingDocumentError) Is(target error) bool {
	return target == ErrDocumentRequired
}

// RequiredDocuments はステップ完了前に必要な書類種別を返します。
func RequiredDocuments(flag workflow.Flag) []string {
	return append([]string(nil), requiredDocuments[flag]...)
}

func validateActor(actor workflow.Actor) error {
	if strings.TrimSpace(actor.ID) == "" || !actor.Role.Valid() {
		return ErrInvalidActor
	}
	return nil
}

func requireHR(actor workflow.Actor) error {
	if err := validateActor(actor); err != nil {
		return err
	}
	if actor.Role != workflow.RoleHR {
		return ErrForbidden
	}
	return nil
}

func authorizeRecord(actor workflow.Actor, employeeID string) error {
	if err := validateActor(actor); err != nil {
		return err
	}
	if actor.Role == workflow.RoleEmployee && actor.EmployeeID != employeeID {
		return ErrForbidden
	}
	return nil
}

func normalizeID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("id %q: %w", raw, ErrInvalidID)
	}
	return parsed.String(), nil
}

func normalizeFullName(raw string) (string, error) {
	trimmed := strings.Join(strings.Fields(raw), " ")
	if trimmed == "" || len(trimmed) > 200 {
		return "", ErrInvalidFullName
	}
	return trimmed, nil
}

func normalizeEmail(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil, nil
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return nil, ErrInvalidEmail
	}
	lower := strings.ToLower(addr.Address)
	return &lower, nil
}

func normalizePassportNumber(raw string) (string, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	if !passportNumberPattern.MatchString(normalized) {
		return "", ErrInvalidPassportNumber
	}
	return normalized, nil
}

func applyTrimmed(dst *string, value *string) {
	if value == nil {
		return
	}
	*dst = strings.TrimSpace(*value)
}

func clonePayload(payload map[string]any) map[string]any {
	if len(payload) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = v
	}
	return out
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
