package handler

import (
	"context"
	"strings"

	visav1 "github.com/ogurasousui/codex-visa-workflow/internal/adapters/grpc/api/visa/v1"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/document"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/employee"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/notification"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
	"github.com/ogurasousui/codex-visa-workflow/internal/platform/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// VisaWorkflowHandler は VisaWorkflowService の gRPC 実装です。
// 操作者は認証インターセプターがコンテキストに格納したものを使用します。
type VisaWorkflowHandler struct {
	employees     employee.UseCase
	notifications notification.UseCase
	documents     document.UseCase
	visav1.UnimplementedVisaWorkflowServiceServer
}

// NewVisaWorkflowHandler は VisaWorkflowHandler を生成します。
func NewVisaWorkflowHandler(employees employee.UseCase, notifications notification.UseCase, documents document.UseCase) *VisaWorkflowHandler {
	return &VisaWorkflowHandler{employees: employees, notifications: notifications, documents: documents}
}

// CreateEmployee は社員レコードを作成します。
func (h *VisaWorkflowHandler) CreateEmployee(ctx context.Context, req *visav1.CreateEmployeeRequest) (*visav1.CreateEmployeeResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	created, err := h.employees.CreateEmployee(ctx, employee.CreateEmployeeInput{
		Actor:          actor,
		FullName:       req.FullName,
		Email:          req.Email,
		PassportNumber: req.PassportNumber,
		Nationality:    req.Nationality,
		JobTitle:       req.JobTitle,
		Department:     req.Department,
		Salary:         req.Salary,
		VisaType:       req.VisaType,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &visav1.CreateEmployeeResponse{Employee: visav1.FromEmployee(created)}, nil
}

// GetEmployee は社員レコードを取得します。
func (h *VisaWorkflowHandler) GetEmployee(ctx context.Context, req *visav1.GetEmployeeRequest) (*visav1.GetEmployeeResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	found, err := h.employees.GetEmployee(ctx, employee.GetEmployeeInput{Actor: actor, ID: req.ID})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &visav1.GetEmployeeResponse{Employee: visav1.FromEmployee(found)}, nil
}

// ListEmployees は社員一覧を返します。stage を指定すると段階で絞り込みます。
func (h *VisaWorkflowHandler) ListEmployees(ctx context.Context, req *visav1.ListEmployeesRequest) (*visav1.ListEmployeesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	var stage *workflow.Stage
	if raw := strings.TrimSpace(req.Stage); raw != "" {
		parsed, err := workflow.ParseStage(raw)
		if err != nil {
			return nil, toStatusError(err)
		}
		stage = &parsed
	}

	result, err := h.employees.ListEmployees(ctx, employee.ListEmployeesInput{
		Actor:     actor,
		PageSize:  int(req.PageSize),
		PageToken: req.PageToken,
		Stage:     stage,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	resp := &visav1.ListEmployeesResponse{
		Employees:     make([]*visav1.Employee, 0, len(result.Employees)),
		NextPageToken: result.NextPageToken,
	}
	for _, e := range result.Employees {
		resp.Employees = append(resp.Employees, visav1.FromEmployee(e))
	}
	return resp, nil
}

// UpdateEmployeeProfile はプロフィール項目を更新します。フラグは変更しません。
func (h *VisaWorkflowHandler) UpdateEmployeeProfile(ctx context.Context, req *visav1.UpdateEmployeeProfileRequest) (*visav1.UpdateEmployeeProfileResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	updated, err := h.employees.UpdateEmployeeProfile(ctx, employee.UpdateEmployeeProfileInput{
		Actor:           actor,
		ID:              req.ID,
		FullName:        req.FullName,
		Email:           req.Email,
		PassportNumber:  req.PassportNumber,
		Nationality:     req.Nationality,
		JobTitle:        req.JobTitle,
		Department:      req.Department,
		Salary:          req.Salary,
		VisaType:        req.VisaType,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &visav1.UpdateEmployeeProfileResponse{Employee: visav1.FromEmployee(updated)}, nil
}

// AdvanceStep は 1 ステップを完了させ、遷移結果と次の操作を返します。
func (h *VisaWorkflowHandler) AdvanceStep(ctx context.Context, req *visav1.AdvanceStepRequest) (*visav1.AdvanceStepResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	flag, err := workflow.ParseFlag(strings.TrimSpace(req.Flag))
	if err != nil {
		return nil, toStatusError(err)
	}

	result, err := h.employees.AdvanceStep(ctx, employee.AdvanceStepInput{
		Actor:           actor,
		EmployeeID:      req.EmployeeID,
		Flag:            flag,
		Payload:         req.Payload,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &visav1.AdvanceStepResponse{
		Employee:      visav1.FromEmployee(result.Employee),
		PreviousStage: string(result.Transition.PreviousStage),
		StageChanged:  result.Transition.StageChanged(),
		Notifications: visav1.FromIntents(result.Transition.Notifications),
		Event:         visav1.FromStepEvent(result.Event),
		NextAction:    visav1.FromNextAction(result.Employee.NextAction(actor.Role)),
	}, nil
}

// GetNextAction は操作者にとっての次の操作を返します。
func (h *VisaWorkflowHandler) GetNextAction(ctx context.Context, req *visav1.GetNextActionRequest) (*visav1.GetNextActionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	result, err := h.employees.GetNextAction(ctx, employee.GetNextActionInput{Actor: actor, EmployeeID: req.EmployeeID})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &visav1.GetNextActionResponse{
		EmployeeID: result.Employee.ID,
		Stage:      string(result.Employee.Stage()),
		NextAction: visav1.FromNextAction(result.Action),
	}, nil
}

// ListStepHistory はステップ完了記録を返します。
func (h *VisaWorkflowHandler) ListStepHistory(ctx context.Context, req *visav1.ListStepHistoryRequest) (*visav1.ListStepHistoryResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	events, err := h.employees.ListStepHistory(ctx, employee.ListStepHistoryInput{Actor: actor, EmployeeID: req.EmployeeID})
	if err != nil {
		return nil, toStatusError(err)
	}

	resp := &visav1.ListStepHistoryResponse{Events: make([]*visav1.StepEvent, 0, len(events))}
	for _, e := range events {
		resp.Events = append(resp.Events, visav1.FromStepEvent(e))
	}
	return resp, nil
}

// ListSteps はステップ表を返します。
func (h *VisaWorkflowHandler) ListSteps(ctx context.Context, _ *visav1.ListStepsRequest) (*visav1.ListStepsResponse, error) {
	if _, err := auth.ActorFromContext(ctx); err != nil {
		return nil, toStatusError(err)
	}

	steps := workflow.Steps()
	resp := &visav1.ListStepsResponse{Steps: make([]*visav1.Step, 0, len(steps))}
	for _, s := range steps {
		resp.Steps = append(resp.Steps, visav1.FromStep(s))
	}
	return resp, nil
}

// ListNotifications は操作者の受信箱を返します。
func (h *VisaWorkflowHandler) ListNotifications(ctx context.Context, req *visav1.ListNotificationsRequest) (*visav1.ListNotificationsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	result, err := h.notifications.ListNotifications(ctx, notification.ListNotificationsInput{
		Actor:      actor,
		UnreadOnly: req.UnreadOnly,
		PageSize:   int(req.PageSize),
		PageToken:  req.PageToken,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	resp := &visav1.ListNotificationsResponse{
		Notifications: make([]*visav1.Notification, 0, len(result.Notifications)),
		NextPageToken: result.NextPageToken,
	}
	for _, n := range result.Notifications {
		resp.Notifications = append(resp.Notifications, visav1.FromNotification(n))
	}
	return resp, nil
}

// MarkNotificationRead は通知を既読にします。
func (h *VisaWorkflowHandler) MarkNotificationRead(ctx context.Context, req *visav1.MarkNotificationReadRequest) (*visav1.MarkNotificationReadResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	updated, err := h.notifications.MarkRead(ctx, notification.MarkReadInput{Actor: actor, ID: req.ID})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &visav1.MarkNotificationReadResponse{Notification: visav1.FromNotification(updated)}, nil
}

// DeleteNotification は通知を削除します。
func (h *VisaWorkflowHandler) DeleteNotification(ctx context.Context, req *visav1.DeleteNotificationRequest) (*visav1.DeleteNotificationResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	if err := h.notifications.DeleteNotification(ctx, notification.DeleteNotificationInput{Actor: actor, ID: req.ID}); err != nil {
		return nil, toStatusError(err)
	}

	return &visav1.DeleteNotificationResponse{}, nil
}

// ListDocuments は社員の書類メタデータを返します。
func (h *VisaWorkflowHandler) ListDocuments(ctx context.Context, req *visav1.ListDocumentsRequest) (*visav1.ListDocumentsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	docs, err := h.documents.ListDocuments(ctx, document.ListDocumentsInput{Actor: actor, EmployeeID: req.EmployeeID})
	if err != nil {
		return nil, toStatusError(err)
	}

	resp := &visav1.ListDocumentsResponse{Documents: make([]*visav1.Document, 0, len(docs))}
	for _, d := range docs {
		resp.Documents = append(resp.Documents, visav1.FromDocument(d))
	}
	return resp, nil
}

// ReviewDocument は書類を承認または却下します。
func (h *VisaWorkflowHandler) ReviewDocument(ctx context.Context, req *visav1.ReviewDocumentRequest) (*visav1.ReviewDocumentResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	reviewed, err := h.documents.ReviewDocument(ctx, document.ReviewDocumentInput{
		Actor:   actor,
		ID:      req.ID,
		Status:  document.Status(strings.ToLower(strings.TrimSpace(req.Status))),
		Comment: req.Comment,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &visav1.ReviewDocumentResponse{Document: visav1.FromDocument(reviewed)}, nil
}
