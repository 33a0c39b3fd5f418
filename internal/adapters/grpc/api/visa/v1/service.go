package visav1

import (
	"context"

	"github.com/ogurasousui/codex-visa-workflow/internal/adapters/grpc/codec"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName はサービスの完全修飾名です。
const ServiceName = "visa.v1.VisaWorkflowService"

// 各メソッドの完全修飾名。
const (
	FullMethodCreateEmployee        = "/" + ServiceName + "/CreateEmployee"
	FullMethodGetEmployee           = "/" + ServiceName + "/GetEmployee"
	FullMethodListEmployees         = "/" + ServiceName + "/ListEmployees"
	FullMethodUpdateEmployeeProfile = "/" + ServiceName + "/UpdateEmployeeProfile"
	FullMethodAdvanceStep           = "/" + ServiceName + "/AdvanceStep"
	FullMethodGetNextAction         = "/" + ServiceName + "/GetNextAction"
	FullMethodListStepHistory       = "/" + ServiceName + "/ListStepHistory"
	FullMethodListSteps             = "/" + ServiceName + "/ListSteps"
	FullMethodListNotifications     = "/" + ServiceName + "/ListNotifications"
	FullMethodMarkNotificationRead  = "/" + ServiceName + "/MarkNotificationRead"
	FullMethodDeleteNotification    = "/" + ServiceName + "/DeleteNotification"
	FullMethodListDocuments         = "/" + ServiceName + "/ListDocuments"
	FullMethodReviewDocument        = "/" + ServiceName + "/ReviewDocument"
)

// VisaWorkflowServiceServer はサーバー側の実装が満たすインターフェースです。
type VisaWorkflowServiceServer interface {
	CreateEmployee(context.Context, *CreateEmployeeRequest) (*CreateEmployeeResponse, error)
	GetEmployee(context.Context, *GetEmployeeRequest) (*GetEmployeeResponse, error)
	ListEmployees(context.Context, *ListEmployeesRequest) (*ListEmployeesResponse, error)
	UpdateEmployeeProfile(context.Context, *UpdateEmployeeProfileRequest) (*UpdateEmployeeProfileResponse, error)
	AdvanceStep(context.Context, *AdvanceStepRequest) (*AdvanceStepResponse, error)
	GetNextAction(context.Context, *GetNextActionRequest) (*GetNextActionResponse, error)
	ListStepHistory(context.Context, *ListStepHistoryRequest) (*ListStepHistoryResponse, error)
	ListSteps(context.Context, *ListStepsRequest) (*ListStepsResponse, error)
	ListNotifications(context.Context, *ListNotificationsRequest) (*ListNotificationsResponse, error)
	MarkNotificationRead(context.Context, *MarkNotificationReadRequest) (*MarkNotificationReadResponse, error)
	DeleteNotification(context.Context, *DeleteNotificationRequest) (*DeleteNotificationResponse, error)
	ListDocuments(context.Context, *ListDocumentsRequest) (*ListDocumentsResponse, error)
	ReviewDocument(context.Context, *ReviewDocumentRequest) (*ReviewDocumentResponse, error)
}

// UnimplementedVisaWorkflowServiceServer は全メソッドで Unimplemented を返します。
type UnimplementedVisaWorkflowServiceServer struct{}

func (UnimplementedVisaWorkflowServiceServer) CreateEmployee(context.Context, *CreateEmployeeRequest) (*CreateEmployeeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateEmployee not implemented")
}
func (UnimplementedVisaWorkflowServiceServer) GetEmployee(context.Context, *GetEmployeeRequest) (*GetEmployeeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetEmployee not implemented")
}
func (UnimplementedVisaWorkflowServiceServer) ListEmployees(context.Context, *ListEmployeesRequest) (*ListEmployeesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListEmployees not implemented")
}
func (UnimplementedVisaWorkflowServiceServer) UpdateEmployeeProfile(context.Context, *UpdateEmployeeProfileRequest) (*UpdateEmployeeProfileResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateEmployeeProfile not implemented")
}
func (UnimplementedVisaWorkflowServiceServer) AdvanceStep(context.Context, *AdvanceStepRequest) (*AdvanceStepResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AdvanceStep not implemented")
}
func (UnimplementedVisaWorkflowServiceServer) GetNextAction(context.Context, *GetNextActionRequest) (*GetNextActionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetNextAction not implemented")
}
func (UnimplementedVisaWorkflowServiceServer) ListStepHistory(context.Context, *ListStepHistoryRequest) (*ListStepHistoryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListStepHistory not implemented")
}
func (UnimplementedVisaWorkflowServiceServer) ListSteps(context.Context, *ListStepsRequest) (*ListStepsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListSteps not implemented")
}
func (UnimplementedVisaWorkflowServiceServer) ListNotifications(context.Context, *ListNotificationsRequest) (*ListNotificationsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListNotifications not implemented")
}
func (UnimplementedVisaWorkflowServiceServer) MarkNotificationRead(context.Context, *MarkNotificationReadRequest) (*MarkNotificationReadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method MarkNotificationRead not implemented")
}
func (UnimplementedVisaWorkflowServiceServer) DeleteNotification(context.Context, *DeleteNotificationRequest) (*DeleteNotificationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteNotification not implemented")
}
func (UnimplementedVisaWorkflowServiceServer) ListDocuments(context.Context, *ListDocumentsRequest) (*ListDocumentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListDocuments not implemented")
}
func (UnimplementedVisaWorkflowServiceServer) ReviewDocument(context.Context, *ReviewDocumentRequest) (*ReviewDocumentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ReviewDocument not implemented")
}

// RegisterVisaWorkflowServiceServer はサービスをサーバーに登録します。
func RegisterVisaWorkflowServiceServer(s grpc.ServiceRegistrar, srv VisaWorkflowServiceServer) {
	s.RegisterService(&VisaWorkflowService_ServiceDesc, srv)
}

func unaryHandler[Req, Resp any](fullMethod string, call func(VisaWorkflowServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(VisaWorkflowServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(VisaWorkflowServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// VisaWorkflowService_ServiceDesc は visa.v1.VisaWorkflowService の grpc.ServiceDesc です。
var VisaWorkflowService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VisaWorkflowServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateEmployee", Handler: unaryHandler(FullMethodCreateEmployee, VisaWorkflowServiceServer.CreateEmployee)},
		{MethodName: "GetEmployee", Handler: unaryHandler(FullMethodGetEmployee, VisaWorkflowServiceServer.GetEmployee)},
		{MethodName: "ListEmployees", Handler: unaryHandler(FullMethodListEmployees, VisaWorkflowServiceServer.ListEmployees)},
		{MethodName: "UpdateEmployeeProfile", Handler: unaryHandler(FullMethodUpdateEmployeeProfile, VisaWorkflowServiceServer.UpdateEmployeeProfile)},
		{MethodName: "AdvanceStep", Handler: unaryHandler(FullMethodAdvanceStep, VisaWorkflowServiceServer.AdvanceStep)},
		{MethodName: "GetNextAction", Handler: unaryHandler(FullMethodGetNextAction, VisaWorkflowServiceServer.GetNextAction)},
		{MethodName: "ListStepHistory", Handler: unaryHandler(FullMethodListStepHistory, VisaWorkflowServiceServer.ListStepHistory)},
		{MethodName: "ListSteps", Handler: unaryHandler(FullMethodListSteps, VisaWorkflowServiceServer.ListSteps)},
		{MethodName: "ListNotifications", Handler: unaryHandler(FullMethodListNotifications, VisaWorkflowServiceServer.ListNotifications)},
		{MethodName: "MarkNotificationRead", Handler: unaryHandler(FullMethodMarkNotificationRead, VisaWorkflowServiceServer.MarkNotificationRead)},
		{MethodName: "DeleteNotification", Handler: unaryHandler(FullMethodDeleteNotification, VisaWorkflowServiceServer.DeleteNotification)},
		{MethodName: "ListDocuments", Handler: unaryHandler(FullMethodListDocuments, VisaWorkflowServiceServer.ListDocuments)},
		{MethodName: "ReviewDocument", Handler: unaryHandler(FullMethodReviewDocument, VisaWorkflowServiceServer.ReviewDocument)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "visa/v1/visa_workflow.proto",
}

// VisaWorkflowServiceClient はクライアント側のインターフェースです。
type VisaWorkflowServiceClient interface {
	CreateEmployee(ctx context.Context, in *CreateEmployeeRequest, opts ...grpc.CallOption) (*CreateEmployeeResponse, error)
	GetEmployee(ctx context.Context, in *GetEmployeeRequest, opts ...grpc.CallOption) (*GetEmployeeResponse, error)
	ListEmployees(ctx context.Context, in *ListEmployeesRequest, opts ...grpc.CallOption) (*ListEmployeesResponse, error)
	UpdateEmployeeProfile(ctx context.Context, in *UpdateEmployeeProfileRequest, opts ...grpc.CallOption) (*UpdateEmployeeProfileResponse, error)
	AdvanceStep(ctx context.Context, in *AdvanceStepRequest, opts ...grpc.CallOption) (*AdvanceStepResponse, error)
	GetNextAction(ctx context.Context, in *GetNextActionRequest, opts ...grpc.CallOption) (*GetNextActionResponse, error)
	ListStepHistory(ctx context.Context, in *ListStepHistoryRequest, opts ...grpc.CallOption) (*ListStepHistoryResponse, error)
	ListSteps(ctx context.Context, in *ListStepsRequest, opts ...grpc.CallOption) (*ListStepsResponse, error)
	ListNotifications(ctx context.Context, in *ListNotificationsRequest, opts ...grpc.CallOption) (*ListNotificationsResponse, error)
	MarkNotificationRead(ctx context.Context, in *MarkNotificationReadRequest, opts ...grpc.CallOption) (*MarkNotificationReadResponse, error)
	DeleteNotification(ctx context.Context, in *DeleteNotificationRequest, opts ...grpc.CallOption) (*DeleteNotificationResponse, error)
	ListDocuments(ctx context.Context, in *ListDocumentsRequest, opts ...grpc.CallOption) (*ListDocumentsResponse, error)
	ReviewDocument(ctx context.Context, in *ReviewDocumentRequest, opts ...grpc.CallOption) (*ReviewDocumentResponse, error)
}

type visaWorkflowServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewVisaWorkflowServiceClient はクライアントを生成します。呼び出しは JSON コーデックを使用します。
func NewVisaWorkflowServiceClient(cc grpc.ClientConnInterface) VisaWorkflowServiceClient {
	return &visaWorkflowServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(codec.Name)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *visaWorkflowServiceClient) CreateEmployee(ctx context.Context, in *CreateEmployeeRequest, opts ...grpc.CallOption) (*CreateEmployeeResponse, error) {
	return invoke[CreateEmployeeResponse](ctx, c.cc, FullMethodCreateEmployee, in, opts)
}

func (c *visaWorkflowServiceClient) GetEmployee(ctx context.Context, in *GetEmployeeRequest, opts ...grpc.CallOption) (*GetEmployeeResponse, error) {
	return invoke[GetEmployeeResponse](ctx, c.cc, FullMethodGetEmployee, in, opts)
}

func (c *visaWorkflowServiceClient) ListEmployees(ctx context.Context, in *ListEmployeesRequest, opts ...grpc.CallOption) (*ListEmployeesResponse, error) {
	return invoke[ListEmployeesResponse](ctx, c.cc, FullMethodListEmployees, in, opts)
}

func (c *visaWorkflowServiceClient) UpdateEmployeeProfile(ctx context.Context, in *UpdateEmployeeProfileRequest, opts ...grpc.CallOption) (*UpdateEmployeeProfileResponse, error) {
	return invoke[UpdateEmployeeProfileResponse](ctx, c.cc, FullMethodUpdateEmployeeProfile, in, opts)
}

func (c *visaWorkflowServiceClient) AdvanceStep(ctx context.Context, in *AdvanceStepRequest, opts ...grpc.CallOption) (*AdvanceStepResponse, error) {
	return invoke[AdvanceStepResponse](ctx, c.cc, FullMethodAdvanceStep, in, opts)
}

func (c *visaWorkflowServiceClient) GetNextAction(ctx context.Context, in *GetNextActionRequest, opts ...grpc.CallOption) (*GetNextActionResponse, error) {
	return invoke[GetNextActionResponse](ctx, c.cc, FullMethodGetNextAction, in, opts)
}

func (c *visaWorkflowServiceClient) ListStepHistory(ctx context.Context, in *ListStepHistoryRequest, opts ...grpc.CallOption) (*ListStepHistoryResponse, error) {
	return invoke[ListStepHistoryResponse](ctx, c.cc, FullMethodListStepHistory, in, opts)
}

func (c *visaWorkflowServiceClient) ListSteps(ctx context.Context, in *ListStepsRequest, opts ...grpc.CallOption) (*ListStepsResponse, error) {
	return invoke[ListStepsResponse](ctx, c.cc, FullMethodListSteps, in, opts)
}

func (c *visaWorkflowServiceClient) ListNotifications(ctx context.Context, in *ListNotificationsRequest, opts ...grpc.CallOption) (*ListNotificationsResponse, error) {
	return invoke[ListNotificationsResponse](ctx, c.cc, FullMethodListNotifications, in, opts)
}

func (c *visaWorkflowServiceClient) MarkNotificationRead(ctx context.Context, in *MarkNotificationReadRequest, opts ...grpc.CallOption) (*MarkNotificationReadResponse, error) {
	return invoke[MarkNotificationReadResponse](ctx, c.cc, FullMethodMarkNotificationRead, in, opts)
}

func (c *visaWorkflowServiceClient) DeleteNotification(ctx context.Context, in *DeleteNotificationRequest, opts ...grpc.CallOption) (*DeleteNotificationResponse, error) {
	return invoke[DeleteNotificationResponse](ctx, c.cc, FullMethodDeleteNotification, in, opts)
}

func (c *visaWorkflowServiceClient) ListDocuments(ctx context.Context, in *ListDocumentsRequest, opts ...grpc.CallOption) (*ListDocumentsResponse, error) {
	return invoke[ListDocumentsResponse](ctx, c.cc, FullMethodListDocuments, in, opts)
}

func (c *visaWorkflowServiceClient) ReviewDocument(ctx context.Context, in *ReviewDocumentRequest, opts ...grpc.CallOption) (*ReviewDocumentResponse, error) {
	return invoke[ReviewDocumentResponse](ctx, c.cc, FullMethodReviewDocument, in, opts)
}
