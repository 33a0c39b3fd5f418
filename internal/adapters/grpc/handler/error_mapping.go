package handler

import (
	"errors"

	"github.com/ogurasousui/codex-visa-workflow/internal/core/document"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/employee"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/notification"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
	"github.com/ogurasousui/codex-visa-workflow/internal/platform/auth"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"
)

// errorDomain は ErrorInfo に設定するドメインです。
const errorDomain = "visa.v1"

// ErrorInfo の reason 値。
const (
	ReasonAlreadyCompleted   = "ALREADY_COMPLETED"
	ReasonWrongActor         = "WRONG_ACTOR"
	ReasonPrerequisiteNotMet = "PREREQUISITE_NOT_MET"
	ReasonDocumentRequired   = "DOCUMENT_REQUIRED"
	ReasonVersionConflict    = "VERSION_CONFLICT"
)

// PreconditionFailure の violation type 値。
const (
	ViolationWorkflowStep = "WORKFLOW_STEP"
	ViolationDocument     = "DOCUMENT"
)

func toStatusError(err error) error {
	var (
		completedErr *workflow.AlreadyCompletedError
		wrongErr     *workflow.WrongActorError
		prereqErr    *workflow.PrerequisiteError
		missingErr   *employee.MissingDocumentError
	)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, employee.ErrNotificationUndelivered):
		return status.Error(codes.Internal, err.Error())
	case errors.As(err, &completedErr):
		return withDetails(codes.AlreadyExists, err, &errdetails.ErrorInfo{
			Reason:   ReasonAlreadyCompleted,
			Domain:   errorDomain,
			Metadata: map[string]string{"flag": completedErr.Flag.String()},
		})
	case errors.As(err, &wrongErr):
		return withDetails(codes.PermissionDenied, err, &errdetails.ErrorInfo{
			Reason: ReasonWrongActor,
			Domain: errorDomain,
			Metadata: map[string]string{
				"flag":     wrongErr.Flag.String(),
				"expected": string(wrongErr.Expected),
				"actual":   string(wrongErr.Actual),
			},
		})
	case errors.As(err, &prereqErr):
		return withDetails(codes.FailedPrecondition, err,
			&errdetails.ErrorInfo{
				Reason:   ReasonPrerequisiteNotMet,
				Domain:   errorDomain,
				Metadata: map[string]string{"flag": prereqErr.Flag.String(), "missing": prereqErr.Missing.String()},
			},
			&errdetails.PreconditionFailure{Violations: []*errdetails.PreconditionFailure_Violation{{
				Type:        ViolationWorkflowStep,
				Subject:     prereqErr.Missing.String(),
				Description: err.Error(),
			}}},
		)
	case errors.As(err, &missingErr):
		return withDetails(codes.FailedPrecondition, err,
			&errdetails.ErrorInfo{
				Reason:   ReasonDocumentRequired,
				Domain:   errorDomain,
				Metadata: map[string]string{"flag": missingErr.Flag.String(), "document_type": missingErr.DocumentType},
			},
			&errdetails.PreconditionFailure{Violations: []*errdetails.PreconditionFailure_Violation{{
				Type:        ViolationDocument,
				Subject:     missingErr.DocumentType,
				Description: err.Error(),
			}}},
		)
	case errors.Is(err, employee.ErrVersionConflict):
		return withDetails(codes.Aborted, err, &errdetails.ErrorInfo{Reason: ReasonVersionConflict, Domain: errorDomain})
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrNoActor),
		errors.Is(err, employee.ErrInvalidActor):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, employee.ErrForbidden),
		errors.Is(err, notification.ErrForbidden),
		errors.Is(err, document.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, workflow.ErrUnknownFlag),
		errors.Is(err, workflow.ErrUnknownRole),
		errors.Is(err, workflow.ErrUnknownStage),
		errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidFullName),
		errors.Is(err, employee.ErrInvalidEmail),
		errors.Is(err, employee.ErrInvalidPassportNumber),
		errors.Is(err, employee.ErrInvalidPageSize),
		errors.Is(err, employee.ErrInvalidPageToken),
		errors.Is(err, notification.ErrInvalidID),
		errors.Is(err, notification.ErrInvalidEmployeeID),
		errors.Is(err, notification.ErrInvalidMessage),
		errors.Is(err, notification.ErrInvalidSeverity),
		errors.Is(err, notification.ErrInvalidRecipient),
		errors.Is(err, notification.ErrInvalidPageSize),
		errors.Is(err, notification.ErrInvalidPageToken),
		errors.Is(err, document.ErrInvalidID),
		errors.Is(err, document.ErrInvalidEmployeeID),
		errors.Is(err, document.ErrInvalidType),
		errors.Is(err, document.ErrInvalidStatus),
		errors.Is(err, document.ErrInvalidFileName),
		errors.Is(err, document.ErrEmptyContent),
		errors.Is(err, document.ErrCommentRequired):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, document.ErrContentTooLarge):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, document.ErrAlreadyReviewed):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, employee.ErrPassportAlreadyExists),
		errors.Is(err, employee.ErrStepAlreadyRecorded):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, notification.ErrNotificationNotFound),
		errors.Is(err, notification.ErrEmployeeNotFound),
		errors.Is(err, document.ErrDocumentNotFound),
		errors.Is(err, document.ErrEmployeeNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func withDetails(code codes.Code, err error, details ...protoadapt.MessageV1) error {
	st := status.New(code, err.Error())
	detailed, detailErr := st.WithDetails(details...)
	if detailErr != nil {
		return st.Err()
	}
	return detailed.Err()
}
