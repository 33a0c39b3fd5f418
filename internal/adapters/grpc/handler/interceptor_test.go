package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
	"github.com/ogurasousui/codex-visa-workflow/internal/platform/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type stubVerifier struct {
	token string
	actor workflow.Actor
}

func (v *stubVerifier) Verify(raw string) (workflow.Actor, error) {
	if raw != v.token {
		return workflow.Actor{}, auth.ErrInvalidToken
	}
	return v.actor, nil
}

func TestAuthUnaryInterceptor(t *testing.T) {
	t.Parallel()

	verifier := &stubVerifier{token: "good", actor: hrActor}
	interceptor := AuthUnaryInterceptor(verifier, "/grpc.health.v1.Health/")
	info := &grpc.UnaryServerInfo{FullMethod: "/visa.v1.VisaWorkflowService/GetEmployee"}

	var seen workflow.Actor
	next := func(ctx context.Context, req any) (any, error) {
		actor, err := auth.ActorFromContext(ctx)
		if err != nil {
			return nil, err
		}
		seen = actor
		return "ok", nil
	}

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer good"))
	resp, err := interceptor(ctx, nil, info, next)
	if err != nil || resp != "ok" {
		t.Fatalf("expected success, got %v %v", resp, err)
	}
	if seen != hrActor {
		t.Fatalf("expected actor in context, got %+v", seen)
	}

	_, err = interceptor(context.Background(), nil, info, next)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated without metadata, got %v", err)
	}

	bad := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer bad"))
	_, err = interceptor(bad, nil, info, next)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated for bad token, got %v", err)
	}

	health := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	resp, err = interceptor(context.Background(), nil, health, func(ctx context.Context, req any) (any, error) {
		return "serving", nil
	})
	if err != nil || resp != "serving" {
		t.Fatalf("expected health check to skip auth, got %v %v", resp, err)
	}
}

func TestLoggingUnaryInterceptor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	interceptor := LoggingUnaryInterceptor(logger)
	info := &grpc.UnaryServerInfo{FullMethod: "/visa.v1.VisaWorkflowService/AdvanceStep"}

	_, err := interceptor(actorContext(employeeActor), nil, info, func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.FailedPrecondition, "workflow: hr_reviewed requires documents_uploaded first")
	})
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected error to pass through, got %v", err)
	}

	out := buf.String()
	for _, want := range []string{"level=WARN", "method=/visa.v1.VisaWorkflowService/AdvanceStep", "code=FailedPrecondition", "actor_role=employee"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log to contain %q, got %s", want, out)
		}
	}
}

func TestRecoveryUnaryInterceptor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	interceptor := RecoveryUnaryInterceptor(slog.New(slog.NewTextHandler(&buf, nil)))
	info := &grpc.UnaryServerInfo{FullMethod: "/visa.v1.VisaWorkflowService/ListSteps"}

	resp, err := interceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		panic(errors.New("boom"))
	})
	if resp != nil || status.Code(err) != codes.Internal {
		t.Fatalf("expected Internal after panic, got %v %v", resp, err)
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Fatalf("expected panic to be logged, got %s", buf.String())
	}
}
