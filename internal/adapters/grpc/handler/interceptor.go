package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
	"github.com/ogurasousui/codex-visa-workflow/internal/platform/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// TokenVerifier はベアラートークンを操作者に変換します。
type TokenVerifier interface {
	Verify(raw string) (workflow.Actor, error)
}

// AuthUnaryInterceptor は authorization メタデータのトークンを検証し、操作者をコンテキストに格納します。
// skipPrefixes に前方一致するメソッドは検証しません。
func AuthUnaryInterceptor(verifier TokenVerifier, skipPrefixes ...string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		for _, prefix := range skipPrefixes {
			if strings.HasPrefix(info.FullMethod, prefix) {
				return next(ctx, req)
			}
		}

		var header string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get("authorization"); len(values) > 0 {
				header = values[0]
			}
		}

		raw, err := auth.BearerToken(header)
		if err != nil {
			return nil, toStatusError(err)
		}
		actor, err := verifier.Verify(raw)
		if err != nil {
			return nil, toStatusError(err)
		}

		return next(auth.WithActor(ctx, actor), req)
	}
}

// LoggingUnaryInterceptor はメソッドごとの結果と所要時間を記録します。
func LoggingUnaryInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := next(ctx, req)

		code := status.Code(err)
		attrs := []any{
			slog.String("method", info.FullMethod),
			slog.String("code", code.String()),
			slog.Duration("duration", time.Since(start)),
		}
		if actor, actorErr := auth.ActorFromContext(ctx); actorErr == nil {
			attrs = append(attrs, slog.String("actor_role", string(actor.Role)))
		}

		switch code {
		case codes.OK:
			logger.InfoContext(ctx, "grpc request", attrs...)
		case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable:
			logger.ErrorContext(ctx, "grpc request failed", append(attrs, slog.String("error", err.Error()))...)
		default:
			logger.WarnContext(ctx, "grpc request rejected", append(attrs, slog.String("error", err.Error()))...)
		}
		return resp, err
	}
}

// RecoveryUnaryInterceptor はハンドラー内の panic を Internal に変換します。
func RecoveryUnaryInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorContext(ctx, "grpc handler panic", slog.String("method", info.FullMethod), slog.String("panic", fmt.Sprint(r)))
				resp = nil
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return next(ctx, req)
	}
}
