package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	visav1 "github.com/ogurasousui/codex-visa-workflow/internal/adapters/grpc/api/visa/v1"
	"github.com/ogurasousui/codex-visa-workflow/internal/adapters/grpc/handler"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const healthMethodPrefix = "/grpc.health.v1.Health/"

// Options は Server の構成です。HTTPAddr が空の場合 HTTP サーバーは起動しません。
type Options struct {
	GRPCAddr        string
	HTTPAddr        string
	Service         visav1.VisaWorkflowServiceServer
	HTTPHandler     http.Handler
	Verifier        handler.TokenVerifier
	Logger          *slog.Logger
	ShutdownTimeout time.Duration
	GRPCOptions     []grpc.ServerOption
}

// Server は gRPC サーバーと書類用 HTTP サーバーのライフサイクルを管理します。
type Server struct {
	grpcAddr        string
	grpcServer      *grpc.Server
	health          *health.Server
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// New はインターセプターとヘルスチェックを登録した Server を構築します。
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	serverOpts := append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			handler.RecoveryUnaryInterceptor(logger),
			handler.LoggingUnaryInterceptor(logger),
			handler.AuthUnaryInterceptor(opts.Verifier, healthMethodPrefix),
		),
	}, opts.GRPCOptions...)

	srv := grpc.NewServer(serverOpts...)
	visav1.RegisterVisaWorkflowServiceServer(srv, opts.Service)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus(visav1.ServiceName, healthpb.HealthCheckResponse_SERVING)

	s := &Server{
		grpcAddr:        opts.GRPCAddr,
		grpcServer:      srv,
		health:          hs,
		shutdownTimeout: timeout,
		logger:          logger,
	}

	if opts.HTTPAddr != "" && opts.HTTPHandler != nil {
		s.httpServer = &http.Server{
			Addr:              opts.HTTPAddr,
			Handler:           opts.HTTPHandler,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return s
}

// Run は両サーバーを起動し、コンテキストがキャンセルされると停止します。
// いずれかが異常終了した場合はもう一方も停止します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.grpcAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.grpcAddr, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("gRPC server listening", slog.String("addr", lis.Addr().String()))
		return s.Serve(gctx, lis)
	})

	if s.httpServer != nil {
		g.Go(func() error {
			s.logger.Info("HTTP server listening", slog.String("addr", s.httpServer.Addr))
			if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve HTTP: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			defer cancel()
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown HTTP: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}

// Serve は指定のリスナーで gRPC を提供し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	stopped := make(chan struct{})
	defer close(stopped)

	go func() {
		select {
		case <-ctx.Done():
			s.GracefulStop()
		case <-stopped:
		}
	}()

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// GracefulStop はヘルスチェックを NOT_SERVING にしてから gRPC サーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
