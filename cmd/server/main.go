package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	goversion "github.com/caarlos0/go-version"
	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/codex-visa-workflow/internal/adapters/grpc/handler"
	"github.com/ogurasousui/codex-visa-workflow/internal/adapters/rest"
	"github.com/ogurasousui/codex-visa-workflow/internal/platform/app"
	"github.com/ogurasousui/codex-visa-workflow/internal/platform/auth"
	"github.com/ogurasousui/codex-visa-workflow/internal/platform/config"
	"github.com/ogurasousui/codex-visa-workflow/internal/platform/logging"
	"github.com/ogurasousui/codex-visa-workflow/internal/platform/server"
)

var (
	version   = "dev"
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		showVersion = flag.Bool("version", false, "print version information and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(buildVersion(version, commit, date, builtBy, treeState).String())
		return
	}

	if err := run(config.ResolvePath(*configPath)); err != nil {
		slog.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfgPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.Setup(os.Stderr, cfg.Log)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}

	services, closeStorage, err := app.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStorage()
	logger.Info("storage ready", slog.String("driver", cfg.Storage.Driver))

	verifier := auth.NewVerifier(cfg.Auth)

	var httpAddr string
	var router *gin.Engine
	if cfg.HTTP.ListenAddr != "" {
		gin.SetMode(gin.ReleaseMode)
		router = rest.NewRouter(rest.RouterConfig{
			Documents:      services.Documents,
			Employees:      services.Employees,
			Verifier:       verifier,
			Logger:         logger,
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
		})
		httpAddr = cfg.HTTP.ListenAddr
	}

	opts := server.Options{
		GRPCAddr:        cfg.Server.ListenAddr,
		HTTPAddr:        httpAddr,
		Service:         handler.NewVisaWorkflowHandler(services.Employees, services.Notifications, services.Documents),
		Verifier:        verifier,
		Logger:          logger,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}
	if router != nil {
		opts.HTTPHandler = router
	}

	return server.New(opts).Run(ctx)
}

func buildVersion(version, commit, date, builtBy, treeState string) goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails("visa-workflow", "UAE visa processing workflow service", "https://github.com/ogurasousui/codex-visa-workflow"),
		func(i *goversion.Info) {
			if commit != "" {
				i.GitCommit = commit
			}
			if version != "" {
				i.GitVersion = version
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}
