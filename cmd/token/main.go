// token は開発用の JWT を発行します。
//
//	go run ./cmd/token -role employee -subject user-1 -employee-id <uuid>
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
	"github.com/ogurasousui/codex-visa-workflow/internal/platform/auth"
	"github.com/ogurasousui/codex-visa-workflow/internal/platform/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		role       = flag.String("role", string(workflow.RoleHR), "actor role: hr, employee or external")
		subject    = flag.String("subject", "", "actor id written to the sub claim")
		employeeID = flag.String("employee-id", "", "employee record id (required for the employee role)")
	)
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	parsed, err := workflow.ParseRole(*role)
	if err != nil {
		slog.Error("invalid role", slog.String("role", *role), slog.Any("error", err))
		os.Exit(1)
	}

	token, err := auth.NewIssuer(cfg.Auth).Issue(workflow.Actor{ID: *subject, Role: parsed, EmployeeID: *employeeID})
	if err != nil {
		slog.Error("failed to issue token", slog.Any("error", err))
		os.Exit(1)
	}

	fmt.Println(token)
}
