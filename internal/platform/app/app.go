// Package app はストレージ設定に応じてリポジトリとユースケースを組み立てます。
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ogurasousui/codex-visa-workflow/internal/adapters/repository/memory"
	"github.com/ogurasousui/codex-visa-workflow/internal/adapters/repository/postgres"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/document"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/employee"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/notification"
	"github.com/ogurasousui/codex-visa-workflow/internal/platform/config"
	pg "github.com/ogurasousui/codex-visa-workflow/internal/platform/db/postgres"
)

// TransactionManager は各ユースケースが共有するトランザクション制御です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

// Repositories はユースケースが使用する永続化先の一式です。
type Repositories struct {
	Employees     employee.Repository
	StepEvents    employee.StepEventRepository
	Notifications notification.Repository
	Documents     document.Repository
	Tx            TransactionManager
}

// Services は組み立て済みのユースケースです。
type Services struct {
	Employees     *employee.Service
	Notifications *notification.Service
	Documents     *document.Service
}

// NewServices はリポジトリからユースケースを組み立てます。
// 社員ユースケースは通知と書類のユースケースを配信先・確認先として使用します。
func NewServices(repos Repositories, maxUploadBytes int64) *Services {
	notifications := notification.NewService(repos.Notifications, nil, repos.Tx)
	documents := document.NewService(repos.Documents, document.Config{
		Notifier:     notifications,
		Tx:           repos.Tx,
		MaxSizeBytes: maxUploadBytes,
	})
	employees := employee.NewService(repos.Employees, repos.StepEvents,
		employee.WithTransactionManager(repos.Tx),
		employee.WithNotificationDispatcher(notifications),
		employee.WithDocumentChecker(documents),
	)
	return &Services{Employees: employees, Notifications: notifications, Documents: documents}
}

// PostgresRepositories は pgx プールを使うリポジトリ一式を返します。
func PostgresRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Employees:     postgres.NewEmployeeRepository(pool),
		StepEvents:    postgres.NewStepEventRepository(pool),
		Notifications: postgres.NewNotificationRepository(pool),
		Documents:     postgres.NewDocumentRepository(pool),
		Tx:            pg.NewTransactionManager(pool),
	}
}

// MemoryRepositories はプロセス内メモリのリポジトリ一式を返します。
func MemoryRepositories() Repositories {
	store := memory.NewStore()
	return Repositories{
		Employees:     memory.NewEmployeeRepository(store),
		StepEvents:    memory.NewStepEventRepository(store),
		Notifications: memory.NewNotificationRepository(store),
		Documents:     memory.NewDocumentRepository(store),
		Tx:            memory.NewTransactionManager(store),
	}
}

// Open は設定のストレージドライバーに応じてユースケースを組み立てます。
// 返される close 関数は使用した接続を解放します。
func Open(ctx context.Context, cfg *config.Config) (*Services, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		return NewServices(MemoryRepositories(), cfg.HTTP.MaxUploadBytes), func() {}, nil
	case config.StorageDriverPostgres, "":
		pool, err := pg.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize database pool: %w", err)
		}
		return NewServices(PostgresRepositories(pool), cfg.HTTP.MaxUploadBytes), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
