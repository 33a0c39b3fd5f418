package employee

import (
	"context"
	"time"

	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
)

// Repository は社員レコード永続化の抽象です。
// 更新系は expectedVersion による楽観的排他を行い、不一致時は ErrVersionConflict を返します。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	UpdateProfile(ctx context.Context, employee *Employee, expectedVersion int64) (*Employee, error)
	SaveFlags(ctx context.Context, id string, flags workflow.Flags, expectedVersion int64, updatedAt time.Time) (*Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByPassportNumber(ctx context.Context, passportNumber string) (*Employee, error)
	List(ctx context.Context, filter ListEmployeesFilter) ([]*Employee, string, error)
}

// StepEventRepository はステップ完了記録の永続化です。
type StepEventRepository interface {
	Append(ctx context.Context, event *StepEvent) (*StepEvent, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*StepEvent, error)
}

// ListEmployeesFilter は一覧取得用フィルタです。
type ListEmployeesFilter struct {
	Stage  *workflow.Stage
	Limit  int
	Offset int
}
