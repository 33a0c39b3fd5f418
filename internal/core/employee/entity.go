package employee

import (
	"time"

	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
)

// Employee はビザ申請者（社員）のレコードです。
type Employee struct {
	ID             string
	FullName       string
	Email          *string
	PassportNumber string
	Nationality    string
	JobTitle       string
	Department     string
	Salary         string
	VisaType       string
	Flags          workflow.Flags
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Stage は読み出しのたびにフラグから段階を算出します。
func (e *Employee) Stage() workflow.Stage {
	return workflow.DeriveStage(e.Flags)
}

// NextAction は指定ロールにとっての次の操作を返します。
func (e *Employee) NextAction(role workflow.Role) workflow.NextAction {
	return workflow.NextStep(e.Flags, role)
}

// StepEvent はステップ完了時に保存されるフォーム内容と操作者の記録です。
type StepEvent struct {
	ID          string
	EmployeeID  string
	Flag        workflow.Flag
	ActorID     string
	ActorRole   workflow.Role
	Payload     map[string]any
	CompletedAt time.Time
}
