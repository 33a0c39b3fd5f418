package visav1

import (
	"github.com/ogurasousui/codex-visa-workflow/internal/core/document"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/employee"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/notification"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
)

// FromEmployee は社員レコードをメッセージに変換します。stage はここで算出します。
func FromEmployee(e *employee.Employee) *Employee {
	if e == nil {
		return nil
	}
	return &Employee{
		ID:             e.ID,
		FullName:       e.FullName,
		Email:          e.Email,
		PassportNumber: e.PassportNumber,
		Nationality:    e.Nationality,
		JobTitle:       e.JobTitle,
		Department:     e.Department,
		Salary:         e.Salary,
		VisaType:       e.VisaType,
		CompletedSteps: e.Flags.Names(),
		Stage:          string(e.Stage()),
		Version:        e.Version,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// FromStep はステップ表の行を変換します。
func FromStep(s workflow.Step) *Step {
	var prereqs []string
	for _, p := range s.Prerequisites {
		prereqs = append(prereqs, p.String())
	}
	return &Step{
		Number:        s.Number,
		Flag:          s.Flag.String(),
		Actor:         string(s.Actor),
		Prerequisites: prereqs,
		Title:         s.Title,
	}
}

func FromNextAction(a workflow.NextAction) *NextAction {
	out := &NextAction{
		Actionable: a.Actionable,
		WaitingOn:  string(a.WaitingOn),
		Completed:  a.Completed,
	}
	if a.Step != nil {
		out.Step = FromStep(*a.Step)
	}
	return out
}

func FromIntents(intents []workflow.NotificationIntent) []*NotificationIntent {
	out := make([]*NotificationIntent, 0, len(intents))
	for _, in := range intents {
		out = append(out, &NotificationIntent{
			Audience: string(in.Audience),
			Message:  in.Message,
			Severity: string(in.Severity),
		})
	}
	return out
}

func FromStepEvent(e *employee.StepEvent) *StepEvent {
	if e == nil {
		return nil
	}
	return &StepEvent{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		Flag:        e.Flag.String(),
		ActorID:     e.ActorID,
		ActorRole:   string(e.ActorRole),
		Payload:     e.Payload,
		CompletedAt: e.CompletedAt,
	}
}

func FromNotification(n *notification.Notification) *Notification {
	if n == nil {
		return nil
	}
	return &Notification{
		ID:         n.ID,
		Recipient:  string(n.Recipient),
		EmployeeID: n.EmployeeID,
		Message:    n.Message,
		Severity:   string(n.Severity),
		Read:       n.Read,
		CreatedAt:  n.CreatedAt,
	}
}

// FromDocument は書類メタデータを変換します。
func FromDocument(d *document.Document) *Document {
	if d == nil {
		return nil
	}
	return &Document{
		ID:              d.ID,
		EmployeeID:      d.EmployeeID,
		Type:            string(d.Type),
		FileName:        d.FileName,
		ContentType:     d.ContentType,
		SizeBytes:       d.SizeBytes,
		Status:          string(d.Status),
		ReviewerComment: d.ReviewerComment,
		UploadedAt:      d.UploadedAt,
		ReviewedAt:      d.ReviewedAt,
	}
}
