package notification

import (
	"time"

	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
)

// Recipient は通知の受信者種別です。
type Recipient string

const (
	RecipientHR       Recipient = "hr"
	RecipientEmployee Recipient = "employee"
)

// Notification はアプリ内通知です。ワークフローの不変条件には含まれません。
type Notification struct {
	ID         string
	Recipient  Recipient
	EmployeeID *string
	Message    string
	Severity   workflow.Severity
	Read       bool
	CreatedAt  time.Time
}
