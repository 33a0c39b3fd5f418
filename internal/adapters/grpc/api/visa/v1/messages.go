// Package visav1 は visa.v1.VisaWorkflowService のメッセージとサービス定義です。
// メッセージは JSON コーデック (content-subtype "json") で送受信します。
package visav1

import "time"

// Employee は社員レコードの表現です。stage は読み出し時に算出されます。
type Employee struct {
	ID             string    `json:"id"`
	FullName       string    `json:"full_name"`
	Email          *string   `json:"email,omitempty"`
	PassportNumber string    `json:"passport_number"`
	Nationality    string    `json:"nationality,omitempty"`
	JobTitle       string    `json:"job_title,omitempty"`
	Department     string    `json:"department,omitempty"`
	Salary         string    `json:"salary,omitempty"`
	VisaType       string    `json:"visa_type,omitempty"`
	CompletedSteps []string  `json:"completed_steps"`
	Stage          string    `json:"stage"`
	Version        int64     `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Step はステップ表の一行です。
type Step struct {
	Number        int      `json:"number"`
	Flag          string   `json:"flag"`
	Actor         string   `json:"actor"`
	Prerequisites []string `json:"prerequisites,omitempty"`
	Title         string   `json:"title"`
}

// NextAction は次に行うべきステップの案内です。
type NextAction struct {
	Step       *Step  `json:"step,omitempty"`
	Actionable bool   `json:"actionable"`
	WaitingOn  string `json:"waiting_on,omitempty"`
	Completed  bool   `json:"completed"`
}

// NotificationIntent は遷移で生成された通知の内容です。
type NotificationIntent struct {
	Audience string `json:"audience"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// StepEvent はステップ完了記録です。
type StepEvent struct {
	ID          string         `json:"id"`
	EmployeeID  string         `json:"employee_id"`
	Flag        string         `json:"flag"`
	ActorID     string         `json:"actor_id"`
	ActorRole   string         `json:"actor_role"`
	Payload     map[string]any `json:"payload,omitempty"`
	CompletedAt time.Time      `json:"completed_at"`
}

// Notification はアプリ内通知です。
type Notification struct {
	ID         string    `json:"id"`
	Recipient  string    `json:"recipient"`
	EmployeeID *string   `json:"employee_id,omitempty"`
	Message    string    `json:"message"`
	Severity   string    `json:"severity"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Document は書類メタデータです。本文は HTTP API から取得します。
type Document struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	Type            string     `json:"type"`
	FileName        string     `json:"file_name"`
	ContentType     string     `json:"content_type"`
	SizeBytes       int64      `json:"size_bytes"`
	Status          string     `json:"status"`
	ReviewerComment string     `json:"reviewer_comment,omitempty"`
	UploadedAt      time.Time  `json:"uploaded_at"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
}

type CreateEmployeeRequest struct {
	FullName       string  `json:"full_name"`
	Email          *string `json:"email,omitempty"`
	PassportNumber string  `json:"passport_number"`
	Nationality    string  `json:"nationality,omitempty"`
	JobTitle       string  `json:"job_title,omitempty"`
	Department     string  `json:"department,omitempty"`
	Salary         string  `json:"salary,omitempty"`
	VisaType       string  `json:"visa_type,omitempty"`
}

type CreateEmployeeResponse struct {
	Employee *Employee `json:"employee"`
}

type GetEmployeeRequest struct {
	ID string `json:"id"`
}

type GetEmployeeResponse struct {
	Employee *Employee `json:"employee"`
}

type ListEmployeesRequest struct {
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
	Stage     string `json:"stage,omitempty"`
}

type ListEmployeesResponse struct {
	Employees     []*Employee `json:"employees"`
	NextPageToken string      `json:"next_page_token,omitempty"`
}

// UpdateEmployeeProfileRequest は nil の項目を変更しません。
type UpdateEmployeeProfileRequest struct {
	ID              string  `json:"id"`
	FullName        *string `json:"full_name,omitempty"`
	Email           *string `json:"email,omitempty"`
	PassportNumber  *string `json:"passport_number,omitempty"`
	Nationality     *string `json:"nationality,omitempty"`
	JobTitle        *string `json:"job_title,omitempty"`
	Department      *string `json:"department,omitempty"`
	Salary          *string `json:"salary,omitempty"`
	VisaType        *string `json:"visa_type,omitempty"`
	ExpectedVersion *int64  `json:"expected_version,omitempty"`
}

type UpdateEmployeeProfileResponse struct {
	Employee *Employee `json:"employee"`
}

type AdvanceStepRequest struct {
	EmployeeID      string         `json:"employee_id"`
	Flag            string         `json:"flag"`
	Payload         map[string]any `json:"payload,omitempty"`
	ExpectedVersion *int64         `json:"expected_version,omitempty"`
}

type AdvanceStepResponse struct {
	Employee      *Employee             `json:"employee"`
	PreviousStage string                `json:"previous_stage"`
	StageChanged  bool                  `json:"stage_changed"`
	Notifications []*NotificationIntent `json:"notifications"`
	Event         *StepEvent            `json:"event,omitempty"`
	NextAction    *NextAction           `json:"next_action,omitempty"`
}

type GetNextActionRequest struct {
	EmployeeID string `json:"employee_id"`
}

type GetNextActionResponse struct {
	EmployeeID string      `json:"employee_id"`
	Stage      string      `json:"stage"`
	NextAction *NextAction `json:"next_action"`
}

type ListStepHistoryRequest struct {
	EmployeeID string `json:"employee_id"`
}

type ListStepHistoryResponse struct {
	Events []*StepEvent `json:"events"`
}

type ListStepsRequest struct{}

type ListStepsResponse struct {
	Steps []*Step `json:"steps"`
}

type ListNotificationsRequest struct {
	UnreadOnly bool   `json:"unread_only,omitempty"`
	PageSize   int32  `json:"page_size,omitempty"`
	PageToken  string `json:"page_token,omitempty"`
}

type ListNotificationsResponse struct {
	Notifications []*Notification `json:"notifications"`
	NextPageToken string          `json:"next_page_token,omitempty"`
}

type MarkNotificationReadRequest struct {
	ID string `json:"id"`
}

type MarkNotificationReadResponse struct {
	Notification *Notification `json:"notification"`
}

type DeleteNotificationRequest struct {
	ID string `json:"id"`
}

type DeleteNotificationResponse struct{}

type ListDocumentsRequest struct {
	EmployeeID string `json:"employee_id"`
}

type ListDocumentsResponse struct {
	Documents []*Document `json:"documents"`
}

type ReviewDocumentRequest struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}

type ReviewDocumentResponse struct {
	Document *Document `json:"document"`
}
