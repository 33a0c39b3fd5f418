package notification

import "context"

// Repository は通知永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, n *Notification) (*Notification, error)
	FindByID(ctx context.Context, id string) (*Notification, error)
	MarkRead(ctx context.Context, id string) (*Notification, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]*Notification, string, error)
}

// ListFilter は一覧取得用フィルタです。
type ListFilter struct {
	Recipient  Recipient
	EmployeeID *string
	UnreadOnly bool
	Limit      int
	Offset     int
}
