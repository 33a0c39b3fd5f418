package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/notification"
)

// NotificationRepository は notification.Repository のメモリ実装です。
type NotificationRepository struct {
	store *Store
}

// NewNotificationRepository は NotificationRepository を生成します。
func NewNotificationRepository(store *Store) *NotificationRepository {
	return &NotificationRepository{store: store}
}

func cloneNotification(n *notification.Notification) *notification.Notification {
	out := *n
	if n.EmployeeID != nil {
		v := *n.EmployeeID
		out.EmployeeID = &v
	}
	return &out
}

// Create は通知を保存します。
func (r *NotificationRepository) Create(_ context.Context, n *notification.Notification) (*notification.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if n.EmployeeID != nil {
		if _, ok := r.store.data.employees[*n.EmployeeID]; !ok {
			return nil, notification.ErrEmployeeNotFound
		}
	}

	created := cloneNotification(n)
	created.ID = uuid.NewString()
	r.store.data.notifications[created.ID] = created
	r.store.data.notifyOrder = append(r.store.data.notifyOrder, created.ID)
	return cloneNotification(created), nil
}

// FindByID は ID で通知を取得します。
func (r *NotificationRepository) FindByID(_ context.Context, id string) (*notification.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	n, ok := r.store.data.notifications[id]
	if !ok {
		return nil, notification.ErrNotificationNotFound
	}
	return cloneNotification(n), nil
}

// MarkRead は通知を既読にします。
func (r *NotificationRepository) MarkRead(_ context.Context, id string) (*notification.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	n, ok := r.store.data.notifications[id]
	if !ok {
		return nil, notification.ErrNotificationNotFound
	}
	updated := cloneNotification(n)
	updated.Read = true
	r.store.data.notifications[id] = updated
	return cloneNotification(updated), nil
}

// Delete は通知を削除します。
func (r *NotificationRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.data.notifications[id]; !ok {
		return notification.ErrNotificationNotFound
	}
	delete(r.store.data.notifications, id)

	order := r.store.data.notifyOrder[:0:0]
	for _, existing := range r.store.data.notifyOrder {
		if existing != id {
			order = append(order, existing)
		}
	}
	r.store.data.notifyOrder = order
	return nil
}

// List は受信箱の通知を新しい順に返します。
func (r *NotificationRepository) List(_ context.Context, filter notification.ListFilter) ([]*notification.Notification, string, error) {
	if filter.Limit <= 0 {
		return nil, "", notification.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", notification.ErrInvalidPageToken
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched := make([]*notification.Notification, 0)
	order := r.store.data.notifyOrder
	for i := len(order) - 1; i >= 0; i-- {
		n := r.store.data.notifications[order[i]]
		if n.Recipient != filter.Recipient {
			continue
		}
		if filter.EmployeeID != nil && (n.EmployeeID == nil || *n.EmployeeID != *filter.EmployeeID) {
			continue
		}
		if filter.UnreadOnly && n.Read {
			continue
		}
		matched = append(matched, n)
	}

	return paginate(matched, filter.Offset, filter.Limit, cloneNotification)
}
