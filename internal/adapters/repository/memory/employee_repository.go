package memory

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/employee"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
)

// EmployeeRepository は employee.Repository のメモリ実装です。
type EmployeeRepository struct {
	store *Store
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(store *Store) *EmployeeRepository {
	return &EmployeeRepository{store: store}
}

func cloneEmployee(e *employee.Employee) *employee.Employee {
	out := *e
	if e.Email != nil {
		v := *e.Email
		out.Email = &v
	}
	return &out
}

// Create は社員を保存します。旅券番号は一意です。
func (r *EmployeeRepository) Create(_ context.Context, e *employee.Employee) (*employee.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.data.employees {
		if existing.PassportNumber == e.PassportNumber {
			return nil, employee.ErrPassportAlreadyExists
		}
	}

	created := cloneEmployee(e)
	created.ID = uuid.NewString()
	created.Version = 1
	r.store.data.employees[created.ID] = created
	r.store.data.employeeOrder = append(r.store.data.employeeOrder, created.ID)
	return cloneEmployee(created), nil
}

// UpdateProfile はプロフィール項目を更新します。
func (r *EmployeeRepository) UpdateProfile(_ context.Context, e *employee.Employee, expectedVersion int64) (*employee.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.data.employees[e.ID]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	if existing.Version != expectedVersion {
		return nil, employee.ErrVersionConflict
	}
	for id, other := range r.store.data.employees {
		if id != e.ID && other.PassportNumber == e.PassportNumber {
			return nil, employee.ErrPassportAlreadyExists
		}
	}

	updated := cloneEmployee(e)
	updated.Flags = existing.Flags
	updated.CreatedAt = existing.CreatedAt
	updated.Version = existing.Version + 1
	r.store.data.employees[e.ID] = updated
	return cloneEmployee(updated), nil
}

// SaveFlags は完了フラグを保存します。
func (r *EmployeeRepository) SaveFlags(_ context.Context, id string, flags workflow.Flags, expectedVersion int64, updatedAt time.Time) (*employee.Employee, error) {
	if err := flags.Validate(); err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.data.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	if existing.Version != expectedVersion {
		return nil, employee.ErrVersionConflict
	}

	updated := cloneEmployee(existing)
	updated.Flags = flags
	updated.UpdatedAt = updatedAt
	updated.Version++
	r.store.data.employees[id] = updated
	return cloneEmployee(updated), nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(_ context.Context, id string) (*employee.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.data.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	return cloneEmployee(e), nil
}

// FindByPassportNumber は旅券番号で社員を取得します。
func (r *EmployeeRepository) FindByPassportNumber(_ context.Context, passportNumber string) (*employee.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, e := range r.store.data.employees {
		if e.PassportNumber == passportNumber {
			return cloneEmployee(e), nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

// List は新しい順に社員を返します。
func (r *EmployeeRepository) List(_ context.Context, filter employee.ListEmployeesFilter) ([]*employee.Employee, string, error) {
	if filter.Limit <= 0 {
		return nil, "", employee.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", employee.ErrInvalidPageToken
	}

	var boundary *workflow.StageBoundary
	if filter.Stage != nil {
		b, err := workflow.BoundaryOf(*filter.Stage)
		if err != nil {
			return nil, "", err
		}
		boundary = &b
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched := make([]*employee.Employee, 0, filter.Limit)
	order := r.store.data.employeeOrder
	for i := len(order) - 1; i >= 0; i-- {
		e := r.store.data.employees[order[i]]
		if boundary != nil && !boundary.Contains(e.Flags) {
			continue
		}
		matched = append(matched, e)
	}

	return paginate(matched, filter.Offset, filter.Limit, cloneEmployee)
}

// StepEventRepository は employee.StepEventRepository のメモリ実装です。
type StepEventRepository struct {
	store *Store
}

// NewStepEventRepository は StepEventRepository を生成します。
func NewStepEventRepository(store *Store) *StepEventRepository {
	return &StepEventRepository{store: store}
}

func cloneEvent(ev *employee.StepEvent) *employee.StepEvent {
	out := *ev
	if ev.Payload != nil {
		out.Payload = make(map[string]any, len(ev.Payload))
		for k, v := range ev.Payload {
			out.Payload[k] = v
		}
	}
	return &out
}

// Append は完了記録を追加します。
func (r *StepEventRepository) Append(_ context.Context, event *employee.StepEvent) (*employee.StepEvent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.data.employees[event.EmployeeID]; !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	for _, ev := range r.store.data.events {
		if ev.EmployeeID == event.EmployeeID && ev.Flag == event.Flag {
			return nil, employee.ErrStepAlreadyRecorded
		}
	}

	created := cloneEvent(event)
	created.ID = uuid.NewString()
	r.store.data.events = append(r.store.data.events, created)
	return cloneEvent(created), nil
}

// ListByEmployee は社員の完了記録を完了順に返します。
func (r *StepEventRepository) ListByEmployee(_ context.Context, employeeID string) ([]*employee.StepEvent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]*employee.StepEvent, 0)
	for _, ev := range r.store.data.events {
		if ev.EmployeeID == employeeID {
			out = append(out, cloneEvent(ev))
		}
	}
	return out, nil
}

func paginate[T any](items []*T, offset, limit int, clone func(*T) *T) ([]*T, string, error) {
	if offset >= len(items) {
		return []*T{}, "", nil
	}
	end := offset + limit
	next := ""
	if end < len(items) {
		next = strconv.Itoa(end)
	} else {
		end = len(items)
	}

	out := make([]*T, 0, end-offset)
	for _, item := range items[offset:end] {
		out = append(out, clone(item))
	}
	return out, next, nil
}
