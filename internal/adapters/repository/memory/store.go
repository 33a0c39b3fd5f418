// Package memory はプロセス内メモリに保存するリポジトリ実装です。
// storage.driver: memory と end-to-end テストで使用します。
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/ogurasousui/codex-visa-workflow/internal/core/document"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/employee"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/notification"
)

// Store は全リポジトリが共有するデータ領域です。
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data state
}

type state struct {
	employees     map[string]*employee.Employee
	employeeOrder []string
	events        []*employee.StepEvent
	notifications map[string]*notification.Notification
	notifyOrder   []string
	documents     map[string]*document.Document
	contents      map[string][]byte
	documentOrder []string
}

// NewStore は空の Store を生成します。
func NewStore() *Store {
	return &Store{data: state{
		employees:     make(map[string]*employee.Employee),
		notifications: make(map[string]*notification.Notification),
		documents:     make(map[string]*document.Document),
		contents:      make(map[string][]byte),
	}}
}

// 保存済みの値は置き換えのみで書き換えないため、マップとスライスの複製で十分です。
func (s state) clone() state {
	return state{
		employees:     maps.Clone(s.employees),
		employeeOrder: slices.Clone(s.employeeOrder),
		events:        slices.Clone(s.events),
		notifications: maps.Clone(s.notifications),
		notifyOrder:   slices.Clone(s.notifyOrder),
		documents:     maps.Clone(s.documents),
		contents:      maps.Clone(s.contents),
		documentOrder: slices.Clone(s.documentOrder),
	}
}

type txContextKey struct{}

// TransactionManager は Store のスナップショットで読み書きトランザクションを表現します。
// fn がエラーを返した場合は開始時点の状態に戻します。
type TransactionManager struct {
	store *Store
}

// NewTransactionManager は TransactionManager を生成します。
func NewTransactionManager(store *Store) *TransactionManager {
	return &TransactionManager{store: store}
}

// WithinReadOnly は fn をそのまま実行します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("memory: transaction function is required")
	}
	return fn(ctx)
}

// WithinReadWrite は読み書きトランザクションを直列に実行します。入れ子の呼び出しは外側を再利用します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("memory: transaction function is required")
	}
	if ctx.Value(txContextKey{}) == m.store {
		return fn(ctx)
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	m.store.mu.Lock()
	snapshot := m.store.data.clone()
	m.store.mu.Unlock()

	if err := fn(context.WithValue(ctx, txContextKey{}, m.store)); err != nil {
		m.store.mu.Lock()
		m.store.data = snapshot
		m.store.mu.Unlock()
		return err
	}
	return nil
}
