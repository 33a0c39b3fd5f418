package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/document"
)

// DocumentRepository は document.Repository のメモリ実装です。
type DocumentRepository struct {
	store *Store
}

// NewDocumentRepository は DocumentRepository を生成します。
func NewDocumentRepository(store *Store) *DocumentRepository {
	return &DocumentRepository{store: store}
}

func cloneDocument(d *document.Document) *document.Document {
	out := *d
	if d.ReviewedAt != nil {
		v := *d.ReviewedAt
		out.ReviewedAt = &v
	}
	return &out
}

// Create は書類と本文を保存します。
func (r *DocumentRepository) Create(_ context.Context, doc *document.Document, content []byte) (*document.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.data.employees[doc.EmployeeID]; !ok {
		return nil, document.ErrEmployeeNotFound
	}

	created := cloneDocument(doc)
	created.ID = uuid.NewString()
	r.store.data.documents[created.ID] = created
	r.store.data.contents[created.ID] = slices.Clone(content)
	r.store.data.documentOrder = append(r.store.data.documentOrder, created.ID)
	return cloneDocument(created), nil
}

// FindByID は ID で書類メタデータを取得します。
func (r *DocumentRepository) FindByID(_ context.Context, id string) (*document.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	d, ok := r.store.data.documents[id]
	if !ok {
		return nil, document.ErrDocumentNotFound
	}
	return cloneDocument(d), nil
}

// GetContent は書類の本文を返します。
func (r *DocumentRepository) GetContent(_ context.Context, id string) ([]byte, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	body, ok := r.store.data.contents[id]
	if !ok {
		return nil, document.ErrDocumentNotFound
	}
	return slices.Clone(body), nil
}

// UpdateReview は審査結果を保存します。
func (r *DocumentRepository) UpdateReview(_ context.Context, doc *document.Document) (*document.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.data.documents[doc.ID]
	if !ok {
		return nil, document.ErrDocumentNotFound
	}
	updated := cloneDocument(existing)
	updated.Status = doc.Status
	updated.ReviewerComment = doc.ReviewerComment
	if doc.ReviewedAt != nil {
		v := *doc.ReviewedAt
		updated.ReviewedAt = &v
	}
	r.store.data.documents[doc.ID] = updated
	return cloneDocument(updated), nil
}

// ListByEmployee は社員の書類をアップロード順に返します。
func (r *DocumentRepository) ListByEmployee(_ context.Context, employeeID string) ([]*document.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]*document.Document, 0)
	for _, id := range r.store.data.documentOrder {
		if d := r.store.data.documents[id]; d.EmployeeID == employeeID {
			out = append(out, cloneDocument(d))
		}
	}
	return out, nil
}

// ExistsByType は却下されていない指定種別の書類があるかを返します。
func (r *DocumentRepository) ExistsByType(_ context.Context, employeeID string, docType document.Type) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, d := range r.store.data.documents {
		if d.EmployeeID == employeeID && d.Type == docType && d.Status != document.StatusRejected {
			return true, nil
		}
	}
	return false, nil
}
