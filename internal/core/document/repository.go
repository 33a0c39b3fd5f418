package document

import "context"

// Repository は書類メタデータと本文の永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, doc *Document, content []byte) (*Document, error)
	FindByID(ctx context.Context, id string) (*Document, error)
	GetContent(ctx context.Context, id string) ([]byte, error)
	UpdateReview(ctx context.Context, doc *Document) (*Document, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*Document, error)
	// ExistsByType は却下されていない書類が存在するかを返します。
	ExistsByType(ctx context.Context, employeeID string, docType Type) (bool, error)
}
