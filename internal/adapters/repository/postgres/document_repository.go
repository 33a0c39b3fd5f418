package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/document"
	pgdb "github.com/ogurasousui/codex-visa-workflow/internal/platform/db/postgres"
)

const documentColumns = `id, employee_id, doc_type, file_name, content_type, size_bytes, status, reviewer_comment, uploaded_at, reviewed_at`

// DocumentRepository は書類メタデータと本文を documents テーブルに保存します。
type DocumentRepository struct {
	pool pgdb.Queryer
}

// NewDocumentRepository は DocumentRepository を生成します。
func NewDocumentRepository(pool pgdb.Queryer) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

// Create は書類を保存します。
func (r *DocumentRepository) Create(ctx context.Context, doc *document.Document, content []byte) (*document.Document, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO documents (employee_id, doc_type, file_name, content_type, size_bytes, status, reviewer_comment, uploaded_at, reviewed_at, content)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING `+documentColumns,
		doc.EmployeeID,
		string(doc.Type),
		doc.FileName,
		doc.ContentType,
		doc.SizeBytes,
		string(doc.Status),
		doc.ReviewerComment,
		doc.UploadedAt,
		nullableTimestamp(doc.ReviewedAt),
		content,
	)

	created, err := scanDocument(row)
	if err != nil {
		return nil, translateDocumentPgError(err)
	}
	return created, nil
}

// FindByID は ID で書類メタデータを取得します。
func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*document.Document, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1 LIMIT 1`, id)

	found, err := scanDocument(row)
	if err != nil {
		return nil, translateDocumentPgError(err)
	}
	return found, nil
}

// GetContent は書類の本文を返します。
func (r *DocumentRepository) GetContent(ctx context.Context, id string) ([]byte, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	var content []byte
	if err := exec.QueryRow(ctx, `SELECT content FROM documents WHERE id = $1`, id).Scan(&content); err != nil {
		return nil, translateDocumentPgError(err)
	}
	return content, nil
}

// UpdateReview は審査結果を保存します。
func (r *DocumentRepository) UpdateReview(ctx context.Context, doc *document.Document) (*document.Document, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE documents
           SET status = $1,
               reviewer_comment = $2,
               reviewed_at = $3
         WHERE id = $4
        RETURNING `+documentColumns,
		string(doc.Status),
		doc.ReviewerComment,
		nullableTimestamp(doc.ReviewedAt),
		doc.ID,
	)

	updated, err := scanDocument(row)
	if err != nil {
		return nil, translateDocumentPgError(err)
	}
	return updated, nil
}

// ListByEmployee は社員の書類をアップロード順に返します。
func (r *DocumentRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*document.Document, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+documentColumns+`
          FROM documents
         WHERE employee_id = $1
         ORDER BY uploaded_at ASC, id ASC
    `, employeeID)
	if err != nil {
		return nil, translateDocumentPgError(err)
	}
	defer rows.Close()

	docs := make([]*document.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, translateDocumentPgError(err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, translateDocumentPgError(err)
	}
	return docs, nil
}

// ExistsByType は却下されていない指定種別の書類があるかを返します。
func (r *DocumentRepository) ExistsByType(ctx context.Context, employeeID string, docType document.Type) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	var exists bool
	if err := exec.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM documents
             WHERE employee_id = $1 AND doc_type = $2 AND status <> $3
        )
    `, employeeID, string(docType), string(document.StatusRejected)).Scan(&exists); err != nil {
		return false, translateDocumentPgError(err)
	}
	return exists, nil
}

func scanDocument(row pgx.Row) (*document.Document, error) {
	var (
		id          string
		employeeID  string
		docType     string
		fileName    string
		contentType string
		size        int64
		status      string
		comment     string
		uploadedAt  time.Time
		reviewedAt  sql.NullTime
	)

	if err := row.Scan(&id, &employeeID, &docType, &fileName, &contentType, &size, &status, &comment, &uploadedAt, &reviewedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, document.ErrDocumentNotFound
		}
		return nil, err
	}

	var reviewedPtr *time.Time
	if reviewedAt.Valid {
		t := reviewedAt.Time
		reviewedPtr = &t
	}

	return &document.Document{
		ID:              id,
		EmployeeID:      employeeID,
		Type:            document.Type(docType),
		FileName:        fileName,
		ContentType:     contentType,
		SizeBytes:       size,
		Status:          document.Status(status),
		ReviewerComment: comment,
		UploadedAt:      uploadedAt,
		ReviewedAt:      reviewedPtr,
	}, nil
}

func translateDocumentPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return document.ErrDocumentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case foreignKeyViolationCode:
			return document.ErrEmployeeNotFound
		case checkViolationCode:
			return document.ErrInvalidType
		}
	}
	return err
}

func nullableTimestamp(value *time.Time) any {
	if value == nil {
		return nil
	}
	return *value
}
