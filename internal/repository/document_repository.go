package repository

import (
	"context"
	"database/sql"
	"errors"

	"workforce/internal/models"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	ListByAssignment(ctx context.Context, assignmentID string, limit int, offset int) ([]*models.Document, error)
	CountByAssignment(ctx context.Context, assignmentID string) (int, error)
	Update(ctx context.Context, id string, req *models.UpdateDocumentRequest) (*models.Document, error)
	Delete(ctx context.Context, id string) error
}

type documentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) DocumentRepository {
	return &documentRepository{db: db}
}

const documentColumns = `id, name, kind, url, file_path, size, assignment_id, uploaded_by, uploaded_at`

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (id, name, kind, url, file_path, size, assignment_id, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING uploaded_at
	`

	return r.db.QueryRowContext(ctx, query,
		doc.ID, doc.Name, doc.Kind, doc.URL, doc.FilePath, doc.Size,
		doc.AssignmentID, doc.UploadedBy, doc.UploadedAt,
	).Scan(&doc.UploadedAt)
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	var d models.Document
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.Kind, &d.URL, &d.FilePath, &d.Size,
		&d.AssignmentID, &d.UploadedBy, &d.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &d, nil
}

func (r *documentRepository) ListByAssignment(ctx context.Context, assignmentID string, limit int, offset int) ([]*models.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE assignment_id = $1
		ORDER BY uploaded_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, assignmentID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(
			&d.ID, &d.Name, &d.Kind, &d.URL, &d.FilePath, &d.Size,
			&d.AssignmentID, &d.UploadedBy, &d.UploadedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

func (r *documentRepository) CountByAssignment(ctx context.Context, assignmentID string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE assignment_id = $1`, assignmentID,
	).Scan(&total)
	return total, err
}

func (r *documentRepository) Update(ctx context.Context, id string, req *models.UpdateDocumentRequest) (*models.Document, error) {
	query := `
		UPDATE documents
		SET name = COALESCE($1, name),
			kind = COALESCE($2, kind)
		WHERE id = $3
		RETURNING ` + documentColumns + `
	`

	var d models.Document
	err := r.db.QueryRowContext(ctx, query, req.Name, req.Kind, id).Scan(
		&d.ID, &d.Name, &d.Kind, &d.URL, &d.FilePath, &d.Size,
		&d.AssignmentID, &d.UploadedBy, &d.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &d, nil
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
