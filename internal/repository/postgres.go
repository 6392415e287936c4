package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"assistgen-gateway/internal/config"
	"assistgen-gateway/internal/models"

	_ "github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(cfg *config.DatabaseConfig) (*PostgresRepository, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// DB exposes the underlying handle for schema setup in integration tests.
func (r *PostgresRepository) DB() *sql.DB {
	return r.db
}

type DocumentRow struct {
	ID           string
	IndexID      *string
	Filename     string
	OriginalName string
	FileSize     int64
	MimeType     string
	StoragePath  string
	ChunkCount   int
	Status       string
	ErrorMessage *string
	CreatedAt    time.Time
	IndexedAt    *time.Time
}

func (r *PostgresRepository) CreateDocument(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (id, index_id, filename, original_name, file_size, mime_type, storage_path, chunk_count, status, error_message, created_at, indexed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, nullString(doc.IndexID), doc.Filename, doc.OriginalName,
		doc.FileSize, doc.MimeType, doc.StoragePath, doc.ChunkCount,
		doc.Status, nullString(doc.ErrorMessage), doc.CreatedAt, nullTime(doc.IndexedAt),
	)

	return err
}

func (r *PostgresRepository) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	query := `
		SELECT id, index_id, filename, original_name, file_size, mime_type, storage_path, chunk_count, status, error_message, created_at, indexed_at
		FROM documents
		WHERE id = $1
	`

	return r.queryDocument(ctx, query, id)
}

func (r *PostgresRepository) GetDocumentByIndexID(ctx context.Context, indexID string) (*models.Document, error) {
	query := `
		SELECT id, index_id, filename, original_name, file_size, mime_type, storage_path, chunk_count, status, error_message, created_at, indexed_at
		FROM documents
		WHERE index_id = $1
	`

	return r.queryDocument(ctx, query, indexID)
}

func (r *PostgresRepository) queryDocument(ctx context.Context, query string, arg interface{}) (*models.Document, error) {
	var row DocumentRow
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&row.ID, &row.IndexID, &row.Filename, &row.OriginalName,
		&row.FileSize, &row.MimeType, &row.StoragePath, &row.ChunkCount,
		&row.Status, &row.ErrorMessage, &row.CreatedAt, &row.IndexedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return rowToDocument(&row), nil
}

func (r *PostgresRepository) ListDocuments(ctx context.Context, limit, offset int, statusFilter string) ([]*models.Document, int, error) {
	query := `
		SELECT id, index_id, filename, original_name, file_size, mime_type, storage_path, chunk_count, status, error_message, created_at, indexed_at
		FROM documents
	`

	var args []interface{}
	var whereClauses []string

	if statusFilter != "" {
		args = append(args, statusFilter)
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(whereClauses) > 0 {
		query += " WHERE " + whereClauses[0]
	}

	query += " ORDER BY created_at DESC LIMIT $" + fmt.Sprintf("%d", len(args)+1) + " OFFSET $" + fmt.Sprintf("%d", len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var documents []*models.Document
	for rows.Next() {
		var row DocumentRow
		if err := rows.Scan(
			&row.ID, &row.IndexID, &row.Filename, &row.OriginalName,
			&row.FileSize, &row.MimeType, &row.StoragePath, &row.ChunkCount,
			&row.Status, &row.ErrorMessage, &row.CreatedAt, &row.IndexedAt,
		); err != nil {
			return nil, 0, err
		}
		documents = append(documents, rowToDocument(&row))
	}

	countQuery := "SELECT COUNT(*) FROM documents"
	if len(whereClauses) > 0 {
		countQuery += " WHERE " + whereClauses[0]
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args[:len(args)-2]...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return documents, total, nil
}

func (r *PostgresRepository) UpdateDocument(ctx context.Context, id string, updates map[string]interface{}) error {
	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	argNum := 1

	for key, value := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", key, argNum))
		args = append(args, value)
		argNum++
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE documents SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argNum)

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *PostgresRepository) DeleteDocument(ctx context.Context, id string) error {
	query := "DELETE FROM documents WHERE id = $1"
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *PostgresRepository) UpdateDocumentStatus(ctx context.Context, id, status string, errorMessage string) error {
	query := `
		UPDATE documents
		SET status = $1, error_message = $2, indexed_at = $3
		WHERE id = $4
	`

	var indexedAt *time.Time
	if status == models.StatusIndexed || status == models.StatusFailed {
		now := time.Now()
		indexedAt = &now
	}

	_, err := r.db.ExecContext(ctx, query, status, nullString(errorMessage), nullTime(indexedAt), id)
	return err
}

func rowToDocument(row *DocumentRow) *models.Document {
	doc := &models.Document{
		ID:           row.ID,
		Filename:     row.Filename,
		OriginalName: row.OriginalName,
		FileSize:     row.FileSize,
		MimeType:     row.MimeType,
		StoragePath:  row.StoragePath,
		ChunkCount:   row.ChunkCount,
		Status:       row.Status,
		CreatedAt:    row.CreatedAt,
		IndexedAt:    row.IndexedAt,
	}
	if row.IndexID != nil {
		doc.IndexID = *row.IndexID
	}
	if row.ErrorMessage != nil {
		doc.ErrorMessage = *row.ErrorMessage
	}
	return doc
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullTime(t *time.Time) *time.Time {
	return t
}
