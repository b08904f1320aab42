package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// PostgresRepository implements file metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a metadata row and returns the entity with its assigned id.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query := `
		INSERT INTO files (user_id, name, type, is_public, parent_id, local_path)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		file.UserID, file.Name, file.Type, file.IsPublic, file.ParentID, file.LocalPath).
		Scan(&file.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id models.ID) (*models.File, error) {
	query := `
		SELECT id, user_id, name, type, is_public, parent_id, local_path FROM files
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetOwned(ctx context.Context, id, ownerID models.ID) (*models.File, error) {
	query := `
		SELECT id, user_id, name, type, is_public, parent_id, local_path FROM files
		WHERE id = $1 AND user_id = $2
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, ownerID))
}

// SelectPage returns one page of ownerID's entities under parentID.
// Ordering is by ascending id so pages are stable under concurrent inserts.
func (r *PostgresRepository) SelectPage(ctx context.Context, ownerID, parentID models.ID, skip, limit int) ([]*models.File, error) {
	query := `
		SELECT id, user_id, name, type, is_public, parent_id, local_path FROM files
		WHERE user_id = $1 AND parent_id = $2
		ORDER BY id
		OFFSET $3 LIMIT $4
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, parentID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		var item models.File
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.Type,
			&item.IsPublic, &item.ParentID, &item.LocalPath); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetPublic updates visibility of an owned entity. Zero rows affected means
// the entity does not exist or belongs to someone else.
func (r *PostgresRepository) SetPublic(ctx context.Context, id, ownerID models.ID, value bool) error {
	query := `UPDATE files SET is_public = $1 WHERE id = $2 AND user_id = $3`
	result, err := r.db.ExecContext(ctx, query, value, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM files`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.File, error) {
	file := &models.File{}
	err := row.Scan(&file.ID, &file.UserID, &file.Name, &file.Type,
		&file.IsPublic, &file.ParentID, &file.LocalPath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}
