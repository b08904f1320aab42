package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/blob"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
)

// PageSize is the fixed number of entities per listing page.
const PageSize = 20

const defaultContentType = "application/octet-stream"

// CreateRequest carries the caller's input for FileService.Create. Data is
// the base64-encoded payload; it must be empty for folders and present for
// everything else.
type CreateRequest struct {
	Name     string
	Type     string
	ParentID models.ID
	IsPublic bool
	Data     string
}

// FileService is the file entity manager. It enforces ownership, hierarchy
// and visibility invariants; the document and blob stores underneath are
// passive.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blob.Store
	logger      logging.Logger
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, blobs blob.Store, logger logging.Logger) *FileService {
	return &FileService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		logger:      logger,
	}
}

// Create validates and stores a new entity owned by ownerID. All validation
// happens before any side effect; for non-folders the blob is written before
// the metadata row so a stored record always points at an existing blob.
func (s *FileService) Create(ctx context.Context, ownerID models.ID, req CreateRequest) (*models.File, error) {

	if req.Name == "" {
		return nil, common.ErrMissingName
	}
	if !models.ValidType(req.Type) {
		return nil, common.ErrMissingType
	}
	if req.Type != models.TypeFolder && req.Data == "" {
		return nil, common.ErrMissingData
	}

	repo := s.repomanager.Files(s.db)

	if req.ParentID != 0 {
		parent, err := repo.GetByID(ctx, req.ParentID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrParentNotFound
			}
			return nil, fmt.Errorf("error fetching parent: %w", err)
		}
		if !parent.IsFolder() {
			return nil, common.ErrParentNotFolder
		}
	}

	file := &models.File{
		UserID:   ownerID,
		Name:     req.Name,
		Type:     req.Type,
		IsPublic: req.IsPublic,
		ParentID: req.ParentID,
	}

	if req.Type == models.TypeFolder {
		file, err := repo.Create(ctx, file)
		if err != nil {
			return nil, fmt.Errorf("error creating folder: %w", err)
		}
		return file, nil
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return nil, common.ErrInvalidPayload
	}

	key := uuid.NewString()
	if err := s.blobs.Write(ctx, key, data); err != nil {
		// no metadata exists yet, so the failed upload leaves no trace
		return nil, fmt.Errorf("error writing blob: %w", err)
	}

	file.LocalPath = key
	file, err = repo.Create(ctx, file)
	if err != nil {
		// the blob stays behind as an orphan; never hide the failure
		s.logger.Error(ctx, "metadata insert failed after blob write", "key", key, "error", err.Error())
		return nil, fmt.Errorf("error creating file: %w", err)
	}

	return file, nil
}

// Get returns an entity by id when it is owned by ownerID.
func (s *FileService) Get(ctx context.Context, ownerID, id models.ID) (*models.File, error) {
	file, err := s.repomanager.Files(s.db).GetOwned(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error fetching file: %w", err)
	}
	return file, nil
}

// List returns one page of ownerID's entities under parentID. Pages are
// fixed at PageSize entries; no cursor survives between calls.
func (s *FileService) List(ctx context.Context, ownerID, parentID models.ID, page int) ([]*models.File, error) {
	if page < 0 {
		page = 0
	}
	result, err := s.repomanager.Files(s.db).SelectPage(ctx, ownerID, parentID, page*PageSize, PageSize)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	return result, nil
}

// SetPublic updates the visibility of an owned entity and returns the
// refreshed record. Setting the current value again is a no-op. The update
// and re-read run in one transaction so the returned state is the one
// written.
func (s *FileService) SetPublic(ctx context.Context, ownerID, id models.ID, value bool) (*models.File, error) {

	var updated *models.File

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Files(tx)

		if err := repo.SetPublic(ctx, id, ownerID, value); err != nil {
			return err
		}

		file, err := repo.GetOwned(ctx, id, ownerID)
		if err != nil {
			return err
		}

		updated = file
		return nil
	})

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating visibility: %w", err)
	}

	return updated, nil
}

// GetContent returns the bytes of a file or image plus a content-type hint
// derived from the entity name. Private entities are served only to their
// owner; to anyone else they are indistinguishable from missing ones.
func (s *FileService) GetContent(ctx context.Context, viewer *models.User, id models.ID) ([]byte, string, error) {

	file, err := s.repomanager.Files(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorNotFound
		}
		return nil, "", fmt.Errorf("error fetching file: %w", err)
	}

	if file.IsFolder() {
		return nil, "", common.ErrFolderHasNoContent
	}

	if !file.IsPublic && (viewer == nil || viewer.ID != file.UserID) {
		return nil, "", common.ErrorNotFound
	}

	data, err := s.blobs.Read(ctx, file.LocalPath)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorNotFound
		}
		return nil, "", fmt.Errorf("error reading blob: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(file.Name))
	if contentType == "" {
		contentType = defaultContentType
	}

	return data, contentType, nil
}

// Count returns the number of stored file entities.
func (s *FileService) Count(ctx context.Context) (int64, error) {
	return s.repomanager.Files(s.db).Count(ctx)
}
