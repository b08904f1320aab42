package files

import (
	"context"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// Repository is the files collection as consumed by the services layer.
type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	// GetByID fetches an entity regardless of owner.
	GetByID(ctx context.Context, id models.ID) (*models.File, error)
	// GetOwned fetches an entity only when it belongs to ownerID.
	GetOwned(ctx context.Context, id, ownerID models.ID) (*models.File, error)
	// SelectPage returns ownerID's entities under parentID ordered by id,
	// skipping skip rows and returning at most limit.
	SelectPage(ctx context.Context, ownerID, parentID models.ID, skip, limit int) ([]*models.File, error)
	// SetPublic updates the visibility of an owned entity. Returns
	// common.ErrorNotFound when no matching row exists.
	SetPublic(ctx context.Context, id, ownerID models.ID, value bool) error
	Count(ctx context.Context) (int64, error)
}
