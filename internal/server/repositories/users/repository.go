package users

import (
	"context"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// Repository is the users collection as consumed by the services layer.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id models.ID) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}
