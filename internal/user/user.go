package user

import (
	"context"

	"github.com/invoiceflow-app/invoiceflow/go/internal/models"
)

// Repository is the store surface the synchronizer needs. Single-row lookup
// misses are not errors; they return (nil, nil).
type Repository interface {
	GetByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	UpdateIdentityFields(ctx context.Context, userID string, email, displayName *string) (*models.User, error)
}
