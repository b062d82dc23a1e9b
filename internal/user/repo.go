package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/invoiceflow-app/invoiceflow/go/internal/models"
	"github.com/uptrace/bun"
)

// UserRepository writes through the elevated store client: user rows are
// provisioned on behalf of a verified identity before any row-scoped policy
// can apply to them.
type UserRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	userDB := new(models.UserDB)
	err := r.db.NewSelect().
		Model(userDB).
		Where("firebase_uid = ?", firebaseUID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return userDB.ToUser(), nil
}

// Create inserts the user, relying on the firebase_uid uniqueness constraint
// to resolve the create race: a conflicting concurrent insert wins and the
// existing row is re-read instead of treated as a failure.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	userDB := models.UserFromDomain(user)
	if userDB.ID == "" {
		userDB.ID = uuid.New().String()
	}
	userDB.CreatedAt = time.Now()
	userDB.UpdatedAt = time.Now()

	res, err := r.db.NewInsert().
		Model(userDB).
		On("CONFLICT (firebase_uid) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		existing, err := r.GetByFirebaseUID(ctx, user.FirebaseUID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("user %s vanished after insert conflict", user.FirebaseUID)
		}
		return existing, nil
	}

	return userDB.ToUser(), nil
}

// UpdateIdentityFields patches only the columns that changed upstream. Nil
// means leave the column alone.
func (r *UserRepository) UpdateIdentityFields(ctx context.Context, userID string, email, displayName *string) (*models.User, error) {
	q := r.db.NewUpdate().
		Model((*models.UserDB)(nil)).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID)

	if email != nil {
		q = q.Set("email = ?", *email)
	}
	if displayName != nil {
		q = q.Set("display_name = ?", *displayName)
	}

	if _, err := q.Exec(ctx); err != nil {
		return nil, err
	}

	userDB := new(models.UserDB)
	err := r.db.NewSelect().
		Model(userDB).
		Where("id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return userDB.ToUser(), nil
}
