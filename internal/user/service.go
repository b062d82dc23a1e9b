package user

import (
	"context"
	"time"

	"github.com/invoiceflow-app/invoiceflow/go/internal/auth"
	"github.com/invoiceflow-app/invoiceflow/go/internal/models"
	"github.com/invoiceflow-app/invoiceflow/go/internal/retry"
)

// trialLength is granted to every newly provisioned user.
const trialLength = 3 // months

// DefaultRetryPolicy waits 2s, 4s, 8s between the three sync attempts.
var DefaultRetryPolicy = retry.Policy{
	MaxAttempts: 3,
	Backoff:     retry.Exponential(2 * time.Second),
}

type Service interface {
	Sync(ctx context.Context, identity *auth.Identity) (*models.User, error)
}

// SyncService reconciles an external identity with the local users table:
// create on first sight, patch email/display name when they drift, leave
// everything else untouched. Sync is idempotent.
type SyncService struct {
	repo   Repository
	policy retry.Policy
	now    func() time.Time
}

func NewSyncService(repo Repository, policy retry.Policy) *SyncService {
	return &SyncService{
		repo:   repo,
		policy: policy,
		now:    time.Now,
	}
}

func (s *SyncService) Sync(ctx context.Context, identity *auth.Identity) (*models.User, error) {
	var synced *models.User
	err := retry.Do(ctx, s.policy, func(ctx context.Context) error {
		u, err := s.reconcile(ctx, identity)
		if err != nil {
			return err
		}
		synced = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return synced, nil
}

func (s *SyncService) reconcile(ctx context.Context, identity *auth.Identity) (*models.User, error) {
	existing, err := s.repo.GetByFirebaseUID(ctx, identity.UID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		now := s.now()
		return s.repo.Create(ctx, &models.User{
			FirebaseUID: identity.UID,
			Email:       identity.Email,
			DisplayName: identity.DisplayName,
			Plan:        models.PlanTrial,
			TrialEndsAt: now.AddDate(0, trialLength, 0),
		})
	}

	var email, displayName *string
	if identity.Email != "" && identity.Email != existing.Email {
		email = &identity.Email
	}
	if identity.DisplayName != "" && identity.DisplayName != existing.DisplayName {
		displayName = &identity.DisplayName
	}
	if email == nil && displayName == nil {
		return existing, nil
	}

	return s.repo.UpdateIdentityFields(ctx, existing.ID, email, displayName)
}
