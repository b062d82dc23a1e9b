package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoiceflow-app/invoiceflow/go/internal/auth"
	"github.com/invoiceflow-app/invoiceflow/go/internal/models"
	"github.com/invoiceflow-app/invoiceflow/go/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	users      map[string]*models.User
	getErrs    []error
	getCalls   int
	creates    int
	updates    int
	patchEmail *string
	patchName  *string
}

func newStubRepository() *stubRepository {
	return &stubRepository{users: make(map[string]*models.User)}
}

func (s *stubRepository) GetByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	s.getCalls++
	if len(s.getErrs) > 0 {
		err := s.getErrs[0]
		s.getErrs = s.getErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	u, ok := s.users[firebaseUID]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *stubRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	s.creates++
	if existing, ok := s.users[user.FirebaseUID]; ok {
		copied := *existing
		return &copied, nil
	}
	copied := *user
	copied.ID = uuid.New().String()
	s.users[user.FirebaseUID] = &copied
	result := copied
	return &result, nil
}

func (s *stubRepository) UpdateIdentityFields(ctx context.Context, userID string, email, displayName *string) (*models.User, error) {
	s.updates++
	s.patchEmail = email
	s.patchName = displayName
	for _, u := range s.users {
		if u.ID == userID {
			if email != nil {
				u.Email = *email
			}
			if displayName != nil {
				u.DisplayName = *displayName
			}
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

var fastPolicy = retry.Policy{MaxAttempts: 3, Backoff: retry.Exponential(time.Millisecond)}

func TestSyncCreatesUserOnFirstSight(t *testing.T) {
	repo := newStubRepository()
	svc := NewSyncService(repo, fastPolicy)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	u, err := svc.Sync(context.Background(), &auth.Identity{
		UID:         "firebase-uid-1",
		Email:       "ada@example.com",
		DisplayName: "Ada Lovelace",
	})

	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "firebase-uid-1", u.FirebaseUID)
	assert.Equal(t, models.PlanTrial, u.Plan)
	assert.Equal(t, now.AddDate(0, 3, 0), u.TrialEndsAt)
	assert.Equal(t, 1, repo.creates)
}

func TestSyncIsIdempotent(t *testing.T) {
	repo := newStubRepository()
	svc := NewSyncService(repo, fastPolicy)

	identity := &auth.Identity{UID: "firebase-uid-1", Email: "ada@example.com", DisplayName: "Ada Lovelace"}

	first, err := svc.Sync(context.Background(), identity)
	require.NoError(t, err)
	second, err := svc.Sync(context.Background(), identity)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 0, repo.updates)
	assert.Len(t, repo.users, 1)
}

func TestSyncUpdatesOnlyChangedEmail(t *testing.T) {
	repo := newStubRepository()
	svc := NewSyncService(repo, fastPolicy)

	identity := &auth.Identity{UID: "firebase-uid-1", Email: "ada@example.com", DisplayName: "Ada Lovelace"}
	created, err := svc.Sync(context.Background(), identity)
	require.NoError(t, err)

	identity.Email = "ada@newdomain.com"
	updated, err := svc.Sync(context.Background(), identity)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.updates)
	require.NotNil(t, repo.patchEmail)
	assert.Equal(t, "ada@newdomain.com", *repo.patchEmail)
	assert.Nil(t, repo.patchName)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "ada@newdomain.com", updated.Email)
	assert.Equal(t, "Ada Lovelace", updated.DisplayName)
}

func TestSyncRetriesTransientFailures(t *testing.T) {
	repo := newStubRepository()
	repo.getErrs = []error{errors.New("connection reset"), errors.New("connection reset")}
	svc := NewSyncService(repo, fastPolicy)

	u, err := svc.Sync(context.Background(), &auth.Identity{UID: "firebase-uid-1", Email: "ada@example.com"})

	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, 3, repo.getCalls)
	assert.Equal(t, 1, repo.creates)
}

func TestSyncSurfacesErrorAfterThreeFailures(t *testing.T) {
	lastErr := errors.New("store unavailable")
	repo := newStubRepository()
	repo.getErrs = []error{errors.New("connection reset"), errors.New("connection reset"), lastErr}
	svc := NewSyncService(repo, fastPolicy)

	u, err := svc.Sync(context.Background(), &auth.Identity{UID: "firebase-uid-1"})

	assert.Nil(t, u)
	assert.Equal(t, lastErr, err)
	assert.Equal(t, 3, repo.getCalls)
	assert.Equal(t, 0, repo.creates)
}
