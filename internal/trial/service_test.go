package trial

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoiceflow-app/invoiceflow/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	trials []*models.Trial
}

func (s *stubRepository) Insert(ctx context.Context, trial *models.Trial) (*models.Trial, error) {
	for _, t := range s.trials {
		if t.UserID == trial.UserID && t.Status == models.TrialStatusActive {
			return nil, ErrActiveTrialExists
		}
	}
	copied := *trial
	copied.ID = uuid.New().String()
	s.trials = append(s.trials, &copied)
	result := copied
	return &result, nil
}

func (s *stubRepository) GetActiveByUser(ctx context.Context, userID string) (*models.Trial, error) {
	for _, t := range s.trials {
		if t.UserID == userID && t.Status == models.TrialStatusActive {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *stubRepository) UpdateStatus(ctx context.Context, trialID string, status models.TrialStatus) (*models.Trial, error) {
	for _, t := range s.trials {
		if t.ID == trialID {
			t.Status = status
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func TestStartProfessionalTrial(t *testing.T) {
	repo := &stubRepository{}
	svc := NewLifecycleService(repo)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	tr, err := svc.Start(context.Background(), "user-1", models.PlanProfessional)

	require.NoError(t, err)
	assert.Equal(t, models.TrialStatusActive, tr.Status)
	assert.Equal(t, now, tr.StartsAt)
	assert.Equal(t, now.AddDate(0, 3, 0), tr.EndsAt)
	assert.True(t, tr.Features["unlimitedInvoices"])
	assert.True(t, tr.Features["prioritySupport"])
	assert.False(t, tr.Features["teamCollaboration"])
	assert.False(t, tr.Features["apiAccess"])
	assert.Equal(t, models.TrialUsage{}, tr.UsageStats)
}

func TestStartEnterpriseTrialUnlocksTeamFeatures(t *testing.T) {
	svc := NewLifecycleService(&stubRepository{})

	tr, err := svc.Start(context.Background(), "user-1", models.PlanEnterprise)

	require.NoError(t, err)
	assert.True(t, tr.Features["teamCollaboration"])
	assert.True(t, tr.Features["apiAccess"])
	assert.True(t, tr.Features["ssoIntegration"])
	assert.True(t, tr.Features["whiteLabel"])
}

func TestStartRejectsTrialPlan(t *testing.T) {
	svc := NewLifecycleService(&stubRepository{})

	_, err := svc.Start(context.Background(), "user-1", models.PlanTrial)

	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestStartRejectsSecondActiveTrial(t *testing.T) {
	repo := &stubRepository{}
	svc := NewLifecycleService(repo)

	_, err := svc.Start(context.Background(), "user-1", models.PlanProfessional)
	require.NoError(t, err)

	_, err = svc.Start(context.Background(), "user-1", models.PlanEnterprise)

	assert.ErrorIs(t, err, ErrActiveTrialExists)
	assert.Len(t, repo.trials, 1)
}

func TestUpdateStatusTransitionsActiveTrial(t *testing.T) {
	repo := &stubRepository{}
	svc := NewLifecycleService(repo)

	started, err := svc.Start(context.Background(), "user-1", models.PlanProfessional)
	require.NoError(t, err)

	converted, err := svc.UpdateStatus(context.Background(), "user-1", models.TrialStatusConverted)

	require.NoError(t, err)
	require.NotNil(t, converted)
	assert.Equal(t, started.ID, converted.ID)
	assert.Equal(t, models.TrialStatusConverted, converted.Status)

	// The trial is terminal now, so a new one may start.
	_, err = svc.Start(context.Background(), "user-1", models.PlanEnterprise)
	assert.NoError(t, err)
}

func TestUpdateStatusWithoutActiveTrialReturnsNil(t *testing.T) {
	svc := NewLifecycleService(&stubRepository{})

	tr, err := svc.UpdateStatus(context.Background(), "user-1", models.TrialStatusExpired)

	require.NoError(t, err)
	assert.Nil(t, tr)
}

func TestUpdateStatusRejectsNonTerminalStatus(t *testing.T) {
	svc := NewLifecycleService(&stubRepository{})

	_, err := svc.UpdateStatus(context.Background(), "user-1", models.TrialStatusActive)

	assert.ErrorIs(t, err, ErrInvalidTrialStatus)
}
