package trial

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/invoiceflow-app/invoiceflow/go/internal/models"
)

// trialLength matches the period granted at user provisioning.
const trialLength = 3 // months

var (
	ErrActiveTrialExists  = errors.New("an active trial already exists for this user")
	ErrInvalidPlan        = errors.New("trials are only available for professional and enterprise plans")
	ErrInvalidTrialStatus = errors.New("trial status must be expired, cancelled or converted")
)

type Service interface {
	Start(ctx context.Context, userID string, plan models.Plan) (*models.Trial, error)
	UpdateStatus(ctx context.Context, userID string, status models.TrialStatus) (*models.Trial, error)
}

type LifecycleService struct {
	repo Repository
	now  func() time.Time
}

func NewLifecycleService(repo Repository) *LifecycleService {
	return &LifecycleService{
		repo: repo,
		now:  time.Now,
	}
}

// Start opens a three month trial of the requested plan. At most one trial per
// user may be active; a second start is rejected with ErrActiveTrialExists.
func (s *LifecycleService) Start(ctx context.Context, userID string, plan models.Plan) (*models.Trial, error) {
	if plan != models.PlanProfessional && plan != models.PlanEnterprise {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidPlan, plan)
	}

	existing, err := s.repo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrActiveTrialExists
	}

	now := s.now()
	return s.repo.Insert(ctx, &models.Trial{
		UserID:     userID,
		Plan:       plan,
		Status:     models.TrialStatusActive,
		StartsAt:   now,
		EndsAt:     now.AddDate(0, trialLength, 0),
		Features:   featuresForPlan(plan),
		UsageStats: models.TrialUsage{},
	})
}

// UpdateStatus transitions the user's active trial to a terminal status. No
// active trial is not an error; the caller gets nil back.
func (s *LifecycleService) UpdateStatus(ctx context.Context, userID string, status models.TrialStatus) (*models.Trial, error) {
	switch status {
	case models.TrialStatusExpired, models.TrialStatusCancelled, models.TrialStatusConverted:
	default:
		return nil, fmt.Errorf("%w: got %q", ErrInvalidTrialStatus, status)
	}

	active, err := s.repo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, nil
	}

	return s.repo.UpdateStatus(ctx, active.ID, status)
}
