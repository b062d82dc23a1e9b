package trial

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/invoiceflow-app/invoiceflow/go/internal/models"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

const uniqueViolationCode = "23505"

type Repository interface {
	Insert(ctx context.Context, trial *models.Trial) (*models.Trial, error)
	GetActiveByUser(ctx context.Context, userID string) (*models.Trial, error)
	UpdateStatus(ctx context.Context, trialID string, status models.TrialStatus) (*models.Trial, error)
}

type TrialRepository struct {
	db *bun.DB
}

func NewTrialRepository(db *bun.DB) *TrialRepository {
	return &TrialRepository{db: db}
}

// Insert relies on the partial unique index on (user_id) WHERE status='active'
// to enforce the single-active-trial invariant even under concurrent starts;
// the resulting constraint violation surfaces as ErrActiveTrialExists.
func (r *TrialRepository) Insert(ctx context.Context, trial *models.Trial) (*models.Trial, error) {
	trialDB := models.TrialFromDomain(trial)
	if trialDB.ID == "" {
		trialDB.ID = uuid.New().String()
	}
	trialDB.CreatedAt = time.Now()
	trialDB.UpdatedAt = time.Now()

	if _, err := r.db.NewInsert().Model(trialDB).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrActiveTrialExists
		}
		return nil, err
	}
	return trialDB.ToTrial(), nil
}

func (r *TrialRepository) GetActiveByUser(ctx context.Context, userID string) (*models.Trial, error) {
	trialDB := new(models.TrialDB)
	err := r.db.NewSelect().
		Model(trialDB).
		Where("t.user_id = ?", userID).
		Where("t.status = ?", models.TrialStatusActive).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return trialDB.ToTrial(), nil
}

func (r *TrialRepository) UpdateStatus(ctx context.Context, trialID string, status models.TrialStatus) (*models.Trial, error) {
	_, err := r.db.NewUpdate().
		Model((*models.TrialDB)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", trialID).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	trialDB := new(models.TrialDB)
	err = r.db.NewSelect().
		Model(trialDB).
		Where("t.id = ?", trialID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return trialDB.ToTrial(), nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolationCode
}
