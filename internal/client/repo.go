package client

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/invoiceflow-app/invoiceflow/go/internal/models"
	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, client *models.Client) (*models.Client, error)
	GetByID(ctx context.Context, userID, clientID string) (*models.Client, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Client, error)
	Update(ctx context.Context, client *models.Client) (*models.Client, error)
	Delete(ctx context.Context, userID, clientID string) error
}

type ClientRepository struct {
	db *bun.DB
}

func NewClientRepository(db *bun.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client *models.Client) (*models.Client, error) {
	clientDB := models.ClientFromDomain(client)
	if clientDB.ID == "" {
		clientDB.ID = uuid.New().String()
	}
	clientDB.CreatedAt = time.Now()
	clientDB.UpdatedAt = time.Now()

	if _, err := r.db.NewInsert().Model(clientDB).Exec(ctx); err != nil {
		return nil, err
	}
	return clientDB.ToClient(), nil
}

func (r *ClientRepository) GetByID(ctx context.Context, userID, clientID string) (*models.Client, error) {
	clientDB := new(models.ClientDB)
	err := r.db.NewSelect().
		Model(clientDB).
		Where("c.id = ?", clientID).
		Where("c.user_id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return clientDB.ToClient(), nil
}

func (r *ClientRepository) ListByUser(ctx context.Context, userID string) ([]*models.Client, error) {
	var clientDBs []*models.ClientDB
	err := r.db.NewSelect().
		Model(&clientDBs).
		Where("c.user_id = ?", userID).
		Order("c.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	clients := make([]*models.Client, 0, len(clientDBs))
	for _, c := range clientDBs {
		clients = append(clients, c.ToClient())
	}
	return clients, nil
}

func (r *ClientRepository) Update(ctx context.Context, client *models.Client) (*models.Client, error) {
	clientDB := models.ClientFromDomain(client)
	clientDB.UpdatedAt = time.Now()

	_, err := r.db.NewUpdate().
		Model(clientDB).
		ExcludeColumn("created_at").
		WherePK().
		Where("c.user_id = ?", client.UserID).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, client.UserID, client.ID)
}

func (r *ClientRepository) Delete(ctx context.Context, userID, clientID string) error {
	_, err := r.db.NewDelete().
		Model((*models.ClientDB)(nil)).
		Where("id = ?", clientID).
		Where("user_id = ?", userID).
		Exec(ctx)
	return err
}
