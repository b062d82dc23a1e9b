package invoice

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

type Repository interface {
	CreateWithItems(ctx context.Context, invoice *models.Invoice, items []*models.InvoiceItem) (*models.Invoice, error)
	GetByID(ctx context.Context, userID, invoiceID string) (*models.Invoice, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Invoice, error)
	ListByClient(ctx context.Context, userID, clientID string) ([]*models.Invoice, error)
	UpdateStatus(ctx context.Context, userID, invoiceID string, status models.InvoiceStatus) (*models.Invoice, error)
	Delete(ctx context.Context, userID, invoiceID string) error
	LatestByUser(ctx context.Context, userID string) (*models.Invoice, error)
}

type InvoiceRepository struct {
	db *bun.DB
}

func NewInvoiceRepository(db *bun.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// CreateWithItems inserts the invoice and its line items in one transaction,
// so a failed item insert never leaves an orphaned invoice behind. When no
// number is supplied, one is allocated from the per-(user, year) sequence row
// inside the same transaction, which keeps concurrent creates from colliding.
func (r *InvoiceRepository) CreateWithItems(ctx context.Context, invoice *models.Invoice, items []*models.InvoiceItem) (*models.Invoice, error) {
	invoiceDB := models.InvoiceFromDomain(invoice)
	if invoiceDB.ID == "" {
		invoiceDB.ID = uuid.New().String()
	}
	if invoiceDB.Status == "" {
		invoiceDB.Status = models.InvoiceStatusDraft
	}
	now := time.Now()
	invoiceDB.CreatedAt = now
	invoiceDB.UpdatedAt = now

	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if invoiceDB.InvoiceNumber == "" {
			number, err := allocateNumber(ctx, tx, invoiceDB.UserID, now.Year())
			if err != nil {
				return fmt.Errorf("failed to allocate invoice number: %w", err)
			}
			invoiceDB.InvoiceNumber = number
		}

		if _, err := tx.NewInsert().Model(invoiceDB).Exec(ctx); err != nil {
			return err
		}

		for i, item := range items {
			itemDB := models.InvoiceItemFromDomain(item)
			if itemDB.ID == "" {
				itemDB.ID = uuid.New().String()
			}
			itemDB.InvoiceID = invoiceDB.ID
			itemDB.SortOrder = i
			itemDB.CreatedAt = now

			if _, err := tx.NewInsert().Model(itemDB).Exec(ctx); err != nil {
				return err
			}
			invoiceDB.Items = append(invoiceDB.Items, itemDB)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoiceDB.ToInvoice(), nil
}

// allocateNumber bumps the (user, year) counter and returns the formatted
// number. The upsert serializes concurrent allocations on the counter row.
func allocateNumber(ctx context.Context, tx bun.Tx, userID string, year int) (string, error) {
	seq := &models.InvoiceSequenceDB{
		ID:        uuid.New().String(),
		UserID:    userID,
		Year:      year,
		LastValue: 1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	err := tx.NewInsert().
		Model(seq).
		On("CONFLICT (user_id, year) DO UPDATE").
		Set("last_value = seq.last_value + 1").
		Set("updated_at = ?", time.Now()).
		Returning("last_value").
		Scan(ctx)
	if err != nil {
		return "", err
	}
	return formatNumber(year, int(seq.LastValue)), nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, userID, invoiceID string) (*models.Invoice, error) {
	invoiceDB := new(models.InvoiceDB)
	err := r.db.NewSelect().
		Model(invoiceDB).
		Relation("Items", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("sort_order ASC")
		}).
		Where("i.id = ?", invoiceID).
		Where("i.user_id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return invoiceDB.ToInvoice(), nil
}

func (r *InvoiceRepository) ListByUser(ctx context.Context, userID string) ([]*models.Invoice, error) {
	var invoiceDBs []*models.InvoiceDB
	err := r.db.NewSelect().
		Model(&invoiceDBs).
		Where("i.user_id = ?", userID).
		Order("i.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return toInvoices(invoiceDBs), nil
}

func (r *InvoiceRepository) ListByClient(ctx context.Context, userID, clientID string) ([]*models.Invoice, error) {
	var invoiceDBs []*models.InvoiceDB
	err := r.db.NewSelect().
		Model(&invoiceDBs).
		Where("i.user_id = ?", userID).
		Where("i.client_id = ?", clientID).
		Order("i.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return toInvoices(invoiceDBs), nil
}

// UpdateStatus applies the state machine in status.go. Transitioning to sent
// stamps sent_at, to paid stamps paid_at.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, userID, invoiceID string, status models.InvoiceStatus) (*models.Invoice, error) {
	current, err := r.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}
	if err := checkTransition(current.Status, status); err != nil {
		return nil, err
	}

	now := time.Now()
	q := r.db.NewUpdate().
		Model((*models.InvoiceDB)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", now).
		Where("id = ?", invoiceID).
		Where("user_id = ?", userID).
		// Guard against a concurrent transition between the check above and
		// this write; zero rows affected means someone else moved first.
		Where("status = ?", current.Status)

	sentAt, paidAt := statusStamps(status, now)
	if sentAt != nil {
		q = q.Set("sent_at = ?", *sentAt)
	}
	if paidAt != nil {
		q = q.Set("paid_at = ?", *paidAt)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: %s -> %s", ErrStatusConflict, current.Status, status)
	}
	return r.GetByID(ctx, userID, invoiceID)
}

// Delete removes the invoice row; the store cascades invoice_items.
func (r *InvoiceRepository) Delete(ctx context.Context, userID, invoiceID string) error {
	_, err := r.db.NewDelete().
		Model((*models.InvoiceDB)(nil)).
		Where("id = ?", invoiceID).
		Where("user_id = ?", userID).
		Exec(ctx)
	return err
}

func (r *InvoiceRepository) LatestByUser(ctx context.Context, userID string) (*models.Invoice, error) {
	invoiceDB := new(models.InvoiceDB)
	err := r.db.NewSelect().
		Model(invoiceDB).
		Where("i.user_id = ?", userID).
		Order("i.created_at DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return invoiceDB.ToInvoice(), nil
}

func toInvoices(invoiceDBs []*models.InvoiceDB) []*models.Invoice {
	invoices := make([]*models.Invoice, 0, len(invoiceDBs))
	for _, i := range invoiceDBs {
		invoices = append(invoices, i.ToInvoice())
	}
	return invoices
}
