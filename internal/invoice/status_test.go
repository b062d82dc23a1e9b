package invoice

import (
	"testing"
	"time"

	"github.com/invoiceflow-app/invoiceflow/go/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from models.InvoiceStatus
		to   models.InvoiceStatus
		want bool
	}{
		{"draft to sent", models.InvoiceStatusDraft, models.InvoiceStatusSent, true},
		{"draft to cancelled", models.InvoiceStatusDraft, models.InvoiceStatusCancelled, true},
		{"sent to paid", models.InvoiceStatusSent, models.InvoiceStatusPaid, true},
		{"sent to cancelled", models.InvoiceStatusSent, models.InvoiceStatusCancelled, true},
		{"legacy overdue to paid", models.InvoiceStatusOverdue, models.InvoiceStatusPaid, true},
		{"draft to paid skips sent", models.InvoiceStatusDraft, models.InvoiceStatusPaid, false},
		{"paid back to draft", models.InvoiceStatusPaid, models.InvoiceStatusDraft, false},
		{"paid to cancelled", models.InvoiceStatusPaid, models.InvoiceStatusCancelled, false},
		{"overdue is never a target", models.InvoiceStatusSent, models.InvoiceStatusOverdue, false},
		{"cancelled is terminal", models.InvoiceStatusCancelled, models.InvoiceStatusSent, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestStatusStamps(t *testing.T) {
	now := time.Date(2024, 8, 2, 10, 0, 0, 0, time.UTC)

	t.Run("sent stamps sent_at only", func(t *testing.T) {
		sentAt, paidAt := statusStamps(models.InvoiceStatusSent, now)

		assert.NotNil(t, sentAt)
		assert.Equal(t, now, *sentAt)
		assert.Nil(t, paidAt)
	})

	t.Run("paid stamps paid_at only", func(t *testing.T) {
		sentAt, paidAt := statusStamps(models.InvoiceStatusPaid, now)

		assert.Nil(t, sentAt)
		assert.NotNil(t, paidAt)
		assert.Equal(t, now, *paidAt)
	})

	t.Run("other statuses stamp nothing", func(t *testing.T) {
		for _, status := range []models.InvoiceStatus{
			models.InvoiceStatusDraft,
			models.InvoiceStatusCancelled,
			models.InvoiceStatusOverdue,
		} {
			sentAt, paidAt := statusStamps(status, now)
			assert.Nil(t, sentAt)
			assert.Nil(t, paidAt)
		}
	})
}

func TestCheckTransitionError(t *testing.T) {
	err := checkTransition(models.InvoiceStatusPaid, models.InvoiceStatusDraft)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "paid -> draft")
}
