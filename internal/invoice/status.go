package invoice

import (
	"errors"
	"fmt"
	"time"

	"github.com/invoiceflow-app/invoiceflow/go/internal/models"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStatusConflict    = errors.New("invoice status changed concurrently")
)

// legalTransitions is the stored-status state machine. Overdue is a read-time
// label computed from due_date and is never a transition target; legacy rows
// that persisted it may still be closed out.
var legalTransitions = map[models.InvoiceStatus][]models.InvoiceStatus{
	models.InvoiceStatusDraft:   {models.InvoiceStatusSent, models.InvoiceStatusCancelled},
	models.InvoiceStatusSent:    {models.InvoiceStatusPaid, models.InvoiceStatusCancelled},
	models.InvoiceStatusOverdue: {models.InvoiceStatusPaid, models.InvoiceStatusCancelled},
}

func CanTransition(from, to models.InvoiceStatus) bool {
	for _, allowed := range legalTransitions[from] {
		if to == allowed {
			return true
		}
	}
	return false
}

func checkTransition(from, to models.InvoiceStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// statusStamps returns the timestamps a transition sets: entering sent stamps
// sent_at, entering paid stamps paid_at. Every other status stamps nothing.
func statusStamps(status models.InvoiceStatus, now time.Time) (sentAt, paidAt *time.Time) {
	switch status {
	case models.InvoiceStatusSent:
		return &now, nil
	case models.InvoiceStatusPaid:
		return nil, &now
	}
	return nil, nil
}
