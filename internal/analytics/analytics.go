package analytics

import (
	"time"

	"github.com/invoiceflow-app/invoiceflow/go/internal/models"
)

// DashboardStats is the rollup the dashboard renders. Everything here is
// computed from already-fetched rows; nothing is mutated or re-queried.
type DashboardStats struct {
	TotalRevenue   float64 `json:"total_revenue"`
	PendingAmount  float64 `json:"pending_amount"`
	SuccessRate    float64 `json:"success_rate"`
	MonthlyRevenue float64 `json:"monthly_revenue"`
	MonthlyPending float64 `json:"monthly_pending"`
	InvoiceCount   int     `json:"invoice_count"`
	PaidCount      int     `json:"paid_count"`
	OverdueCount   int     `json:"overdue_count"`
	ClientCount    int     `json:"client_count"`
}

func Compute(invoices []*models.Invoice, clients []*models.Client, now time.Time) DashboardStats {
	stats := DashboardStats{
		TotalRevenue:   TotalRevenue(invoices),
		PendingAmount:  PendingAmount(invoices),
		SuccessRate:    SuccessRate(invoices),
		MonthlyRevenue: MonthlyRevenue(invoices, now),
		MonthlyPending: MonthlyPending(invoices, now),
		InvoiceCount:   len(invoices),
		ClientCount:    len(clients),
	}
	for _, inv := range invoices {
		if inv.Status == models.InvoiceStatusPaid {
			stats.PaidCount++
		}
		if IsOverdue(inv, now) {
			stats.OverdueCount++
		}
	}
	return stats
}

// TotalRevenue sums paid invoices only.
func TotalRevenue(invoices []*models.Invoice) float64 {
	var total float64
	for _, inv := range invoices {
		if inv.Status == models.InvoiceStatusPaid {
			total += inv.Total
		}
	}
	return total
}

// PendingAmount sums invoices that went out but have not been paid.
func PendingAmount(invoices []*models.Invoice) float64 {
	var total float64
	for _, inv := range invoices {
		if inv.Status == models.InvoiceStatusSent {
			total += inv.Total
		}
	}
	return total
}

// SuccessRate is the share of invoices that ended up paid, as a percentage.
func SuccessRate(invoices []*models.Invoice) float64 {
	if len(invoices) == 0 {
		return 0
	}
	paid := 0
	for _, inv := range invoices {
		if inv.Status == models.InvoiceStatusPaid {
			paid++
		}
	}
	return float64(paid) / float64(len(invoices)) * 100
}

func MonthlyRevenue(invoices []*models.Invoice, now time.Time) float64 {
	var total float64
	for _, inv := range invoices {
		if inv.Status == models.InvoiceStatusPaid && sameMonth(inv.CreatedAt, now) {
			total += inv.Total
		}
	}
	return total
}

func MonthlyPending(invoices []*models.Invoice, now time.Time) float64 {
	var total float64
	for _, inv := range invoices {
		if inv.Status == models.InvoiceStatusSent && sameMonth(inv.CreatedAt, now) {
			total += inv.Total
		}
	}
	return total
}

// IsOverdue derives the overdue label at read time: an invoice that went out,
// was never paid or cancelled, and whose due date has passed. Drafts are not
// overdue; they were never issued.
func IsOverdue(inv *models.Invoice, now time.Time) bool {
	switch inv.Status {
	case models.InvoiceStatusSent, models.InvoiceStatusOverdue:
	default:
		return false
	}
	return !inv.DueDate.IsZero() && inv.DueDate.Before(now)
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
