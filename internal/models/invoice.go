package models

import "time"

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"

	// InvoiceStatusOverdue exists only for rows written before overdue became a
	// read-time label derived from due_date. It is never accepted as a
	// transition target.
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

type Invoice struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	ClientID      string         `json:"client_id"`
	InvoiceNumber string         `json:"invoice_number"`
	Status        InvoiceStatus  `json:"status"`
	IssueDate     time.Time      `json:"issue_date"`
	DueDate       time.Time      `json:"due_date"`
	Subtotal      float64        `json:"subtotal"`
	TaxAmount     float64        `json:"tax_amount"`
	Discount      float64        `json:"discount"`
	Total         float64        `json:"total"`
	Currency      string         `json:"currency"`
	Notes         string         `json:"notes"`
	SentAt        *time.Time     `json:"sent_at,omitempty"`
	PaidAt        *time.Time     `json:"paid_at,omitempty"`
	Items         []*InvoiceItem `json:"items,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type InvoiceItem struct {
	ID          string    `json:"id"`
	InvoiceID   string    `json:"invoice_id"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	Amount      float64   `json:"amount"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}
