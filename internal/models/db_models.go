package models

import (
	"time"

	"github.com/uptrace/bun"
)

type UserDB struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID          string    `bun:"id,pk,type:uuid" json:"id"`
	FirebaseUID string    `bun:"firebase_uid,notnull,unique" json:"firebase_uid"`
	Email       string    `bun:"email" json:"email"`
	DisplayName string    `bun:"display_name" json:"display_name"`
	Plan        Plan      `bun:"plan,notnull,default:'trial'" json:"plan"`
	TrialEndsAt time.Time `bun:"trial_ends_at" json:"trial_ends_at"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

func (u *UserDB) ToUser() *User {
	return &User{
		ID:          u.ID,
		FirebaseUID: u.FirebaseUID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Plan:        u.Plan,
		TrialEndsAt: u.TrialEndsAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func UserFromDomain(u *User) *UserDB {
	return &UserDB{
		ID:          u.ID,
		FirebaseUID: u.FirebaseUID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Plan:        u.Plan,
		TrialEndsAt: u.TrialEndsAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type ClientDB struct {
	bun.BaseModel `bun:"table:clients,alias:c"`

	ID        string    `bun:"id,pk,type:uuid" json:"id"`
	UserID    string    `bun:"user_id,notnull,type:uuid" json:"user_id"`
	User      *UserDB   `bun:"rel:belongs-to,join:user_id=id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email" json:"email"`
	Phone     string    `bun:"phone" json:"phone"`
	Company   string    `bun:"company" json:"company"`
	Address   string    `bun:"address" json:"address"`
	Notes     string    `bun:"notes" json:"notes"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

func (c *ClientDB) ToClient() *Client {
	return &Client{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ClientFromDomain(c *Client) *ClientDB {
	return &ClientDB{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type InvoiceDB struct {
	bun.BaseModel `bun:"table:invoices,alias:i"`

	ID            string           `bun:"id,pk,type:uuid" json:"id"`
	UserID        string           `bun:"user_id,notnull,type:uuid,unique:user_invoice_number" json:"user_id"`
	ClientID      string           `bun:"client_id,notnull,type:uuid" json:"client_id"`
	Client        *ClientDB        `bun:"rel:belongs-to,join:client_id=id"`
	InvoiceNumber string           `bun:"invoice_number,notnull,unique:user_invoice_number" json:"invoice_number"`
	Status        InvoiceStatus    `bun:"status,notnull,default:'draft'" json:"status"`
	IssueDate     time.Time        `bun:"issue_date" json:"issue_date"`
	DueDate       time.Time        `bun:"due_date" json:"due_date"`
	Subtotal      float64          `bun:"subtotal,notnull" json:"subtotal"`
	TaxAmount     float64          `bun:"tax_amount,notnull,default:0" json:"tax_amount"`
	Discount      float64          `bun:"discount,notnull,default:0" json:"discount"`
	Total         float64          `bun:"total,notnull" json:"total"`
	Currency      string           `bun:"currency,notnull,default:'USD'" json:"currency"`
	Notes         string           `bun:"notes" json:"notes"`
	SentAt        *time.Time       `bun:"sent_at" json:"sent_at,omitempty"`
	PaidAt        *time.Time       `bun:"paid_at" json:"paid_at,omitempty"`
	Items         []*InvoiceItemDB `bun:"rel:has-many,join:id=invoice_id"`
	CreatedAt     time.Time        `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time        `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

func (i *InvoiceDB) ToInvoice() *Invoice {
	inv := &Invoice{
		ID:            i.ID,
		UserID:        i.UserID,
		ClientID:      i.ClientID,
		InvoiceNumber: i.InvoiceNumber,
		Status:        i.Status,
		IssueDate:     i.IssueDate,
		DueDate:       i.DueDate,
		Subtotal:      i.Subtotal,
		TaxAmount:     i.TaxAmount,
		Discount:      i.Discount,
		Total:         i.Total,
		Currency:      i.Currency,
		Notes:         i.Notes,
		SentAt:        i.SentAt,
		PaidAt:        i.PaidAt,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
	for _, item := range i.Items {
		inv.Items = append(inv.Items, item.ToInvoiceItem())
	}
	return inv
}

func InvoiceFromDomain(i *Invoice) *InvoiceDB {
	return &InvoiceDB{
		ID:            i.ID,
		UserID:        i.UserID,
		ClientID:      i.ClientID,
		InvoiceNumber: i.InvoiceNumber,
		Status:        i.Status,
		IssueDate:     i.IssueDate,
		DueDate:       i.DueDate,
		Subtotal:      i.Subtotal,
		TaxAmount:     i.TaxAmount,
		Discount:      i.Discount,
		Total:         i.Total,
		Currency:      i.Currency,
		Notes:         i.Notes,
		SentAt:        i.SentAt,
		PaidAt:        i.PaidAt,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

type InvoiceItemDB struct {
	bun.BaseModel `bun:"table:invoice_items,alias:ii"`

	ID          string     `bun:"id,pk,type:uuid" json:"id"`
	InvoiceID   string     `bun:"invoice_id,notnull,type:uuid" json:"invoice_id"`
	Invoice     *InvoiceDB `bun:"rel:belongs-to,join:invoice_id=id,on_delete:CASCADE"`
	Description string     `bun:"description,notnull" json:"description"`
	Quantity    float64    `bun:"quantity,notnull,default:1" json:"quantity"`
	UnitPrice   float64    `bun:"unit_price,notnull" json:"unit_price"`
	Amount      float64    `bun:"amount,notnull" json:"amount"`
	SortOrder   int        `bun:"sort_order,notnull,default:0" json:"sort_order"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

func (ii *InvoiceItemDB) ToInvoiceItem() *InvoiceItem {
	return &InvoiceItem{
		ID:          ii.ID,
		InvoiceID:   ii.InvoiceID,
		Description: ii.Description,
		Quantity:    ii.Quantity,
		UnitPrice:   ii.UnitPrice,
		Amount:      ii.Amount,
		SortOrder:   ii.SortOrder,
		CreatedAt:   ii.CreatedAt,
	}
}

func InvoiceItemFromDomain(ii *InvoiceItem) *InvoiceItemDB {
	return &InvoiceItemDB{
		ID:          ii.ID,
		InvoiceID:   ii.InvoiceID,
		Description: ii.Description,
		Quantity:    ii.Quantity,
		UnitPrice:   ii.UnitPrice,
		Amount:      ii.Amount,
		SortOrder:   ii.SortOrder,
		CreatedAt:   ii.CreatedAt,
	}
}

type TrialDB struct {
	bun.BaseModel `bun:"table:trials,alias:t"`

	ID         string          `bun:"id,pk,type:uuid" json:"id"`
	UserID     string          `bun:"user_id,notnull,type:uuid" json:"user_id"`
	User       *UserDB         `bun:"rel:belongs-to,join:user_id=id"`
	Plan       Plan            `bun:"plan,notnull" json:"plan"`
	Status     TrialStatus     `bun:"status,notnull,default:'active'" json:"status"`
	StartsAt   time.Time       `bun:"starts_at,notnull" json:"starts_at"`
	EndsAt     time.Time       `bun:"ends_at,notnull" json:"ends_at"`
	Features   map[string]bool `bun:"features,type:jsonb" json:"features"`
	UsageStats TrialUsage      `bun:"usage_stats,type:jsonb" json:"usage_stats"`
	CreatedAt  time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time       `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

func (t *TrialDB) ToTrial() *Trial {
	return &Trial{
		ID:         t.ID,
		UserID:     t.UserID,
		Plan:       t.Plan,
		Status:     t.Status,
		StartsAt:   t.StartsAt,
		EndsAt:     t.EndsAt,
		Features:   t.Features,
		UsageStats: t.UsageStats,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func TrialFromDomain(t *Trial) *TrialDB {
	return &TrialDB{
		ID:         t.ID,
		UserID:     t.UserID,
		Plan:       t.Plan,
		Status:     t.Status,
		StartsAt:   t.StartsAt,
		EndsAt:     t.EndsAt,
		Features:   t.Features,
		UsageStats: t.UsageStats,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// InvoiceSequenceDB is the store-side counter behind invoice number allocation.
// One row per (user, year); last_value is bumped inside the same transaction
// that inserts the invoice.
type InvoiceSequenceDB struct {
	bun.BaseModel `bun:"table:invoice_sequences,alias:seq"`

	ID        string    `bun:"id,pk,type:uuid" json:"id"`
	UserID    string    `bun:"user_id,notnull,type:uuid,unique:user_year" json:"user_id"`
	Year      int       `bun:"year,notnull,unique:user_year" json:"year"`
	LastValue int64     `bun:"last_value,notnull,default:0" json:"last_value"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
