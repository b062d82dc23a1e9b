package models

import "time"

type TrialStatus string

const (
	TrialStatusActive    TrialStatus = "active"
	TrialStatusExpired   TrialStatus = "expired"
	TrialStatusCancelled TrialStatus = "cancelled"
	TrialStatusConverted TrialStatus = "converted"
)

// TrialUsage is the counter bag tracked over the life of a trial. Counters are
// bumped by the (out-of-scope) request handlers; this layer only initializes
// and stores them.
type TrialUsage struct {
	InvoicesCreated int `json:"invoices_created"`
	ClientsAdded    int `json:"clients_added"`
	RemindersSent   int `json:"reminders_sent"`
	ReportsViewed   int `json:"reports_viewed"`
}

type Trial struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Plan       Plan            `json:"plan"`
	Status     TrialStatus     `json:"status"`
	StartsAt   time.Time       `json:"starts_at"`
	EndsAt     time.Time       `json:"ends_at"`
	Features   map[string]bool `json:"features"`
	UsageStats TrialUsage      `json:"usage_stats"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
