package models

import "time"

type Plan string

const (
	PlanTrial        Plan = "trial"
	PlanProfessional Plan = "professional"
	PlanEnterprise   Plan = "enterprise"
)

type User struct {
	ID          string    `json:"id"`
	FirebaseUID string    `json:"firebase_uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Plan        Plan      `json:"plan"`
	TrialEndsAt time.Time `json:"trial_ends_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
