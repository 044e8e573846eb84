package response_models

import "github.com/google/uuid"

type PlanResponse struct {
	ID              uuid.UUID              `json:"id"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description,omitempty"`
	PriceUSD        float64                `json:"price_usd"`
	Currency        string                 `json:"currency"`
	ExternalPriceID *string                `json:"external_price_id,omitempty"`
	Features        map[string]interface{} `json:"features"`
	IsActive        bool                   `json:"is_active"`
}

// SubscriptionStatusResponse is the dashboard-style soft read: absence of a
// subscription row renders as the implicit free tier, never as an error.
type SubscriptionStatusResponse struct {
	Status   string                 `json:"status"`
	Plan     string                 `json:"plan"`
	Features map[string]interface{} `json:"features,omitempty"`
}

type SubscriptionResponse struct {
	ID                     uuid.UUID `json:"id"`
	PlanID                 uuid.UUID `json:"plan_id"`
	PlanName               string    `json:"plan_name,omitempty"`
	Status                 string    `json:"status"`
	ExternalSubscriptionID *string   `json:"external_subscription_id,omitempty"`
	StartedAt              int64     `json:"started_at"`
}

type InsightResponse struct {
	Insight string `json:"insight"`
}
