package request_models

type CreatePlanRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	PriceUSD    float64 `json:"price_usd"`

	// Explicit feature set. When empty, defaults are derived from the name.
	Features map[string]interface{} `json:"features"`
}

type ChangeSubscriptionRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

type InsightRequest struct {
	Topic string `json:"topic" binding:"required"`
}
