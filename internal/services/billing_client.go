package services

import "context"

// BillingSubscriptionResult mirrors what the billing provider reports back when
// a subscription is created.
type BillingSubscriptionResult struct {
	ExternalID string
	Status     string
}

// BillingProduct is the provider-side product a price belongs to.
type BillingProduct struct {
	Name        string
	Description string
}

// BillingClient is the injected billing-provider surface. The production
// implementation lives in internal/infra; tests supply recording fakes.
type BillingClient interface {
	CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (string, error)
	CreateRecurringPrice(ctx context.Context, productName, description string, amountMinorUnits int64, currency string) (string, error)
	CreateSubscription(ctx context.Context, customerID, priceID string) (BillingSubscriptionResult, error)
	CancelSubscription(ctx context.Context, externalSubscriptionID string) error
	GetProduct(ctx context.Context, productID string) (BillingProduct, error)
}
