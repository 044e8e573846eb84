package infra

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"carelink/internal/services"
)

// stripeBillingClient implements services.BillingClient against the Stripe API.
// All calls run on a bounded-timeout HTTP client; a timeout is a failure, never
// a half-created local state.
type stripeBillingClient struct {
	api *client.API
}

func NewStripeBillingClient(secretKey string) services.BillingClient {
	httpClient := &http.Client{Timeout: 15 * time.Second}

	api := &client.API{}
	api.Init(secretKey, stripe.NewBackends(httpClient))

	return &stripeBillingClient{api: api}
}

func (s *stripeBillingClient) CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	customer, err := s.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create customer: %w", err)
	}
	return customer.ID, nil
}

func (s *stripeBillingClient) CreateRecurringPrice(ctx context.Context, productName, description string, amountMinorUnits int64, currency string) (string, error) {
	productParams := &stripe.ProductParams{
		Name:        stripe.String(productName),
		Description: stripe.String(description),
	}
	productParams.Context = ctx

	product, err := s.api.Products.New(productParams)
	if err != nil {
		return "", fmt.Errorf("stripe create product: %w", err)
	}

	priceParams := &stripe.PriceParams{
		UnitAmount: stripe.Int64(amountMinorUnits),
		Currency:   stripe.String(currency),
		Product:    stripe.String(product.ID),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String("month"),
		},
	}
	priceParams.Context = ctx

	price, err := s.api.Prices.New(priceParams)
	if err != nil {
		return "", fmt.Errorf("stripe create price: %w", err)
	}
	return price.ID, nil
}

func (s *stripeBillingClient) CreateSubscription(ctx context.Context, customerID, priceID string) (services.BillingSubscriptionResult, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
	}
	params.Context = ctx

	sub, err := s.api.Subscriptions.New(params)
	if err != nil {
		return services.BillingSubscriptionResult{}, fmt.Errorf("stripe create subscription: %w", err)
	}
	return services.BillingSubscriptionResult{
		ExternalID: sub.ID,
		Status:     string(sub.Status),
	}, nil
}

func (s *stripeBillingClient) CancelSubscription(ctx context.Context, externalSubscriptionID string) error {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx

	if _, err := s.api.Subscriptions.Cancel(externalSubscriptionID, params); err != nil {
		return fmt.Errorf("stripe cancel subscription: %w", err)
	}
	return nil
}

func (s *stripeBillingClient) GetProduct(ctx context.Context, productID string) (services.BillingProduct, error) {
	params := &stripe.ProductParams{}
	params.Context = ctx

	product, err := s.api.Products.Get(productID, params)
	if err != nil {
		return services.BillingProduct{}, fmt.Errorf("stripe get product: %w", err)
	}
	return services.BillingProduct{
		Name:        product.Name,
		Description: product.Description,
	}, nil
}
