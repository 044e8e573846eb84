package billing_fx

import (
	"os"

	"go.uber.org/fx"

	"carelink/internal/infra"
	"carelink/internal/services"
)

var Module = fx.Provide(
	provideBillingClient)

func provideBillingClient() services.BillingClient {
	return infra.NewStripeBillingClient(os.Getenv("STRIPE_SECRET_KEY"))
}
