package subscription_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"carelink/internal/api/controllers"
	"carelink/internal/repositories"
	"carelink/internal/services"
)

var Module = fx.Provide(
	provideSubscriptionRepo, provideSubscriptionService,
	controllers.NewSubscriptionController, controllers.NewWebhookController)

func provideSubscriptionRepo(db *gorm.DB) repositories.ISubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func provideSubscriptionService(
	db *gorm.DB,
	subRepo repositories.ISubscriptionRepository,
	planRepo repositories.IPlanRepository,
	accountRepo repositories.AccountRepository,
	billing services.BillingClient,
) services.SubscriptionServiceInterface {
	return services.NewSubscriptionService(db, subRepo, planRepo, accountRepo, billing)
}
