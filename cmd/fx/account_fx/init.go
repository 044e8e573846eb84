package account_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"carelink/internal/api/controllers"
	"carelink/internal/repositories"
	"carelink/internal/services"
)

var Module = fx.Provide(
	provideAccountRepo, provideAccountService, controllers.NewAccountController)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideAccountService(
	db *gorm.DB,
	accountRepo repositories.AccountRepository,
	subRepo repositories.ISubscriptionRepository,
	billing services.BillingClient,
) services.AccountServiceInterface {
	return services.NewAccountService(db, accountRepo, subRepo, billing)
}
