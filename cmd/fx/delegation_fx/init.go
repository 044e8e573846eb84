package delegation_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"carelink/internal/api/controllers"
	"carelink/internal/repositories"
	"carelink/internal/services"
)

var Module = fx.Provide(
	provideDelegationRepo, provideDelegationService, controllers.NewDelegationController)

func provideDelegationRepo(db *gorm.DB) repositories.IDelegationRepository {
	return repositories.NewDelegationRepository(db)
}

func provideDelegationService(
	delegationRepo repositories.IDelegationRepository,
	accountRepo repositories.AccountRepository,
) services.DelegationServiceInterface {
	return services.NewDelegationService(delegationRepo, accountRepo)
}
