package insight_fx

import (
	"os"

	"go.uber.org/fx"

	"carelink/internal/api/controllers"
	"carelink/internal/services"
	"carelink/pkg/utils"
)

var Module = fx.Provide(
	provideInsightClient, provideInsightService, controllers.NewInsightController)

func provideInsightClient() utils.InsightClientInterface {
	return utils.NewOpenAIInsightClient(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_MODEL"))
}

func provideInsightService(
	client utils.InsightClientInterface,
	subscription services.SubscriptionServiceInterface,
) services.InsightServiceInterface {
	return services.NewInsightService(client, subscription)
}
