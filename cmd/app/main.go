package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"carelink/cmd/fx/account_fx"
	"carelink/cmd/fx/billing_fx"
	"carelink/cmd/fx/db_fx"
	"carelink/cmd/fx/delegation_fx"
	"carelink/cmd/fx/insight_fx"
	"carelink/cmd/fx/plan_fx"
	"carelink/cmd/fx/subscription_fx"
	"carelink/internal/api/controllers"
	"carelink/internal/models/db_models"
	"carelink/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment")
	}

	app := fx.New(
		db_fx.Module,
		billing_fx.Module,
		account_fx.Module,
		delegation_fx.Module,
		plan_fx.Module,
		subscription_fx.Module,
		insight_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(Migrate),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&db_models.Account{},
		&db_models.PractitionerProfile{},
		&db_models.ProfessionalProfile{},
		&db_models.CaregiverProfile{},
		&db_models.FamilyLink{},
		&db_models.CaregiverAssignment{},
		&db_models.Plan{},
		&db_models.Subscription{},
	)
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.WithField("port", port).Info("starting HTTP server")
				if err := engine.Run(":" + port); err != nil {
					log.WithError(err).Fatal("failed to start server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	accountController *controllers.AccountController,
	delegationController *controllers.DelegationController,
	subscriptionController *controllers.SubscriptionController,
	webhookController *controllers.WebhookController,
	insightController *controllers.InsightController) *gin.Engine {

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, accountController, delegationController, subscriptionController, webhookController, insightController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	accountController *controllers.AccountController,
	delegationController *controllers.DelegationController,
	subscriptionController *controllers.SubscriptionController,
	webhookController *controllers.WebhookController,
	insightController *controllers.InsightController) {

	auth := r.Group("/auth")
	auth.POST("/register", accountController.Register)
	auth.POST("/login", accountController.Login)

	users := r.Group("/users", middleware.JWTAuthMiddleware())
	users.GET("/me", accountController.GetMe)
	users.PUT("/me", accountController.UpdateMe)
	users.GET("/all", accountController.GetAllAccounts)

	roles := r.Group("/roles", middleware.JWTAuthMiddleware())
	roles.GET("/me", accountController.GetRole)
	roles.POST("/update", accountController.UpdateRole)

	family := r.Group("/family", middleware.JWTAuthMiddleware())
	family.POST("/members", delegationController.AddFamilyMember)
	family.GET("/members", delegationController.ListMyFamilyMembers)
	family.GET("/granted-to-me", delegationController.ListAccessGrantedToMe)
	family.DELETE("/members/:family_member_id", delegationController.RemoveFamilyMember)

	caregivers := r.Group("/caregivers", middleware.JWTAuthMiddleware())
	caregivers.POST("/assign", delegationController.AssignCaregiver)
	caregivers.GET("/:account_id/profile", delegationController.GetCaregiverProfile)
	caregivers.GET("/patients/:patient_id/assignments", delegationController.ListPatientAssignments)

	subscriptions := r.Group("/subscriptions")
	subscriptions.GET("/plans", subscriptionController.ListPlans)
	subscriptions.POST("/plans",
		middleware.JWTAuthMiddleware(),
		middleware.RequireRoles(string(db_models.RoleAdmin)),
		subscriptionController.CreatePlan)
	subscriptions.DELETE("/plans/:plan_id",
		middleware.JWTAuthMiddleware(),
		middleware.RequireRoles(string(db_models.RoleAdmin)),
		subscriptionController.DeactivatePlan)
	subscriptions.GET("/status", middleware.JWTAuthMiddleware(), subscriptionController.GetStatus)
	subscriptions.POST("/change", middleware.JWTAuthMiddleware(), subscriptionController.ChangeSubscription)

	insights := r.Group("/insights", middleware.JWTAuthMiddleware())
	insights.POST("/generate", insightController.GenerateInsight)

	// Signature-verified, so no JWT on this one.
	r.POST("/webhooks/billing", webhookController.HandleEvent)
}
