package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"carelink/internal/services"
	"carelink/pkg/utils"
)

// WebhookController ingests billing provider events. It is the only write path
// for the plan catalog sync and for post-creation subscription status moves.
type WebhookController struct {
	planService         services.PlanServiceInterface
	subscriptionService services.SubscriptionServiceInterface
	billing             services.BillingClient
	signingSecret       string
}

func NewWebhookController(
	planService services.PlanServiceInterface,
	subscriptionService services.SubscriptionServiceInterface,
	billing services.BillingClient,
) *WebhookController {
	return &WebhookController{
		planService:         planService,
		subscriptionService: subscriptionService,
		billing:             billing,
		signingSecret:       os.Getenv("STRIPE_WEBHOOK_SECRET"),
	}
}

// HandleEvent godoc
// @Summary Billing provider webhook endpoint
// @Description Verifies the event signature and applies catalog and subscription updates
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /webhooks/billing [post]
func (w *WebhookController) HandleEvent(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Unreadable payload")
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), w.signingSecret)
	if err != nil {
		log.WithError(err).Warn("webhook signature verification failed")
		utils.RespondError(c, http.StatusBadRequest, "Invalid signature")
		return
	}

	switch event.Type {
	case "price.created", "price.updated":
		w.handlePriceEvent(c, event)
	case "customer.subscription.updated":
		w.handleSubscriptionEvent(c, event, "")
	case "customer.subscription.deleted":
		w.handleSubscriptionEvent(c, event, "canceled")
	default:
		// Unhandled event types are acknowledged so the provider stops retrying.
		log.WithField("type", event.Type).Debug("ignoring webhook event")
		utils.RespondSuccess(c, gin.H{"received": true}, "Event ignored")
	}
}

func (w *WebhookController) handlePriceEvent(c *gin.Context, event stripe.Event) {
	var price stripe.Price
	if err := json.Unmarshal(event.Data.Raw, &price); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Malformed price event")
		return
	}

	name := price.Nickname
	description := ""
	if price.Product != nil && price.Product.ID != "" {
		product, err := w.billing.GetProduct(c.Request.Context(), price.Product.ID)
		if err != nil {
			// Returning non-2xx makes the provider redeliver once the product
			// API is reachable again.
			log.WithError(err).WithField("product_id", price.Product.ID).Warn("product lookup failed")
			utils.RespondError(c, http.StatusBadGateway, "Product lookup failed")
			return
		}
		name = product.Name
		description = product.Description
	}

	if err := w.planService.UpsertPlan(c.Request.Context(), price.ID, name, description, price.UnitAmount, string(price.Currency)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"received": true}, "Plan catalog updated")
}

func (w *WebhookController) handleSubscriptionEvent(c *gin.Context, event stripe.Event, statusOverride string) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Malformed subscription event")
		return
	}

	status := string(sub.Status)
	if statusOverride != "" {
		status = statusOverride
	}

	err := w.subscriptionService.UpdateStatusByExternalID(c.Request.Context(), sub.ID, status)
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		utils.HandleServiceError(c, err)
		return
	}
	// Unknown subscription ids are acknowledged: the row may already have been
	// replaced locally, and redelivery would never succeed.

	utils.RespondSuccess(c, gin.H{"received": true}, "Subscription status updated")
}
