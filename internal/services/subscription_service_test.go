package services

import (
	"context"
	"errors"
	"testing"

	"carelink/internal/models/db_models"
	"carelink/internal/repositories"
	"carelink/pkg/utils"
)

func newSubscriptionService(t *testing.T) (SubscriptionServiceInterface, *fakeBilling, *testFixtures) {
	t.Helper()

	db := newTestDB(t)
	billing := &fakeBilling{}
	svc := NewSubscriptionService(
		db,
		repositories.NewSubscriptionRepository(db),
		repositories.NewPlanRepository(db),
		repositories.NewAccountRepository(db),
		billing,
	)
	return svc, billing, &testFixtures{db: db}
}

func TestChangeSubscriptionKeepsSingleRow(t *testing.T) {
	svc, billing, f := newSubscriptionService(t)
	account := seedAccount(t, f.db, db_models.RolePrimaryHolder)
	premium := seedPlan(t, f.db, "Premium", 9.99, strPtr("price_premium"), `{"ai_insights":true}`)
	provider := seedPlan(t, f.db, "Provider", 29.99, strPtr("price_provider"), `{"ehr_access":true}`)

	first, err := svc.ChangeSubscription(context.Background(), account.ID, premium.ID)
	if err != nil {
		t.Fatalf("first change: %v", err)
	}
	if first.Status != db_models.SubStatusActive {
		t.Errorf("status = %s, want active", first.Status)
	}

	second, err := svc.ChangeSubscription(context.Background(), account.ID, provider.ID)
	if err != nil {
		t.Fatalf("second change: %v", err)
	}
	if second.PlanID != provider.ID {
		t.Error("second change did not land on the new plan")
	}

	var count int64
	f.db.Model(&db_models.Subscription{}).Count(&count)
	if count != 1 {
		t.Errorf("subscription rows = %d, want 1", count)
	}

	// The replaced provider subscription must have been cancelled upstream.
	if len(billing.cancelled) != 1 || billing.cancelled[0] != *first.ExternalSubscriptionID {
		t.Errorf("cancelled = %v, want [%s]", billing.cancelled, *first.ExternalSubscriptionID)
	}
}

func TestChangeSubscriptionToFreePlan(t *testing.T) {
	svc, billing, f := newSubscriptionService(t)
	account := seedAccount(t, f.db, db_models.RoleFamilyMember)
	free := seedPlan(t, f.db, "Freemium", 0, nil, `{"ai_insights":false}`)

	sub, err := svc.ChangeSubscription(context.Background(), account.ID, free.ID)
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	if sub.ExternalSubscriptionID != nil {
		t.Error("free plan subscription got an external id")
	}
	if sub.Status != db_models.SubStatusActive {
		t.Errorf("status = %s, want active", sub.Status)
	}
	if billing.subs != 0 {
		t.Errorf("provider subscriptions created = %d, want 0", billing.subs)
	}
}

func TestChangeSubscriptionRejectsInactivePlan(t *testing.T) {
	svc, _, f := newSubscriptionService(t)
	account := seedAccount(t, f.db, db_models.RolePrimaryHolder)
	plan := seedPlan(t, f.db, "Retired", 9.99, strPtr("price_retired"), `{}`)
	f.db.Model(plan).Update("is_active", false)

	_, err := svc.ChangeSubscription(context.Background(), account.ID, plan.ID)
	if !errors.Is(err, utils.ErrPlanInactive) {
		t.Fatalf("err = %v, want ErrPlanInactive", err)
	}
}

func TestChangeSubscriptionUnknownPlan(t *testing.T) {
	svc, _, f := newSubscriptionService(t)
	account := seedAccount(t, f.db, db_models.RolePrimaryHolder)
	ghost := seedPlan(t, f.db, "Ghost", 0, nil, `{}`)
	f.db.Unscoped().Delete(ghost)

	_, err := svc.ChangeSubscription(context.Background(), account.ID, ghost.ID)
	if !errors.Is(err, utils.ErrPlanNotFound) {
		t.Fatalf("err = %v, want ErrPlanNotFound", err)
	}
}

func TestChangeSubscriptionProviderFailureKeepsCurrent(t *testing.T) {
	svc, billing, f := newSubscriptionService(t)
	account := seedAccount(t, f.db, db_models.RolePrimaryHolder)
	premium := seedPlan(t, f.db, "Premium", 9.99, strPtr("price_p1"), `{}`)
	provider := seedPlan(t, f.db, "Provider", 29.99, strPtr("price_p2"), `{}`)

	if _, err := svc.ChangeSubscription(context.Background(), account.ID, premium.ID); err != nil {
		t.Fatalf("initial change: %v", err)
	}

	billing.failSubscription = true
	_, err := svc.ChangeSubscription(context.Background(), account.ID, provider.ID)
	if !errors.Is(err, utils.ErrDependency) {
		t.Fatalf("err = %v, want ErrDependency", err)
	}

	var sub db_models.Subscription
	if err := f.db.First(&sub, "account_id = ?", account.ID).Error; err != nil {
		t.Fatalf("find subscription: %v", err)
	}
	if sub.PlanID != premium.ID {
		t.Error("failed change moved the account off its current plan")
	}
}

func TestUpdateStatusByExternalID(t *testing.T) {
	svc, _, f := newSubscriptionService(t)
	account := seedAccount(t, f.db, db_models.RolePrimaryHolder)
	premium := seedPlan(t, f.db, "Premium", 9.99, strPtr("price_status"), `{}`)

	sub, err := svc.ChangeSubscription(context.Background(), account.ID, premium.ID)
	if err != nil {
		t.Fatalf("change: %v", err)
	}

	if err := svc.UpdateStatusByExternalID(context.Background(), *sub.ExternalSubscriptionID, "past_due"); err != nil {
		t.Fatalf("update status: %v", err)
	}

	var got db_models.Subscription
	if err := f.db.First(&got, "id = ?", sub.ID).Error; err != nil {
		t.Fatalf("find subscription: %v", err)
	}
	if got.Status != db_models.SubStatusPastDue {
		t.Errorf("status = %s, want past_due", got.Status)
	}

	err = svc.UpdateStatusByExternalID(context.Background(), "sub_unknown", "canceled")
	if !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetStatusWithoutSubscription(t *testing.T) {
	svc, _, f := newSubscriptionService(t)
	account := seedAccount(t, f.db, db_models.RoleFamilyMember)

	status, err := svc.GetStatus(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	if status.Status != "inactive" {
		t.Errorf("status = %q, want inactive", status.Status)
	}
	if status.Plan != FreeTierPlanName {
		t.Errorf("plan = %q, want %s", status.Plan, FreeTierPlanName)
	}
}

func TestGetStatusReportsPlanFeatures(t *testing.T) {
	svc, _, f := newSubscriptionService(t)
	account := seedAccount(t, f.db, db_models.RolePrimaryHolder)
	premium := seedPlan(t, f.db, "Premium", 9.99, strPtr("price_feat"), `{"ai_insights":true,"max_health_entries":100}`)

	if _, err := svc.ChangeSubscription(context.Background(), account.ID, premium.ID); err != nil {
		t.Fatalf("change: %v", err)
	}

	status, err := svc.GetStatus(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	if status.Plan != "Premium" {
		t.Errorf("plan = %q, want Premium", status.Plan)
	}
	if status.Features["ai_insights"] != true {
		t.Errorf("features = %v, want ai_insights true", status.Features)
	}
}

func TestFeatureAccessChecks(t *testing.T) {
	svc, _, f := newSubscriptionService(t)
	account := seedAccount(t, f.db, db_models.RolePrimaryHolder)

	// No subscription: soft check is false without error, strict check errors.
	ok, err := svc.HasFeatureAccess(context.Background(), account.ID, "ai_insights")
	if err != nil {
		t.Fatalf("soft check: %v", err)
	}
	if ok {
		t.Error("soft check = true without a subscription")
	}
	if err := svc.RequireFeature(context.Background(), account.ID, "ai_insights"); !errors.Is(err, utils.ErrNoSubscription) {
		t.Fatalf("strict check err = %v, want ErrNoSubscription", err)
	}

	free := seedPlan(t, f.db, "Freemium", 0, nil, `{"ai_insights":false}`)
	if _, err := svc.ChangeSubscription(context.Background(), account.ID, free.ID); err != nil {
		t.Fatalf("change: %v", err)
	}

	if err := svc.RequireFeature(context.Background(), account.ID, "ai_insights"); !errors.Is(err, utils.ErrForbidden) {
		t.Fatalf("strict check err = %v, want ErrForbidden", err)
	}

	premium := seedPlan(t, f.db, "Premium", 9.99, strPtr("price_req"), `{"ai_insights":true}`)
	if _, err := svc.ChangeSubscription(context.Background(), account.ID, premium.ID); err != nil {
		t.Fatalf("change: %v", err)
	}
	if err := svc.RequireFeature(context.Background(), account.ID, "ai_insights"); err != nil {
		t.Fatalf("strict check on premium: %v", err)
	}
}
