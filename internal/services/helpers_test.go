package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"carelink/internal/models/db_models"
)

type testFixtures struct {
	db *gorm.DB
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&db_models.Account{},
		&db_models.PractitionerProfile{},
		&db_models.ProfessionalProfile{},
		&db_models.CaregiverProfile{},
		&db_models.FamilyLink{},
		&db_models.CaregiverAssignment{},
		&db_models.Plan{},
		&db_models.Subscription{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fakeBilling records every provider call so tests can assert on side effects
// without a network.
type fakeBilling struct {
	customers int
	prices    int
	subs      int
	cancelled []string

	subStatus        string
	failCustomer     bool
	failPrice        bool
	failSubscription bool
}

func (f *fakeBilling) CreateCustomer(_ context.Context, _, _ string, _ map[string]string) (string, error) {
	if f.failCustomer {
		return "", errors.New("provider down")
	}
	f.customers++
	return fmt.Sprintf("cus_test_%d", f.customers), nil
}

func (f *fakeBilling) CreateRecurringPrice(_ context.Context, _, _ string, _ int64, _ string) (string, error) {
	if f.failPrice {
		return "", errors.New("provider down")
	}
	f.prices++
	return fmt.Sprintf("price_test_%d", f.prices), nil
}

func (f *fakeBilling) CreateSubscription(_ context.Context, _, _ string) (BillingSubscriptionResult, error) {
	if f.failSubscription {
		return BillingSubscriptionResult{}, errors.New("provider down")
	}
	f.subs++
	status := f.subStatus
	if status == "" {
		status = "active"
	}
	return BillingSubscriptionResult{
		ExternalID: fmt.Sprintf("sub_test_%d", f.subs),
		Status:     status,
	}, nil
}

func (f *fakeBilling) CancelSubscription(_ context.Context, externalSubscriptionID string) error {
	f.cancelled = append(f.cancelled, externalSubscriptionID)
	return nil
}

func (f *fakeBilling) GetProduct(_ context.Context, _ string) (BillingProduct, error) {
	return BillingProduct{Name: "Test Product", Description: "test"}, nil
}

func seedAccount(t *testing.T, db *gorm.DB, role db_models.Role) *db_models.Account {
	t.Helper()

	customerID := "cus_seed_" + uuid.NewString()[:8]
	account := &db_models.Account{
		FullName:          "Test User",
		Email:             uuid.NewString() + "@example.com",
		PasswordHash:      "not-a-real-hash",
		IsActive:          true,
		Role:              role,
		BillingCustomerID: &customerID,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return account
}

func seedPlan(t *testing.T, db *gorm.DB, name string, priceUSD float64, externalPriceID *string, features string) *db_models.Plan {
	t.Helper()

	plan := &db_models.Plan{
		Name:            name,
		PriceUSD:        priceUSD,
		Currency:        "usd",
		ExternalPriceID: externalPriceID,
		Features:        []byte(features),
		IsActive:        true,
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return plan
}

func strPtr(s string) *string { return &s }
