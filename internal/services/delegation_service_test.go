package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"carelink/internal/models/db_models"
	"carelink/internal/models/request_models"
	"carelink/internal/repositories"
	"carelink/pkg/utils"
)

func newDelegationService(t *testing.T) (DelegationServiceInterface, *testFixtures) {
	t.Helper()

	db := newTestDB(t)
	svc := NewDelegationService(
		repositories.NewDelegationRepository(db),
		repositories.NewAccountRepository(db),
	)
	return svc, &testFixtures{db: db}
}

func TestCreateLinkIsIdempotent(t *testing.T) {
	svc, f := newDelegationService(t)
	grantor := seedAccount(t, f.db, db_models.RolePrimaryHolder)
	grantee := seedAccount(t, f.db, db_models.RoleFamilyMember)

	first, created, err := svc.CreateLink(context.Background(), grantor.ID, grantee.ID, "spouse", "read")
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if !created {
		t.Error("first create reported created=false")
	}

	second, created, err := svc.CreateLink(context.Background(), grantor.ID, grantee.ID, "spouse", "read")
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if created {
		t.Error("second create reported created=true")
	}
	if second.ID != first.ID {
		t.Error("second create returned a different link")
	}

	var count int64
	f.db.Model(&db_models.FamilyLink{}).Count(&count)
	if count != 1 {
		t.Errorf("link rows = %d, want 1", count)
	}
}

func TestCreateLinkRejectsSelf(t *testing.T) {
	svc, f := newDelegationService(t)
	account := seedAccount(t, f.db, db_models.RolePrimaryHolder)

	_, _, err := svc.CreateLink(context.Background(), account.ID, account.ID, "self", "read")
	if !errors.Is(err, utils.ErrSelfLink) {
		t.Fatalf("err = %v, want ErrSelfLink", err)
	}
}

func TestCreateLinkUnknownGrantee(t *testing.T) {
	svc, f := newDelegationService(t)
	grantor := seedAccount(t, f.db, db_models.RolePrimaryHolder)
	ghost := seedAccount(t, f.db, db_models.RoleFamilyMember)
	f.db.Unscoped().Delete(ghost)

	_, _, err := svc.CreateLink(context.Background(), grantor.ID, ghost.ID, "spouse", "read")
	if !errors.Is(err, utils.ErrAccountNotFound) {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestCreateLinkValidatesPermission(t *testing.T) {
	svc, f := newDelegationService(t)
	grantor := seedAccount(t, f.db, db_models.RolePrimaryHolder)
	grantee := seedAccount(t, f.db, db_models.RoleFamilyMember)

	_, _, err := svc.CreateLink(context.Background(), grantor.ID, grantee.ID, "spouse", "root")
	if !errors.Is(err, utils.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	// Empty permission defaults to read.
	link, _, err := svc.CreateLink(context.Background(), grantor.ID, grantee.ID, "spouse", "")
	if err != nil {
		t.Fatalf("create with default permission: %v", err)
	}
	if link.Permission != db_models.PermissionRead {
		t.Errorf("permission = %q, want read", link.Permission)
	}
}

func TestIsAuthorized(t *testing.T) {
	svc, f := newDelegationService(t)
	owner := seedAccount(t, f.db, db_models.RolePrimaryHolder)
	other := seedAccount(t, f.db, db_models.RoleFamilyMember)

	// The owner needs no link.
	ok, err := svc.IsAuthorized(context.Background(), owner.ID, owner.ID)
	if err != nil || !ok {
		t.Fatalf("owner authorized = %v, err = %v, want true", ok, err)
	}

	ok, err = svc.IsAuthorized(context.Background(), owner.ID, other.ID)
	if err != nil {
		t.Fatalf("is authorized: %v", err)
	}
	if ok {
		t.Error("unlinked account authorized, want false")
	}

	if _, _, err := svc.CreateLink(context.Background(), owner.ID, other.ID, "spouse", "read"); err != nil {
		t.Fatalf("create link: %v", err)
	}
	ok, err = svc.IsAuthorized(context.Background(), owner.ID, other.ID)
	if err != nil || !ok {
		t.Fatalf("linked account authorized = %v, err = %v, want true", ok, err)
	}
}

func TestRemoveLinkRevokesAccess(t *testing.T) {
	svc, f := newDelegationService(t)
	owner := seedAccount(t, f.db, db_models.RolePrimaryHolder)
	other := seedAccount(t, f.db, db_models.RoleFamilyMember)

	if _, _, err := svc.CreateLink(context.Background(), owner.ID, other.ID, "spouse", "read"); err != nil {
		t.Fatalf("create link: %v", err)
	}
	if err := svc.RemoveLink(context.Background(), owner.ID, other.ID); err != nil {
		t.Fatalf("remove link: %v", err)
	}

	ok, err := svc.IsAuthorized(context.Background(), owner.ID, other.ID)
	if err != nil {
		t.Fatalf("is authorized: %v", err)
	}
	if ok {
		t.Error("access still granted after removal")
	}
}

func TestAssignCaregiverRequiresPrimaryHolder(t *testing.T) {
	svc, f := newDelegationService(t)
	caregiver := seedAccount(t, f.db, db_models.RoleCaregiver)
	patient := seedAccount(t, f.db, db_models.RoleFamilyMember)

	req := request_models.CaregiverAssignmentRequest{
		CaregiverID: caregiver.ID.String(),
		PatientID:   patient.ID.String(),
		Tasks:       []string{"medication"},
	}

	_, err := svc.AssignCaregiver(context.Background(), db_models.RoleFamilyMember, req)
	if !errors.Is(err, utils.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	assignment, err := svc.AssignCaregiver(context.Background(), db_models.RolePrimaryHolder, req)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	var tasks []string
	if err := json.Unmarshal(assignment.Tasks, &tasks); err != nil {
		t.Fatalf("unmarshal tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0] != "medication" {
		t.Errorf("tasks = %v, want [medication]", tasks)
	}
}

func TestAssignCaregiverValidatesIDs(t *testing.T) {
	svc, f := newDelegationService(t)
	patient := seedAccount(t, f.db, db_models.RoleFamilyMember)

	_, err := svc.AssignCaregiver(context.Background(), db_models.RolePrimaryHolder, request_models.CaregiverAssignmentRequest{
		CaregiverID: "not-a-uuid",
		PatientID:   patient.ID.String(),
	})
	if !errors.Is(err, utils.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	_, err = svc.AssignCaregiver(context.Background(), db_models.RolePrimaryHolder, request_models.CaregiverAssignmentRequest{
		CaregiverID: patient.ID.String(),
		PatientID:   patient.ID.String(),
	})
	if !errors.Is(err, utils.ErrSelfLink) {
		t.Fatalf("err = %v, want ErrSelfLink", err)
	}
}

func TestListPatientAssignmentsRequiresDelegation(t *testing.T) {
	svc, f := newDelegationService(t)
	holder := seedAccount(t, f.db, db_models.RolePrimaryHolder)
	caregiver := seedAccount(t, f.db, db_models.RoleCaregiver)
	patient := seedAccount(t, f.db, db_models.RoleFamilyMember)

	_, err := svc.AssignCaregiver(context.Background(), db_models.RolePrimaryHolder, request_models.CaregiverAssignmentRequest{
		CaregiverID: caregiver.ID.String(),
		PatientID:   patient.ID.String(),
		Tasks:       []string{"meals"},
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	// The patient sees their own assignments.
	assignments, err := svc.ListPatientAssignments(context.Background(), patient.ID, patient.ID)
	if err != nil {
		t.Fatalf("list as patient: %v", err)
	}
	if len(assignments) != 1 {
		t.Fatalf("assignments = %d, want 1", len(assignments))
	}

	// An unlinked account does not.
	_, err = svc.ListPatientAssignments(context.Background(), holder.ID, patient.ID)
	if !errors.Is(err, utils.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	// A delegation link opens access.
	if _, _, err := svc.CreateLink(context.Background(), patient.ID, holder.ID, "parent", "manage"); err != nil {
		t.Fatalf("create link: %v", err)
	}
	assignments, err = svc.ListPatientAssignments(context.Background(), holder.ID, patient.ID)
	if err != nil {
		t.Fatalf("list as delegate: %v", err)
	}
	if len(assignments) != 1 {
		t.Fatalf("assignments = %d, want 1", len(assignments))
	}
}

func TestGetCaregiverProfileNotFound(t *testing.T) {
	svc, f := newDelegationService(t)
	account := seedAccount(t, f.db, db_models.RoleFamilyMember)

	_, err := svc.GetCaregiverProfile(context.Background(), account.ID)
	if !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	profile := &db_models.CaregiverProfile{AccountID: account.ID, Name: "Kim", Phone: "555-0100"}
	if err := f.db.Create(profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	got, err := svc.GetCaregiverProfile(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if got.Name != "Kim" {
		t.Errorf("name = %q, want Kim", got.Name)
	}
}
