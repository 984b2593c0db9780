package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/chefrecommends/backend/internal/model"
	"github.com/chefrecommends/backend/internal/repository"
)

func TestClaimCreateNormalizes(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	restaurants := repository.NewRestaurantRepo(db)
	claims := repository.NewClaimRepo(db)
	rec := mustCreateRestaurant(t, restaurants, "Joe's Pizza", "joes-pizza", "Seattle", "98101")

	claim := &model.ClaimRequest{
		RestaurantID:       rec.ID,
		OwnerName:          "  Joe Owner  ",
		OwnerEmail:         "  Joe@Example.com ",
		OwnerPhone:         "206-555-0123",
		Role:               "Owner",
		VerificationMethod: "call the restaurant",
	}
	id, err := claims.Create(context.Background(), claim)
	if err != nil {
		t.Fatalf("create claim: %v", err)
	}

	got, err := claims.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get claim: %v", err)
	}
	if got.OwnerEmail != "joe@example.com" {
		t.Errorf("email not lowercased: %q", got.OwnerEmail)
	}
	if got.OwnerName != "Joe Owner" {
		t.Errorf("name not trimmed: %q", got.OwnerName)
	}
	if got.Status != model.ClaimStatusPending {
		t.Errorf("new claim must be pending, got %q", got.Status)
	}
	if got.VerificationNotes != "" || got.ReviewedAt != nil || got.ReviewedBy != nil {
		t.Errorf("review fields must start empty: notes=%q at=%v by=%v",
			got.VerificationNotes, got.ReviewedAt, got.ReviewedBy)
	}
}

func TestClaimHasOpenClaim(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	restaurants := repository.NewRestaurantRepo(db)
	claims := repository.NewClaimRepo(db)
	rec := mustCreateRestaurant(t, restaurants, "Joe's Pizza", "joes-pizza", "Seattle", "98101")
	claim := mustCreateClaim(t, claims, rec.ID, "joe@example.com")

	open, err := claims.HasOpenClaim(context.Background(), rec.ID, "Joe@Example.COM")
	if err != nil {
		t.Fatalf("has open claim: %v", err)
	}
	if !open {
		t.Error("pending claim must count as open, case-insensitively")
	}

	if err := claims.UpdateStatus(context.Background(), claim.ID, model.ClaimStatusRejected, "admin@example.com", nil); err != nil {
		t.Fatalf("reject: %v", err)
	}
	open, err = claims.HasOpenClaim(context.Background(), rec.ID, "joe@example.com")
	if err != nil {
		t.Fatalf("has open claim after reject: %v", err)
	}
	if open {
		t.Error("rejected claim must not count as open")
	}
}

func TestClaimDuplicateOpenSubmission(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	restaurants := repository.NewRestaurantRepo(db)
	claims := repository.NewClaimRepo(db)
	rec := mustCreateRestaurant(t, restaurants, "Joe's Pizza", "joes-pizza", "Seattle", "98101")
	first := mustCreateClaim(t, claims, rec.ID, "joe@example.com")

	// Same restaurant and email while the first claim is still open.
	dup := &model.ClaimRequest{
		RestaurantID:       rec.ID,
		OwnerName:          "Joe Owner",
		OwnerEmail:         "JOE@example.com",
		OwnerPhone:         "206-555-0123",
		Role:               "Owner",
		VerificationMethod: "call the restaurant",
	}
	if _, err := claims.Create(context.Background(), dup); !errors.Is(err, repository.ErrDuplicateClaim) {
		t.Fatalf("expected ErrDuplicateClaim, got %v", err)
	}

	// A different email is a different claimant.
	other := mustCreateClaim(t, claims, rec.ID, "maria@example.com")
	if other.ID == "" {
		t.Fatal("second claimant must be able to submit")
	}

	// After a rejection the same pair may submit again.
	if err := claims.UpdateStatus(context.Background(), first.ID, model.ClaimStatusRejected, "admin@example.com", nil); err != nil {
		t.Fatalf("reject: %v", err)
	}
	retry := mustCreateClaim(t, claims, rec.ID, "joe@example.com")
	if retry.ID == "" {
		t.Fatal("resubmission after rejection must succeed")
	}
}

func TestClaimUpdateStatusNotes(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	restaurants := repository.NewRestaurantRepo(db)
	claims := repository.NewClaimRepo(db)
	rec := mustCreateRestaurant(t, restaurants, "Joe's Pizza", "joes-pizza", "Seattle", "98101")

	withNotes := mustCreateClaim(t, claims, rec.ID, "joe@example.com")
	notes := "verified by phone"
	if err := claims.UpdateStatus(context.Background(), withNotes.ID, model.ClaimStatusRejected, "admin@example.com", &notes); err != nil {
		t.Fatalf("reject with notes: %v", err)
	}
	got, _ := claims.GetByID(context.Background(), withNotes.ID)
	if got.VerificationNotes != "verified by phone" {
		t.Errorf("notes not stored: %q", got.VerificationNotes)
	}
	if got.Status != model.ClaimStatusRejected || got.ReviewedAt == nil || got.ReviewedBy == nil || *got.ReviewedBy != "admin@example.com" {
		t.Errorf("review stamp wrong: status=%q at=%v by=%v", got.Status, got.ReviewedAt, got.ReviewedBy)
	}

	withoutNotes := mustCreateClaim(t, claims, rec.ID, "maria@example.com")
	if err := claims.UpdateStatus(context.Background(), withoutNotes.ID, model.ClaimStatusRejected, "admin@example.com", nil); err != nil {
		t.Fatalf("reject without notes: %v", err)
	}
	got, _ = claims.GetByID(context.Background(), withoutNotes.ID)
	if got.VerificationNotes != "" {
		t.Errorf("nil notes must leave stored notes untouched, got %q", got.VerificationNotes)
	}
}

func TestClaimUpdateStatusConflicts(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	restaurants := repository.NewRestaurantRepo(db)
	claims := repository.NewClaimRepo(db)
	rec := mustCreateRestaurant(t, restaurants, "Joe's Pizza", "joes-pizza", "Seattle", "98101")
	claim := mustCreateClaim(t, claims, rec.ID, "joe@example.com")

	if err := claims.UpdateStatus(context.Background(), claim.ID, model.ClaimStatusRejected, "admin@example.com", nil); err != nil {
		t.Fatalf("first decision: %v", err)
	}
	before, _ := claims.GetByID(context.Background(), claim.ID)

	// A decided claim is terminal.
	notes := "changed my mind"
	err := claims.UpdateStatus(context.Background(), claim.ID, model.ClaimStatusApproved, "other@example.com", &notes)
	if !errors.Is(err, repository.ErrClaimDecided) {
		t.Fatalf("expected ErrClaimDecided, got %v", err)
	}
	after, _ := claims.GetByID(context.Background(), claim.ID)
	if after.Status != before.Status || after.VerificationNotes != before.VerificationNotes ||
		*after.ReviewedBy != *before.ReviewedBy {
		t.Error("rejected re-decision must leave the claim unchanged")
	}

	err = claims.UpdateStatus(context.Background(), "b2f7c57e-0000-0000-0000-000000000000", model.ClaimStatusRejected, "admin@example.com", nil)
	if !errors.Is(err, repository.ErrClaimNotFound) {
		t.Errorf("expected ErrClaimNotFound for unknown id, got %v", err)
	}
}

func TestClaimApprove(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	restaurants := repository.NewRestaurantRepo(db)
	claims := repository.NewClaimRepo(db)
	rec := mustCreateRestaurant(t, restaurants, "Joe's Pizza", "joes-pizza", "Seattle", "98101")
	claim := mustCreateClaim(t, claims, rec.ID, "joe@example.com")

	restaurantID, err := claims.Approve(context.Background(), claim.ID, "admin@example.com", nil)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if restaurantID != rec.ID {
		t.Errorf("approve returned restaurant %q, want %q", restaurantID, rec.ID)
	}

	gotClaim, _ := claims.GetByID(context.Background(), claim.ID)
	if gotClaim.Status != model.ClaimStatusApproved || gotClaim.ReviewedAt == nil || gotClaim.ReviewedBy == nil {
		t.Errorf("claim not fully approved: status=%q at=%v by=%v",
			gotClaim.Status, gotClaim.ReviewedAt, gotClaim.ReviewedBy)
	}

	gotRec, _ := restaurants.GetByID(context.Background(), rec.ID)
	if !gotRec.Claimed || gotRec.ClaimedAt == nil || gotRec.OwnerID == nil || *gotRec.OwnerID != claim.ID {
		t.Errorf("restaurant not marked claimed: claimed=%v at=%v owner=%v",
			gotRec.Claimed, gotRec.ClaimedAt, gotRec.OwnerID)
	}

	// Terminal: a second decision conflicts and changes nothing.
	if _, err := claims.Approve(context.Background(), claim.ID, "other@example.com", nil); !errors.Is(err, repository.ErrClaimDecided) {
		t.Fatalf("expected ErrClaimDecided on re-approve, got %v", err)
	}
	again, _ := claims.GetByID(context.Background(), claim.ID)
	if *again.ReviewedBy != "admin@example.com" {
		t.Errorf("re-approve must not overwrite the reviewer, got %q", *again.ReviewedBy)
	}
}

func TestClaimApproveRollsBackOnRestaurantFailure(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	restaurants := repository.NewRestaurantRepo(db)
	claims := repository.NewClaimRepo(db)
	rec := mustCreateRestaurant(t, restaurants, "Joe's Pizza", "joes-pizza", "Seattle", "98101")
	claim := mustCreateClaim(t, claims, rec.ID, "joe@example.com")

	// Remove the restaurant from under the claim so the second write of
	// the approval transaction fails.
	if _, err := db.Exec(`DELETE FROM restaurants WHERE id = ?`, rec.ID); err != nil {
		t.Fatalf("delete restaurant: %v", err)
	}

	_, err := claims.Approve(context.Background(), claim.ID, "admin@example.com", nil)
	var pf *repository.PartialFailureError
	if !errors.As(err, &pf) {
		t.Fatalf("expected PartialFailureError, got %v", err)
	}
	if pf.ClaimID != claim.ID || pf.RestaurantID != rec.ID {
		t.Errorf("partial failure ids wrong: claim=%q restaurant=%q", pf.ClaimID, pf.RestaurantID)
	}

	// The whole transaction rolled back: the claim is still pending.
	got, _ := claims.GetByID(context.Background(), claim.ID)
	if got.Status != model.ClaimStatusPending || got.ReviewedAt != nil || got.ReviewedBy != nil {
		t.Errorf("claim must be untouched after rollback: status=%q at=%v by=%v",
			got.Status, got.ReviewedAt, got.ReviewedBy)
	}
}

func TestClaimRejectDoesNotTouchRestaurant(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	restaurants := repository.NewRestaurantRepo(db)
	claims := repository.NewClaimRepo(db)
	rec := mustCreateRestaurant(t, restaurants, "Joe's Pizza", "joes-pizza", "Seattle", "98101")
	claim := mustCreateClaim(t, claims, rec.ID, "joe@example.com")

	if err := claims.UpdateStatus(context.Background(), claim.ID, model.ClaimStatusRejected, "admin@example.com", nil); err != nil {
		t.Fatalf("reject: %v", err)
	}
	got, _ := restaurants.GetByID(context.Background(), rec.ID)
	if got.Claimed || got.ClaimedAt != nil || got.OwnerID != nil {
		t.Errorf("rejection must not mutate the restaurant: claimed=%v at=%v owner=%v",
			got.Claimed, got.ClaimedAt, got.OwnerID)
	}
}

func TestClaimListByStatus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	restaurants := repository.NewRestaurantRepo(db)
	claims := repository.NewClaimRepo(db)
	rec := mustCreateRestaurant(t, restaurants, "Joe's Pizza", "joes-pizza", "Seattle", "98101")

	older := mustCreateClaim(t, claims, rec.ID, "joe@example.com")
	newer := mustCreateClaim(t, claims, rec.ID, "maria@example.com")
	// Force distinct timestamps so the ordering is deterministic.
	if _, err := db.Exec(`UPDATE claims SET created_at = datetime(created_at, '-1 hour') WHERE id = ?`, older.ID); err != nil {
		t.Fatalf("backdate claim: %v", err)
	}

	got, err := claims.ListByStatus(context.Background(), model.ClaimStatusPending, 50)
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 pending claims, got %d", len(got))
	}
	if got[0].ID != newer.ID || got[1].ID != older.ID {
		t.Error("claims must be ordered most recent first")
	}
	if got[0].RestaurantName != "Joe's Pizza" || got[0].RestaurantCity != "Seattle" {
		t.Errorf("restaurant fields not joined: name=%q city=%q",
			got[0].RestaurantName, got[0].RestaurantCity)
	}

	approved, err := claims.ListByStatus(context.Background(), model.ClaimStatusApproved, 50)
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if len(approved) != 0 {
		t.Errorf("expected no approved claims, got %d", len(approved))
	}
}

func TestClaimCountsByStatus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	restaurants := repository.NewRestaurantRepo(db)
	claims := repository.NewClaimRepo(db)

	counts, err := claims.CountsByStatus(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	for _, s := range []string{model.ClaimStatusPending, model.ClaimStatusApproved, model.ClaimStatusRejected} {
		if counts[s] != 0 {
			t.Errorf("empty store must report zero for %s, got %d", s, counts[s])
		}
	}

	rec := mustCreateRestaurant(t, restaurants, "Joe's Pizza", "joes-pizza", "Seattle", "98101")
	a := mustCreateClaim(t, claims, rec.ID, "a@example.com")
	mustCreateClaim(t, claims, rec.ID, "b@example.com")
	if err := claims.UpdateStatus(context.Background(), a.ID, model.ClaimStatusRejected, "admin@example.com", nil); err != nil {
		t.Fatalf("reject: %v", err)
	}

	counts, err = claims.CountsByStatus(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts[model.ClaimStatusPending] != 1 || counts[model.ClaimStatusRejected] != 1 || counts[model.ClaimStatusApproved] != 0 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

// TestClaimLifecycle walks the full ownership flow: submit, approve,
// and verify the restaurant reflects the new owner.
func TestClaimLifecycle(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	restaurants := repository.NewRestaurantRepo(db)
	claims := repository.NewClaimRepo(db)
	rec := mustCreateRestaurant(t, restaurants, "Joe's Pizza", "joes-pizza", "Seattle", "98101")

	claim := &model.ClaimRequest{
		RestaurantID:       rec.ID,
		OwnerName:          "Joe Owner",
		OwnerEmail:         "Joe@X.com",
		OwnerPhone:         "206-555-0123",
		Role:               "Owner",
		VerificationMethod: "call the restaurant",
	}
	id, err := claims.Create(context.Background(), claim)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	open, err := claims.HasOpenClaim(context.Background(), rec.ID, "joe@x.com")
	if err != nil || !open {
		t.Fatalf("open claim not visible: open=%v err=%v", open, err)
	}

	if _, err := claims.Approve(context.Background(), id, "admin@example.com", nil); err != nil {
		t.Fatalf("approve: %v", err)
	}

	got, err := restaurants.GetByID(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("get restaurant: %v", err)
	}
	if !got.Claimed || got.OwnerID == nil || *got.OwnerID != id {
		t.Errorf("restaurant must be owned by the approved claim: claimed=%v owner=%v",
			got.Claimed, got.OwnerID)
	}
}
