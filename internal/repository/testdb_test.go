package repository_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3" // test database driver

	"github.com/chefrecommends/backend/internal/model"
	"github.com/chefrecommends/backend/internal/repository"
)

// testSchema mirrors the production schema in SQLite's dialect,
// including the generated open_marker column backing the unique
// open-claim index.
const testSchema = `
CREATE TABLE restaurants (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	slug             TEXT NOT NULL,
	street           TEXT NOT NULL DEFAULT '',
	city             TEXT NOT NULL,
	state            TEXT NOT NULL DEFAULT '',
	zip              TEXT NOT NULL DEFAULT '',
	latitude         REAL,
	longitude        REAL,
	cuisine          TEXT,
	phone            TEXT NOT NULL DEFAULT '',
	website          TEXT NOT NULL DEFAULT '',
	hours            TEXT NOT NULL DEFAULT '',
	photos           TEXT,
	claimed          BOOLEAN NOT NULL DEFAULT 0,
	claimed_at       DATETIME,
	owner_id         TEXT,
	chef_dish        TEXT,
	chef_description TEXT,
	chef_photo       TEXT,
	chef_updated_at  DATETIME,
	created_at       DATETIME NOT NULL,
	updated_at       DATETIME NOT NULL,
	UNIQUE (slug, city)
);

CREATE TABLE claims (
	id                  TEXT PRIMARY KEY,
	restaurant_id       TEXT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
	owner_name          TEXT NOT NULL,
	owner_email         TEXT NOT NULL,
	owner_phone         TEXT NOT NULL,
	role                TEXT NOT NULL,
	verification_method TEXT NOT NULL,
	status              TEXT NOT NULL DEFAULT 'pending',
	verification_notes  TEXT NOT NULL DEFAULT '',
	created_at          DATETIME NOT NULL,
	reviewed_at         DATETIME,
	reviewed_by         TEXT,
	open_marker         TEXT GENERATED ALWAYS AS
		(CASE WHEN status IN ('pending','approved') THEN owner_email END) VIRTUAL
);

CREATE UNIQUE INDEX uq_claims_open ON claims(restaurant_id, open_marker);
`

// setupTestDB opens an in-memory SQLite database with the test schema.
// MaxOpenConns(1) keeps the pool on the single connection that owns
// the in-memory database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(testSchema); err != nil {
		db.Close()
		t.Fatalf("apply test schema: %v", err)
	}
	return db
}

// mustCreateRestaurant inserts a restaurant through the repository and
// fails the test on error.
func mustCreateRestaurant(t *testing.T, repo *repository.RestaurantRepo, name, slug, city, zip string) *model.Restaurant {
	t.Helper()
	rec := &model.Restaurant{
		Name: name,
		Slug: slug,
		City: city,
		Zip:  zip,
	}
	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("create restaurant %q: %v", name, err)
	}
	return rec
}

// mustCreateClaim submits a claim through the repository and fails the
// test on error.
func mustCreateClaim(t *testing.T, repo *repository.ClaimRepo, restaurantID, email string) *model.ClaimRequest {
	t.Helper()
	claim := &model.ClaimRequest{
		RestaurantID:       restaurantID,
		OwnerName:          "Joe Owner",
		OwnerEmail:         email,
		OwnerPhone:         "206-555-0123",
		Role:               "Owner",
		VerificationMethod: "call the restaurant",
	}
	if _, err := repo.Create(context.Background(), claim); err != nil {
		t.Fatalf("create claim for %s: %v", restaurantID, err)
	}
	return claim
}
