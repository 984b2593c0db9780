package database

import (
	"context"
	"database/sql"
)

// Schema is the relational shape of the directory: restaurants, claims
// and the indexes supporting slug+city lookup, city search, the claimed
// filter and the claim-status filter. The generated open_marker column
// carries the owner email only while a claim is open (pending or
// approved); the unique key over (restaurant_id, open_marker) enforces
// the one-open-claim-per-email rule under concurrent submissions,
// independent of the handler pre-check.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS restaurants (
		id               CHAR(36) PRIMARY KEY,
		name             VARCHAR(255) NOT NULL,
		slug             VARCHAR(255) NOT NULL,
		street           VARCHAR(255) NOT NULL DEFAULT '',
		city             VARCHAR(100) NOT NULL,
		state            VARCHAR(50)  NOT NULL DEFAULT '',
		zip              VARCHAR(20)  NOT NULL DEFAULT '',
		latitude         DOUBLE NULL,
		longitude        DOUBLE NULL,
		cuisine          TEXT,
		phone            VARCHAR(50)  NOT NULL DEFAULT '',
		website          VARCHAR(255) NOT NULL DEFAULT '',
		hours            VARCHAR(255) NOT NULL DEFAULT '',
		photos           TEXT,
		claimed          BOOLEAN NOT NULL DEFAULT FALSE,
		claimed_at       DATETIME NULL,
		owner_id         CHAR(36) NULL,
		chef_dish        VARCHAR(255) NULL,
		chef_description TEXT NULL,
		chef_photo       VARCHAR(500) NULL,
		chef_updated_at  DATETIME NULL,
		created_at       DATETIME NOT NULL,
		updated_at       DATETIME NOT NULL,
		UNIQUE KEY uq_restaurants_slug_city (slug, city),
		KEY idx_restaurants_city (city),
		KEY idx_restaurants_zip (zip),
		KEY idx_restaurants_claimed (claimed)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS claims (
		id                  CHAR(36) PRIMARY KEY,
		restaurant_id       CHAR(36) NOT NULL,
		owner_name          VARCHAR(255) NOT NULL,
		owner_email         VARCHAR(255) NOT NULL,
		owner_phone         VARCHAR(50)  NOT NULL,
		role                VARCHAR(100) NOT NULL,
		verification_method TEXT NOT NULL,
		status              VARCHAR(20) NOT NULL DEFAULT 'pending',
		verification_notes  TEXT NOT NULL,
		created_at          DATETIME NOT NULL,
		reviewed_at         DATETIME NULL,
		reviewed_by         VARCHAR(255) NULL,
		open_marker         VARCHAR(255) GENERATED ALWAYS AS
			(CASE WHEN status IN ('pending','approved') THEN owner_email ELSE NULL END) STORED,
		UNIQUE KEY uq_claims_open (restaurant_id, open_marker),
		KEY idx_claims_status (status),
		KEY idx_claims_restaurant (restaurant_id),
		KEY idx_claims_email (owner_email),
		CONSTRAINT fk_claims_restaurant FOREIGN KEY (restaurant_id)
			REFERENCES restaurants(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Init applies the schema statements in order. Statements are
// idempotent so Init can run on every deploy.
func Init(ctx context.Context, db *sql.DB) error {
	for _, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
