// Package repository contains data access logic separated from HTTP
// handlers. This file defines RestaurantRepo, the repository for the
// restaurants table. Repositories hold no cached state: every call is
// a single round-trip against the injected connection pool.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chefrecommends/backend/internal/model"
)

// restaurantCols is the full column list in scan order, shared by every
// SELECT so the scan helper stays in sync with the queries.
const restaurantCols = `id, name, slug, street, city, state, zip,
	latitude, longitude, cuisine, phone, website, hours, photos,
	claimed, claimed_at, owner_id,
	chef_dish, chef_description, chef_photo, chef_updated_at,
	created_at, updated_at`

// RestaurantRepo encapsulates all database queries related to
// restaurants.
type RestaurantRepo struct {
	db *sql.DB
}

// NewRestaurantRepo constructs a RestaurantRepo with the provided DB
// handle, allowing dependency injection at startup and in tests.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo {
	return &RestaurantRepo{db: db}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(s rowScanner) (*model.Restaurant, error) {
	var (
		r             model.Restaurant
		lat, lng      sql.NullFloat64
		cuisine       string
		photos        string
		claimedAt     sql.NullTime
		ownerID       sql.NullString
		dish          sql.NullString
		desc          sql.NullString
		photo         sql.NullString
		chefUpdatedAt sql.NullTime
	)
	if err := s.Scan(
		&r.ID, &r.Name, &r.Slug, &r.Street, &r.City, &r.State, &r.Zip,
		&lat, &lng, &cuisine, &r.Phone, &r.Website, &r.Hours, &photos,
		&r.Claimed, &claimedAt, &ownerID,
		&dish, &desc, &photo, &chefUpdatedAt,
		&r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if lat.Valid {
		r.Latitude = &lat.Float64
	}
	if lng.Valid {
		r.Longitude = &lng.Float64
	}
	r.Cuisine = decodeTags(cuisine)
	r.Photos = decodeTags(photos)
	if claimedAt.Valid {
		t := claimedAt.Time
		r.ClaimedAt = &t
	}
	if ownerID.Valid {
		r.OwnerID = &ownerID.String
	}
	if dish.Valid {
		r.ChefDish = &dish.String
	}
	if desc.Valid {
		r.ChefDescription = &desc.String
	}
	if photo.Valid {
		r.ChefPhoto = &photo.String
	}
	if chefUpdatedAt.Valid {
		t := chefUpdatedAt.Time
		r.ChefUpdatedAt = &t
	}
	return &r, nil
}

// Tag lists (cuisine, photos) are kept as JSON arrays in TEXT columns.
// A corrupt or empty column decodes to an empty slice rather than an
// error: these fields are display-only.
func encodeTags(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeTags(s string) []string {
	if s == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

// List returns restaurants ordered by name ascending, for the browse
// page. limit and offset are clamped by the caller.
func (r *RestaurantRepo) List(ctx context.Context, limit, offset int) ([]*model.Restaurant, error) {
	q := `SELECT ` + restaurantCols + ` FROM restaurants ORDER BY name ASC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Restaurant, 0, limit)
	for rows.Next() {
		rec, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBySlug fetches a restaurant by exact slug and case-insensitive
// city match. The city comparison ignores letter case only; it is not
// fuzzy ("Seattle" matches "seattle" but not "Seattle, WA"). Returns
// ErrRestaurantNotFound when no row matches.
func (r *RestaurantRepo) GetBySlug(ctx context.Context, city, slug string) (*model.Restaurant, error) {
	q := `SELECT ` + restaurantCols + ` FROM restaurants
	      WHERE slug = ? AND LOWER(city) = LOWER(?) LIMIT 1`
	rec, err := scanRestaurant(r.db.QueryRowContext(ctx, q, slug, city))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return rec, nil
}

// GetByID fetches a restaurant by its id or returns
// ErrRestaurantNotFound. Callers validate the id format before calling
// so malformed ids never reach the store.
func (r *RestaurantRepo) GetByID(ctx context.Context, id string) (*model.Restaurant, error) {
	q := `SELECT ` + restaurantCols + ` FROM restaurants WHERE id = ? LIMIT 1`
	rec, err := scanRestaurant(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Search matches text case-insensitively as a substring of name, city
// or zip. Rows whose name starts with the text rank before rows that
// merely contain it, then alphabetical by name. The minimum query
// length is enforced by the HTTP layer, not here.
func (r *RestaurantRepo) Search(ctx context.Context, text string, limit int) ([]*model.Restaurant, error) {
	needle := strings.ToLower(strings.TrimSpace(text))
	contains := "%" + needle + "%"
	prefix := needle + "%"

	q := `SELECT ` + restaurantCols + ` FROM restaurants
	      WHERE LOWER(name) LIKE ? OR LOWER(city) LIKE ? OR zip LIKE ?
	      ORDER BY CASE WHEN LOWER(name) LIKE ? THEN 0 ELSE 1 END, name ASC
	      LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, contains, contains, contains, prefix, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Restaurant
	for rows.Next() {
		rec, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListForMap returns every restaurant that has coordinates, with the
// fields the map feed needs. Rows without coordinates cannot be
// plotted and are excluded in the query.
func (r *RestaurantRepo) ListForMap(ctx context.Context) ([]*model.Restaurant, error) {
	q := `SELECT ` + restaurantCols + ` FROM restaurants
	      WHERE latitude IS NOT NULL AND longitude IS NOT NULL
	      ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Restaurant
	for rows.Next() {
		rec, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new restaurant with claimed=false, an empty
// recommendation and server-assigned id and timestamps. On success the
// ID, CreatedAt and UpdatedAt fields of rec are populated. Name, slug
// and city are required.
func (r *RestaurantRepo) Create(ctx context.Context, rec *model.Restaurant) error {
	switch {
	case strings.TrimSpace(rec.Name) == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case strings.TrimSpace(rec.Slug) == "":
		return fmt.Errorf("%w: slug is required", ErrValidation)
	case strings.TrimSpace(rec.City) == "":
		return fmt.Errorf("%w: city is required", ErrValidation)
	}

	rec.ID = uuid.NewString()
	now := time.Now().UTC().Truncate(time.Second)
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.Claimed = false
	rec.ClaimedAt = nil
	rec.OwnerID = nil

	const q = `INSERT INTO restaurants
		(id, name, slug, street, city, state, zip, latitude, longitude,
		 cuisine, phone, website, hours, photos, claimed, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	var lat, lng any
	if rec.Latitude != nil {
		lat = *rec.Latitude
	}
	if rec.Longitude != nil {
		lng = *rec.Longitude
	}
	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.Name, rec.Slug, rec.Street, rec.City, rec.State, rec.Zip,
		lat, lng, encodeTags(rec.Cuisine), rec.Phone, rec.Website, rec.Hours,
		encodeTags(rec.Photos), false, now, now)
	return err
}

// SetRecommendation overwrites the chef recommendation fields and bumps
// chef_updated_at and updated_at. A missing id is an error, not a
// silent no-op: zero rows affected yields ErrRestaurantNotFound.
func (r *RestaurantRepo) SetRecommendation(ctx context.Context, id, dish, description string, photo *string) error {
	now := time.Now().UTC().Truncate(time.Second)
	const q = `UPDATE restaurants
	           SET chef_dish = ?, chef_description = ?, chef_photo = ?,
	               chef_updated_at = ?, updated_at = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, dish, description, photo, now, now, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}

// MarkClaimed flags the restaurant as claimed by ownerID and stamps
// claimed_at and updated_at. Calling it twice overwrites claimed_at;
// idempotency is not promised. Zero rows affected yields
// ErrRestaurantNotFound.
func (r *RestaurantRepo) MarkClaimed(ctx context.Context, id, ownerID string) error {
	return markClaimed(ctx, r.db, id, ownerID)
}

// dbtx is the subset of *sql.DB and *sql.Tx shared by statements that
// may run standalone or inside the approve transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func markClaimed(ctx context.Context, ex dbtx, id, ownerID string) error {
	now := time.Now().UTC().Truncate(time.Second)
	const q = `UPDATE restaurants
	           SET claimed = ?, claimed_at = ?, owner_id = ?, updated_at = ?
	           WHERE id = ?`
	res, err := ex.ExecContext(ctx, q, true, now, ownerID, now, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}
