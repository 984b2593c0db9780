package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chefrecommends/backend/internal/model"
)

const claimCols = `id, restaurant_id, owner_name, owner_email, owner_phone,
	role, verification_method, status, verification_notes,
	created_at, reviewed_at, reviewed_by`

// ClaimRepo encapsulates all database queries related to ownership
// claims, including the approval transaction that touches the
// restaurants table.
type ClaimRepo struct {
	db *sql.DB
}

// NewClaimRepo constructs a ClaimRepo with the provided DB handle.
func NewClaimRepo(db *sql.DB) *ClaimRepo {
	return &ClaimRepo{db: db}
}

func scanClaim(s rowScanner, c *model.ClaimRequest) error {
	var (
		reviewedAt sql.NullTime
		reviewedBy sql.NullString
	)
	if err := s.Scan(
		&c.ID, &c.RestaurantID, &c.OwnerName, &c.OwnerEmail, &c.OwnerPhone,
		&c.Role, &c.VerificationMethod, &c.Status, &c.VerificationNotes,
		&c.CreatedAt, &reviewedAt, &reviewedBy,
	); err != nil {
		return err
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		c.ReviewedAt = &t
	}
	if reviewedBy.Valid {
		c.ReviewedBy = &reviewedBy.String
	}
	return nil
}

// isUniqueViolation matches the duplicate-key errors of both MySQL
// (error 1062) and SQLite, which backs the test databases.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique")
}

// Create inserts a claim with status=pending, empty verification notes
// and no review fields, and returns the new id. The owner email is
// lowercased and all string fields are trimmed before the write. The
// open-claim unique index turns a concurrent duplicate submission into
// ErrDuplicateClaim even when the handler pre-check raced.
func (r *ClaimRepo) Create(ctx context.Context, c *model.ClaimRequest) (string, error) {
	c.RestaurantID = strings.TrimSpace(c.RestaurantID)
	c.OwnerName = strings.TrimSpace(c.OwnerName)
	c.OwnerEmail = strings.ToLower(strings.TrimSpace(c.OwnerEmail))
	c.OwnerPhone = strings.TrimSpace(c.OwnerPhone)
	c.Role = strings.TrimSpace(c.Role)
	c.VerificationMethod = strings.TrimSpace(c.VerificationMethod)
	if c.RestaurantID == "" {
		return "", fmt.Errorf("%w: restaurant id is required", ErrValidation)
	}
	if c.OwnerEmail == "" {
		return "", fmt.Errorf("%w: owner email is required", ErrValidation)
	}

	c.ID = uuid.NewString()
	c.Status = model.ClaimStatusPending
	c.VerificationNotes = ""
	c.CreatedAt = time.Now().UTC().Truncate(time.Second)
	c.ReviewedAt = nil
	c.ReviewedBy = nil

	const q = `INSERT INTO claims
		(id, restaurant_id, owner_name, owner_email, owner_phone,
		 role, verification_method, status, verification_notes, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`
	_, err := r.db.ExecContext(ctx, q,
		c.ID, c.RestaurantID, c.OwnerName, c.OwnerEmail, c.OwnerPhone,
		c.Role, c.VerificationMethod, c.Status, c.VerificationNotes, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrDuplicateClaim
		}
		return "", err
	}
	return c.ID, nil
}

// GetByID fetches a claim by id or returns ErrClaimNotFound.
func (r *ClaimRepo) GetByID(ctx context.Context, id string) (*model.ClaimRequest, error) {
	q := `SELECT ` + claimCols + ` FROM claims WHERE id = ? LIMIT 1`
	var c model.ClaimRequest
	if err := scanClaim(r.db.QueryRowContext(ctx, q, id), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByStatus returns claims in the given status joined with their
// restaurant's descriptive fields, most recent first.
func (r *ClaimRepo) ListByStatus(ctx context.Context, status string, limit int) ([]*model.ClaimWithRestaurant, error) {
	q := `SELECT c.id, c.restaurant_id, c.owner_name, c.owner_email, c.owner_phone,
	             c.role, c.verification_method, c.status, c.verification_notes,
	             c.created_at, c.reviewed_at, c.reviewed_by,
	             r.name, r.slug, r.city, r.state
	      FROM claims c
	      JOIN restaurants r ON r.id = c.restaurant_id
	      WHERE c.status = ?
	      ORDER BY c.created_at DESC
	      LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ClaimWithRestaurant
	for rows.Next() {
		cw := new(model.ClaimWithRestaurant)
		var (
			reviewedAt sql.NullTime
			reviewedBy sql.NullString
		)
		if err := rows.Scan(
			&cw.ID, &cw.RestaurantID, &cw.OwnerName, &cw.OwnerEmail, &cw.OwnerPhone,
			&cw.Role, &cw.VerificationMethod, &cw.Status, &cw.VerificationNotes,
			&cw.CreatedAt, &reviewedAt, &reviewedBy,
			&cw.RestaurantName, &cw.RestaurantSlug, &cw.RestaurantCity, &cw.RestaurantState,
		); err != nil {
			return nil, err
		}
		if reviewedAt.Valid {
			t := reviewedAt.Time
			cw.ReviewedAt = &t
		}
		if reviewedBy.Valid {
			cw.ReviewedBy = &reviewedBy.String
		}
		out = append(out, cw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves a pending claim to the given status and stamps
// reviewed_at and reviewed_by. Verification notes are overwritten only
// when notes is non-nil; a nil notes leaves whatever is stored
// untouched. Deciding a claim that is not pending returns
// ErrClaimDecided, an unknown id ErrClaimNotFound.
func (r *ClaimRepo) UpdateStatus(ctx context.Context, id, status, reviewedBy string, notes *string) error {
	return updateStatus(ctx, r.db, id, status, reviewedBy, notes)
}

func updateStatus(ctx context.Context, ex dbtx, id, status, reviewedBy string, notes *string) error {
	now := time.Now().UTC().Truncate(time.Second)

	var (
		q    string
		args []any
	)
	if notes != nil {
		q = `UPDATE claims
		     SET status = ?, reviewed_at = ?, reviewed_by = ?, verification_notes = ?
		     WHERE id = ? AND status = ?`
		args = []any{status, now, reviewedBy, *notes, id, model.ClaimStatusPending}
	} else {
		q = `UPDATE claims
		     SET status = ?, reviewed_at = ?, reviewed_by = ?
		     WHERE id = ? AND status = ?`
		args = []any{status, now, reviewedBy, id, model.ClaimStatusPending}
	}
	res, err := ex.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either the claim does not exist or it is already decided.
		var current string
		err := ex.QueryRowContext(ctx, `SELECT status FROM claims WHERE id = ?`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrClaimNotFound
		}
		if err != nil {
			return err
		}
		return ErrClaimDecided
	}
	return nil
}

// Approve performs the two-step approval as one transaction: the claim
// moves to approved and the restaurant is marked claimed, committed
// together or not at all. The claim id doubles as the restaurant's
// owner reference, mirroring the submission that created it. When the
// restaurant-side write fails after the claim-side write succeeded,
// the error is a *PartialFailureError carrying both ids and the whole
// transaction is rolled back.
func (r *ClaimRepo) Approve(ctx context.Context, id, reviewedBy string, notes *string) (restaurantID string, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT restaurant_id, status FROM claims WHERE id = ?`, id).
		Scan(&restaurantID, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrClaimNotFound
	}
	if err != nil {
		return "", err
	}
	if status != model.ClaimStatusPending {
		err = ErrClaimDecided
		return restaurantID, err
	}

	if err = updateStatus(ctx, tx, id, model.ClaimStatusApproved, reviewedBy, notes); err != nil {
		return restaurantID, err
	}
	if mcErr := markClaimed(ctx, tx, restaurantID, id); mcErr != nil {
		err = &PartialFailureError{ClaimID: id, RestaurantID: restaurantID, Err: mcErr}
		return restaurantID, err
	}
	return restaurantID, nil
}

// HasOpenClaim reports whether a pending or approved claim exists for
// the (restaurant, lowercased email) pair. Used by the submission
// handler to reject duplicates with a specific message before any
// write.
func (r *ClaimRepo) HasOpenClaim(ctx context.Context, restaurantID, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	const q = `SELECT COUNT(*) FROM claims
	           WHERE restaurant_id = ? AND owner_email = ? AND status IN (?, ?)`
	var n int
	err := r.db.QueryRowContext(ctx, q, restaurantID, email,
		model.ClaimStatusPending, model.ClaimStatusApproved).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountsByStatus tallies claims per status. Statuses with no claims
// are present with a zero count.
func (r *ClaimRepo) CountsByStatus(ctx context.Context) (map[string]int, error) {
	counts := map[string]int{
		model.ClaimStatusPending:  0,
		model.ClaimStatusApproved: 0,
		model.ClaimStatusRejected: 0,
	}
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM claims GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
