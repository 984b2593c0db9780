package handler

// Admin claim review: the pending queue, the per-status tallies and the
// decision endpoint. These handlers sit behind JWTAuth +
// RequireRole(ADMIN).

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/chefrecommends/backend/internal/model"
	q "github.com/chefrecommends/backend/internal/queue"
	"github.com/chefrecommends/backend/internal/repository"
	queue_publisher "github.com/chefrecommends/backend/internal/service"
)

// AdminClaimHandler bundles the repositories the review flow needs.
type AdminClaimHandler struct {
	Restaurants *repository.RestaurantRepo
	Claims      *repository.ClaimRepo
}

func NewAdminClaimHandler(restaurants *repository.RestaurantRepo, claims *repository.ClaimRepo) *AdminClaimHandler {
	if restaurants == nil || claims == nil {
		panic("nil repository passed to NewAdminClaimHandler")
	}
	return &AdminClaimHandler{Restaurants: restaurants, Claims: claims}
}

// List handles GET /v1/admin/claims?status=&limit=. Status defaults to
// pending; each row carries the joined restaurant fields for display.
func (h *AdminClaimHandler) List(c echo.Context) error {
	status := strings.ToLower(strings.TrimSpace(c.QueryParam("status")))
	if status == "" {
		status = model.ClaimStatusPending
	}
	if !model.ValidClaimStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	items, err := h.Claims.ListByStatus(c.Request().Context(), status, limit)
	if err != nil {
		c.Logger().Errorf("admin list claims: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load claims"})
	}
	if items == nil {
		items = []*model.ClaimWithRestaurant{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"count": len(items),
	})
}

// Stats handles GET /v1/admin/claims/stats: per-status claim counts
// with zeroes for statuses that have no claims.
func (h *AdminClaimHandler) Stats(c echo.Context) error {
	counts, err := h.Claims.CountsByStatus(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("admin claim stats: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	return c.JSON(http.StatusOK, counts)
}

type decideClaimReq struct {
	Action string  `json:"action"` // approve | reject
	Notes  *string `json:"notes"`  // nil leaves stored notes untouched
}

// Decide handles PATCH /v1/admin/claims/:id. Approval updates the
// claim and marks the restaurant claimed in one transaction; rejection
// is a single claim write. Re-deciding a decided claim is a conflict,
// never a silent success.
func (h *AdminClaimHandler) Decide(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := uuid.Parse(id); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "claim not found"})
	}

	var req decideClaimReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	action := strings.ToLower(strings.TrimSpace(req.Action))
	if action != "approve" && action != "reject" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid action"})
	}

	reviewedBy, _ := c.Get("admin_email").(string)
	if reviewedBy == "" {
		reviewedBy = "admin"
	}

	ctx := c.Request().Context()

	claim, err := h.Claims.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrClaimNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "claim not found"})
		}
		c.Logger().Errorf("admin decide: load claim %s: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update claim"})
	}

	status := model.ClaimStatusRejected
	if action == "approve" {
		status = model.ClaimStatusApproved
		_, err = h.Claims.Approve(ctx, id, reviewedBy, req.Notes)
	} else {
		err = h.Claims.UpdateStatus(ctx, id, status, reviewedBy, req.Notes)
	}
	if err != nil {
		var pf *repository.PartialFailureError
		switch {
		case errors.Is(err, repository.ErrClaimNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "claim not found"})
		case errors.Is(err, repository.ErrClaimDecided):
			return c.JSON(http.StatusConflict, echo.Map{"error": "claim already decided"})
		case errors.As(err, &pf):
			// Rolled back, but operators still want both ids on record.
			c.Logger().Errorf("admin decide: partial failure: claim_id=%s restaurant_id=%s: %v",
				pf.ClaimID, pf.RestaurantID, pf.Err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update claim"})
		default:
			c.Logger().Errorf("admin decide: claim %s: %v", id, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update claim"})
		}
	}

	h.publishDecision(claim, status, reviewedBy)

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// publishDecision emits the audit event for a decision. Best effort and
// asynchronous: the admin response never waits on the broker.
func (h *AdminClaimHandler) publishDecision(claim *model.ClaimRequest, status, reviewedBy string) {
	restaurantName := ""
	if rec, err := h.Restaurants.GetByID(context.Background(), claim.RestaurantID); err == nil {
		restaurantName = rec.Name
	}
	ev := q.ClaimDecidedEvent{
		ClaimID:        claim.ID,
		RestaurantID:   claim.RestaurantID,
		RestaurantName: restaurantName,
		OwnerEmail:     claim.OwnerEmail,
		Status:         status,
		ReviewedBy:     reviewedBy,
		DecidedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishClaimDecided(ctx, ev)
	}()
}
