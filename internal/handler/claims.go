package handler

// Claim submission. All business-rule checks run before anything is
// written: required fields, email shape, role, restaurant existence,
// the already-claimed guard and the duplicate-open-claim guard, in
// that order so the caller always gets the most specific error.

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/chefrecommends/backend/internal/model"
	"github.com/chefrecommends/backend/internal/repository"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ClaimHandler bundles the repositories needed by the public claim
// submission endpoint.
type ClaimHandler struct {
	Restaurants *repository.RestaurantRepo
	Claims      *repository.ClaimRepo
}

func NewClaimHandler(restaurants *repository.RestaurantRepo, claims *repository.ClaimRepo) *ClaimHandler {
	if restaurants == nil || claims == nil {
		panic("nil repository passed to NewClaimHandler")
	}
	return &ClaimHandler{Restaurants: restaurants, Claims: claims}
}

type submitClaimReq struct {
	RestaurantID       string `json:"restaurantId"`
	OwnerName          string `json:"ownerName"`
	OwnerEmail         string `json:"ownerEmail"`
	OwnerPhone         string `json:"ownerPhone"`
	Role               string `json:"role"`
	VerificationMethod string `json:"verificationMethod"`
}

// Submit handles POST /v1/claims.
func (h *ClaimHandler) Submit(c echo.Context) error {
	var req submitClaimReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	req.RestaurantID = strings.TrimSpace(req.RestaurantID)
	req.OwnerName = strings.TrimSpace(req.OwnerName)
	req.OwnerEmail = strings.ToLower(strings.TrimSpace(req.OwnerEmail))
	req.OwnerPhone = strings.TrimSpace(req.OwnerPhone)
	req.Role = strings.TrimSpace(req.Role)
	req.VerificationMethod = strings.TrimSpace(req.VerificationMethod)

	if req.RestaurantID == "" || req.OwnerName == "" || req.OwnerEmail == "" ||
		req.OwnerPhone == "" || req.Role == "" || req.VerificationMethod == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all fields are required"})
	}
	if !emailRe.MatchString(req.OwnerEmail) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email address"})
	}
	if !model.ValidClaimRole(req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}
	// Malformed ids never reach the store; they cannot match any row.
	if _, err := uuid.Parse(req.RestaurantID); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
	}

	ctx := c.Request().Context()

	rec, err := h.Restaurants.GetByID(ctx, req.RestaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		c.Logger().Errorf("claim submit: load restaurant %s: %v", req.RestaurantID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit claim"})
	}
	if rec.Claimed {
		return c.JSON(http.StatusConflict, echo.Map{"error": "this restaurant has already been claimed"})
	}

	open, err := h.Claims.HasOpenClaim(ctx, req.RestaurantID, req.OwnerEmail)
	if err != nil {
		c.Logger().Errorf("claim submit: open-claim check: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit claim"})
	}
	if open {
		return c.JSON(http.StatusConflict, echo.Map{"error": "you have already submitted a claim for this restaurant"})
	}

	claim := &model.ClaimRequest{
		RestaurantID:       req.RestaurantID,
		OwnerName:          req.OwnerName,
		OwnerEmail:         req.OwnerEmail,
		OwnerPhone:         req.OwnerPhone,
		Role:               req.Role,
		VerificationMethod: req.VerificationMethod,
	}
	claimID, err := h.Claims.Create(ctx, claim)
	if err != nil {
		// The unique index closes the race between the pre-check above
		// and a concurrent submission for the same pair.
		if errors.Is(err, repository.ErrDuplicateClaim) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "you have already submitted a claim for this restaurant"})
		}
		if errors.Is(err, repository.ErrValidation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		c.Logger().Errorf("claim submit: create: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit claim"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"claimId": claimID,
	})
}
