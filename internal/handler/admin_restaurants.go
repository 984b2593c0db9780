package handler

// Admin restaurant maintenance: manual creation (the bulk path is the
// CSV importer) and the chef-recommendation update.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/chefrecommends/backend/internal/model"
	"github.com/chefrecommends/backend/internal/repository"
	"github.com/chefrecommends/backend/internal/utils"
)

// AdminRestaurantHandler bundles the restaurant repository for the
// authenticated maintenance endpoints.
type AdminRestaurantHandler struct {
	Restaurants *repository.RestaurantRepo
}

func NewAdminRestaurantHandler(restaurants *repository.RestaurantRepo) *AdminRestaurantHandler {
	if restaurants == nil {
		panic("nil repository passed to NewAdminRestaurantHandler")
	}
	return &AdminRestaurantHandler{Restaurants: restaurants}
}

type createRestaurantReq struct {
	Name      string   `json:"name"`
	Slug      string   `json:"slug"` // derived from name+city when empty
	Street    string   `json:"street"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Zip       string   `json:"zip"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Cuisine   []string `json:"cuisine"`
	Phone     string   `json:"phone"`
	Website   string   `json:"website"`
	Hours     string   `json:"hours"`
	Photos    []string `json:"photos"`
}

// Create handles POST /v1/admin/restaurants. New entries always start
// unclaimed with no recommendation.
func (h *AdminRestaurantHandler) Create(c echo.Context) error {
	var req createRestaurantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Slug) == "" {
		req.Slug = utils.Slugify(req.Name, req.City)
	}

	rec := &model.Restaurant{
		Name:      strings.TrimSpace(req.Name),
		Slug:      strings.TrimSpace(req.Slug),
		Street:    strings.TrimSpace(req.Street),
		City:      strings.TrimSpace(req.City),
		State:     strings.TrimSpace(req.State),
		Zip:       strings.TrimSpace(req.Zip),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Cuisine:   req.Cuisine,
		Phone:     strings.TrimSpace(req.Phone),
		Website:   strings.TrimSpace(req.Website),
		Hours:     strings.TrimSpace(req.Hours),
		Photos:    req.Photos,
	}
	if err := h.Restaurants.Create(c.Request().Context(), rec); err != nil {
		if errors.Is(err, repository.ErrValidation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		c.Logger().Errorf("admin create restaurant: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create restaurant"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": rec})
}

type setRecommendationReq struct {
	Dish        string  `json:"dish"`
	Description string  `json:"description"`
	Photo       *string `json:"photo"`
}

// SetRecommendation handles PATCH /v1/admin/restaurants/:id/recommendation,
// overwriting the single chef pick for a restaurant.
func (h *AdminRestaurantHandler) SetRecommendation(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := uuid.Parse(id); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
	}

	var req setRecommendationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Dish = strings.TrimSpace(req.Dish)
	if req.Dish == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dish is required"})
	}

	err := h.Restaurants.SetRecommendation(c.Request().Context(), id, req.Dish, strings.TrimSpace(req.Description), req.Photo)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		c.Logger().Errorf("set recommendation %s: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update recommendation"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
