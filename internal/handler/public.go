package handler

// This file defines the unauthenticated browse endpoints: the paginated
// directory list, the city/slug detail lookup, the typeahead search and
// the widget config. All of them return sanitized shapes; internal
// claim bookkeeping (owner_id, claimed_at) stays out of public
// responses.

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/chefrecommends/backend/internal/model"
	"github.com/chefrecommends/backend/internal/repository"
)

// searchMinLen is the minimum query length before the repository is
// consulted; shorter input returns an empty result set, never an error.
const searchMinLen = 2

// searchLimit caps typeahead results; the widget shows five rows.
const searchLimit = 5

// PublicHandler bundles dependencies for the guest-facing endpoints.
type PublicHandler struct {
	Restaurants *repository.RestaurantRepo
	MapboxToken string
}

func NewPublicHandler(restaurants *repository.RestaurantRepo, mapboxToken string) *PublicHandler {
	if restaurants == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Restaurants: restaurants, MapboxToken: mapboxToken}
}

// restaurantCard is the abbreviated shape used by list and search
// responses.
type restaurantCard struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Slug     string   `json:"slug"`
	City     string   `json:"city"`
	State    string   `json:"state"`
	Cuisine  []string `json:"cuisine"`
	Claimed  bool     `json:"claimed"`
	ChefDish *string  `json:"chef_dish"`
}

func toCard(r *model.Restaurant) restaurantCard {
	return restaurantCard{
		ID:       r.ID,
		Name:     r.Name,
		Slug:     r.Slug,
		City:     r.City,
		State:    r.State,
		Cuisine:  r.Cuisine,
		Claimed:  r.Claimed,
		ChefDish: r.ChefDish,
	}
}

// ListRestaurants handles GET /v1/restaurants/list with limit/offset
// pagination, ordered by name.
func (h *PublicHandler) ListRestaurants(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	items, err := h.Restaurants.List(c.Request().Context(), limit, offset)
	if err != nil {
		c.Logger().Errorf("list restaurants: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load restaurants"})
	}
	cards := make([]restaurantCard, 0, len(items))
	for _, r := range items {
		cards = append(cards, toCard(r))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":  cards,
		"count":  len(cards),
		"offset": offset,
	})
}

// GetRestaurant handles GET /v1/restaurants/:city/:slug. The city
// segment matches case-insensitively, the slug exactly.
func (h *PublicHandler) GetRestaurant(c echo.Context) error {
	city := strings.TrimSpace(c.Param("city"))
	slug := strings.TrimSpace(c.Param("slug"))
	if city == "" || slug == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "city and slug required"})
	}

	rec, err := h.Restaurants.GetBySlug(c.Request().Context(), city, slug)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		c.Logger().Errorf("get restaurant %s/%s: %v", city, slug, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load restaurant"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": rec})
}

// Search handles GET /v1/search?q=. Queries shorter than two
// characters short-circuit to an empty result list before touching the
// repository. Results whose name starts with the query come first.
func (h *PublicHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if len(q) < searchMinLen {
		return c.JSON(http.StatusOK, echo.Map{"results": []restaurantCard{}})
	}

	items, err := h.Restaurants.Search(c.Request().Context(), q, searchLimit)
	if err != nil {
		c.Logger().Errorf("search %q: %v", q, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	results := make([]restaurantCard, 0, len(items))
	for _, r := range items {
		results = append(results, toCard(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"results": results})
}

// WidgetConfig handles GET /v1/config, exposing the map-provider token
// the frontend map widget needs.
func (h *PublicHandler) WidgetConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"mapbox_token": h.MapboxToken})
}
