package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chefrecommends/backend/internal/model"
)

// GeoJSON shapes for the map feed. One point feature per restaurant;
// the frontend clusters them client-side.
type geoFeatureCollection struct {
	Type     string       `json:"type"`
	Features []geoFeature `json:"features"`
}

type geoFeature struct {
	Type       string        `json:"type"`
	Properties geoProperties `json:"properties"`
	Geometry   geoPoint      `json:"geometry"`
}

type geoProperties struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	City     string  `json:"city"`
	State    string  `json:"state"`
	Claimed  bool    `json:"claimed"`
	ChefDish *string `json:"chef_dish"`
}

type geoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"` // [longitude, latitude]
}

// MapFeed handles GET /v1/restaurants: a GeoJSON FeatureCollection of
// every restaurant with coordinates. Rows without coordinates are
// excluded by the repository query.
func (h *PublicHandler) MapFeed(c echo.Context) error {
	items, err := h.Restaurants.ListForMap(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("map feed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load restaurants"})
	}

	fc := geoFeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]geoFeature, 0, len(items)),
	}
	for _, r := range items {
		fc.Features = append(fc.Features, toFeature(r))
	}
	return c.JSON(http.StatusOK, fc)
}

func toFeature(r *model.Restaurant) geoFeature {
	return geoFeature{
		Type: "Feature",
		Properties: geoProperties{
			ID:       r.ID,
			Name:     r.Name,
			Slug:     r.Slug,
			City:     r.City,
			State:    r.State,
			Claimed:  r.Claimed,
			ChefDish: r.ChefDish,
		},
		Geometry: geoPoint{
			Type:        "Point",
			Coordinates: [2]float64{*r.Longitude, *r.Latitude},
		},
	}
}
