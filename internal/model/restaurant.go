package model

import "time"

// Restaurant is a directory entry for a single restaurant. Rows are
// created by the bulk CSV importer and mutated only by the claim
// approval flow and the recommendation flow.
//
// The claim fields move together: an unclaimed restaurant has
// Claimed=false, ClaimedAt=nil and OwnerID=nil; a claimed one has all
// three set. The chef_* fields hold the single "chef recommendation"
// dish and are nil until an owner supplies one.
type Restaurant struct {
	ID              string     `json:"id"`               // restaurants.id (uuid)
	Name            string     `json:"name"`             // restaurants.name
	Slug            string     `json:"slug"`             // URL-safe identifier, unique within a city
	Street          string     `json:"street"`           // restaurants.street
	City            string     `json:"city"`             // restaurants.city
	State           string     `json:"state"`            // restaurants.state
	Zip             string     `json:"zip"`              // restaurants.zip
	Latitude        *float64   `json:"latitude"`         // nullable coordinates
	Longitude       *float64   `json:"longitude"`        //
	Cuisine         []string   `json:"cuisine"`          // cuisine tags
	Phone           string     `json:"phone"`            //
	Website         string     `json:"website"`          //
	Hours           string     `json:"hours"`            // free-text opening hours
	Photos          []string   `json:"photos"`           // photo references
	Claimed         bool       `json:"claimed"`          //
	ClaimedAt       *time.Time `json:"claimed_at"`       // set only when claimed
	OwnerID         *string    `json:"owner_id"`         // set only when claimed
	ChefDish        *string    `json:"chef_dish"`        // recommendation dish name
	ChefDescription *string    `json:"chef_description"` // recommendation description
	ChefPhoto       *string    `json:"chef_photo"`       // optional recommendation photo
	ChefUpdatedAt   *time.Time `json:"chef_updated_at"`  // bumped on SetRecommendation
	CreatedAt       time.Time  `json:"created_at"`       //
	UpdatedAt       time.Time  `json:"updated_at"`       // bumped on any mutation
}

// HasRecommendation reports whether an owner has supplied a chef pick.
func (r *Restaurant) HasRecommendation() bool {
	return r.ChefDish != nil && *r.ChefDish != ""
}
