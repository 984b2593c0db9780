package model

import "time"

// Claim status values. A claim starts as pending and is moved exactly
// once to approved or rejected by an admin decision; there is no
// transition out of a decided state.
const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusRejected = "rejected"
)

// ClaimRoles lists the accepted values for the claimant's role field.
var ClaimRoles = []string{"Owner", "Manager", "Chef", "Other"}

// ValidClaimStatus reports whether s is one of the three claim states.
func ValidClaimStatus(s string) bool {
	return s == ClaimStatusPending || s == ClaimStatusApproved || s == ClaimStatusRejected
}

// ValidClaimRole reports whether the submitted role is one of the
// enumerated claimant roles.
func ValidClaimRole(role string) bool {
	for _, r := range ClaimRoles {
		if r == role {
			return true
		}
	}
	return false
}

// ClaimRequest records one ownership claim against a restaurant.
//
// Fields:
//  ID                 – primary key identifier (uuid).
//  RestaurantID       – restaurant being claimed.
//  OwnerName          – claimant's display name.
//  OwnerEmail         – claimant's email, stored lowercased.
//  OwnerPhone         – claimant's phone number.
//  Role               – Owner, Manager, Chef or Other.
//  VerificationMethod – free text describing how ownership can be verified.
//  Status             – pending, approved or rejected.
//  VerificationNotes  – reviewer notes, empty until a reviewer writes some.
//  CreatedAt          – submission timestamp.
//  ReviewedAt         – decision timestamp, nil while pending.
//  ReviewedBy         – reviewer identity, nil while pending.
type ClaimRequest struct {
	ID                 string     `json:"id"`
	RestaurantID       string     `json:"restaurant_id"`
	OwnerName          string     `json:"owner_name"`
	OwnerEmail         string     `json:"owner_email"`
	OwnerPhone         string     `json:"owner_phone"`
	Role               string     `json:"role"`
	VerificationMethod string     `json:"verification_method"`
	Status             string     `json:"status"`
	VerificationNotes  string     `json:"verification_notes"`
	CreatedAt          time.Time  `json:"created_at"`
	ReviewedAt         *time.Time `json:"reviewed_at"`
	ReviewedBy         *string    `json:"reviewed_by"`
}

// ClaimWithRestaurant is a claim joined with descriptive fields of its
// restaurant, populated by the admin list query for display.
type ClaimWithRestaurant struct {
	ClaimRequest
	RestaurantName  string `json:"restaurant_name"`
	RestaurantSlug  string `json:"restaurant_slug"`
	RestaurantCity  string `json:"restaurant_city"`
	RestaurantState string `json:"restaurant_state"`
}
