package queue

// ClaimDecidedEvent is published after an admin approves or rejects an
// ownership claim. It carries enough for downstream consumers to build
// an audit line or notify the claimant without querying the primary
// database.
type ClaimDecidedEvent struct {
	ClaimID        string `json:"claim_id"`
	RestaurantID   string `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
	OwnerEmail     string `json:"owner_email"`
	Status         string `json:"status"` // approved | rejected
	ReviewedBy     string `json:"reviewed_by"`
	DecidedAt      string `json:"decided_at"`
}
