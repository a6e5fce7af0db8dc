package user

// UpsertRequest signs a participant in. An existing user with the same uid
// is merged instead of duplicated.
type UpsertRequest struct {
	UID           string   `json:"uid" validate:"required"`
	Username      string   `json:"username"`
	CompletedPins []string `json:"completedPins"`
	TotalPhotos   *int     `json:"totalPhotos" validate:"omitempty,gte=0"`
	TotalRatings  *int     `json:"totalRatings" validate:"omitempty,gte=0"`
}
