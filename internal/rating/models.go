package rating

type CreateRequest struct {
	UserID     string `json:"userId" validate:"required"`
	PinID      string `json:"pinId" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Review     string `json:"review" validate:"max=2000"`
	VendorName string `json:"vendorName"`
}
