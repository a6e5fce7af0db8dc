package analytics

// Tracked event types. page_view, qr_scan and photo_upload move a counter.
const (
	EventPageView     = "page_view"
	EventQRScan       = "qr_scan"
	EventPhotoUpload  = "photo_upload"
	EventPinClick     = "pin_click"
	EventVendorRating = "vendor_rating"
	EventPostLike     = "post_like"
	EventCSVExport    = "csv_export"
)

type CreateRequest struct {
	PageViews    int `json:"pageViews" validate:"gte=0"`
	ActiveUsers  int `json:"activeUsers" validate:"gte=0"`
	QRScans      int `json:"qrScans" validate:"gte=0"`
	PhotoUploads int `json:"photoUploads" validate:"gte=0"`
}

type TrackRequest struct {
	EventType string         `json:"eventType" validate:"required,max=64"`
	Data      map[string]any `json:"data"`
}
