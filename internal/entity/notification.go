package entity

const (
	NotificationDonationApproved = "donation_approved"
	NotificationDonationRejected = "donation_rejected"
	NotificationItemClaimed      = "item_claimed"
)

type Notification struct {
	UserID    string                 `json:"user_id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt string                 `json:"created_at"`
}
