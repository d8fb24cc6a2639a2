package entity

import "time"

type DonationStatus string

const (
	StatusUploaded  DonationStatus = "uploaded"
	StatusVerified  DonationStatus = "verified"
	StatusListed    DonationStatus = "listed"
	StatusAllocated DonationStatus = "allocated"
	StatusReceived  DonationStatus = "received"
	StatusRejected  DonationStatus = "rejected"
)

type Category string

const (
	CategoryClothing Category = "clothing"
	CategoryOther    Category = "other"
)

// Donation is a physical item offered by a donor. Its status moves forward
// along uploaded -> verified -> listed -> allocated -> received; rejected is
// reachable only from uploaded and can be reopened by an admin.
type Donation struct {
	ID              string          `json:"id"`
	DonorID         string          `json:"donor_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Category        Category        `json:"category"`
	ClothType       string          `json:"cloth_type,omitempty"`
	Size            string          `json:"size,omitempty"`
	Color           string          `json:"color,omitempty"`
	CreditValue     int             `json:"credit_value"`
	Status          DonationStatus  `json:"status"`
	AdminNote       string          `json:"admin_note,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	AIConfidence    *float64        `json:"ai_confidence,omitempty"`
	VerifiedAt      *time.Time      `json:"verified_at,omitempty"`
	AllocatedAt     *time.Time      `json:"allocated_at,omitempty"`
	ReceivedAt      *time.Time      `json:"received_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Images          []DonationImage `json:"images,omitempty"`
}

type DonationImage struct {
	ID         string    `json:"id"`
	DonationID string    `json:"donation_id"`
	ImageURL   string    `json:"image_url"`
	Order      int       `json:"order"`
	CreatedAt  time.Time `json:"created_at"`
}

var donationTransitions = map[DonationStatus][]DonationStatus{
	StatusUploaded:  {StatusVerified, StatusRejected},
	StatusVerified:  {StatusListed},
	StatusListed:    {StatusAllocated},
	StatusAllocated: {StatusReceived},
	StatusReceived:  {},
	// Reopening a rejected donation is an explicit admin escape hatch,
	// not a normal transition.
	StatusRejected: {StatusUploaded},
}

func (s DonationStatus) CanTransitionTo(next DonationStatus) bool {
	for _, allowed := range donationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s DonationStatus) IsTerminal() bool {
	return s == StatusReceived || s == StatusRejected
}

func ValidCategory(c Category) bool {
	return c == CategoryClothing || c == CategoryOther
}
