package entity

import "time"

// Listing is a claimable item. Exactly one of DonorID or BusinessID is set.
// A listing derived from a donation is a snapshot taken at approval time:
// later edits to the donation never propagate here, and vice versa.
type Listing struct {
	ID               string         `json:"id"`
	DonorID          string         `json:"donor_id,omitempty"`
	BusinessID       string         `json:"business_id,omitempty"`
	SourceDonationID string         `json:"source_donation_id,omitempty"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Category         Category       `json:"category"`
	CreditCost       int            `json:"credit_cost"`
	PriceCents       int            `json:"price_cents,omitempty"`
	IsAvailable      bool           `json:"is_available"`
	ClaimedBy        string         `json:"claimed_by,omitempty"`
	Location         string         `json:"location,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	Images           []ListingImage `json:"images,omitempty"`
}

type ListingImage struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	ImageURL  string    `json:"image_url"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnerID returns the user to notify when the listing is claimed.
func (l *Listing) OwnerID() string {
	if l.BusinessID != "" {
		return l.BusinessID
	}
	return l.DonorID
}

// DeriveListing snapshots an approved donation into a published listing.
func DeriveListing(d *Donation) *Listing {
	listing := &Listing{
		DonorID:          d.DonorID,
		SourceDonationID: d.ID,
		Title:            d.Title,
		Description:      d.Description,
		Category:         d.Category,
		CreditCost:       d.CreditValue,
		IsAvailable:      true,
	}
	listing.Images = make([]ListingImage, len(d.Images))
	for i, img := range d.Images {
		listing.Images[i] = ListingImage{
			ImageURL: img.ImageURL,
			Order:    img.Order,
		}
	}
	return listing
}
