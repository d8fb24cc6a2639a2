package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListingModel struct {
	ID               string              `gorm:"type:uuid;primary_key" json:"id"`
	DonorID          *string             `gorm:"type:uuid;index" json:"donor_id"`
	BusinessID       *string             `gorm:"type:uuid;index" json:"business_id"`
	SourceDonationID *string             `gorm:"type:uuid;index" json:"source_donation_id"`
	Title            string              `gorm:"type:varchar(255);not null" json:"title"`
	Description      string              `gorm:"type:text" json:"description"`
	Category         string              `gorm:"type:varchar(50);not null;index" json:"category"`
	CreditCost       int                 `gorm:"not null;default:0" json:"credit_cost"`
	PriceCents       int                 `gorm:"not null;default:0" json:"price_cents"`
	IsAvailable      bool                `gorm:"not null;default:true;index" json:"is_available"`
	ClaimedBy        *string             `gorm:"type:uuid" json:"claimed_by"`
	Location         string              `gorm:"type:varchar(255)" json:"location"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	Images           []ListingImageModel `gorm:"foreignKey:ListingID" json:"images,omitempty"`
}

func (ListingModel) TableName() string {
	return "listings"
}

func (l *ListingModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

type ListingImageModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	ListingID string    `gorm:"type:uuid;not null;index" json:"listing_id"`
	ImageURL  string    `gorm:"type:varchar(500);not null" json:"image_url"`
	Order     int       `gorm:"column:image_order;default:0;index" json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

func (ListingImageModel) TableName() string {
	return "listing_images"
}

func (li *ListingImageModel) BeforeCreate(tx *gorm.DB) error {
	if li.ID == "" {
		li.ID = uuid.New().String()
	}
	return nil
}
