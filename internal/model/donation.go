package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DonationModel struct {
	ID              string               `gorm:"type:uuid;primary_key" json:"id"`
	DonorID         string               `gorm:"type:uuid;not null;index" json:"donor_id"`
	Title           string               `gorm:"type:varchar(255);not null" json:"title"`
	Description     string               `gorm:"type:text" json:"description"`
	Category        string               `gorm:"type:varchar(50);not null" json:"category"`
	ClothType       string               `gorm:"type:varchar(100)" json:"cloth_type"`
	Size            string               `gorm:"type:varchar(50)" json:"size"`
	Color           string               `gorm:"type:varchar(50)" json:"color"`
	CreditValue     int                  `gorm:"not null;default:0" json:"credit_value"`
	Status          string               `gorm:"type:varchar(20);not null;default:'uploaded';index" json:"status"`
	AdminNote       string               `gorm:"type:text" json:"admin_note"`
	RejectionReason string               `gorm:"type:text" json:"rejection_reason"`
	AIConfidence    *float64             `gorm:"type:numeric" json:"ai_confidence"`
	VerifiedAt      *time.Time           `json:"verified_at"`
	AllocatedAt     *time.Time           `json:"allocated_at"`
	ReceivedAt      *time.Time           `json:"received_at"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	Images          []DonationImageModel `gorm:"foreignKey:DonationID" json:"images,omitempty"`
}

func (DonationModel) TableName() string {
	return "donations"
}

func (d *DonationModel) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

type DonationImageModel struct {
	ID         string    `gorm:"type:uuid;primary_key" json:"id"`
	DonationID string    `gorm:"type:uuid;not null;index" json:"donation_id"`
	ImageURL   string    `gorm:"type:varchar(500);not null" json:"image_url"`
	Order      int       `gorm:"column:image_order;default:0;index" json:"order"`
	CreatedAt  time.Time `json:"created_at"`
}

func (DonationImageModel) TableName() string {
	return "donation_images"
}

func (di *DonationImageModel) BeforeCreate(tx *gorm.DB) error {
	if di.ID == "" {
		di.ID = uuid.New().String()
	}
	return nil
}
