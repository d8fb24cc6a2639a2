package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionModel rows are append-only: no updates or deletes after create.
type TransactionModel struct {
	ID            string    `gorm:"type:uuid;primary_key" json:"id"`
	BeneficiaryID string    `gorm:"type:uuid;not null;index;uniqueIndex:idx_txn_beneficiary_reference" json:"beneficiary_id"`
	Amount        int       `gorm:"not null;check:amount > 0" json:"amount"`
	Type          string    `gorm:"type:varchar(20);not null" json:"type"`
	Direction     string    `gorm:"type:varchar(10);not null" json:"direction"`
	RelatedItemID *string   `gorm:"type:uuid" json:"related_item_id"`
	Reference     *string   `gorm:"type:varchar(100);uniqueIndex:idx_txn_beneficiary_reference" json:"reference"`
	Description   string    `gorm:"type:text" json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}

func (t *TransactionModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

type WalletModel struct {
	ID            string    `gorm:"type:uuid;primary_key" json:"id"`
	BeneficiaryID string    `gorm:"type:uuid;not null;uniqueIndex" json:"beneficiary_id"`
	Balance       int       `gorm:"not null;default:0;check:balance >= 0" json:"balance"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (WalletModel) TableName() string {
	return "wallets"
}

func (w *WalletModel) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}
