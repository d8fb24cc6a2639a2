package main

import (
	"flag"
	"fmt"
	"time"

	"goodloop/internal/entity"
	"goodloop/internal/model"
	"goodloop/pkg/config"
	"goodloop/pkg/database"
	"goodloop/pkg/logger"

	"gorm.io/gorm"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, cfg, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, cfg *config.Config, log *logger.Logger) error {
	// Fixed IDs so re-running the seed does not duplicate data
	donorID := "11111111-1111-1111-1111-111111111111"
	businessID := "22222222-2222-2222-2222-222222222222"
	beneficiaryID := "33333333-3333-3333-3333-333333333333"

	demoDonations := []struct {
		title       string
		description string
		category    string
		clothType   string
		size        string
		creditValue int
		status      string
	}{
		{"Winter Jacket", "Warm parka, barely worn", "clothing", "jacket", "L", 15, string(entity.StatusUploaded)},
		{"Kids Sneakers", "Outgrown after one season", "clothing", "shoes", "32", 8, string(entity.StatusUploaded)},
		{"Board Games Bundle", "Three complete games", "other", "", "", 10, string(entity.StatusListed)},
		{"Wool Sweater", "Hand-knitted, small hole on sleeve", "clothing", "sweater", "M", 5, string(entity.StatusRejected)},
	}

	for _, d := range demoDonations {
		var existing model.DonationModel
		result := db.Where("donor_id = ? AND title = ?", donorID, d.title).First(&existing)
		if result.Error == nil {
			log.Info("Donation %q already exists, skipping", d.title)
			continue
		}

		donation := &model.DonationModel{
			DonorID:     donorID,
			Title:       d.title,
			Description: d.description,
			Category:    d.category,
			ClothType:   d.clothType,
			Size:        d.size,
			CreditValue: d.creditValue,
			Status:      d.status,
		}
		if d.status == string(entity.StatusRejected) {
			donation.RejectionReason = "item condition below standard"
		}
		if d.status == string(entity.StatusListed) {
			now := time.Now()
			donation.VerifiedAt = &now
		}

		if err := db.Create(donation).Error; err != nil {
			return fmt.Errorf("failed to create donation %q: %w", d.title, err)
		}

		image := &model.DonationImageModel{
			DonationID: donation.ID,
			ImageURL:   fmt.Sprintf("https://placehold.co/600x400?text=%s", donation.ID[:8]),
		}
		if err := db.Create(image).Error; err != nil {
			return fmt.Errorf("failed to create donation image: %w", err)
		}

		// Listed donations get a published listing snapshot
		if d.status == string(entity.StatusListed) {
			listing := &model.ListingModel{
				DonorID:          &donorID,
				SourceDonationID: &donation.ID,
				Title:            d.title,
				Description:      d.description,
				Category:         d.category,
				CreditCost:       d.creditValue,
				IsAvailable:      true,
			}
			if err := db.Create(listing).Error; err != nil {
				return fmt.Errorf("failed to create listing for %q: %w", d.title, err)
			}
		}

		log.Info("Created donation %q (%s)", d.title, d.status)
	}

	// A business listing with no source donation
	var existingBusiness model.ListingModel
	result := db.Where("business_id = ?", businessID).First(&existingBusiness)
	if result.Error != nil {
		listing := &model.ListingModel{
			BusinessID:  &businessID,
			Title:       "Surplus Rain Boots",
			Description: "End of season stock",
			Category:    "clothing",
			CreditCost:  12,
			PriceCents:  1500,
			IsAvailable: true,
			Location:    "Warehouse 4, Rotterdam",
		}
		if err := db.Create(listing).Error; err != nil {
			return fmt.Errorf("failed to create business listing: %w", err)
		}
		log.Info("Created business listing %q", listing.Title)
	}

	// Welcome bonus for the demo beneficiary
	ref := entity.WelcomeBonusRef
	var existingTxn model.TransactionModel
	result = db.Where("beneficiary_id = ? AND reference = ?", beneficiaryID, ref).First(&existingTxn)
	if result.Error != nil {
		txn := &model.TransactionModel{
			BeneficiaryID: beneficiaryID,
			Amount:        cfg.WelcomeBonusCredits,
			Type:          string(entity.TransactionTypeEarned),
			Direction:     string(entity.DirectionCredit),
			Reference:     &ref,
			Description:   "Welcome bonus",
		}
		if err := db.Create(txn).Error; err != nil {
			return fmt.Errorf("failed to create welcome bonus: %w", err)
		}

		wallet := &model.WalletModel{
			BeneficiaryID: beneficiaryID,
			Balance:       cfg.WelcomeBonusCredits,
		}
		if err := db.Create(wallet).Error; err != nil {
			return fmt.Errorf("failed to create wallet: %w", err)
		}
		log.Info("Granted welcome bonus to demo beneficiary %s", beneficiaryID)
	}

	log.Info("Demo IDs: donor=%s business=%s beneficiary=%s", donorID, businessID, beneficiaryID)
	return nil
}
