package persistent

import (
	"fmt"
	"time"

	"goodloop/internal/entity"
	"goodloop/internal/model"
	"goodloop/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListingRepository interface {
	Create(listing *entity.Listing) error
	GetByID(id string) (*entity.Listing, error)
	ListAvailable(limit, offset int, category string) ([]*entity.Listing, error)
	ListByOwner(ownerID string, limit, offset int) ([]*entity.Listing, error)
	UpdateCreditCost(id string, creditCost int) error
	RemoveImage(listingID, imageID string) error
	RestoreAvailability(id string) error
	Delete(id string) error
	Claim(listingID, beneficiaryID string) (*entity.Listing, error)
}

type listingRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewListingRepository(db *gorm.DB, logger *logger.Logger) ListingRepository {
	return &listingRepository{db: db, logger: logger}
}

func (r *listingRepository) Create(listing *entity.Listing) error {
	listingModel := ToListingModel(listing)
	if listingModel.ID == "" {
		listingModel.ID = uuid.New().String()
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return createListingTx(tx, listingModel)
	})
	if err != nil {
		return err
	}

	listing.ID = listingModel.ID
	listing.CreatedAt = listingModel.CreatedAt
	return nil
}

func createListingTx(tx *gorm.DB, listingModel *model.ListingModel) error {
	images := listingModel.Images
	listingModel.Images = nil

	if err := tx.Create(listingModel).Error; err != nil {
		return err
	}

	for i := range images {
		images[i].ListingID = listingModel.ID
		if images[i].ID == "" {
			images[i].ID = uuid.New().String()
		}
	}
	if len(images) > 0 {
		if err := tx.Create(&images).Error; err != nil {
			return err
		}
	}
	listingModel.Images = images
	return nil
}

func (r *listingRepository) GetByID(id string) (*entity.Listing, error) {
	var listingModel model.ListingModel
	err := r.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("image_order ASC")
	}).Where("id = ?", id).First(&listingModel).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToListingEntity(&listingModel), nil
}

func (r *listingRepository) ListAvailable(limit, offset int, category string) ([]*entity.Listing, error) {
	var listingModels []model.ListingModel
	query := r.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("image_order ASC")
	}).Where("is_available = ?", true).Order("created_at DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&listingModels).Error; err != nil {
		return nil, err
	}

	listings := make([]*entity.Listing, len(listingModels))
	for i := range listingModels {
		listings[i] = ToListingEntity(&listingModels[i])
	}
	return listings, nil
}

func (r *listingRepository) ListByOwner(ownerID string, limit, offset int) ([]*entity.Listing, error) {
	var listingModels []model.ListingModel
	query := r.db.Preload("Images").
		Where("donor_id = ? OR business_id = ?", ownerID, ownerID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&listingModels).Error; err != nil {
		return nil, err
	}

	listings := make([]*entity.Listing, len(listingModels))
	for i := range listingModels {
		listings[i] = ToListingEntity(&listingModels[i])
	}
	return listings, nil
}

func (r *listingRepository) UpdateCreditCost(id string, creditCost int) error {
	result := r.db.Model(&model.ListingModel{}).Where("id = ?", id).Update("credit_cost", creditCost)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *listingRepository) RemoveImage(listingID, imageID string) error {
	result := r.db.Where("id = ? AND listing_id = ?", imageID, listingID).Delete(&model.ListingImageModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// RestoreAvailability is the administrative correction for the otherwise
// one-way available -> unavailable flip.
func (r *listingRepository) RestoreAvailability(id string) error {
	result := r.db.Model(&model.ListingModel{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_available": true,
			"claimed_by":   nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *listingRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", id).Delete(&model.ListingImageModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.ListingModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return entity.ErrNotFound
		}
		return nil
	})
}

// Claim is the whole claim unit in one database transaction: a conditional
// availability flip, the spend, the ledger entry, and the originating
// donation's move to allocated. Losing any step rolls back all of them, so
// a listing can never be flipped without a matching debit or vice versa.
func (r *listingRepository) Claim(listingID, beneficiaryID string) (*entity.Listing, error) {
	var claimed *entity.Listing

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var listingModel model.ListingModel
		if err := tx.Where("id = ?", listingID).First(&listingModel).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return entity.ErrNotFound
			}
			return err
		}

		// Check-and-flip as one conditional update; a concurrent claimant
		// that commits first leaves zero rows for this one to match.
		result := tx.Model(&model.ListingModel{}).
			Where("id = ? AND is_available = ?", listingID, true).
			Updates(map[string]interface{}{
				"is_available": false,
				"claimed_by":   beneficiaryID,
				"updated_at":   time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return entity.ErrNotAvailable
		}

		if listingModel.CreditCost > 0 {
			description := fmt.Sprintf("Claimed %q", listingModel.Title)
			if err := spendTx(tx, beneficiaryID, listingModel.CreditCost, listingID, description); err != nil {
				return err
			}
		}

		if listingModel.SourceDonationID != nil {
			now := time.Now()
			result := tx.Model(&model.DonationModel{}).
				Where("id = ? AND status = ?", *listingModel.SourceDonationID, string(entity.StatusListed)).
				Updates(map[string]interface{}{
					"status":       string(entity.StatusAllocated),
					"allocated_at": now,
					"updated_at":   now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				// The donation drifted out of listed, usually after an
				// availability restore. The claim still stands; leave a
				// trace for the operator reconciling the two records.
				r.logger.Warn("Claim of listing %s: source donation %s was not in listed state",
					listingID, *listingModel.SourceDonationID)
			}
		}

		listingModel.IsAvailable = false
		listingModel.ClaimedBy = &beneficiaryID
		claimed = ToListingEntity(&listingModel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return claimed, nil
}
