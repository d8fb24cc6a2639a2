package persistent

import (
	"time"

	"goodloop/internal/entity"
	"goodloop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DonationRepository interface {
	Create(donation *entity.Donation) error
	GetByID(id string) (*entity.Donation, error)
	ListByDonor(donorID string, limit, offset int) ([]*entity.Donation, error)
	ListByStatus(status entity.DonationStatus, limit, offset int) ([]*entity.Donation, error)
	ApproveAndList(id string, category entity.Category, verifiedAt time.Time) (*entity.Donation, *entity.Listing, error)
	Reject(id, reason string) (*entity.Donation, error)
	Reopen(id string) (*entity.Donation, error)
	MarkReceived(id string, receivedAt time.Time) (*entity.Donation, error)
	UpdateCreditValue(id string, value int) error
	UpdateAdminNote(id, note string) error
	RemoveImage(donationID, imageID string) error
	Delete(id string) error
}

type donationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(donation *entity.Donation) error {
	donationModel := ToDonationModel(donation)
	if donationModel.ID == "" {
		donationModel.ID = uuid.New().String()
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		images := donationModel.Images
		donationModel.Images = nil

		if err := tx.Create(donationModel).Error; err != nil {
			return err
		}

		for i := range images {
			images[i].DonationID = donationModel.ID
			if images[i].ID == "" {
				images[i].ID = uuid.New().String()
			}
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
		donationModel.Images = images
		return nil
	})
	if err != nil {
		return err
	}

	donation.ID = donationModel.ID
	donation.CreatedAt = donationModel.CreatedAt
	donation.UpdatedAt = donationModel.UpdatedAt
	for i := range donationModel.Images {
		donation.Images[i].ID = donationModel.Images[i].ID
		donation.Images[i].DonationID = donationModel.ID
	}
	return nil
}

func (r *donationRepository) GetByID(id string) (*entity.Donation, error) {
	var donationModel model.DonationModel
	err := r.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("image_order ASC")
	}).Where("id = ?", id).First(&donationModel).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToDonationEntity(&donationModel), nil
}

func (r *donationRepository) ListByDonor(donorID string, limit, offset int) ([]*entity.Donation, error) {
	return r.list(r.db.Where("donor_id = ?", donorID), limit, offset)
}

func (r *donationRepository) ListByStatus(status entity.DonationStatus, limit, offset int) ([]*entity.Donation, error) {
	return r.list(r.db.Where("status = ?", string(status)), limit, offset)
}

func (r *donationRepository) list(query *gorm.DB, limit, offset int) ([]*entity.Donation, error) {
	var donationModels []model.DonationModel
	query = query.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("image_order ASC")
	}).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&donationModels).Error; err != nil {
		return nil, err
	}

	donations := make([]*entity.Donation, len(donationModels))
	for i := range donationModels {
		donations[i] = ToDonationEntity(&donationModels[i])
	}
	return donations, nil
}

// ApproveAndList runs the whole approval in one database transaction: the
// uploaded -> verified move, the derived listing insert, and the
// verified -> listed move. If the listing cannot be written the donation
// rolls back to uploaded, so a retried approve starts clean instead of
// finding the donation stranded mid-transition. The uploaded guard is a
// conditional update, so two admins racing on the same donation cannot
// both win.
func (r *donationRepository) ApproveAndList(id string, category entity.Category, verifiedAt time.Time) (*entity.Donation, *entity.Listing, error) {
	var (
		donation *entity.Donation
		listing  *entity.Listing
	)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":      string(entity.StatusVerified),
			"verified_at": verifiedAt,
			"updated_at":  verifiedAt,
		}
		if category != "" {
			updates["category"] = string(category)
		}

		result := tx.Model(&model.DonationModel{}).
			Where("id = ? AND status = ?", id, string(entity.StatusUploaded)).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var current model.DonationModel
			if err := tx.Where("id = ?", id).First(&current).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return entity.ErrNotFound
				}
				return err
			}
			return entity.GuardError(entity.DonationStatus(current.Status), "approve")
		}

		var donationModel model.DonationModel
		err := tx.Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("image_order ASC")
		}).Where("id = ?", id).First(&donationModel).Error
		if err != nil {
			return err
		}
		donation = ToDonationEntity(&donationModel)

		listing = entity.DeriveListing(donation)
		listingModel := ToListingModel(listing)
		listingModel.ID = uuid.New().String()
		if err := createListingTx(tx, listingModel); err != nil {
			return err
		}
		listing.ID = listingModel.ID
		listing.CreatedAt = listingModel.CreatedAt

		result = tx.Model(&model.DonationModel{}).
			Where("id = ? AND status = ?", id, string(entity.StatusVerified)).
			Updates(map[string]interface{}{
				"status":     string(entity.StatusListed),
				"updated_at": verifiedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return entity.GuardError(donation.Status, "list")
		}
		donation.Status = entity.StatusListed
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return donation, listing, nil
}

func (r *donationRepository) Reject(id, reason string) (*entity.Donation, error) {
	return r.guardedTransition(id, entity.StatusUploaded, "reject", map[string]interface{}{
		"status":           string(entity.StatusRejected),
		"rejection_reason": reason,
		"updated_at":       time.Now(),
	})
}

func (r *donationRepository) Reopen(id string) (*entity.Donation, error) {
	return r.guardedTransition(id, entity.StatusRejected, "reopen", map[string]interface{}{
		"status":           string(entity.StatusUploaded),
		"rejection_reason": "",
		"updated_at":       time.Now(),
	})
}

func (r *donationRepository) MarkReceived(id string, receivedAt time.Time) (*entity.Donation, error) {
	return r.guardedTransition(id, entity.StatusAllocated, "mark received", map[string]interface{}{
		"status":      string(entity.StatusReceived),
		"received_at": receivedAt,
		"updated_at":  receivedAt,
	})
}

func (r *donationRepository) guardedTransition(id string, from entity.DonationStatus, action string, updates map[string]interface{}) (*entity.Donation, error) {
	result := r.db.Model(&model.DonationModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		current, err := r.GetByID(id)
		if err != nil {
			return nil, err
		}
		return nil, entity.GuardError(current.Status, action)
	}
	return r.GetByID(id)
}

func (r *donationRepository) UpdateCreditValue(id string, value int) error {
	nonTerminal := []string{
		string(entity.StatusUploaded),
		string(entity.StatusVerified),
		string(entity.StatusListed),
		string(entity.StatusAllocated),
	}
	result := r.db.Model(&model.DonationModel{}).
		Where("id = ? AND status IN ?", id, nonTerminal).
		Update("credit_value", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		current, err := r.GetByID(id)
		if err != nil {
			return err
		}
		return entity.GuardError(current.Status, "edit value of")
	}
	return nil
}

func (r *donationRepository) UpdateAdminNote(id, note string) error {
	result := r.db.Model(&model.DonationModel{}).Where("id = ?", id).Update("admin_note", note)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *donationRepository) RemoveImage(donationID, imageID string) error {
	result := r.db.Where("id = ? AND donation_id = ?", imageID, donationID).Delete(&model.DonationImageModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// Delete is a hard removal. A listing derived from this donation is left
// untouched: it was decoupled at derivation time.
func (r *donationRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("donation_id = ?", id).Delete(&model.DonationImageModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.DonationModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return entity.ErrNotFound
		}
		return nil
	})
}
