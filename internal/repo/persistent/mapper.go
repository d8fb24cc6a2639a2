package persistent

import (
	"goodloop/internal/entity"
	"goodloop/internal/model"
)

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ToDonationEntity(m *model.DonationModel) *entity.Donation {
	if m == nil {
		return nil
	}

	donation := &entity.Donation{
		ID:              m.ID,
		DonorID:         m.DonorID,
		Title:           m.Title,
		Description:     m.Description,
		Category:        entity.Category(m.Category),
		ClothType:       m.ClothType,
		Size:            m.Size,
		Color:           m.Color,
		CreditValue:     m.CreditValue,
		Status:          entity.DonationStatus(m.Status),
		AdminNote:       m.AdminNote,
		RejectionReason: m.RejectionReason,
		AIConfidence:    m.AIConfidence,
		VerifiedAt:      m.VerifiedAt,
		AllocatedAt:     m.AllocatedAt,
		ReceivedAt:      m.ReceivedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}

	if len(m.Images) > 0 {
		donation.Images = make([]entity.DonationImage, len(m.Images))
		for i, img := range m.Images {
			donation.Images[i] = entity.DonationImage{
				ID:         img.ID,
				DonationID: img.DonationID,
				ImageURL:   img.ImageURL,
				Order:      img.Order,
				CreatedAt:  img.CreatedAt,
			}
		}
	}

	return donation
}

func ToDonationModel(e *entity.Donation) *model.DonationModel {
	if e == nil {
		return nil
	}

	donation := &model.DonationModel{
		ID:              e.ID,
		DonorID:         e.DonorID,
		Title:           e.Title,
		Description:     e.Description,
		Category:        string(e.Category),
		ClothType:       e.ClothType,
		Size:            e.Size,
		Color:           e.Color,
		CreditValue:     e.CreditValue,
		Status:          string(e.Status),
		AdminNote:       e.AdminNote,
		RejectionReason: e.RejectionReason,
		AIConfidence:    e.AIConfidence,
		VerifiedAt:      e.VerifiedAt,
		AllocatedAt:     e.AllocatedAt,
		ReceivedAt:      e.ReceivedAt,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}

	if len(e.Images) > 0 {
		donation.Images = make([]model.DonationImageModel, len(e.Images))
		for i, img := range e.Images {
			donation.Images[i] = model.DonationImageModel{
				ID:         img.ID,
				DonationID: img.DonationID,
				ImageURL:   img.ImageURL,
				Order:      img.Order,
				CreatedAt:  img.CreatedAt,
			}
		}
	}

	return donation
}

func ToListingEntity(m *model.ListingModel) *entity.Listing {
	if m == nil {
		return nil
	}

	listing := &entity.Listing{
		ID:               m.ID,
		DonorID:          strOrEmpty(m.DonorID),
		BusinessID:       strOrEmpty(m.BusinessID),
		SourceDonationID: strOrEmpty(m.SourceDonationID),
		Title:            m.Title,
		Description:      m.Description,
		Category:         entity.Category(m.Category),
		CreditCost:       m.CreditCost,
		PriceCents:       m.PriceCents,
		IsAvailable:      m.IsAvailable,
		ClaimedBy:        strOrEmpty(m.ClaimedBy),
		Location:         m.Location,
		CreatedAt:        m.CreatedAt,
	}

	if len(m.Images) > 0 {
		listing.Images = make([]entity.ListingImage, len(m.Images))
		for i, img := range m.Images {
			listing.Images[i] = entity.ListingImage{
				ID:        img.ID,
				ListingID: img.ListingID,
				ImageURL:  img.ImageURL,
				Order:     img.Order,
				CreatedAt: img.CreatedAt,
			}
		}
	}

	return listing
}

func ToListingModel(e *entity.Listing) *model.ListingModel {
	if e == nil {
		return nil
	}

	listing := &model.ListingModel{
		ID:               e.ID,
		DonorID:          strOrNil(e.DonorID),
		BusinessID:       strOrNil(e.BusinessID),
		SourceDonationID: strOrNil(e.SourceDonationID),
		Title:            e.Title,
		Description:      e.Description,
		Category:         string(e.Category),
		CreditCost:       e.CreditCost,
		PriceCents:       e.PriceCents,
		IsAvailable:      e.IsAvailable,
		ClaimedBy:        strOrNil(e.ClaimedBy),
		Location:         e.Location,
		CreatedAt:        e.CreatedAt,
	}

	if len(e.Images) > 0 {
		listing.Images = make([]model.ListingImageModel, len(e.Images))
		for i, img := range e.Images {
			listing.Images[i] = model.ListingImageModel{
				ID:        img.ID,
				ListingID: img.ListingID,
				ImageURL:  img.ImageURL,
				Order:     img.Order,
				CreatedAt: img.CreatedAt,
			}
		}
	}

	return listing
}

func ToTransactionEntity(m *model.TransactionModel) *entity.Transaction {
	if m == nil {
		return nil
	}

	return &entity.Transaction{
		ID:            m.ID,
		BeneficiaryID: m.BeneficiaryID,
		Amount:        m.Amount,
		Type:          entity.TransactionType(m.Type),
		Direction:     entity.TransactionDirection(m.Direction),
		RelatedItemID: strOrEmpty(m.RelatedItemID),
		Reference:     strOrEmpty(m.Reference),
		Description:   m.Description,
		CreatedAt:     m.CreatedAt,
	}
}

func ToTransactionModel(e *entity.Transaction) *model.TransactionModel {
	if e == nil {
		return nil
	}

	return &model.TransactionModel{
		ID:            e.ID,
		BeneficiaryID: e.BeneficiaryID,
		Amount:        e.Amount,
		Type:          string(e.Type),
		Direction:     string(e.Direction),
		RelatedItemID: strOrNil(e.RelatedItemID),
		Reference:     strOrNil(e.Reference),
		Description:   e.Description,
		CreatedAt:     e.CreatedAt,
	}
}

func ToWalletEntity(m *model.WalletModel) *entity.Wallet {
	if m == nil {
		return nil
	}

	return &entity.Wallet{
		ID:            m.ID,
		BeneficiaryID: m.BeneficiaryID,
		Balance:       m.Balance,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
