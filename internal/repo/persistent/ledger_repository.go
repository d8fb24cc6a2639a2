package persistent

import (
	"errors"
	"time"

	"goodloop/internal/entity"
	"goodloop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerRepository interface {
	GetOrCreateWallet(beneficiaryID string) (*entity.Wallet, error)
	GetBalance(beneficiaryID string) (int, error)
	GetEntries(beneficiaryID string, limit, offset int) ([]*entity.Transaction, error)
	RecordEntry(entry *entity.Transaction) error
	RecordWelcomeBonus(beneficiaryID string, amount int) (bool, error)
	Spend(beneficiaryID string, amount int, relatedItemID, description string) error
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) GetOrCreateWallet(beneficiaryID string) (*entity.Wallet, error) {
	var walletModel model.WalletModel
	if err := r.db.Where("beneficiary_id = ?", beneficiaryID).First(&walletModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			walletModel = model.WalletModel{
				ID:            uuid.New().String(),
				BeneficiaryID: beneficiaryID,
				Balance:       0,
			}
			if err := r.db.Create(&walletModel).Error; err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}
	return ToWalletEntity(&walletModel), nil
}

// GetBalance folds the append-only log directly. The wallets row is only a
// projection; this aggregate is the authoritative answer.
func (r *ledgerRepository) GetBalance(beneficiaryID string) (int, error) {
	var balance int
	err := r.db.Raw(
		`SELECT COALESCE(SUM(CASE WHEN direction = 'credit' THEN amount ELSE -amount END), 0)
		 FROM transactions WHERE beneficiary_id = ?`,
		beneficiaryID,
	).Scan(&balance).Error
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *ledgerRepository) GetEntries(beneficiaryID string, limit, offset int) ([]*entity.Transaction, error) {
	var transactionModels []model.TransactionModel
	query := r.db.Where("beneficiary_id = ?", beneficiaryID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]*entity.Transaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = ToTransactionEntity(&transactionModels[i])
	}
	return transactions, nil
}

// RecordEntry appends one entry and keeps the wallet projection in sync in
// the same transaction. Debit entries are guarded against overdraw.
func (r *ledgerRepository) RecordEntry(entry *entity.Transaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if entry.Direction == entity.DirectionDebit {
			return appendDebit(tx, entry)
		}
		return appendCredit(tx, entry)
	})
}

// RecordWelcomeBonus grants the fixed bonus at most once per beneficiary.
// The unique (beneficiary_id, reference) index makes retries no-ops; the
// returned bool reports whether this call actually granted it.
func (r *ledgerRepository) RecordWelcomeBonus(beneficiaryID string, amount int) (bool, error) {
	granted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		ref := entity.WelcomeBonusRef
		entryModel := model.TransactionModel{
			ID:            uuid.New().String(),
			BeneficiaryID: beneficiaryID,
			Amount:        amount,
			Type:          string(entity.TransactionTypeEarned),
			Direction:     string(entity.DirectionCredit),
			Reference:     &ref,
			Description:   "Welcome bonus",
		}

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entryModel)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Already granted earlier; nothing to project.
			return nil
		}

		granted = true
		return bumpWallet(tx, beneficiaryID, amount)
	})
	return granted, err
}

func (r *ledgerRepository) Spend(beneficiaryID string, amount int, relatedItemID, description string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return spendTx(tx, beneficiaryID, amount, relatedItemID, description)
	})
}

// spendTx performs the check-then-act of a spend as a single conditional
// update so concurrent spends against one beneficiary cannot jointly
// overdraw. Shared with the claim transaction.
func spendTx(tx *gorm.DB, beneficiaryID string, amount int, relatedItemID, description string) error {
	if err := ensureWallet(tx, beneficiaryID); err != nil {
		return err
	}

	result := tx.Model(&model.WalletModel{}).
		Where("beneficiary_id = ? AND balance >= ?", beneficiaryID, amount).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance - ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrInsufficientCredits
	}

	entryModel := model.TransactionModel{
		ID:            uuid.New().String(),
		BeneficiaryID: beneficiaryID,
		Amount:        amount,
		Type:          string(entity.TransactionTypeSpent),
		Direction:     string(entity.DirectionDebit),
		RelatedItemID: strOrNil(relatedItemID),
		Description:   description,
	}
	return tx.Create(&entryModel).Error
}

func appendCredit(tx *gorm.DB, entry *entity.Transaction) error {
	entryModel := ToTransactionModel(entry)
	if entryModel.ID == "" {
		entryModel.ID = uuid.New().String()
	}
	if err := tx.Create(entryModel).Error; err != nil {
		return err
	}
	return bumpWallet(tx, entry.BeneficiaryID, entry.Amount)
}

func appendDebit(tx *gorm.DB, entry *entity.Transaction) error {
	if err := ensureWallet(tx, entry.BeneficiaryID); err != nil {
		return err
	}

	result := tx.Model(&model.WalletModel{}).
		Where("beneficiary_id = ? AND balance >= ?", entry.BeneficiaryID, entry.Amount).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance - ?", entry.Amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrInsufficientCredits
	}

	entryModel := ToTransactionModel(entry)
	if entryModel.ID == "" {
		entryModel.ID = uuid.New().String()
	}
	return tx.Create(entryModel).Error
}

func bumpWallet(tx *gorm.DB, beneficiaryID string, amount int) error {
	if err := ensureWallet(tx, beneficiaryID); err != nil {
		return err
	}
	return tx.Model(&model.WalletModel{}).
		Where("beneficiary_id = ?", beneficiaryID).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", amount),
			"updated_at": time.Now(),
		}).Error
}

func ensureWallet(tx *gorm.DB, beneficiaryID string) error {
	walletModel := model.WalletModel{
		ID:            uuid.New().String(),
		BeneficiaryID: beneficiaryID,
		Balance:       0,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "beneficiary_id"}},
		DoNothing: true,
	}).Create(&walletModel).Error
}
