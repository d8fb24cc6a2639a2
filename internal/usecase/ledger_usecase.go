package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"goodloop/internal/entity"
	"goodloop/internal/repo/persistent"
	"goodloop/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	balanceCacheTTL = 15 * time.Minute

	// BalanceSourceLedger means the balance was confirmed against the
	// transaction log; BalanceSourceCache means the backend was unreachable
	// and this is the last-known-good projection, never merged with real data.
	BalanceSourceLedger = "ledger"
	BalanceSourceCache  = "cache"
)

type BalanceResult struct {
	Balance int    `json:"balance"`
	Source  string `json:"source"`
}

type SpendResult struct {
	Success    bool `json:"success"`
	NewBalance int  `json:"new_balance"`
}

type LedgerUseCase interface {
	GetBalance(beneficiaryID string) (*BalanceResult, error)
	GetTransactions(beneficiaryID string, limit, offset int) ([]*entity.Transaction, error)
	GrantWelcomeBonus(beneficiaryID string) (*BalanceResult, error)
	Spend(beneficiaryID string, amount int, relatedItemID, description string) (*SpendResult, error)
	Adjust(beneficiaryID string, delta int, reason string) (*BalanceResult, error)
}

type ledgerUseCase struct {
	ledgerRepo   persistent.LedgerRepository
	redisClient  *redis.Client
	welcomeBonus int
	logger       *logger.Logger
}

func NewLedgerUseCase(ledgerRepo persistent.LedgerRepository, redisClient *redis.Client, welcomeBonus int, logger *logger.Logger) LedgerUseCase {
	return &ledgerUseCase{
		ledgerRepo:   ledgerRepo,
		redisClient:  redisClient,
		welcomeBonus: welcomeBonus,
		logger:       logger,
	}
}

func balanceCacheKey(beneficiaryID string) string {
	return fmt.Sprintf("balance:%s", beneficiaryID)
}

func (uc *ledgerUseCase) GetBalance(beneficiaryID string) (*BalanceResult, error) {
	balance, err := uc.ledgerRepo.GetBalance(beneficiaryID)
	if err == nil {
		uc.cacheBalance(beneficiaryID, balance)
		return &BalanceResult{Balance: balance, Source: BalanceSourceLedger}, nil
	}

	uc.logger.Warn("Balance fold failed for %s, trying cache: %v", beneficiaryID, err)

	ctx := context.Background()
	cached, cacheErr := uc.redisClient.Get(ctx, balanceCacheKey(beneficiaryID)).Result()
	if cacheErr != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	value, parseErr := strconv.Atoi(cached)
	if parseErr != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	return &BalanceResult{Balance: value, Source: BalanceSourceCache}, nil
}

func (uc *ledgerUseCase) GetTransactions(beneficiaryID string, limit, offset int) ([]*entity.Transaction, error) {
	transactions, err := uc.ledgerRepo.GetEntries(beneficiaryID, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to get transactions: %v", err)
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}

// GrantWelcomeBonus is idempotent: repeated calls for the same beneficiary
// are no-ops, not errors.
func (uc *ledgerUseCase) GrantWelcomeBonus(beneficiaryID string) (*BalanceResult, error) {
	granted, err := uc.ledgerRepo.RecordWelcomeBonus(beneficiaryID, uc.welcomeBonus)
	if err != nil {
		uc.logger.Error("Failed to grant welcome bonus: %v", err)
		return nil, fmt.Errorf("failed to grant welcome bonus: %w", err)
	}
	if granted {
		uc.logger.Info("Granted welcome bonus of %d credits to %s", uc.welcomeBonus, beneficiaryID)
	}
	return uc.GetBalance(beneficiaryID)
}

// Spend returns success=false for insufficient balance; that is a normal
// outcome, not an error. Backend failures propagate so the caller knows the
// deduction state is unknown and must re-fetch before retrying.
func (uc *ledgerUseCase) Spend(beneficiaryID string, amount int, relatedItemID, description string) (*SpendResult, error) {
	if amount <= 0 {
		return nil, entity.ValidationError("amount", "must be positive")
	}

	err := uc.ledgerRepo.Spend(beneficiaryID, amount, relatedItemID, description)
	if errors.Is(err, entity.ErrInsufficientCredits) {
		balance, balErr := uc.ledgerRepo.GetBalance(beneficiaryID)
		if balErr != nil {
			// Reporting 0 here would pass off an unknown balance as a
			// confirmed empty one.
			uc.logger.Error("Failed to fetch balance after refused spend: %v", balErr)
			return nil, fmt.Errorf("failed to fetch balance: %w", balErr)
		}
		return &SpendResult{Success: false, NewBalance: balance}, nil
	}
	if err != nil {
		uc.logger.Error("Failed to spend credits: %v", err)
		return nil, fmt.Errorf("failed to spend credits: %w", err)
	}

	balance, err := uc.ledgerRepo.GetBalance(beneficiaryID)
	if err != nil {
		uc.logger.Error("Failed to refresh balance after spend: %v", err)
		return nil, fmt.Errorf("failed to refresh balance after spend: %w", err)
	}
	uc.cacheBalance(beneficiaryID, balance)

	return &SpendResult{Success: true, NewBalance: balance}, nil
}

// Adjust records an admin correction. The delta may be negative but the
// stored entry always carries a positive magnitude; the sign is the entry's
// direction.
func (uc *ledgerUseCase) Adjust(beneficiaryID string, delta int, reason string) (*BalanceResult, error) {
	if delta == 0 {
		return nil, entity.ValidationError("delta", "must be non-zero")
	}
	if reason == "" {
		return nil, entity.ValidationError("reason", "is required")
	}

	amount := delta
	if amount < 0 {
		amount = -amount
	}

	entry := &entity.Transaction{
		BeneficiaryID: beneficiaryID,
		Amount:        amount,
		Type:          entity.TransactionTypeAdjusted,
		Direction:     entity.DirectionFor(entity.TransactionTypeAdjusted, delta),
		Description:   reason,
	}

	if err := uc.ledgerRepo.RecordEntry(entry); err != nil {
		if errors.Is(err, entity.ErrInsufficientCredits) {
			return nil, err
		}
		uc.logger.Error("Failed to record adjustment: %v", err)
		return nil, fmt.Errorf("failed to record adjustment: %w", err)
	}

	return uc.GetBalance(beneficiaryID)
}

func (uc *ledgerUseCase) cacheBalance(beneficiaryID string, balance int) {
	ctx := context.Background()
	if err := uc.redisClient.Set(ctx, balanceCacheKey(beneficiaryID), balance, balanceCacheTTL).Err(); err != nil {
		uc.logger.Warn("Failed to cache balance for %s: %v", beneficiaryID, err)
	}
}
