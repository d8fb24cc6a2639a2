package http

import (
	"net/http"

	"goodloop/internal/usecase"
	"goodloop/pkg/logger"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	ledgerUseCase usecase.LedgerUseCase
	logger        *logger.Logger
}

func NewWalletHandler(ledgerUseCase usecase.LedgerUseCase, logger *logger.Logger) *WalletHandler {
	return &WalletHandler{
		ledgerUseCase: ledgerUseCase,
		logger:        logger,
	}
}

// GetBalance godoc
// @Summary      Get credit balance
// @Description  Folds the caller's ledger entries; source reports whether the value is confirmed or a cached last-known-good
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usecase.BalanceResult
// @Router       /wallet/balance [get]
func (h *WalletHandler) GetBalance(c *gin.Context) {
	beneficiaryID := c.GetString("user_id")

	result, err := h.ledgerUseCase.GetBalance(beneficiaryID)
	if err != nil {
		h.logger.Error("Failed to get balance: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransactions godoc
// @Summary      Get credit transaction history
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of transactions"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /wallet/transactions [get]
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	beneficiaryID := c.GetString("user_id")
	limit, offset := paging(c)

	transactions, err := h.ledgerUseCase.GetTransactions(beneficiaryID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to get transactions: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions, "count": len(transactions)})
}

// ClaimWelcomeBonus godoc
// @Summary      Claim the one-time welcome bonus
// @Description  Idempotent: repeated calls leave the balance unchanged
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usecase.BalanceResult
// @Router       /wallet/welcome-bonus [post]
func (h *WalletHandler) ClaimWelcomeBonus(c *gin.Context) {
	beneficiaryID := c.GetString("user_id")

	result, err := h.ledgerUseCase.GrantWelcomeBonus(beneficiaryID)
	if err != nil {
		h.logger.Error("Failed to grant welcome bonus: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type AdjustRequest struct {
	BeneficiaryID string `json:"beneficiary_id" binding:"required"`
	Delta         int    `json:"delta" binding:"required"`
	Reason        string `json:"reason" binding:"required"`
}

// AdjustCredits godoc
// @Summary      Manually adjust a beneficiary's credits
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AdjustRequest true "Adjustment"
// @Success      200  {object}  usecase.BalanceResult
// @Failure      409  {object}  map[string]string
// @Router       /admin/wallet/adjust [post]
func (h *WalletHandler) AdjustCredits(c *gin.Context) {
	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.ledgerUseCase.Adjust(req.BeneficiaryID, req.Delta, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
