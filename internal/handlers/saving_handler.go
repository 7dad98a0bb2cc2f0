package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "centsimple/internal/errors"
	"centsimple/internal/services"
)

// SavingHandler handles saving-goal requests
type SavingHandler struct {
	savingService services.SavingServicer
}

// NewSavingHandler creates a new SavingHandler
func NewSavingHandler(savingService services.SavingServicer) *SavingHandler {
	return &SavingHandler{savingService: savingService}
}

// CreateSavingRequest represents the payload for creating a saving goal
type CreateSavingRequest struct {
	Name           string           `json:"name" binding:"required,max=100"`
	InitialBalance decimal.Decimal  `json:"initial_balance"`
	TargetAmount   *decimal.Decimal `json:"target_amount"`
	TargetDate     *time.Time       `json:"target_date"`
	IsTransfer     bool             `json:"is_transfer"`
}

// SpendFromSavingRequest represents the payload for spending out of a goal
type SpendFromSavingRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	CategoryID  string          `json:"category_id" binding:"required"`
	Description string          `json:"description" binding:"required,max=255"`
	Date        time.Time       `json:"date"`
}

// TransferRequest represents the payload for a transfer against a goal.
// A positive amount withdraws from the goal, a negative amount contributes.
type TransferRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Date   time.Time       `json:"date"`
}

// SavingsListResponse represents the saving goals list with the combined balance
type SavingsListResponse struct {
	SavingGoals  []services.SavingWithBalance `json:"saving_goals"`
	TotalBalance decimal.Decimal              `json:"total_balance"`
}

// CreateSaving handles the creation of a new saving goal
// @Summary     Create a saving goal
// @Description Create a saving goal, optionally funded from the general balance via a transfer
// @Tags        savings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSavingRequest true "Saving goal details"
// @Success     201 {object} models.SavingGoal "Saving goal created"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient funds"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings [post]
func (h *SavingHandler) CreateSaving(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSavingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, transfer, err := h.savingService.CreateSaving(userID, services.CreateSavingInput{
		Name:           req.Name,
		InitialBalance: req.InitialBalance,
		TargetAmount:   req.TargetAmount,
		TargetDate:     req.TargetDate,
		IsTransfer:     req.IsTransfer,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := gin.H{"saving_goal": goal}
	if transfer != nil {
		resp["transaction"] = transfer
	}
	c.JSON(http.StatusCreated, resp)
}

// ListSavings handles the retrieval of all saving goals
// @Summary     List saving goals
// @Description List the user's saving goals with their current balances
// @Tags        savings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SavingsListResponse "Saving goals with balances"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings [get]
func (h *SavingHandler) ListSavings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goals, totalBalance, err := h.savingService.ListSavings(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, SavingsListResponse{
		SavingGoals:  goals,
		TotalBalance: totalBalance,
	})
}

// SavingHistory handles the retrieval of a goal's transaction history
// @Summary     Get saving goal history
// @Description List a saving goal's transactions, newest first
// @Tags        savings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Saving goal ID"
// @Success     200 {array} models.Transaction "Goal transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Saving goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings/{id}/history [get]
func (h *SavingHandler) SavingHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	history, err := h.savingService.SavingHistory(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": history})
}

// SpendFromSaving handles spending directly from a saving goal
// @Summary     Spend from a saving goal
// @Description Record an expense paid out of a saving goal's balance
// @Tags        savings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Saving goal ID"
// @Param       request body SpendFromSavingRequest true "Expense details"
// @Success     201 {object} models.Transaction "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient funds"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Category belongs to another user"
// @Failure     404 {object} ErrorResponse "Saving goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings/{id}/spend [post]
func (h *SavingHandler) SpendFromSaving(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SpendFromSavingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, transfer, err := h.savingService.SpendFromSaving(
		userID,
		c.Param("id"),
		req.Amount,
		req.CategoryID,
		req.Description,
		req.Date,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"transaction": expense,
		"transfer":    transfer,
	})
}

// Transfer handles moving funds between the general balance and a goal
// @Summary     Transfer to or from a saving goal
// @Description Move funds between the general balance and a saving goal; the amount's sign selects the direction
// @Tags        savings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Saving goal ID"
// @Param       request body TransferRequest true "Transfer details"
// @Success     201 {object} models.Transaction "Transfer created"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient funds"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Saving goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings/{id}/transfer [post]
func (h *SavingHandler) Transfer(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Amount.IsZero() {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be zero"))
		return
	}

	transfer, err := h.savingService.Transfer(userID, c.Param("id"), req.Amount, req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transfer})
}
