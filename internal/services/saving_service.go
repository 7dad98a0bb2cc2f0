package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "centsimple/internal/errors"
	"centsimple/internal/models"
)

// savingService handles saving-goal business logic.
//
// Solvency checks run before the write without a pessimistic lock: two
// concurrent transfers can both pass the check against a stale balance and
// together overdraw the account. This matches the intended behavior; see
// DESIGN.md for the open issue.
type savingService struct {
	db             *gorm.DB
	balanceService BalanceServicer
}

// NewSavingService creates a new SavingServicer.
func NewSavingService(db *gorm.DB, balanceService BalanceServicer) SavingServicer {
	return &savingService{
		db:             db,
		balanceService: balanceService,
	}
}

// CreateSaving creates a saving goal. When funded from the general balance
// (IsTransfer with a positive InitialBalance), the goal is stored with a zero
// initial balance and a contribution TRANSFER of -InitialBalance is written
// in the same database transaction; the creation fails outright if the user's
// overall balance cannot cover the transfer.
func (s *savingService) CreateSaving(userID string, in CreateSavingInput) (*models.SavingGoal, *models.Transaction, error) {
	if in.Name == "" {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "saving goal name is required")
	}
	if in.InitialBalance.IsNegative() {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "initial balance must not be negative")
	}

	fundFromBalance := in.IsTransfer && in.InitialBalance.IsPositive()

	if !fundFromBalance {
		goal := &models.SavingGoal{
			UserID:         userID,
			Name:           in.Name,
			InitialBalance: in.InitialBalance,
			TargetAmount:   in.TargetAmount,
			TargetDate:     in.TargetDate,
		}
		if err := s.db.Create(goal).Error; err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return goal, nil, nil
	}

	balance, err := s.balanceService.OverallBalance(userID)
	if err != nil {
		return nil, nil, err
	}
	if balance.LessThan(in.InitialBalance) {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInsufficientFunds, "Insufficient funds to make the initial transfer")
	}

	goal := &models.SavingGoal{
		UserID:         userID,
		Name:           in.Name,
		InitialBalance: decimal.Zero,
		TargetAmount:   in.TargetAmount,
		TargetDate:     in.TargetDate,
	}
	var transfer *models.Transaction

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(goal).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		transfer = &models.Transaction{
			UserID:       userID,
			Amount:       in.InitialBalance.Neg(),
			Description:  fmt.Sprintf("Initial transfer to %s", in.Name),
			Date:         time.Now(),
			Type:         models.TransactionTypeTransfer,
			SavingGoalID: &goal.ID,
		}
		if err := tx.Create(transfer).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return goal, transfer, nil
}

// ListSavings returns the user's saving goals, newest first, each annotated
// with its derived balance, plus the combined balance across all goals.
func (s *savingService) ListSavings(userID string) ([]SavingWithBalance, decimal.Decimal, error) {
	var goals []models.SavingGoal
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&goals).Error; err != nil {
		return nil, decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// One grouped query for the transfer totals instead of a sum per goal.
	var rows []struct {
		SavingGoalID string
		Total        decimal.Decimal
	}
	if err := s.db.Model(&models.Transaction{}).
		Select("saving_goal_id, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND saving_goal_id IS NOT NULL AND type = ?", userID, models.TransactionTypeTransfer).
		Group("saving_goal_id").
		Scan(&rows).Error; err != nil {
		return nil, decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.SavingGoalID] = row.Total
	}

	result := make([]SavingWithBalance, 0, len(goals))
	for _, goal := range goals {
		result = append(result, SavingWithBalance{
			SavingGoal:     goal,
			CurrentBalance: goal.InitialBalance.Sub(totals[goal.ID]),
		})
	}

	totalBalance, err := s.balanceService.TotalSavingsBalance(userID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	return result, totalBalance, nil
}

// SavingHistory returns the goal's transactions, newest first, excluding the
// withdrawal artifacts generated by SpendFromSaving (rows linked to the
// expense they funded).
func (s *savingService) SavingHistory(userID, goalID string) ([]models.Transaction, error) {
	if _, _, err := s.balanceService.SavingGoalBalance(userID, goalID); err != nil {
		return nil, err
	}

	var history []models.Transaction
	if err := s.db.Where("user_id = ? AND saving_goal_id = ? AND linked_transaction_id IS NULL", userID, goalID).
		Order("date DESC").
		Find(&history).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return history, nil
}

// SpendFromSaving spends directly out of a saving goal: it writes an EXPENSE
// for the amount, tagged with the goal and category, and a withdrawal
// TRANSFER of +amount linked back to the expense. Both rows commit or
// neither does.
func (s *savingService) SpendFromSaving(
	userID, goalID string,
	amount decimal.Decimal,
	categoryID, description string,
	date time.Time,
) (*models.Transaction, *models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if date.IsZero() {
		date = time.Now()
	}

	goal, currentBalance, err := s.balanceService.SavingGoalBalance(userID, goalID)
	if err != nil {
		return nil, nil, err
	}
	if currentBalance.LessThan(amount) {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInsufficientFunds, "Insufficient funds to spend from this saving goal")
	}

	var category models.Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "the specified category does not exist")
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !category.AccessibleBy(userID) {
		return nil, nil, apperrors.ErrCategoryForbidden
	}

	var expense, transfer *models.Transaction
	err = s.db.Transaction(func(tx *gorm.DB) error {
		expense = &models.Transaction{
			UserID:       userID,
			Amount:       amount,
			Description:  fmt.Sprintf("Spent from %s: %s", goal.Name, description),
			Date:         date,
			Type:         models.TransactionTypeExpense,
			CategoryID:   &categoryID,
			SavingGoalID: &goal.ID,
		}
		if err := tx.Create(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		transfer = &models.Transaction{
			UserID:              userID,
			Amount:              amount,
			Description:         fmt.Sprintf("Withdrawal from %s: %s", goal.Name, description),
			Date:                date,
			Type:                models.TransactionTypeTransfer,
			SavingGoalID:        &goal.ID,
			LinkedTransactionID: &expense.ID,
		}
		if err := tx.Create(transfer).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return expense, transfer, nil
}

// Transfer moves funds between the general balance and a saving goal. The
// amount's sign selects the direction: positive withdraws from the goal,
// negative contributes to it. A withdrawal must be covered by the goal's
// balance and a contribution by the overall balance.
func (s *savingService) Transfer(userID, goalID string, amount decimal.Decimal, date time.Time) (*models.Transaction, error) {
	goal, currentBalance, err := s.balanceService.SavingGoalBalance(userID, goalID)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}

	var description string
	switch {
	case amount.IsPositive():
		if currentBalance.LessThan(amount) {
			return nil, apperrors.WithMessage(apperrors.ErrInsufficientFunds, "Insufficient funds to withdraw from this saving goal")
		}
		description = fmt.Sprintf("Withdrawal from %s", goal.Name)
	case amount.IsNegative():
		overall, err := s.balanceService.OverallBalance(userID)
		if err != nil {
			return nil, err
		}
		if overall.LessThan(amount.Neg()) {
			return nil, apperrors.WithMessage(apperrors.ErrInsufficientFunds, "Insufficient funds to contribute to this saving goal")
		}
		description = fmt.Sprintf("Contribution to %s", goal.Name)
	default:
		// Zero amounts are rejected by request validation before we get here.
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be zero")
	}

	transfer := &models.Transaction{
		UserID:       userID,
		Amount:       amount,
		Description:  description,
		Date:         date,
		Type:         models.TransactionTypeTransfer,
		SavingGoalID: &goal.ID,
	}
	if err := s.db.Create(transfer).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transfer, nil
}
