package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "centsimple/internal/errors"
	"centsimple/internal/models"
)

// balanceService computes derived balances from transaction sums.
type balanceService struct {
	db *gorm.DB
}

// NewBalanceService creates a new BalanceServicer.
func NewBalanceService(db *gorm.DB) BalanceServicer {
	return &balanceService{db: db}
}

// OverallBalance computes the user's liquid balance:
// sum(INCOME) - sum(EXPENSE) + sum(TRANSFER). Contributions to savings are
// stored negative and withdrawals positive, so adding the signed TRANSFER
// sum nets the general balance correctly.
func (s *balanceService) OverallBalance(userID string) (decimal.Decimal, error) {
	income, err := sumAmounts(s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, models.TransactionTypeIncome))
	if err != nil {
		return decimal.Zero, err
	}

	expense, err := sumAmounts(s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, models.TransactionTypeExpense))
	if err != nil {
		return decimal.Zero, err
	}

	transfers, err := sumAmounts(s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, models.TransactionTypeTransfer))
	if err != nil {
		return decimal.Zero, err
	}

	return income.Sub(expense).Add(transfers), nil
}

// SavingGoalBalance fetches a saving goal and its derived balance:
// initialBalance - sum(TRANSFER amounts for the goal).
// Absent goals and goals owned by other users both surface as not-found.
func (s *balanceService) SavingGoalBalance(userID, goalID string) (*models.SavingGoal, decimal.Decimal, error) {
	var goal models.SavingGoal
	if err := s.db.Where("id = ?", goalID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, decimal.Zero, apperrors.ErrSavingGoalNotFound
		}
		return nil, decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if goal.UserID != userID {
		return nil, decimal.Zero, apperrors.ErrSavingGoalNotFound
	}

	transfers, err := sumAmounts(s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND saving_goal_id = ? AND type = ?", userID, goalID, models.TransactionTypeTransfer))
	if err != nil {
		return nil, decimal.Zero, err
	}

	return &goal, goal.InitialBalance.Sub(transfers), nil
}

// TotalSavingsBalance computes the combined balance of all the user's saving
// goals: sum(initialBalance) - sum(TRANSFER amounts across all goals).
func (s *balanceService) TotalSavingsBalance(userID string) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	if err := s.db.Model(&models.SavingGoal{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(initial_balance), 0) AS total").
		Scan(&row).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	transfers, err := sumAmounts(s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, models.TransactionTypeTransfer))
	if err != nil {
		return decimal.Zero, err
	}

	return row.Total.Sub(transfers), nil
}

// sumAmounts sums the amount column of the given query, defaulting to zero
// when no rows match.
func sumAmounts(q *gorm.DB) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	if err := q.Select("COALESCE(SUM(amount), 0) AS total").Scan(&row).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return row.Total, nil
}
