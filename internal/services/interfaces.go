package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"centsimple/internal/daterange"
	"centsimple/internal/models"
	"centsimple/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
// Register and RegenerateVerification return the plaintext verification
// token so the caller can deliver it by email; only the token itself is
// persisted on the user record.
type UserServicer interface {
	Register(email, password, firstName, lastName string) (*models.User, string, error)
	VerifyEmail(token string) (*models.User, error)
	RegenerateVerification(email string) (*models.User, string, error)
	AttemptLogin(email, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
}

// BalanceServicer defines the contract for derived-balance computations.
// Balances are never stored; every call recomputes from transaction sums.
type BalanceServicer interface {
	OverallBalance(userID string) (decimal.Decimal, error)
	SavingGoalBalance(userID, goalID string) (*models.SavingGoal, decimal.Decimal, error)
	TotalSavingsBalance(userID string) (decimal.Decimal, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string) (*models.Category, error)
	ListCategories(userID string) ([]models.Category, []string, error)
	UpdateCategory(userID, categoryID, name string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) (*models.Category, error)
	TogglePin(userID, categoryID string) (bool, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	CategoryID *string
	DateRange  daterange.Range
	Search     string
}

// TransactionList is a page of transactions together with the caller's
// overall balance at the time of the query.
type TransactionList struct {
	pagination.PageResponse[models.Transaction]
	Balance decimal.Decimal `json:"balance"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, amount decimal.Decimal, description string, date time.Time, txType models.TransactionType, categoryID string) (*models.Transaction, error)
	ListTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*TransactionList, error)
	UpdateTransaction(userID, transactionID string, amount decimal.Decimal, description string, date time.Time, txType models.TransactionType, categoryID string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) (*models.Transaction, error)
}

// CreateSavingInput carries the parameters for creating a saving goal.
// When IsTransfer is set and InitialBalance is positive, the goal is funded
// from the user's general balance via an atomic contribution transfer.
type CreateSavingInput struct {
	Name           string
	InitialBalance decimal.Decimal
	TargetAmount   *decimal.Decimal
	TargetDate     *time.Time
	IsTransfer     bool
}

// SavingWithBalance is a saving goal annotated with its derived balance.
type SavingWithBalance struct {
	models.SavingGoal
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

// SavingServicer defines the contract for saving-goal business logic.
type SavingServicer interface {
	CreateSaving(userID string, in CreateSavingInput) (*models.SavingGoal, *models.Transaction, error)
	ListSavings(userID string) ([]SavingWithBalance, decimal.Decimal, error)
	SavingHistory(userID, goalID string) ([]models.Transaction, error)
	SpendFromSaving(userID, goalID string, amount decimal.Decimal, categoryID, description string, date time.Time) (*models.Transaction, *models.Transaction, error)
	Transfer(userID, goalID string, amount decimal.Decimal, date time.Time) (*models.Transaction, error)
}

// ExpenseBreakdownRow is one category's share of spending in a report.
type ExpenseBreakdownRow struct {
	CategoryID   *string         `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
}

// Report summarizes a user's financial activity over a resolved date range.
type Report struct {
	NetEarnSpend            decimal.Decimal       `json:"net_earn_spend"`
	TotalIncome             decimal.Decimal       `json:"total_income"`
	TotalExpense            decimal.Decimal       `json:"total_expense"`
	ExpenseBreakdown        []ExpenseBreakdownRow `json:"expense_breakdown"`
	NetSavings              decimal.Decimal       `json:"net_savings"`
	TotalSavingContribution decimal.Decimal       `json:"total_saving_contribution"`
	TotalSavingWithdrawal   decimal.Decimal       `json:"total_saving_withdrawal"`
	StartDate               *time.Time            `json:"start_date"`
	EndDate                 *time.Time            `json:"end_date"`
}

// ReportServicer defines the contract for report building.
type ReportServicer interface {
	BuildReport(ctx context.Context, userID, rangeToken string) (*Report, error)
}
