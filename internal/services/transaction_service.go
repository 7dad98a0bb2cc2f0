package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "centsimple/internal/errors"
	"centsimple/internal/models"
	"centsimple/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db             *gorm.DB
	balanceService BalanceServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, balanceService BalanceServicer) TransactionServicer {
	return &transactionService{
		db:             db,
		balanceService: balanceService,
	}
}

// CreateTransaction records a new income or expense for the user. The
// referenced category must exist and be a default or one of the user's own.
func (s *transactionService) CreateTransaction(
	userID string,
	amount decimal.Decimal,
	description string,
	date time.Time,
	txType models.TransactionType,
	categoryID string,
) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if txType != models.TransactionTypeIncome && txType != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if date.IsZero() {
		date = time.Now()
	}

	if _, err := s.resolveCategory(userID, categoryID); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Amount:      amount,
		Description: description,
		Date:        date,
		Type:        txType,
		CategoryID:  &categoryID,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// ListTransactions retrieves a paginated, filtered page of the user's
// transaction history, newest first, along with the overall balance.
// Savings-withdrawal artifacts (rows linked to the expense they funded) are
// excluded so the history only shows user-initiated entries.
func (s *transactionService) ListTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*TransactionList, error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).
		Where("transactions.user_id = ?", userID).
		Where("transactions.linked_transaction_id IS NULL")

	if filter.CategoryID != nil {
		base = base.Where("transactions.category_id = ?", *filter.CategoryID)
	}
	base = filter.DateRange.Apply(base, "transactions.date")
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		base = base.
			Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
			Where("LOWER(transactions.description) LIKE ? OR LOWER(categories.name) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Select("transactions.*").
		Scopes(pagination.Paginate(page)).
		Order("transactions.date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	balance, err := s.balanceService.OverallBalance(userID)
	if err != nil {
		return nil, err
	}

	return &TransactionList{
		PageResponse: pagination.NewPageResponse(transactions, page.Page, page.Limit, total),
		Balance:      balance,
	}, nil
}

// UpdateTransaction updates an existing income or expense. Transactions
// written by the savings endpoints (TRANSFER rows) cannot be edited here.
func (s *transactionService) UpdateTransaction(
	userID, transactionID string,
	amount decimal.Decimal,
	description string,
	date time.Time,
	txType models.TransactionType,
	categoryID string,
) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if txType != models.TransactionTypeIncome && txType != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}

	transaction, err := s.getOwnedTransaction(userID, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.Type == models.TransactionTypeTransfer {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidTransactionType, "transfers cannot be edited directly")
	}

	if _, err := s.resolveCategory(userID, categoryID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"amount":      amount,
		"description": description,
		"date":        date,
		"type":        txType,
		"category_id": categoryID,
	}
	if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// DeleteTransaction deletes one of the user's transactions.
func (s *transactionService) DeleteTransaction(userID, transactionID string) (*models.Transaction, error) {
	transaction, err := s.getOwnedTransaction(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// getOwnedTransaction fetches a transaction and verifies ownership. Absent
// and foreign transactions both report not-found.
func (s *transactionService) getOwnedTransaction(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ?", transactionID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if transaction.UserID != userID {
		return nil, apperrors.ErrTransactionNotFound
	}
	return &transaction, nil
}

// resolveCategory checks that the referenced category exists and that the
// user may use it: either a default category or one of their own.
func (s *transactionService) resolveCategory(userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "the specified category does not exist")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !category.AccessibleBy(userID) {
		return nil, apperrors.ErrCategoryForbidden
	}
	return &category, nil
}
