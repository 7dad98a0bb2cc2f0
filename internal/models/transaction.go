package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "INCOME"
	TransactionTypeExpense  TransactionType = "EXPENSE"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// Transaction represents a financial transaction in the system.
//
// INCOME and EXPENSE amounts are stored positive; the sign for expenses is
// applied at display time. TRANSFER amounts are signed: negative moves funds
// into a saving goal (contribution), positive moves funds out (withdrawal).
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Type        TransactionType `gorm:"not null" json:"type"`

	// Nil only for TRANSFER rows.
	CategoryID *string `gorm:"type:uuid;index" json:"category_id,omitempty"`

	// Set when the transaction belongs to a saving goal.
	SavingGoalID *string `gorm:"type:uuid;index" json:"saving_goal_id,omitempty"`

	// Pairs a savings-withdrawal TRANSFER with the EXPENSE it funded.
	LinkedTransactionID *string `gorm:"type:uuid" json:"linked_transaction_id,omitempty"`

	Category          *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	SavingGoal        *SavingGoal  `gorm:"foreignKey:SavingGoalID" json:"saving_goal,omitempty"`
	LinkedTransaction *Transaction `gorm:"foreignKey:LinkedTransactionID" json:"linked_transaction,omitempty"`
}
