package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingGoal represents a savings goal. The current balance is never stored:
// it is derived as initialBalance minus the signed sum of the goal's TRANSFER
// transactions (contributions are negative, withdrawals positive).
type SavingGoal struct {
	Base
	UserID         string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Name           string           `gorm:"not null" json:"name"`
	InitialBalance decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"initial_balance"`
	TargetAmount   *decimal.Decimal `gorm:"type:decimal(12,2)" json:"target_amount,omitempty"`
	TargetDate     *time.Time       `json:"target_date,omitempty"`

	Transactions []Transaction `gorm:"foreignKey:SavingGoalID" json:"transactions,omitempty"`
}
