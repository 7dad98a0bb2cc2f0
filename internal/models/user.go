package models

import "time"

// User represents the user model in the database
type User struct {
	Base
	Email                    string     `gorm:"uniqueIndex;not null" json:"email"`
	Password                 string     `gorm:"not null" json:"-"`
	FirstName                string     `json:"first_name"`
	LastName                 string     `json:"last_name"`
	IsVerified               bool       `gorm:"default:false" json:"is_verified"`
	VerificationToken        *string    `gorm:"index" json:"-"`
	VerificationTokenExpires *time.Time `json:"-"`

	Categories   []Category    `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	SavingGoals  []SavingGoal  `gorm:"foreignKey:UserID" json:"saving_goals,omitempty"`
}
