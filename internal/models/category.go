package models

// Category represents a transaction category. A category with a nil UserID is
// a default category: visible to every user, editable and deletable by none.
type Category struct {
	Base
	UserID *string `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Name   string  `gorm:"not null" json:"name"`

	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}

// IsDefault reports whether this is a global default category.
func (c *Category) IsDefault() bool {
	return c.UserID == nil
}

// AccessibleBy reports whether the given user may reference this category
// when creating or updating transactions.
func (c *Category) AccessibleBy(userID string) bool {
	return c.IsDefault() || *c.UserID == userID
}

// UserPinnedCategory records a user's pinned categories for sort ordering.
type UserPinnedCategory struct {
	Base
	UserID     string `gorm:"type:uuid;not null;uniqueIndex:idx_user_category" json:"user_id"`
	CategoryID string `gorm:"type:uuid;not null;uniqueIndex:idx_user_category" json:"category_id"`
}
