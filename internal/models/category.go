package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeBoth    CategoryType = "both"
)

// CategoryVisibility decides whether a category belongs to a single user
// or is shared across all of them.
type CategoryVisibility string

const (
	// VisibilityOwned attributes the category to the acting user.
	VisibilityOwned CategoryVisibility = "owned"
	// VisibilityShared stores the category without an owner. Shared
	// categories are visible and editable by every authenticated user.
	VisibilityShared CategoryVisibility = "shared"
)

// Category represents a transaction category. A nil UserID marks a
// shared category.
type Category struct {
	Base
	UserID      *uint        `gorm:"index" json:"user_id,omitempty"`
	Name        string       `gorm:"not null" json:"name"`
	Type        CategoryType `gorm:"not null" json:"type"`
	Description string       `json:"description"`

	// Relationships
	User         *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}
