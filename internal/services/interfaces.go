package services

import (
	"time"

	"github.com/shopspring/decimal"

	"moneta/internal/models"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(name, email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// CategoryInput holds the mutable fields of a category. Visibility decides
// whether the category is attributed to the acting user or stored as a
// shared, ownerless category.
type CategoryInput struct {
	Name        string
	Description string
	Type        models.CategoryType
	Visibility  models.CategoryVisibility
}

// CategoryRecord is the flat transport form of a category. UserID is nil
// for shared categories.
type CategoryRecord struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Type        models.CategoryType `json:"type"`
	UserID      *uint               `json:"user_id,omitempty"`
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	ListCategories(userID uint) ([]CategoryRecord, error)
	GetCategoryByID(categoryID uint) (*CategoryRecord, error)
	CreateCategory(userID uint, input CategoryInput) (*CategoryRecord, error)
	UpdateCategory(userID, categoryID uint, input CategoryInput) (*CategoryRecord, error)
	DeleteCategory(userID, categoryID uint) error
}

// TransactionInput holds the mutable fields of a transaction. CategoryID
// may be nil for an uncategorized transaction; an id that does not resolve
// to an existing category is dropped silently rather than rejected.
type TransactionInput struct {
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Type        models.TransactionType
	CategoryID  *uint
}

// TransactionRecord is the flat transport form of a transaction.
// CategoryName is denormalized next to CategoryID so clients don't need a
// second lookup.
type TransactionRecord struct {
	ID           uint                   `json:"id"`
	Description  string                 `json:"description"`
	Amount       decimal.Decimal        `json:"amount"`
	Date         time.Time              `json:"date"`
	Type         models.TransactionType `json:"type"`
	CategoryID   *uint                  `json:"category_id,omitempty"`
	CategoryName string                 `json:"category_name,omitempty"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	ListTransactions(userID uint) ([]TransactionRecord, error)
	ListTransactionsByMonth(userID uint, year, month int) ([]TransactionRecord, error)
	ListTransactionsByRange(userID uint, from, to time.Time) ([]TransactionRecord, error)
	GetTransactionByID(transactionID uint) (*TransactionRecord, error)
	CreateTransaction(userID uint, input TransactionInput) (*TransactionRecord, error)
	UpdateTransaction(userID, transactionID uint, input TransactionInput) (*TransactionRecord, error)
	DeleteTransaction(userID, transactionID uint) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
