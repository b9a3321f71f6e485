package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/ownership"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// ListTransactions retrieves all of the user's transactions, newest first.
func (s *transactionService) ListTransactions(userID uint) ([]TransactionRecord, error) {
	return s.listTransactions(s.db.Where("user_id = ?", userID))
}

// ListTransactionsByMonth retrieves the user's transactions whose date falls
// in the given calendar month, newest first. Out-of-range month values are
// normalized by the date arithmetic and simply yield that month's window.
func (s *transactionService) ListTransactionsByMonth(userID uint, year, month int) ([]TransactionRecord, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return s.listTransactions(s.db.Where("user_id = ? AND date >= ? AND date < ?", userID, start, end))
}

// ListTransactionsByRange retrieves the user's transactions with
// from <= date <= to, newest first.
func (s *transactionService) ListTransactionsByRange(userID uint, from, to time.Time) ([]TransactionRecord, error) {
	return s.listTransactions(s.db.Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to))
}

func (s *transactionService) listTransactions(query *gorm.DB) ([]TransactionRecord, error) {
	var transactions []models.Transaction
	if err := query.
		Preload("Category").
		Order("date DESC, id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	records := make([]TransactionRecord, 0, len(transactions))
	for i := range transactions {
		records = append(records, mapTransaction(&transactions[i]))
	}
	return records, nil
}

// GetTransactionByID retrieves a transaction by ID. Like category reads,
// this path is not ownership checked.
func (s *transactionService) GetTransactionByID(transactionID uint) (*TransactionRecord, error) {
	transaction, err := s.getTransactionEntity(transactionID)
	if err != nil {
		return nil, err
	}
	record := mapTransaction(transaction)
	return &record, nil
}

// CreateTransaction creates a new transaction owned by the acting user.
// Any owner hint in the input is ignored; a category id that does not
// resolve leaves the transaction uncategorized rather than failing.
func (s *transactionService) CreateTransaction(userID uint, input TransactionInput) (*TransactionRecord, error) {
	transaction := &models.Transaction{UserID: userID}
	s.applyTransactionInput(transaction, input)

	if err := s.db.Omit(clause.Associations).Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	record := mapTransaction(transaction)
	return &record, nil
}

// UpdateTransaction overwrites the mutable fields of a transaction. A
// transaction owned by another user surfaces as not found. The category
// reference is re-resolved with the same silent fallback as creation.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, input TransactionInput) (*TransactionRecord, error) {
	transaction, err := s.getTransactionEntity(transactionID)
	if err != nil {
		return nil, err
	}

	if !ownership.CanModifyTransaction(transaction, userID) {
		return nil, apperrors.ErrTransactionNotFound
	}

	s.applyTransactionInput(transaction, input)

	if err := s.db.Omit(clause.Associations).Save(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	record := mapTransaction(transaction)
	return &record, nil
}

// DeleteTransaction deletes a transaction after the same ownership check
// as updates.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.getTransactionEntity(transactionID)
	if err != nil {
		return err
	}

	if !ownership.CanModifyTransaction(transaction, userID) {
		return apperrors.ErrTransactionNotFound
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *transactionService) getTransactionEntity(transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").First(&transaction, transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// applyTransactionInput copies the mutable fields onto the entity and
// resolves the category reference. An unresolvable id clears the reference
// instead of erroring.
func (s *transactionService) applyTransactionInput(transaction *models.Transaction, input TransactionInput) {
	transaction.Description = input.Description
	transaction.Amount = input.Amount
	transaction.Type = input.Type

	transaction.Date = input.Date
	if transaction.Date.IsZero() {
		transaction.Date = time.Now()
	}

	category := s.resolveCategory(input.CategoryID)
	transaction.Category = category
	if category != nil {
		transaction.CategoryID = &category.ID
	} else {
		transaction.CategoryID = nil
	}
}

// resolveCategory looks up a category reference. Returns nil for a nil id
// or an id that no longer exists.
func (s *transactionService) resolveCategory(categoryID *uint) *models.Category {
	if categoryID == nil {
		return nil
	}
	var category models.Category
	if err := s.db.First(&category, *categoryID).Error; err != nil {
		return nil
	}
	return &category
}

func mapTransaction(transaction *models.Transaction) TransactionRecord {
	record := TransactionRecord{
		ID:          transaction.ID,
		Description: transaction.Description,
		Amount:      transaction.Amount,
		Date:        transaction.Date,
		Type:        transaction.Type,
		CategoryID:  transaction.CategoryID,
	}
	if transaction.Category != nil {
		record.CategoryName = transaction.Category.Name
	}
	return record
}
