package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/services"
)

func setupTransactionRouter(svc *mockTransactionService, audit *mockAuditService, userID uint) *gin.Engine {
	handler := NewTransactionHandler(svc, audit)

	router := gin.New()
	group := router.Group("/", injectUserID(userID))
	group.POST("/transactions", handler.CreateTransaction)
	group.GET("/transactions", handler.ListTransactions)
	group.GET("/transactions/monthly", handler.ListMonthlyTransactions)
	group.GET("/transactions/range", handler.ListTransactionsByRange)
	group.GET("/transactions/:id", handler.GetTransactionByID)
	group.PUT("/transactions/:id", handler.UpdateTransaction)
	group.DELETE("/transactions/:id", handler.DeleteTransaction)
	return router
}

func TestCreateTransactionHandler(t *testing.T) {
	t.Run("passes caller and parsed input to service", func(t *testing.T) {
		var gotUserID uint
		var gotInput services.TransactionInput
		svc := &mockTransactionService{
			createFn: func(userID uint, input services.TransactionInput) (*services.TransactionRecord, error) {
				gotUserID, gotInput = userID, input
				return &services.TransactionRecord{ID: 1, Description: input.Description, Amount: input.Amount, Type: input.Type}, nil
			},
		}
		audit := &mockAuditService{}
		router := setupTransactionRouter(svc, audit, 42)

		w := doRequest(t, router, http.MethodPost, "/transactions", gin.H{
			"description": "Coffee",
			"amount":      "4.50",
			"type":        "expense",
			"date":        "2026-03-15",
			"category_id": 7,
		})
		checkStatus(t, w, http.StatusCreated)

		if gotUserID != 42 {
			t.Errorf("expected user 42, got %d", gotUserID)
		}
		if !gotInput.Amount.Equal(decimal.RequireFromString("4.50")) {
			t.Errorf("expected amount 4.50, got %s", gotInput.Amount)
		}
		if gotInput.CategoryID == nil || *gotInput.CategoryID != 7 {
			t.Errorf("expected category 7, got %v", gotInput.CategoryID)
		}
		want := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
		if !gotInput.Date.Equal(want) {
			t.Errorf("expected date %v, got %v", want, gotInput.Date)
		}
		if len(audit.entries) != 1 || audit.entries[0] != "CREATE_TRANSACTION" {
			t.Errorf("expected CREATE_TRANSACTION audit entry, got %v", audit.entries)
		}
	})

	t.Run("accepts RFC3339 dates", func(t *testing.T) {
		var gotInput services.TransactionInput
		svc := &mockTransactionService{
			createFn: func(userID uint, input services.TransactionInput) (*services.TransactionRecord, error) {
				gotInput = input
				return &services.TransactionRecord{ID: 2}, nil
			},
		}
		router := setupTransactionRouter(svc, &mockAuditService{}, 42)

		w := doRequest(t, router, http.MethodPost, "/transactions", gin.H{
			"amount": "10.00",
			"type":   "income",
			"date":   "2026-03-15T09:30:00Z",
		})
		checkStatus(t, w, http.StatusCreated)

		want := time.Date(2026, time.March, 15, 9, 30, 0, 0, time.UTC)
		if !gotInput.Date.Equal(want) {
			t.Errorf("expected date %v, got %v", want, gotInput.Date)
		}
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		svc := &mockTransactionService{
			createFn: func(userID uint, input services.TransactionInput) (*services.TransactionRecord, error) {
				t.Fatal("service should not be called for invalid input")
				return nil, nil
			},
		}
		router := setupTransactionRouter(svc, &mockAuditService{}, 42)

		w := doRequest(t, router, http.MethodPost, "/transactions", gin.H{
			"amount": "10.00",
			"type":   "expense",
			"date":   "15/03/2026",
		})
		checkStatus(t, w, http.StatusBadRequest)
	})

	t.Run("rejects missing amount", func(t *testing.T) {
		svc := &mockTransactionService{
			createFn: func(userID uint, input services.TransactionInput) (*services.TransactionRecord, error) {
				t.Fatal("service should not be called for invalid input")
				return nil, nil
			},
		}
		router := setupTransactionRouter(svc, &mockAuditService{}, 42)

		w := doRequest(t, router, http.MethodPost, "/transactions", gin.H{
			"type": "expense",
		})
		checkStatus(t, w, http.StatusBadRequest)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		svc := &mockTransactionService{
			createFn: func(userID uint, input services.TransactionInput) (*services.TransactionRecord, error) {
				t.Fatal("service should not be called for invalid input")
				return nil, nil
			},
		}
		router := setupTransactionRouter(svc, &mockAuditService{}, 42)

		w := doRequest(t, router, http.MethodPost, "/transactions", gin.H{
			"amount": "10.00",
			"type":   "transfer",
		})
		checkStatus(t, w, http.StatusBadRequest)
	})
}

func TestListTransactionsHandler(t *testing.T) {
	svc := &mockTransactionService{
		listFn: func(userID uint) ([]services.TransactionRecord, error) {
			return []services.TransactionRecord{
				{ID: 2, Description: "Lunch", Amount: decimal.RequireFromString("11.00"), Type: models.TransactionTypeExpense},
				{ID: 1, Description: "Coffee", Amount: decimal.RequireFromString("4.50"), Type: models.TransactionTypeExpense},
			}, nil
		},
	}
	router := setupTransactionRouter(svc, &mockAuditService{}, 42)

	w := doRequest(t, router, http.MethodGet, "/transactions", nil)
	checkStatus(t, w, http.StatusOK)

	body := parseJSON(t, w)
	transactions, ok := body["transactions"].([]interface{})
	if !ok {
		t.Fatalf("expected transactions array, got %v", body["transactions"])
	}
	if len(transactions) != 2 {
		t.Errorf("expected 2 transactions, got %d", len(transactions))
	}
}

func TestListMonthlyTransactionsHandler(t *testing.T) {
	t.Run("passes year and month to service", func(t *testing.T) {
		var gotYear, gotMonth int
		svc := &mockTransactionService{
			listMonthlyFn: func(userID uint, year, month int) ([]services.TransactionRecord, error) {
				gotYear, gotMonth = year, month
				return []services.TransactionRecord{}, nil
			},
		}
		router := setupTransactionRouter(svc, &mockAuditService{}, 42)

		w := doRequest(t, router, http.MethodGet, "/transactions/monthly?year=2026&month=2", nil)
		checkStatus(t, w, http.StatusOK)

		if gotYear != 2026 || gotMonth != 2 {
			t.Errorf("expected 2026-02, got %d-%d", gotYear, gotMonth)
		}
	})

	t.Run("rejects non-numeric month", func(t *testing.T) {
		svc := &mockTransactionService{
			listMonthlyFn: func(userID uint, year, month int) ([]services.TransactionRecord, error) {
				t.Fatal("service should not be called for invalid input")
				return nil, nil
			},
		}
		router := setupTransactionRouter(svc, &mockAuditService{}, 42)

		w := doRequest(t, router, http.MethodGet, "/transactions/monthly?year=2026&month=feb", nil)
		checkStatus(t, w, http.StatusBadRequest)
	})

	t.Run("rejects missing year", func(t *testing.T) {
		svc := &mockTransactionService{
			listMonthlyFn: func(userID uint, year, month int) ([]services.TransactionRecord, error) {
				t.Fatal("service should not be called for invalid input")
				return nil, nil
			},
		}
		router := setupTransactionRouter(svc, &mockAuditService{}, 42)

		w := doRequest(t, router, http.MethodGet, "/transactions/monthly?month=2", nil)
		checkStatus(t, w, http.StatusBadRequest)
	})
}

func TestListTransactionsByRangeHandler(t *testing.T) {
	t.Run("passes parsed bounds to service", func(t *testing.T) {
		var gotFrom, gotTo time.Time
		svc := &mockTransactionService{
			listRangeFn: func(userID uint, from, to time.Time) ([]services.TransactionRecord, error) {
				gotFrom, gotTo = from, to
				return []services.TransactionRecord{}, nil
			},
		}
		router := setupTransactionRouter(svc, &mockAuditService{}, 42)

		w := doRequest(t, router, http.MethodGet, "/transactions/range?from=2026-04-05&to=2026-04-20", nil)
		checkStatus(t, w, http.StatusOK)

		if !gotFrom.Equal(time.Date(2026, time.April, 5, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected from bound: %v", gotFrom)
		}
		if !gotTo.Equal(time.Date(2026, time.April, 20, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected to bound: %v", gotTo)
		}
	})

	t.Run("rejects malformed bounds", func(t *testing.T) {
		svc := &mockTransactionService{
			listRangeFn: func(userID uint, from, to time.Time) ([]services.TransactionRecord, error) {
				t.Fatal("service should not be called for invalid input")
				return nil, nil
			},
		}
		router := setupTransactionRouter(svc, &mockAuditService{}, 42)

		w := doRequest(t, router, http.MethodGet, "/transactions/range?from=yesterday&to=2026-04-20", nil)
		checkStatus(t, w, http.StatusBadRequest)
	})
}

func TestGetTransactionByIDHandler(t *testing.T) {
	t.Run("returns transaction", func(t *testing.T) {
		svc := &mockTransactionService{
			getFn: func(transactionID uint) (*services.TransactionRecord, error) {
				return &services.TransactionRecord{ID: transactionID, Description: "Coffee"}, nil
			},
		}
		router := setupTransactionRouter(svc, &mockAuditService{}, 42)

		w := doRequest(t, router, http.MethodGet, "/transactions/5", nil)
		checkStatus(t, w, http.StatusOK)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		svc := &mockTransactionService{
			getFn: func(transactionID uint) (*services.TransactionRecord, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		router := setupTransactionRouter(svc, &mockAuditService{}, 42)

		w := doRequest(t, router, http.MethodGet, "/transactions/999", nil)
		checkStatus(t, w, http.StatusNotFound)

		if code := errorCode(t, w); code != "TRANSACTION_NOT_FOUND" {
			t.Errorf("expected TRANSACTION_NOT_FOUND, got %s", code)
		}
	})
}

func TestUpdateTransactionHandler(t *testing.T) {
	t.Run("passes caller and id to service", func(t *testing.T) {
		var gotUserID, gotTransactionID uint
		svc := &mockTransactionService{
			updateFn: func(userID, transactionID uint, input services.TransactionInput) (*services.TransactionRecord, error) {
				gotUserID, gotTransactionID = userID, transactionID
				return &services.TransactionRecord{ID: transactionID}, nil
			},
		}
		audit := &mockAuditService{}
		router := setupTransactionRouter(svc, audit, 42)

		w := doRequest(t, router, http.MethodPut, "/transactions/5", gin.H{
			"amount": "20.00",
			"type":   "expense",
		})
		checkStatus(t, w, http.StatusOK)

		if gotUserID != 42 || gotTransactionID != 5 {
			t.Errorf("expected user 42 and transaction 5, got %d and %d", gotUserID, gotTransactionID)
		}
		if len(audit.entries) != 1 || audit.entries[0] != "UPDATE_TRANSACTION" {
			t.Errorf("expected UPDATE_TRANSACTION audit entry, got %v", audit.entries)
		}
	})

	t.Run("foreign transaction surfaces as not found", func(t *testing.T) {
		svc := &mockTransactionService{
			updateFn: func(userID, transactionID uint, input services.TransactionInput) (*services.TransactionRecord, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		router := setupTransactionRouter(svc, &mockAuditService{}, 42)

		w := doRequest(t, router, http.MethodPut, "/transactions/5", gin.H{
			"amount": "20.00",
			"type":   "expense",
		})
		checkStatus(t, w, http.StatusNotFound)
	})
}

func TestDeleteTransactionHandler(t *testing.T) {
	t.Run("deletes and audits", func(t *testing.T) {
		svc := &mockTransactionService{
			deleteFn: func(userID, transactionID uint) error {
				return nil
			},
		}
		audit := &mockAuditService{}
		router := setupTransactionRouter(svc, audit, 42)

		w := doRequest(t, router, http.MethodDelete, "/transactions/5", nil)
		checkStatus(t, w, http.StatusOK)

		if len(audit.entries) != 1 || audit.entries[0] != "DELETE_TRANSACTION" {
			t.Errorf("expected DELETE_TRANSACTION audit entry, got %v", audit.entries)
		}
	})

	t.Run("foreign transaction surfaces as not found", func(t *testing.T) {
		svc := &mockTransactionService{
			deleteFn: func(userID, transactionID uint) error {
				return apperrors.ErrTransactionNotFound
			},
		}
		audit := &mockAuditService{}
		router := setupTransactionRouter(svc, audit, 42)

		w := doRequest(t, router, http.MethodDelete, "/transactions/5", nil)
		checkStatus(t, w, http.StatusNotFound)

		if len(audit.entries) != 0 {
			t.Errorf("failed delete must not be audited, got %v", audit.entries)
		}
	})
}
