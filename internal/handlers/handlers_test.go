package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"moneta/internal/models"
	"moneta/internal/services"
	"moneta/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// injectUserID simulates the auth middleware for a fixed user.
func injectUserID(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

// doRequest performs a request against the router and returns the recorder.
func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// parseJSON decodes a response body into a map.
func parseJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body %q: %v", w.Body.String(), err)
	}
	return result
}

// errorCode extracts the error code from an error response body.
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	body := parseJSON(t, w)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got %q", w.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// mockUserService is a function-field mock of services.UserServicer.
type mockUserService struct {
	createUserFn     func(name, email, password string) (*models.User, error)
	getUserByEmailFn func(email string) (*models.User, error)
	getUserByIDFn    func(id uint) (*models.User, error)
	verifyPasswordFn func(user *models.User, password string) bool
}

func (m *mockUserService) CreateUser(name, email, password string) (*models.User, error) {
	return m.createUserFn(name, email, password)
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	return m.getUserByEmailFn(email)
}

func (m *mockUserService) GetUserByID(id uint) (*models.User, error) {
	return m.getUserByIDFn(id)
}

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool {
	return m.verifyPasswordFn(user, password)
}

// mockCategoryService is a function-field mock of services.CategoryServicer.
type mockCategoryService struct {
	listFn   func(userID uint) ([]services.CategoryRecord, error)
	getFn    func(categoryID uint) (*services.CategoryRecord, error)
	createFn func(userID uint, input services.CategoryInput) (*services.CategoryRecord, error)
	updateFn func(userID, categoryID uint, input services.CategoryInput) (*services.CategoryRecord, error)
	deleteFn func(userID, categoryID uint) error
}

func (m *mockCategoryService) ListCategories(userID uint) ([]services.CategoryRecord, error) {
	return m.listFn(userID)
}

func (m *mockCategoryService) GetCategoryByID(categoryID uint) (*services.CategoryRecord, error) {
	return m.getFn(categoryID)
}

func (m *mockCategoryService) CreateCategory(userID uint, input services.CategoryInput) (*services.CategoryRecord, error) {
	return m.createFn(userID, input)
}

func (m *mockCategoryService) UpdateCategory(userID, categoryID uint, input services.CategoryInput) (*services.CategoryRecord, error) {
	return m.updateFn(userID, categoryID, input)
}

func (m *mockCategoryService) DeleteCategory(userID, categoryID uint) error {
	return m.deleteFn(userID, categoryID)
}

// mockTransactionService is a function-field mock of services.TransactionServicer.
type mockTransactionService struct {
	listFn        func(userID uint) ([]services.TransactionRecord, error)
	listMonthlyFn func(userID uint, year, month int) ([]services.TransactionRecord, error)
	listRangeFn   func(userID uint, from, to time.Time) ([]services.TransactionRecord, error)
	getFn         func(transactionID uint) (*services.TransactionRecord, error)
	createFn      func(userID uint, input services.TransactionInput) (*services.TransactionRecord, error)
	updateFn      func(userID, transactionID uint, input services.TransactionInput) (*services.TransactionRecord, error)
	deleteFn      func(userID, transactionID uint) error
}

func (m *mockTransactionService) ListTransactions(userID uint) ([]services.TransactionRecord, error) {
	return m.listFn(userID)
}

func (m *mockTransactionService) ListTransactionsByMonth(userID uint, year, month int) ([]services.TransactionRecord, error) {
	return m.listMonthlyFn(userID, year, month)
}

func (m *mockTransactionService) ListTransactionsByRange(userID uint, from, to time.Time) ([]services.TransactionRecord, error) {
	return m.listRangeFn(userID, from, to)
}

func (m *mockTransactionService) GetTransactionByID(transactionID uint) (*services.TransactionRecord, error) {
	return m.getFn(transactionID)
}

func (m *mockTransactionService) CreateTransaction(userID uint, input services.TransactionInput) (*services.TransactionRecord, error) {
	return m.createFn(userID, input)
}

func (m *mockTransactionService) UpdateTransaction(userID, transactionID uint, input services.TransactionInput) (*services.TransactionRecord, error) {
	return m.updateFn(userID, transactionID, input)
}

func (m *mockTransactionService) DeleteTransaction(userID, transactionID uint) error {
	return m.deleteFn(userID, transactionID)
}

// mockAuditService records audit calls without a database.
type mockAuditService struct {
	entries []string
}

func (m *mockAuditService) Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{}) {
	m.entries = append(m.entries, action)
}

var _ services.UserServicer = (*mockUserService)(nil)
var _ services.CategoryServicer = (*mockCategoryService)(nil)
var _ services.TransactionServicer = (*mockTransactionService)(nil)
var _ services.AuditServicer = (*mockAuditService)(nil)

func checkStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d (body: %s)", want, w.Code, w.Body.String())
	}
}
