package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Shanilka-Yapa/Libricore/middleware"
	"github.com/Shanilka-Yapa/Libricore/models"
	"github.com/Shanilka-Yapa/Libricore/services"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubStore is a map-backed store for exercising the handlers end to end
type stubStore struct {
	loans       map[string]models.Loan
	settlements map[string]models.Settlement
}

func newStubStore() *stubStore {
	return &stubStore{
		loans:       make(map[string]models.Loan),
		settlements: make(map[string]models.Settlement),
	}
}

func stubKey(ownerID uint, loanID string) string {
	return fmt.Sprintf("%d|%s", ownerID, loanID)
}

func (s *stubStore) InsertLoan(loan *models.Loan) error {
	key := stubKey(loan.OwnerID, loan.LoanID)
	if _, exists := s.loans[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	s.loans[key] = *loan
	return nil
}

func (s *stubStore) FindLoan(ownerID uint, loanID string) (*models.Loan, error) {
	loan, exists := s.loans[stubKey(ownerID, loanID)]
	if !exists {
		return nil, nil
	}
	copied := loan
	return &copied, nil
}

func (s *stubStore) FindLoans(ownerID uint) ([]models.Loan, error) {
	var out []models.Loan
	for _, loan := range s.loans {
		if loan.OwnerID == ownerID {
			out = append(out, loan)
		}
	}
	return out, nil
}

func (s *stubStore) FindLoansByStatus(ownerID uint, status models.LoanStatus) ([]models.Loan, error) {
	var out []models.Loan
	for _, loan := range s.loans {
		if loan.OwnerID == ownerID && loan.Status == status {
			out = append(out, loan)
		}
	}
	return out, nil
}

func (s *stubStore) MarkOverdue(ownerID uint, now time.Time) (int64, error) {
	var marked int64
	for key, loan := range s.loans {
		if loan.OwnerID == ownerID && loan.Status == models.LoanStatusBorrowed && loan.DueDate.Before(now) {
			loan.Status = models.LoanStatusOverdue
			s.loans[key] = loan
			marked++
		}
	}
	return marked, nil
}

func (s *stubStore) UpdateLoanStatus(ownerID uint, loanID string, status models.LoanStatus) (int64, error) {
	key := stubKey(ownerID, loanID)
	loan, exists := s.loans[key]
	if !exists {
		return 0, nil
	}
	loan.Status = status
	s.loans[key] = loan
	return 1, nil
}

func (s *stubStore) SettleLoan(ownerID uint, loanID string, fine float64) (int64, error) {
	key := stubKey(ownerID, loanID)
	loan, exists := s.loans[key]
	if !exists || loan.Status == models.LoanStatusPaid {
		return 0, nil
	}
	loan.Status = models.LoanStatusPaid
	loan.Fine = fine
	s.loans[key] = loan
	return 1, nil
}

func (s *stubStore) DeleteLoan(ownerID uint, loanID string) (int64, error) {
	key := stubKey(ownerID, loanID)
	if _, exists := s.loans[key]; !exists {
		return 0, nil
	}
	delete(s.loans, key)
	return 1, nil
}

func (s *stubStore) CountLoansByStatus(ownerID uint, status models.LoanStatus) (int64, error) {
	var count int64
	for _, loan := range s.loans {
		if loan.OwnerID == ownerID && loan.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *stubStore) InsertSettlement(stl *models.Settlement) error {
	key := stubKey(stl.OwnerID, stl.LoanID)
	if _, exists := s.settlements[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	s.settlements[key] = *stl
	return nil
}

func (s *stubStore) FindSettlements(ownerID uint) ([]models.Settlement, error) {
	var out []models.Settlement
	for _, stl := range s.settlements {
		if stl.OwnerID == ownerID {
			out = append(out, stl)
		}
	}
	return out, nil
}

func (s *stubStore) CountSettlements(ownerID uint, loanID string) (int64, error) {
	if _, exists := s.settlements[stubKey(ownerID, loanID)]; exists {
		return 1, nil
	}
	return 0, nil
}

// newTestRouter wires the borrowing routes the way main does, with a
// middleware that injects a fixed caller instead of parsing a JWT
func newTestRouter(store *stubStore, caller middleware.Caller) *mux.Router {
	settlementService := services.NewSettlementService(store, []byte("test-hmac-key"))
	loanService := services.NewLoanService(store, settlementService, 10.0)
	controller := NewLoanController(loanService, settlementService)

	router := mux.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithCaller(r.Context(), caller)))
		})
	})

	router.HandleFunc("/api/borrowings", controller.List).Methods("GET")
	router.HandleFunc("/api/borrowings", controller.Create).Methods("POST")
	router.HandleFunc("/api/borrowings/overdue", controller.Overdue).Methods("GET")
	router.HandleFunc("/api/borrowings/paid", controller.Settlements).Methods("GET")
	router.HandleFunc("/api/borrowings/paid/export", controller.ExportSettlements).Methods("GET")
	router.HandleFunc("/api/borrowings/stats", controller.Stats).Methods("GET")
	router.HandleFunc("/api/borrowings/reconcile", controller.Reconcile).Methods("POST")
	router.HandleFunc("/api/borrowings/{id}/status", controller.UpdateStatus).Methods("PUT")
	router.HandleFunc("/api/borrowings/{id}/pay", controller.Pay).Methods("PUT")
	router.HandleFunc("/api/borrowings/{id}", controller.Delete).Methods("DELETE")
	return router
}

func doRequest(router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const createBody = `{
	"id": "L1",
	"title": "The Go Programming Language",
	"author": "Donovan & Kernighan",
	"borrower": "M-001",
	"loanDate": "2024-01-01T00:00:00Z",
	"dueDate": "2024-01-08T00:00:00Z"
}`

func TestCreateBorrowing(t *testing.T) {
	router := newTestRouter(newStubStore(), middleware.Caller{UserID: 1})

	rec := doRequest(router, "POST", "/api/borrowings", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Borrowing models.Loan `json:"borrowing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "L1", resp.Borrowing.LoanID)
	assert.Equal(t, models.LoanStatusBorrowed, resp.Borrowing.Status)
}

func TestCreateDuplicateReturnsConflict(t *testing.T) {
	router := newTestRouter(newStubStore(), middleware.Caller{UserID: 1})

	rec := doRequest(router, "POST", "/api/borrowings", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(router, "POST", "/api/borrowings", createBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateMissingFieldReturnsBadRequest(t *testing.T) {
	router := newTestRouter(newStubStore(), middleware.Caller{UserID: 1})

	rec := doRequest(router, "POST", "/api/borrowings", `{"id": "L1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSweepsBeforeReturning(t *testing.T) {
	router := newTestRouter(newStubStore(), middleware.Caller{UserID: 1})

	rec := doRequest(router, "POST", "/api/borrowings", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(router, "GET", "/api/borrowings", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Borrowings []models.Loan `json:"borrowings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Borrowings, 1)
	assert.Equal(t, models.LoanStatusOverdue, resp.Borrowings[0].Status)
}

func TestPayFlow(t *testing.T) {
	store := newStubStore()
	router := newTestRouter(store, middleware.Caller{UserID: 1})

	rec := doRequest(router, "POST", "/api/borrowings", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(router, "PUT", "/api/borrowings/L1/pay", `{"fine": 15.50}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		PaidFine models.Settlement `json:"paidFine"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "L1", resp.PaidFine.LoanID)
	assert.Equal(t, 15.50, resp.PaidFine.FineAmount)

	// Paying again conflicts and leaves one ledger entry
	rec = doRequest(router, "PUT", "/api/borrowings/L1/pay", `{"fine": 15.50}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	count, err := store.CountSettlements(1, "L1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPayUnknownLoanReturnsNotFound(t *testing.T) {
	router := newTestRouter(newStubStore(), middleware.Caller{UserID: 1})

	rec := doRequest(router, "PUT", "/api/borrowings/missing/pay", `{"fine": 5}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatusOverride(t *testing.T) {
	router := newTestRouter(newStubStore(), middleware.Caller{UserID: 1})

	rec := doRequest(router, "POST", "/api/borrowings", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(router, "PUT", "/api/borrowings/L1/status", `{"status": "Returned"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Borrowing models.Loan `json:"borrowing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.LoanStatusReturned, resp.Borrowing.Status)

	rec = doRequest(router, "PUT", "/api/borrowings/L1/status", `{"status": "Lost"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteBorrowing(t *testing.T) {
	router := newTestRouter(newStubStore(), middleware.Caller{UserID: 1})

	rec := doRequest(router, "POST", "/api/borrowings", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(router, "DELETE", "/api/borrowings/L1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, "DELETE", "/api/borrowings/L1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTenantCannotTouchOthersLoans(t *testing.T) {
	store := newStubStore()

	ownerRouter := newTestRouter(store, middleware.Caller{UserID: 1})
	rec := doRequest(ownerRouter, "POST", "/api/borrowings", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same store, different caller: the loan does not exist for them
	otherRouter := newTestRouter(store, middleware.Caller{UserID: 2})

	rec = doRequest(otherRouter, "PUT", "/api/borrowings/L1/pay", `{"fine": 5}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(otherRouter, "DELETE", "/api/borrowings/L1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(otherRouter, "GET", "/api/borrowings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Borrowings []models.Loan `json:"borrowings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Borrowings)
}

func TestStatsEndpoint(t *testing.T) {
	router := newTestRouter(newStubStore(), middleware.Caller{UserID: 1})

	rec := doRequest(router, "POST", "/api/borrowings", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Sweep first so the counters reflect reality
	rec = doRequest(router, "POST", "/api/borrowings/reconcile", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, "GET", "/api/borrowings/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats services.LoanStatsDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(0), stats.Borrowed)
	assert.Equal(t, int64(1), stats.Overdue)
	assert.Equal(t, int64(1), stats.Loans)
}

func TestSettlementsEndpoints(t *testing.T) {
	router := newTestRouter(newStubStore(), middleware.Caller{UserID: 1})

	rec := doRequest(router, "POST", "/api/borrowings", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doRequest(router, "PUT", "/api/borrowings/L1/pay", `{"fine": 15.50}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, "GET", "/api/borrowings/paid", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		PaidFines []models.Settlement `json:"paidFines"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.PaidFines, 1)

	rec = doRequest(router, "GET", "/api/borrowings/paid/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<loanId>L1</loanId>")
}

func TestMissingCallerIsUnauthorized(t *testing.T) {
	store := newStubStore()
	settlementService := services.NewSettlementService(store, []byte("test-hmac-key"))
	loanService := services.NewLoanService(store, settlementService, 10.0)
	controller := NewLoanController(loanService, settlementService)

	req := httptest.NewRequest("GET", "/api/borrowings", nil)
	rec := httptest.NewRecorder()
	controller.List(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
