package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Shanilka-Yapa/Libricore/middleware"
	"github.com/Shanilka-Yapa/Libricore/services"
	"github.com/Shanilka-Yapa/Libricore/utils"
	"github.com/gorilla/mux"
)

// LoanController handles borrowing lifecycle requests
type LoanController struct {
	loanService       *services.LoanService
	settlementService *services.SettlementService
}

// NewLoanController creates a new LoanController instance
func NewLoanController(loanService *services.LoanService, settlementService *services.SettlementService) *LoanController {
	return &LoanController{
		loanService:       loanService,
		settlementService: settlementService,
	}
}

// writeJSON sends a JSON response
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeServiceError maps the failure taxonomy onto HTTP status codes
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrLoanNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrBookNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrDuplicateLoanID),
		errors.Is(err, services.ErrDuplicateMemberID),
		errors.Is(err, services.ErrLoanAlreadyPaid),
		errors.Is(err, services.ErrSettlementExists):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		// Store failure: retryable server-side error, never swallowed
		utils.GetMetrics().RecordError(err)
		utils.LogError("Request failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// List handles listing all borrowings, sweeping overdue status first
func (c *LoanController) List(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	loans, err := c.loanService.List(caller.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"borrowings": loans})
}

// Create handles adding a new borrowing
func (c *LoanController) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var dto services.CreateLoanDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	loan, err := c.loanService.Create(caller.UserID, dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Borrowing added successfully!",
		"borrowing": loan,
	})
}

// UpdateStatus handles a manual status edit (operator override)
func (c *LoanController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	loanID := mux.Vars(r)["id"]

	var dto services.OverrideStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	loan, err := c.loanService.OverrideStatus(caller.UserID, loanID, dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Status updated successfully",
		"borrowing": loan,
	})
}

// Pay handles settling a loan's fine
func (c *LoanController) Pay(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	loanID := mux.Vars(r)["id"]

	var dto services.PayLoanDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	settlement, err := c.loanService.Pay(caller.UserID, loanID, dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Fine marked as paid successfully",
		"paidFine": settlement,
	})
}

// Delete handles removing a borrowing record
func (c *LoanController) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	loanID := mux.Vars(r)["id"]

	if err := c.loanService.Delete(caller.UserID, loanID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Borrowing deleted successfully"})
}

// Overdue handles listing overdue borrowings (read-only, no sweep)
func (c *LoanController) Overdue(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	loans, err := c.loanService.Overdue(caller.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"overdues": loans})
}

// Reconcile handles an explicit overdue sweep request
func (c *LoanController) Reconcile(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	marked, err := c.loanService.Reconcile(caller.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"markedOverdue": marked})
}

// Settlements handles listing the paid-fine ledger
func (c *LoanController) Settlements(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	settlements, err := c.settlementService.ListByOwner(caller.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"paidFines": settlements})
}

// ExportSettlements handles exporting the ledger as an XML report
func (c *LoanController) ExportSettlements(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	report, err := c.settlementService.ExportXML(caller.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", `attachment; filename="settlements.xml"`)
	w.WriteHeader(http.StatusOK)
	w.Write(report)
}

// Stats handles the dashboard counters
func (c *LoanController) Stats(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	stats, err := c.loanService.Stats(caller.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
