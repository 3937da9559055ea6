package services

import (
	"fmt"
	"time"

	"github.com/Shanilka-Yapa/Libricore/models"
	"github.com/Shanilka-Yapa/Libricore/utils"
	"github.com/go-playground/validator/v10"
)

// LoanStore is the owner-scoped persistence contract the lifecycle
// engine issues its operations against
type LoanStore interface {
	InsertLoan(loan *models.Loan) error
	FindLoan(ownerID uint, loanID string) (*models.Loan, error)
	FindLoans(ownerID uint) ([]models.Loan, error)
	FindLoansByStatus(ownerID uint, status models.LoanStatus) ([]models.Loan, error)
	MarkOverdue(ownerID uint, now time.Time) (int64, error)
	UpdateLoanStatus(ownerID uint, loanID string, status models.LoanStatus) (int64, error)
	SettleLoan(ownerID uint, loanID string, fine float64) (int64, error)
	DeleteLoan(ownerID uint, loanID string) (int64, error)
	CountLoansByStatus(ownerID uint, status models.LoanStatus) (int64, error)
}

// CreateLoanDTO represents the data for creating a borrowing record
type CreateLoanDTO struct {
	LoanID   string            `json:"id" validate:"required,max=50"`
	Title    string            `json:"title" validate:"required,max=255"`
	Author   string            `json:"author" validate:"required,max=255"`
	Borrower string            `json:"borrower" validate:"required,max=100"`
	LoanDate time.Time         `json:"loanDate" validate:"required"`
	DueDate  time.Time         `json:"dueDate" validate:"required"`
	Status   models.LoanStatus `json:"status" validate:"omitempty,oneof=Borrowed Returned Overdue Paid"`
}

// OverrideStatusDTO represents a manual status edit
type OverrideStatusDTO struct {
	Status models.LoanStatus `json:"status" validate:"required,oneof=Borrowed Returned Overdue Paid"`
}

// PayLoanDTO represents the data for settling a loan's fine. When Fine
// is omitted the engine computes it from the returned date and the
// configured per-day rate.
type PayLoanDTO struct {
	Fine         *float64   `json:"fine" validate:"omitempty,gte=0"`
	ReturnedDate *time.Time `json:"returnedDate"`
}

// LoanStatsDTO represents the circulation counters for an owner.
// Returned and Paid loans no longer count as outstanding circulation.
type LoanStatsDTO struct {
	Loans    int64 `json:"loans"`
	Borrowed int64 `json:"borrowed"`
	Overdue  int64 `json:"overdue"`
}

// LoanService owns the borrowing lifecycle: status transitions, overdue
// detection and fine settlement
type LoanService struct {
	store      LoanStore
	ledger     *SettlementService
	validator  *validator.Validate
	finePerDay float64
}

// NewLoanService creates a new LoanService instance
func NewLoanService(store LoanStore, ledger *SettlementService, finePerDay float64) *LoanService {
	return &LoanService{
		store:      store,
		ledger:     ledger,
		validator:  validator.New(),
		finePerDay: finePerDay,
	}
}

// Reconcile flips the owner's Borrowed loans past their due date to
// Overdue and returns how many were flipped. Safe to re-run: loans
// already Overdue are untouched.
func (s *LoanService) Reconcile(ownerID uint) (int64, error) {
	marked, err := s.store.MarkOverdue(ownerID, time.Now())
	if err != nil {
		return 0, fmt.Errorf("overdue sweep failed: %w", err)
	}
	if marked > 0 {
		utils.LogInfo("Overdue sweep: owner=%d marked=%d", ownerID, marked)
		utils.GetMetrics().RecordSweep(marked)
	}
	return marked, nil
}

// List returns all loans for the owner. Overdue-ness is a function of
// wall-clock time, so a sweep runs first and the refreshed set is
// returned.
func (s *LoanService) List(ownerID uint) ([]models.Loan, error) {
	if _, err := s.Reconcile(ownerID); err != nil {
		return nil, err
	}
	return s.store.FindLoans(ownerID)
}

// Create inserts a new borrowing record. The caller assigns the loan id;
// an id already present for the owner is rejected, the existing record
// left unchanged.
func (s *LoanService) Create(ownerID uint, dto CreateLoanDTO) (*models.Loan, error) {
	if err := s.validator.Struct(dto); err != nil {
		return nil, validationError(err)
	}
	if dto.DueDate.Before(dto.LoanDate) {
		return nil, NewValidationError("dueDate must be on or after loanDate")
	}

	existing, err := s.store.FindLoan(ownerID, dto.LoanID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing loan: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateLoanID
	}

	status := dto.Status
	if status == "" {
		status = models.LoanStatusBorrowed
	}

	loan := &models.Loan{
		LoanID:   dto.LoanID,
		OwnerID:  ownerID,
		Title:    dto.Title,
		Author:   dto.Author,
		Borrower: dto.Borrower,
		LoanDate: dto.LoanDate,
		DueDate:  dto.DueDate,
		Status:   status,
	}

	if err := s.store.InsertLoan(loan); err != nil {
		return nil, fmt.Errorf("failed to insert loan: %w", err)
	}

	utils.GetMetrics().RecordLoanCreated()
	return loan, nil
}

// OverrideStatus is the operator escape hatch: it overwrites the status
// with any enumerated value, bypassing the guarded transitions
func (s *LoanService) OverrideStatus(ownerID uint, loanID string, dto OverrideStatusDTO) (*models.Loan, error) {
	if err := s.validator.Struct(dto); err != nil {
		return nil, validationError(err)
	}

	rows, err := s.store.UpdateLoanStatus(ownerID, loanID, dto.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to update loan status: %w", err)
	}
	if rows == 0 {
		return nil, ErrLoanNotFound
	}

	utils.LogInfo("Status override: owner=%d loan=%s status=%s", ownerID, loanID, dto.Status)
	return s.store.FindLoan(ownerID, loanID)
}

// Pay settles the loan's fine: the loan moves to Paid and exactly one
// settlement record is appended to the ledger. The transition is
// guarded so two concurrent Pay calls cannot both settle the same loan.
// If the settlement write fails after the loan update succeeded, the
// loan stays Paid and the gap is logged for the reconciliation pass.
func (s *LoanService) Pay(ownerID uint, loanID string, dto PayLoanDTO) (*models.Settlement, error) {
	if err := s.validator.Struct(dto); err != nil {
		return nil, validationError(err)
	}

	loan, err := s.store.FindLoan(ownerID, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to find loan: %w", err)
	}
	if loan == nil {
		return nil, ErrLoanNotFound
	}
	if loan.Status == models.LoanStatusPaid {
		return nil, ErrLoanAlreadyPaid
	}

	settledAt := time.Now()
	if dto.ReturnedDate != nil {
		settledAt = *dto.ReturnedDate
	}

	fine := ComputeFine(loan.LoanDate, settledAt, s.finePerDay)
	if dto.Fine != nil {
		fine = *dto.Fine
	}

	rows, err := s.store.SettleLoan(ownerID, loanID, fine)
	if err != nil {
		return nil, fmt.Errorf("failed to settle loan: %w", err)
	}
	if rows == 0 {
		// Lost the race: another Pay settled the loan first
		return nil, ErrLoanAlreadyPaid
	}

	settlement, err := s.ledger.Record(loan, fine, settledAt)
	if err != nil {
		utils.LogReconciliationItem(ownerID, loanID, "loan is Paid but settlement write failed: "+err.Error())
		return nil, fmt.Errorf("loan settled but ledger write failed: %w", err)
	}

	return settlement, nil
}

// Overdue returns the owner's loans whose status is exactly Overdue.
// Read-only: no sweep runs here, callers invoke List or Reconcile first
// to recompute.
func (s *LoanService) Overdue(ownerID uint) ([]models.Loan, error) {
	return s.store.FindLoansByStatus(ownerID, models.LoanStatusOverdue)
}

// Stats returns the owner's circulation counters
func (s *LoanService) Stats(ownerID uint) (*LoanStatsDTO, error) {
	borrowed, err := s.store.CountLoansByStatus(ownerID, models.LoanStatusBorrowed)
	if err != nil {
		return nil, fmt.Errorf("failed to count borrowed loans: %w", err)
	}

	overdue, err := s.store.CountLoansByStatus(ownerID, models.LoanStatusOverdue)
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue loans: %w", err)
	}

	return &LoanStatsDTO{
		Loans:    borrowed + overdue,
		Borrowed: borrowed,
		Overdue:  overdue,
	}, nil
}

// Delete removes a borrowing record for the owner
func (s *LoanService) Delete(ownerID uint, loanID string) error {
	rows, err := s.store.DeleteLoan(ownerID, loanID)
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	if rows == 0 {
		return ErrLoanNotFound
	}
	return nil
}
