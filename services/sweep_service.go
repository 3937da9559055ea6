package services

import (
	"fmt"
	"time"

	"github.com/Shanilka-Yapa/Libricore/models"
	"github.com/Shanilka-Yapa/Libricore/utils"
)

// SweepStore is the persistence contract for the background sweeper,
// which works across all owners
type SweepStore interface {
	FindDueBorrowed(now time.Time) ([]models.Loan, error)
	MarkOverdue(ownerID uint, now time.Time) (int64, error)
	FindPaidWithoutSettlement() ([]models.Loan, error)
	GetUserByID(id uint) (*models.User, error)
}

// SweepService periodically recomputes overdue status across all owners
// and repairs Paid loans whose settlement write was lost
type SweepService struct {
	store  SweepStore
	ledger *SettlementService
	email  *EmailService
}

// NewSweepService creates a new SweepService instance
func NewSweepService(store SweepStore, ledger *SettlementService, email *EmailService) *SweepService {
	return &SweepService{
		store:  store,
		ledger: ledger,
		email:  email,
	}
}

// Start launches the background tickers
func (s *SweepService) Start(sweepInterval time.Duration) {
	sweepTicker := time.NewTicker(sweepInterval)
	go func() {
		for range sweepTicker.C {
			if err := s.SweepAll(); err != nil {
				utils.LogError("Background overdue sweep failed: %v", err)
			}
		}
	}()

	reconcileTicker := time.NewTicker(time.Hour)
	go func() {
		for range reconcileTicker.C {
			if err := s.ReconcileSettlements(); err != nil {
				utils.LogError("Settlement reconciliation failed: %v", err)
			}
		}
	}()
}

// SweepAll flips every Borrowed loan past its due date to Overdue,
// across all owners, then emails each affected owner a digest of the
// newly overdue loans
func (s *SweepService) SweepAll() (err error) {
	now := time.Now()
	defer func() { utils.LogOperation("overdue_sweep", now, err) }()

	due, err := s.store.FindDueBorrowed(now)
	if err != nil {
		return fmt.Errorf("failed to find due loans: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	byOwner := make(map[uint][]models.Loan)
	for _, loan := range due {
		byOwner[loan.OwnerID] = append(byOwner[loan.OwnerID], loan)
	}

	var total int64
	for ownerID, loans := range byOwner {
		marked, err := s.store.MarkOverdue(ownerID, now)
		if err != nil {
			return fmt.Errorf("failed to mark overdue loans for owner %d: %w", ownerID, err)
		}
		total += marked

		if s.email == nil {
			continue
		}
		owner, err := s.store.GetUserByID(ownerID)
		if err != nil {
			utils.LogError("Sweep digest: failed to load owner %d: %v", ownerID, err)
			continue
		}
		if err := s.email.SendOverdueDigest(owner.Email, loans); err != nil {
			// Notification failure never blocks the sweep itself
			utils.LogError("Sweep digest: failed to email %s: %v", owner.Email, err)
		}
	}

	utils.LogInfo("Background sweep marked %d loans overdue", total)
	utils.GetMetrics().RecordSweep(total)
	return nil
}

// ReconcileSettlements finds Paid loans with no settlement record and
// appends the missing ledger entries. This closes the gap left when a
// Pay call updated the loan but the settlement write failed.
func (s *SweepService) ReconcileSettlements() error {
	loans, err := s.store.FindPaidWithoutSettlement()
	if err != nil {
		return fmt.Errorf("failed to find unsettled paid loans: %w", err)
	}

	for i := range loans {
		loan := &loans[i]
		// UpdatedAt is the closest record of when the loan was settled
		settlement, err := s.ledger.Record(loan, loan.Fine, loan.UpdatedAt)
		if err != nil {
			if err == ErrSettlementExists {
				continue
			}
			utils.LogError("Reconciliation: failed to record settlement for owner=%d loan=%s: %v",
				loan.OwnerID, loan.LoanID, err)
			continue
		}
		utils.LogInfo("Reconciliation: recorded missing settlement for owner=%d loan=%s",
			loan.OwnerID, loan.LoanID)

		if s.email == nil {
			continue
		}
		owner, err := s.store.GetUserByID(loan.OwnerID)
		if err != nil {
			utils.LogError("Reconciliation: failed to load owner %d: %v", loan.OwnerID, err)
			continue
		}
		if err := s.email.SendSettlementConfirmation(owner.Email, settlement); err != nil {
			utils.LogError("Reconciliation: failed to email %s: %v", owner.Email, err)
		}
	}

	return nil
}
