package database

import (
	"errors"
	"time"

	"github.com/Shanilka-Yapa/Libricore/models"
	"gorm.io/gorm"
)

// Loan store. Every query carries owner_id so one account can never
// observe another account's records.

// InsertLoan inserts a new loan record
func (d *Database) InsertLoan(loan *models.Loan) error {
	return d.DB.Create(loan).Error
}

// FindLoan returns the loan with the given caller-assigned id for the
// owner, or nil if no such loan exists
func (d *Database) FindLoan(ownerID uint, loanID string) (*models.Loan, error) {
	var loan models.Loan
	if err := d.DB.Where("owner_id = ? AND loan_id = ?", ownerID, loanID).First(&loan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &loan, nil
}

// FindLoans returns all loans for the owner
func (d *Database) FindLoans(ownerID uint) ([]models.Loan, error) {
	var loans []models.Loan
	if err := d.DB.Where("owner_id = ?", ownerID).
		Order("loan_id ASC").
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// FindLoansByStatus returns the owner's loans with the given status
func (d *Database) FindLoansByStatus(ownerID uint, status models.LoanStatus) ([]models.Loan, error) {
	var loans []models.Loan
	if err := d.DB.Where("owner_id = ? AND status = ?", ownerID, status).
		Order("loan_id ASC").
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// MarkOverdue flips every Borrowed loan of the owner whose due date is
// strictly before now to Overdue. Idempotent: re-running touches nothing.
func (d *Database) MarkOverdue(ownerID uint, now time.Time) (int64, error) {
	res := d.DB.Model(&models.Loan{}).
		Where("owner_id = ? AND status = ? AND due_date < ?", ownerID, models.LoanStatusBorrowed, now).
		Updates(map[string]interface{}{"status": models.LoanStatusOverdue, "updated_at": now})
	return res.RowsAffected, res.Error
}

// UpdateLoanStatus overwrites the loan's status. Returns the number of
// rows changed; zero means the loan does not exist for the owner.
func (d *Database) UpdateLoanStatus(ownerID uint, loanID string, status models.LoanStatus) (int64, error) {
	res := d.DB.Model(&models.Loan{}).
		Where("owner_id = ? AND loan_id = ?", ownerID, loanID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

// SettleLoan moves the loan to Paid with the given fine, guarded so a
// loan already Paid is not settled twice. Returns the rows changed.
func (d *Database) SettleLoan(ownerID uint, loanID string, fine float64) (int64, error) {
	res := d.DB.Model(&models.Loan{}).
		Where("owner_id = ? AND loan_id = ? AND status <> ?", ownerID, loanID, models.LoanStatusPaid).
		Updates(map[string]interface{}{"status": models.LoanStatusPaid, "fine": fine, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

// DeleteLoan removes the loan for the owner, returning the rows deleted
func (d *Database) DeleteLoan(ownerID uint, loanID string) (int64, error) {
	res := d.DB.Where("owner_id = ? AND loan_id = ?", ownerID, loanID).Delete(&models.Loan{})
	return res.RowsAffected, res.Error
}

// CountLoansByStatus counts the owner's loans with the given status
func (d *Database) CountLoansByStatus(ownerID uint, status models.LoanStatus) (int64, error) {
	var count int64
	err := d.DB.Model(&models.Loan{}).
		Where("owner_id = ? AND status = ?", ownerID, status).
		Count(&count).Error
	return count, err
}

// FindDueBorrowed returns, across all owners, the Borrowed loans whose
// due date is strictly before now. Used by the background sweeper.
func (d *Database) FindDueBorrowed(now time.Time) ([]models.Loan, error) {
	var loans []models.Loan
	if err := d.DB.Where("status = ? AND due_date < ?", models.LoanStatusBorrowed, now).
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// FindPaidWithoutSettlement returns Paid loans that have no settlement
// record yet. These are reconciliation items left behind when the
// settlement write failed after the loan update succeeded.
func (d *Database) FindPaidWithoutSettlement() ([]models.Loan, error) {
	var loans []models.Loan
	err := d.DB.
		Joins("LEFT JOIN settlements ON settlements.owner_id = loans.owner_id AND settlements.loan_id = loans.loan_id").
		Where("loans.status = ? AND settlements.id IS NULL", models.LoanStatusPaid).
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}
