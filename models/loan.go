package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// LoanStatus represents the lifecycle state of a borrowing record
type LoanStatus string

const (
	LoanStatusBorrowed LoanStatus = "Borrowed" // item is out on loan
	LoanStatusReturned LoanStatus = "Returned" // item came back
	LoanStatusOverdue  LoanStatus = "Overdue"  // due date passed without return
	LoanStatusPaid     LoanStatus = "Paid"     // fine settled, terminal
)

// ValidLoanStatus reports whether s is one of the enumerated statuses
func ValidLoanStatus(s LoanStatus) bool {
	switch s {
	case LoanStatusBorrowed, LoanStatusReturned, LoanStatusOverdue, LoanStatusPaid:
		return true
	}
	return false
}

// Loan represents one checkout of a titled item to a borrower.
// LoanID is assigned by the caller and unique within the owner's scope.
type Loan struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"-"`
	LoanID    string     `gorm:"column:loan_id;not null;size:50;uniqueIndex:idx_loans_owner_loan" json:"id"`
	OwnerID   uint       `gorm:"column:owner_id;not null;uniqueIndex:idx_loans_owner_loan;index" json:"-"`
	Owner     User       `gorm:"foreignKey:OwnerID;references:ID" json:"-"`
	Title     string     `gorm:"column:title;not null;size:255" json:"title"`
	Author    string     `gorm:"column:author;not null;size:255" json:"author"`
	Borrower  string     `gorm:"column:borrower;not null;size:100" json:"borrower"`
	LoanDate  time.Time  `gorm:"column:loan_date;not null" json:"loanDate"`
	DueDate   time.Time  `gorm:"column:due_date;not null" json:"dueDate"`
	Status    LoanStatus `gorm:"type:varchar(20);not null;default:'Borrowed'" json:"status"`
	Fine      float64    `gorm:"column:fine;type:decimal(10,2);not null;default:0" json:"fine"`
	CreatedAt time.Time  `gorm:"column:created_at;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"column:updated_at;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Loan) TableName() string {
	return "loans"
}

// BeforeCreate hook for validation before insert
func (l *Loan) BeforeCreate(tx *gorm.DB) error {
	if l.LoanID == "" {
		return errors.New("loan id is required")
	}
	if l.Status == "" {
		l.Status = LoanStatusBorrowed
	}
	if !ValidLoanStatus(l.Status) {
		return errors.New("invalid loan status")
	}
	if l.Fine < 0 {
		return errors.New("fine must not be negative")
	}
	if l.DueDate.Before(l.LoanDate) {
		return errors.New("due date must be on or after loan date")
	}
	return nil
}
