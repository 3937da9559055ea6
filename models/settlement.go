package models

import (
	"time"
)

// Settlement is an append-only record of a paid fine. One settlement
// exists per (owner, loan id); rows are never updated or deleted.
type Settlement struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"settlementId"`
	LoanID       string    `gorm:"column:loan_id;not null;size:50;uniqueIndex:idx_settlements_owner_loan" json:"id"`
	OwnerID      uint      `gorm:"column:owner_id;not null;uniqueIndex:idx_settlements_owner_loan;index" json:"-"`
	Owner        User      `gorm:"foreignKey:OwnerID;references:ID" json:"-"`
	Title        string    `gorm:"column:title;not null;size:255" json:"title"`
	Borrower     string    `gorm:"column:borrower;not null;size:100" json:"borrower"`
	FineAmount   float64   `gorm:"column:fine_amount;type:decimal(10,2);not null" json:"fine"`
	BorrowedDate time.Time `gorm:"column:borrowed_date;not null" json:"borrowedDate"`
	SettledAt    time.Time `gorm:"column:settled_at;not null" json:"returnedDate"`
	Signature    string    `gorm:"column:signature;not null;size:64" json:"-"` // HMAC over the record payload
	CreatedAt    time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

func (Settlement) TableName() string {
	return "settlements"
}
