package services

import "errors"

// Failure taxonomy surfaced to the controllers. Store failures are
// returned as-is, wrapped with context.
var (
	ErrLoanNotFound      = errors.New("loan not found")
	ErrDuplicateLoanID   = errors.New("loan id already exists")
	ErrLoanAlreadyPaid   = errors.New("loan is already paid")
	ErrSettlementExists  = errors.New("settlement already recorded for this loan")
	ErrMemberNotFound    = errors.New("member not found")
	ErrDuplicateMemberID = errors.New("member id already exists")
	ErrBookNotFound      = errors.New("book not found")
)
