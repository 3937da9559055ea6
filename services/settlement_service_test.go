package services

import (
	"strings"
	"testing"
	"time"

	"github.com/Shanilka-Yapa/Libricore/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoan() *models.Loan {
	loanDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &models.Loan{
		LoanID:   "L1",
		OwnerID:  1,
		Title:    "Clean Architecture",
		Author:   "Robert C. Martin",
		Borrower: "M-002",
		LoanDate: loanDate,
		DueDate:  loanDate.AddDate(0, 0, 7),
		Status:   models.LoanStatusOverdue,
	}
}

func TestRecordCopiesLoanFields(t *testing.T) {
	store := newFakeStore()
	svc := NewSettlementService(store, []byte("test-hmac-key"))

	loan := testLoan()
	settledAt := loan.LoanDate.AddDate(0, 0, 10)
	stl, err := svc.Record(loan, 25.00, settledAt)
	require.NoError(t, err)

	assert.NotEmpty(t, stl.ID)
	assert.Equal(t, loan.LoanID, stl.LoanID)
	assert.Equal(t, loan.Title, stl.Title)
	assert.Equal(t, loan.Borrower, stl.Borrower)
	assert.Equal(t, loan.LoanDate, stl.BorrowedDate)
	assert.Equal(t, settledAt, stl.SettledAt)
	assert.Equal(t, 25.00, stl.FineAmount)
	assert.NotEmpty(t, stl.Signature)
}

func TestRecordRejectsDuplicate(t *testing.T) {
	store := newFakeStore()
	svc := NewSettlementService(store, []byte("test-hmac-key"))

	loan := testLoan()
	_, err := svc.Record(loan, 25.00, time.Now())
	require.NoError(t, err)

	_, err = svc.Record(loan, 99.00, time.Now())
	assert.ErrorIs(t, err, ErrSettlementExists)

	// Ledger still holds the original entry
	entries, err := svc.ListByOwner(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 25.00, entries[0].FineAmount)
}

func TestVerifyDetectsTampering(t *testing.T) {
	store := newFakeStore()
	svc := NewSettlementService(store, []byte("test-hmac-key"))

	stl, err := svc.Record(testLoan(), 25.00, time.Now())
	require.NoError(t, err)
	assert.True(t, svc.Verify(stl))

	tampered := *stl
	tampered.FineAmount = 0.01
	assert.False(t, svc.Verify(&tampered))
}

func TestVerifyFailsWithDifferentKey(t *testing.T) {
	store := newFakeStore()
	svc := NewSettlementService(store, []byte("test-hmac-key"))

	stl, err := svc.Record(testLoan(), 25.00, time.Now())
	require.NoError(t, err)

	other := NewSettlementService(store, []byte("another-key"))
	assert.False(t, other.Verify(stl))
}

func TestExportXML(t *testing.T) {
	store := newFakeStore()
	svc := NewSettlementService(store, []byte("test-hmac-key"))

	_, err := svc.Record(testLoan(), 25.00, time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	out, err := svc.ExportXML(1)
	require.NoError(t, err)

	xml := string(out)
	assert.True(t, strings.HasPrefix(xml, "<?xml"))
	assert.Contains(t, xml, "<settlements")
	assert.Contains(t, xml, "<loanId>L1</loanId>")
	assert.Contains(t, xml, "<fineAmount>25.00</fineAmount>")
	assert.Contains(t, xml, "<verified>true</verified>")
}
