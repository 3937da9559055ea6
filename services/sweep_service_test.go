package services

import (
	"testing"
	"time"

	"github.com/Shanilka-Yapa/Libricore/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepAllCoversEveryOwner(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	sweeper := NewSweepService(store, NewSettlementService(store, []byte("test-hmac-key")), nil)

	// Two owners, each with one loan long past due and one current loan
	for _, ownerID := range []uint{1, 2} {
		_, err := svc.Create(ownerID, validCreateDTO("past"))
		require.NoError(t, err)

		dto := validCreateDTO("current")
		dto.LoanDate = time.Now()
		dto.DueDate = time.Now().AddDate(0, 0, 7)
		_, err = svc.Create(ownerID, dto)
		require.NoError(t, err)
	}

	require.NoError(t, sweeper.SweepAll())

	for _, ownerID := range []uint{1, 2} {
		past, err := store.FindLoan(ownerID, "past")
		require.NoError(t, err)
		assert.Equal(t, models.LoanStatusOverdue, past.Status)

		current, err := store.FindLoan(ownerID, "current")
		require.NoError(t, err)
		assert.Equal(t, models.LoanStatusBorrowed, current.Status)
	}

	// A second run finds nothing to flip
	require.NoError(t, sweeper.SweepAll())
}

func TestReconcileSettlementsRepairsGap(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	sweeper := NewSweepService(store, NewSettlementService(store, []byte("test-hmac-key")), nil)

	_, err := svc.Create(1, validCreateDTO("L1"))
	require.NoError(t, err)

	// Pay updates the loan, the ledger write is lost
	store.failSettle = true
	fine := 12.0
	_, err = svc.Pay(1, "L1", PayLoanDTO{Fine: &fine})
	require.Error(t, err)
	store.failSettle = false

	require.NoError(t, sweeper.ReconcileSettlements())

	count, err := store.CountSettlements(1, "L1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	entries, err := store.FindSettlements(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 12.0, entries[0].FineAmount)

	// Re-running the repair is a no-op
	require.NoError(t, sweeper.ReconcileSettlements())
	count, err = store.CountSettlements(1, "L1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
