package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Shanilka-Yapa/Libricore/models"
	"github.com/Shanilka-Yapa/Libricore/utils"
	"github.com/beevik/etree"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettlementStore is the persistence contract for the fine ledger.
// Append-only: the contract has no update or delete.
type SettlementStore interface {
	InsertSettlement(settlement *models.Settlement) error
	FindSettlements(ownerID uint) ([]models.Settlement, error)
	CountSettlements(ownerID uint, loanID string) (int64, error)
}

// SettlementService is the fine ledger: an append-only, tamper-evident
// log of paid fines, at most one entry per loan per owner
type SettlementService struct {
	store   SettlementStore
	hmacKey []byte
}

// NewSettlementService creates a new SettlementService instance
func NewSettlementService(store SettlementStore, hmacKey []byte) *SettlementService {
	return &SettlementService{
		store:   store,
		hmacKey: hmacKey,
	}
}

// signaturePayload is the canonical byte layout covered by the HMAC
func (s *SettlementService) signaturePayload(stl *models.Settlement) string {
	return fmt.Sprintf("%s|%d|%s|%.2f|%d",
		stl.LoanID,
		stl.OwnerID,
		stl.Borrower,
		stl.FineAmount,
		stl.SettledAt.Unix(),
	)
}

// Record appends the settlement for a paid loan, copying the loan's
// descriptive fields. The unique (owner, loan id) index makes a second
// write for the same loan fail with ErrSettlementExists.
func (s *SettlementService) Record(loan *models.Loan, fineAmount float64, settledAt time.Time) (*models.Settlement, error) {
	settlement := &models.Settlement{
		ID:           uuid.NewString(),
		LoanID:       loan.LoanID,
		OwnerID:      loan.OwnerID,
		Title:        loan.Title,
		Borrower:     loan.Borrower,
		FineAmount:   fineAmount,
		BorrowedDate: loan.LoanDate,
		SettledAt:    settledAt,
	}
	settlement.Signature = utils.GenerateHMAC(s.signaturePayload(settlement), s.hmacKey)

	if err := s.store.InsertSettlement(settlement); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSettlementExists
		}
		return nil, fmt.Errorf("failed to insert settlement: %w", err)
	}

	utils.GetMetrics().RecordSettlement()
	return settlement, nil
}

// ListByOwner returns the owner's settlement records
func (s *SettlementService) ListByOwner(ownerID uint) ([]models.Settlement, error) {
	return s.store.FindSettlements(ownerID)
}

// Verify reports whether a settlement's signature still matches its
// payload, i.e. the record has not been tampered with
func (s *SettlementService) Verify(stl *models.Settlement) bool {
	return utils.ValidateHMAC(s.signaturePayload(stl), stl.Signature, s.hmacKey)
}

// ExportXML renders the owner's settlement ledger as an XML report
func (s *SettlementService) ExportXML(ownerID uint) ([]byte, error) {
	settlements, err := s.store.FindSettlements(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settlements: %w", err)
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("settlements")
	root.CreateAttr("generatedAt", time.Now().Format(time.RFC3339))

	for i := range settlements {
		stl := &settlements[i]
		el := root.CreateElement("settlement")
		el.CreateAttr("id", stl.ID)
		el.CreateElement("loanId").SetText(stl.LoanID)
		el.CreateElement("title").SetText(stl.Title)
		el.CreateElement("borrower").SetText(stl.Borrower)
		el.CreateElement("fineAmount").SetText(fmt.Sprintf("%.2f", stl.FineAmount))
		el.CreateElement("borrowedDate").SetText(stl.BorrowedDate.Format(time.RFC3339))
		el.CreateElement("settledAt").SetText(stl.SettledAt.Format(time.RFC3339))
		el.CreateElement("verified").SetText(fmt.Sprintf("%t", s.Verify(stl)))
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}
