package database

import (
	"github.com/Shanilka-Yapa/Libricore/models"
)

// Settlement store. Append-only: there is deliberately no update or
// delete method for settlements.

// InsertSettlement appends a settlement record
func (d *Database) InsertSettlement(settlement *models.Settlement) error {
	return d.DB.Create(settlement).Error
}

// FindSettlements returns the owner's settlements, newest first
func (d *Database) FindSettlements(ownerID uint) ([]models.Settlement, error) {
	var settlements []models.Settlement
	if err := d.DB.Where("owner_id = ?", ownerID).
		Order("settled_at DESC").
		Find(&settlements).Error; err != nil {
		return nil, err
	}
	return settlements, nil
}

// CountSettlements counts settlement records for the owner and loan id
func (d *Database) CountSettlements(ownerID uint, loanID string) (int64, error) {
	var count int64
	err := d.DB.Model(&models.Settlement{}).
		Where("owner_id = ? AND loan_id = ?", ownerID, loanID).
		Count(&count).Error
	return count, err
}
