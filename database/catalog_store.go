package database

import (
	"errors"

	"github.com/Shanilka-Yapa/Libricore/models"
	"gorm.io/gorm"
)

// Member store

func (d *Database) InsertMember(member *models.Member) error {
	return d.DB.Create(member).Error
}

// FindMember returns the member with the given caller-assigned id for
// the owner, or nil if no such member exists
func (d *Database) FindMember(ownerID uint, memberID string) (*models.Member, error) {
	var member models.Member
	if err := d.DB.Where("owner_id = ? AND member_id = ?", ownerID, memberID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (d *Database) FindMembers(ownerID uint) ([]models.Member, error) {
	var members []models.Member
	if err := d.DB.Where("owner_id = ?", ownerID).
		Order("member_id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Book store

func (d *Database) InsertBook(book *models.Book) error {
	return d.DB.Create(book).Error
}

func (d *Database) FindBooks(ownerID uint) ([]models.Book, error) {
	var books []models.Book
	if err := d.DB.Where("owner_id = ?", ownerID).
		Order("title ASC").
		Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// DeleteBook removes the book for the owner, returning the rows deleted
func (d *Database) DeleteBook(ownerID uint, id uint) (int64, error) {
	res := d.DB.Where("owner_id = ? AND id = ?", ownerID, id).Delete(&models.Book{})
	return res.RowsAffected, res.Error
}
