package models

import (
	"time"
)

// Book represents a catalogued title, scoped to the owning account
type Book struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID       uint      `gorm:"column:owner_id;not null;index" json:"-"`
	Owner         User      `gorm:"foreignKey:OwnerID;references:ID" json:"-"`
	Title         string    `gorm:"column:title;not null;size:255" json:"title"`
	Author        string    `gorm:"column:author;not null;size:255" json:"author"`
	Genre         string    `gorm:"column:genre;size:100" json:"genre"`
	PublishedDate time.Time `gorm:"column:published_date" json:"publishedDate"`
	Description   string    `gorm:"column:description;size:1000" json:"description"`
	CoverImage    string    `gorm:"column:cover_image;size:255" json:"coverImage"`
	CreatedAt     time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Book) TableName() string {
	return "books"
}
