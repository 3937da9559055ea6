package models

import (
	"time"
)

// Member represents a registered library member, scoped to the owning account
type Member struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	MemberID  string    `gorm:"column:member_id;not null;size:50;uniqueIndex:idx_members_owner_member" json:"id"`
	OwnerID   uint      `gorm:"column:owner_id;not null;uniqueIndex:idx_members_owner_member;index" json:"-"`
	Owner     User      `gorm:"foreignKey:OwnerID;references:ID" json:"-"`
	Name      string    `gorm:"column:name;not null;size:100" json:"name"`
	Age       int       `gorm:"column:age;not null" json:"age"`
	Address   string    `gorm:"column:address;not null;size:255" json:"address"`
	Phone     string    `gorm:"column:phone;not null;size:30" json:"phone"`
	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Member) TableName() string {
	return "members"
}
