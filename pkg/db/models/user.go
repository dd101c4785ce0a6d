package models

import "time"

// User represents the canonical identity entity. Contacts are owned rows
// keyed by UserID; deleting a user cascades to its contacts.
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"column:name;not null"`
	LastName     string    `gorm:"column:last_name;not null"`
	BirthDate    time.Time `gorm:"column:birth_date;type:date;not null;index"`
	Email        string    `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Description  *string   `gorm:"column:description"`
	AvatarURL    *string   `gorm:"column:avatar_url"`
	RefreshToken *string   `gorm:"column:refresh_token"`
	Confirmed    bool      `gorm:"column:confirmed;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Contacts []Contact `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
