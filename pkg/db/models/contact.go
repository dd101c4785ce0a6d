package models

import "time"

// Contact is a phone record owned by exactly one user.
type Contact struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	PhoneNumber string    `gorm:"column:phone_number;type:varchar(20);not null"`
	UserID      uint      `gorm:"column:user_id;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
