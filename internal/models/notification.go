package models

import "gorm.io/gorm"

type Notification struct {
	gorm.Model

	ClubID      uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string

	// Relationships
	Club Club `gorm:"foreignKey:ClubID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
