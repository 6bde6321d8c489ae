package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Event struct {
	gorm.Model

	ClubID      uint           `gorm:"not null;index"`
	Title       string         `gorm:"not null"`
	Description string
	Date        datatypes.Date `gorm:"not null"`
	Time        string
	Venue       string `gorm:"not null"`
	ImageURL    string
	Status      string `gorm:"not null;default:Pending"`
	Capacity    *int

	// Relationships
	Club          Club           `gorm:"foreignKey:ClubID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Registrations []Registration `gorm:"foreignKey:EventID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
