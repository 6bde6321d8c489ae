package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Club struct {
	gorm.Model

	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	LogoURL     string
	Category    string
	FoundedDate *datatypes.Date

	// Relationships
	Memberships   []Membership    `gorm:"foreignKey:ClubID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	JoinRequests  []ClubRequest   `gorm:"foreignKey:ClubID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Events        []Event         `gorm:"foreignKey:ClubID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Finances      []FinanceRecord `gorm:"foreignKey:ClubID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Notifications []Notification  `gorm:"foreignKey:ClubID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
