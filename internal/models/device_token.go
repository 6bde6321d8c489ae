package models

import "gorm.io/gorm"

type DeviceToken struct {
	gorm.Model

	UserID   uint   `gorm:"not null;uniqueIndex:idx_user_token"`
	Token    string `gorm:"not null;uniqueIndex:idx_user_token"`
	Platform string `gorm:"not null;default:android"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
