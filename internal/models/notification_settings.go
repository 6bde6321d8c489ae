package models

import "gorm.io/gorm"

type NotificationSettings struct {
	gorm.Model

	UserID                uint   `gorm:"not null;uniqueIndex"`
	EmailNotifications    bool   `gorm:"not null;default:false"`
	PushNotifications     bool   `gorm:"not null;default:true"`
	ClubAnnouncements     bool   `gorm:"not null;default:true"`
	NewEventAnnouncements bool   `gorm:"not null;default:true"`
	RSVPEventReminders    bool   `gorm:"not null;default:true"`
	ReminderTime          string `gorm:"not null;default:'2 hours before'"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
