package models

import "gorm.io/gorm"

// Global roles. Role is derived from the user's memberships except for
// Admin, which is assigned directly and never recomputed.
const (
	RoleGuest     = "Guest"
	RoleMember    = "Member"
	RoleExecutive = "Executive"
	RoleAdmin     = "Admin"
)

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"index"`
	Phone        string
	Major        string

	// Relationships
	Memberships   []Membership           `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	JoinRequests  []ClubRequest          `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Registrations []Registration         `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	DeviceTokens  []DeviceToken          `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Settings      []NotificationSettings `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
