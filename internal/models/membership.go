package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Per-club membership roles. Everything except MembershipRoleMember is an
// executive title.
const (
	MembershipRoleMember    = "Member"
	MembershipRolePresident = "President"
	MembershipRoleSecretary = "Secretary"
	MembershipRoleTreasurer = "Treasurer"
)

type Membership struct {
	gorm.Model

	UserID   uint           `gorm:"not null;uniqueIndex:idx_user_club"`
	ClubID   uint           `gorm:"not null;uniqueIndex:idx_user_club"`
	Role     string         `gorm:"not null;default:Member"`
	JoinDate datatypes.Date `gorm:"not null"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Club Club `gorm:"foreignKey:ClubID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
