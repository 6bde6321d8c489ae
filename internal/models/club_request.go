package models

import "gorm.io/gorm"

// Join-request statuses. At most one Pending request may exist per
// (user, club) pair; the join handler enforces this before inserting.
const (
	RequestPending  = "Pending"
	RequestApproved = "Approved"
	RequestRejected = "Rejected"
)

type ClubRequest struct {
	gorm.Model

	UserID uint   `gorm:"not null;index:idx_request_user_club"`
	ClubID uint   `gorm:"not null;index:idx_request_user_club"`
	Status string `gorm:"not null;default:Pending"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Club Club `gorm:"foreignKey:ClubID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
