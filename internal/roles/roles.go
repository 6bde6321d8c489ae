package roles

import (
	"errors"

	"github.com/clubhub-dev/clubhub/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAlreadyMember      = errors.New("user is already a member of this club")
	ErrRequestPending     = errors.New("a join request is already pending")
	ErrRequestProcessed   = errors.New("request already processed")
	ErrExecutiveElsewhere = errors.New("user already holds an executive role in another club")
	ErrSelfDelete         = errors.New("cannot delete your own account")
)

// IsExecutiveTitle reports whether a membership role is an executive title.
func IsExecutiveTitle(role string) bool {
	return role != models.MembershipRoleMember
}

// Recompute derives the user's global role from their current membership
// rows and persists it. Admin is sticky and never overwritten.
func Recompute(tx *gorm.DB, userID uint) error {
	var user models.User

	if err := tx.Select("id", "role").First(&user, userID).Error; err != nil {
		return err
	}

	if user.Role == models.RoleAdmin {
		return nil
	}

	var execCount, totalCount int64

	if err := tx.Model(&models.Membership{}).
		Where("user_id = ? AND role <> ?", userID, models.MembershipRoleMember).
		Count(&execCount).Error; err != nil {
		return err
	}

	if err := tx.Model(&models.Membership{}).
		Where("user_id = ?", userID).
		Count(&totalCount).Error; err != nil {
		return err
	}

	newRole := models.RoleGuest

	if execCount > 0 {
		newRole = models.RoleExecutive
	} else if totalCount > 0 {
		newRole = models.RoleMember
	}

	return tx.Model(&models.User{}).Where("id = ?", userID).Update("role", newRole).Error
}

// RecomputeBulk rederives the global role for a set of users with three
// direct statements instead of a per-user read-modify-write. Used by the
// club-deletion cascade, where every former member is affected at once.
// Admins are excluded the same way Recompute excludes them.
func RecomputeBulk(tx *gorm.DB, userIDs []uint) error {
	if len(userIDs) == 0 {
		return nil
	}

	if err := tx.Exec(`
		UPDATE users SET role = ?
		WHERE id IN ? AND role <> ? AND deleted_at IS NULL
		AND EXISTS (
			SELECT 1 FROM memberships m
			WHERE m.user_id = users.id AND m.deleted_at IS NULL AND m.role <> ?
		)`,
		models.RoleExecutive, userIDs, models.RoleAdmin, models.MembershipRoleMember,
	).Error; err != nil {
		return err
	}

	if err := tx.Exec(`
		UPDATE users SET role = ?
		WHERE id IN ? AND role <> ? AND deleted_at IS NULL
		AND EXISTS (
			SELECT 1 FROM memberships m
			WHERE m.user_id = users.id AND m.deleted_at IS NULL
		)
		AND NOT EXISTS (
			SELECT 1 FROM memberships m
			WHERE m.user_id = users.id AND m.deleted_at IS NULL AND m.role <> ?
		)`,
		models.RoleMember, userIDs, models.RoleAdmin, models.MembershipRoleMember,
	).Error; err != nil {
		return err
	}

	return tx.Exec(`
		UPDATE users SET role = ?
		WHERE id IN ? AND role <> ? AND deleted_at IS NULL
		AND NOT EXISTS (
			SELECT 1 FROM memberships m
			WHERE m.user_id = users.id AND m.deleted_at IS NULL
		)`,
		models.RoleGuest, userIDs, models.RoleAdmin,
	).Error
}

// CheckExecutiveElsewhere returns ErrExecutiveElsewhere when granting
// newRole to the user would give them executive titles in two clubs.
// Role changes within clubID itself always pass, so demoting or rotating
// titles inside one club never trips the guard. Note the lookup deliberately
// ignores other titles inside clubID: two executives of the same club is a
// state the system accepts.
func CheckExecutiveElsewhere(tx *gorm.DB, userID, clubID uint, newRole string) error {
	if !IsExecutiveTitle(newRole) {
		return nil
	}

	var count int64

	if err := tx.Model(&models.Membership{}).
		Where("user_id = ? AND role <> ? AND club_id <> ?", userID, models.MembershipRoleMember, clubID).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return ErrExecutiveElsewhere
	}

	return nil
}
