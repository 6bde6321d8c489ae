package authz

import (
	"errors"

	"github.com/clubhub-dev/clubhub/internal/middleware"
	"github.com/clubhub-dev/clubhub/internal/models"
	"gorm.io/gorm"
)

type Action string

const (
	ActionManageMembers  Action = "club.members.manage"
	ActionReviewRequests Action = "club.requests.review"
	ActionManageEvents   Action = "club.events.manage"
	ActionManageFinance  Action = "club.finance.manage"
	ActionAnnounce       Action = "club.announce"
	ActionManageClubs    Action = "admin.clubs.manage"
	ActionManageUsers    Action = "admin.users.manage"
)

// Can is the single authorization check consulted by mutating handlers.
// Admin-scoped actions require the global Admin role; club-scoped actions
// require an executive membership in clubID, except ActionAnnounce, which
// the President and Secretary may perform but the Treasurer may not.
// Admins pass club-scoped checks without a membership.
func Can(tx *gorm.DB, actor middleware.AuthenticatedUser, action Action, clubID uint) (bool, error) {
	switch action {
	case ActionManageClubs, ActionManageUsers:
		return actor.Role == models.RoleAdmin, nil
	}

	if actor.Role == models.RoleAdmin {
		return true, nil
	}

	var membership models.Membership

	err := tx.Where("user_id = ? AND club_id = ?", actor.ID, clubID).First(&membership).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	if action == ActionAnnounce {
		return membership.Role == models.MembershipRolePresident ||
			membership.Role == models.MembershipRoleSecretary, nil
	}

	return membership.Role != models.MembershipRoleMember, nil
}
