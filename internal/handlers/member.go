package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/clubhub-dev/clubhub/db"
	"github.com/clubhub-dev/clubhub/internal/authz"
	"github.com/clubhub-dev/clubhub/internal/models"
	"github.com/clubhub-dev/clubhub/internal/roles"
	"github.com/clubhub-dev/clubhub/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MemberResponse struct {
	UserID       uint   `json:"user_id"`
	MembershipID uint   `json:"membership_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	JoinDate     string `json:"join_date"`
}

func ListMembers(ctx *gin.Context) {
	clubID, err := utils.GetClubID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var club models.Club

	if err := db.DB.First(&club, clubID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Club not found"})
		} else {
			log.Printf("Failed to fetch club: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch club members"})
		}
		return
	}

	var memberships []models.Membership

	if err := db.DB.Preload("User").Where("club_id = ?", clubID).Find(&memberships).Error; err != nil {
		log.Printf("Failed to fetch memberships: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch club members"})
		return
	}

	response := make([]MemberResponse, 0, len(memberships))

	for _, membership := range memberships {
		response = append(response, MemberResponse{
			UserID:       membership.UserID,
			MembershipID: membership.ID,
			Name:         membership.User.Name,
			Email:        membership.User.Email,
			Role:         membership.Role,
			JoinDate:     time.Time(membership.JoinDate).Format("2006-01-02"),
		})
	}

	ctx.JSON(http.StatusOK, response)
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func AddMember(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	clubID, err := utils.GetClubID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	allowed, err := authz.Can(db.DB, currentUser, authz.ActionManageMembers, clubID)

	if err != nil {
		log.Printf("Authorization check failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only club executives can add members"})
		return
	}

	var body AddMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	var user models.User

	err = db.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(body.Email))).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User does not exist. Please ask the user to sign up first."})
			return
		}
		log.Printf("Failed to look up user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	var existingCount int64

	if err := db.DB.Model(&models.Membership{}).
		Where("user_id = ? AND club_id = ?", user.ID, clubID).
		Count(&existingCount).Error; err != nil {
		log.Printf("Failed to check existing membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	if existingCount > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "User is already a member of this club"})
		return
	}

	membership := models.Membership{
		UserID:   user.ID,
		ClubID:   clubID,
		Role:     models.MembershipRoleMember,
		JoinDate: datatypes.Date(time.Now()),
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}

		return roles.Recompute(tx, user.ID)
	})

	if err != nil {
		log.Printf("Failed to add member: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	BroadcastClubRefresh(strconv.FormatUint(uint64(clubID), 10))

	ctx.JSON(http.StatusCreated, gin.H{
		"message":       "Member added successfully",
		"membership_id": membership.ID,
	})
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func validMembershipRole(role string) bool {
	switch role {
	case models.MembershipRoleMember,
		models.MembershipRolePresident,
		models.MembershipRoleSecretary,
		models.MembershipRoleTreasurer:
		return true
	}
	return false
}

func UpdateMemberRole(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	clubID, err := utils.GetClubID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	membershipID, err := utils.GetMembershipID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	allowed, err := authz.Can(db.DB, currentUser, authz.ActionManageMembers, clubID)

	if err != nil {
		log.Printf("Authorization check failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only club executives can update member roles"})
		return
	}

	var body UpdateMemberRoleRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Role is required"})
		return
	}

	if !validMembershipRole(body.Role) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid membership role"})
		return
	}

	var membership models.Membership

	if err := db.DB.Where("id = ? AND club_id = ?", membershipID, clubID).First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Membership not found"})
		} else {
			log.Printf("Failed to fetch membership: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member role"})
		}
		return
	}

	// Guard before mutating: granting an executive title is rejected when the
	// user already holds one in a different club.
	if err := roles.CheckExecutiveElsewhere(db.DB, membership.UserID, clubID, body.Role); err != nil {
		if errors.Is(err, roles.ErrExecutiveElsewhere) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "User already holds an executive role in another club"})
			return
		}
		log.Printf("Executive guard failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member role"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Membership{}).Where("id = ?", membership.ID).
			Update("role", body.Role).Error; err != nil {
			return err
		}

		return roles.Recompute(tx, membership.UserID)
	})

	if err != nil {
		log.Printf("Failed to update member role: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member role"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Member role updated successfully"})
}

func RemoveMember(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	clubID, err := utils.GetClubID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	membershipID, err := utils.GetMembershipID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	allowed, err := authz.Can(db.DB, currentUser, authz.ActionManageMembers, clubID)

	if err != nil {
		log.Printf("Authorization check failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only club executives can remove members"})
		return
	}

	var membership models.Membership

	if err := db.DB.Where("id = ? AND club_id = ?", membershipID, clubID).First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Membership not found"})
		} else {
			log.Printf("Failed to fetch membership: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		}
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&membership).Error; err != nil {
			return err
		}

		return roles.Recompute(tx, membership.UserID)
	})

	if err != nil {
		log.Printf("Failed to remove member: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	BroadcastClubRefresh(strconv.FormatUint(uint64(clubID), 10))

	ctx.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}

// LeaveClub removes the caller's own membership. Leaving a club the caller
// never joined is a no-op response, and their global role stays untouched.
func LeaveClub(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	clubID, err := utils.GetClubID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var left bool

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Unscoped().Where("club_id = ? AND user_id = ?", clubID, userID).Delete(&models.Membership{})

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return nil
		}

		left = true

		return roles.Recompute(tx, userID)
	})

	if err != nil {
		log.Printf("Failed to leave club: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave club"})
		return
	}

	if !left {
		ctx.JSON(http.StatusOK, gin.H{"message": "Not a member of this club"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Left club successfully"})
}
