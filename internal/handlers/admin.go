package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/clubhub-dev/clubhub/db"
	"github.com/clubhub-dev/clubhub/internal/authz"
	"github.com/clubhub-dev/clubhub/internal/models"
	"github.com/clubhub-dev/clubhub/internal/roles"
	"github.com/clubhub-dev/clubhub/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func AdminStats(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	allowed, err := authz.Can(db.DB, currentUser, authz.ActionManageUsers, 0)

	if err != nil {
		log.Printf("Authorization check failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only admins can view stats"})
		return
	}

	var totalClubs, activeUsers, pendingApprovals, eventSignups int64

	if err := db.DB.Model(&models.Club{}).Count(&totalClubs).Error; err != nil {
		log.Printf("Failed to count clubs: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch admin stats"})
		return
	}

	if err := db.DB.Model(&models.User{}).
		Where("role <> '' AND role IS NOT NULL AND role <> ?", models.RoleGuest).
		Count(&activeUsers).Error; err != nil {
		log.Printf("Failed to count active users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch admin stats"})
		return
	}

	if err := db.DB.Model(&models.ClubRequest{}).
		Where("status = ?", models.RequestPending).
		Count(&pendingApprovals).Error; err != nil {
		log.Printf("Failed to count pending requests: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch admin stats"})
		return
	}

	if err := db.DB.Model(&models.Registration{}).Count(&eventSignups).Error; err != nil {
		log.Printf("Failed to count registrations: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch admin stats"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"totalClubs":       totalClubs,
		"activeUsers":      activeUsers,
		"pendingApprovals": pendingApprovals,
		"eventSignups":     eventSignups,
	})
}

type UserListEntry struct {
	ID     uint   `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

func ListUsers(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	allowed, err := authz.Can(db.DB, currentUser, authz.ActionManageUsers, 0)

	if err != nil {
		log.Printf("Authorization check failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only admins can list users"})
		return
	}

	var users []models.User

	if err := db.DB.Order("name ASC").Find(&users).Error; err != nil {
		log.Printf("Failed to list users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	response := make([]UserListEntry, 0, len(users))

	for _, user := range users {
		status := "Active"

		switch user.Role {
		case "":
			status = "Pending"
		case models.RoleGuest:
			status = "Guest"
		}

		response = append(response, UserListEntry{
			ID:     user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Role:   user.Role,
			Status: status,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

// DeleteUser removes an account and every row referencing it in one
// transaction. Admins cannot delete themselves.
func DeleteUser(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	allowed, err := authz.Can(db.DB, currentUser, authz.ActionManageUsers, 0)

	if err != nil {
		log.Printf("Authorization check failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only admins can delete users"})
		return
	}

	userID, err := utils.GetUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if userID == currentUser.ID {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": roles.ErrSelfDelete.Error()})
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("Failed to fetch user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		}
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.Membership{},
			&models.ClubRequest{},
			&models.Registration{},
			&models.NotificationSettings{},
			&models.DeviceToken{},
		} {
			if err := tx.Unscoped().Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return err
			}
		}

		return tx.Unscoped().Delete(&user).Error
	})

	if err != nil {
		log.Printf("Failed to delete user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "User \"" + user.Name + "\" deleted successfully"})
}
