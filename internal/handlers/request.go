package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
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

// JoinClub files a join request for the caller. A user with an existing
// membership or a pending request for this club is turned away before
// anything is written. Filing a first request also marks a roleless account
// as Guest.
func JoinClub(ctx *gin.Context) {
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

	var club models.Club

	if err := db.DB.First(&club, clubID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Club not found"})
		} else {
			log.Printf("Failed to fetch club: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit join request"})
		}
		return
	}

	var membershipCount int64

	if err := db.DB.Model(&models.Membership{}).
		Where("club_id = ? AND user_id = ?", clubID, userID).
		Count(&membershipCount).Error; err != nil {
		log.Printf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit join request"})
		return
	}

	if membershipCount > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Already a member"})
		return
	}

	var pendingCount int64

	if err := db.DB.Model(&models.ClubRequest{}).
		Where("club_id = ? AND user_id = ? AND status = ?", clubID, userID, models.RequestPending).
		Count(&pendingCount).Error; err != nil {
		log.Printf("Failed to check pending request: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit join request"})
		return
	}

	if pendingCount > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Request already pending"})
		return
	}

	request := models.ClubRequest{
		UserID: userID,
		ClubID: clubID,
		Status: models.RequestPending,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		// Guarded so Member/Executive/Admin are never downgraded here.
		if err := tx.Model(&models.User{}).
			Where("id = ? AND (role = ? OR role = ?)", userID, "", models.RoleGuest).
			Update("role", models.RoleGuest).Error; err != nil {
			return err
		}

		return tx.Create(&request).Error
	})

	if err != nil {
		log.Printf("Failed to create join request: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit join request"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":    "Join request submitted successfully",
		"request_id": request.ID,
	})
}

type PendingRequestResponse struct {
	RequestID   uint      `json:"request_id"`
	UserID      uint      `json:"user_id"`
	Status      string    `json:"status"`
	RequestedAt time.Time `json:"requested_at"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
}

func ListRequests(ctx *gin.Context) {
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

	allowed, err := authz.Can(db.DB, currentUser, authz.ActionReviewRequests, clubID)

	if err != nil {
		log.Printf("Authorization check failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only club executives can view requests"})
		return
	}

	var requests []models.ClubRequest

	if err := db.DB.Preload("User").
		Where("club_id = ? AND status = ?", clubID, models.RequestPending).
		Order("created_at ASC").
		Find(&requests).Error; err != nil {
		log.Printf("Failed to fetch requests: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}

	response := make([]PendingRequestResponse, 0, len(requests))

	for _, request := range requests {
		response = append(response, PendingRequestResponse{
			RequestID:   request.ID,
			UserID:      request.UserID,
			Status:      request.Status,
			RequestedAt: request.CreatedAt,
			Name:        request.User.Name,
			Email:       request.User.Email,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

// AcceptRequest turns a pending join request into a membership. The
// membership insert, the status flip and the role recomputation commit or
// roll back together. Stale processed requests for the same pair are cleared
// first so re-approval never collides with an older row. If a membership
// already exists by the time an executive clicks accept, the request is
// closed out as Approved but no duplicate membership is created.
func AcceptRequest(ctx *gin.Context) {
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

	requestID, err := utils.GetRequestID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	allowed, err := authz.Can(db.DB, currentUser, authz.ActionReviewRequests, clubID)

	if err != nil {
		log.Printf("Authorization check failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only club executives can accept requests"})
		return
	}

	var request models.ClubRequest

	if err := db.DB.Where("id = ? AND club_id = ?", requestID, clubID).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		} else {
			log.Printf("Failed to fetch request: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept request"})
		}
		return
	}

	if request.Status != models.RequestPending {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Request already processed"})
		return
	}

	var membershipCount int64

	if err := db.DB.Model(&models.Membership{}).
		Where("club_id = ? AND user_id = ?", clubID, request.UserID).
		Count(&membershipCount).Error; err != nil {
		log.Printf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept request"})
		return
	}

	if membershipCount > 0 {
		// Raced with another accept or a direct add. Close the request out
		// without touching memberships.
		err = db.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Unscoped().
				Where("user_id = ? AND club_id = ? AND status <> ?", request.UserID, clubID, models.RequestPending).
				Delete(&models.ClubRequest{}).Error; err != nil {
				return err
			}

			return tx.Model(&models.ClubRequest{}).Where("id = ?", request.ID).
				Update("status", models.RequestApproved).Error
		})

		if err != nil {
			log.Printf("Failed to close out request: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept request"})
			return
		}

		ctx.JSON(http.StatusBadRequest, gin.H{"error": "User is already a member"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("user_id = ? AND club_id = ? AND status <> ?", request.UserID, clubID, models.RequestPending).
			Delete(&models.ClubRequest{}).Error; err != nil {
			return err
		}

		membership := models.Membership{
			UserID:   request.UserID,
			ClubID:   clubID,
			Role:     models.MembershipRoleMember,
			JoinDate: datatypes.Date(time.Now()),
		}

		if err := tx.Create(&membership).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.ClubRequest{}).Where("id = ?", request.ID).
			Update("status", models.RequestApproved).Error; err != nil {
			return err
		}

		return roles.Recompute(tx, request.UserID)
	})

	if err != nil {
		log.Printf("Failed to accept request: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept request"})
		return
	}

	BroadcastClubRefresh(strconv.FormatUint(uint64(clubID), 10))

	ctx.JSON(http.StatusOK, gin.H{"message": "Request accepted successfully"})
}

func RejectRequest(ctx *gin.Context) {
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

	requestID, err := utils.GetRequestID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	allowed, err := authz.Can(db.DB, currentUser, authz.ActionReviewRequests, clubID)

	if err != nil {
		log.Printf("Authorization check failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only club executives can reject requests"})
		return
	}

	var request models.ClubRequest

	if err := db.DB.Where("id = ? AND club_id = ?", requestID, clubID).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		} else {
			log.Printf("Failed to fetch request: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject request"})
		}
		return
	}

	if request.Status != models.RequestPending {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Request already processed"})
		return
	}

	if err := db.DB.Model(&models.ClubRequest{}).Where("id = ?", request.ID).
		Update("status", models.RequestRejected).Error; err != nil {
		log.Printf("Failed to reject request: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject request"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Request rejected successfully"})
}
