package handlers

import (
	"errors"
	"log"
	"net/http"
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

type CreateClubRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	FoundedDate string `json:"founded_date"`
	LogoURL     string `json:"logo_url"`
	Category    string `json:"category"`
}

type ClubSummary struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	LogoURL      string  `json:"logo_url"`
	Category     string  `json:"category"`
	FoundedDate  *string `json:"founded_date"`
	MembersCount int64   `json:"members_count"`
}

func clubSummary(club models.Club) ClubSummary {
	var membersCount int64

	if err := db.DB.Model(&models.Membership{}).Where("club_id = ?", club.ID).Count(&membersCount).Error; err != nil {
		log.Printf("Failed to count members for club %d: %v", club.ID, err)
	}

	var founded *string

	if club.FoundedDate != nil {
		formatted := time.Time(*club.FoundedDate).Format("2006-01-02")
		founded = &formatted
	}

	return ClubSummary{
		ID:           club.ID,
		Name:         club.Name,
		Description:  club.Description,
		LogoURL:      club.LogoURL,
		Category:     club.Category,
		FoundedDate:  founded,
		MembersCount: membersCount,
	}
}

func CreateClub(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	allowed, err := authz.Can(db.DB, currentUser, authz.ActionManageClubs, 0)

	if err != nil {
		log.Printf("Authorization check failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only admins can create clubs"})
		return
	}

	var body CreateClubRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Club name is required"})
		return
	}

	club := models.Club{
		Name:        body.Name,
		Description: body.Description,
		LogoURL:     body.LogoURL,
		Category:    body.Category,
	}

	if club.Category == "" {
		club.Category = "General"
	}

	if body.FoundedDate != "" {
		founded, err := time.Parse("2006-01-02", body.FoundedDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "founded_date must be YYYY-MM-DD"})
			return
		}
		date := datatypes.Date(founded)
		club.FoundedDate = &date
	}

	if err := db.DB.Create(&club).Error; err != nil {
		log.Printf("Failed to create club: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create club"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Club created successfully",
		"club_id": club.ID,
		"name":    club.Name,
	})
}

// ListClubs returns clubs the current user has not joined yet, oldest first.
func ListClubs(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	joined := db.DB.Model(&models.Membership{}).Select("club_id").Where("user_id = ?", userID)

	var clubs []models.Club

	if err := db.DB.Where("id NOT IN (?)", joined).Order("created_at ASC").Find(&clubs).Error; err != nil {
		log.Printf("Failed to list clubs: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clubs"})
		return
	}

	response := make([]ClubSummary, 0, len(clubs))

	for _, club := range clubs {
		response = append(response, clubSummary(club))
	}

	ctx.JSON(http.StatusOK, response)
}

func MyClubs(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	joined := db.DB.Model(&models.Membership{}).Select("club_id").Where("user_id = ?", userID)

	var clubs []models.Club

	if err := db.DB.Where("id IN (?)", joined).Order("name ASC").Find(&clubs).Error; err != nil {
		log.Printf("Failed to list joined clubs: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user clubs"})
		return
	}

	response := make([]ClubSummary, 0, len(clubs))

	for _, club := range clubs {
		response = append(response, clubSummary(club))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetClub(ctx *gin.Context) {
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
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch club details"})
		}
		return
	}

	ctx.JSON(http.StatusOK, clubSummary(club))
}

type ApproveClubRequest struct {
	UserID uint `json:"user_id"`
}

// ApproveClub bootstraps a freshly created club: when no President exists yet
// and a founder is named, the founder gets the President membership.
func ApproveClub(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	allowed, err := authz.Can(db.DB, currentUser, authz.ActionManageClubs, 0)

	if err != nil {
		log.Printf("Authorization check failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only admins can approve clubs"})
		return
	}

	clubID, err := utils.GetClubID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body ApproveClubRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var club models.Club

	if err := db.DB.First(&club, clubID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Club not found"})
		} else {
			log.Printf("Failed to fetch club: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	var president models.Membership

	err = db.DB.Where("club_id = ? AND role = ?", clubID, models.MembershipRolePresident).First(&president).Error

	if err == nil || body.UserID == 0 {
		ctx.JSON(http.StatusOK, gin.H{"message": "Club approved successfully"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check for existing president: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		membership := models.Membership{
			UserID:   body.UserID,
			ClubID:   clubID,
			Role:     models.MembershipRolePresident,
			JoinDate: datatypes.Date(time.Now()),
		}

		if err := tx.Create(&membership).Error; err != nil {
			return err
		}

		return roles.Recompute(tx, body.UserID)
	})

	if err != nil {
		log.Printf("Failed to approve club: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve club"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Club approved successfully"})
}

func RejectClub(ctx *gin.Context) {
	deleteClubWithCascade(ctx, "Club rejected and deleted successfully")
}

func DeleteClub(ctx *gin.Context) {
	deleteClubWithCascade(ctx, "Club deleted successfully")
}

// deleteClubWithCascade removes a club and everything hanging off it in one
// transaction, then rederives global roles for every former member in bulk
// rather than per row.
func deleteClubWithCascade(ctx *gin.Context, successMessage string) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	allowed, err := authz.Can(db.DB, currentUser, authz.ActionManageClubs, 0)

	if err != nil {
		log.Printf("Authorization check failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only admins can delete clubs"})
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
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var memberIDs []uint

		if err := tx.Model(&models.Membership{}).Where("club_id = ?", clubID).
			Distinct().Pluck("user_id", &memberIDs).Error; err != nil {
			return err
		}

		eventIDs := tx.Model(&models.Event{}).Select("id").Where("club_id = ?", clubID)

		if err := tx.Unscoped().Where("event_id IN (?)", eventIDs).Delete(&models.Registration{}).Error; err != nil {
			return err
		}

		for _, model := range []interface{}{
			&models.Event{},
			&models.Membership{},
			&models.ClubRequest{},
			&models.FinanceRecord{},
			&models.Notification{},
		} {
			if err := tx.Unscoped().Where("club_id = ?", clubID).Delete(model).Error; err != nil {
				return err
			}
		}

		if err := tx.Unscoped().Delete(&club).Error; err != nil {
			return err
		}

		return roles.RecomputeBulk(tx, memberIDs)
	})

	if err != nil {
		log.Printf("Failed to delete club %d: %v", clubID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete club"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": successMessage})
}

// GetMembershipStatus reports the caller's relationship to a club: member
// (with role), pending join request, or neither.
func GetMembershipStatus(ctx *gin.Context) {
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

	var membership models.Membership

	err = db.DB.Where("club_id = ? AND user_id = ?", clubID, userID).First(&membership).Error

	if err == nil {
		ctx.JSON(http.StatusOK, gin.H{
			"member":         true,
			"membership_id":  membership.ID,
			"role":           membership.Role,
			"pendingRequest": false,
		})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}

	var pendingCount int64

	if err := db.DB.Model(&models.ClubRequest{}).
		Where("club_id = ? AND user_id = ? AND status = ?", clubID, userID, models.RequestPending).
		Count(&pendingCount).Error; err != nil {
		log.Printf("Failed to check pending request: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"member":         false,
		"pendingRequest": pendingCount > 0,
	})
}

// GetClubDashboard summarizes a club for its executives: headcount, upcoming
// events and the finance balance.
func GetClubDashboard(ctx *gin.Context) {
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

	allowed, err := authz.Can(db.DB, currentUser, authz.ActionManageFinance, clubID)

	if err != nil {
		log.Printf("Authorization check failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only club executives can view the dashboard"})
		return
	}

	var club models.Club

	if err := db.DB.First(&club, clubID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Club not found"})
		} else {
			log.Printf("Failed to fetch club: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	var memberCount int64

	if err := db.DB.Model(&models.Membership{}).Where("club_id = ?", clubID).Count(&memberCount).Error; err != nil {
		log.Printf("Failed to count members: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var upcomingEvents int64

	today := time.Now().Format("2006-01-02")

	if err := db.DB.Model(&models.Event{}).Where("club_id = ? AND date >= ?", clubID, today).Count(&upcomingEvents).Error; err != nil {
		log.Printf("Failed to count events: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var records []models.FinanceRecord

	if err := db.DB.Where("club_id = ?", clubID).Find(&records).Error; err != nil {
		log.Printf("Failed to fetch finance records: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var balance float64

	for _, record := range records {
		if record.Type == models.FinanceIncome {
			balance += record.Amount
		} else {
			balance -= record.Amount
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"club_id":         club.ID,
		"name":            club.Name,
		"description":     club.Description,
		"member_count":    memberCount,
		"upcoming_events": upcomingEvents,
		"balance":         balance,
	})
}
