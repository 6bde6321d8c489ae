package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/clubhub-dev/clubhub/db"
	"github.com/clubhub-dev/clubhub/internal/authz"
	"github.com/clubhub-dev/clubhub/internal/models"
	"github.com/clubhub-dev/clubhub/internal/notify"
	"github.com/clubhub-dev/clubhub/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateAnnouncementRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// CreateAnnouncement posts a club announcement and fans it out to members'
// devices. Push dispatch is best effort and never fails the request.
func CreateAnnouncement(ctx *gin.Context) {
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

	allowed, err := authz.Can(db.DB, currentUser, authz.ActionAnnounce, clubID)

	if err != nil {
		log.Printf("Authorization check failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only executives can send notifications"})
		return
	}

	var body CreateAnnouncementRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	notification := models.Notification{
		ClubID:      clubID,
		Title:       body.Title,
		Description: body.Description,
	}

	if err := db.DB.Create(&notification).Error; err != nil {
		log.Printf("Failed to create notification: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}

	notify.ClubAnnouncement(clubID, body.Title, body.Description)
	BroadcastClubRefresh(strconv.FormatUint(uint64(clubID), 10))

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Notification created",
		"id":      notification.ID,
	})
}

type NotificationResponse struct {
	ID          uint   `json:"id"`
	ClubID      uint   `json:"club_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

func notificationResponse(notification models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          notification.ID,
		ClubID:      notification.ClubID,
		Title:       notification.Title,
		Description: notification.Description,
		Timestamp:   notification.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ListNotifications returns the feed across every club the caller belongs to.
func ListNotifications(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	joined := db.DB.Model(&models.Membership{}).Select("club_id").Where("user_id = ?", userID)

	var notifications []models.Notification

	if err := db.DB.Where("club_id IN (?)", joined).Order("id DESC").Limit(50).Find(&notifications).Error; err != nil {
		log.Printf("Failed to fetch notifications: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	response := make([]NotificationResponse, 0, len(notifications))

	for _, notification := range notifications {
		response = append(response, notificationResponse(notification))
	}

	ctx.JSON(http.StatusOK, response)
}

// LatestClubNotifications returns a club's most recent announcements, for
// members only.
func LatestClubNotifications(ctx *gin.Context) {
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

	var membershipCount int64

	if err := db.DB.Model(&models.Membership{}).
		Where("club_id = ? AND user_id = ?", clubID, userID).
		Count(&membershipCount).Error; err != nil {
		log.Printf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch latest notification"})
		return
	}

	if membershipCount == 0 {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Access denied: Not a member of this club"})
		return
	}

	var notifications []models.Notification

	if err := db.DB.Where("club_id = ?", clubID).Order("created_at DESC").Limit(5).Find(&notifications).Error; err != nil {
		log.Printf("Failed to fetch latest notifications: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch latest notification"})
		return
	}

	response := make([]NotificationResponse, 0, len(notifications))

	for _, notification := range notifications {
		response = append(response, notificationResponse(notification))
	}

	ctx.JSON(http.StatusOK, response)
}

type NotificationSettingsResponse struct {
	EmailNotifications    bool   `json:"emailNotifications"`
	PushNotifications     bool   `json:"pushNotifications"`
	ClubAnnouncements     bool   `json:"clubAnnouncements"`
	NewEventAnnouncements bool   `json:"newEventAnnouncements"`
	RSVPEventReminders    bool   `json:"rsvpEventReminders"`
	ReminderTime          string `json:"reminderTime"`
}

func GetNotificationSettings(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var settings models.NotificationSettings

	err = db.DB.Where("user_id = ?", userID).First(&settings).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Defaults for users who never saved settings.
		ctx.JSON(http.StatusOK, NotificationSettingsResponse{
			EmailNotifications:    false,
			PushNotifications:     true,
			ClubAnnouncements:     true,
			NewEventAnnouncements: true,
			RSVPEventReminders:    true,
			ReminderTime:          "2 hours before",
		})
		return
	}

	if err != nil {
		log.Printf("Failed to fetch notification settings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notification settings"})
		return
	}

	ctx.JSON(http.StatusOK, NotificationSettingsResponse{
		EmailNotifications:    settings.EmailNotifications,
		PushNotifications:     settings.PushNotifications,
		ClubAnnouncements:     settings.ClubAnnouncements,
		NewEventAnnouncements: settings.NewEventAnnouncements,
		RSVPEventReminders:    settings.RSVPEventReminders,
		ReminderTime:          settings.ReminderTime,
	})
}

type UpdateNotificationSettingsRequest struct {
	EmailNotifications    *bool   `json:"emailNotifications"`
	PushNotifications     *bool   `json:"pushNotifications"`
	ClubAnnouncements     *bool   `json:"clubAnnouncements"`
	NewEventAnnouncements *bool   `json:"newEventAnnouncements"`
	RSVPEventReminders    *bool   `json:"rsvpEventReminders"`
	ReminderTime          *string `json:"reminderTime"`
}

func UpdateNotificationSettings(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateNotificationSettingsRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var settings models.NotificationSettings

	err = db.DB.Where("user_id = ?", userID).First(&settings).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.NotificationSettings{
			UserID:                userID,
			EmailNotifications:    false,
			PushNotifications:     true,
			ClubAnnouncements:     true,
			NewEventAnnouncements: true,
			RSVPEventReminders:    true,
			ReminderTime:          "2 hours before",
		}
	} else if err != nil {
		log.Printf("Failed to fetch notification settings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification settings"})
		return
	}

	if body.EmailNotifications != nil {
		settings.EmailNotifications = *body.EmailNotifications
	}
	if body.PushNotifications != nil {
		settings.PushNotifications = *body.PushNotifications
	}
	if body.ClubAnnouncements != nil {
		settings.ClubAnnouncements = *body.ClubAnnouncements
	}
	if body.NewEventAnnouncements != nil {
		settings.NewEventAnnouncements = *body.NewEventAnnouncements
	}
	if body.RSVPEventReminders != nil {
		settings.RSVPEventReminders = *body.RSVPEventReminders
	}
	if body.ReminderTime != nil {
		settings.ReminderTime = *body.ReminderTime
	}

	if err := db.DB.Save(&settings).Error; err != nil {
		log.Printf("Failed to save notification settings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification settings"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Notification settings updated successfully"})
}
