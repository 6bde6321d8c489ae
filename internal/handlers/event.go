package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/clubhub-dev/clubhub/db"
	"github.com/clubhub-dev/clubhub/internal/authz"
	"github.com/clubhub-dev/clubhub/internal/models"
	"github.com/clubhub-dev/clubhub/internal/notify"
	"github.com/clubhub-dev/clubhub/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EventResponse struct {
	ID           uint   `json:"id"`
	ClubID       uint   `json:"club_id"`
	ClubName     string `json:"club_name,omitempty"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Venue        string `json:"venue"`
	ImageURL     string `json:"image_url"`
	Status       string `json:"status"`
	Capacity     *int   `json:"capacity"`
	Attendees    int64  `json:"attendees"`
	IsRegistered bool   `json:"is_registered"`
}

func eventResponse(event models.Event, userID uint) EventResponse {
	var attendees int64

	if err := db.DB.Model(&models.Registration{}).Where("event_id = ?", event.ID).Count(&attendees).Error; err != nil {
		log.Printf("Failed to count attendees for event %d: %v", event.ID, err)
	}

	var registered int64

	if userID != 0 {
		if err := db.DB.Model(&models.Registration{}).
			Where("event_id = ? AND user_id = ?", event.ID, userID).
			Count(&registered).Error; err != nil {
			log.Printf("Failed to check registration for event %d: %v", event.ID, err)
		}
	}

	return EventResponse{
		ID:           event.ID,
		ClubID:       event.ClubID,
		Title:        event.Title,
		Description:  event.Description,
		Date:         time.Time(event.Date).Format("2006-01-02"),
		Time:         event.Time,
		Venue:        event.Venue,
		ImageURL:     event.ImageURL,
		Status:       event.Status,
		Capacity:     event.Capacity,
		Attendees:    attendees,
		IsRegistered: registered > 0,
	}
}

func ListClubEvents(ctx *gin.Context) {
	userID, _ := utils.GetCurrentUserID(ctx)

	clubID, err := utils.GetClubID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var events []models.Event

	if err := db.DB.Where("club_id = ?", clubID).Order("date DESC").Limit(10).Find(&events).Error; err != nil {
		log.Printf("Failed to fetch events: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	response := make([]EventResponse, 0, len(events))

	for _, event := range events {
		response = append(response, eventResponse(event, userID))
	}

	ctx.JSON(http.StatusOK, response)
}

// MyEvents lists every event across the clubs the caller belongs to.
func MyEvents(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	joined := db.DB.Model(&models.Membership{}).Select("club_id").Where("user_id = ?", userID)

	var events []models.Event

	if err := db.DB.Preload("Club").Where("club_id IN (?)", joined).Order("date DESC").Find(&events).Error; err != nil {
		log.Printf("Failed to fetch user events: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user events"})
		return
	}

	response := make([]EventResponse, 0, len(events))

	for _, event := range events {
		resp := eventResponse(event, userID)
		resp.ClubName = event.Club.Name
		response = append(response, resp)
	}

	ctx.JSON(http.StatusOK, response)
}

// MyUpcomingEvents returns, for each club the caller belongs to, that club's
// next event on or after today.
func MyUpcomingEvents(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	joined := db.DB.Model(&models.Membership{}).Select("club_id").Where("user_id = ?", userID)

	today := time.Now().Format("2006-01-02")

	var events []models.Event

	if err := db.DB.Preload("Club").
		Where("club_id IN (?) AND date >= ?", joined, today).
		Order("date ASC").
		Find(&events).Error; err != nil {
		log.Printf("Failed to fetch upcoming events: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch upcoming events"})
		return
	}

	seen := make(map[uint]bool)

	response := make([]EventResponse, 0, len(events))

	for _, event := range events {
		if seen[event.ClubID] {
			continue
		}
		seen[event.ClubID] = true

		resp := eventResponse(event, userID)
		resp.ClubName = event.Club.Name
		response = append(response, resp)
	}

	ctx.JSON(http.StatusOK, response)
}

type CreateEventRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time"`
	Venue       string `json:"venue" binding:"required"`
	ImageURL    string `json:"image_url"`
	Status      string `json:"status"`
	Capacity    *int   `json:"capacity"`
}

func CreateEvent(ctx *gin.Context) {
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

	allowed, err := authz.Can(db.DB, currentUser, authz.ActionManageEvents, clubID)

	if err != nil {
		log.Printf("Authorization check failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only club executives can create events"})
		return
	}

	var body CreateEventRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Title, date, and venue are required"})
		return
	}

	eventDate, err := time.Parse("2006-01-02", body.Date)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	status := body.Status

	if status == "" {
		status = "Pending"
	}

	event := models.Event{
		ClubID:      clubID,
		Title:       body.Title,
		Description: body.Description,
		Date:        datatypes.Date(eventDate),
		Time:        body.Time,
		Venue:       body.Venue,
		ImageURL:    body.ImageURL,
		Status:      status,
		Capacity:    body.Capacity,
	}

	if err := db.DB.Create(&event).Error; err != nil {
		log.Printf("Failed to create event: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	// Announce the event to the club. The announcement and its push dispatch
	// are side effects: failures are logged, the event stays created.
	announcementTitle := "New Event: " + body.Title
	announcementBody := body.Description
	if announcementBody == "" {
		announcementBody = fmt.Sprintf("Join us on %s at %s!", eventDate.Format("January 2, 2006"), body.Venue)
	}

	notification := models.Notification{
		ClubID:      clubID,
		Title:       announcementTitle,
		Description: announcementBody,
	}

	if err := db.DB.Create(&notification).Error; err != nil {
		log.Printf("Failed to create announcement for event %d: %v", event.ID, err)
	} else {
		notify.ClubAnnouncement(clubID, announcementTitle, announcementBody)
		BroadcastClubRefresh(strconv.FormatUint(uint64(clubID), 10))
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":  "Event created successfully",
		"event_id": event.ID,
	})
}

func DeleteEvent(ctx *gin.Context) {
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

	eventID, err := utils.GetEventID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	allowed, err := authz.Can(db.DB, currentUser, authz.ActionManageEvents, clubID)

	if err != nil {
		log.Printf("Authorization check failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only club executives can delete events"})
		return
	}

	var event models.Event

	if err := db.DB.Where("id = ? AND club_id = ?", eventID, clubID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found or does not belong to this club"})
		} else {
			log.Printf("Failed to fetch event: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		}
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("event_id = ?", event.ID).Delete(&models.Registration{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&event).Error
	})

	if err != nil {
		log.Printf("Failed to delete event: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

func RegisterForEvent(ctx *gin.Context) {
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

	eventID, err := utils.GetEventID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var event models.Event

	if err := db.DB.Where("id = ? AND club_id = ?", eventID, clubID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			log.Printf("Failed to fetch event: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register for event"})
		}
		return
	}

	var existingCount int64

	if err := db.DB.Model(&models.Registration{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&existingCount).Error; err != nil {
		log.Printf("Failed to check registration: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register for event"})
		return
	}

	if existingCount > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Already registered"})
		return
	}

	registration := models.Registration{
		EventID: eventID,
		UserID:  userID,
		Status:  "Registered",
	}

	if err := db.DB.Create(&registration).Error; err != nil {
		log.Printf("Failed to create registration: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register for event"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Registered successfully",
		"reg_id":  registration.ID,
	})
}

func CheckRegistration(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	eventID, err := utils.GetEventID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var count int64

	if err := db.DB.Model(&models.Registration{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error; err != nil {
		log.Printf("Failed to check registration: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check registration"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"registered": count > 0})
}
