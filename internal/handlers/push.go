package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/clubhub-dev/clubhub/db"
	"github.com/clubhub-dev/clubhub/internal/models"
	"github.com/clubhub-dev/clubhub/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterTokenRequest struct {
	DeviceToken string `json:"device_token" binding:"required"`
	Platform    string `json:"platform"`
}

func RegisterDeviceToken(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body RegisterTokenRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Device token is required"})
		return
	}

	platform := body.Platform

	if platform == "" {
		platform = "android"
	}

	var existing models.DeviceToken

	err = db.DB.Where("user_id = ? AND token = ?", userID, body.DeviceToken).First(&existing).Error

	if err == nil {
		if err := db.DB.Model(&existing).Update("platform", platform).Error; err != nil {
			log.Printf("Failed to update device token: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register device token"})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"message": "Device token updated successfully"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check device token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register device token"})
		return
	}

	token := models.DeviceToken{
		UserID:   userID,
		Token:    body.DeviceToken,
		Platform: platform,
	}

	if err := db.DB.Create(&token).Error; err != nil {
		log.Printf("Failed to create device token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register device token"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Device token registered successfully"})
}

type UnregisterTokenRequest struct {
	DeviceToken string `json:"device_token" binding:"required"`
}

func UnregisterDeviceToken(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UnregisterTokenRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Device token is required"})
		return
	}

	if err := db.DB.Unscoped().
		Where("user_id = ? AND token = ?", userID, body.DeviceToken).
		Delete(&models.DeviceToken{}).Error; err != nil {
		log.Printf("Failed to delete device token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unregister device token"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Device token unregistered successfully"})
}
