package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/clubhub-dev/clubhub/db"
	"github.com/clubhub-dev/clubhub/internal/authz"
	"github.com/clubhub-dev/clubhub/internal/models"
	"github.com/clubhub-dev/clubhub/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type FinanceRecordResponse struct {
	ID          uint    `json:"finance_id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

type FinanceSummary struct {
	Balance           string `json:"balance"`
	TotalIncome       string `json:"totalIncome"`
	TotalExpense      string `json:"totalExpense"`
	IncomePercentage  string `json:"incomePercentage"`
	ExpensePercentage string `json:"expensePercentage"`
}

func ListFinance(ctx *gin.Context) {
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
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only club executives can view finance records"})
		return
	}

	var records []models.FinanceRecord

	if err := db.DB.Where("club_id = ?", clubID).Order("date DESC").Find(&records).Error; err != nil {
		log.Printf("Failed to fetch finance records: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch finance records"})
		return
	}

	var totalIncome, totalExpense float64

	response := make([]FinanceRecordResponse, 0, len(records))

	for _, record := range records {
		if record.Type == models.FinanceIncome {
			totalIncome += record.Amount
		} else {
			totalExpense += record.Amount
		}

		response = append(response, FinanceRecordResponse{
			ID:          record.ID,
			Type:        record.Type,
			Amount:      record.Amount,
			Date:        time.Time(record.Date).Format("2006-01-02"),
			Description: record.Description,
		})
	}

	total := totalIncome + totalExpense

	summary := FinanceSummary{
		Balance:      fmt.Sprintf("%.2f", totalIncome-totalExpense),
		TotalIncome:  fmt.Sprintf("%.2f", totalIncome),
		TotalExpense: fmt.Sprintf("%.2f", totalExpense),
	}

	if total > 0 {
		summary.IncomePercentage = fmt.Sprintf("%.2f", totalIncome/total*100)
		summary.ExpensePercentage = fmt.Sprintf("%.2f", totalExpense/total*100)
	} else {
		summary.IncomePercentage = "0.00"
		summary.ExpensePercentage = "0.00"
	}

	ctx.JSON(http.StatusOK, gin.H{
		"records": response,
		"summary": summary,
	})
}

type AddFinanceRequest struct {
	Type        string  `json:"type" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Date        string  `json:"date" binding:"required"`
	Description string  `json:"description"`
}

func AddFinanceRecord(ctx *gin.Context) {
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
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only club executives can add finance records"})
		return
	}

	var body AddFinanceRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Type, amount, and date are required"})
		return
	}

	if body.Type != models.FinanceIncome && body.Type != models.FinanceExpense {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Type must be Income or Expense"})
		return
	}

	recordDate, err := time.Parse("2006-01-02", body.Date)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	record := models.FinanceRecord{
		ClubID:      clubID,
		Type:        body.Type,
		Amount:      body.Amount,
		Date:        datatypes.Date(recordDate),
		Description: body.Description,
	}

	if err := db.DB.Create(&record).Error; err != nil {
		log.Printf("Failed to add finance record: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add financial record"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":    "Financial record added successfully",
		"finance_id": record.ID,
	})
}
