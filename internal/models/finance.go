package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	FinanceIncome  = "Income"
	FinanceExpense = "Expense"
)

type FinanceRecord struct {
	gorm.Model

	ClubID      uint           `gorm:"not null;index"`
	Type        string         `gorm:"not null"`
	Amount      float64        `gorm:"not null"`
	Date        datatypes.Date `gorm:"not null"`
	Description string

	// Relationships
	Club Club `gorm:"foreignKey:ClubID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
