package models

import (
	"time"

	"gorm.io/datatypes"
)

type Payment struct {
	ID            uint           `gorm:"primaryKey"`
	CareerID      uint           `gorm:"column:id_career;not null;index"`
	UserID        uint           `gorm:"column:id_user;not null;index"`
	Amount        int            `gorm:"not null"`
	AffectedMonth datatypes.Date `gorm:"not null"`
	CreatedAt     time.Time

	// Relationships
	User   User   `gorm:"foreignKey:UserID"`
	Career Career `gorm:"foreignKey:CareerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Payment) TableName() string { return "payment" }
