package models

import "time"

type Message struct {
	ID          uint      `gorm:"primaryKey"`
	SenderID    uint      `gorm:"not null;index"`
	RecipientID uint      `gorm:"not null;index:idx_message_recipient_timestamp"`
	Content     string    `gorm:"size:500;not null"`
	Timestamp   time.Time `gorm:"autoCreateTime;index:idx_message_recipient_timestamp,sort:desc"`
	IsRead      bool      `gorm:"not null;default:false"`
}

func (Message) TableName() string { return "message" }
