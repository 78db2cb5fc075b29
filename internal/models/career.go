package models

type Career struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:50;not null"`
}

func (Career) TableName() string { return "career" }
