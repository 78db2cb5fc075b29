package models

type UserDetail struct {
	ID              uint    `gorm:"primaryKey"`
	FirstName       string  `gorm:"size:50"`
	LastName        string  `gorm:"size:50"`
	DNI             int     `gorm:"column:dni"`
	Type            string  `gorm:"size:50;index"`
	Email           string  `gorm:"size:50;uniqueIndex;not null"`
	ProfileImageURL *string `gorm:"size:255"`
}

func (UserDetail) TableName() string { return "userdetail" }
