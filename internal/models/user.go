package models

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:50;uniqueIndex;not null"`
	Password     string `gorm:"not null"`
	UserDetailID uint   `gorm:"column:id_userdetail;not null"`

	// Relationships
	UserDetail       UserDetail   `gorm:"foreignKey:UserDetailID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Payments         []Payment    `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Enrollments      []Enrollment `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	SentMessages     []Message    `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	ReceivedMessages []Message    `gorm:"foreignKey:RecipientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (User) TableName() string { return "user" }

// FullName is "<first> <last>" from the user's detail row.
func (u User) FullName() string {
	return u.UserDetail.FirstName + " " + u.UserDetail.LastName
}
