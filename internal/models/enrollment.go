package models

// Enrollment links a user to a career. Students, professors and admins are
// all enrolled the same way; the user's role decides what it means.
type Enrollment struct {
	ID       uint `gorm:"primaryKey"`
	CareerID uint `gorm:"column:id_career;not null;uniqueIndex:idx_user_career"`
	UserID   uint `gorm:"column:id_user;not null;uniqueIndex:idx_user_career"`

	// Relationships
	User   User   `gorm:"foreignKey:UserID"`
	Career Career `gorm:"foreignKey:CareerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Enrollment) TableName() string { return "pivote_user_career" }
