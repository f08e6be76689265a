package models

// User represents a registered account
type User struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Username    string `gorm:"uniqueIndex;not null" json:"username"`
	Password    string `gorm:"not null" json:"-"`
	Name        string `gorm:"not null" json:"name"`
	Surname     string `gorm:"not null" json:"surname"`
	Email       string `gorm:"not null" json:"email"`
	IsActive    bool   `gorm:"not null" json:"is_active"`
	IsSuperuser bool   `gorm:"not null" json:"is_superuser"` // reserved, no authorization check reads it

	// Relationships
	Posts      []Post `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	LikedPosts []Like `gorm:"foreignKey:LikerID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}
