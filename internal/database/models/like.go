package models

// Like marks that a user liked a post.
// The pair (PostID, LikerID) is unique.
type Like struct {
	ID      uint `gorm:"primarykey" json:"id"`
	PostID  uint `gorm:"not null;uniqueIndex:idx_likes_post_liker" json:"post_id"`
	LikerID uint `gorm:"not null;uniqueIndex:idx_likes_post_liker;index" json:"liker_id"`

	// Relationships
	Post  *Post `gorm:"foreignKey:PostID" json:"-"`
	Liker *User `gorm:"foreignKey:LikerID" json:"-"`
}

// TableName overrides the table name
func (Like) TableName() string {
	return "likes"
}
