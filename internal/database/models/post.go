package models

// Post is a short text message owned by its author.
// LikeCount mirrors the number of Like rows for the post and is only
// written by the like reconciler.
type Post struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Text            string `gorm:"not null" json:"text"`
	AuthorID        uint   `gorm:"not null;index" json:"author_id"`
	CreateTimestamp int64  `gorm:"not null" json:"create_timestamp"`
	UpdateTimestamp *int64 `json:"update_timestamp"`
	LikeCount       int64  `gorm:"not null" json:"like_count"`

	// Relationships
	Author *User  `gorm:"foreignKey:AuthorID" json:"-"`
	Likers []Like `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the table name
func (Post) TableName() string {
	return "posts"
}

// IsAuthoredBy reports whether userID owns the post
func (p *Post) IsAuthoredBy(userID uint) bool {
	return p.AuthorID == userID
}
