package models

import "time"

// Post is an announcement/news item. Unrelated to the review workflow.
type Post struct {
	PostID      int        `gorm:"primaryKey;column:post_id" json:"post_id"`
	AuthorID    int        `gorm:"column:author_id" json:"author_id"`
	Title       string     `gorm:"column:title" json:"title"`
	Description *string    `gorm:"column:description" json:"description"`
	ImagePath   *string    `gorm:"column:image_path" json:"image_path,omitempty"`
	ImageURL    *string    `gorm:"column:image_url" json:"image_url,omitempty"`

	Category string  `gorm:"column:category;type:enum('news','call_for_papers','event','general');default:'general'" json:"category"`
	Tags     *string `gorm:"column:tags" json:"tags"` // comma separated
	Featured bool    `gorm:"column:featured" json:"featured"`

	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at"`
	CreateAt    time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt    time.Time  `gorm:"column:update_at" json:"update_at"`

	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}
