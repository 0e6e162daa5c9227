package model

import "time"

type User struct {
	ID             uint64 `gorm:"primaryKey" json:"id"`
	Username       string `gorm:"uniqueIndex;size:32;not null" json:"username"`
	Password       string `gorm:"size:255;not null" json:"-"`
	Email          string `gorm:"uniqueIndex;size:64;not null" json:"email"`
	Bio            string `gorm:"type:text" json:"bio"`
	Location       string `gorm:"size:64" json:"location"`
	ImageURL       string `gorm:"size:255" json:"image_url"`
	HeaderImageURL string `gorm:"size:255" json:"header_image_url"`
	IsPrivate      bool   `gorm:"not null;default:false" json:"is_private"`
	IsAdmin        bool   `gorm:"not null;default:false" json:"-"`
	// 冗余计数，随 follow 事务同步维护，由对账任务兜底修正
	FollowerCount  int64 `gorm:"not null;default:0" json:"follower_count"`
	FollowingCount int64 `gorm:"not null;default:0" json:"following_count"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (User) TableName() string { return "users" }
