package model

import "time"

// Like 用户对消息的点赞记录，(user_id, message_id) 唯一
type Like struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_user_message,priority:1" json:"user_id"`
	MessageID uint64 `gorm:"not null;index;uniqueIndex:uk_user_message,priority:2" json:"message_id"`
	CreatedAt time.Time
}

func (Like) TableName() string { return "likes" }
