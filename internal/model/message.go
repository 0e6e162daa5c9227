package model

import "time"

// MaxMessageLen 单条消息的最大长度（按字符数计）
const MaxMessageLen = 140

// Message 用户发布的短消息，创建后不可修改
type Message struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index:idx_author_time,priority:1" json:"user_id"`
	Text      string    `gorm:"size:140;not null" json:"text"`
	CreatedAt time.Time `gorm:"index:idx_author_time,priority:2,sort:desc" json:"created_at"`
}

func (Message) TableName() string { return "messages" }
