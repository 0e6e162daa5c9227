package model

import "time"

// Follow 已生效的关注边 follower -> followee
type Follow struct {
	ID         uint64 `gorm:"primaryKey" json:"id"`
	FollowerID uint64 `gorm:"not null;index:idx_follower_id;uniqueIndex:uk_follower_followee,priority:1" json:"follower_id"`
	FolloweeID uint64 `gorm:"not null;index:idx_followee_id;uniqueIndex:uk_follower_followee,priority:2" json:"followee_id"`
	CreatedAt  time.Time
}

// TableName sets table name for Follow
func (Follow) TableName() string { return "follows" }

// FollowRequest 待审批的关注请求 sender -> recipient，仅私密账号会产生
// 稳定状态下与同向的 Follow 互斥：accept 在一个事务里删请求、建边
type FollowRequest struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	SenderID    uint64 `gorm:"not null;index:idx_sender_id;uniqueIndex:uk_sender_recipient,priority:1" json:"sender_id"`
	RecipientID uint64 `gorm:"not null;index:idx_recipient_id;uniqueIndex:uk_sender_recipient,priority:2" json:"recipient_id"`
	CreatedAt   time.Time
}

func (FollowRequest) TableName() string { return "follow_requests" }

// SocialOutbox 关注事件监控表
type SocialOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:20;not null"` // follow / unfollow / request / request_accepted
	Follower  uint64 `gorm:"not null"`
	Followee  uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SocialOutbox) TableName() string { return "social_outbox" }
