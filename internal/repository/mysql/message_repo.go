package mysql

import (
	"context"

	"warbler/internal/model"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func (r *MessageRepository) Create(msg *model.Message) error {
	return r.DB.Create(msg).Error
}

func (r *MessageRepository) FindByID(id uint64) (*model.Message, error) {
	var msg model.Message
	err := r.DB.First(&msg, id).Error
	return &msg, err
}

// ListByAuthor 某用户的消息，按时间倒序
func (r *MessageRepository) ListByAuthor(ctx context.Context, authorID uint64, limit int) ([]model.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var list []model.Message
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// ListLikedBy 某用户点赞过的消息
func (r *MessageRepository) ListLikedBy(ctx context.Context, userID uint64, limit int) ([]model.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var list []model.Message
	err := r.DB.WithContext(ctx).
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("messages.created_at DESC, messages.id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// Timeline 指定作者集合的最新消息，created_at 相同用 id 打破并列
func (r *MessageRepository) Timeline(ctx context.Context, authorIDs []uint64, limit int) ([]model.Message, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var list []model.Message
	err := r.DB.WithContext(ctx).
		Where("user_id IN ?", authorIDs).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// DeleteWithLikes 删除消息并带走其上的点赞，同一事务
func (r *MessageRepository) DeleteWithLikes(ctx context.Context, messageID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", messageID).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Message{}, messageID).Error
	})
}
