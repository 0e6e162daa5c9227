package mysql

import (
	"context"
	"errors"

	"warbler/internal/model"

	"gorm.io/gorm"
)

type LikeRepository struct {
	DB *gorm.DB
}

// Toggle 同一事务内翻转点赞状态：有则删、无则插。
// 唯一索引 uk_user_message 保证并发下不会双插，返回翻转后的状态。
func (r *LikeRepository) Toggle(ctx context.Context, userID, messageID uint64) (bool, error) {
	var liked bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var like model.Like
		err := tx.Where("user_id = ? AND message_id = ?", userID, messageID).First(&like).Error
		if err == nil {
			liked = false
			return tx.Delete(&model.Like{}, like.ID).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		liked = true
		return tx.Create(&model.Like{UserID: userID, MessageID: messageID}).Error
	})
	return liked, err
}

func (r *LikeRepository) IsLiked(ctx context.Context, userID, messageID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&n).Error
	return n > 0, err
}

func (r *LikeRepository) CountForMessage(ctx context.Context, messageID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&model.Like{}).
		Where("message_id = ?", messageID).
		Count(&n).Error
	return n, err
}
