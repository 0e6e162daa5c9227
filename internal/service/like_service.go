package service

import (
	"context"
	"errors"

	"warbler/internal/model"
	"warbler/internal/repository/mysql"

	"gorm.io/gorm"
)

type LikeService struct {
	repo     *mysql.LikeRepository
	messages *mysql.MessageRepository
	users    *mysql.UserRepository
	vis      *VisibilityService
}

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		repo:     &mysql.LikeRepository{DB: db},
		messages: &mysql.MessageRepository{DB: db},
		users:    &mysql.UserRepository{DB: db},
		vis:      NewVisibilityService(db),
	}
}

// Toggle 翻转点赞状态，返回翻转后是否已赞。
// 不能赞自己的消息，两次调用回到原始状态。
func (s *LikeService) Toggle(ctx context.Context, viewer *model.User, messageID uint64) (bool, error) {
	if err := RequireAuthenticated(viewer); err != nil {
		return false, err
	}
	msg, err := s.messages.FindByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	if msg.UserID == viewer.ID {
		return false, ErrSelfLikeForbidden
	}
	liked, err := s.repo.Toggle(ctx, viewer.ID, messageID)
	if err != nil {
		// 并发双击时唯一索引兜底，冲突不升级成 500
		return false, translateDuplicate(err)
	}
	return liked, nil
}

func (s *LikeService) IsLiked(ctx context.Context, viewer *model.User, messageID uint64) (bool, error) {
	if viewer == nil {
		return false, nil
	}
	return s.repo.IsLiked(ctx, viewer.ID, messageID)
}

func (s *LikeService) Count(ctx context.Context, messageID uint64) (int64, error) {
	return s.repo.CountForMessage(ctx, messageID)
}

// ListLiked 目标用户点赞过的消息，受可见性策略保护
func (s *LikeService) ListLiked(ctx context.Context, viewer *model.User, targetID uint64, limit int) ([]model.Message, error) {
	target, err := s.users.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.vis.RequireView(ctx, viewer, target); err != nil {
		return nil, err
	}
	return s.messages.ListLikedBy(ctx, targetID, limit)
}
