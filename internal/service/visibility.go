package service

import (
	"context"

	"warbler/internal/model"
	"warbler/internal/repository/mysql"

	"gorm.io/gorm"
)

// VisibilityService 可见性判定：profile、粉丝/关注列表、点赞列表、单条消息统一走这里。
// viewer 为 nil 表示匿名访客（非本人、非关注者、非管理员）。
type VisibilityService struct {
	follows *mysql.FollowRepository
}

func NewVisibilityService(db *gorm.DB) *VisibilityService {
	return &VisibilityService{follows: &mysql.FollowRepository{DB: db}}
}

// CanView 规则：本人 ∨ 已关注 ∨ 非私密 ∨ 管理员。
// 注意是 !IsPrivate：私密账号对陌生人不可见。
func (s *VisibilityService) CanView(ctx context.Context, viewer *model.User, target *model.User) (bool, error) {
	if !target.IsPrivate {
		return true, nil
	}
	if viewer == nil {
		return false, nil
	}
	if viewer.ID == target.ID || viewer.IsAdmin {
		return true, nil
	}
	return s.follows.IsFollowing(ctx, viewer.ID, target.ID)
}

// RequireView CanView 的便捷封装，不可见时返回 ErrUnauthorized
func (s *VisibilityService) RequireView(ctx context.Context, viewer *model.User, target *model.User) error {
	ok, err := s.CanView(ctx, viewer, target)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// RequireAuthenticated 要求登录态，匿名返回 ErrUnauthorized
func RequireAuthenticated(viewer *model.User) error {
	if viewer == nil {
		return ErrUnauthorized
	}
	return nil
}

// RequireSelfOrAdmin 要求操作者是目标本人或管理员
func RequireSelfOrAdmin(viewer *model.User, targetID uint64) error {
	if viewer == nil {
		return ErrUnauthorized
	}
	if viewer.ID != targetID && !viewer.IsAdmin {
		return ErrUnauthorized
	}
	return nil
}
