package service

import (
	"context"
	"errors"

	"warbler/internal/model"
	"warbler/internal/repository/mysql"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type FollowService struct {
	repo     *mysql.FollowRepository
	users    *mysql.UserRepository
	vis      *VisibilityService
	notifier *Notifier
}

func NewFollowService(db *gorm.DB, notifier *Notifier) *FollowService {
	return &FollowService{
		repo:     &mysql.FollowRepository{DB: db},
		users:    &mysql.UserRepository{DB: db},
		vis:      NewVisibilityService(db),
		notifier: notifier,
	}
}

// Follow 关注目标用户。私密账号只落一条待审批请求，不授予可见性；
// 公开账号直接建边。重复操作返回 ErrDuplicateEdge。
// 返回 pending=true 表示进入了请求态。
func (s *FollowService) Follow(ctx context.Context, viewer *model.User, followeeID uint64) (bool, error) {
	if err := RequireAuthenticated(viewer); err != nil {
		return false, err
	}
	if followeeID == 0 || viewer.ID == followeeID {
		return false, ErrInvalidInput
	}
	followee, err := s.users.FindByID(followeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	if followee.IsPrivate {
		created, err := s.repo.CreateRequest(ctx, viewer.ID, followeeID)
		if err != nil {
			return true, translateDuplicate(err)
		}
		if !created {
			return true, ErrDuplicateEdge
		}
		if s.notifier != nil {
			// 通知失败不影响主流程
			go func(recipient, sender model.User) {
				if err := s.notifier.FollowRequest(&recipient, &sender); err != nil {
					log.WithError(err).Warn("follow request notify failed")
				}
			}(*followee, *viewer)
		}
		return true, nil
	}

	created, err := s.repo.CreateEdge(ctx, viewer.ID, followeeID)
	if err != nil {
		return false, translateDuplicate(err)
	}
	if !created {
		return false, ErrDuplicateEdge
	}
	return false, nil
}

// Unfollow 取关，边不存在时静默成功
func (s *FollowService) Unfollow(ctx context.Context, viewer *model.User, followeeID uint64) (bool, error) {
	if err := RequireAuthenticated(viewer); err != nil {
		return false, err
	}
	if followeeID == 0 || viewer.ID == followeeID {
		return false, ErrInvalidInput
	}
	return s.repo.RemoveEdge(ctx, viewer.ID, followeeID)
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	return s.repo.IsFollowing(ctx, followerID, followeeID)
}

func (s *FollowService) IsFollowedBy(ctx context.Context, userID, otherID uint64) (bool, error) {
	return s.repo.IsFollowedBy(ctx, userID, otherID)
}

func (s *FollowService) HasPendingRequest(ctx context.Context, senderID, recipientID uint64) (bool, error) {
	return s.repo.HasPendingRequest(ctx, senderID, recipientID)
}

// Accept 接受关注请求：删请求、建边一个事务完成
func (s *FollowService) Accept(ctx context.Context, viewer *model.User, senderID uint64) error {
	if err := RequireAuthenticated(viewer); err != nil {
		return err
	}
	err := s.repo.AcceptRequest(ctx, senderID, viewer.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return translateDuplicate(err)
}

// Reject 拒绝关注请求
func (s *FollowService) Reject(ctx context.Context, viewer *model.User, senderID uint64) error {
	if err := RequireAuthenticated(viewer); err != nil {
		return err
	}
	err := s.repo.RejectRequest(ctx, senderID, viewer.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ListIncomingRequests 自己收到的待处理请求
func (s *FollowService) ListIncomingRequests(ctx context.Context, viewer *model.User) ([]model.FollowRequest, error) {
	if err := RequireAuthenticated(viewer); err != nil {
		return nil, err
	}
	return s.repo.ListIncomingRequests(ctx, viewer.ID)
}

// ListFollowers 目标用户的粉丝列表，受可见性策略保护
func (s *FollowService) ListFollowers(ctx context.Context, viewer *model.User, targetID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	target, err := s.loadTarget(ctx, viewer, targetID)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListFollowers(ctx, target.ID, cursor, limit)
}

// ListFollowings 目标用户的关注列表，受可见性策略保护
func (s *FollowService) ListFollowings(ctx context.Context, viewer *model.User, targetID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	target, err := s.loadTarget(ctx, viewer, targetID)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListFollowings(ctx, target.ID, cursor, limit)
}

func (s *FollowService) loadTarget(ctx context.Context, viewer *model.User, targetID uint64) (*model.User, error) {
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
	return target, nil
}
