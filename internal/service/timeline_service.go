package service

import (
	"context"

	"warbler/internal/model"
	"warbler/internal/repository/mysql"

	"gorm.io/gorm"
)

// TimelineLimit 首页时间线最多返回的消息条数
const TimelineLimit = 100

type TimelineService struct {
	messages *mysql.MessageRepository
	follows  *mysql.FollowRepository
}

func NewTimelineService(db *gorm.DB) *TimelineService {
	return &TimelineService{
		messages: &mysql.MessageRepository{DB: db},
		follows:  &mysql.FollowRepository{DB: db},
	}
}

// Home 首页时间线：自己加上已关注用户（pending 请求不算）的最新消息，
// 按时间倒序，最多 100 条。匿名访客得到空列表。
func (s *TimelineService) Home(ctx context.Context, viewer *model.User) ([]model.Message, error) {
	if viewer == nil {
		return nil, nil
	}
	ids, err := s.follows.FolloweeIDs(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	ids = append(ids, viewer.ID)
	return s.messages.Timeline(ctx, ids, TimelineLimit)
}
