package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"warbler/internal/model"
	"warbler/internal/repository/mysql"

	"gorm.io/gorm"
)

type MessageService struct {
	repo  *mysql.MessageRepository
	users *mysql.UserRepository
	vis   *VisibilityService
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{
		repo:  &mysql.MessageRepository{DB: db},
		users: &mysql.UserRepository{DB: db},
		vis:   NewVisibilityService(db),
	}
}

// Create 发布消息，文本 1~140 字符，创建后不可修改
func (s *MessageService) Create(ctx context.Context, viewer *model.User, text string) (*model.Message, error) {
	if err := RequireAuthenticated(viewer); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > model.MaxMessageLen {
		return nil, ErrInvalidInput
	}
	msg := &model.Message{UserID: viewer.ID, Text: text}
	if err := s.repo.Create(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Get 查看单条消息，可见性按作者判定
func (s *MessageService) Get(ctx context.Context, viewer *model.User, id uint64) (*model.Message, error) {
	msg, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	author, err := s.users.FindByID(msg.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.vis.RequireView(ctx, viewer, author); err != nil {
		return nil, err
	}
	return msg, nil
}

// Delete 作者或管理员删除消息，连带清理其上的点赞
func (s *MessageService) Delete(ctx context.Context, viewer *model.User, messageID uint64) error {
	if err := RequireAuthenticated(viewer); err != nil {
		return err
	}
	msg, err := s.repo.FindByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := RequireSelfOrAdmin(viewer, msg.UserID); err != nil {
		return err
	}
	return s.repo.DeleteWithLikes(ctx, messageID)
}

// ListByUser 目标用户的消息流，受可见性策略保护
func (s *MessageService) ListByUser(ctx context.Context, viewer *model.User, targetID uint64, limit int) ([]model.Message, error) {
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
	return s.repo.ListByAuthor(ctx, targetID, limit)
}
