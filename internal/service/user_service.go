package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"warbler/internal/model"
	"warbler/internal/pkg"
	"warbler/internal/repository/mysql"
	"warbler/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	repo  *mysql.UserRepository
	rUser *redis.UserRepository
}

// ProfileFields 注册和编辑资料时的可选字段
type ProfileFields struct {
	Bio            string
	Location       string
	ImageURL       string
	HeaderImageURL string
	IsPrivate      bool
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		repo:  &mysql.UserRepository{DB: db},
		rUser: &redis.UserRepository{},
	}
}

// Register 创建账号，密码 bcrypt 加盐哈希。
// 用户名或邮箱已占用时由唯一索引兜底，统一翻译为 ErrDuplicateIdentity。
func (s *UserService) Register(username, email, password string, profile ProfileFields) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidInput
	}
	if utf8.RuneCountInString(username) > 32 {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:       username,
		Password:       string(hash),
		Email:          email,
		Bio:            profile.Bio,
		Location:       profile.Location,
		ImageURL:       profile.ImageURL,
		HeaderImageURL: profile.HeaderImageURL,
		IsPrivate:      profile.IsPrivate,
	}
	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateIdentity
		}
		return nil, err
	}
	return user, nil
}

// Authenticate 按用户名查找并校验密码。
// 用户不存在和密码错误返回同一个 ErrNotAuthenticated，避免用户名枚举
func (s *UserService) Authenticate(username, password string) (*model.User, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrNotAuthenticated
	}
	return user, nil
}

// Login 校验通过后签发令牌对，access token 镜像写入 redis
func (s *UserService) Login(username, password string) (*pkg.TokenPair, *model.User, error) {
	user, err := s.Authenticate(username, password)
	if err != nil {
		return nil, nil, err
	}
	token, err := pkg.GeneratePair(user.ID, user.IsAdmin)
	if err != nil {
		return nil, nil, err
	}
	if err = s.rUser.AddUserToken(user.ID, token.AccessToken); err != nil {
		return nil, nil, err
	}
	return token, user, nil
}

func (s *UserService) Logout(usrID uint64) error {
	return s.rUser.DeleteUserToken(usrID)
}

func (s *UserService) Refresh(refreshToken string) (*pkg.TokenPair, error) {
	return pkg.Refresh(refreshToken)
}

func (s *UserService) GetByID(id uint64) (*model.User, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// List 用户列表，q 为可选的用户名搜索
func (s *UserService) List(q string) ([]model.User, error) {
	return s.repo.Search(q, 0)
}

// UpdateProfile 修改资料，先用密码二次确认操作者身份，再由本人或管理员执行
func (s *UserService) UpdateProfile(viewer *model.User, targetID uint64, password string, username, email string, profile ProfileFields) error {
	if err := RequireSelfOrAdmin(viewer, targetID); err != nil {
		return err
	}
	if _, err := s.Authenticate(viewer.Username, password); err != nil {
		return err
	}

	fields := map[string]any{
		"bio":              profile.Bio,
		"location":         profile.Location,
		"image_url":        profile.ImageURL,
		"header_image_url": profile.HeaderImageURL,
		"is_private":       profile.IsPrivate,
	}
	if username != "" {
		fields["username"] = username
	}
	if email != "" {
		fields["email"] = email
	}
	if err := s.repo.UpdateProfile(targetID, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateIdentity
		}
		return err
	}
	return nil
}

// Delete 删除账号并级联清理全部关联数据，本人或管理员可执行
func (s *UserService) Delete(ctx context.Context, viewer *model.User, targetID uint64) error {
	if err := RequireSelfOrAdmin(viewer, targetID); err != nil {
		return err
	}
	if _, err := s.repo.FindByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.repo.DeleteCascade(ctx, targetID); err != nil {
		return err
	}
	// 本人删号等同登出
	if viewer.ID == targetID && redis.Client != nil {
		_ = s.rUser.DeleteUserToken(targetID)
	}
	return nil
}
