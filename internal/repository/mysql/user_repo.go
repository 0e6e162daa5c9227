package mysql

import (
	"context"

	"warbler/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

// Search 按用户名模糊查找，q 为空则列出全部
func (r *UserRepository) Search(q string, limit int) ([]model.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var list []model.User
	tx := r.DB.Order("id ASC").Limit(limit)
	if q != "" {
		tx = tx.Where("username LIKE ?", "%"+q+"%")
	}
	err := tx.Find(&list).Error
	return list, err
}

// UpdateProfile 只更新资料字段，计数和密码走各自的路径
func (r *UserRepository) UpdateProfile(id uint64, fields map[string]any) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *UserRepository) UpdatePassword(user *model.User, newPassword string) error {
	return r.DB.Model(user).Update("password", newPassword).Error
}

// DeleteCascade 在单个事务里删除用户及其全部关联数据：
// 消息、消息上收到的点赞、用户发出的点赞、双向关注边、双向关注请求。
// 部分级联是正确性问题，任何一步失败都整体回滚。
func (r *UserRepository) DeleteCascade(ctx context.Context, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 先删别人对该用户消息的点赞，再删消息本身
		sub := tx.Model(&model.Message{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("message_id IN (?)", sub).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followee_id = ?", userID, userID).
			Delete(&model.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sender_id = ? OR recipient_id = ?", userID, userID).
			Delete(&model.FollowRequest{}).Error; err != nil {
			return err
		}
		// 对端用户的冗余计数会短暂失真，由对账任务修正
		return tx.Delete(&model.User{}, userID).Error
	})
}
