package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"warbler/internal/model"

	"gorm.io/gorm"
)

type FollowRepository struct {
	DB *gorm.DB
}

type OutboxRepository struct {
	DB *gorm.DB
}

type FollowCountReconcilerRepo struct {
	DB *gorm.DB
}

// Pair 对账消息结构体
type Pair struct {
	ID             uint64
	FollowingCount int64
	FollowerCount  int64
}

// IsFollowing 判断 follower -> followee 的边是否存在
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsFollowedBy 对称查询，b -> a 的边是否存在
func (r *FollowRepository) IsFollowedBy(ctx context.Context, userID, otherID uint64) (bool, error) {
	return r.IsFollowing(ctx, otherID, userID)
}

func (r *FollowRepository) HasPendingRequest(ctx context.Context, senderID, recipientID uint64) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&model.FollowRequest{}).
		Where("sender_id = ? AND recipient_id = ?", senderID, recipientID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateEdge 直接建立关注边（公开账号路径）。
// 事务内先查重，唯一索引 uk_follower_followee 兜底并发；已存在返回 created=false。
func (r *FollowRepository) CreateEdge(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	var created bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rel model.Follow
		err := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).First(&rel).Error
		if err == nil {
			created = false
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err = tx.Create(&model.Follow{FollowerID: followerID, FolloweeID: followeeID}).Error; err != nil {
			return err
		}
		created = true
		if err = r.adjustCounts(tx, followerID, followeeID, +1); err != nil {
			return err
		}
		return r.insertOutbox(tx, "follow", followerID, followeeID)
	})
	return created, err
}

// CreateRequest 为私密账号插入关注请求，不授予任何可见性。
// 同方向的关注边和请求互斥：边已存在时不再落请求，返回 created=false。
func (r *FollowRepository) CreateRequest(ctx context.Context, senderID, recipientID uint64) (bool, error) {
	var created bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Follow{}).
			Where("follower_id = ? AND followee_id = ?", senderID, recipientID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			created = false
			return nil
		}
		var req model.FollowRequest
		err := tx.Where("sender_id = ? AND recipient_id = ?", senderID, recipientID).First(&req).Error
		if err == nil {
			created = false
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err = tx.Create(&model.FollowRequest{SenderID: senderID, RecipientID: recipientID}).Error; err != nil {
			return err
		}
		created = true
		return r.insertOutbox(tx, "request", senderID, recipientID)
	})
	return created, err
}

// RemoveEdge 删除关注边，不存在时静默成功（幂等）
func (r *FollowRepository) RemoveEdge(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			Delete(&model.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			changed = false
			return nil
		}
		changed = true
		if err := r.adjustCounts(tx, followerID, followeeID, -1); err != nil {
			return err
		}
		return r.insertOutbox(tx, "unfollow", followerID, followeeID)
	})
	return changed, err
}

// AcceptRequest 删请求、建边、调计数在同一事务内完成，不存在可观察的中间态。
// 请求不存在返回 gorm.ErrRecordNotFound，由业务层翻译。
func (r *FollowRepository) AcceptRequest(ctx context.Context, senderID, recipientID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("sender_id = ? AND recipient_id = ?", senderID, recipientID).
			Delete(&model.FollowRequest{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Create(&model.Follow{FollowerID: senderID, FolloweeID: recipientID}).Error; err != nil {
			return err
		}
		if err := r.adjustCounts(tx, senderID, recipientID, +1); err != nil {
			return err
		}
		return r.insertOutbox(tx, "request_accepted", senderID, recipientID)
	})
}

// RejectRequest 删除请求，不存在返回 gorm.ErrRecordNotFound
func (r *FollowRepository) RejectRequest(ctx context.Context, senderID, recipientID uint64) error {
	res := r.DB.WithContext(ctx).
		Where("sender_id = ? AND recipient_id = ?", senderID, recipientID).
		Delete(&model.FollowRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FolloweeIDs 取某用户正在关注的全部用户 id（时间线用，pending 请求不算）
func (r *FollowRepository) FolloweeIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &ids).Error
	return ids, err
}

// ListFollowings 获取关注列表，id 游标分页
func (r *FollowRepository) ListFollowings(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ?", userID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var rows []model.Follow
	// limit+1 多查一条用于判断是否还有下一页
	if err := q.Order("id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var next uint64
	if len(rows) > limit {
		next = rows[limit-1].ID
		rows = rows[:limit]
	}
	return rows, next, nil
}

// ListFollowers 获取粉丝列表
func (r *FollowRepository) ListFollowers(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("followee_id = ?", userID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var rows []model.Follow
	if err := q.Order("id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var next uint64
	if len(rows) > limit {
		next = rows[limit-1].ID
		rows = rows[:limit]
	}
	return rows, next, nil
}

// ListIncomingRequests 收到的待处理关注请求（通知页数据）
func (r *FollowRepository) ListIncomingRequests(ctx context.Context, recipientID uint64) ([]model.FollowRequest, error) {
	var rows []model.FollowRequest
	err := r.DB.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

// adjustCounts 同步调整双方的冗余计数，CASE WHEN 防负数
func (r *FollowRepository) adjustCounts(tx *gorm.DB, followerID, followeeID uint64, delta int64) error {
	if err := tx.Model(&model.User{}).
		Where("id = ?", followerID).
		UpdateColumn("following_count",
			gorm.Expr("CASE WHEN following_count + ? < 0 THEN 0 ELSE following_count + ? END", delta, delta)).Error; err != nil {
		return err
	}
	return tx.Model(&model.User{}).
		Where("id = ?", followeeID).
		UpdateColumn("follower_count",
			gorm.Expr("CASE WHEN follower_count + ? < 0 THEN 0 ELSE follower_count + ? END", delta, delta)).Error
}

// 插入outbox事件表
func (r *FollowRepository) insertOutbox(tx *gorm.DB, event string, follower, followee uint64) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"follower":   follower,
		"followee":   followee,
	})
	ob := &model.SocialOutbox{
		EventType: event,
		Follower:  follower,
		Followee:  followee,
		Payload:   string(payload),
		Status:    0,
	}
	return tx.Create(ob).Error
}

// List outbox查询
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.SocialOutbox, error) {
	var list []model.SocialOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate outbox记录消息失败重试
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.SocialOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

// SuccessUpdate outbox成功记录消息更新
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.SocialOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}

// ReconcileList 对账用户批量查询，lastID 作为滚动游标
func (r *FollowCountReconcilerRepo) ReconcileList(ctx context.Context, batchSize int, lastID uint64) ([]Pair, uint64, error) {
	var list []Pair
	if err := r.DB.WithContext(ctx).Model(&model.User{}).
		Select("id", "following_count", "follower_count").
		Where("id > ?", lastID).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, lastID, err
	}
	if len(list) == 0 {
		return nil, lastID, nil
	}
	return list, list[len(list)-1].ID, nil
}

// RealFollowers 某用户真实的粉丝数
func (r *FollowCountReconcilerRepo) RealFollowers(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("followee_id = ?", userID).
		Count(&n).Error
	return n, err
}

// RealFollowings 某用户真实的关注数
func (r *FollowCountReconcilerRepo) RealFollowings(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ?", userID).
		Count(&n).Error
	return n, err
}

// ReconcileFollowers 修正粉丝计数
func (r *FollowCountReconcilerRepo) ReconcileFollowers(ctx context.Context, userID uint64, real int64) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("follower_count", real).Error
}

// ReconcileFollowings 修正关注计数
func (r *FollowCountReconcilerRepo) ReconcileFollowings(ctx context.Context, userID uint64, real int64) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("following_count", real).Error
}
