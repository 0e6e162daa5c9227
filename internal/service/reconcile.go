package service

import (
	"context"
	"time"

	"warbler/internal/repository/mysql"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// FollowCountReconciler 周期对账：用 follows 表的真实计数修正
// users 表上的冗余 follower_count / following_count。
type FollowCountReconciler struct {
	repo      *mysql.FollowCountReconcilerRepo
	batchSize int
	interval  time.Duration
	lastID    uint64
}

func NewFollowCountReconciler(db *gorm.DB) *FollowCountReconciler {
	return &FollowCountReconciler{
		repo:      &mysql.FollowCountReconcilerRepo{DB: db},
		batchSize: 500,
		interval:  5 * time.Minute,
	}
}

// Run 对账定时任务启动器
func (r *FollowCountReconciler) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.reconcileOnce(ctx)
		}
	}
}

func (r *FollowCountReconciler) reconcileOnce(ctx context.Context) {
	users, next, err := r.repo.ReconcileList(ctx, r.batchSize, r.lastID)
	if err != nil {
		log.WithError(err).Error("reconcile list failed")
		return
	}
	if len(users) == 0 {
		// 扫完一轮，游标归零
		r.lastID = 0
		return
	}
	r.lastID = next

	for _, u := range users {
		realFollowers, err := r.repo.RealFollowers(ctx, u.ID)
		if err != nil {
			continue
		}
		realFollowings, err := r.repo.RealFollowings(ctx, u.ID)
		if err != nil {
			continue
		}
		if realFollowers != u.FollowerCount {
			if err := r.repo.ReconcileFollowers(ctx, u.ID, realFollowers); err != nil {
				log.WithError(err).WithField("user_id", u.ID).Error("reconcile followers failed")
			}
		}
		if realFollowings != u.FollowingCount {
			if err := r.repo.ReconcileFollowings(ctx, u.ID, realFollowings); err != nil {
				log.WithError(err).WithField("user_id", u.ID).Error("reconcile followings failed")
			}
		}
	}
}
