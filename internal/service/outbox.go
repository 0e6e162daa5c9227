package service

import (
	"context"
	"time"

	"warbler/internal/model"
	"warbler/internal/pkg"
	"warbler/internal/repository/mysql"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Sender func(ctx context.Context, ob *model.SocialOutbox) error

// OutboxRelayer 周期性地把 social_outbox 里的待发事件批量投递出去，
// 失败记 retry，成功标记 sent。投递目标由 sender 决定（kafka 或日志）。
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(db *gorm.DB, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run outbox启动器，ctx 取消后退出
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		log.WithError(err).Error("outbox query failed")
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			if err = r.repo.RetryUpdate(ctx, ob.ID); err != nil {
				log.WithError(err).Error("outbox retry update failed")
			}
			continue
		}
		if err = r.repo.SuccessUpdate(ctx, ob.ID); err != nil {
			log.WithError(err).Error("outbox success update failed")
		}
	}
}

// KafkaSender 把 outbox 事件发到 kafka，key 取 follower 保证同一用户的事件有序
func KafkaSender(producer *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.SocialOutbox) error {
		return producer.Send(ctx, pkg.MakeKeyFromID(ob.Follower), []byte(ob.Payload))
	}
}

// LogSender 未配置 kafka 时的降级 sender
func LogSender(ctx context.Context, ob *model.SocialOutbox) error {
	log.WithFields(log.Fields{
		"type":     ob.EventType,
		"follower": ob.Follower,
		"followee": ob.Followee,
	}).Info("outbox send")
	return nil
}
