package main

import (
	"context"
	"os/signal"
	"syscall"

	"warbler/internal/config"
	"warbler/internal/model"
	"warbler/internal/pkg"
	"warbler/internal/repository/mysql"
	"warbler/internal/repository/redis"
	"warbler/internal/router"
	"warbler/internal/service"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if cfg.JWTAccessSecret != "" {
		pkg.AccessSecret = []byte(cfg.JWTAccessSecret)
	}
	if cfg.JWTRefreshSecret != "" {
		pkg.RefreshSecret = []byte(cfg.JWTRefreshSecret)
	}

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		log.WithError(err).Fatal("connect mysql")
	}

	if err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		log.WithError(err).Fatal("connect redis")
	}
	defer redis.Close()

	// 自动建表（开发阶段 OK）
	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Message{},
		&model.Follow{},
		&model.FollowRequest{},
		&model.Like{},
		&model.SocialOutbox{},
	); err != nil {
		log.WithError(err).Fatal("auto migrate")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// outbox 投递：有 kafka 用 kafka，否则降级为日志
	sender := service.LogSender
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			log.WithError(err).Fatal("init kafka producer")
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	go service.NewOutboxRelayer(mysql.DB, sender).Run(ctx)
	go service.NewFollowCountReconciler(mysql.DB).Run(ctx)

	smtpCfg := pkg.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}

	r := router.InitRouter(mysql.DB, smtpCfg)
	log.WithField("addr", cfg.ListenAddr).Info("server starting")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
