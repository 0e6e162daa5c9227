package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	MySQLDSN string `env:"MYSQL_DSN" envDefault:"user:password@tcp(127.0.0.1:3306)/warbler?charset=utf8mb4&parseTime=True"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTAccessSecret  string `env:"JWT_ACCESS_SECRET"`
	JWTRefreshSecret string `env:"JWT_REFRESH_SECRET"`

	// Kafka 不配置 broker 时 outbox 事件降级为日志输出
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"warbler.social"`

	// SMTP 不配置 host 时关闭关注请求通知邮件
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"NoReply <no-reply@example.com>"`
}

// Load 从环境变量读取配置
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
