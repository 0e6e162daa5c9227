package service

import (
	"fmt"
	"testing"
	"time"

	"warbler/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// 内存库必须钉在单连接上，否则每个连接各自一份空库
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Message{},
		&model.Follow{},
		&model.FollowRequest{},
		&model.Like{},
		&model.SocialOutbox{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, private, admin bool) *model.User {
	t.Helper()
	u := &model.User{
		Username:  username,
		Email:     fmt.Sprintf("%s@example.com", username),
		Password:  "not-a-real-hash",
		IsPrivate: private,
		IsAdmin:   admin,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func createMessage(t *testing.T, db *gorm.DB, author *model.User, text string, at time.Time) *model.Message {
	t.Helper()
	m := &model.Message{UserID: author.ID, Text: text, CreatedAt: at}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("create message for %s: %v", author.Username, err)
	}
	return m
}

func countRows(t *testing.T, db *gorm.DB, m any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(m).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}
