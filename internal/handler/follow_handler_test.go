package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"warbler/internal/middleware"
	"warbler/internal/model"

	"github.com/gin-gonic/gin"
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
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.User{}, &model.Follow{}, &model.FollowRequest{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, private bool) *model.User {
	t.Helper()
	u := &model.User{
		Username:  username,
		Email:     fmt.Sprintf("%s@example.com", username),
		Password:  "not-a-real-hash",
		IsPrivate: private,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// 关系查询的起点必须钉在当前登录用户上：第三方之间的请求态不可探测
func TestRelationPinsOriginToViewer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)

	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)
	carol := createTestUser(t, db, "carol", true)

	// bob 有一条对 carol 的待处理请求；alice 和 carol 没有任何关系
	if err := db.Create(&model.FollowRequest{SenderID: bob.ID, RecipientID: carol.ID}).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}

	h := NewFollowHandler(db, nil)
	r := gin.New()
	r.GET("/api/follow/relation", func(c *gin.Context) {
		c.Set(middleware.ContextViewerKey, alice)
	}, h.Relation)

	get := func(query string) (int, struct {
		Following bool `json:"following"`
		Pending   bool `json:"pending"`
	}) {
		t.Helper()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/follow/relation?"+query, nil)
		r.ServeHTTP(w, req)
		var resp struct {
			Following bool `json:"following"`
			Pending   bool `json:"pending"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return w.Code, resp
	}

	// from 参数不再被采纳，bob->carol 的请求对 alice 不可见
	code, resp := get(fmt.Sprintf("from=%d&to=%d", bob.ID, carol.ID))
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.Following || resp.Pending {
		t.Errorf("third-party relation leaked: %+v", resp)
	}

	// 自己的请求态正常返回
	if err := db.Create(&model.FollowRequest{SenderID: alice.ID, RecipientID: carol.ID}).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}
	if _, resp := get(fmt.Sprintf("to=%d", carol.ID)); !resp.Pending || resp.Following {
		t.Errorf("own relation = %+v, want pending only", resp)
	}
}
