package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"warbler/internal/model"
)

func TestCreateMessage(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	messages := NewMessageService(db)
	alice := createUser(t, db, "alice", false, false)

	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{"ok", "hello warbler", nil},
		{"trimmed to empty", "   \n\t ", ErrInvalidInput},
		{"empty", "", ErrInvalidInput},
		{"exactly max length", strings.Repeat("x", model.MaxMessageLen), nil},
		{"over max length", strings.Repeat("x", model.MaxMessageLen+1), ErrInvalidInput},
		// 长度按 rune 算，140 个汉字合法
		{"max length multibyte", strings.Repeat("鸟", model.MaxMessageLen), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := messages.Create(ctx, alice, tt.text)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create: got %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && m.UserID != alice.ID {
				t.Errorf("author = %d, want %d", m.UserID, alice.ID)
			}
		})
	}

	if _, err := messages.Create(ctx, nil, "hi"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("anonymous create: got %v", err)
	}
}

func TestCreateMessageTrimsWhitespace(t *testing.T) {
	db := newTestDB(t)
	messages := NewMessageService(db)
	alice := createUser(t, db, "alice", false, false)

	m, err := messages.Create(context.Background(), alice, "  hello  ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.Text != "hello" {
		t.Errorf("text = %q, want %q", m.Text, "hello")
	}
}

func TestDeleteMessage(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	messages := NewMessageService(db)
	likes := NewLikeService(db)

	alice := createUser(t, db, "alice", false, false)
	bob := createUser(t, db, "bob", false, false)
	admin := createUser(t, db, "root", false, true)
	msg := createMessage(t, db, alice, "ephemeral", time.Now())

	if _, err := likes.Toggle(ctx, bob, msg.ID); err != nil {
		t.Fatalf("like: %v", err)
	}

	if err := messages.Delete(ctx, bob, msg.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("stranger delete: got %v", err)
	}
	if err := messages.Delete(ctx, nil, msg.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("anonymous delete: got %v", err)
	}

	if err := messages.Delete(ctx, alice, msg.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if n := countRows(t, db, &model.Message{}, "id = ?", msg.ID); n != 0 {
		t.Errorf("message still present")
	}
	// 点赞随消息一并清除
	if n := countRows(t, db, &model.Like{}, "message_id = ?", msg.ID); n != 0 {
		t.Errorf("orphan likes left: %d", n)
	}

	if err := messages.Delete(ctx, alice, msg.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing: got %v", err)
	}

	// 管理员可删他人消息
	other := createMessage(t, db, alice, "also gone", time.Now())
	if err := messages.Delete(ctx, admin, other.ID); err != nil {
		t.Errorf("admin delete: %v", err)
	}
}
