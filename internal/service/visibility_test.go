package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"warbler/internal/model"
)

func TestCanView(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	vis := NewVisibilityService(db)
	follows := NewFollowService(db, nil)

	public := createUser(t, db, "public", false, false)
	private := createUser(t, db, "private", true, false)
	admin := createUser(t, db, "root", false, true)
	follower := createUser(t, db, "fan", false, false)
	stranger := createUser(t, db, "stranger", false, false)

	// fan 是 private 的已批准关注者
	if _, err := follows.Follow(ctx, follower, private.ID); err != nil {
		t.Fatalf("request: %v", err)
	}
	if err := follows.Accept(ctx, private, follower.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	tests := []struct {
		name   string
		viewer *model.User
		target *model.User
		want   bool
	}{
		{"anonymous sees public", nil, public, true},
		{"anonymous blocked from private", nil, private, false},
		{"self always", private, private, true},
		{"admin always", admin, private, true},
		{"accepted follower", follower, private, true},
		{"stranger blocked from private", stranger, private, false},
		{"stranger sees public", stranger, public, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := vis.CanView(ctx, tt.viewer, tt.target)
			if err != nil {
				t.Fatalf("CanView: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanView = %v, want %v", got, tt.want)
			}
		})
	}
}

// 历史缺陷回归：粉丝/关注/点赞/单条消息四个视图曾把 is_private 当成
// “公开”直接使用，导致私密账号对陌生人反而可见。这里逐个视图锁死正确语义。
func TestPrivateAccountViewsDenyStranger(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	private := createUser(t, db, "private", true, false)
	stranger := createUser(t, db, "stranger", false, false)
	msg := createMessage(t, db, private, "secret", time.Now())

	follows := NewFollowService(db, nil)
	likes := NewLikeService(db)
	messages := NewMessageService(db)

	tests := []struct {
		name string
		call func(viewer *model.User) error
	}{
		{"followers list", func(v *model.User) error {
			_, _, err := follows.ListFollowers(ctx, v, private.ID, 0, 10)
			return err
		}},
		{"followings list", func(v *model.User) error {
			_, _, err := follows.ListFollowings(ctx, v, private.ID, 0, 10)
			return err
		}},
		{"likes list", func(v *model.User) error {
			_, err := likes.ListLiked(ctx, v, private.ID, 10)
			return err
		}},
		{"message view", func(v *model.User) error {
			_, err := messages.Get(ctx, v, msg.ID)
			return err
		}},
		{"message list", func(v *model.User) error {
			_, err := messages.ListByUser(ctx, v, private.ID, 10)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(stranger); !errors.Is(err, ErrUnauthorized) {
				t.Errorf("stranger: got %v, want ErrUnauthorized", err)
			}
			if err := tt.call(nil); !errors.Is(err, ErrUnauthorized) {
				t.Errorf("anonymous: got %v, want ErrUnauthorized", err)
			}
			// 本人总是可见
			if err := tt.call(private); err != nil {
				t.Errorf("self: %v", err)
			}
		})
	}
}

func TestPublicAccountViewsAllowAnyone(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	public := createUser(t, db, "public", false, false)
	msg := createMessage(t, db, public, "hello", time.Now())

	follows := NewFollowService(db, nil)
	messages := NewMessageService(db)

	if _, _, err := follows.ListFollowers(ctx, nil, public.ID, 0, 10); err != nil {
		t.Errorf("anonymous followers list: %v", err)
	}
	if _, err := messages.Get(ctx, nil, msg.ID); err != nil {
		t.Errorf("anonymous message view: %v", err)
	}
}

func TestGuards(t *testing.T) {
	alice := &model.User{ID: 1}
	admin := &model.User{ID: 2, IsAdmin: true}

	if err := RequireAuthenticated(nil); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("RequireAuthenticated(nil): got %v", err)
	}
	if err := RequireAuthenticated(alice); err != nil {
		t.Errorf("RequireAuthenticated(user): %v", err)
	}
	if err := RequireSelfOrAdmin(alice, 1); err != nil {
		t.Errorf("self: %v", err)
	}
	if err := RequireSelfOrAdmin(alice, 2); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("other: got %v", err)
	}
	if err := RequireSelfOrAdmin(admin, 1); err != nil {
		t.Errorf("admin: %v", err)
	}
}
