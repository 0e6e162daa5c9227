package service

import (
	"context"
	"testing"

	"warbler/internal/model"
)

func TestReconcileRepairsCounts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	follows := NewFollowService(db, nil)

	alice := createUser(t, db, "alice", false, false)
	bob := createUser(t, db, "bob", false, false)
	carol := createUser(t, db, "carol", false, false)

	for _, followee := range []uint64{bob.ID, carol.ID} {
		if _, err := follows.Follow(ctx, alice, followee); err != nil {
			t.Fatalf("follow: %v", err)
		}
	}
	if _, err := follows.Follow(ctx, carol, bob.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	// 人为破坏冗余计数，模拟历史数据漂移
	if err := db.Model(&model.User{}).Where("id = ?", alice.ID).
		Update("following_count", 99).Error; err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	if err := db.Model(&model.User{}).Where("id = ?", bob.ID).
		Update("follower_count", 0).Error; err != nil {
		t.Fatalf("corrupt: %v", err)
	}

	r := NewFollowCountReconciler(db)
	r.reconcileOnce(ctx)

	assertCounts := func(id uint64, followers, followings int64) {
		t.Helper()
		var u model.User
		if err := db.First(&u, id).Error; err != nil {
			t.Fatalf("load user %d: %v", id, err)
		}
		if u.FollowerCount != followers || u.FollowingCount != followings {
			t.Errorf("user %d counts = (%d, %d), want (%d, %d)",
				id, u.FollowerCount, u.FollowingCount, followers, followings)
		}
	}
	assertCounts(alice.ID, 0, 2)
	assertCounts(bob.ID, 2, 0)
	assertCounts(carol.ID, 1, 1)
}

func TestReconcileCursorWraps(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	createUser(t, db, "alice", false, false)
	createUser(t, db, "bob", false, false)

	r := NewFollowCountReconciler(db)
	r.batchSize = 1

	r.reconcileOnce(ctx)
	if r.lastID == 0 {
		t.Fatal("cursor did not advance after first batch")
	}
	r.reconcileOnce(ctx)
	r.reconcileOnce(ctx) // 空批次，游标归零
	if r.lastID != 0 {
		t.Errorf("cursor = %d after full sweep, want 0", r.lastID)
	}
}
