package service

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestHomeTimelineMembers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	follows := NewFollowService(db, nil)
	timeline := NewTimelineService(db)

	alice := createUser(t, db, "alice", false, false)
	bob := createUser(t, db, "bob", false, false)
	carol := createUser(t, db, "carol", false, false)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	createMessage(t, db, alice, "mine", base)
	createMessage(t, db, bob, "hi", base.Add(time.Minute))
	createMessage(t, db, carol, "noise", base.Add(2*time.Minute))

	if _, err := follows.Follow(ctx, alice, bob.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	msgs, err := timeline.Home(ctx, alice)
	if err != nil {
		t.Fatalf("Home: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	// 新的在前
	if msgs[0].Text != "hi" || msgs[1].Text != "mine" {
		t.Errorf("order: got %q, %q", msgs[0].Text, msgs[1].Text)
	}
	for _, m := range msgs {
		if m.UserID == carol.ID {
			t.Errorf("timeline leaked message from unfollowed author %d", m.UserID)
		}
	}
}

func TestHomeTimelineOrderAndLimit(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	timeline := NewTimelineService(db)

	alice := createUser(t, db, "alice", false, false)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < TimelineLimit+10; i++ {
		createMessage(t, db, alice, fmt.Sprintf("m%d", i), base.Add(time.Duration(i)*time.Second))
	}

	msgs, err := timeline.Home(ctx, alice)
	if err != nil {
		t.Fatalf("Home: %v", err)
	}
	if len(msgs) != TimelineLimit {
		t.Fatalf("got %d messages, want %d", len(msgs), TimelineLimit)
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].CreatedAt.After(msgs[i-1].CreatedAt) {
			t.Fatalf("messages not in descending order at index %d", i)
		}
	}
	if msgs[0].Text != fmt.Sprintf("m%d", TimelineLimit+9) {
		t.Errorf("newest message = %q", msgs[0].Text)
	}
}

func TestHomeTimelineAnonymous(t *testing.T) {
	db := newTestDB(t)
	timeline := NewTimelineService(db)

	alice := createUser(t, db, "alice", false, false)
	createMessage(t, db, alice, "hello", time.Now())

	msgs, err := timeline.Home(context.Background(), nil)
	if err != nil {
		t.Fatalf("Home: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("anonymous timeline has %d messages, want 0", len(msgs))
	}
}

// 私密账号的消息只有在关注请求被接受后才进入请求方的时间线
func TestHomeTimelinePrivateAcceptFlow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	follows := NewFollowService(db, nil)
	timeline := NewTimelineService(db)

	alice := createUser(t, db, "alice", false, false)
	carol := createUser(t, db, "carol", true, false)
	createMessage(t, db, carol, "private post", time.Now())

	pending, err := follows.Follow(ctx, alice, carol.ID)
	if err != nil {
		t.Fatalf("follow: %v", err)
	}
	if !pending {
		t.Fatal("follow on private account should be pending")
	}

	msgs, err := timeline.Home(ctx, alice)
	if err != nil {
		t.Fatalf("Home: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("pending request already exposes %d messages", len(msgs))
	}

	if err := follows.Accept(ctx, carol, alice.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	msgs, err = timeline.Home(ctx, alice)
	if err != nil {
		t.Fatalf("Home after accept: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Text != "private post" {
		t.Fatalf("after accept got %v", msgs)
	}
}
