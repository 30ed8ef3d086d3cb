package backend

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	local, err := OpenLocal(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("open local: %v", err)
	}
	t.Cleanup(func() { local.Close() })
	return local
}

func TestSelectItemsByKind(t *testing.T) {
	self := testIdentity(1)
	other := testIdentity(2)
	items := []Item{
		{ID: "reply", Author: other, Tags: [][]string{{"e", "mine"}}},
		{ID: "mention", Author: other, Tags: [][]string{{"p", self.Hex()}}},
		{ID: "mine", Author: self},
		{ID: "noise", Author: other},
	}
	tests := []struct {
		name string
		kind FeedKind
		want []ItemID
	}{
		{"followed", FollowedFeed(), []ItemID{"reply", "mention", "mine", "noise"}},
		{"inbox direct", InboxFeed(false), []ItemID{"mention"}},
		{"inbox indirect", InboxFeed(true), []ItemID{"reply", "mention"}},
		{"person", PersonFeed(self), []ItemID{"mine"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectItems(items, tt.kind, self, true)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestInboxWithoutIdentityIsEmpty(t *testing.T) {
	items := []Item{{ID: "x", Author: testIdentity(2), Tags: [][]string{{"p", testIdentity(1).Hex()}}}}
	if got := selectItems(items, InboxFeed(false), PublicIdentity{}, false); len(got) != 0 {
		t.Fatalf("expected empty inbox without identity, got %v", got)
	}
}

func TestLocalSwitchFeedStampsRecompute(t *testing.T) {
	local := newTestLocal(t)
	ctx := context.Background()
	if !local.FeedLastRecomputeTime().IsZero() {
		t.Fatalf("expected zero recompute time before first compute")
	}
	if err := local.Store().Put(ctx, Item{ID: "a", Author: testIdentity(3), CreatedAt: 1}); err != nil {
		t.Fatalf("put: %v", err)
	}
	stamp := time.Unix(100, 0)
	local.feed.now = func() time.Time { return stamp }
	local.SwitchFeed(FollowedFeed())
	if got := local.FeedLastRecomputeTime(); !got.Equal(stamp) {
		t.Fatalf("expected recompute stamp %v, got %v", stamp, got)
	}
	if ids := local.FeedItemIDs(); !reflect.DeepEqual(ids, []ItemID{"a"}) {
		t.Fatalf("unexpected feed ids %v", ids)
	}

	later := time.Unix(200, 0)
	local.feed.now = func() time.Time { return later }
	local.RequestRecompute()
	if got := local.FeedLastRecomputeTime(); !got.Equal(later) {
		t.Fatalf("expected recompute to restamp, got %v", got)
	}
}

func TestLocalReadItemMissing(t *testing.T) {
	local := newTestLocal(t)
	if _, ok := local.ReadItem("missing"); ok {
		t.Fatalf("expected missing item to report false")
	}
}

func TestLocalUnlockCreatesIdentity(t *testing.T) {
	local := newTestLocal(t)
	if _, ok := local.CurrentIdentity(); ok {
		t.Fatalf("expected no identity initially")
	}
	if err := local.UnlockIdentity("pw"); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if !local.IdentityIsUnlocked() || !local.IdentityHasPrivateKey() {
		t.Fatalf("expected unlocked identity")
	}
}

func TestLocalRequestRecomputeIsPaced(t *testing.T) {
	l := newTestLocal(t)
	l.pace = newThrottle(30 * time.Millisecond)

	start := time.Now()
	l.RequestRecompute()
	first := l.FeedLastRecomputeTime()
	if first.IsZero() {
		t.Fatalf("expected recompute to stamp the feed")
	}
	l.RequestRecompute()
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Fatalf("expected second recompute to wait, took %s", elapsed)
	}
	if !l.FeedLastRecomputeTime().After(first) {
		t.Fatalf("expected a newer recompute time")
	}
}
