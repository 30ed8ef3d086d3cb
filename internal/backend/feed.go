package backend

import (
	"context"
	"sync"
	"time"
)

// Feed computes the ordered list of item ids for the selected FeedKind.
type Feed struct {
	store    *Store
	identity *Identity
	now      func() time.Time

	mu         sync.Mutex
	kind       FeedKind
	ids        []ItemID
	computedAt time.Time
}

// NewFeed returns a feed that has never been computed.
func NewFeed(store *Store, identity *Identity) *Feed {
	return &Feed{store: store, identity: identity, now: time.Now, kind: FollowedFeed()}
}

// Kind returns the active feed kind.
func (f *Feed) Kind() FeedKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.kind
}

// Switch selects kind and recomputes immediately.
func (f *Feed) Switch(ctx context.Context, kind FeedKind) error {
	f.mu.Lock()
	f.kind = kind
	f.mu.Unlock()
	return f.Recompute(ctx)
}

// Recompute rebuilds the id list and stamps the compute time. On failure the
// previous list and timestamp are kept.
func (f *Feed) Recompute(ctx context.Context) error {
	f.mu.Lock()
	kind := f.kind
	f.mu.Unlock()

	items, err := f.store.All(ctx)
	if err != nil {
		return err
	}
	self, hasSelf := f.identity.Public()
	ids := selectItems(items, kind, self, hasSelf)

	f.mu.Lock()
	defer f.mu.Unlock()
	// A switch that raced with this computation wins; its own recompute follows.
	if f.kind != kind {
		return nil
	}
	f.ids = ids
	f.computedAt = f.now()
	return nil
}

// LastComputed returns when the feed was last computed; zero if never.
func (f *Feed) LastComputed() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.computedAt
}

// IDs returns a copy of the current id list.
func (f *Feed) IDs() []ItemID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.ids) == 0 {
		return nil
	}
	dup := make([]ItemID, len(f.ids))
	copy(dup, f.ids)
	return dup
}

// selectItems filters items (already newest first) for kind.
func selectItems(items []Item, kind FeedKind, self PublicIdentity, hasSelf bool) []ItemID {
	var own map[ItemID]struct{}
	if kind.Type == FeedInbox && kind.Indirect && hasSelf {
		own = make(map[ItemID]struct{})
		for _, item := range items {
			if item.Author == self {
				own[item.ID] = struct{}{}
			}
		}
	}
	ids := make([]ItemID, 0, len(items))
	for _, item := range items {
		switch kind.Type {
		case FeedFollowed:
			ids = append(ids, item.ID)
		case FeedPerson:
			if item.Author == kind.Person {
				ids = append(ids, item.ID)
			}
		case FeedInbox:
			if !hasSelf || item.Author == self {
				continue
			}
			if hasTag(item, "p", self.Hex()) {
				ids = append(ids, item.ID)
				continue
			}
			for id := range own {
				if hasTag(item, "e", string(id)) {
					ids = append(ids, item.ID)
					break
				}
			}
		}
	}
	return ids
}

func hasTag(item Item, name, value string) bool {
	for _, tag := range item.Tags {
		if len(tag) >= 2 && tag[0] == name && tag[1] == value {
			return true
		}
	}
	return false
}
