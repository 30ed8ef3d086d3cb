package backend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atomicstack/gossip-tui/internal/logging"
	"github.com/atomicstack/gossip-tui/internal/logging/events"
)

const (
	storeFileName    = "items.db"
	identityFileName = "identity.toml"
	queryTimeout     = 5 * time.Second

	// minRecomputeInterval spaces explicit recompute requests.
	minRecomputeInterval = 500 * time.Millisecond
)

// Local implements Gateway on top of files in a single data directory.
type Local struct {
	store    *Store
	identity *Identity
	feed     *Feed
	pace     *throttle
}

var _ Gateway = (*Local)(nil)

// OpenLocal opens (creating if needed) the backend rooted at dir.
func OpenLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	store, err := OpenStore(filepath.Join(dir, storeFileName))
	if err != nil {
		return nil, err
	}
	identity, err := LoadIdentity(filepath.Join(dir, identityFileName))
	if err != nil {
		store.Close()
		return nil, err
	}
	return &Local{store: store, identity: identity, feed: NewFeed(store, identity), pace: newThrottle(minRecomputeInterval)}, nil
}

// Close releases the item store.
func (l *Local) Close() error {
	return l.store.Close()
}

// Store exposes the item store for imports.
func (l *Local) Store() *Store {
	return l.store
}

func (l *Local) UnlockIdentity(secret string) error {
	err := l.identity.Unlock(secret)
	events.Backend.Unlock(err)
	return err
}

func (l *Local) CurrentIdentity() (PublicIdentity, bool) {
	return l.identity.Public()
}

func (l *Local) IdentityHasPrivateKey() bool {
	return l.identity.HasPrivateKey()
}

func (l *Local) IdentityIsUnlocked() bool {
	return l.identity.IsUnlocked()
}

func (l *Local) FeedLastRecomputeTime() time.Time {
	return l.feed.LastComputed()
}

func (l *Local) FeedItemIDs() []ItemID {
	return l.feed.IDs()
}

func (l *Local) ReadItem(id ItemID) (Item, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	item, err := l.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrItemNotFound) {
			logging.Error(err)
		}
		return Item{}, false
	}
	return item, true
}

func (l *Local) SwitchFeed(kind FeedKind) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	events.Backend.SwitchFeed(kind.String())
	if err := l.feed.Switch(ctx, kind); err != nil {
		logging.Error(fmt.Errorf("switch feed to %s: %w", kind, err))
	}
}

func (l *Local) RequestRecompute() {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	waited, err := l.pace.wait(ctx)
	if err != nil {
		logging.Error(fmt.Errorf("recompute feed: %w", err))
		return
	}
	events.Backend.Recompute(l.feed.Kind().String(), waited)
	if err := l.feed.Recompute(ctx); err != nil {
		logging.Error(fmt.Errorf("recompute feed: %w", err))
	}
}
