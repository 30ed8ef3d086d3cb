// Package backend defines the contract the UI bridge consumes from the
// application backend, together with Local, a self-contained implementation
// backed by a sqlite item store and a password-sealed identity keyfile.
package backend

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

var (
	// ErrBadPassword is returned when a password fails to open the sealed key.
	ErrBadPassword = errors.New("incorrect password")
	// ErrEmptyPassword is returned when unlocking with an empty password.
	ErrEmptyPassword = errors.New("password is empty")
	// ErrItemNotFound is returned when an item id is absent from storage.
	ErrItemNotFound = errors.New("item not found")
)

// Gateway is everything the bridge needs from the backend: identity and feed
// queries plus the unlock, switch, and recompute commands.
type Gateway interface {
	UnlockIdentity(secret string) error
	CurrentIdentity() (PublicIdentity, bool)
	IdentityHasPrivateKey() bool
	IdentityIsUnlocked() bool
	FeedLastRecomputeTime() time.Time
	FeedItemIDs() []ItemID
	ReadItem(id ItemID) (Item, bool)
	SwitchFeed(kind FeedKind)
	RequestRecompute()
}

// PublicIdentity is a 32 byte public key.
type PublicIdentity [32]byte

// ParsePublicIdentity decodes a hex encoded public key.
func ParsePublicIdentity(s string) (PublicIdentity, error) {
	var pk PublicIdentity
	raw, err := hex.DecodeString(s)
	if err != nil {
		return pk, fmt.Errorf("decode public key: %w", err)
	}
	if len(raw) != len(pk) {
		return pk, fmt.Errorf("public key must be %d bytes, got %d", len(pk), len(raw))
	}
	copy(pk[:], raw)
	return pk, nil
}

// Hex returns the lowercase hex encoding.
func (p PublicIdentity) Hex() string {
	return hex.EncodeToString(p[:])
}

// Bech32 returns the npub encoding, or an empty string if encoding fails.
func (p PublicIdentity) Bech32() string {
	conv, err := bech32.ConvertBits(p[:], 8, 5, true)
	if err != nil {
		return ""
	}
	out, err := bech32.Encode("npub", conv)
	if err != nil {
		return ""
	}
	return out
}

// ItemID identifies an item in storage.
type ItemID string

// Item is a backend-owned content record (a feed post).
type Item struct {
	ID        ItemID
	Author    PublicIdentity
	CreatedAt int64 // unix seconds
	Kind      int
	Content   string
	Tags      [][]string
}

// FeedKindType selects which items a feed contains.
type FeedKindType int

const (
	FeedFollowed FeedKindType = iota
	FeedInbox
	FeedPerson
)

// FeedKind is the feed subscription selected on the backend.
type FeedKind struct {
	Type     FeedKindType
	Indirect bool           // inbox only: include replies to our own items
	Person   PublicIdentity // person only
}

func FollowedFeed() FeedKind { return FeedKind{Type: FeedFollowed} }

func InboxFeed(indirect bool) FeedKind { return FeedKind{Type: FeedInbox, Indirect: indirect} }

func PersonFeed(pk PublicIdentity) FeedKind { return FeedKind{Type: FeedPerson, Person: pk} }

func (k FeedKind) String() string {
	switch k.Type {
	case FeedFollowed:
		return "followed"
	case FeedInbox:
		if k.Indirect {
			return "inbox(indirect)"
		}
		return "inbox"
	case FeedPerson:
		return "person(" + k.Person.Hex() + ")"
	default:
		return "unknown"
	}
}
