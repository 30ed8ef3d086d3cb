// Package notedata maps backend items into the display records rendered in
// the feed. Every function here is stateless; malformed input renders as
// Invalid rather than failing.
package notedata

import (
	"encoding/hex"
	"time"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/dustin/go-humanize"

	"github.com/atomicstack/gossip-tui/internal/backend"
)

// Invalid is rendered in place of values that cannot be formatted.
const Invalid = "invalid"

// earliest and latest bound the timestamps we are willing to format.
var (
	earliest = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	latest   = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC).Unix()
)

type RepostType int

const (
	RepostNone RepostType = iota
	RepostKind6
	RepostMention
)

type EncryptionType int

const (
	EncryptionNone EncryptionType = iota
	EncryptionNip04
	EncryptionNip44
)

// Note is one rendered feed entry.
type Note struct {
	ID         string
	Author     string
	CreatedAt  string
	CreatedAgo string
	Kind       int
	Content    []Segment
	RawContent string
	Tags       [][]string
	Repost     RepostType
	Encryption EncryptionType
	Bookmarked bool
}

// FromItem builds the display note for item. now anchors the relative age.
func FromItem(item backend.Item, now time.Time) Note {
	return Note{
		ID:         FormatItemID(item.ID),
		Author:     item.Author.Bech32(),
		CreatedAt:  FormatCreatedAt(item.CreatedAt),
		CreatedAgo: FormatCreatedAgo(item.CreatedAt, now),
		Kind:       item.Kind,
		Content:    ParseContent(item.Content),
		RawContent: item.Content,
		Tags:       cloneTags(item.Tags),
	}
}

// FormatItemID renders 32 byte hex ids as bech32 "note" ids and returns any
// other id unchanged.
func FormatItemID(id backend.ItemID) string {
	raw, err := hex.DecodeString(string(id))
	if err != nil || len(raw) != 32 {
		return string(id)
	}
	conv, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return string(id)
	}
	out, err := bech32.Encode("note", conv)
	if err != nil {
		return string(id)
	}
	return out
}

// FormatCreatedAt renders a unix timestamp in RFC 1123 form (UTC).
func FormatCreatedAt(unix int64) string {
	if unix < earliest || unix > latest {
		return Invalid
	}
	return time.Unix(unix, 0).UTC().Format(time.RFC1123Z)
}

// FormatCreatedAgo renders the distance between unix and now, e.g. "3 minutes ago".
func FormatCreatedAgo(unix int64, now time.Time) string {
	if unix < earliest || unix > latest {
		return Invalid
	}
	return humanize.RelTime(time.Unix(unix, 0), now, "ago", "from now")
}

func cloneTags(tags [][]string) [][]string {
	if len(tags) == 0 {
		return nil
	}
	out := make([][]string, len(tags))
	for i, tag := range tags {
		out[i] = append([]string(nil), tag...)
	}
	return out
}
