package notedata

import (
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/gossip-tui/internal/backend"
)

func TestFormatCreatedAt(t *testing.T) {
	tests := []struct {
		name string
		unix int64
		want string
	}{
		{"epoch", 0, "Thu, 01 Jan 1970 00:00:00 +0000"},
		{"regular", 1700000000, "Tue, 14 Nov 2023 22:13:20 +0000"},
		{"negative", -5, Invalid},
		{"far future", 1 << 60, Invalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCreatedAt(tt.unix); got != tt.want {
				t.Fatalf("FormatCreatedAt(%d) = %q, want %q", tt.unix, got, tt.want)
			}
		})
	}
}

func TestFormatCreatedAgo(t *testing.T) {
	now := time.Unix(1700000000, 0)
	if got := FormatCreatedAgo(now.Add(-3*time.Minute).Unix(), now); got != "3 minutes ago" {
		t.Fatalf("unexpected relative age %q", got)
	}
	if got := FormatCreatedAgo(-1, now); got != Invalid {
		t.Fatalf("expected invalid sentinel, got %q", got)
	}
}

func TestParseContentSegments(t *testing.T) {
	content := "see https://example.com/a?b=1, ping nostr:npub1qqqqqqqqqqqq and #[0] ok"
	segments := ParseContent(content)
	var kinds []string
	for _, s := range segments {
		kinds = append(kinds, s.Type.String())
	}
	want := "plain,hyperlink,plain,nostr-url,plain,tag,plain"
	if got := strings.Join(kinds, ","); got != want {
		t.Fatalf("expected %s, got %s (%#v)", want, got, segments)
	}
	if segments[1].Text != "https://example.com/a?b=1" {
		t.Fatalf("expected trailing punctuation excluded from link, got %q", segments[1].Text)
	}
	if PlainText(segments) != content {
		t.Fatalf("expected segments to reassemble the original content")
	}
}

func TestParseContentEmptyAndPlain(t *testing.T) {
	if got := ParseContent(""); got != nil {
		t.Fatalf("expected nil segments for empty content, got %#v", got)
	}
	got := ParseContent("just words")
	if len(got) != 1 || got[0].Type != SegmentPlain {
		t.Fatalf("expected one plain segment, got %#v", got)
	}
}

func TestFromItem(t *testing.T) {
	var author backend.PublicIdentity
	author[0] = 1
	item := backend.Item{
		ID:        backend.ItemID(strings.Repeat("0f", 32)),
		Author:    author,
		CreatedAt: 1700000000,
		Kind:      1,
		Content:   "hi",
		Tags:      [][]string{{"t", "go"}},
	}
	note := FromItem(item, time.Unix(1700000060, 0))
	if !strings.HasPrefix(note.ID, "note1") {
		t.Fatalf("expected bech32 note id, got %q", note.ID)
	}
	if !strings.HasPrefix(note.Author, "npub1") {
		t.Fatalf("expected npub author, got %q", note.Author)
	}
	if note.CreatedAgo != "1 minute ago" {
		t.Fatalf("unexpected age %q", note.CreatedAgo)
	}
	if note.RawContent != "hi" || note.Kind != 1 || len(note.Content) != 1 {
		t.Fatalf("unexpected note %#v", note)
	}
	item.Tags[0][1] = "mutated"
	if note.Tags[0][1] != "go" {
		t.Fatalf("expected tags to be copied")
	}
	if got := FormatItemID("short"); got != "short" {
		t.Fatalf("expected non-hex id unchanged, got %q", got)
	}
}
