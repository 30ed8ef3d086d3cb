package notedata

import "regexp"

// SegmentType classifies a run of note content.
type SegmentType int

const (
	SegmentPlain SegmentType = iota
	SegmentHyperlink
	SegmentNostrURL
	SegmentTagReference
)

func (t SegmentType) String() string {
	switch t {
	case SegmentHyperlink:
		return "hyperlink"
	case SegmentNostrURL:
		return "nostr-url"
	case SegmentTagReference:
		return "tag"
	default:
		return "plain"
	}
}

// Segment is a contiguous run of content of one type.
type Segment struct {
	Type SegmentType
	Text string
}

// Submatch groups: 1 hyperlink, 2 nostr url, 3 tag reference.
var contentPattern = regexp.MustCompile(
	`(https?://[^\s<>"]+[^\s<>".,;:!?)\]])` +
		`|((?:nostr:)?(?:npub|note|nevent|nprofile|naddr)1[02-9ac-hj-np-z]{6,})` +
		`|(#\[\d+\])`)

// ParseContent splits content into plain, hyperlink, nostr url, and tag
// reference segments. Adjacent plain text is kept as a single segment.
func ParseContent(content string) []Segment {
	if content == "" {
		return nil
	}
	var segments []Segment
	last := 0
	for _, m := range contentPattern.FindAllStringSubmatchIndex(content, -1) {
		if m[0] > last {
			segments = append(segments, Segment{Type: SegmentPlain, Text: content[last:m[0]]})
		}
		kind := SegmentPlain
		switch {
		case m[2] >= 0:
			kind = SegmentHyperlink
		case m[4] >= 0:
			kind = SegmentNostrURL
		case m[6] >= 0:
			kind = SegmentTagReference
		}
		segments = append(segments, Segment{Type: kind, Text: content[m[0]:m[1]]})
		last = m[1]
	}
	if last < len(content) {
		segments = append(segments, Segment{Type: SegmentPlain, Text: content[last:]})
	}
	return segments
}

// PlainText joins segments back into display text.
func PlainText(segments []Segment) string {
	n := 0
	for _, s := range segments {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range segments {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}
