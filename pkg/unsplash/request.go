package unsplash

import (
	"fmt"
	"strings"
)

// Size is a target canvas in pixels. Fractional sizes are allowed and are
// truncated when the request URL is built.
type Size struct {
	Width, Height float64
}

// NewSize builds a Size from integer pixels.
func NewSize(w, h int) Size {
	return Size{Width: float64(w), Height: float64(h)}
}

// Dimensions returns the size truncated to integers.
func (s Size) Dimensions() (int, int) {
	return int(s.Width), int(s.Height)
}

func (s Size) String() string {
	w, h := s.Dimensions()
	return fmt.Sprintf("%dx%d", w, h)
}

// FetchRequest describes one image download.
type FetchRequest struct {
	Size         Size
	CollectionID string
	SearchQuery  string
}

// URL returns the request URL against BaseURL.
//
//	collection "nature", 1920x1080, no query -> https://source.unsplash.com/collection/nature/1920x1080/
//	no collection, 800x600, query "cats"     -> https://source.unsplash.com/random/800x600/?cats
func (r FetchRequest) URL() string {
	return r.urlWithBase(BaseURL)
}

func (r FetchRequest) urlWithBase(base string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(base, "/"))

	if r.CollectionID != "" {
		b.WriteString(collectionSegment)
		b.WriteString(escape(r.CollectionID, pathAllowed))
	} else {
		b.WriteString(randomSegment)
	}

	w, h := r.Size.Dimensions()
	fmt.Fprintf(&b, "/%dx%d/", w, h)

	// The search text is the whole query string, not a key=value pair.
	if r.SearchQuery != "" {
		b.WriteByte('?')
		b.WriteString(escape(r.SearchQuery, queryAllowed))
	}
	return b.String()
}

// escape percent-encodes every byte of s that is not an ASCII letter or digit
// and not listed in allowed.
func escape(s, allowed string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAlnum(c) || strings.IndexByte(allowed, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
