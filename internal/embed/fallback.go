package embed

import (
	"strings"

	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
)

// Accessor reads one candidate URI from a record.
type Accessor func(domain.PrimarySource) string

var (
	ThumbnailSm Accessor = func(s domain.PrimarySource) string { return s.ThumbnailSm }
	ThumbnailLg Accessor = func(s domain.PrimarySource) string { return s.ThumbnailLg }
	Display     Accessor = func(s domain.PrimarySource) string { return s.Display }
	Original    Accessor = func(s domain.PrimarySource) string { return s.Original }
)

// Fallback returns the first non-blank value produced by accessors, in
// order, or def when all are blank.
func Fallback(src domain.PrimarySource, def string, accessors ...Accessor) string {
	for _, get := range accessors {
		if v := strings.TrimSpace(get(src)); v != "" {
			return v
		}
	}
	return def
}

// SplitStreamingURL separates the streaming-server prefix from a streaming
// URL. streamer+path always equals raw; streamer is empty when raw is not an
// RTMP URL or does not contain prefix.
func SplitStreamingURL(raw, prefix string) (streamer, path string) {
	if prefix == "" || !strings.Contains(raw, "rtmp") {
		return "", raw
	}
	idx := strings.Index(raw, prefix)
	if idx < 0 {
		return "", raw
	}
	cut := idx + len(prefix)
	return raw[:cut], raw[cut:]
}
