package embed

import "github.com/DjordjeVuckovic/encyc-front/internal/domain"

// CommonEmbed carries the fields every embed template needs.
type CommonEmbed struct {
	EncyclopediaID string
	MediaFormat    domain.MediaKind
	Href           string
	Caption        string
	Courtesy       string
	// Multiple is set when the page holds more than one primary source; the
	// templates then show a thumbnail instead of the full display image.
	Multiple       bool
	MediaURL       string
	SourceMediaURL string
}

type ImageEmbed struct {
	CommonEmbed
	ThumbSm string
	ThumbLg string
}

type DocumentEmbed struct {
	CommonEmbed
	ThumbSm string
	ThumbLg string
}

type VideoEmbed struct {
	CommonEmbed
	ThumbSm string
	ThumbLg string
	// Streamer and StreamingPath concatenate back to the record's streaming URL.
	Streamer      string
	StreamingPath string
	Width         int
	Height        int
}

// Context is the per-occurrence field set handed to the template renderer.
type Context interface {
	Kind() domain.MediaKind
	Common() CommonEmbed
}

func (e ImageEmbed) Kind() domain.MediaKind    { return domain.MediaImage }
func (e DocumentEmbed) Kind() domain.MediaKind { return domain.MediaDocument }
func (e VideoEmbed) Kind() domain.MediaKind    { return domain.MediaVideo }

func (e ImageEmbed) Common() CommonEmbed    { return e.CommonEmbed }
func (e DocumentEmbed) Common() CommonEmbed { return e.CommonEmbed }
func (e VideoEmbed) Common() CommonEmbed    { return e.CommonEmbed }
