package domain

type MediaKind string

const (
	MediaImage    MediaKind = "image"
	MediaVideo    MediaKind = "video"
	MediaDocument MediaKind = "document"
)

func (k MediaKind) Valid() bool {
	switch k {
	case MediaImage, MediaVideo, MediaDocument:
		return true
	}
	return false
}

// PrimarySource is an archival media record owned by the source metadata
// service. Field names follow the service's wire format.
type PrimarySource struct {
	EncyclopediaID  string    `json:"encyclopedia_id"`
	MediaFormat     MediaKind `json:"media_format"`
	Caption         string    `json:"caption"`
	CaptionExtended string    `json:"caption_extended,omitempty"`
	Courtesy        string    `json:"courtesy"`
	Headword        string    `json:"headword,omitempty"`
	CollectionName  string    `json:"collection_name,omitempty"`
	ThumbnailSm     string    `json:"thumbnail_sm,omitempty"`
	ThumbnailLg     string    `json:"thumbnail_lg,omitempty"`
	Display         string    `json:"display,omitempty"`
	Original        string    `json:"original,omitempty"`
	StreamingURL    string    `json:"streaming_url,omitempty"`
	AspectRatio     string    `json:"aspect_ratio,omitempty"`
	ExternalURL     string    `json:"external_url,omitempty"`
	CreativeCommons bool      `json:"creative_commons,omitempty"`
	Published       bool      `json:"published,omitempty"`
	Modified        Timestamp `json:"modified"`
}
