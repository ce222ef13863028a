package dto

import "github.com/DjordjeVuckovic/encyc-front/internal/domain"

type Source struct {
	domain.PrimarySource
	URL         string `json:"url"`
	AbsoluteURL string `json:"absolute_url"`
	// RTMPStreamer and StreamingPath split StreamingURL for players that
	// take the server and the stream separately.
	RTMPStreamer  string `json:"rtmp_streamer,omitempty"`
	StreamingPath string `json:"streaming_path,omitempty"`
}
