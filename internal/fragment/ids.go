package fragment

import (
	"net/url"
	"path"
	"strings"
)

// ExtractEncyclopediaID derives a candidate source identifier from a media
// URI. Thumbnail URIs nest the real file one directory down
// (.../thumb/Foo.jpg/120px-Foo.jpg), so the parent directory name is used
// for them; otherwise the URI's own filename. The extension is dropped.
func ExtractEncyclopediaID(uri string) string {
	p := uri
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		p = u.Path
	}
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return ""
	}

	name := path.Base(p)
	if hasSegment(p, "thumb") {
		name = path.Base(path.Dir(p))
	}
	id := strings.TrimSuffix(name, path.Ext(name))
	if id == "." || id == "/" {
		return ""
	}
	return id
}

func hasSegment(p, segment string) bool {
	for _, s := range strings.Split(p, "/") {
		if s == segment {
			return true
		}
	}
	return false
}

// NormalizeID is the single normalization used both when building a source
// lookup table and when looking an identifier up in it. MediaWiki
// upper-cases the first letter of file names while source identifiers are
// lower case, so the comparison is case-insensitive.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
