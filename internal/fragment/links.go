package fragment

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LinkRules describes the wiki URL layout being hidden behind clean paths.
type LinkRules struct {
	// ScriptPath is the wiki script prefix, e.g. "/mediawiki/index.php".
	ScriptPath string
}

var editMarkers = []string{"action", "redlink"}

// RewriteInternalLinks turns script-style wiki links into clean site paths.
// "Create page" links (action=edit / redlink=1) are pointed at the clean
// path of the missing title with the edit markers stripped.
func RewriteInternalLinks(f *Fragment, rules LinkRules) *Fragment {
	if f == nil || f.root == nil || rules.ScriptPath == "" {
		return f
	}
	f.root.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if rewritten, ok := rewriteInternalHref(href, rules.ScriptPath); ok {
			a.SetAttr("href", rewritten)
		}
	})
	return f
}

func rewriteInternalHref(href, scriptPath string) (string, bool) {
	if !strings.Contains(href, scriptPath) && !isNewPageLink(href) {
		return href, false
	}
	u, err := url.Parse(href)
	if err != nil {
		return href, false
	}
	q := u.Query()

	if strings.Contains(u.Path, scriptPath) {
		u.Path = strings.Replace(u.Path, scriptPath, "", 1)
		u.RawPath = ""
		u.Scheme, u.Host, u.User = "", "", nil
	}

	if q.Get("action") == "edit" || q.Get("redlink") == "1" {
		if title := q.Get("title"); title != "" {
			u.Path = strings.TrimSuffix(u.Path, "/") + "/" + title
			q.Del("title")
		}
		for _, marker := range editMarkers {
			q.Del(marker)
		}
	}
	u.RawQuery = q.Encode()

	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), true
}

func isNewPageLink(href string) bool {
	return strings.Contains(href, "action=edit") || strings.Contains(href, "redlink=1")
}

// RewritePagingLinks rewrites category paging links
// (?title=Category:X&pagefrom=Y) into /Category:X?pagefrom=Y.
func RewritePagingLinks(f *Fragment) *Fragment {
	if f == nil || f.root == nil {
		return f
	}
	f.root.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, "pagefrom=") && !strings.Contains(href, "pageuntil=") {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		q := u.Query()
		title := q.Get("title")
		if title == "" {
			return
		}
		u.Path = strings.TrimSuffix(u.Path, "/") + "/" + title
		q.Del("title")
		u.RawQuery = q.Encode()
		a.SetAttr("href", u.String())
	})
	return f
}
