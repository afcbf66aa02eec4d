// Package links turns photo share links into directly loadable image URLs.
package links

import (
	"net/url"
	"regexp"
	"strings"
)

var driveFilePath = regexp.MustCompile(`^/file/d/([A-Za-z0-9_-]+)`)

// DirectURL rewrites Google Drive and Dropbox share links to direct-download
// form. Other absolute http(s) URLs pass through unchanged. The second return
// is false when raw is not a usable URL.
func DirectURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case host == "drive.google.com" || host == "docs.google.com":
		if id := driveID(u); id != "" {
			return "https://drive.google.com/uc?export=view&id=" + id, true
		}
	case host == "dropbox.com" || host == "www.dropbox.com":
		q := u.Query()
		q.Del("dl")
		q.Set("raw", "1")
		u.Scheme = "https"
		u.RawQuery = q.Encode()
		return u.String(), true
	}
	return u.String(), true
}

func driveID(u *url.URL) string {
	if m := driveFilePath.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	return u.Query().Get("id")
}

// Photos returns the usable URLs from cells, in order, skipping the rest.
func Photos(cells ...string) []string {
	var out []string
	for _, c := range cells {
		if u, ok := DirectURL(c); ok {
			out = append(out, u)
		}
	}
	return out
}
