package vestractor

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveHref turns a link found on the page at origin into an absolute url.
//
// Plain directory-relative hrefs ("fuvest/index.aspx") are joined onto the directory of origin
// segment by segment. Hrefs that are already absolute are returned unchanged, anything else
// (rooted paths, dot segments, an origin with a query or fragment) goes through url.ResolveReference.
func ResolveHref(origin, href string) (string, error) {
	if href == "" {
		return "", fmt.Errorf("resolve href: empty href on %s", origin)
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("resolve href %q: %w", href, err)
	}
	if ref.IsAbs() {
		return href, nil
	}

	base, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("resolve origin %q: %w", origin, err)
	}
	if !base.IsAbs() {
		return "", fmt.Errorf("resolve href: origin %q is not absolute", origin)
	}

	if needsReference(base, href) {
		return base.ResolveReference(ref).String(), nil
	}

	originSegments := strings.Split(origin, "/")
	hrefSegments := strings.Split(href, "/")

	joined := append(originSegments[:len(originSegments)-1:len(originSegments)-1], hrefSegments...)
	return strings.Join(joined, "/"), nil
}

func needsReference(base *url.URL, href string) bool {
	if base.RawQuery != "" || base.Fragment != "" || base.Path == "" {
		return true
	}
	if strings.HasPrefix(href, "/") {
		return true
	}
	for _, segment := range strings.Split(href, "/") {
		if segment == "." || segment == ".." {
			return true
		}
	}
	return false
}
