package links

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// articlePrefix marks an in-wiki article link.
const articlePrefix = "/wiki/"

// ParseLinks extracts the article identifiers linked from an HTML page.
// Only anchors of the form <a href="/wiki/X"> count, and X is dropped when
// it contains ':' (namespaced pages such as File: or Help:) or '#'
// (in-page fragments).
func ParseLinks(r io.Reader) (Set, error) {
	set := make(Set)
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			return set, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if len(name) != 1 || name[0] != 'a' || !hasAttr {
				continue
			}
			if id, ok := articleID(z); ok {
				set[id] = struct{}{}
			}
		}
	}
}

// articleID scans the current tag's attributes for an article href.
func articleID(z *html.Tokenizer) (string, bool) {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "href" {
			return articleFromHref(string(val))
		}
		if !more {
			return "", false
		}
	}
}

func articleFromHref(href string) (string, bool) {
	id, ok := strings.CutPrefix(href, articlePrefix)
	if !ok || id == "" {
		return "", false
	}
	if strings.ContainsAny(id, ":#") {
		return "", false
	}
	return id, true
}
