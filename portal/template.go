package portal

import (
	"sort"
	"strings"
)

const (
	PlaceholderSiteName       = "%SITE_NAME%"
	PlaceholderMessageSection = "%MESSAGE_SECTION%"

	closingBody = "</body>"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Escape entity-escapes & < > and " in one pass. Escaping twice escapes the ampersands
// produced by the first pass again.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Render replaces every literal occurrence of each binding key. Keys are applied in
// sorted order so overlapping bindings render the same way every time.
func Render(tpl string, bindings map[string]string) string {
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		tpl = strings.ReplaceAll(tpl, k, bindings[k])
	}
	return tpl
}

// spliceBeforeBody inserts fragment right before the last closing body tag, or at the end
// when the document has none.
func spliceBeforeBody(doc, fragment string) string {
	idx := strings.LastIndex(doc, closingBody)
	if idx < 0 {
		return doc + fragment
	}
	return doc[:idx] + fragment + doc[idx:]
}
