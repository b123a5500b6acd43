package portal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	assert.Equal(t, "&lt;script&gt;&amp;&quot;", Escape(`<script>&"`))
	assert.Equal(t, "plain 'text'", Escape("plain 'text'"))
	assert.Equal(t, "", Escape(""))
}

func TestEscapeLeavesNoRawSpecials(t *testing.T) {
	out := Escape(`<script>alert("x&y")</script>`)
	assert.False(t, strings.ContainsAny(out, `<>"`))
	assert.Equal(t, strings.Count(out, "&"), strings.Count(out, "&amp;")+strings.Count(out, "&lt;")+strings.Count(out, "&gt;")+strings.Count(out, "&quot;"))
}

func TestEscapeTwiceOnlyReescapesAmpersands(t *testing.T) {
	once := Escape(`<script>&"`)
	twice := Escape(once)
	assert.Equal(t, strings.ReplaceAll(once, "&", "&amp;"), twice)
	assert.Equal(t, "&amp;lt;script&amp;gt;&amp;amp;&amp;quot;", twice)
}

func TestRender(t *testing.T) {
	tpl := "<h1>%A%</h1><p>%A% and %B%</p>%C%"
	out := Render(tpl, map[string]string{"%A%": "x", "%B%": "y.*", "": "ignored"})
	assert.Equal(t, "<h1>x</h1><p>x and y.*</p>%C%", out)

	// keys are literal, not patterns
	assert.Equal(t, "a!b", Render("a.b", map[string]string{".": "!"}))
	assert.Equal(t, "axb", Render("axb", map[string]string{"a.b": "!"}))
}

func TestSpliceBeforeBody(t *testing.T) {
	assert.Equal(t, "<html><body>hi[F]</body></html>", spliceBeforeBody("<html><body>hi</body></html>", "[F]"))
	assert.Equal(t, "<p>no body</p>[F]", spliceBeforeBody("<p>no body</p>", "[F]"))
	assert.Equal(t, "</body>x[F]</body>", spliceBeforeBody("</body>x</body>", "[F]"))
}
