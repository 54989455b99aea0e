package links

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html><body>
<p>A <a href="/wiki/Milkshake" title="Milkshake">milkshake</a> is made from
<a href="/wiki/Milk">milk</a> and <a class="x" href="/wiki/Ice_cream">ice cream</a>.
See also <a href="/wiki/Milk">milk again</a>,
<a href="/wiki/File:Shake.jpg">a picture</a>,
<a href="/wiki/Milkshake#History">history</a>,
<a href="/wiki/Help:Contents">help</a>,
<a href="https://example.com/wiki/Elsewhere">external</a>,
<a href="/w/index.php?title=Barley">edit</a>,
<a name="anchor">no href</a>,
<a href="/wiki/">empty</a>
<a href="/wiki/Caf%C3%A9">cafe</a></p>
</body></html>`

func TestParseLinks(t *testing.T) {
	set, err := ParseLinks(strings.NewReader(samplePage))
	require.NoError(t, err)
	assert.Equal(t, []string{"Caf%C3%A9", "Ice_cream", "Milk", "Milkshake"}, set.Sorted())
}

func TestParseLinksEmpty(t *testing.T) {
	set, err := ParseLinks(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestArticleFromHref(t *testing.T) {
	tests := []struct {
		href string
		id   string
		ok   bool
	}{
		{"/wiki/Go_(programming_language)", "Go_(programming_language)", true},
		{"/wiki/Talk:Go", "", false},
		{"/wiki/Go#Syntax", "", false},
		{"/wiki", "", false},
		{"wiki/Go", "", false},
	}
	for _, tt := range tests {
		id, ok := articleFromHref(tt.href)
		if id != tt.id || ok != tt.ok {
			t.Errorf("articleFromHref(%q) = %q, %v; want %q, %v", tt.href, id, ok, tt.id, tt.ok)
		}
	}
}

func TestSetCountShared(t *testing.T) {
	a := NewSet("x", "y", "z")
	b := NewSet("y", "z", "w", "v")
	assert.Equal(t, 2, a.CountShared(b))
	assert.Equal(t, 2, b.CountShared(a))
	assert.Equal(t, 0, a.CountShared(nil))
	// Neither side is modified.
	assert.Len(t, a, 3)
	assert.Len(t, b, 4)
}
