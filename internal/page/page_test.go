package page

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func sampleDocument() Document {
	return Document{
		RepoName:        "Handbook",
		RepoDescription: "Team <docs>",
		CommitHash:      "abc1234",
		RepoURL:         "https://example.com/team/handbook",
		GeneratedAt:     time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		Navigation:      `<ul><li><a href="#intro">Intro</a></li></ul>`,
		Body:            `<h1 id="intro">Intro</h1><p>Hello</p>`,
	}
}

func TestRender_ContainsHeaderAndFragments(t *testing.T) {
	for _, minified := range []bool{false, true} {
		out, err := NewRenderer(minified).Render(sampleDocument())
		require.NoError(t, err)

		assert.Contains(t, out, "<title>Handbook</title>")
		assert.Contains(t, textContent(t, out), "Team <docs>")
		assert.NotContains(t, out, "Team <docs>")
		assert.Contains(t, out, `href="https://example.com/team/handbook/commit/abc1234"`)
		assert.Contains(t, out, "commit abc1234")
		assert.Contains(t, out, "2026-03-04 05:06:07")
		assert.Contains(t, out, `<ul><li><a href="#intro">Intro</a></li></ul>`)
		assert.Contains(t, out, `<h1 id="intro">Intro</h1><p>Hello</p>`)
		assert.Contains(t, out, "dark-mode")
		assert.Contains(t, out, "print-btn")
		assert.NotContains(t, out, "mathjax")
	}
}

// textContent returns the concatenated text nodes of an HTML document.
func textContent(t *testing.T, out string) string {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String()
}

func TestRender_MinifiedIsSmaller(t *testing.T) {
	plain, err := NewRenderer(false).Render(sampleDocument())
	require.NoError(t, err)
	minified, err := Render(sampleDocument())
	require.NoError(t, err)
	assert.Less(t, len(minified), len(plain))
}

func TestRender_Deterministic(t *testing.T) {
	first, err := Render(sampleDocument())
	require.NoError(t, err)
	second, err := Render(sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRender_LoadsMathJaxOnlyForMath(t *testing.T) {
	doc := sampleDocument()
	doc.Body += `<p><span class="math inline">\(x\)</span></p>`

	out, err := Render(doc)
	require.NoError(t, err)
	assert.Contains(t, out, MathJaxURL)
}

func TestRender_ParsesAsDocument(t *testing.T) {
	out, err := Render(sampleDocument())
	require.NoError(t, err)

	doc, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)

	var navs, mains int
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "nav":
				navs++
			case "main":
				mains++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	assert.Equal(t, 1, navs)
	assert.Equal(t, 1, mains)
}
