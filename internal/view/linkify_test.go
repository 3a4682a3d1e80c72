package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkify_Hashtags(t *testing.T) {
	got := string(Linkify("изучаю #GoLang сегодня"))
	assert.Contains(t, got, `<a class="tag" data-tag="golang">#GoLang</a>`)
	assert.Contains(t, got, "изучаю")
}

func TestLinkify_Mentions(t *testing.T) {
	got := string(Linkify("привет @Alice"))
	assert.Contains(t, got, `<a class="mention" data-username="alice">@Alice</a>`)
}

func TestLinkify_URLs(t *testing.T) {
	got := string(Linkify("см. https://example.com/page"))
	assert.Contains(t, got, `href="https://example.com/page"`)
	assert.Contains(t, got, `rel="noopener noreferrer"`)
}

func TestLinkify_EscapesPlainText(t *testing.T) {
	got := string(Linkify(`<b>bold</b> & "quotes"`))
	assert.NotContains(t, got, "<b>")
	assert.Contains(t, got, "&lt;b&gt;")
	assert.Contains(t, got, "&amp;")
}

func TestLinkify_EscapesInsideLinks(t *testing.T) {
	// A URL with a quote must not break out of the href attribute.
	got := string(Linkify(`https://example.com/"><script>`))
	assert.NotContains(t, got, `"><script>`)
}

func TestLinkify_BarePrefixesStayText(t *testing.T) {
	got := string(Linkify("# alone and @ alone"))
	assert.NotContains(t, got, "<a")
}

func TestLinkify_PreservesWhitespace(t *testing.T) {
	got := string(Linkify("a  b\nc"))
	assert.Contains(t, got, "a  b\nc")
}
