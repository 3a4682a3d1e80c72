package view

import (
	"html/template"
	"strings"
	"unicode"

	"github.com/socialsphere/socialsphere-app/internal/util"
)

// Linkify converts post content into safe markup, turning #tags,
// @mentions and http(s) URLs into anchors. This is a token-prefix
// scan, not markdown: a token either starts with a recognized prefix
// or is emitted as escaped text.
func Linkify(content string) template.HTML {
	var b strings.Builder
	b.Grow(len(content) + 64)

	var token strings.Builder
	flush := func() {
		if token.Len() > 0 {
			writeToken(&b, token.String())
			token.Reset()
		}
	}

	for _, r := range content {
		if unicode.IsSpace(r) {
			flush()
			b.WriteString(template.HTMLEscapeString(string(r)))
			continue
		}
		token.WriteRune(r)
	}
	flush()

	return template.HTML(b.String())
}

// writeToken emits one token, linkified when it carries a known prefix.
func writeToken(b *strings.Builder, token string) {
	switch {
	case strings.HasPrefix(token, "#") && len(token) > 1:
		tag := util.NormalizeTagSlug(token[1:])
		if tag == "" {
			b.WriteString(template.HTMLEscapeString(token))
			return
		}
		b.WriteString(`<a class="tag" data-tag="`)
		b.WriteString(template.HTMLEscapeString(tag))
		b.WriteString(`">`)
		b.WriteString(template.HTMLEscapeString(token))
		b.WriteString(`</a>`)

	case strings.HasPrefix(token, "@") && len(token) > 1:
		b.WriteString(`<a class="mention" data-username="`)
		b.WriteString(template.HTMLEscapeString(strings.ToLower(token[1:])))
		b.WriteString(`">`)
		b.WriteString(template.HTMLEscapeString(token))
		b.WriteString(`</a>`)

	case strings.HasPrefix(token, "http://") || strings.HasPrefix(token, "https://"):
		b.WriteString(`<a class="link" href="`)
		b.WriteString(template.HTMLEscapeString(token))
		b.WriteString(`" rel="noopener noreferrer">`)
		b.WriteString(template.HTMLEscapeString(token))
		b.WriteString(`</a>`)

	default:
		b.WriteString(template.HTMLEscapeString(token))
	}
}
