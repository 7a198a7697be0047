// Package sanitize converts markdown job descriptions into HTML that is
// safe to render as trusted markup.
//
// Conversion is two passes: goldmark renders the markdown (GFM extras,
// newline-as-break), then a bluemonday allow-list strips every tag and
// attribute outside a fixed structural/text-formatting set. Disallowed
// content is removed, not escaped. The function is idempotent: already
// sanitized HTML passes through both stages unchanged.
package sanitize

import (
	"bytes"
	"log"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// md renders with raw HTML passthrough: safety is bluemonday's job, and
// escaping here would break idempotence for already-converted input.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		html.WithUnsafe(),
	),
)

var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "strong", "b", "i", "em", "ul", "ol", "li",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"a", "span", "div", "blockquote", "pre", "code",
	)
	p.AllowAttrs("href", "title", "target", "rel").OnElements("a")
	p.AllowAttrs("class").OnElements("div", "span")
	p.AllowStandardURLs()
	p.SkipElementsContent("script", "style")
	return p
}

// unescaper reverses the backslash escapes TheirStack leaves in raw
// markdown descriptions.
var unescaper = strings.NewReplacer(`\-`, "-", `\&`, "&", `\.`, ".")

// Description converts a raw markdown description to allow-listed HTML.
func Description(raw string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(unescaper.Replace(raw)), &buf); err != nil {
		// Conversion failures are rare (writer errors); fall back to
		// sanitizing the raw text so nothing unsafe leaks through.
		log.Printf("[sanitize] Markdown conversion failed: %v", err)
		return policy.Sanitize(raw)
	}
	return policy.Sanitize(buf.String())
}
