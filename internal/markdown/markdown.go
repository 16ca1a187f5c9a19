// Package markdown converts page content into sanitized HTML.
package markdown

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithUnsafe()),
	)

	// Raw HTML passes the renderer (WithUnsafe) and is stripped here
	// instead, so markdown output and embedded HTML face a single policy.
	policy := bluemonday.UGCPolicy()
	policy.AllowRelativeURLs(true)
	policy.RequireNoFollowOnLinks(false)

	return &Renderer{md: md, policy: policy}
}

// Render converts markdown source into sanitized HTML.
func (r *Renderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return r.policy.Sanitize(strings.TrimSpace(buf.String())), nil
}
