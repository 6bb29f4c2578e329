package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	abstractScope      = ".abstract"
	abstractLightStyle = "xcode"
	abstractDarkStyle  = "github-dark"

	highlightedBlockMarker = `class="chroma"`
)

var (
	abstractCSSOnce sync.Once
	abstractCSS     template.CSS
)

// AbstractCSS returns the highlighting rules for code blocks in a rendered
// abstract, scoped to the abstract section. It is empty when rendered has no
// code block.
func AbstractCSS(rendered template.HTML) template.CSS {
	if !strings.Contains(string(rendered), highlightedBlockMarker) {
		return ""
	}

	abstractCSSOnce.Do(func() {
		abstractCSS = template.CSS(buildAbstractCSS())
	})
	return abstractCSS
}

func codeFormatter() *chromahtml.Formatter {
	return chromahtml.New(chromahtml.WithClasses(true))
}

func buildAbstractCSS() string {
	schemes := []struct {
		media string
		style string
	}{
		{media: "light", style: abstractLightStyle},
		{media: "dark", style: abstractDarkStyle},
	}

	var out strings.Builder
	for _, scheme := range schemes {
		rules := scopedStyleCSS(scheme.style, abstractScope)
		if rules == "" {
			continue
		}
		fmt.Fprintf(&out, "@media (prefers-color-scheme: %s) {\n%s}\n", scheme.media, rules)
	}

	return out.String()
}

// scopedStyleCSS prefixes every rule chroma writes (one per line) with scope.
func scopedStyleCSS(styleName string, scope string) string {
	var buffer bytes.Buffer
	if err := codeFormatter().WriteCSS(&buffer, styles.Get(styleName)); err != nil {
		return ""
	}

	var out strings.Builder
	for _, line := range strings.Split(buffer.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out.WriteString(scope)
		out.WriteString(" ")
		out.WriteString(line)
		out.WriteString("\n")
	}

	return out.String()
}
