package markdown

import (
	"strings"
	"testing"
)

func documentPath(id string) string {
	return "/document/" + id
}

func TestToHTML_RewritesDocumentLinks(t *testing.T) {
	html := string(ToHTML("see [related](doc:1822/54321)", Options{DocumentPath: documentPath}))

	if !strings.Contains(html, `href="/document/1822/54321"`) {
		t.Fatalf("expected document href, got %s", html)
	}
	if strings.Contains(html, `target="_blank"`) {
		t.Fatalf("did not expect target blank for document links, got %s", html)
	}
}

func TestToHTML_UnresolvedDocumentLinksRenderAsText(t *testing.T) {
	html := string(ToHTML("[related](doc:42)", Options{}))

	if strings.Contains(html, "href=") {
		t.Fatalf("expected no link without a document mapper, got %s", html)
	}
	if !strings.Contains(html, "related") {
		t.Fatalf("expected link text to survive, got %s", html)
	}
}

func TestToHTML_NeutralizesScriptLinks(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "javascript", input: "See [details](javascript:alert(document.cookie)) here."},
		{name: "mixed case", input: "See [details](JaVaScRiPt:alert(1)) here."},
		{name: "vbscript", input: "See [details](vbscript:msgbox(1)) here."},
		{name: "data", input: "See [details](data:text/html;base64,PHNjcmlwdD4=) here."},
		{name: "image", input: "![chart](javascript:alert(1))"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			html := strings.ToLower(string(ToHTML(tc.input, Options{})))

			for _, scheme := range []string{"javascript:", "vbscript:", "data:"} {
				if strings.Contains(html, scheme) {
					t.Fatalf("expected %s to be dropped, got %s", scheme, html)
				}
			}
		})
	}

	html := string(ToHTML("See [details](javascript:alert(1)) here.", Options{}))
	if !strings.Contains(html, "details") {
		t.Fatalf("expected link text to survive, got %s", html)
	}
}

func TestToHTML_KeepsSafeLinks(t *testing.T) {
	html := string(ToHTML("[a](https://example.org/x) [b](mailto:lib@example.org) [c](/browse)", Options{}))

	for _, want := range []string{`href="https://example.org/x"`, `href="mailto:lib@example.org"`, `href="/browse"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %s, got %s", want, html)
		}
	}
}

func TestToHTML_ResolvesHandleLinks(t *testing.T) {
	html := string(ToHTML("[handle](hdl:1822/54321)", Options{}))

	if !strings.Contains(html, `href="https://hdl.handle.net/1822/54321"`) {
		t.Fatalf("expected handle resolver href, got %s", html)
	}
	if !strings.Contains(html, `target="_blank"`) {
		t.Fatalf("expected target blank, got %s", html)
	}
	if !strings.Contains(html, `rel="noopener noreferrer"`) {
		t.Fatalf("expected external rel attrs, got %s", html)
	}
}

func TestToHTML_NormalizesSameDomainAbsoluteLinks(t *testing.T) {
	html := string(ToHTML("[same](https://search.example.org/browse?page=2#top)", Options{
		RootURL: "https://search.example.org",
	}))

	if !strings.Contains(html, `href="/browse?page=2#top"`) {
		t.Fatalf("expected normalized same-domain href, got %s", html)
	}
	if strings.Contains(html, `rel="noopener noreferrer"`) {
		t.Fatalf("did not expect rel attrs for same-domain absolute links, got %s", html)
	}
}

func TestToHTML_DropsRawHTML(t *testing.T) {
	html := string(ToHTML("before <script>alert(1)</script> after", Options{}))

	if strings.Contains(html, "<script>") {
		t.Fatalf("expected raw html to be skipped, got %s", html)
	}
}

func TestToHTML_HighlightsCodeBlocks(t *testing.T) {
	source := "```go\nfmt.Println(\"hello\")\n```"
	html := string(ToHTML(source, Options{}))

	if !strings.Contains(html, `class="chroma"`) {
		t.Fatalf("expected chroma class for fenced code block, got %s", html)
	}
	if !strings.Contains(html, "Println") {
		t.Fatalf("expected code content in rendered block, got %s", html)
	}
}

func TestToHTML_RendersInlineCodeClass(t *testing.T) {
	html := string(ToHTML("Use `go test ./...` now.", Options{}))

	if !strings.Contains(html, `<code class="inline-code">go test ./...</code>`) {
		t.Fatalf("expected inline code class, got %s", html)
	}
}

func TestToHTML_EmptyInput(t *testing.T) {
	if html := ToHTML("   ", Options{}); html != "" {
		t.Fatalf("expected empty html, got %q", html)
	}
}

func TestExcerpt_RemovesLinkTargets(t *testing.T) {
	input := "A survey of retrieval models. Full text at [the repository](hdl:1822/54321)"
	got := Excerpt(input, 300)

	if strings.Contains(got, "hdl:") {
		t.Fatalf("expected no link target in excerpt, got %s", got)
	}
	if !strings.Contains(got, "the repository") {
		t.Fatalf("expected human-readable link text to stay in excerpt, got %s", got)
	}
}

func TestExcerpt_StripsMarkupAndEntities(t *testing.T) {
	got := Excerpt("<p>Sparse &amp; dense <b>retrieval</b></p>", 300)
	if got != "Sparse & dense retrieval" {
		t.Fatalf("expected plain text, got %q", got)
	}
}

func TestExcerpt_TruncatesOnWordBoundary(t *testing.T) {
	got := Excerpt("alpha beta gamma delta", 12)
	if got != "alpha beta..." {
		t.Fatalf("expected graceful word truncation, got %q", got)
	}
}

func TestAbstractCSS_ScopedToAbstractSection(t *testing.T) {
	rendered := ToHTML("```go\nfmt.Println(1)\n```", Options{})
	css := string(AbstractCSS(rendered))

	if !strings.Contains(css, "prefers-color-scheme: light") || !strings.Contains(css, "prefers-color-scheme: dark") {
		t.Fatalf("expected light and dark blocks, got %q", css)
	}

	for _, line := range strings.Split(css, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "}" || strings.HasPrefix(line, "@media") {
			continue
		}
		if !strings.HasPrefix(line, ".abstract ") {
			t.Fatalf("expected rule scoped to .abstract, got %q", line)
		}
	}
	if !strings.Contains(css, ".abstract .chroma") {
		t.Fatalf("expected scoped chroma wrapper rule, got %q", css)
	}
}

func TestAbstractCSS_EmptyWithoutCode(t *testing.T) {
	rendered := ToHTML("A plain abstract about retrieval.", Options{})
	if css := AbstractCSS(rendered); css != "" {
		t.Fatalf("expected no css for abstract without code, got %q", css)
	}
}
