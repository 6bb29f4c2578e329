package views

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"docsearch/internal/docsapi"
	"docsearch/internal/web/appcore"
	"github.com/a-h/templ"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()

	var out strings.Builder
	if err := c.Render(context.Background(), &out); err != nil {
		t.Fatalf("render: %v", err)
	}
	return out.String()
}

func TestLayoutMarksActiveViewAndEscapesTitle(t *testing.T) {
	html := render(t, Layout(appcore.SearchPageView{PageTitle: "Search: <b>", Query: `"q"`}, NotFound(appcore.NotFoundView{})))

	if !strings.Contains(html, "<title>Search: &lt;b&gt; :: docsearch</title>") {
		t.Fatalf("expected escaped title, got %s", html)
	}
	if !strings.Contains(html, `<a href="/search" class="active" aria-current="page">Search</a>`) {
		t.Fatalf("expected active search nav, got %s", html)
	}
	if !strings.Contains(html, `value="&#34;q&#34;"`) {
		t.Fatalf("expected escaped query value, got %s", html)
	}
}

func TestSearchResultsStates(t *testing.T) {
	empty := render(t, SearchResults(appcore.SearchPageView{}))
	if !strings.Contains(empty, `<div id="search-results">`) || !strings.Contains(empty, "Type a query") {
		t.Fatalf("unexpected idle results %s", empty)
	}

	none := render(t, SearchResults(appcore.SearchPageView{Query: "zzz", Searched: true}))
	if !strings.Contains(none, "No documents match <strong>zzz</strong>") {
		t.Fatalf("unexpected empty results %s", none)
	}

	found := render(t, SearchResults(appcore.SearchPageView{
		Query:    "cats",
		Searched: true,
		Results: []appcore.ResultCard{
			{Title: "Cats & dogs", URL: "/document/1822/5", Score: 0.25, HasScore: true},
		},
	}))
	if !strings.Contains(found, `href="/document/1822/5"`) || !strings.Contains(found, "Cats &amp; dogs") {
		t.Fatalf("unexpected result card %s", found)
	}
	if !strings.Contains(found, "0.250") {
		t.Fatalf("expected score, got %s", found)
	}
}

func TestSearchPageCarriesSignals(t *testing.T) {
	html := render(t, SearchPage(appcore.SearchPageView{Query: "cats", TopK: 20}))

	if !strings.Contains(html, `data-signals="{&#34;query&#34;:&#34;cats&#34;,&#34;topK&#34;:20}"`) {
		t.Fatalf("expected signals, got %s", html)
	}
	if !strings.Contains(html, `<option value="20" selected>`) {
		t.Fatalf("expected selected top_k, got %s", html)
	}
}

func TestDocumentPageRendersMetadataAndAbstract(t *testing.T) {
	html := render(t, DocumentPage(appcore.DocumentPageView{
		PageTitle: "Dense retrieval",
		Document: docsapi.Document{
			ID:       "1822/1",
			Authors:  []string{"Silva, A.", "Costa, B."},
			Keywords: []string{"search"},
		},
		AbstractHTML: "<p>abstract</p>",
		SourceURL:    "https://hdl.handle.net/1822/1",
	}))

	for _, want := range []string{
		"<h1>Dense retrieval</h1>",
		"<dd>Silva, A.; Costa, B.</dd>",
		"<p>abstract</p>",
		`href="https://hdl.handle.net/1822/1"`,
		"No similar documents found.",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in %s", want, html)
		}
	}
	if strings.Contains(html, "<dt>Grade</dt>") {
		t.Fatalf("expected empty fields to be skipped, got %s", html)
	}
	if strings.Contains(html, "<style>") {
		t.Fatalf("did not expect highlighting styles for an abstract without code, got %s", html)
	}
}

func TestDocumentPageEmbedsAbstractStyles(t *testing.T) {
	html := render(t, DocumentPage(appcore.DocumentPageView{
		PageTitle:    "Query parsing",
		AbstractHTML: `<pre class="chroma"><code>x</code></pre>`,
		AbstractCSS:  ".abstract .chroma { color: #000 }",
	}))

	if !strings.Contains(html, `<section class="abstract"><h2>Abstract</h2><style>.abstract .chroma { color: #000 }</style>`) {
		t.Fatalf("expected scoped styles inside the abstract section, got %s", html)
	}
}

func TestBrowseListPager(t *testing.T) {
	html := render(t, BrowseList(appcore.BrowsePageView{
		Total: 30,
		Pagination: appcore.PaginationView{
			Page: 2, TotalPages: 3, HasPrev: true, HasNext: true,
			FirstPage: 1, PrevPage: 1, NextPage: 3, LastPage: 3,
			FirstURL: "/browse", PrevURL: "/browse", NextURL: "/browse?page=3", LastURL: "/browse?page=3",
		},
	}))

	if !strings.Contains(html, `<div id="browse-list">`) {
		t.Fatalf("expected browse list selector, got %s", html)
	}
	if !strings.Contains(html, "page 2 / 3") {
		t.Fatalf("expected pager status, got %s", html)
	}
	if !strings.Contains(html, `data-on:click__prevent="$page = 3; @get(&#39;/browse&#39;)"`) {
		t.Fatalf("expected next page action, got %s", html)
	}
}

func TestErrorPage(t *testing.T) {
	html := render(t, ErrorPage(http.StatusInternalServerError))
	if !strings.Contains(html, "<h1>500</h1>") || !strings.Contains(html, "<title>Internal Server Error :: docsearch</title>") {
		t.Fatalf("unexpected error page %s", html)
	}
}
