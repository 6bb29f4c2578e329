package views

import (
	"net/http"
	"strconv"

	"docsearch/internal/web/appcore"
	"github.com/a-h/templ"
)

var topKOptions = []int{5, 10, 20, 50}

func HomePage(view appcore.HomePageView) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<section class="panel home"><h1>Document search</h1>`)
		hw.raw(`<p>Search the collection by meaning, or browse it page by page.</p>`)
		hw.raw(`<form class="search-form" action="/search" method="get">`)
		hw.raw(`<input type="search" name="q" placeholder="What are you looking for?" autofocus>`)
		hw.raw(`<button type="submit">Search</button></form>`)
		if view.Stats != nil {
			hw.raw(`<dl class="stats"><dt>Documents</dt><dd>`)
			hw.number(view.Stats.TotalDocuments)
			hw.raw(`</dd><dt>Cached in memory</dt><dd>`)
			hw.number(view.Stats.CacheStats.MemoryCachedItems)
			hw.raw(`</dd><dt>Cached on disk</dt><dd>`)
			hw.number(view.Stats.CacheStats.DiskCachedItems)
			hw.raw(`</dd></dl>`)
		} else {
			hw.raw(`<p class="muted">Collection statistics are unavailable right now.</p>`)
		}
		hw.raw(`<p><a href="/browse">Browse all documents</a></p></section>`)
	})
}

func SearchPage(view appcore.SearchPageView) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<section class="panel search"`)
		hw.attr("data-signals", appcore.SearchSignalsJSON(view))
		hw.raw(`><h1>Search</h1>`)
		hw.raw(`<form class="search-form" action="/search" method="get" data-on:submit__prevent="@get('/search')">`)
		hw.raw(`<input type="search" name="q" placeholder="Search documents" data-bind:query`)
		hw.attr("value", view.Query)
		hw.raw(`><select name="top_k" aria-label="Number of results" data-bind:top-k>`)
		for _, option := range topKOptions {
			hw.raw(`<option`)
			hw.attr("value", strconv.Itoa(option))
			if option == view.TopK {
				hw.raw(` selected`)
			}
			hw.raw(`>`)
			hw.number(option)
			hw.raw(`</option>`)
		}
		hw.raw(`</select><button type="submit">Search</button></form>`)
		hw.component(SearchResults(view))
		hw.raw(`</section>`)
	})
}

// SearchResults is the live-patched part of the search page.
func SearchResults(view appcore.SearchPageView) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<div`)
		hw.attr("id", appcore.SearchResultsSelectorID)
		hw.raw(`>`)
		switch {
		case !view.Searched:
			hw.raw(`<p class="muted">Type a query to search the collection.</p>`)
		case len(view.Results) == 0:
			hw.raw(`<p class="muted">No documents match `)
			hw.raw(`<strong>`)
			hw.text(view.Query)
			hw.raw(`</strong>.</p>`)
		default:
			hw.raw(`<p class="muted">`)
			hw.number(len(view.Results))
			hw.raw(` results for <strong>`)
			hw.text(view.Query)
			hw.raw(`</strong></p>`)
			renderCards(hw, view.Results)
		}
		hw.raw(`</div>`)
	})
}

func DocumentPage(view appcore.DocumentPageView) templ.Component {
	return component(func(hw *htmlWriter) {
		doc := view.Document
		hw.raw(`<article class="panel document"><h1>`)
		hw.text(view.PageTitle)
		hw.raw(`</h1>`)

		hw.raw(`<dl class="document-meta">`)
		metaRow(hw, "Authors", joinList(doc.Authors))
		metaRow(hw, "Date", doc.Date)
		metaRow(hw, "Type", doc.Type)
		metaRow(hw, "Language", doc.Language)
		metaRow(hw, "Grade", doc.Grade)
		metaRow(hw, "Keywords", joinList(doc.Keywords))
		metaRow(hw, "UDC subjects", joinList(doc.SubjectsUDC))
		metaRow(hw, "Fields of science", joinList(doc.SubjectsFOS))
		metaRow(hw, "Collections", joinList(doc.Collections))
		metaRow(hw, "Identifier", doc.ID)
		hw.raw(`</dl>`)

		if view.AbstractHTML != "" {
			hw.raw(`<section class="abstract"><h2>Abstract</h2>`)
			if view.AbstractCSS != "" {
				hw.raw(`<style>`, string(view.AbstractCSS), `</style>`)
			}
			hw.raw(string(view.AbstractHTML))
			hw.raw(`</section>`)
		}
		if view.SourceURL != "" {
			hw.raw(`<p><a rel="noopener noreferrer" target="_blank"`)
			hw.attr("href", view.SourceURL)
			hw.raw(`>View in repository</a></p>`)
		}

		hw.raw(`<section class="similar"><h2>Similar documents</h2>`)
		if len(view.Similar) == 0 {
			hw.raw(`<p class="muted">No similar documents found.</p>`)
		} else {
			renderCards(hw, view.Similar)
		}
		hw.raw(`</section></article>`)
	})
}

func BrowsePage(view appcore.BrowsePageView) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<section class="panel browse"`)
		hw.attr("data-signals", appcore.BrowseSignalsJSON(view))
		hw.raw(`><h1>Browse</h1>`)
		hw.component(BrowseList(view))
		hw.raw(`</section>`)
	})
}

// BrowseList is the live-patched part of the browse page.
func BrowseList(view appcore.BrowsePageView) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<div`)
		hw.attr("id", appcore.BrowseListSelectorID)
		hw.raw(`><p class="muted">`)
		hw.number(view.Total)
		hw.raw(` documents</p>`)
		if len(view.Documents) == 0 {
			hw.raw(`<p class="muted">Nothing on this page.</p>`)
		} else {
			renderCards(hw, view.Documents)
		}
		renderPager(hw, view.Pagination)
		hw.raw(`</div>`)
	})
}

func NotFound(view appcore.NotFoundView) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<section class="panel not-found"><h1>404</h1><p>Nothing lives at <code>`)
		hw.text(view.Path)
		hw.raw(`</code>.</p><p><a href="/">Back to the start page</a></p></section>`)
	})
}

func ErrorPage(status int) templ.Component {
	return Layout(errorView{status: status}, component(func(hw *htmlWriter) {
		hw.raw(`<section class="panel error"><h1>`)
		hw.number(status)
		hw.raw(`</h1><p>`)
		hw.text(http.StatusText(status))
		hw.raw(`. The document service may be unavailable; try again shortly.</p></section>`)
	}))
}

type errorView struct {
	status int
}

func (v errorView) LayoutPageTitle() string   { return http.StatusText(v.status) }
func (v errorView) LayoutSearchQuery() string { return "" }
func (v errorView) LayoutActiveView() string  { return "" }

func renderCards(hw *htmlWriter, cards []appcore.ResultCard) {
	hw.raw(`<ol class="cards">`)
	for _, card := range cards {
		hw.raw(`<li class="card"><a class="card-title"`)
		hw.attr("href", card.URL)
		hw.raw(`>`)
		hw.text(card.Title)
		hw.raw(`</a>`)
		if card.HasScore {
			hw.raw(`<span class="score" title="similarity">`)
			hw.text(card.ScoreLabel())
			hw.raw(`</span>`)
		}
		if card.Authors != "" || card.Date != "" || card.Type != "" {
			hw.raw(`<p class="card-meta">`)
			hw.text(joinNonEmpty(" · ", card.Authors, card.Date, card.Type))
			hw.raw(`</p>`)
		}
		if card.Excerpt != "" {
			hw.raw(`<p class="excerpt">`)
			hw.text(card.Excerpt)
			hw.raw(`</p>`)
		}
		hw.raw(`</li>`)
	}
	hw.raw(`</ol>`)
}

func renderPager(hw *htmlWriter, p appcore.PaginationView) {
	if p.TotalPages <= 1 {
		return
	}

	hw.raw(`<nav class="pager" aria-label="Pagination">`)
	if p.HasPrev {
		pagerLink(hw, p.FirstURL, p.FirstPage, "first")
		pagerLink(hw, p.PrevURL, p.PrevPage, "prev")
	}
	hw.raw(`<span class="pager-status">page `)
	hw.number(p.Page)
	hw.raw(` / `)
	hw.number(p.TotalPages)
	hw.raw(`</span>`)
	if p.HasNext {
		pagerLink(hw, p.NextURL, p.NextPage, "next")
		pagerLink(hw, p.LastURL, p.LastPage, "last")
	}
	hw.raw(`</nav>`)
}

func pagerLink(hw *htmlWriter, href string, page int, label string) {
	hw.raw(`<a`)
	hw.attr("href", href)
	hw.attr("data-on:click__prevent", browsePageAction(page))
	hw.raw(`>`)
	hw.text(label)
	hw.raw(`</a>`)
}

func browsePageAction(page int) string {
	if page < 1 {
		page = 1
	}
	return "$page = " + strconv.Itoa(page) + "; @get('/browse')"
}

func metaRow(hw *htmlWriter, label string, value string) {
	if value == "" {
		return
	}
	hw.raw(`<dt>`)
	hw.text(label)
	hw.raw(`</dt><dd>`)
	hw.text(value)
	hw.raw(`</dd>`)
}
