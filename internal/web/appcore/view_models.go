package appcore

import (
	"html/template"
	"strconv"
	"strings"

	"docsearch/internal/docsapi"
	"docsearch/internal/markdown"
)

const (
	excerptChars     = 280
	cardAuthorsLimit = 3
)

// LayoutView is what the shared page chrome needs from every page view.
type LayoutView interface {
	LayoutPageTitle() string
	LayoutSearchQuery() string
	LayoutActiveView() string
}

type PaginationView struct {
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	FirstPage  int
	LastPage   int
	PrevPage   int
	NextPage   int
	FirstURL   string
	LastURL    string
	PrevURL    string
	NextURL    string
}

type ResultCard struct {
	ID       string
	Title    string
	URL      string
	Authors  string
	Date     string
	Type     string
	Excerpt  string
	Score    float64
	HasScore bool
}

func (c ResultCard) ScoreLabel() string {
	return strconv.FormatFloat(c.Score, 'f', 3, 64)
}

type HomePageView struct {
	PageTitle string
	Stats     *docsapi.Stats
}

type SearchPageView struct {
	PageTitle string
	Query     string
	TopK      int
	Searched  bool
	Results   []ResultCard
}

type DocumentPageView struct {
	PageTitle    string
	Document     docsapi.Document
	AbstractHTML template.HTML
	AbstractCSS  template.CSS
	SourceURL    string
	Similar      []ResultCard
}

type BrowsePageView struct {
	PageTitle  string
	Documents  []ResultCard
	Total      int
	PerPage    int
	Pagination PaginationView
}

type NotFoundView struct {
	Path string
}

func (v HomePageView) LayoutPageTitle() string   { return v.PageTitle }
func (v HomePageView) LayoutSearchQuery() string { return "" }
func (v HomePageView) LayoutActiveView() string  { return ViewHome }

func (v SearchPageView) LayoutPageTitle() string   { return v.PageTitle }
func (v SearchPageView) LayoutSearchQuery() string { return v.Query }
func (v SearchPageView) LayoutActiveView() string  { return ViewSearch }

func (v DocumentPageView) LayoutPageTitle() string   { return v.PageTitle }
func (v DocumentPageView) LayoutSearchQuery() string { return "" }
func (v DocumentPageView) LayoutActiveView() string  { return ViewDocument }

func (v BrowsePageView) LayoutPageTitle() string   { return v.PageTitle }
func (v BrowsePageView) LayoutSearchQuery() string { return "" }
func (v BrowsePageView) LayoutActiveView() string  { return ViewBrowse }

func (v NotFoundView) LayoutPageTitle() string   { return "404 Not Found" }
func (v NotFoundView) LayoutSearchQuery() string { return "" }
func (v NotFoundView) LayoutActiveView() string  { return "" }

func newSearchPageView(state SearchSignalState, result *docsapi.SearchResult) SearchPageView {
	view := SearchPageView{
		PageTitle: "Search",
		Query:     state.Query,
		TopK:      state.TopK,
		Results:   []ResultCard{},
	}
	if state.Query != "" {
		view.PageTitle = "Search: " + state.Query
	}
	if result == nil {
		return view
	}

	view.Searched = true
	view.Results = scoredCards(result.Results, "")
	return view
}

func newDocumentPageView(document docsapi.Document, similar *docsapi.SimilarResult) DocumentPageView {
	view := DocumentPageView{
		PageTitle: documentTitle(document),
		Document:  document,
		AbstractHTML: markdown.ToHTML(document.Abstract, markdown.Options{
			DocumentPath: DocumentPath,
		}),
		SourceURL: sourceURL(document.URI),
		Similar:   []ResultCard{},
	}
	view.AbstractCSS = markdown.AbstractCSS(view.AbstractHTML)
	if similar != nil {
		view.Similar = scoredCards(similar.Results, document.ID)
	}
	return view
}

func newBrowsePageView(page *docsapi.DocumentPage, state BrowseSignalState) BrowsePageView {
	view := BrowsePageView{
		PageTitle: "Browse",
		Documents: []ResultCard{},
		PerPage:   state.PerPage,
	}
	if page == nil {
		view.Pagination = newPaginationView(state.Page, 1, state.PerPage)
		return view
	}

	for _, document := range page.Documents {
		view.Documents = append(view.Documents, newResultCard(document))
	}
	view.Total = page.Total
	if page.PerPage > 0 {
		view.PerPage = page.PerPage
	}

	current := page.Page
	if current < 1 {
		current = state.Page
	}
	view.Pagination = newPaginationView(current, page.TotalPages, view.PerPage)
	if current > 1 {
		view.PageTitle = "Browse: page " + strconv.Itoa(current)
	}
	return view
}

func newPaginationView(page int, totalPages int, perPage int) PaginationView {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}

	hasPrev := page > 1
	hasNext := page < totalPages

	prevPage := page - 1
	if prevPage < 1 {
		prevPage = 1
	}

	nextPage := page + 1
	if nextPage > totalPages {
		nextPage = totalPages
	}

	return PaginationView{
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    hasPrev,
		HasNext:    hasNext,
		FirstPage:  1,
		LastPage:   totalPages,
		PrevPage:   prevPage,
		NextPage:   nextPage,
		FirstURL:   BuildBrowseURL(1, perPage),
		LastURL:    BuildBrowseURL(totalPages, perPage),
		PrevURL:    BuildBrowseURL(prevPage, perPage),
		NextURL:    BuildBrowseURL(nextPage, perPage),
	}
}

func scoredCards(results []docsapi.ScoredDocument, skipID string) []ResultCard {
	cards := make([]ResultCard, 0, len(results))
	for _, result := range results {
		if skipID != "" && result.Document.ID == skipID {
			continue
		}
		card := newResultCard(result.Document)
		card.Score = result.Score
		card.HasScore = true
		cards = append(cards, card)
	}
	return cards
}

func newResultCard(document docsapi.Document) ResultCard {
	return ResultCard{
		ID:      document.ID,
		Title:   documentTitle(document),
		URL:     DocumentPath(document.ID),
		Authors: authorsLine(document.Authors),
		Date:    strings.TrimSpace(document.Date),
		Type:    strings.TrimSpace(document.Type),
		Excerpt: markdown.Excerpt(document.Abstract, excerptChars),
	}
}

func documentTitle(document docsapi.Document) string {
	if title := strings.TrimSpace(document.Title); title != "" {
		return title
	}
	if id := strings.TrimSpace(document.ID); id != "" {
		return id
	}
	return "Untitled document"
}

func authorsLine(authors []string) string {
	names := make([]string, 0, len(authors))
	for _, author := range authors {
		if author = strings.TrimSpace(author); author != "" {
			names = append(names, author)
		}
	}

	if len(names) > cardAuthorsLimit {
		return strings.Join(names[:cardAuthorsLimit], "; ") + " et al."
	}
	return strings.Join(names, "; ")
}

func sourceURL(uri string) string {
	uri = strings.TrimSpace(uri)
	lower := strings.ToLower(uri)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return uri
	}
	if strings.HasPrefix(lower, "hdl:") {
		return "https://hdl.handle.net/" + strings.TrimLeft(uri[len("hdl:"):], "/")
	}
	return ""
}
